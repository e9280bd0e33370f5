package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"vibemint/api/internal/chain"
	"vibemint/api/internal/compose"
	"vibemint/api/internal/config"
	"vibemint/api/internal/ingress"
	"vibemint/api/internal/middleware"
	"vibemint/api/internal/service"
	"vibemint/api/internal/storage"
	"vibemint/api/internal/vibes"
)

type HandlerSet struct {
	log     zerolog.Logger
	cfg     *config.AppConfig
	chain   *chain.Client
	cache   *redis.Client
	store   *storage.ObjectStore
	feed    *service.FeedService
	vibes   *service.VibeService
	ingress *ingress.Service
	drafts  *compose.Store
}

func NewHandlerSet(log zerolog.Logger, chainClient *chain.Client, cache *redis.Client, store *storage.ObjectStore, cfg *config.AppConfig) HandlerSet {
	contract := vibes.NewChainContract(chainClient, cfg.Chain.ContractHash, cfg.Chain.WaitForLog)
	feedSvc := service.NewFeedService(contract, cache, cfg.Feed, log)
	vibeSvc := service.NewVibeService(contract, cache, log)
	generator := ingress.NewSeededGenerator(cfg.Ingress.PlaceholderBaseURL)
	ingressSvc := ingress.NewService(store, generator, cfg.Ingress.FetchTimeout, log)

	return HandlerSet{
		log:     log,
		cfg:     cfg,
		chain:   chainClient,
		cache:   cache,
		store:   store,
		feed:    feedSvc,
		vibes:   vibeSvc,
		ingress: ingressSvc,
		drafts:  compose.NewStore(0),
	}
}

// Feed exposes the feed service for cache warming jobs.
func (h HandlerSet) Feed() *service.FeedService { return h.feed }

func (h HandlerSet) Register(router *gin.RouterGroup) {
	router.GET("/", h.FeedPage)
	router.GET("/compose", h.ComposePage)

	api := router.Group("/api")
	{
		api.GET("/healthz", h.Health)

		api.GET("/vibes", h.ListVibes)
		api.GET("/vibes/:id", h.GetVibe)
		api.GET("/streak/:address", h.Streak)

		optional := api.Group("")
		optional.Use(middleware.Wallet(false))
		optional.GET("/vibes/:id/liked", h.HasLiked)

		mutating := api.Group("")
		mutating.Use(middleware.Wallet(true))
		mutating.POST("/vibes", h.CreateVibe)
		mutating.POST("/vibes/:id/like", h.LikeVibe)
		mutating.POST("/generate-image", h.GenerateImage)
		mutating.POST("/upload-image", h.UploadImage)

		draft := mutating.Group("/draft")
		draft.GET("", h.GetDraft)
		draft.POST("", h.UpdateDraft)
		draft.POST("/image", h.StageDraftImage)
		draft.POST("/image/promote", h.PromoteDraftImage)
		draft.DELETE("/image", h.DiscardDraftImage)
		draft.POST("/submit", h.SubmitDraft)
	}
}
