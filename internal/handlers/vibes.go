package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"vibemint/api/internal/middleware"
	"vibemint/api/internal/vibes"
)

type createVibeRequest struct {
	Emoji    string `json:"emoji"`
	Color    string `json:"color"`
	Phrase   string `json:"phrase"`
	ImageURI string `json:"imageURI"`
}

func (h HandlerSet) ListVibes(c *gin.Context) {
	view, ok := parseView(c.DefaultQuery("view", string(vibes.ViewLatest)))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "view must be latest or popular"})
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	size, _ := strconv.Atoi(c.Query("size"))

	result, err := h.feed.LoadPage(c.Request.Context(), view, page, size)
	if err != nil {
		h.renderVibeError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h HandlerSet) GetVibe(c *gin.Context) {
	id, ok := parseVibeID(c)
	if !ok {
		return
	}

	vibe, err := h.vibes.Get(c.Request.Context(), id)
	if err != nil {
		h.renderVibeError(c, err)
		return
	}

	c.JSON(http.StatusOK, vibe)
}

func (h HandlerSet) CreateVibe(c *gin.Context) {
	address, _ := middleware.WalletAddress(c)

	var req createVibeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "malformed request body"})
		return
	}

	handle, err := h.vibes.Create(c.Request.Context(), address, vibes.NewVibe{
		Emoji:    req.Emoji,
		Color:    req.Color,
		Phrase:   req.Phrase,
		ImageURI: req.ImageURI,
	})
	if err != nil {
		h.renderVibeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, handle)
}

func (h HandlerSet) LikeVibe(c *gin.Context) {
	address, _ := middleware.WalletAddress(c)

	id, ok := parseVibeID(c)
	if !ok {
		return
	}

	handle, err := h.vibes.Like(c.Request.Context(), address, id)
	if err != nil {
		h.renderVibeError(c, err)
		return
	}

	c.JSON(http.StatusOK, handle)
}

func (h HandlerSet) HasLiked(c *gin.Context) {
	id, ok := parseVibeID(c)
	if !ok {
		return
	}

	address, connected := middleware.WalletAddress(c)
	if !connected {
		c.JSON(http.StatusOK, gin.H{"liked": false})
		return
	}

	liked, err := h.vibes.HasLiked(c.Request.Context(), id, address)
	if err != nil {
		h.renderVibeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"liked": liked})
}

func (h HandlerSet) Streak(c *gin.Context) {
	address := c.Param("address")

	streak, err := h.vibes.Streak(c.Request.Context(), address)
	if err != nil {
		h.renderVibeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"address": address, "streak": streak})
}

func parseView(raw string) (vibes.View, bool) {
	switch vibes.View(raw) {
	case vibes.ViewLatest:
		return vibes.ViewLatest, true
	case vibes.ViewPopular:
		return vibes.ViewPopular, true
	default:
		return "", false
	}
}

func parseVibeID(c *gin.Context) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "vibe id must be a positive integer"})
		return 0, false
	}
	return id, true
}

// renderVibeError maps the domain taxonomy onto status codes. Chain
// failures surface as 502 so clients can tell our bug from a node outage.
func (h HandlerSet) renderVibeError(c *gin.Context, err error) {
	var verr *vibes.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{"error": verr.Reason})
	case errors.Is(err, vibes.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "vibe not found"})
	case errors.Is(err, vibes.ErrAlreadyLiked):
		c.JSON(http.StatusConflict, gin.H{"error": "already liked"})
	default:
		h.log.Error().Err(err).Str("path", c.FullPath()).Msg("contract operation failed")
		c.JSON(http.StatusBadGateway, gin.H{"error": "chain unavailable"})
	}
}
