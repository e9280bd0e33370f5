package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

type healthResponse struct {
	Status      string `json:"status"`
	Chain       string `json:"chain"`
	BlockHeight uint64 `json:"blockHeight,omitempty"`
	Cache       string `json:"cache"`
	Environment string `json:"environment"`
}

func (h HandlerSet) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	chainStatus := "ok"
	height, err := h.chain.GetBlockCount(ctx)
	if err != nil {
		chainStatus = "error"
		h.log.Error().Err(err).Msg("chain ping failed")
	}

	cacheStatus := "ok"
	if h.cache == nil {
		cacheStatus = "disabled"
	} else if err := h.cache.Ping(ctx).Err(); err != nil {
		cacheStatus = "error"
		h.log.Error().Err(err).Msg("redis ping failed")
	}

	c.JSON(http.StatusOK, healthResponse{
		Status:      "ok",
		Chain:       chainStatus,
		BlockHeight: height,
		Cache:       cacheStatus,
		Environment: h.cfg.Environment,
	})
}
