package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"vibemint/api/internal/vibes"
)

// sampleEmojis seeds the composer picker. Any emoji is accepted; these are
// just the one-tap defaults.
var sampleEmojis = []string{
	"😀", "😎", "🥳", "😴", "🤔", "😭",
	"🔥", "✨", "🌈", "🌊", "🚀", "💜",
}

func (h HandlerSet) FeedPage(c *gin.Context) {
	view, ok := parseView(c.DefaultQuery("view", string(vibes.ViewLatest)))
	if !ok {
		view = vibes.ViewLatest
	}
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))

	result, err := h.feed.LoadPage(c.Request.Context(), view, page, 0)
	loadFailed := err != nil
	if loadFailed {
		h.log.Error().Err(err).Str("view", string(view)).Msg("feed page load failed")
	}

	c.HTML(http.StatusOK, "feed.html", gin.H{
		"Page":       result,
		"View":       view,
		"LoadFailed": loadFailed,
	})
}

func (h HandlerSet) ComposePage(c *gin.Context) {
	c.HTML(http.StatusOK, "compose.html", gin.H{
		"Emojis": sampleEmojis,
		"Colors": vibes.SampleColors,
	})
}
