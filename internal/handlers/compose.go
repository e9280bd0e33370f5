package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"vibemint/api/internal/compose"
	"vibemint/api/internal/middleware"
	"vibemint/api/internal/vibes"
)

type draftUpdateRequest struct {
	Emoji  *string `json:"emoji"`
	Color  *string `json:"color"`
	Phrase *string `json:"phrase"`
}

type draftImageRequest struct {
	ImageURI string `json:"imageURI"`
}

type draftSubmitRequest struct {
	ConfirmPreview bool `json:"confirmPreview"`
}

type draftImageView struct {
	State     compose.SlotState `json:"state"`
	Preview   string            `json:"preview,omitempty"`
	Committed string            `json:"committed,omitempty"`
}

type draftView struct {
	Emoji     string         `json:"emoji"`
	Color     string         `json:"color"`
	Phrase    string         `json:"phrase"`
	Image     draftImageView `json:"image"`
	CanSubmit bool           `json:"canSubmit"`
}

func (h HandlerSet) GetDraft(c *gin.Context) {
	address, _ := middleware.WalletAddress(c)

	var view draftView
	h.drafts.With(address, func(d *compose.Draft) {
		view = renderDraft(d)
	})
	c.JSON(http.StatusOK, view)
}

func (h HandlerSet) UpdateDraft(c *gin.Context) {
	address, _ := middleware.WalletAddress(c)

	var req draftUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "malformed request body"})
		return
	}

	var view draftView
	h.drafts.With(address, func(d *compose.Draft) {
		if req.Emoji != nil {
			d.Emoji = *req.Emoji
		}
		if req.Color != nil {
			d.Color = *req.Color
		}
		if req.Phrase != nil {
			d.Phrase = *req.Phrase
		}
		view = renderDraft(d)
	})

	c.JSON(http.StatusOK, view)
}

// StageDraftImage stages a hosted image URI as the draft's preview. A
// committed image, if any, stays in place until the preview is promoted.
func (h HandlerSet) StageDraftImage(c *gin.Context) {
	address, _ := middleware.WalletAddress(c)

	var req draftImageRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.ImageURI == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "imageURI required"})
		return
	}
	if !h.store.IsTrusted(req.ImageURI) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "imageURI must be a hosted image"})
		return
	}

	var view draftView
	h.drafts.With(address, func(d *compose.Draft) {
		d.Image.Stage(req.ImageURI)
		view = renderDraft(d)
	})

	c.JSON(http.StatusOK, view)
}

func (h HandlerSet) PromoteDraftImage(c *gin.Context) {
	address, _ := middleware.WalletAddress(c)

	var view draftView
	var promoted bool
	h.drafts.With(address, func(d *compose.Draft) {
		promoted = d.Image.Promote()
		view = renderDraft(d)
	})

	if !promoted {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no preview to promote"})
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h HandlerSet) DiscardDraftImage(c *gin.Context) {
	address, _ := middleware.WalletAddress(c)

	var view draftView
	h.drafts.With(address, func(d *compose.Draft) {
		d.Image.DiscardPreview()
		view = renderDraft(d)
	})

	c.JSON(http.StatusOK, view)
}

// SubmitDraft resolves the draft into a mint. A draft whose image is still
// only a preview needs confirmPreview; declining leaves the draft intact.
// The resolve happens under the store's lock; the mint itself does not.
func (h HandlerSet) SubmitDraft(c *gin.Context) {
	address, _ := middleware.WalletAddress(c)

	var req draftSubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "malformed request body"})
		return
	}

	var nv vibes.NewVibe
	var resolveErr error
	h.drafts.With(address, func(d *compose.Draft) {
		nv, resolveErr = d.Resolve(req.ConfirmPreview)
	})
	if resolveErr != nil {
		h.renderVibeError(c, resolveErr)
		return
	}

	handle, err := h.vibes.Create(c.Request.Context(), address, nv)
	if err != nil {
		// Mint failed: the resolved draft stays so the user can retry.
		h.renderVibeError(c, err)
		return
	}

	h.drafts.Clear(address)
	c.JSON(http.StatusCreated, handle)
}

func renderDraft(d *compose.Draft) draftView {
	image := draftImageView{State: d.Image.State()}
	if url, ok := d.Image.Preview(); ok {
		image.Preview = url
	}
	if url, ok := d.Image.Committed(); ok {
		image.Committed = url
	}

	return draftView{
		Emoji:     d.Emoji,
		Color:     d.Color,
		Phrase:    d.Phrase,
		Image:     image,
		CanSubmit: d.CanSubmit(),
	}
}
