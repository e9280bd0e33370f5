package handlers

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"vibemint/api/internal/ingress"
	"vibemint/api/internal/media/sniffer"
)

type generateRequest struct {
	Prompt string `json:"prompt"`
	Type   string `json:"type"`
}

type uploadRequest struct {
	URL string `json:"url"`
}

type imageResponse struct {
	ImageURI string `json:"imageURI"`
}

func (h HandlerSet) GenerateImage(c *gin.Context) {
	var req generateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "malformed request body"})
		return
	}
	if req.Type == "" {
		req.Type = "image"
	}

	hosted, err := h.ingress.GenerateFromPrompt(c.Request.Context(), req.Prompt, req.Type)
	if err != nil {
		h.renderIngressError(c, err, "generate")
		return
	}

	c.JSON(http.StatusOK, imageResponse{ImageURI: hosted})
}

// UploadImage accepts either a multipart file or a JSON body naming a remote
// URL. Both land on the trusted media host before the URI is returned.
func (h HandlerSet) UploadImage(c *gin.Context) {
	if strings.HasPrefix(c.ContentType(), "multipart/") {
		h.uploadMultipart(c)
		return
	}

	var req uploadRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.URL == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "url or file required"})
		return
	}

	hosted, err := h.ingress.IngestRemoteURL(c.Request.Context(), req.URL)
	if err != nil {
		h.renderIngressError(c, err, "upload")
		return
	}

	c.JSON(http.StatusOK, imageResponse{ImageURI: hosted})
}

func (h HandlerSet) uploadMultipart(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file required"})
		return
	}
	defer file.Close()

	// One byte past the cap: the ingress size check stays authoritative
	// without buffering arbitrarily large bodies.
	data, err := io.ReadAll(io.LimitReader(file, ingress.MaxUploadBytes+1))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unreadable file"})
		return
	}

	declaredType := sniffer.MimeTypeFromHTTP(http.Header(header.Header))
	hosted, err := h.ingress.IngestFile(c.Request.Context(), data, declaredType)
	if err != nil {
		h.renderIngressError(c, err, "upload")
		return
	}

	c.JSON(http.StatusOK, imageResponse{ImageURI: hosted})
}

// renderIngressError maps the ingress taxonomy onto the wire: validation
// failures are the caller's fault, everything else is ours.
func (h HandlerSet) renderIngressError(c *gin.Context, err error, op string) {
	var verr *ingress.ValidationError
	if errors.As(err, &verr) {
		c.JSON(http.StatusBadRequest, gin.H{"error": verr.Reason})
		return
	}

	h.log.Error().Err(err).Str("op", op).Msg("image ingress failed")
	c.JSON(http.StatusInternalServerError, gin.H{"error": "image processing failed"})
}
