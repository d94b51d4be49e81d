package api

import (
	"errors"
	"io"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nimmigupta/bus25-FridgeVision/internal/service"
)

// RecognizeHandler handles photo recognition requests
type RecognizeHandler struct {
	pipeline *service.Pipeline
}

// NewRecognizeHandler creates a new RecognizeHandler instance
func NewRecognizeHandler(pipeline *service.Pipeline) *RecognizeHandler {
	return &RecognizeHandler{pipeline: pipeline}
}

// RegisterRoutes registers the recognition routes
func (h *RecognizeHandler) RegisterRoutes(router *gin.RouterGroup, limiter gin.HandlerFunc) {
	if limiter != nil {
		router.POST("/recognize", limiter, h.Recognize)
	} else {
		router.POST("/recognize", h.Recognize)
	}
}

// Recognize accepts a multipart photo upload and returns the gate
// decision. A rejection is a 422 with a friendly reason, not an error.
func (h *RecognizeHandler) Recognize(c *gin.Context) {
	fileHeader, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "image file is required"})
		return
	}

	// Reject oversized uploads on the declared part size before
	// buffering the body.
	if fileHeader.Size > h.pipeline.MaxImageBytes() {
		h.writeRecognizeError(c, service.ErrImageTooLarge)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to open upload"})
		return
	}
	defer func() { _ = file.Close() }()

	data, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read upload"})
		return
	}

	decision, err := h.pipeline.Recognize(c.Request.Context(), data, fileHeader.Header.Get("Content-Type"))
	if err != nil {
		h.writeRecognizeError(c, err)
		return
	}

	if !decision.Accepted {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"accepted": false,
			"reason":   decision.Reason,
			"notes":    decision.Notes,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"accepted": true,
		"items":    decision.Items,
		"notes":    decision.Notes,
	})
}

func (h *RecognizeHandler) writeRecognizeError(c *gin.Context, err error) {
	var svcErr *service.RecognitionServiceError
	switch {
	case errors.Is(err, service.ErrImageTooLarge):
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrUnsupportedFormat):
		c.JSON(http.StatusUnsupportedMediaType, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrNotConfigured):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "food recognition is not configured"})
	case errors.As(err, &svcErr):
		c.JSON(http.StatusBadGateway, gin.H{
			"error":     "food recognition is temporarily unavailable",
			"retryable": svcErr.Retryable,
		})
	default:
		log.Printf("[RecognizeHandler] unexpected error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
