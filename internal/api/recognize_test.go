package api

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nimmigupta/bus25-FridgeVision/internal/model"
	"github.com/nimmigupta/bus25-FridgeVision/internal/service"
)

var jpegBytes = []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10, 'J', 'F', 'I', 'F', 0x00}

type stubRecognizer struct {
	calls  int
	result *model.RecognitionResult
	err    error
}

func (s *stubRecognizer) Recognize(ctx context.Context, img *service.ValidatedImage) (*model.RecognitionResult, error) {
	s.calls++
	return s.result, s.err
}

func newRecognizeRouter(rec service.FoodRecognizer) *gin.Engine {
	pipeline := service.NewPipeline(
		service.NewImageIntake(10<<20),
		rec,
		service.NewConfidenceGate(0.6),
		nil,
		service.NewFavoritesStore(nil),
		nil,
		nil,
	)
	router := gin.New()
	v1 := router.Group("/api/v1")
	NewRecognizeHandler(pipeline).RegisterRoutes(v1, nil)
	return router
}

func multipartImage(t *testing.T, data []byte) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("image", "fridge.jpg")
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, writer.Close())
	return body, writer.FormDataContentType()
}

func TestRecognizeEndpoint(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("accepted photo returns the item list", func(t *testing.T) {
		rec := &stubRecognizer{result: &model.RecognitionResult{
			IsFood: true,
			Items: []model.DetectedItem{
				{Name: "egg", Confidence: 0.9},
				{Name: "milk", Confidence: 0.85},
			},
			Notes:             "dairy and eggs",
			OverallConfidence: 0.875,
		}}
		router := newRecognizeRouter(rec)

		body, contentType := multipartImage(t, jpegBytes)
		req := httptest.NewRequest(http.MethodPost, "/api/v1/recognize", body)
		req.Header.Set("Content-Type", contentType)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		var resp struct {
			Accepted bool     `json:"accepted"`
			Items    []string `json:"items"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.True(t, resp.Accepted)
		assert.Equal(t, []string{"egg", "milk"}, resp.Items)
		assert.Equal(t, 1, rec.calls)
	})

	t.Run("non-food photo is a 422 with a friendly reason", func(t *testing.T) {
		rec := &stubRecognizer{result: &model.RecognitionResult{IsFood: false, Notes: "a laptop"}}
		router := newRecognizeRouter(rec)

		body, contentType := multipartImage(t, jpegBytes)
		req := httptest.NewRequest(http.MethodPost, "/api/v1/recognize", body)
		req.Header.Set("Content-Type", contentType)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusUnprocessableEntity, w.Code)
		var resp struct {
			Accepted bool   `json:"accepted"`
			Reason   string `json:"reason"`
			Notes    string `json:"notes"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.False(t, resp.Accepted)
		assert.NotEmpty(t, resp.Reason)
		assert.Equal(t, "a laptop", resp.Notes)
	})

	t.Run("oversized upload is a 413 and the recognizer is never invoked", func(t *testing.T) {
		rec := &stubRecognizer{}
		router := newRecognizeRouter(rec)

		big := make([]byte, 12<<20)
		copy(big, jpegBytes)
		body, contentType := multipartImage(t, big)
		req := httptest.NewRequest(http.MethodPost, "/api/v1/recognize", body)
		req.Header.Set("Content-Type", contentType)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
		assert.Equal(t, 0, rec.calls)
	})

	t.Run("unsupported format is a 415", func(t *testing.T) {
		rec := &stubRecognizer{}
		router := newRecognizeRouter(rec)

		body, contentType := multipartImage(t, []byte("GIF89a not allowed"))
		req := httptest.NewRequest(http.MethodPost, "/api/v1/recognize", body)
		req.Header.Set("Content-Type", contentType)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnsupportedMediaType, w.Code)
		assert.Equal(t, 0, rec.calls)
	})

	t.Run("missing credential is a 503", func(t *testing.T) {
		router := newRecognizeRouter(nil)

		body, contentType := multipartImage(t, jpegBytes)
		req := httptest.NewRequest(http.MethodPost, "/api/v1/recognize", body)
		req.Header.Set("Content-Type", contentType)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	})

	t.Run("service failure is a 502 with the retryable flag", func(t *testing.T) {
		rec := &stubRecognizer{err: &service.RecognitionServiceError{Retryable: true, Err: context.DeadlineExceeded}}
		router := newRecognizeRouter(rec)

		body, contentType := multipartImage(t, jpegBytes)
		req := httptest.NewRequest(http.MethodPost, "/api/v1/recognize", body)
		req.Header.Set("Content-Type", contentType)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusBadGateway, w.Code)
		var resp struct {
			Retryable bool `json:"retryable"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.True(t, resp.Retryable)
	})

	t.Run("missing file is a 400", func(t *testing.T) {
		router := newRecognizeRouter(&stubRecognizer{})

		req := httptest.NewRequest(http.MethodPost, "/api/v1/recognize", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
