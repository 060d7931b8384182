package controllers

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"foodcal/services"

	"github.com/gin-gonic/gin"
)

// RecognizeRequest is the analyze payload. FoodName is an optional hint
// consumed by mock/test deployments.
type RecognizeRequest struct {
	Image    string `json:"image"`
	FoodName string `json:"food_name"`
}

type RecognitionController struct {
	Svc       *services.RecognitionService
	Debug     bool
	startedAt time.Time
}

func NewRecognitionController(svc *services.RecognitionService, debug bool) *RecognitionController {
	return &RecognitionController{
		Svc:       svc,
		Debug:     debug,
		startedAt: time.Now(),
	}
}

// GET /
func (h *RecognitionController) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"message": "food calorie recognition service running",
		"availableEndpoints": []string{
			"/api/health",
			"/api/recognize-food",
		},
	})
}

// GET /api/health
func (h *RecognitionController) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":              "ok",
		"timestamp":           time.Now().Format(time.RFC3339),
		"uptime":              time.Since(h.startedAt).Seconds(),
		"apiKeyConfigured":    h.Svc.Configured(),
		"aiClientInitialized": true,
	})
}

// POST /api/recognize-food  { "image": "<data-URI or base64>", "food_name": "optional hint" }
func (h *RecognitionController) RecognizeFood(c *gin.Context) {
	var req RecognizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, http.StatusBadRequest, "invalid request body", err)
		return
	}

	result, err := h.Svc.Analyze(c.Request.Context(), req.Image, req.FoodName)
	if err != nil {
		status, msg := classifyAnalyzeError(err)
		h.fail(c, status, msg, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    result,
	})
}

// classifyAnalyzeError maps service failures onto the HTTP surface:
// invalid-input and configuration are 400s, provider and internal
// failures are 500s.
func classifyAnalyzeError(err error) (int, string) {
	switch {
	case errors.Is(err, services.ErrMissingImage):
		return http.StatusBadRequest, "missing image data, please upload a valid food image"
	case errors.Is(err, services.ErrNotConfigured):
		return http.StatusBadRequest, "configuration error: vision API key is not set"
	}

	var provider *services.ProviderError
	if errors.As(err, &provider) {
		if provider.StatusCode == http.StatusUnauthorized {
			return http.StatusInternalServerError, "AI provider rejected the configured credential"
		}
		return http.StatusInternalServerError, "AI recognition failed, please retry later"
	}

	var netErr net.Error
	if errors.As(err, &netErr) || errors.Is(err, context.DeadlineExceeded) {
		return http.StatusInternalServerError, "AI recognition service is temporarily unavailable"
	}

	return http.StatusInternalServerError, "internal server error"
}

func (h *RecognitionController) fail(c *gin.Context, status int, msg string, err error) {
	body := gin.H{
		"success": false,
		"error":   msg,
	}
	if h.Debug && err != nil {
		body["debug"] = err.Error()
	}
	c.JSON(status, body)
}
