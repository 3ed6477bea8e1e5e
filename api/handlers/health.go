package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// ArtifactStatus reports which artifacts were loaded at startup
type ArtifactStatus interface {
	ScalerLoaded() bool
	ModelLoaded() bool
}

type HealthHandler struct {
	artifacts ArtifactStatus
	now       func() time.Time
}

func NewHealthHandler(artifacts ArtifactStatus) *HealthHandler {
	return &HealthHandler{artifacts: artifacts, now: time.Now}
}

type HealthResponse struct {
	Status       string    `json:"status" example:"healthy"`
	ModelLoaded  bool      `json:"model_loaded" example:"true"`
	ScalerLoaded bool      `json:"scaler_loaded" example:"true"`
	Timestamp    time.Time `json:"timestamp"`
}

func (h *HealthHandler) status() (model, scaler bool) {
	if h.artifacts == nil {
		return false, false
	}
	return h.artifacts.ModelLoaded(), h.artifacts.ScalerLoaded()
}

// Health godoc
// @Summary Service health
// @Description Liveness plus artifact load state. Always 200 while the process serves requests.
// @Tags Health
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	model, scaler := h.status()
	c.JSON(http.StatusOK, HealthResponse{
		Status:       "healthy",
		ModelLoaded:  model,
		ScalerLoaded: scaler,
		Timestamp:    h.now(),
	})
}

// Ready godoc
// @Summary Readiness probe
// @Description 200 only when both artifacts are loaded
// @Tags Health
// @Produce json
// @Success 200 {object} HealthResponse
// @Failure 503 {object} HealthResponse
// @Router /health/ready [get]
func (h *HealthHandler) Ready(c *gin.Context) {
	model, scaler := h.status()
	resp := HealthResponse{
		Status:       "ready",
		ModelLoaded:  model,
		ScalerLoaded: scaler,
		Timestamp:    h.now(),
	}

	if !model || !scaler {
		resp.Status = "not ready"
		c.JSON(http.StatusServiceUnavailable, resp)
		return
	}

	c.JSON(http.StatusOK, resp)
}
