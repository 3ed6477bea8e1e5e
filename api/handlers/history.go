package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/OldStager01/motortemp/internal/logger"
	"github.com/OldStager01/motortemp/pkg/config"
	"github.com/OldStager01/motortemp/pkg/database/queries"
	"github.com/OldStager01/motortemp/pkg/models"
	"github.com/OldStager01/motortemp/pkg/validation"
)

const maxStatsHours = 24 * 30

type HistoryReader interface {
	GetRecent(ctx context.Context, limit int) ([]models.PredictionRecord, error)
	StatsSince(ctx context.Context, since time.Time) (*queries.RiskStats, error)
}

type HistoryHandler struct {
	repo   HistoryReader
	config *config.APIConfig
	now    func() time.Time
}

// NewHistoryHandler accepts a nil repo when prediction history is disabled.
func NewHistoryHandler(repo HistoryReader, cfg *config.APIConfig) *HistoryHandler {
	return &HistoryHandler{
		repo:   repo,
		config: cfg,
		now:    time.Now,
	}
}

type RecentResponse struct {
	Success bool                      `json:"success" example:"true"`
	Data    []models.PredictionRecord `json:"data"`
	Count   int                       `json:"count" example:"20"`
}

type StatsResponse struct {
	Success bool `json:"success" example:"true"`
	Hours   int  `json:"hours" example:"24"`
	*queries.RiskStats
}

func (h *HistoryHandler) getDefaultLimit() int {
	if h.config != nil && h.config.DefaultLimit > 0 {
		return h.config.DefaultLimit
	}
	return 20
}

func (h *HistoryHandler) getMaxLimit() int {
	if h.config != nil && h.config.MaxLimit > 0 {
		return h.config.MaxLimit
	}
	return 500
}

func (h *HistoryHandler) available(c *gin.Context) bool {
	if h.repo == nil {
		respondError(c, http.StatusServiceUnavailable, CodeHistoryUnavailable, "Prediction history is disabled")
		return false
	}
	return true
}

// Recent godoc
// @Summary Recent predictions
// @Description Most recent persisted predictions, newest first
// @Tags History
// @Produce json
// @Param limit query int false "Number of records (default 20, max 500)"
// @Success 200 {object} RecentResponse
// @Failure 503 {object} ErrorResponse "History disabled"
// @Router /predictions/recent [get]
func (h *HistoryHandler) Recent(c *gin.Context) {
	if !h.available(c) {
		return
	}

	limit := validation.ValidateLimit(h.parseInt(c.Query("limit"), 0), h.getDefaultLimit(), h.getMaxLimit())

	records, err := h.repo.GetRecent(c.Request.Context(), limit)
	if err != nil {
		logger.FromContext(c.Request.Context()).Errorf("Failed to fetch recent predictions: %v", err)
		respondError(c, http.StatusInternalServerError, CodeHistoryUnavailable, "Failed to fetch predictions")
		return
	}

	c.JSON(http.StatusOK, RecentResponse{
		Success: true,
		Data:    records,
		Count:   len(records),
	})
}

// Stats godoc
// @Summary Prediction statistics
// @Description Counts per risk level over the trailing window
// @Tags History
// @Produce json
// @Param hours query int false "Window in hours (default 24, max 720)"
// @Success 200 {object} StatsResponse
// @Failure 400 {object} ErrorResponse "Invalid window"
// @Failure 503 {object} ErrorResponse "History disabled"
// @Router /predictions/stats [get]
func (h *HistoryHandler) Stats(c *gin.Context) {
	if !h.available(c) {
		return
	}

	hours := h.parseInt(c.Query("hours"), 24)
	if hours <= 0 || hours > maxStatsHours {
		respondError(c, http.StatusBadRequest, CodeBadRequest, "hours must be between 1 and 720")
		return
	}

	since := h.now().Add(-time.Duration(hours) * time.Hour)
	stats, err := h.repo.StatsSince(c.Request.Context(), since)
	if err != nil {
		logger.FromContext(c.Request.Context()).Errorf("Failed to compute prediction stats: %v", err)
		respondError(c, http.StatusInternalServerError, CodeHistoryUnavailable, "Failed to compute statistics")
		return
	}

	c.JSON(http.StatusOK, StatsResponse{
		Success:   true,
		Hours:     hours,
		RiskStats: stats,
	})
}

func (h *HistoryHandler) parseInt(s string, defaultVal int) int {
	if s == "" {
		return defaultVal
	}
	if parsed, err := strconv.Atoi(s); err == nil {
		return parsed
	}
	return defaultVal
}
