package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nuvia/nutrition-advisor/internal/domain/recommend"
	"github.com/nuvia/nutrition-advisor/internal/domain/review"
	"github.com/nuvia/nutrition-advisor/internal/domain/scoring"
	"github.com/nuvia/nutrition-advisor/internal/infra/reportstore"
	apperrors "github.com/nuvia/nutrition-advisor/pkg/errors"
)

// Handler wires the public HTTP transport to domain services.
type Handler struct {
	recommendSvc recommend.Service
	reviewSvc    review.Service
	reports      reportstore.Store
	logger       *slog.Logger
}

// NewHandler constructs the public HTTP handler.
func NewHandler(recommendSvc recommend.Service, reviewSvc review.Service, reports reportstore.Store, logger *slog.Logger) *Handler {
	return &Handler{
		recommendSvc: recommendSvc,
		reviewSvc:    reviewSvc,
		reports:      reports,
		logger:       logger.With("component", "http.handler"),
	}
}

// RecommendationRequest is the payload for POST /recommendations.
type RecommendationRequest struct {
	SessionID     string                  `json:"session_id"`
	HealthProfile recommend.HealthProfile `json:"health_profile"`
}

// ReportUploadRequest is the payload for POST /reports.
type ReportUploadRequest struct {
	SessionID  string              `json:"session_id"`
	LabMetrics []scoring.LabMetric `json:"lab_metrics"`
}

// Recommend generates ranked supplement recommendations for a session.
func (h *Handler) Recommend(c *gin.Context) {
	var req RecommendationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}

	result, err := h.recommendSvc.Generate(c.Request.Context(), req.SessionID, req.HealthProfile)
	if err != nil {
		status := http.StatusInternalServerError
		code := "recommendation_failed"
		switch {
		case apperrors.IsCode(err, "invalid_input"):
			status = http.StatusBadRequest
			code = "invalid_request"
		case apperrors.IsCode(err, "llm_error"):
			status = http.StatusBadGateway
			code = "llm_error"
		case apperrors.IsCode(err, "storage_error"):
			status = http.StatusBadGateway
		}
		abortWithError(c, NewHTTPError(status, code, errMessage(err), err))
		return
	}

	if result.RequiresReview {
		if _, created, err := h.reviewSvc.EnqueueIfHighRisk(c.Request.Context(), req.SessionID, req.HealthProfile, result.Items); err != nil {
			h.logger.Error("review enqueue failed", "session_id", req.SessionID, "error", err)
		} else if created {
			h.logger.Info("session queued for review", "session_id", req.SessionID)
		}
	}

	c.JSON(http.StatusOK, result)
}

// UploadReport stores parsed lab metrics for a session so later
// recommendation calls can pick them up.
func (h *Handler) UploadReport(c *gin.Context) {
	var req ReportUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}
	if req.SessionID == "" {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", "session_id is required", nil))
		return
	}
	if len(req.LabMetrics) == 0 {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", "lab_metrics cannot be empty", nil))
		return
	}

	if err := h.reports.Put(c.Request.Context(), req.SessionID, req.LabMetrics); err != nil {
		abortWithError(c, NewHTTPError(http.StatusInternalServerError, "storage_error", errMessage(err), err))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"session_id":   req.SessionID,
		"metric_count": len(req.LabMetrics),
	})
}

// Health reports process liveness.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func errMessage(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
