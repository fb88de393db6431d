package http

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/nuvia/nutrition-advisor/internal/domain/adminauth"
	"github.com/nuvia/nutrition-advisor/internal/domain/configcenter"
	"github.com/nuvia/nutrition-advisor/internal/domain/review"
	"github.com/nuvia/nutrition-advisor/internal/infra/commercerepo"
	apperrors "github.com/nuvia/nutrition-advisor/pkg/errors"
)

// AdminHandler serves the back-office surface: operator login, config
// lifecycle, human review queue, and commerce slot bindings.
type AdminHandler struct {
	authSvc   adminauth.Service
	configSvc configcenter.Service
	reviewSvc review.Service
	commerce  commercerepo.Repository
	logger    *slog.Logger
}

// NewAdminHandler constructs the admin HTTP handler.
func NewAdminHandler(authSvc adminauth.Service, configSvc configcenter.Service, reviewSvc review.Service, commerce commercerepo.Repository, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{
		authSvc:   authSvc,
		configSvc: configSvc,
		reviewSvc: reviewSvc,
		commerce:  commerce,
		logger:    logger.With("component", "http.admin_handler"),
	}
}

// Login authenticates a back-office operator.
func (h *AdminHandler) Login(c *gin.Context) {
	var req adminauth.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}
	resp, err := h.authSvc.Login(c.Request.Context(), req)
	if err != nil {
		status := http.StatusUnauthorized
		code := "invalid_credentials"
		if apperrors.IsCode(err, "invalid_input") {
			status = http.StatusBadRequest
			code = "invalid_request"
		}
		abortWithError(c, NewHTTPError(status, code, errMessage(err), err))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *AdminHandler) operator(c *gin.Context) configcenter.Operator {
	op := configcenter.Operator{IPAddress: c.ClientIP()}
	if claims, ok := getOperatorClaims(c); ok {
		op.ID = claims.OperatorID
	}
	return op
}

// ---- config center ----

// CreateConfigRequest is the payload for creating a draft version.
type CreateConfigRequest struct {
	ConfigType   string         `json:"config_type"`
	Content      map[string]any `json:"content"`
	ChangeReason string         `json:"change_reason"`
}

// DeployConfigRequest carries the rollout percentage for a deploy.
type DeployConfigRequest struct {
	RolloutPercent int `json:"rollout_percent"`
}

// RollbackConfigRequest names the config type to roll back.
type RollbackConfigRequest struct {
	ConfigType string `json:"config_type"`
}

// CreateConfig files a new draft version.
func (h *AdminHandler) CreateConfig(c *gin.Context) {
	var req CreateConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}
	version, err := h.configSvc.CreateDraft(c.Request.Context(), configcenter.ConfigType(req.ConfigType), req.Content, req.ChangeReason, h.operator(c))
	if err != nil {
		abortConfigError(c, err)
		return
	}
	c.JSON(http.StatusCreated, version)
}

// ApproveConfig moves a draft to APPROVED.
func (h *AdminHandler) ApproveConfig(c *gin.Context) {
	version, err := h.configSvc.Approve(c.Request.Context(), c.Param("id"), h.operator(c))
	if err != nil {
		abortConfigError(c, err)
		return
	}
	c.JSON(http.StatusOK, version)
}

// DeployConfig starts a gradual rollout of an approved version.
func (h *AdminHandler) DeployConfig(c *gin.Context) {
	var req DeployConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}
	version, err := h.configSvc.Deploy(c.Request.Context(), c.Param("id"), req.RolloutPercent, h.operator(c))
	if err != nil {
		abortConfigError(c, err)
		return
	}
	c.JSON(http.StatusOK, version)
}

// ActivateConfig promotes a deploying version to full rollout.
func (h *AdminHandler) ActivateConfig(c *gin.Context) {
	version, err := h.configSvc.Activate(c.Request.Context(), c.Param("id"), h.operator(c))
	if err != nil {
		abortConfigError(c, err)
		return
	}
	c.JSON(http.StatusOK, version)
}

// RollbackConfig restores the most recently retired version of a type.
func (h *AdminHandler) RollbackConfig(c *gin.Context) {
	var req RollbackConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}
	version, err := h.configSvc.Rollback(c.Request.Context(), configcenter.ConfigType(req.ConfigType), h.operator(c))
	if err != nil {
		abortConfigError(c, err)
		return
	}
	c.JSON(http.StatusOK, version)
}

// ActiveConfig returns the currently active version of a type.
func (h *AdminHandler) ActiveConfig(c *gin.Context) {
	version, err := h.configSvc.GetActive(c.Request.Context(), configcenter.ConfigType(c.Query("config_type")))
	if err != nil {
		abortConfigError(c, err)
		return
	}
	c.JSON(http.StatusOK, version)
}

// ConfigHistory lists versions of a type, newest first.
func (h *AdminHandler) ConfigHistory(c *gin.Context) {
	page, pageSize := pagination(c)
	list, err := h.configSvc.History(c.Request.Context(), configcenter.ConfigType(c.Query("config_type")), page, pageSize)
	if err != nil {
		abortConfigError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// ConfigAuditLogs lists the audit trail of one version.
func (h *AdminHandler) ConfigAuditLogs(c *gin.Context) {
	page, pageSize := pagination(c)
	logs, err := h.configSvc.AuditLogs(c.Request.Context(), c.Param("id"), page, pageSize)
	if err != nil {
		abortConfigError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"audit_logs": logs})
}

// ConfigAuditLogsByType lists the audit trail across a config type.
func (h *AdminHandler) ConfigAuditLogsByType(c *gin.Context) {
	page, pageSize := pagination(c)
	logs, err := h.configSvc.AuditLogsByType(c.Request.Context(), configcenter.ConfigType(c.Query("config_type")), page, pageSize)
	if err != nil {
		abortConfigError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"audit_logs": logs})
}

// ---- review queue ----

// ResolveReviewRequest carries the reviewer's note.
type ResolveReviewRequest struct {
	Note string `json:"note"`
}

// ListReviews lists queued items with optional filters.
func (h *AdminHandler) ListReviews(c *gin.Context) {
	page, pageSize := pagination(c)
	filter := review.Filter{
		Status:     review.Status(c.Query("status")),
		RiskLevel:  review.RiskLevel(c.Query("risk_level")),
		AssignedTo: c.Query("assigned_to"),
	}
	if v := c.Query("date_from"); v != "" {
		if ts, err := time.Parse(time.RFC3339, v); err == nil {
			filter.DateFrom = &ts
		}
	}
	if v := c.Query("date_to"); v != "" {
		if ts, err := time.Parse(time.RFC3339, v); err == nil {
			filter.DateTo = &ts
		}
	}
	list, err := h.reviewSvc.ListReviews(c.Request.Context(), filter, page, pageSize)
	if err != nil {
		abortReviewError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// ReviewStats summarizes the queue by status and pending risk.
func (h *AdminHandler) ReviewStats(c *gin.Context) {
	stats, err := h.reviewSvc.GetStats(c.Request.Context())
	if err != nil {
		abortReviewError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// GetReview fetches one item including its case snapshot.
func (h *AdminHandler) GetReview(c *gin.Context) {
	item, err := h.reviewSvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		abortReviewError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

// ApproveReview resolves an item as approved.
func (h *AdminHandler) ApproveReview(c *gin.Context) {
	var req ResolveReviewRequest
	if c.Request.Body != nil && c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
			return
		}
	}
	item, err := h.reviewSvc.Approve(c.Request.Context(), c.Param("id"), h.operatorID(c), req.Note)
	if err != nil {
		abortReviewError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

// RejectReview resolves an item as rejected; a note is mandatory.
func (h *AdminHandler) RejectReview(c *gin.Context) {
	var req ResolveReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}
	item, err := h.reviewSvc.Reject(c.Request.Context(), c.Param("id"), h.operatorID(c), req.Note)
	if err != nil {
		abortReviewError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

// AssignReview claims an item for the calling operator.
func (h *AdminHandler) AssignReview(c *gin.Context) {
	item, err := h.reviewSvc.Assign(c.Request.Context(), c.Param("id"), h.operatorID(c))
	if err != nil {
		abortReviewError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

// UnassignReview returns an item to the pending pool.
func (h *AdminHandler) UnassignReview(c *gin.Context) {
	item, err := h.reviewSvc.Unassign(c.Request.Context(), c.Param("id"))
	if err != nil {
		abortReviewError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (h *AdminHandler) operatorID(c *gin.Context) string {
	if claims, ok := getOperatorClaims(c); ok {
		return claims.OperatorID
	}
	return ""
}

// ---- commerce bindings ----

// UpsertBindingRequest binds a recommendation key to a product slot.
type UpsertBindingRequest struct {
	SlotType  string `json:"slot_type"`
	ProductID string `json:"product_id"`
	OfferID   string `json:"offer_id"`
}

// ListBindings returns all commerce slot bindings.
func (h *AdminHandler) ListBindings(c *gin.Context) {
	bindings, err := h.commerce.List(c.Request.Context())
	if err != nil {
		abortWithError(c, NewHTTPError(http.StatusInternalServerError, "storage_error", errMessage(err), err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"bindings": bindings})
}

// UpsertBinding creates or replaces the binding for a rec key.
func (h *AdminHandler) UpsertBinding(c *gin.Context) {
	var req UpsertBindingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}
	switch req.SlotType {
	case "shopify", "partner", "none":
	default:
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", "slot_type must be shopify, partner, or none", nil))
		return
	}
	binding, err := h.commerce.Upsert(c.Request.Context(), commercerepo.Binding{
		RecKey:    c.Param("recKey"),
		SlotType:  req.SlotType,
		ProductID: req.ProductID,
		OfferID:   req.OfferID,
	})
	if err != nil {
		abortWithError(c, NewHTTPError(http.StatusInternalServerError, "storage_error", errMessage(err), err))
		return
	}
	c.JSON(http.StatusOK, binding)
}

// DeleteBinding removes a binding.
func (h *AdminHandler) DeleteBinding(c *gin.Context) {
	existed, err := h.commerce.Delete(c.Request.Context(), c.Param("recKey"))
	if err != nil {
		abortWithError(c, NewHTTPError(http.StatusInternalServerError, "storage_error", errMessage(err), err))
		return
	}
	if !existed {
		abortWithError(c, NewHTTPError(http.StatusNotFound, "not_found", "binding not found", nil))
		return
	}
	c.Status(http.StatusNoContent)
}

// ---- shared helpers ----

func pagination(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	return page, pageSize
}

func abortConfigError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	code := "config_error"
	switch apperrors.CodeOf(err) {
	case configcenter.CodeInvalidInput:
		status = http.StatusBadRequest
		code = "invalid_request"
	case configcenter.CodeNotFound:
		status = http.StatusNotFound
		code = configcenter.CodeNotFound
	case configcenter.CodeInvalidTransition:
		status = http.StatusConflict
		code = configcenter.CodeInvalidTransition
	case configcenter.CodeNoPreviousVersion:
		status = http.StatusConflict
		code = configcenter.CodeNoPreviousVersion
	}
	abortWithError(c, NewHTTPError(status, code, errMessage(err), err))
}

func abortReviewError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	code := "review_error"
	switch apperrors.CodeOf(err) {
	case review.CodeInvalidInput:
		status = http.StatusBadRequest
		code = "invalid_request"
	case review.CodeNotFound:
		status = http.StatusNotFound
		code = review.CodeNotFound
	case review.CodeInvalidAction:
		status = http.StatusConflict
		code = review.CodeInvalidAction
	}
	abortWithError(c, NewHTTPError(status, code, errMessage(err), err))
}
