package review

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/nuvia/nutrition-advisor/internal/domain/recommend"
	apperrors "github.com/nuvia/nutrition-advisor/pkg/errors"
	"github.com/nuvia/nutrition-advisor/pkg/util"
)

// Error codes surfaced by the review queue.
const (
	CodeNotFound      = "review_not_found"
	CodeInvalidAction = "invalid_review_action"
	CodeInvalidInput  = "invalid_input"
)

// Service manages the human review queue for high-risk sessions.
type Service interface {
	RiskLevelFor(profile recommend.HealthProfile, items []recommend.Item) RiskLevel
	ShouldRequireReview(profile recommend.HealthProfile, items []recommend.Item) bool
	EnqueueIfHighRisk(ctx context.Context, sessionID string, profile recommend.HealthProfile, items []recommend.Item) (Item, bool, error)
	Get(ctx context.Context, reviewID string) (Item, error)
	ListReviews(ctx context.Context, filter Filter, page, pageSize int) (List, error)
	Approve(ctx context.Context, reviewID, reviewerID, resolutionNote string) (Item, error)
	Reject(ctx context.Context, reviewID, reviewerID, resolutionNote string) (Item, error)
	Assign(ctx context.Context, reviewID, reviewerID string) (Item, error)
	Unassign(ctx context.Context, reviewID string) (Item, error)
	GetStats(ctx context.Context) (Stats, error)
}

type service struct {
	repo   Repository
	logger *slog.Logger
}

// NewService wires up the review queue.
func NewService(repo Repository, logger *slog.Logger) Service {
	return &service{
		repo:   repo,
		logger: logger.With("component", "review.service"),
	}
}

// RiskLevelFor scores the health context: 50 points per critical allergy,
// 20 per high-risk condition, 15 per high-risk medication, 5 per safety
// warning on the recommendations, 10 per item needing professional consult.
// CRITICAL at 50+, HIGH at 30+, MEDIUM at 10+, LOW below.
func (s *service) RiskLevelFor(profile recommend.HealthProfile, items []recommend.Item) RiskLevel {
	score := 0

	for _, allergy := range profile.Allergies {
		if matchesAny(allergy, criticalAllergies) {
			score += 50
		}
	}
	for _, condition := range profile.ChronicConditions {
		if matchesAny(condition, highRiskConditions) {
			score += 20
		}
	}
	for _, medication := range profile.Medications {
		if matchesAny(medication, highRiskMedications) {
			score += 15
		}
	}
	for _, item := range items {
		score += len(item.Safety.Warnings) * 5
		if item.Safety.RequiresProfessionalConsult {
			score += 10
		}
	}

	switch {
	case score >= 50:
		return RiskCritical
	case score >= 30:
		return RiskHigh
	case score >= 10:
		return RiskMedium
	default:
		return RiskLow
	}
}

func (s *service) ShouldRequireReview(profile recommend.HealthProfile, items []recommend.Item) bool {
	level := s.RiskLevelFor(profile, items)
	return level == RiskHigh || level == RiskCritical
}

// EnqueueIfHighRisk files a pending review item when the session scores
// HIGH or CRITICAL. The second return value reports whether an item was
// created. Sessions already queued are not duplicated.
func (s *service) EnqueueIfHighRisk(ctx context.Context, sessionID string, profile recommend.HealthProfile, items []recommend.Item) (Item, bool, error) {
	level := s.RiskLevelFor(profile, items)
	if level != RiskHigh && level != RiskCritical {
		return Item{}, false, nil
	}

	if existing, found, err := s.repo.GetBySessionID(ctx, sessionID); err != nil {
		return Item{}, false, apperrors.Wrap("storage_error", "failed to check for existing review", err)
	} else if found {
		return existing, false, nil
	}

	item := Item{
		ID:        uuid.NewString(),
		SessionID: sessionID,
		Status:    StatusPending,
		RiskLevel: level,
		CreatedAt: util.NowUTC(),
		CaseDetail: &CaseDetail{
			SessionID:       sessionID,
			UserID:          profile.UserID,
			HealthProfile:   profile,
			Recommendations: items,
			CreatedAt:       util.NowUTC(),
		},
	}
	if err := s.repo.Insert(ctx, item); err != nil {
		return Item{}, false, apperrors.Wrap("storage_error", "failed to enqueue review item", err)
	}
	s.logger.Info("review item enqueued", "session_id", sessionID, "risk_level", level)
	return item, true, nil
}

func (s *service) Get(ctx context.Context, reviewID string) (Item, error) {
	item, err := s.repo.GetByID(ctx, reviewID)
	if err != nil {
		return Item{}, apperrors.Wrap(CodeNotFound, fmt.Sprintf("review %s not found", reviewID), err)
	}
	return item, nil
}

func (s *service) ListReviews(ctx context.Context, filter Filter, page, pageSize int) (List, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	items, total, err := s.repo.List(ctx, filter, (page-1)*pageSize, pageSize)
	if err != nil {
		return List{}, apperrors.Wrap("storage_error", "failed to list reviews", err)
	}
	return List{Items: items, Total: total, Page: page, PageSize: pageSize}, nil
}

// Approve releases the recommendations to the user. Only PENDING and
// IN_REVIEW items can be approved.
func (s *service) Approve(ctx context.Context, reviewID, reviewerID, resolutionNote string) (Item, error) {
	return s.resolve(ctx, reviewID, reviewerID, resolutionNote, StatusApproved)
}

// Reject bounces the session back to the user for more information. The
// resolution note is mandatory.
func (s *service) Reject(ctx context.Context, reviewID, reviewerID, resolutionNote string) (Item, error) {
	if strings.TrimSpace(resolutionNote) == "" {
		return Item{}, apperrors.Wrap(CodeInvalidInput, "resolution note is required when rejecting a review", nil)
	}
	return s.resolve(ctx, reviewID, reviewerID, resolutionNote, StatusRejected)
}

func (s *service) resolve(ctx context.Context, reviewID, reviewerID, resolutionNote string, target Status) (Item, error) {
	item, err := s.repo.GetByID(ctx, reviewID)
	if err != nil {
		return Item{}, apperrors.Wrap(CodeNotFound, fmt.Sprintf("review %s not found", reviewID), err)
	}
	if item.Status != StatusPending && item.Status != StatusInReview {
		return Item{}, apperrors.Wrap(CodeInvalidAction,
			fmt.Sprintf("cannot resolve review with status %s", item.Status), nil)
	}

	now := util.NowUTC()
	item.Status = target
	item.ResolvedAt = &now
	item.ResolutionNote = resolutionNote
	item.AssignedTo = reviewerID
	if err := s.repo.Update(ctx, item); err != nil {
		return Item{}, apperrors.Wrap("storage_error", "failed to update review item", err)
	}
	s.logger.Info("review resolved", "review_id", reviewID, "status", target, "reviewer", reviewerID)
	return item, nil
}

func (s *service) Assign(ctx context.Context, reviewID, reviewerID string) (Item, error) {
	item, err := s.repo.GetByID(ctx, reviewID)
	if err != nil {
		return Item{}, apperrors.Wrap(CodeNotFound, fmt.Sprintf("review %s not found", reviewID), err)
	}
	if item.Status != StatusPending && item.Status != StatusInReview {
		return Item{}, apperrors.Wrap(CodeInvalidAction,
			fmt.Sprintf("cannot assign review with status %s", item.Status), nil)
	}
	item.AssignedTo = reviewerID
	item.Status = StatusInReview
	if err := s.repo.Update(ctx, item); err != nil {
		return Item{}, apperrors.Wrap("storage_error", "failed to update review item", err)
	}
	return item, nil
}

func (s *service) Unassign(ctx context.Context, reviewID string) (Item, error) {
	item, err := s.repo.GetByID(ctx, reviewID)
	if err != nil {
		return Item{}, apperrors.Wrap(CodeNotFound, fmt.Sprintf("review %s not found", reviewID), err)
	}
	if item.Status != StatusInReview {
		return Item{}, apperrors.Wrap(CodeInvalidAction,
			fmt.Sprintf("cannot unassign review with status %s", item.Status), nil)
	}
	item.AssignedTo = ""
	item.Status = StatusPending
	if err := s.repo.Update(ctx, item); err != nil {
		return Item{}, apperrors.Wrap("storage_error", "failed to update review item", err)
	}
	return item, nil
}

func (s *service) GetStats(ctx context.Context) (Stats, error) {
	stats := Stats{
		ByStatus:      make(map[Status]int, len(AllStatuses)),
		PendingByRisk: make(map[RiskLevel]int, len(AllRiskLevels)),
	}
	for _, status := range AllStatuses {
		count, err := s.repo.CountByStatus(ctx, status)
		if err != nil {
			return Stats{}, apperrors.Wrap("storage_error", "failed to count reviews", err)
		}
		stats.ByStatus[status] = count
	}
	for _, risk := range AllRiskLevels {
		count, err := s.repo.CountPendingByRisk(ctx, risk)
		if err != nil {
			return Stats{}, apperrors.Wrap("storage_error", "failed to count pending reviews", err)
		}
		stats.PendingByRisk[risk] = count
	}
	stats.TotalPending = stats.ByStatus[StatusPending]
	return stats, nil
}

func matchesAny(value string, markers []string) bool {
	lower := strings.ToLower(value)
	for _, marker := range markers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}
