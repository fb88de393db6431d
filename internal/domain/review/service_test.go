package review_test

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nuvia/nutrition-advisor/internal/domain/recommend"
	"github.com/nuvia/nutrition-advisor/internal/domain/review"
	"github.com/nuvia/nutrition-advisor/internal/infra/reviewrepo"
	apperrors "github.com/nuvia/nutrition-advisor/pkg/errors"
)

func newTestService() review.Service {
	return review.NewService(reviewrepo.NewMemoryRepository(), slog.Default())
}

func itemWithWarnings(warnings int, consult bool) recommend.Item {
	item := recommend.Item{RecKey: "omega_3", Rank: 1, Confidence: 80}
	for i := 0; i < warnings; i++ {
		item.Safety.Warnings = append(item.Safety.Warnings, "warning")
	}
	item.Safety.RequiresProfessionalConsult = consult
	return item
}

func TestRiskLevelScoring(t *testing.T) {
	svc := newTestService()

	cases := []struct {
		name    string
		profile recommend.HealthProfile
		items   []recommend.Item
		want    review.RiskLevel
	}{
		{"clean profile", recommend.HealthProfile{}, nil, review.RiskLow},
		{"critical allergy alone", recommend.HealthProfile{
			Allergies: []string{"anaphylaxis_history"},
		}, nil, review.RiskCritical},
		{"one high-risk condition", recommend.HealthProfile{
			ChronicConditions: []string{"diabetes"},
		}, nil, review.RiskMedium},
		{"condition plus medication", recommend.HealthProfile{
			ChronicConditions: []string{"heart_disease"},
			Medications:       []string{"warfarin 5mg"},
		}, nil, review.RiskHigh},
		{"warnings push medium", recommend.HealthProfile{}, []recommend.Item{
			itemWithWarnings(2, false),
		}, review.RiskMedium},
		{"consult items accumulate", recommend.HealthProfile{}, []recommend.Item{
			itemWithWarnings(2, true),
			itemWithWarnings(2, true),
			itemWithWarnings(2, true),
		}, review.RiskCritical},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, svc.RiskLevelFor(tc.profile, tc.items))
		})
	}
}

func TestShouldRequireReviewOnlyHighAndCritical(t *testing.T) {
	svc := newTestService()

	assert.False(t, svc.ShouldRequireReview(recommend.HealthProfile{}, nil))
	assert.False(t, svc.ShouldRequireReview(recommend.HealthProfile{
		ChronicConditions: []string{"diabetes"},
	}, nil))
	assert.True(t, svc.ShouldRequireReview(recommend.HealthProfile{
		ChronicConditions: []string{"diabetes", "kidney_disease"},
	}, nil))
}

func TestEnqueueIfHighRisk(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	// Low risk never enqueues.
	_, created, err := svc.EnqueueIfHighRisk(ctx, "session-low", recommend.HealthProfile{}, nil)
	require.NoError(t, err)
	assert.False(t, created)

	profile := recommend.HealthProfile{
		UserID:    "u1",
		Allergies: []string{"severe_food_allergy"},
	}
	item, created, err := svc.EnqueueIfHighRisk(ctx, "session-high", profile, nil)
	require.NoError(t, err)
	require.True(t, created)
	assert.Equal(t, review.StatusPending, item.Status)
	assert.Equal(t, review.RiskCritical, item.RiskLevel)
	require.NotNil(t, item.CaseDetail)
	assert.Equal(t, "u1", item.CaseDetail.UserID)

	// Same session is not enqueued twice.
	again, created, err := svc.EnqueueIfHighRisk(ctx, "session-high", profile, nil)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, item.ID, again.ID)
}

func enqueueCritical(t *testing.T, svc review.Service, sessionID string) review.Item {
	t.Helper()
	item, created, err := svc.EnqueueIfHighRisk(context.Background(), sessionID, recommend.HealthProfile{
		Allergies: []string{"anaphylaxis_history"},
	}, nil)
	require.NoError(t, err)
	require.True(t, created)
	return item
}

func TestApproveFromPending(t *testing.T) {
	svc := newTestService()
	item := enqueueCritical(t, svc, "session-1")

	resolved, err := svc.Approve(context.Background(), item.ID, "reviewer-1", "looks safe")
	require.NoError(t, err)
	assert.Equal(t, review.StatusApproved, resolved.Status)
	assert.Equal(t, "reviewer-1", resolved.AssignedTo)
	require.NotNil(t, resolved.ResolvedAt)
	assert.Equal(t, "looks safe", resolved.ResolutionNote)

	// Resolved items cannot be re-approved.
	_, err = svc.Approve(context.Background(), item.ID, "reviewer-2", "")
	assert.Equal(t, review.CodeInvalidAction, apperrors.CodeOf(err))
}

func TestRejectRequiresNote(t *testing.T) {
	svc := newTestService()
	item := enqueueCritical(t, svc, "session-2")

	_, err := svc.Reject(context.Background(), item.ID, "reviewer-1", "   ")
	assert.Equal(t, review.CodeInvalidInput, apperrors.CodeOf(err))

	resolved, err := svc.Reject(context.Background(), item.ID, "reviewer-1", "needs more lab data")
	require.NoError(t, err)
	assert.Equal(t, review.StatusRejected, resolved.Status)
	assert.Equal(t, "needs more lab data", resolved.ResolutionNote)
}

func TestAssignAndUnassign(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	item := enqueueCritical(t, svc, "session-3")

	assigned, err := svc.Assign(ctx, item.ID, "reviewer-1")
	require.NoError(t, err)
	assert.Equal(t, review.StatusInReview, assigned.Status)
	assert.Equal(t, "reviewer-1", assigned.AssignedTo)

	// Approving from IN_REVIEW is allowed.
	unassigned, err := svc.Unassign(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, review.StatusPending, unassigned.Status)
	assert.Empty(t, unassigned.AssignedTo)

	// Unassign only works from IN_REVIEW.
	_, err = svc.Unassign(ctx, item.ID)
	assert.Equal(t, review.CodeInvalidAction, apperrors.CodeOf(err))
}

func TestGetUnknownReview(t *testing.T) {
	svc := newTestService()
	_, err := svc.Get(context.Background(), "missing")
	assert.Equal(t, review.CodeNotFound, apperrors.CodeOf(err))
}

func TestListOrdersByRiskThenRecency(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	// HIGH risk item.
	_, created, err := svc.EnqueueIfHighRisk(ctx, "session-high", recommend.HealthProfile{
		ChronicConditions: []string{"diabetes", "cancer"},
	}, nil)
	require.NoError(t, err)
	require.True(t, created)

	// CRITICAL risk item created later.
	enqueueCritical(t, svc, "session-critical")

	list, err := svc.ListReviews(ctx, review.Filter{}, 1, 20)
	require.NoError(t, err)
	require.Len(t, list.Items, 2)
	assert.Equal(t, review.RiskCritical, list.Items[0].RiskLevel)
	assert.Equal(t, review.RiskHigh, list.Items[1].RiskLevel)
}

func TestListFilters(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	first := enqueueCritical(t, svc, "session-a")
	enqueueCritical(t, svc, "session-b")
	_, err := svc.Assign(ctx, first.ID, "reviewer-1")
	require.NoError(t, err)

	pending, err := svc.ListReviews(ctx, review.Filter{Status: review.StatusPending}, 1, 20)
	require.NoError(t, err)
	assert.Equal(t, 1, pending.Total)

	mine, err := svc.ListReviews(ctx, review.Filter{AssignedTo: "reviewer-1"}, 1, 20)
	require.NoError(t, err)
	require.Len(t, mine.Items, 1)
	assert.Equal(t, first.ID, mine.Items[0].ID)
}

func TestStats(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	a := enqueueCritical(t, svc, "session-a")
	enqueueCritical(t, svc, "session-b")
	_, err := svc.Approve(ctx, a.ID, "reviewer-1", "")
	require.NoError(t, err)

	stats, err := svc.GetStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.ByStatus[review.StatusPending])
	assert.Equal(t, 1, stats.ByStatus[review.StatusApproved])
	assert.Equal(t, 1, stats.PendingByRisk[review.RiskCritical])
	assert.Equal(t, 1, stats.TotalPending)
}
