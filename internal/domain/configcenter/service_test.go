package configcenter_test

import (
	"context"
	"fmt"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nuvia/nutrition-advisor/internal/domain/configcenter"
	"github.com/nuvia/nutrition-advisor/internal/infra/configrepo"
	apperrors "github.com/nuvia/nutrition-advisor/pkg/errors"
)

var testOperator = configcenter.Operator{ID: "op-1", IPAddress: "10.0.0.1"}

func newTestService() configcenter.Service {
	return configcenter.NewService(configrepo.NewMemoryRepository(), slog.Default())
}

func draftContent() map[string]any {
	return map[string]any{"max_warn_weight": 0.5}
}

func mustActivate(t *testing.T, svc configcenter.Service, versionID string) configcenter.Version {
	t.Helper()
	ctx := context.Background()
	_, err := svc.Approve(ctx, versionID, testOperator)
	require.NoError(t, err)
	_, err = svc.Deploy(ctx, versionID, 50, testOperator)
	require.NoError(t, err)
	active, err := svc.Activate(ctx, versionID, testOperator)
	require.NoError(t, err)
	return active
}

func TestCreateDraftAssignsIncrementingVersions(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	first, err := svc.CreateDraft(ctx, configcenter.TypeRuleset, draftContent(), "initial rules", testOperator)
	require.NoError(t, err)
	assert.Equal(t, 1, first.Version)
	assert.Equal(t, configcenter.StatusDraft, first.Status)
	assert.Equal(t, 0, first.RolloutPercent)

	second, err := svc.CreateDraft(ctx, configcenter.TypeRuleset, draftContent(), "tweak weights", testOperator)
	require.NoError(t, err)
	assert.Equal(t, 2, second.Version)

	// Version counters are independent per config type.
	other, err := svc.CreateDraft(ctx, configcenter.TypePrompts, draftContent(), "new prompt", testOperator)
	require.NoError(t, err)
	assert.Equal(t, 1, other.Version)
}

func TestCreateDraftValidation(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	_, err := svc.CreateDraft(ctx, "bogus", draftContent(), "reason", testOperator)
	assert.Equal(t, configcenter.CodeInvalidInput, apperrors.CodeOf(err))

	_, err = svc.CreateDraft(ctx, configcenter.TypeRuleset, nil, "reason", testOperator)
	assert.Equal(t, configcenter.CodeInvalidInput, apperrors.CodeOf(err))

	_, err = svc.CreateDraft(ctx, configcenter.TypeRuleset, draftContent(), "  ", testOperator)
	assert.Equal(t, configcenter.CodeInvalidInput, apperrors.CodeOf(err))
}

func TestLifecycleHappyPath(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	draft, err := svc.CreateDraft(ctx, configcenter.TypeWeights, draftContent(), "reason", testOperator)
	require.NoError(t, err)

	approved, err := svc.Approve(ctx, draft.ID, testOperator)
	require.NoError(t, err)
	assert.Equal(t, configcenter.StatusApproved, approved.Status)

	deployed, err := svc.Deploy(ctx, draft.ID, 30, testOperator)
	require.NoError(t, err)
	assert.Equal(t, configcenter.StatusDeploying, deployed.Status)
	assert.Equal(t, 30, deployed.RolloutPercent)

	active, err := svc.Activate(ctx, draft.ID, testOperator)
	require.NoError(t, err)
	assert.Equal(t, configcenter.StatusActive, active.Status)
	assert.Equal(t, 100, active.RolloutPercent)

	got, err := svc.GetActive(ctx, configcenter.TypeWeights)
	require.NoError(t, err)
	assert.Equal(t, draft.ID, got.ID)
}

func TestInvalidTransitionsRejected(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	draft, err := svc.CreateDraft(ctx, configcenter.TypeRuleset, draftContent(), "reason", testOperator)
	require.NoError(t, err)

	// DRAFT cannot deploy or activate directly.
	_, err = svc.Deploy(ctx, draft.ID, 10, testOperator)
	assert.Equal(t, configcenter.CodeInvalidTransition, apperrors.CodeOf(err))
	_, err = svc.Activate(ctx, draft.ID, testOperator)
	assert.Equal(t, configcenter.CodeInvalidTransition, apperrors.CodeOf(err))

	// Approving twice fails the second time.
	_, err = svc.Approve(ctx, draft.ID, testOperator)
	require.NoError(t, err)
	_, err = svc.Approve(ctx, draft.ID, testOperator)
	assert.Equal(t, configcenter.CodeInvalidTransition, apperrors.CodeOf(err))
}

func TestApproveUnknownVersion(t *testing.T) {
	svc := newTestService()
	_, err := svc.Approve(context.Background(), "missing-id", testOperator)
	assert.Equal(t, configcenter.CodeNotFound, apperrors.CodeOf(err))
}

func TestDeployClampsRolloutPercent(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	for _, tc := range []struct {
		input int
		want  int
	}{{-5, 0}, {150, 100}, {42, 42}} {
		draft, err := svc.CreateDraft(ctx, configcenter.TypeFeatureFlags, draftContent(), "reason", testOperator)
		require.NoError(t, err)
		_, err = svc.Approve(ctx, draft.ID, testOperator)
		require.NoError(t, err)
		deployed, err := svc.Deploy(ctx, draft.ID, tc.input, testOperator)
		require.NoError(t, err)
		assert.Equal(t, tc.want, deployed.RolloutPercent, "input %d", tc.input)
	}
}

func TestActivateDemotesPreviousActive(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	v1, err := svc.CreateDraft(ctx, configcenter.TypeModelConfig, draftContent(), "v1", testOperator)
	require.NoError(t, err)
	mustActivate(t, svc, v1.ID)

	v2, err := svc.CreateDraft(ctx, configcenter.TypeModelConfig, draftContent(), "v2", testOperator)
	require.NoError(t, err)
	mustActivate(t, svc, v2.ID)

	active, err := svc.GetActive(ctx, configcenter.TypeModelConfig)
	require.NoError(t, err)
	assert.Equal(t, v2.ID, active.ID)

	// The demotion leaves a ROLLBACK entry on v1's audit trail.
	logs, err := svc.AuditLogs(ctx, v1.ID, 1, 50)
	require.NoError(t, err)
	found := false
	for _, log := range logs {
		if log.Action == configcenter.ActionRollback {
			found = true
			assert.Equal(t, "ACTIVE", log.BeforeValue["status"])
			assert.Equal(t, "ROLLED_BACK", log.AfterValue["status"])
		}
	}
	assert.True(t, found)
}

func TestRollbackRestoresPreviousVersion(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	v1, err := svc.CreateDraft(ctx, configcenter.TypeRuleset, draftContent(), "v1", testOperator)
	require.NoError(t, err)
	mustActivate(t, svc, v1.ID)

	v2, err := svc.CreateDraft(ctx, configcenter.TypeRuleset, draftContent(), "v2", testOperator)
	require.NoError(t, err)
	mustActivate(t, svc, v2.ID)

	restored, err := svc.Rollback(ctx, configcenter.TypeRuleset, testOperator)
	require.NoError(t, err)
	assert.Equal(t, v1.ID, restored.ID)
	assert.Equal(t, configcenter.StatusActive, restored.Status)
	assert.Equal(t, 100, restored.RolloutPercent)

	active, err := svc.GetActive(ctx, configcenter.TypeRuleset)
	require.NoError(t, err)
	assert.Equal(t, v1.ID, active.ID)
}

func TestRollbackWithoutPreviousVersion(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	// No history at all.
	_, err := svc.Rollback(ctx, configcenter.TypeRuleset, testOperator)
	assert.Equal(t, configcenter.CodeNoPreviousVersion, apperrors.CodeOf(err))

	// One active version but nothing to fall back to.
	v1, err := svc.CreateDraft(ctx, configcenter.TypeRuleset, draftContent(), "v1", testOperator)
	require.NoError(t, err)
	mustActivate(t, svc, v1.ID)
	_, err = svc.Rollback(ctx, configcenter.TypeRuleset, testOperator)
	assert.Equal(t, configcenter.CodeNoPreviousVersion, apperrors.CodeOf(err))
}

func TestAuditTrailRecordsEveryTransition(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	draft, err := svc.CreateDraft(ctx, configcenter.TypePrompts, draftContent(), "reason", testOperator)
	require.NoError(t, err)
	mustActivate(t, svc, draft.ID)

	logs, err := svc.AuditLogs(ctx, draft.ID, 1, 50)
	require.NoError(t, err)
	require.Len(t, logs, 4) // CREATE, APPROVE, DEPLOY, ACTIVATE

	actions := make(map[configcenter.AuditAction]bool)
	for _, log := range logs {
		actions[log.Action] = true
		assert.Equal(t, testOperator.ID, log.OperatorID)
		assert.Equal(t, testOperator.IPAddress, log.IPAddress)
		assert.False(t, log.CreatedAt.IsZero())
	}
	for _, want := range []configcenter.AuditAction{
		configcenter.ActionCreate, configcenter.ActionApprove,
		configcenter.ActionDeploy, configcenter.ActionActivate,
	} {
		assert.True(t, actions[want], string(want))
	}

	byType, err := svc.AuditLogsByType(ctx, configcenter.TypePrompts, 1, 50)
	require.NoError(t, err)
	assert.Len(t, byType, 4)
}

func TestHistoryPagination(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, err := svc.CreateDraft(ctx, configcenter.TypeWeights, draftContent(), fmt.Sprintf("v%d", i+1), testOperator)
		require.NoError(t, err)
	}

	page1, err := svc.History(ctx, configcenter.TypeWeights, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, 5, page1.Total)
	require.Len(t, page1.Configs, 2)
	assert.Equal(t, 5, page1.Configs[0].Version)
	assert.Equal(t, 4, page1.Configs[1].Version)

	page3, err := svc.History(ctx, configcenter.TypeWeights, 3, 2)
	require.NoError(t, err)
	require.Len(t, page3.Configs, 1)
	assert.Equal(t, 1, page3.Configs[0].Version)
}

func TestShouldApplyRolloutBoundaries(t *testing.T) {
	svc := newTestService()

	full := configcenter.Version{RolloutPercent: 100}
	none := configcenter.Version{RolloutPercent: 0}
	assert.True(t, svc.ShouldApply(full, "any-user"))
	assert.False(t, svc.ShouldApply(none, "any-user"))
}

func TestShouldApplyIsDeterministicPerUser(t *testing.T) {
	svc := newTestService()
	half := configcenter.Version{RolloutPercent: 50}

	inCount := 0
	for i := 0; i < 200; i++ {
		userID := fmt.Sprintf("user-%d", i)
		first := svc.ShouldApply(half, userID)
		for j := 0; j < 3; j++ {
			assert.Equal(t, first, svc.ShouldApply(half, userID))
		}
		if first {
			inCount++
		}
	}
	// Roughly half the cohort lands in the rollout.
	assert.Greater(t, inCount, 50)
	assert.Less(t, inCount, 150)
}
