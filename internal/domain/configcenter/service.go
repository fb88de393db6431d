package configcenter

import (
	"context"
	"hash/fnv"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	apperrors "github.com/nuvia/nutrition-advisor/pkg/errors"
	"github.com/nuvia/nutrition-advisor/pkg/util"
)

// Operator identifies who performed an admin action, for audit purposes.
type Operator struct {
	ID        string
	IPAddress string
}

// Service manages versioned configuration with approval workflow, gradual
// rollout, and one-click rollback.
type Service interface {
	CreateDraft(ctx context.Context, configType ConfigType, content map[string]any, changeReason string, op Operator) (Version, error)
	Approve(ctx context.Context, versionID string, op Operator) (Version, error)
	Deploy(ctx context.Context, versionID string, rolloutPercent int, op Operator) (Version, error)
	Activate(ctx context.Context, versionID string, op Operator) (Version, error)
	Rollback(ctx context.Context, configType ConfigType, op Operator) (Version, error)
	GetActive(ctx context.Context, configType ConfigType) (Version, error)
	History(ctx context.Context, configType ConfigType, page, pageSize int) (VersionList, error)
	AuditLogs(ctx context.Context, versionID string, page, pageSize int) ([]AuditLog, error)
	AuditLogsByType(ctx context.Context, configType ConfigType, page, pageSize int) ([]AuditLog, error)
	ShouldApply(version Version, userID string) bool
}

type service struct {
	repo   Repository
	logger *slog.Logger
}

// NewService wires up the config center.
func NewService(repo Repository, logger *slog.Logger) Service {
	return &service{
		repo:   repo,
		logger: logger.With("component", "configcenter.service"),
	}
}

func (s *service) CreateDraft(ctx context.Context, configType ConfigType, content map[string]any, changeReason string, op Operator) (Version, error) {
	if !configType.Valid() {
		return Version{}, apperrors.Wrap(CodeInvalidInput, "unknown config type", nil)
	}
	if len(content) == 0 {
		return Version{}, apperrors.Wrap(CodeInvalidInput, "content must not be empty", nil)
	}
	if strings.TrimSpace(changeReason) == "" {
		return Version{}, apperrors.Wrap(CodeInvalidInput, "change_reason is required", nil)
	}

	latest, err := s.repo.LatestVersionNumber(ctx, configType)
	if err != nil {
		return Version{}, apperrors.Wrap("storage_error", "failed to resolve latest version", err)
	}

	version := Version{
		ID:             uuid.NewString(),
		ConfigType:     configType,
		Version:        latest + 1,
		Status:         StatusDraft,
		Content:        content,
		RolloutPercent: 0,
		CreatedBy:      op.ID,
		CreatedAt:      util.NowUTC(),
		ChangeReason:   changeReason,
	}
	if err := s.repo.Insert(ctx, version); err != nil {
		return Version{}, apperrors.Wrap("storage_error", "failed to persist draft", err)
	}

	s.audit(ctx, version.ID, ActionCreate, op, nil, map[string]any{
		"content":       content,
		"change_reason": changeReason,
	})
	s.logger.Info("config draft created", "config_type", configType, "version", version.Version, "operator", op.ID)
	return version, nil
}

func (s *service) Approve(ctx context.Context, versionID string, op Operator) (Version, error) {
	return s.transition(ctx, versionID, StatusApproved, ActionApprove, nil, op)
}

func (s *service) Deploy(ctx context.Context, versionID string, rolloutPercent int, op Operator) (Version, error) {
	rollout := clampPercent(rolloutPercent)
	return s.transition(ctx, versionID, StatusDeploying, ActionDeploy, &rollout, op)
}

// transition moves a version one step along the state machine, recording
// before/after in the audit trail. The repository compare-and-set keeps
// concurrent operators from double-applying the same step.
func (s *service) transition(ctx context.Context, versionID string, target Status, action AuditAction, rollout *int, op Operator) (Version, error) {
	current, err := s.repo.GetByID(ctx, versionID)
	if err != nil {
		return Version{}, notFoundError(versionID)
	}
	if !CanTransition(current.Status, target) {
		return Version{}, invalidTransitionError(current.Status, target)
	}

	updated, err := s.repo.CompareAndSetStatus(ctx, versionID, current.Status, target, rollout)
	if err != nil {
		return Version{}, err
	}

	before := map[string]any{"status": string(current.Status)}
	after := map[string]any{"status": string(target)}
	if rollout != nil {
		before["rollout_percent"] = current.RolloutPercent
		after["rollout_percent"] = *rollout
	}
	s.audit(ctx, versionID, action, op, before, after)
	s.logger.Info("config transitioned",
		"config_type", updated.ConfigType,
		"version", updated.Version,
		"from", current.Status,
		"to", target,
		"operator", op.ID,
	)
	return updated, nil
}

func (s *service) Activate(ctx context.Context, versionID string, op Operator) (Version, error) {
	current, err := s.repo.GetByID(ctx, versionID)
	if err != nil {
		return Version{}, notFoundError(versionID)
	}
	if !CanTransition(current.Status, StatusActive) {
		return Version{}, invalidTransitionError(current.Status, StatusActive)
	}

	// Demote whatever else is live for this config type first so there is
	// never more than one ACTIVE version.
	others, err := s.repo.OtherActiveVersions(ctx, current.ConfigType, versionID)
	if err != nil {
		return Version{}, apperrors.Wrap("storage_error", "failed to list active versions", err)
	}
	for _, old := range others {
		if _, err := s.repo.CompareAndSetStatus(ctx, old.ID, StatusActive, StatusRolledBack, nil); err != nil {
			s.logger.Warn("failed to demote active version", "version_id", old.ID, "error", err)
			continue
		}
		s.audit(ctx, old.ID, ActionRollback, op,
			map[string]any{"status": string(StatusActive)},
			map[string]any{"status": string(StatusRolledBack)},
		)
	}

	rollout := 100
	updated, err := s.repo.CompareAndSetStatus(ctx, versionID, current.Status, StatusActive, &rollout)
	if err != nil {
		return Version{}, err
	}

	s.audit(ctx, versionID, ActionActivate, op,
		map[string]any{"status": string(current.Status)},
		map[string]any{"status": string(StatusActive), "rollout_percent": 100},
	)
	s.logger.Info("config activated", "config_type", updated.ConfigType, "version", updated.Version, "operator", op.ID)
	return updated, nil
}

func (s *service) Rollback(ctx context.Context, configType ConfigType, op Operator) (Version, error) {
	if !configType.Valid() {
		return Version{}, apperrors.Wrap(CodeInvalidInput, "unknown config type", nil)
	}

	previous, found, err := s.repo.LatestWithStatus(ctx, configType, StatusRolledBack)
	if err != nil {
		return Version{}, apperrors.Wrap("storage_error", "failed to look up rollback target", err)
	}
	if !found {
		return Version{}, noPreviousVersionError(configType)
	}

	currentActive, hasActive, err := s.repo.ActiveVersion(ctx, configType)
	if err != nil {
		return Version{}, apperrors.Wrap("storage_error", "failed to look up active version", err)
	}
	if hasActive {
		if _, err := s.repo.CompareAndSetStatus(ctx, currentActive.ID, StatusActive, StatusRolledBack, nil); err != nil {
			return Version{}, err
		}
		s.audit(ctx, currentActive.ID, ActionRollback, op,
			map[string]any{"status": string(StatusActive)},
			map[string]any{"status": string(StatusRolledBack)},
		)
	}

	rollout := 100
	restored, err := s.repo.CompareAndSetStatus(ctx, previous.ID, StatusRolledBack, StatusActive, &rollout)
	if err != nil {
		return Version{}, err
	}
	s.audit(ctx, previous.ID, ActionActivate, op,
		map[string]any{"status": string(StatusRolledBack)},
		map[string]any{"status": string(StatusActive), "rollout_percent": 100},
	)
	s.logger.Info("config rolled back",
		"config_type", configType,
		"restored_version", restored.Version,
		"operator", op.ID,
	)
	return restored, nil
}

func (s *service) GetActive(ctx context.Context, configType ConfigType) (Version, error) {
	if !configType.Valid() {
		return Version{}, apperrors.Wrap(CodeInvalidInput, "unknown config type", nil)
	}
	version, found, err := s.repo.ActiveVersion(ctx, configType)
	if err != nil {
		return Version{}, apperrors.Wrap("storage_error", "failed to look up active version", err)
	}
	if !found {
		return Version{}, notFoundError(string(configType))
	}
	return version, nil
}

func (s *service) History(ctx context.Context, configType ConfigType, page, pageSize int) (VersionList, error) {
	if !configType.Valid() {
		return VersionList{}, apperrors.Wrap(CodeInvalidInput, "unknown config type", nil)
	}
	offset, limit := pageWindow(page, pageSize, 20)
	versions, total, err := s.repo.ListByType(ctx, configType, offset, limit)
	if err != nil {
		return VersionList{}, apperrors.Wrap("storage_error", "failed to list config versions", err)
	}
	return VersionList{Configs: versions, Total: total}, nil
}

func (s *service) AuditLogs(ctx context.Context, versionID string, page, pageSize int) ([]AuditLog, error) {
	offset, limit := pageWindow(page, pageSize, 50)
	logs, err := s.repo.AuditLogsByVersion(ctx, versionID, offset, limit)
	if err != nil {
		return nil, apperrors.Wrap("storage_error", "failed to list audit logs", err)
	}
	return logs, nil
}

func (s *service) AuditLogsByType(ctx context.Context, configType ConfigType, page, pageSize int) ([]AuditLog, error) {
	if !configType.Valid() {
		return nil, apperrors.Wrap(CodeInvalidInput, "unknown config type", nil)
	}
	offset, limit := pageWindow(page, pageSize, 50)
	logs, err := s.repo.AuditLogsByType(ctx, configType, offset, limit)
	if err != nil {
		return nil, apperrors.Wrap("storage_error", "failed to list audit logs", err)
	}
	return logs, nil
}

// ShouldApply decides gradual rollout membership. The FNV-1a hash of the
// user id keeps the decision stable for a given user across requests.
func (s *service) ShouldApply(version Version, userID string) bool {
	if version.RolloutPercent >= 100 {
		return true
	}
	if version.RolloutPercent <= 0 {
		return false
	}
	h := fnv.New32a()
	h.Write([]byte(userID))
	return int(h.Sum32()%100) < version.RolloutPercent
}

func (s *service) audit(ctx context.Context, versionID string, action AuditAction, op Operator, before, after map[string]any) {
	entry := AuditLog{
		ID:              uuid.NewString(),
		ConfigVersionID: versionID,
		Action:          action,
		BeforeValue:     before,
		AfterValue:      after,
		OperatorID:      op.ID,
		CreatedAt:       util.NowUTC(),
		IPAddress:       op.IPAddress,
	}
	if err := s.repo.InsertAuditLog(ctx, entry); err != nil {
		s.logger.Error("failed to write audit log", "version_id", versionID, "action", action, "error", err)
	}
}

func clampPercent(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

func pageWindow(page, pageSize, defaultSize int) (offset, limit int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = defaultSize
	}
	return (page - 1) * pageSize, pageSize
}
