package configcenter

import "context"

// Repository persists config versions and their audit trail.
//
// CompareAndSetStatus must be atomic: the update applies only while the
// row is still in the expected status, so concurrent activations cannot
// both win. Implementations return ErrNotFound-coded errors for missing
// rows and CodeInvalidTransition-coded errors on a failed compare.
type Repository interface {
	Insert(ctx context.Context, version Version) error
	GetByID(ctx context.Context, versionID string) (Version, error)
	LatestVersionNumber(ctx context.Context, configType ConfigType) (int, error)
	ActiveVersion(ctx context.Context, configType ConfigType) (Version, bool, error)
	LatestWithStatus(ctx context.Context, configType ConfigType, status Status) (Version, bool, error)
	OtherActiveVersions(ctx context.Context, configType ConfigType, excludeID string) ([]Version, error)
	CompareAndSetStatus(ctx context.Context, versionID string, expect, next Status, rolloutPercent *int) (Version, error)
	ListByType(ctx context.Context, configType ConfigType, offset, limit int) ([]Version, int, error)

	InsertAuditLog(ctx context.Context, log AuditLog) error
	AuditLogsByVersion(ctx context.Context, versionID string, offset, limit int) ([]AuditLog, error)
	AuditLogsByType(ctx context.Context, configType ConfigType, offset, limit int) ([]AuditLog, error)
}
