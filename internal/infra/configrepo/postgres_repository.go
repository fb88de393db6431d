package configrepo

import (
	"context"
	"encoding/json"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nuvia/nutrition-advisor/internal/domain/configcenter"
	apperrors "github.com/nuvia/nutrition-advisor/pkg/errors"
)

// PostgresRepository implements configcenter.Repository using pgx.
//
// Schema:
//
//	CREATE TABLE config_versions (
//	    id UUID PRIMARY KEY,
//	    config_type TEXT NOT NULL,
//	    version INT NOT NULL,
//	    status TEXT NOT NULL,
//	    content JSONB NOT NULL,
//	    rollout_percent INT NOT NULL DEFAULT 0,
//	    created_by TEXT NOT NULL,
//	    created_at TIMESTAMPTZ NOT NULL,
//	    change_reason TEXT NOT NULL,
//	    UNIQUE (config_type, version)
//	);
//
//	CREATE TABLE config_audit_logs (
//	    id UUID PRIMARY KEY,
//	    config_version_id UUID NOT NULL REFERENCES config_versions(id),
//	    action TEXT NOT NULL,
//	    before_value JSONB,
//	    after_value JSONB,
//	    operator_id TEXT NOT NULL,
//	    created_at TIMESTAMPTZ NOT NULL,
//	    ip_address TEXT
//	);
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository constructs the repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// Insert stores a new config version row.
func (r *PostgresRepository) Insert(ctx context.Context, version configcenter.Version) error {
	content, err := json.Marshal(version.Content)
	if err != nil {
		return err
	}
	_, err = r.pool.Exec(ctx, `
		INSERT INTO config_versions
			(id, config_type, version, status, content, rollout_percent, created_by, created_at, change_reason)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, version.ID, string(version.ConfigType), version.Version, string(version.Status),
		content, version.RolloutPercent, version.CreatedBy, version.CreatedAt, version.ChangeReason)
	return err
}

// GetByID fetches one version by primary key.
func (r *PostgresRepository) GetByID(ctx context.Context, versionID string) (configcenter.Version, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, config_type, version, status, content, rollout_percent, created_by, created_at, change_reason
		FROM config_versions
		WHERE id = $1
	`, versionID)
	version, err := scanVersion(row)
	if err == pgx.ErrNoRows {
		return configcenter.Version{}, apperrors.Wrap(configcenter.CodeNotFound, "config version not found", nil)
	}
	return version, err
}

// LatestVersionNumber returns the highest version for a type, 0 when none.
func (r *PostgresRepository) LatestVersionNumber(ctx context.Context, configType configcenter.ConfigType) (int, error) {
	var latest int
	err := r.pool.QueryRow(ctx, `
		SELECT COALESCE(MAX(version), 0) FROM config_versions WHERE config_type = $1
	`, string(configType)).Scan(&latest)
	return latest, err
}

// ActiveVersion fetches the live version for a type.
func (r *PostgresRepository) ActiveVersion(ctx context.Context, configType configcenter.ConfigType) (configcenter.Version, bool, error) {
	return r.LatestWithStatus(ctx, configType, configcenter.StatusActive)
}

// LatestWithStatus fetches the highest-numbered version in a given status.
func (r *PostgresRepository) LatestWithStatus(ctx context.Context, configType configcenter.ConfigType, status configcenter.Status) (configcenter.Version, bool, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, config_type, version, status, content, rollout_percent, created_by, created_at, change_reason
		FROM config_versions
		WHERE config_type = $1 AND status = $2
		ORDER BY version DESC
		LIMIT 1
	`, string(configType), string(status))
	version, err := scanVersion(row)
	if err == pgx.ErrNoRows {
		return configcenter.Version{}, false, nil
	}
	if err != nil {
		return configcenter.Version{}, false, err
	}
	return version, true, nil
}

// OtherActiveVersions lists every other live version of the same type.
func (r *PostgresRepository) OtherActiveVersions(ctx context.Context, configType configcenter.ConfigType, excludeID string) ([]configcenter.Version, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, config_type, version, status, content, rollout_percent, created_by, created_at, change_reason
		FROM config_versions
		WHERE config_type = $1 AND status = $2 AND id != $3
	`, string(configType), string(configcenter.StatusActive), excludeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []configcenter.Version
	for rows.Next() {
		version, err := scanVersion(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, version)
	}
	return out, rows.Err()
}

// CompareAndSetStatus applies the transition only while the row still holds
// the expected status, so concurrent operators cannot both apply the same
// step.
func (r *PostgresRepository) CompareAndSetStatus(ctx context.Context, versionID string, expect, next configcenter.Status, rolloutPercent *int) (configcenter.Version, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE config_versions
		SET status = $3,
		    rollout_percent = COALESCE($4, rollout_percent)
		WHERE id = $1 AND status = $2
		RETURNING id, config_type, version, status, content, rollout_percent, created_by, created_at, change_reason
	`, versionID, string(expect), string(next), rolloutPercent)
	version, err := scanVersion(row)
	if err == pgx.ErrNoRows {
		return configcenter.Version{}, apperrors.Wrap(configcenter.CodeInvalidTransition, "config version changed concurrently", nil)
	}
	return version, err
}

// ListByType pages the version history newest-first.
func (r *PostgresRepository) ListByType(ctx context.Context, configType configcenter.ConfigType, offset, limit int) ([]configcenter.Version, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM config_versions WHERE config_type = $1
	`, string(configType)).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.pool.Query(ctx, `
		SELECT id, config_type, version, status, content, rollout_percent, created_by, created_at, change_reason
		FROM config_versions
		WHERE config_type = $1
		ORDER BY version DESC
		OFFSET $2 LIMIT $3
	`, string(configType), offset, limit)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []configcenter.Version
	for rows.Next() {
		version, err := scanVersion(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, version)
	}
	return out, total, rows.Err()
}

// InsertAuditLog appends one audit entry.
func (r *PostgresRepository) InsertAuditLog(ctx context.Context, log configcenter.AuditLog) error {
	before, err := marshalNullable(log.BeforeValue)
	if err != nil {
		return err
	}
	after, err := marshalNullable(log.AfterValue)
	if err != nil {
		return err
	}
	_, err = r.pool.Exec(ctx, `
		INSERT INTO config_audit_logs
			(id, config_version_id, action, before_value, after_value, operator_id, created_at, ip_address)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NULLIF($8, ''))
	`, log.ID, log.ConfigVersionID, string(log.Action), before, after, log.OperatorID, log.CreatedAt, log.IPAddress)
	return err
}

// AuditLogsByVersion pages one version's audit trail newest-first.
func (r *PostgresRepository) AuditLogsByVersion(ctx context.Context, versionID string, offset, limit int) ([]configcenter.AuditLog, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, config_version_id, action, before_value, after_value, operator_id, created_at, COALESCE(ip_address, '')
		FROM config_audit_logs
		WHERE config_version_id = $1
		ORDER BY created_at DESC
		OFFSET $2 LIMIT $3
	`, versionID, offset, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanAuditLogs(rows)
}

// AuditLogsByType pages every audit entry touching a config type.
func (r *PostgresRepository) AuditLogsByType(ctx context.Context, configType configcenter.ConfigType, offset, limit int) ([]configcenter.AuditLog, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT l.id, l.config_version_id, l.action, l.before_value, l.after_value, l.operator_id, l.created_at, COALESCE(l.ip_address, '')
		FROM config_audit_logs l
		JOIN config_versions v ON v.id = l.config_version_id
		WHERE v.config_type = $1
		ORDER BY l.created_at DESC
		OFFSET $2 LIMIT $3
	`, string(configType), offset, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanAuditLogs(rows)
}

func scanVersion(row pgx.Row) (configcenter.Version, error) {
	var (
		version    configcenter.Version
		configType string
		status     string
		content    []byte
	)
	if err := row.Scan(&version.ID, &configType, &version.Version, &status, &content,
		&version.RolloutPercent, &version.CreatedBy, &version.CreatedAt, &version.ChangeReason); err != nil {
		return configcenter.Version{}, err
	}
	version.ConfigType = configcenter.ConfigType(configType)
	version.Status = configcenter.Status(status)
	if len(content) > 0 {
		if err := json.Unmarshal(content, &version.Content); err != nil {
			return configcenter.Version{}, err
		}
	}
	return version, nil
}

func scanAuditLogs(rows pgx.Rows) ([]configcenter.AuditLog, error) {
	var out []configcenter.AuditLog
	for rows.Next() {
		var (
			log    configcenter.AuditLog
			action string
			before []byte
			after  []byte
		)
		if err := rows.Scan(&log.ID, &log.ConfigVersionID, &action, &before, &after,
			&log.OperatorID, &log.CreatedAt, &log.IPAddress); err != nil {
			return nil, err
		}
		log.Action = configcenter.AuditAction(action)
		if len(before) > 0 {
			if err := json.Unmarshal(before, &log.BeforeValue); err != nil {
				return nil, err
			}
		}
		if len(after) > 0 {
			if err := json.Unmarshal(after, &log.AfterValue); err != nil {
				return nil, err
			}
		}
		out = append(out, log)
	}
	return out, rows.Err()
}

func marshalNullable(m map[string]any) ([]byte, error) {
	if m == nil {
		return nil, nil
	}
	return json.Marshal(m)
}
