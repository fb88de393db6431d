package configrepo

import (
	"context"
	"sort"
	"sync"

	"github.com/nuvia/nutrition-advisor/internal/domain/configcenter"
	apperrors "github.com/nuvia/nutrition-advisor/pkg/errors"
)

// MemoryRepository is an in-memory configcenter.Repository used for
// tests/dev.
type MemoryRepository struct {
	mu       sync.RWMutex
	versions map[string]configcenter.Version
	audits   []configcenter.AuditLog
}

// NewMemoryRepository constructs a repo backed by memory.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		versions: make(map[string]configcenter.Version),
	}
}

// Insert implements configcenter.Repository.
func (r *MemoryRepository) Insert(_ context.Context, version configcenter.Version) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.versions[version.ID] = version
	return nil
}

// GetByID implements configcenter.Repository.
func (r *MemoryRepository) GetByID(_ context.Context, versionID string) (configcenter.Version, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	version, ok := r.versions[versionID]
	if !ok {
		return configcenter.Version{}, apperrors.Wrap(configcenter.CodeNotFound, "config version not found", nil)
	}
	return version, nil
}

// LatestVersionNumber implements configcenter.Repository.
func (r *MemoryRepository) LatestVersionNumber(_ context.Context, configType configcenter.ConfigType) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	latest := 0
	for _, v := range r.versions {
		if v.ConfigType == configType && v.Version > latest {
			latest = v.Version
		}
	}
	return latest, nil
}

// ActiveVersion implements configcenter.Repository.
func (r *MemoryRepository) ActiveVersion(ctx context.Context, configType configcenter.ConfigType) (configcenter.Version, bool, error) {
	return r.LatestWithStatus(ctx, configType, configcenter.StatusActive)
}

// LatestWithStatus implements configcenter.Repository.
func (r *MemoryRepository) LatestWithStatus(_ context.Context, configType configcenter.ConfigType, status configcenter.Status) (configcenter.Version, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var best configcenter.Version
	found := false
	for _, v := range r.versions {
		if v.ConfigType != configType || v.Status != status {
			continue
		}
		if !found || v.Version > best.Version {
			best = v
			found = true
		}
	}
	return best, found, nil
}

// OtherActiveVersions implements configcenter.Repository.
func (r *MemoryRepository) OtherActiveVersions(_ context.Context, configType configcenter.ConfigType, excludeID string) ([]configcenter.Version, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []configcenter.Version
	for _, v := range r.versions {
		if v.ConfigType == configType && v.Status == configcenter.StatusActive && v.ID != excludeID {
			out = append(out, v)
		}
	}
	return out, nil
}

// CompareAndSetStatus implements configcenter.Repository.
func (r *MemoryRepository) CompareAndSetStatus(_ context.Context, versionID string, expect, next configcenter.Status, rolloutPercent *int) (configcenter.Version, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	version, ok := r.versions[versionID]
	if !ok {
		return configcenter.Version{}, apperrors.Wrap(configcenter.CodeNotFound, "config version not found", nil)
	}
	if version.Status != expect {
		return configcenter.Version{}, apperrors.Wrap(configcenter.CodeInvalidTransition, "config version changed concurrently", nil)
	}
	version.Status = next
	if rolloutPercent != nil {
		version.RolloutPercent = *rolloutPercent
	}
	r.versions[versionID] = version
	return version, nil
}

// ListByType implements configcenter.Repository.
func (r *MemoryRepository) ListByType(_ context.Context, configType configcenter.ConfigType, offset, limit int) ([]configcenter.Version, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var all []configcenter.Version
	for _, v := range r.versions {
		if v.ConfigType == configType {
			all = append(all, v)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Version > all[j].Version })

	total := len(all)
	if offset >= total {
		return nil, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return all[offset:end], total, nil
}

// InsertAuditLog implements configcenter.Repository.
func (r *MemoryRepository) InsertAuditLog(_ context.Context, log configcenter.AuditLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.audits = append(r.audits, log)
	return nil
}

// AuditLogsByVersion implements configcenter.Repository.
func (r *MemoryRepository) AuditLogsByVersion(_ context.Context, versionID string, offset, limit int) ([]configcenter.AuditLog, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var matched []configcenter.AuditLog
	for _, log := range r.audits {
		if log.ConfigVersionID == versionID {
			matched = append(matched, log)
		}
	}
	return windowAudits(matched, offset, limit), nil
}

// AuditLogsByType implements configcenter.Repository.
func (r *MemoryRepository) AuditLogsByType(_ context.Context, configType configcenter.ConfigType, offset, limit int) ([]configcenter.AuditLog, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var matched []configcenter.AuditLog
	for _, log := range r.audits {
		version, ok := r.versions[log.ConfigVersionID]
		if ok && version.ConfigType == configType {
			matched = append(matched, log)
		}
	}
	return windowAudits(matched, offset, limit), nil
}

// windowAudits sorts newest-first and applies pagination.
func windowAudits(logs []configcenter.AuditLog, offset, limit int) []configcenter.AuditLog {
	sort.SliceStable(logs, func(i, j int) bool { return logs[i].CreatedAt.After(logs[j].CreatedAt) })
	if offset >= len(logs) {
		return nil
	}
	end := offset + limit
	if end > len(logs) {
		end = len(logs)
	}
	return logs[offset:end]
}
