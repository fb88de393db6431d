package configcenter

import "time"

// ConfigType names the configuration families the platform versions.
type ConfigType string

const (
	TypeRuleset      ConfigType = "ruleset"
	TypeWeights      ConfigType = "weights"
	TypePrompts      ConfigType = "prompts"
	TypeModelConfig  ConfigType = "model_config"
	TypeFeatureFlags ConfigType = "feature_flags"
)

// KnownTypes lists every valid config type.
var KnownTypes = []ConfigType{TypeRuleset, TypeWeights, TypePrompts, TypeModelConfig, TypeFeatureFlags}

// Valid reports whether the value is a known config type.
func (t ConfigType) Valid() bool {
	for _, known := range KnownTypes {
		if t == known {
			return true
		}
	}
	return false
}

// Status is the lifecycle state of one config version.
type Status string

const (
	StatusDraft      Status = "DRAFT"
	StatusApproved   Status = "APPROVED"
	StatusDeploying  Status = "DEPLOYING"
	StatusActive     Status = "ACTIVE"
	StatusRolledBack Status = "ROLLED_BACK"
)

// validTransitions is the full state machine. ROLLED_BACK is terminal
// except through Rollback, which reactivates a version directly.
var validTransitions = map[Status][]Status{
	StatusDraft:      {StatusApproved},
	StatusApproved:   {StatusDeploying},
	StatusDeploying:  {StatusActive},
	StatusActive:     {StatusRolledBack},
	StatusRolledBack: {},
}

// CanTransition reports whether from -> to is an allowed step.
func CanTransition(from, to Status) bool {
	for _, allowed := range validTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// AuditAction labels what an audit log entry records.
type AuditAction string

const (
	ActionCreate   AuditAction = "CREATE"
	ActionUpdate   AuditAction = "UPDATE"
	ActionApprove  AuditAction = "APPROVE"
	ActionDeploy   AuditAction = "DEPLOY"
	ActionActivate AuditAction = "ACTIVATE"
	ActionRollback AuditAction = "ROLLBACK"
)

// Version is one immutable snapshot of a configuration.
type Version struct {
	ID             string         `json:"id"`
	ConfigType     ConfigType     `json:"config_type"`
	Version        int            `json:"version"`
	Status         Status         `json:"status"`
	Content        map[string]any `json:"content"`
	RolloutPercent int            `json:"rollout_percent"`
	CreatedBy      string         `json:"created_by"`
	CreatedAt      time.Time      `json:"created_at"`
	ChangeReason   string         `json:"change_reason"`
}

// AuditLog records one operation against a config version.
type AuditLog struct {
	ID              string         `json:"id"`
	ConfigVersionID string         `json:"config_version_id"`
	Action          AuditAction    `json:"action"`
	BeforeValue     map[string]any `json:"before_value,omitempty"`
	AfterValue      map[string]any `json:"after_value,omitempty"`
	OperatorID      string         `json:"operator_id"`
	CreatedAt       time.Time      `json:"created_at"`
	IPAddress       string         `json:"ip_address,omitempty"`
}

// VersionList is a paged slice of versions plus the total count.
type VersionList struct {
	Configs []Version `json:"configs"`
	Total   int       `json:"total"`
}
