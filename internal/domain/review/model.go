package review

import (
	"time"

	"github.com/nuvia/nutrition-advisor/internal/domain/recommend"
)

// Status is the lifecycle state of one review queue item.
type Status string

const (
	StatusPending  Status = "PENDING"
	StatusInReview Status = "IN_REVIEW"
	StatusApproved Status = "APPROVED"
	StatusRejected Status = "REJECTED"
)

// AllStatuses lists every review status.
var AllStatuses = []Status{StatusPending, StatusInReview, StatusApproved, StatusRejected}

// RiskLevel grades how risky a recommendation session is.
type RiskLevel string

const (
	RiskLow      RiskLevel = "LOW"
	RiskMedium   RiskLevel = "MEDIUM"
	RiskHigh     RiskLevel = "HIGH"
	RiskCritical RiskLevel = "CRITICAL"
)

// AllRiskLevels lists every risk level.
var AllRiskLevels = []RiskLevel{RiskLow, RiskMedium, RiskHigh, RiskCritical}

var riskOrder = map[RiskLevel]int{
	RiskLow:      0,
	RiskMedium:   1,
	RiskHigh:     2,
	RiskCritical: 3,
}

// Rank returns the ordinal of the risk level for sorting.
func (r RiskLevel) Rank() int {
	return riskOrder[r]
}

// High-risk marker lists used by the risk scorer. Matching is
// case-insensitive substring against user-entered values.
var (
	highRiskConditions = []string{
		"diabetes", "heart_disease", "kidney_disease",
		"liver_disease", "cancer", "autoimmune",
	}
	highRiskMedications = []string{
		"warfarin", "insulin", "metformin", "lithium", "immunosuppressant",
	}
	criticalAllergies = []string{
		"severe_food_allergy", "anaphylaxis_history",
	}
)

// CaseDetail is the snapshot a reviewer sees: the profile that drove the
// session and the recommendations it produced.
type CaseDetail struct {
	SessionID       string                  `json:"session_id"`
	UserID          string                  `json:"user_id"`
	HealthProfile   recommend.HealthProfile `json:"health_profile"`
	Recommendations []recommend.Item        `json:"recommendations"`
	CreatedAt       time.Time               `json:"created_at"`
}

// Item is one entry in the review queue.
type Item struct {
	ID             string      `json:"id"`
	SessionID      string      `json:"session_id"`
	Status         Status      `json:"status"`
	RiskLevel      RiskLevel   `json:"risk_level"`
	AssignedTo     string      `json:"assigned_to,omitempty"`
	CreatedAt      time.Time   `json:"created_at"`
	ResolvedAt     *time.Time  `json:"resolved_at,omitempty"`
	ResolutionNote string      `json:"resolution_note,omitempty"`
	CaseDetail     *CaseDetail `json:"case_detail,omitempty"`
}

// Filter narrows the review listing.
type Filter struct {
	Status     Status
	RiskLevel  RiskLevel
	AssignedTo string
	DateFrom   *time.Time
	DateTo     *time.Time
}

// List is one page of review items.
type List struct {
	Items    []Item `json:"items"`
	Total    int    `json:"total"`
	Page     int    `json:"page"`
	PageSize int    `json:"page_size"`
}

// Stats summarizes the queue for the admin dashboard.
type Stats struct {
	ByStatus      map[Status]int    `json:"by_status"`
	PendingByRisk map[RiskLevel]int `json:"pending_by_risk"`
	TotalPending  int               `json:"total_pending"`
}
