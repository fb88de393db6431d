package recommend

import (
	"time"

	"github.com/nuvia/nutrition-advisor/internal/domain/rules"
	"github.com/nuvia/nutrition-advisor/internal/domain/scoring"
)

// LocalizedString carries the zh-TW and English renderings of a name.
type LocalizedString struct {
	ZhTW string `json:"zh_tw"`
	EN   string `json:"en"`
}

// SafetyInfo is the safety block attached to every recommendation item.
type SafetyInfo struct {
	Warnings                    []string                `json:"warnings"`
	RequiresProfessionalConsult bool                    `json:"requires_professional_consult"`
	Interactions                []rules.DrugInteraction `json:"interactions"`
}

// CommerceSlot links a recommendation to a purchasable product, if any.
type CommerceSlot struct {
	Type      string `json:"type"` // "shopify" | "partner" | "none"
	ProductID string `json:"product_id,omitempty"`
	OfferID   string `json:"offer_id,omitempty"`
}

// Item is one ranked recommendation.
type Item struct {
	Rank         int             `json:"rank"`
	RecKey       string          `json:"rec_key"`
	Name         LocalizedString `json:"name"`
	Why          []string        `json:"why"`
	Safety       SafetyInfo      `json:"safety"`
	Confidence   int             `json:"confidence"`
	CommerceSlot CommerceSlot    `json:"commerce_slot"`
}

// Result is the full recommendation payload for one session. Items always
// holds exactly five entries.
type Result struct {
	SessionID            string    `json:"session_id"`
	GeneratedAt          time.Time `json:"generated_at"`
	Items                []Item    `json:"items"`
	Disclaimer           string    `json:"disclaimer"`
	RequiresReview       bool      `json:"requires_review"`
	ReportInterpretation string    `json:"report_interpretation,omitempty"`
}

// HealthProfile is the user input the engine works from.
type HealthProfile struct {
	UserID             string              `json:"user_id"`
	Allergies          []string            `json:"allergies"`
	ChronicConditions  []string            `json:"chronic_conditions"`
	Medications        []string            `json:"medications"`
	Goals              []string            `json:"goals"`
	DietaryPreferences []string            `json:"dietary_preferences"`
	BudgetMin          float64             `json:"budget_min,omitempty"`
	BudgetMax          float64             `json:"budget_max,omitempty"`
	LabMetrics         []scoring.LabMetric `json:"lab_metrics,omitempty"`
}

// RuleProfile projects the health profile into the rule engine's shape.
func (p HealthProfile) RuleProfile() rules.Profile {
	return rules.Profile{
		Allergies:          p.Allergies,
		ChronicConditions:  p.ChronicConditions,
		Medications:        p.Medications,
		Goals:              p.Goals,
		DietaryPreferences: p.DietaryPreferences,
	}
}

// nutrientInfo is one knowledge base entry.
type nutrientInfo struct {
	Name     LocalizedString
	Benefits []string
	Goals    []string
}
