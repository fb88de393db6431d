package rules

// Action is what the engine decided for one nutrient.
type Action string

const (
	ActionAllow Action = "allow"
	ActionWarn  Action = "warn"
	ActionBlock Action = "block"
)

// Severity grades a drug interaction. Values are ordered, use Rank for
// comparisons.
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

var severityOrder = map[Severity]int{
	SeverityLow:      0,
	SeverityMedium:   1,
	SeverityHigh:     2,
	SeverityCritical: 3,
}

// Rank returns the ordinal of the severity. Unknown values rank lowest.
func (s Severity) Rank() int {
	return severityOrder[s]
}

// DrugInteraction describes one known drug/nutrient conflict.
type DrugInteraction struct {
	Drug          string   `json:"drug"`
	Nutrient      string   `json:"nutrient"`
	Severity      Severity `json:"severity"`
	Description   string   `json:"description"`
	DescriptionZH string   `json:"description_zh"`
}

// AllergyRule lists the nutrients an allergen blocks or flags.
type AllergyRule struct {
	Allergen         string
	BlockedNutrients []string
	WarningNutrients []string
	Description      string
	DescriptionZH    string
}

// ChronicConditionRule lists nutrients to block, warn about, or actively
// recommend for a chronic condition.
type ChronicConditionRule struct {
	Condition            string
	BlockedNutrients     []string
	WarningNutrients     []string
	RecommendedNutrients []string
	Description          string
	DescriptionZH        string
}

// SafetyInfo accompanies a rule result.
type SafetyInfo struct {
	Warnings                    []string          `json:"warnings"`
	RequiresProfessionalConsult bool              `json:"requires_professional_consult"`
	Interactions                []DrugInteraction `json:"interactions,omitempty"`
}

// RuleResult is the merged verdict for a single nutrient.
type RuleResult struct {
	Nutrient       string     `json:"nutrient"`
	Action         Action     `json:"action"`
	Reason         string     `json:"reason,omitempty"`
	ReasonZH       string     `json:"reason_zh,omitempty"`
	WeightModifier float64    `json:"weight_modifier"`
	SafetyInfo     SafetyInfo `json:"safety_info"`
}

// SafetyCheck is the yes/no answer for one nutrient.
type SafetyCheck struct {
	Safe      bool     `json:"safe"`
	Warnings  []string `json:"warnings"`
	BlockedBy string   `json:"blocked_by,omitempty"`
}

// NutrientCandidate pairs a nutrient with its pre-rule score.
type NutrientCandidate struct {
	Nutrient  string  `json:"nutrient"`
	BaseScore float64 `json:"base_score"`
}

// Profile is the slice of a user's health data the engine consults.
type Profile struct {
	Allergies          []string `json:"allergies"`
	ChronicConditions  []string `json:"chronic_conditions"`
	Medications        []string `json:"medications"`
	Goals              []string `json:"goals"`
	DietaryPreferences []string `json:"dietary_preferences"`
}
