package scoring

// NutrientScore tracks how one nutrient scored across both sources.
type NutrientScore struct {
	Nutrient           string   `json:"nutrient"`
	QuestionnaireScore float64  `json:"questionnaireScore"`
	ReportScore        float64  `json:"reportScore"`
	FinalScore         float64  `json:"finalScore"`
	Reasons            []string `json:"reasons"`
}

// LabMetric is one extracted lab-report value.
type LabMetric struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
	Unit  string  `json:"unit"`
	Flag  string  `json:"flag"`
}

// Flag values carried on lab metrics.
const (
	FlagNormal = "normal"
	FlagLow    = "low"
	FlagHigh   = "high"
)

type referenceRange struct {
	Low  float64
	High float64
	Unit string
}
