package scoring

import (
	"fmt"
	"strings"
)

// ReportScorer turns abnormal lab metrics into nutrient scores.
type ReportScorer struct{}

// NewReportScorer constructs the scorer.
func NewReportScorer() *ReportScorer {
	return &ReportScorer{}
}

// Score walks the lab metrics, resolving the flag against reference ranges
// when the record claims "normal", and accumulates nutrient weights for
// every low/high metric present in the mapping table. Unknown metric names
// are ignored. Normalization mirrors the questionnaire scorer.
func (s *ReportScorer) Score(labMetrics []LabMetric) map[string]NutrientScore {
	scores := make(map[string]float64)
	reasons := make(map[string][]string)

	for _, metric := range labMetrics {
		name := strings.ToLower(strings.TrimSpace(metric.Name))
		byFlag, ok := metricNutrientWeights[name]
		if !ok {
			continue
		}

		flag := strings.ToLower(metric.Flag)
		if flag == "" {
			flag = FlagNormal
		}
		if flag == FlagNormal {
			if ref, known := referenceRanges[name]; known {
				switch {
				case metric.Value < ref.Low:
					flag = FlagLow
				case metric.Value > ref.High:
					flag = FlagHigh
				}
			}
		}
		if flag != FlagLow && flag != FlagHigh {
			continue
		}

		weights := byFlag[flag]
		for _, nutrient := range sortedKeys(weights) {
			scores[nutrient] += weights[nutrient]
			reasons[nutrient] = append(reasons[nutrient],
				fmt.Sprintf("您的 %s 指標 %s（%v），建議補充", name, flag, metric.Value))
		}
	}

	normalizeScores(scores)

	result := make(map[string]NutrientScore, len(scores))
	for nutrient, score := range scores {
		result[nutrient] = NutrientScore{
			Nutrient:    nutrient,
			ReportScore: score,
			FinalScore:  score,
			Reasons:     reasons[nutrient],
		}
	}
	return result
}
