package scoring

import (
	"log/slog"
	"sort"
)

// Blend weights applied when lab data is present.
const (
	ReportWeight        = 0.7
	QuestionnaireWeight = 0.3
)

// HybridEngine merges questionnaire and report scores into a single ranking.
type HybridEngine struct {
	questionnaire *QuestionnaireScorer
	report        *ReportScorer
	logger        *slog.Logger
}

// NewHybridEngine wires up both scorers.
func NewHybridEngine(logger *slog.Logger) *HybridEngine {
	return &HybridEngine{
		questionnaire: NewQuestionnaireScorer(),
		report:        NewReportScorer(),
		logger:        logger.With("component", "scoring.hybrid"),
	}
}

// Scores computes the blended score for every nutrient either source
// produced. With lab metrics the blend is report*0.7 + questionnaire*0.3;
// without, the questionnaire score stands alone. The result is sorted by
// final score descending; ties break alphabetically by nutrient key so the
// ranking is deterministic across runs.
func (e *HybridEngine) Scores(goals, dietaryPreferences []string, labMetrics []LabMetric) []NutrientScore {
	qScores := e.questionnaire.Score(goals, dietaryPreferences)

	var rScores map[string]NutrientScore
	if len(labMetrics) > 0 {
		rScores = e.report.Score(labMetrics)
	}

	nutrients := make([]string, 0, len(qScores)+len(rScores))
	seen := make(map[string]struct{})
	for k := range qScores {
		nutrients = append(nutrients, k)
		seen[k] = struct{}{}
	}
	for k := range rScores {
		if _, dup := seen[k]; !dup {
			nutrients = append(nutrients, k)
		}
	}
	sort.Strings(nutrients)

	out := make([]NutrientScore, 0, len(nutrients))
	for _, nutrient := range nutrients {
		q := qScores[nutrient]
		r := rScores[nutrient]

		final := q.QuestionnaireScore
		if len(labMetrics) > 0 {
			final = r.ReportScore*ReportWeight + q.QuestionnaireScore*QuestionnaireWeight
		}

		reasons := make([]string, 0, len(q.Reasons)+len(r.Reasons))
		reasons = append(reasons, q.Reasons...)
		reasons = append(reasons, r.Reasons...)

		out = append(out, NutrientScore{
			Nutrient:           nutrient,
			QuestionnaireScore: q.QuestionnaireScore,
			ReportScore:        r.ReportScore,
			FinalScore:         final,
			Reasons:            reasons,
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].FinalScore > out[j].FinalScore
	})

	e.logger.Debug("hybrid scores computed", "nutrients", len(out), "lab_metrics", len(labMetrics))
	return out
}

// TopN returns the highest scoring nutrients, at most n.
func (e *HybridEngine) TopN(goals, dietaryPreferences []string, labMetrics []LabMetric, n int) []NutrientScore {
	all := e.Scores(goals, dietaryPreferences, labMetrics)
	if len(all) > n {
		all = all[:n]
	}
	return all
}
