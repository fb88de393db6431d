package scoring

import (
	"fmt"
	"sort"
)

// QuestionnaireScorer turns goals and dietary preferences into nutrient
// scores via the static weight tables.
type QuestionnaireScorer struct{}

// NewQuestionnaireScorer constructs the scorer.
func NewQuestionnaireScorer() *QuestionnaireScorer {
	return &QuestionnaireScorer{}
}

// Score accumulates per-nutrient weights from goals and preferences, then
// normalizes so the best nutrient lands at 100. Empty input yields an empty
// map; unknown goals and preferences contribute nothing.
func (s *QuestionnaireScorer) Score(goals, dietaryPreferences []string) map[string]NutrientScore {
	scores := make(map[string]float64)
	reasons := make(map[string][]string)

	for _, goal := range goals {
		weights, ok := goalNutrientWeights[goal]
		if !ok {
			continue
		}
		for _, nutrient := range sortedKeys(weights) {
			scores[nutrient] += weights[nutrient]
			reasons[nutrient] = append(reasons[nutrient], fmt.Sprintf("符合您的健康目標：%s", goal))
		}
	}

	for _, pref := range dietaryPreferences {
		if pref == "no_preference" {
			continue
		}
		weights, ok := dietaryPreferenceModifiers[pref]
		if !ok {
			continue
		}
		for _, nutrient := range sortedKeys(weights) {
			scores[nutrient] += weights[nutrient]
			reasons[nutrient] = append(reasons[nutrient], fmt.Sprintf("適合您的飲食偏好：%s", pref))
		}
	}

	normalizeScores(scores)

	result := make(map[string]NutrientScore, len(scores))
	for nutrient, score := range scores {
		result[nutrient] = NutrientScore{
			Nutrient:           nutrient,
			QuestionnaireScore: score,
			FinalScore:         score,
			Reasons:            reasons[nutrient],
		}
	}
	return result
}

// normalizeScores max-scales in place so the top entry becomes 100.
func normalizeScores(scores map[string]float64) {
	var max float64
	for _, v := range scores {
		if v > max {
			max = v
		}
	}
	if max <= 0 {
		return
	}
	for k, v := range scores {
		scaled := v / max * 100
		if scaled > 100 {
			scaled = 100
		}
		scores[k] = scaled
	}
}

// sortedKeys pins map iteration order so reason lists are reproducible.
func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
