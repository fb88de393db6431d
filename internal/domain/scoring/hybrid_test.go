package scoring

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.Default()
}

func TestQuestionnaireScorerNormalizesTo100(t *testing.T) {
	s := NewQuestionnaireScorer()

	scores := s.Score([]string{"immunity"}, nil)
	require.NotEmpty(t, scores)

	top, ok := scores["vitamin_c"]
	require.True(t, ok)
	assert.InDelta(t, 100.0, top.FinalScore, 1e-9)

	for _, sc := range scores {
		assert.GreaterOrEqual(t, sc.FinalScore, 0.0)
		assert.LessOrEqual(t, sc.FinalScore, 100.0)
		assert.NotEmpty(t, sc.Reasons)
	}
}

func TestQuestionnaireScorerSkipsNoPreference(t *testing.T) {
	s := NewQuestionnaireScorer()

	with := s.Score([]string{"immunity"}, []string{"no_preference"})
	without := s.Score([]string{"immunity"}, nil)

	require.Equal(t, len(without), len(with))
	for k, v := range without {
		assert.InDelta(t, v.FinalScore, with[k].FinalScore, 1e-9)
	}
}

func TestQuestionnaireScorerUnknownGoal(t *testing.T) {
	s := NewQuestionnaireScorer()
	assert.Empty(t, s.Score([]string{"time_travel"}, nil))
}

func TestReportScorerLowHemoglobinBoostsIron(t *testing.T) {
	s := NewReportScorer()

	scores := s.Score([]LabMetric{{Name: "hemoglobin", Value: 10.5, Unit: "g/dL", Flag: FlagLow}})
	require.NotEmpty(t, scores)

	iron, ok := scores["iron"]
	require.True(t, ok)
	assert.InDelta(t, 100.0, iron.FinalScore, 1e-9)
	require.NotEmpty(t, iron.Reasons)
	assert.Contains(t, iron.Reasons[0], "hemoglobin")
}

func TestReportScorerResolvesNormalFlagAgainstRange(t *testing.T) {
	s := NewReportScorer()

	// 10.5 is below the 12.0 reference floor, so a "normal" flag must be
	// reclassified as low.
	scores := s.Score([]LabMetric{{Name: "Hemoglobin", Value: 10.5, Flag: FlagNormal}})
	_, ok := scores["iron"]
	assert.True(t, ok)

	// In-range value contributes nothing.
	scores = s.Score([]LabMetric{{Name: "hemoglobin", Value: 13.5, Flag: FlagNormal}})
	assert.Empty(t, scores)
}

func TestHybridBlendsReportAndQuestionnaire(t *testing.T) {
	e := NewHybridEngine(testLogger())

	labMetrics := []LabMetric{{Name: "hemoglobin", Value: 10.5, Flag: FlagLow}}
	scores := e.Scores([]string{"energy"}, nil, labMetrics)
	require.NotEmpty(t, scores)

	byName := make(map[string]NutrientScore, len(scores))
	for _, sc := range scores {
		byName[sc.Nutrient] = sc
	}

	iron, ok := byName["iron"]
	require.True(t, ok)
	// energy gives iron 25 of max 30 questionnaire weight; lab gives 100.
	want := 100*ReportWeight + (25.0/30.0*100)*QuestionnaireWeight
	assert.InDelta(t, want, iron.FinalScore, 1e-9)

	// Report-driven iron must outrank a questionnaire-only nutrient with a
	// comparable base weight.
	coq10, ok := byName["coq10"]
	require.True(t, ok)
	assert.Greater(t, iron.FinalScore, coq10.FinalScore)
}

func TestHybridWithoutLabMetricsUsesQuestionnaireOnly(t *testing.T) {
	e := NewHybridEngine(testLogger())

	scores := e.Scores([]string{"sleep"}, nil, nil)
	require.NotEmpty(t, scores)
	for _, sc := range scores {
		assert.InDelta(t, sc.QuestionnaireScore, sc.FinalScore, 1e-9)
		assert.Zero(t, sc.ReportScore)
	}
}

func TestHybridOrderingIsDeterministic(t *testing.T) {
	e := NewHybridEngine(testLogger())

	first := e.Scores([]string{"immunity", "energy"}, []string{"vegan"}, nil)
	for i := 0; i < 5; i++ {
		again := e.Scores([]string{"immunity", "energy"}, []string{"vegan"}, nil)
		require.Equal(t, first, again)
	}

	for i := 1; i < len(first); i++ {
		prev, cur := first[i-1], first[i]
		assert.GreaterOrEqual(t, prev.FinalScore, cur.FinalScore)
		if prev.FinalScore == cur.FinalScore {
			assert.Less(t, prev.Nutrient, cur.Nutrient)
		}
	}
}

func TestHybridQuestionnaireReasonsComeFirst(t *testing.T) {
	e := NewHybridEngine(testLogger())

	labMetrics := []LabMetric{{Name: "vitamin_d", Value: 15, Flag: FlagLow}}
	scores := e.Scores([]string{"immunity"}, nil, labMetrics)

	for _, sc := range scores {
		if sc.Nutrient != "vitamin_d" {
			continue
		}
		require.GreaterOrEqual(t, len(sc.Reasons), 2)
		assert.Contains(t, sc.Reasons[0], "健康目標")
		assert.Contains(t, sc.Reasons[len(sc.Reasons)-1], "建議補充")
	}
}

func TestTopNTruncates(t *testing.T) {
	e := NewHybridEngine(testLogger())

	scores := e.TopN([]string{"immunity", "energy", "skin_health"}, nil, nil, 3)
	assert.Len(t, scores, 3)
}
