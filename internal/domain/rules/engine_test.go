package rules

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEngine() *Engine {
	return NewEngine(slog.Default())
}

func TestShellfishAllergyBlocksKrillOil(t *testing.T) {
	e := newTestEngine()
	profile := Profile{Allergies: []string{"shellfish"}}

	check := e.CheckNutrient("omega_3_krill", profile)
	assert.False(t, check.Safe)
	assert.NotEmpty(t, check.BlockedBy)

	// Plain omega_3 is only warned about.
	check = e.CheckNutrient("omega_3", profile)
	assert.True(t, check.Safe)
	assert.NotEmpty(t, check.Warnings)
}

func TestAllergyMatchIsCaseInsensitive(t *testing.T) {
	e := newTestEngine()
	check := e.CheckNutrient("Glucosamine", Profile{Allergies: []string{"Shellfish"}})
	assert.False(t, check.Safe)
}

func TestChronicConditionWarnRequiresConsult(t *testing.T) {
	e := newTestEngine()
	profile := Profile{ChronicConditions: []string{"diabetes"}}

	results := e.ApplySafetyRules(profile, []NutrientCandidate{{Nutrient: "chromium", BaseScore: 80}})
	require.Len(t, results, 1)
	assert.Equal(t, ActionWarn, results[0].Action)
	assert.InDelta(t, 0.7, results[0].WeightModifier, 1e-9)
	assert.True(t, results[0].SafetyInfo.RequiresProfessionalConsult)
}

func TestHypertensionBlocksLicorice(t *testing.T) {
	e := newTestEngine()
	check := e.CheckNutrient("licorice", Profile{ChronicConditions: []string{"hypertension"}})
	assert.False(t, check.Safe)
}

func TestDrugInteractionSeverityMapsToAction(t *testing.T) {
	e := newTestEngine()

	cases := []struct {
		name       string
		medication string
		nutrient   string
		action     Action
		weight     float64
	}{
		{"high severity warns at 0.3", "warfarin", "vitamin_k", ActionWarn, 0.3},
		{"medium severity warns at 0.6", "warfarin", "omega_3", ActionWarn, 0.6},
		{"low severity allows at 0.9", "metformin", "vitamin_b12", ActionAllow, 0.9},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			results := e.ApplySafetyRules(
				Profile{Medications: []string{tc.medication}},
				[]NutrientCandidate{{Nutrient: tc.nutrient, BaseScore: 100}},
			)
			require.Len(t, results, 1)
			assert.Equal(t, tc.action, results[0].Action)
			assert.InDelta(t, tc.weight, results[0].WeightModifier, 1e-9)
		})
	}
}

func TestDrugAliasMatching(t *testing.T) {
	e := newTestEngine()

	// Chinese trade name with dosage suffix still resolves to aspirin.
	results := e.ApplySafetyRules(
		Profile{Medications: []string{"拜阿司匹灵100mg"}},
		[]NutrientCandidate{{Nutrient: "ginkgo", BaseScore: 50}},
	)
	require.Len(t, results, 1)
	assert.Equal(t, ActionWarn, results[0].Action)
	require.NotEmpty(t, results[0].SafetyInfo.Interactions)
	assert.Equal(t, "aspirin", results[0].SafetyInfo.Interactions[0].Drug)
}

func TestMaxSeverityWinsAcrossInteractions(t *testing.T) {
	e := newTestEngine()

	// warfarin+aspirin both hit omega_3 at medium; adding ginkgo via aspirin
	// is high. For omega_3 the max stays medium -> 0.6.
	results := e.ApplySafetyRules(
		Profile{Medications: []string{"warfarin", "aspirin"}},
		[]NutrientCandidate{{Nutrient: "omega_3", BaseScore: 100}},
	)
	require.Len(t, results, 1)
	assert.InDelta(t, 0.6, results[0].WeightModifier, 1e-9)
	assert.Len(t, results[0].SafetyInfo.Interactions, 2)
}

func TestMergeTakesStrictestActionAndMinWeight(t *testing.T) {
	e := newTestEngine()

	// shellfish allergy warns omega_3 (0.5), warfarin warns omega_3 (0.6);
	// merged result keeps WARN with the lower modifier.
	profile := Profile{
		Allergies:   []string{"shellfish"},
		Medications: []string{"warfarin"},
	}
	results := e.ApplySafetyRules(profile, []NutrientCandidate{{Nutrient: "omega_3", BaseScore: 100}})
	require.Len(t, results, 1)
	assert.Equal(t, ActionWarn, results[0].Action)
	assert.InDelta(t, 0.5, results[0].WeightModifier, 1e-9)
	assert.True(t, results[0].SafetyInfo.RequiresProfessionalConsult)
}

func TestMergeDeduplicatesWarnings(t *testing.T) {
	e := newTestEngine()

	// fish and shellfish allergies both warn about omega_3 with different
	// texts; duplicates of the same text must collapse.
	profile := Profile{Allergies: []string{"shellfish", "shellfish"}}
	results := e.ApplySafetyRules(profile, []NutrientCandidate{{Nutrient: "omega_3", BaseScore: 100}})
	require.Len(t, results, 1)
	assert.Len(t, results[0].SafetyInfo.Warnings, 1)
}

func TestNoRulesMatchedAllows(t *testing.T) {
	e := newTestEngine()
	results := e.ApplySafetyRules(Profile{}, []NutrientCandidate{{Nutrient: "vitamin_c", BaseScore: 90}})
	require.Len(t, results, 1)
	assert.Equal(t, ActionAllow, results[0].Action)
	assert.InDelta(t, 1.0, results[0].WeightModifier, 1e-9)
}

func TestFilterAndRankCandidates(t *testing.T) {
	e := newTestEngine()
	profile := Profile{
		Allergies:   []string{"shellfish"},
		Medications: []string{"warfarin"},
	}
	candidates := []NutrientCandidate{
		{Nutrient: "glucosamine", BaseScore: 95}, // blocked by allergy
		{Nutrient: "omega_3", BaseScore: 90},     // warned twice, min weight 0.5
		{Nutrient: "vitamin_c", BaseScore: 60},   // untouched
	}

	filtered := e.FilterAndRankCandidates(profile, candidates)
	require.Len(t, filtered, 2)
	assert.Equal(t, "vitamin_c", filtered[0].Nutrient)
	assert.InDelta(t, 60.0, filtered[0].BaseScore, 1e-9)
	assert.Equal(t, "omega_3", filtered[1].Nutrient)
	assert.InDelta(t, 45.0, filtered[1].BaseScore, 1e-9)
}

func TestRecommendedNutrients(t *testing.T) {
	e := newTestEngine()
	got := e.RecommendedNutrients(Profile{ChronicConditions: []string{"diabetes", "hypertension"}})
	assert.Contains(t, got, "magnesium")
	assert.Contains(t, got, "coq10")
	assert.Contains(t, got, "b_vitamins")
	// Shared entries are not duplicated.
	counts := map[string]int{}
	for _, n := range got {
		counts[n]++
	}
	for n, c := range counts {
		assert.Equal(t, 1, c, n)
	}
}

func TestUnknownInputsAreIgnored(t *testing.T) {
	e := newTestEngine()
	check := e.CheckNutrient("vitamin_c", Profile{
		Allergies:         []string{"pollen"},
		ChronicConditions: []string{"asthma"},
		Medications:       []string{"unknown-drug-xyz"},
	})
	assert.True(t, check.Safe)
	assert.Empty(t, check.Warnings)
}
