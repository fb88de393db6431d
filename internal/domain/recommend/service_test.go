package recommend

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nuvia/nutrition-advisor/internal/domain/rules"
	"github.com/nuvia/nutrition-advisor/internal/domain/scoring"
	"github.com/nuvia/nutrition-advisor/internal/infra/llm/grok"
)

type stubChatClient struct {
	reply string
	err   error
	calls int
}

func (s *stubChatClient) CreateChatCompletion(_ context.Context, _ grok.ChatCompletionRequest) (grok.ChatCompletionResponse, error) {
	s.calls++
	if s.err != nil {
		return grok.ChatCompletionResponse{}, s.err
	}
	var res grok.ChatCompletionResponse
	res.Choices = append(res.Choices, struct {
		Message grok.Message `json:"message"`
	}{Message: grok.Message{Role: "assistant", Content: s.reply}})
	return res, nil
}

type stubCommerce struct {
	slots map[string]CommerceSlot
}

func (s *stubCommerce) Resolve(_ context.Context, recKey string) (CommerceSlot, error) {
	if slot, ok := s.slots[recKey]; ok {
		return slot, nil
	}
	return CommerceSlot{}, errors.New("not mapped")
}

func newTestService(client ChatClient, commerce CommerceResolver) Service {
	logger := slog.Default()
	return NewService(
		Config{Model: "grok-4-1-fast-reasoning", CandidatePool: 10, DefaultLocale: "zh-TW", PersonalizedWhy: client != nil},
		scoring.NewHybridEngine(logger),
		rules.NewEngine(logger),
		client, commerce, nil, logger,
	)
}

func TestGenerateReturnsExactlyFiveItems(t *testing.T) {
	svc := newTestService(nil, nil)

	result, err := svc.Generate(context.Background(), "session-1", HealthProfile{
		UserID: "u1",
		Goals:  []string{"immunity", "energy"},
	})
	require.NoError(t, err)

	require.Len(t, result.Items, 5)
	for i, item := range result.Items {
		assert.Equal(t, i+1, item.Rank)
		assert.GreaterOrEqual(t, len(item.Why), 3)
		assert.LessOrEqual(t, len(item.Why), 5)
		assert.GreaterOrEqual(t, item.Confidence, 0)
		assert.LessOrEqual(t, item.Confidence, 100)
		assert.Equal(t, "none", item.CommerceSlot.Type)
	}
	assert.NotEmpty(t, result.Disclaimer)
	assert.False(t, result.GeneratedAt.IsZero())
}

func TestGenerateRejectsEmptySession(t *testing.T) {
	svc := newTestService(nil, nil)
	_, err := svc.Generate(context.Background(), "  ", HealthProfile{Goals: []string{"sleep"}})
	assert.Error(t, err)
}

func TestGenerateFiltersBlockedNutrients(t *testing.T) {
	svc := newTestService(nil, nil)

	// A shellfish allergy blocks glucosamine outright; omega_3 survives with
	// a warning.
	result, err := svc.Generate(context.Background(), "session-2", HealthProfile{
		Goals:     []string{"heart_health", "bone_health"},
		Allergies: []string{"shellfish"},
	})
	require.NoError(t, err)
	require.Len(t, result.Items, 5)
	for _, item := range result.Items {
		assert.NotEqual(t, "glucosamine", item.RecKey)
	}
}

func TestGenerateFallsBackWhenNoGoals(t *testing.T) {
	svc := newTestService(nil, nil)

	result, err := svc.Generate(context.Background(), "session-3", HealthProfile{})
	require.NoError(t, err)
	require.Len(t, result.Items, 5)
	for _, item := range result.Items {
		assert.Equal(t, 50, item.Confidence)
	}
}

func TestGenerateUsesLLMReasonsWhenWellFormed(t *testing.T) {
	client := &stubChatClient{reply: `["理由甲理由甲理由甲", "理由乙理由乙理由乙", "理由丙理由丙理由丙"]`}
	svc := newTestService(client, nil)

	result, err := svc.Generate(context.Background(), "session-4", HealthProfile{Goals: []string{"sleep"}})
	require.NoError(t, err)
	require.Len(t, result.Items, 5)
	assert.Equal(t, []string{"理由甲理由甲理由甲", "理由乙理由乙理由乙", "理由丙理由丙理由丙"}, result.Items[0].Why)
	assert.Greater(t, client.calls, 0)
}

func TestGenerateSurvivesLLMFailure(t *testing.T) {
	client := &stubChatClient{err: errors.New("upstream down")}
	svc := newTestService(client, nil)

	result, err := svc.Generate(context.Background(), "session-5", HealthProfile{Goals: []string{"immunity"}})
	require.NoError(t, err)
	require.Len(t, result.Items, 5)
	for _, item := range result.Items {
		assert.GreaterOrEqual(t, len(item.Why), 3)
	}
}

func TestGenerateRequiresReviewForComplexProfiles(t *testing.T) {
	svc := newTestService(nil, nil)

	cases := []struct {
		name    string
		profile HealthProfile
		want    bool
	}{
		{"simple profile", HealthProfile{Goals: []string{"sleep"}}, false},
		{"three medications", HealthProfile{
			Goals:       []string{"sleep"},
			Medications: []string{"metformin-x", "med-b", "med-c"},
		}, true},
		{"two chronic conditions", HealthProfile{
			Goals:             []string{"sleep"},
			ChronicConditions: []string{"diabetes", "hypertension"},
		}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			result, err := svc.Generate(context.Background(), "session-6", tc.profile)
			require.NoError(t, err)
			assert.Equal(t, tc.want, result.RequiresReview)
		})
	}
}

func TestGenerateResolvesCommerceSlots(t *testing.T) {
	commerce := &stubCommerce{slots: map[string]CommerceSlot{
		"melatonin": {Type: "shopify", ProductID: "prod-123"},
	}}
	svc := newTestService(nil, commerce)

	result, err := svc.Generate(context.Background(), "session-7", HealthProfile{Goals: []string{"sleep"}})
	require.NoError(t, err)

	found := false
	for _, item := range result.Items {
		if item.RecKey == "melatonin" {
			found = true
			assert.Equal(t, "shopify", item.CommerceSlot.Type)
			assert.Equal(t, "prod-123", item.CommerceSlot.ProductID)
		} else {
			assert.Equal(t, "none", item.CommerceSlot.Type)
		}
	}
	assert.True(t, found)
}

func TestParseReasonArray(t *testing.T) {
	cases := []struct {
		name  string
		raw   string
		want  int
		isErr bool
	}{
		{"plain array", `["a", "b", "c"]`, 3, false},
		{"fenced array", "```json\n[\"a\", \"b\", \"c\"]\n```", 3, false},
		{"prose wrapped", `以下是理由：["a", "b", "c"] 希望有帮助`, 3, false},
		{"blank entries dropped", `["a", "  ", "c"]`, 2, false},
		{"no array", "抱歉，我无法生成。", 0, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := parseReasonArray(tc.raw)
			if tc.isErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Len(t, got, tc.want)
		})
	}
}

func TestDisclaimerLocale(t *testing.T) {
	assert.Contains(t, Disclaimer("zh-TW"), "健康免责声明")
	assert.Contains(t, Disclaimer("en"), "Health Disclaimer")
	assert.Contains(t, Disclaimer("fr"), "健康免责声明")
}
