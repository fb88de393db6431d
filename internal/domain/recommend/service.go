package recommend

import (
	"context"
	"encoding/json"
	"log/slog"
	"regexp"
	"sort"
	"strings"

	"github.com/nuvia/nutrition-advisor/internal/domain/rules"
	"github.com/nuvia/nutrition-advisor/internal/domain/scoring"
	"github.com/nuvia/nutrition-advisor/internal/infra/llm/grok"
	apperrors "github.com/nuvia/nutrition-advisor/pkg/errors"
	"github.com/nuvia/nutrition-advisor/pkg/metrics"
	"github.com/nuvia/nutrition-advisor/pkg/util"
)

// Config carries the tunables of the recommendation pipeline.
type Config struct {
	Model           string
	Temperature     float32
	CandidatePool   int
	DefaultLocale   string
	PersonalizedWhy bool
}

// Service generates supplement recommendations for a health profile.
type Service interface {
	Generate(ctx context.Context, sessionID string, profile HealthProfile) (Result, error)
}

// ChatClient is the LLM surface the service depends on.
type ChatClient interface {
	CreateChatCompletion(ctx context.Context, req grok.ChatCompletionRequest) (grok.ChatCompletionResponse, error)
}

// CommerceResolver maps a rec key to a purchasable product slot.
type CommerceResolver interface {
	Resolve(ctx context.Context, recKey string) (CommerceSlot, error)
}

// ReportStore retrieves lab metrics previously uploaded for a session.
type ReportStore interface {
	Get(ctx context.Context, sessionID string) ([]scoring.LabMetric, error)
}

type service struct {
	cfg         Config
	engine      *scoring.HybridEngine
	ruleEngine  *rules.Engine
	client      ChatClient
	commerce    CommerceResolver
	reportStore ReportStore
	logger      *slog.Logger
}

// NewService wires up the recommendation domain. client, commerce, and
// reportStore may be nil; the service degrades to scoring-only output.
func NewService(cfg Config, engine *scoring.HybridEngine, ruleEngine *rules.Engine, client ChatClient, commerce CommerceResolver, reportStore ReportStore, logger *slog.Logger) Service {
	if cfg.CandidatePool <= 0 {
		cfg.CandidatePool = 10
	}
	return &service{
		cfg:         cfg,
		engine:      engine,
		ruleEngine:  ruleEngine,
		client:      client,
		commerce:    commerce,
		reportStore: reportStore,
		logger:      logger.With("component", "recommend.service"),
	}
}

func (s *service) Generate(ctx context.Context, sessionID string, profile HealthProfile) (Result, error) {
	if strings.TrimSpace(sessionID) == "" {
		return Result{}, apperrors.Wrap("invalid_input", "session_id is required", nil)
	}

	labMetrics := profile.LabMetrics
	if len(labMetrics) == 0 && s.reportStore != nil {
		stored, err := s.reportStore.Get(ctx, sessionID)
		if err != nil {
			s.logger.Warn("report store lookup failed", "session_id", sessionID, "error", err)
		} else if len(stored) > 0 {
			labMetrics = stored
			profile.LabMetrics = stored
		}
	}

	ruleProfile := profile.RuleProfile()
	topNutrients := s.engine.TopN(profile.Goals, profile.DietaryPreferences, labMetrics, s.cfg.CandidatePool)

	type scoredCandidate struct {
		score scoring.NutrientScore
		check rules.SafetyCheck
	}

	var passed []scoredCandidate
	for _, ns := range topNutrients {
		check := s.ruleEngine.CheckNutrient(ns.Nutrient, ruleProfile)
		if !check.Safe {
			s.logger.Info("nutrient blocked by safety rules", "nutrient", ns.Nutrient, "blocked_by", check.BlockedBy)
			continue
		}
		passed = append(passed, scoredCandidate{score: ns, check: check})
	}

	if len(passed) == 0 {
		s.logger.Warn("scoring produced no usable candidates, using fallback ranking", "session_id", sessionID)
		return s.generateFallback(ctx, sessionID, profile), nil
	}

	// Top up to five from the knowledge base when the scored pool runs
	// short, skipping anything the rules block.
	if len(passed) < 5 {
		present := make(map[string]struct{}, len(passed))
		for _, c := range passed {
			present[c.score.Nutrient] = struct{}{}
		}
		for _, recKey := range sortedNutrientKeys() {
			if len(passed) >= 5 {
				break
			}
			if _, dup := present[recKey]; dup {
				continue
			}
			check := s.ruleEngine.CheckNutrient(recKey, ruleProfile)
			if !check.Safe {
				continue
			}
			present[recKey] = struct{}{}
			passed = append(passed, scoredCandidate{
				score: scoring.NutrientScore{Nutrient: recKey, FinalScore: 50},
				check: check,
			})
		}
	}
	if len(passed) > 5 {
		passed = passed[:5]
	}

	var usage metrics.TokenUsage
	items := make([]Item, 0, len(passed))
	for i, candidate := range passed {
		recKey := candidate.score.Nutrient

		baseReasons := candidate.score.Reasons
		if len(baseReasons) > 5 {
			baseReasons = baseReasons[:5]
		}
		why := s.personalizedWhy(ctx, recKey, profile, baseReasons, &usage)

		items = append(items, Item{
			Rank:   i + 1,
			RecKey: recKey,
			Name:   nutrientDisplayName(recKey),
			Why:    why,
			Safety: SafetyInfo{
				Warnings:                    candidate.check.Warnings,
				RequiresProfessionalConsult: len(candidate.check.Warnings) > 0,
				Interactions:                []rules.DrugInteraction{},
			},
			Confidence:   clampConfidence(candidate.score.FinalScore),
			CommerceSlot: s.resolveCommerce(ctx, recKey),
		})
	}

	interpretation := ""
	if len(labMetrics) > 0 && s.client != nil {
		interpretation = s.interpretReport(ctx, labMetrics, &usage)
	}

	result := Result{
		SessionID:            sessionID,
		GeneratedAt:          util.NowUTC(),
		Items:                items,
		Disclaimer:           Disclaimer(s.cfg.DefaultLocale),
		RequiresReview:       s.requiresReview(profile, items),
		ReportInterpretation: interpretation,
	}
	s.logger.Info("recommendations generated",
		"session_id", sessionID,
		"items", len(result.Items),
		"requires_review", result.RequiresReview,
		"prompt_tokens", usage.PromptTokens,
		"completion_tokens", usage.CompletionTokens,
	)
	return result, nil
}

// generateFallback ranks the knowledge base by goal overlap when the
// scoring engine has nothing to say (for example an empty questionnaire).
func (s *service) generateFallback(ctx context.Context, sessionID string, profile HealthProfile) Result {
	ruleProfile := profile.RuleProfile()

	candidates := make([]rules.NutrientCandidate, 0, len(nutrientDatabase))
	for _, recKey := range sortedNutrientKeys() {
		candidates = append(candidates, rules.NutrientCandidate{
			Nutrient:  recKey,
			BaseScore: baseScore(recKey, profile.Goals),
		})
	}
	filtered := s.ruleEngine.FilterAndRankCandidates(ruleProfile, candidates)
	if len(filtered) > 5 {
		filtered = filtered[:5]
	}

	items := make([]Item, 0, 5)
	for i, candidate := range filtered {
		info := nutrientDatabase[candidate.Nutrient]

		why := make([]string, 0, 3)
		for _, b := range info.Benefits {
			if len(why) >= 3 {
				break
			}
			why = append(why, "有助于"+b)
		}
		why = padReasons(why)

		check := s.ruleEngine.CheckNutrient(candidate.Nutrient, ruleProfile)
		items = append(items, Item{
			Rank:   i + 1,
			RecKey: candidate.Nutrient,
			Name:   nutrientDisplayName(candidate.Nutrient),
			Why:    why,
			Safety: SafetyInfo{
				Warnings:                    check.Warnings,
				RequiresProfessionalConsult: len(check.Warnings) > 0,
				Interactions:                []rules.DrugInteraction{},
			},
			Confidence:   clampConfidence(candidate.BaseScore),
			CommerceSlot: s.resolveCommerce(ctx, candidate.Nutrient),
		})
	}

	return Result{
		SessionID:      sessionID,
		GeneratedAt:    util.NowUTC(),
		Items:          items,
		Disclaimer:     Disclaimer(s.cfg.DefaultLocale),
		RequiresReview: s.requiresReview(profile, items),
	}
}

// personalizedWhy asks the LLM to rewrite the scoring reasons as three
// nutritionist-voiced sentences, falling back to the raw reasons whenever
// the model is unavailable or returns something unusable.
func (s *service) personalizedWhy(ctx context.Context, recKey string, profile HealthProfile, baseReasons []string, usage *metrics.TokenUsage) []string {
	if !s.cfg.PersonalizedWhy || s.client == nil {
		return padReasons(baseReasons)
	}

	info := nutrientDatabase[recKey]
	name := nutrientDisplayName(recKey).ZhTW
	prompt := buildPersonalizedWhyPrompt(name, profile, baseReasons, info.Benefits)

	chatReq := grok.ChatCompletionRequest{
		Model:       s.cfg.Model,
		Messages:    []grok.Message{{Role: "user", Content: prompt}},
		Temperature: s.cfg.Temperature,
		MaxTokens:   300,
	}
	completion, err := s.client.CreateChatCompletion(ctx, chatReq)
	if err != nil {
		s.logger.Warn("personalized why generation failed", "nutrient", recKey, "error", err)
		return padReasons(baseReasons)
	}
	*usage = usage.Add(responseUsage(chatReq, completion))
	if len(completion.Choices) == 0 {
		return padReasons(baseReasons)
	}

	reasons, err := parseReasonArray(completion.Choices[0].Message.Content)
	if err != nil || len(reasons) < 3 {
		s.logger.Warn("personalized why response malformed", "nutrient", recKey, "error", err)
		return padReasons(baseReasons)
	}
	return reasons[:3]
}

func (s *service) interpretReport(ctx context.Context, labMetrics []scoring.LabMetric, usage *metrics.TokenUsage) string {
	chatReq := grok.ChatCompletionRequest{
		Model: s.cfg.Model,
		Messages: []grok.Message{
			{Role: "system", Content: reportInterpretationSystem},
			{Role: "user", Content: buildReportInterpretationPrompt(labMetrics)},
		},
		Temperature: 0.5,
		MaxTokens:   500,
	}
	completion, err := s.client.CreateChatCompletion(ctx, chatReq)
	if err != nil {
		s.logger.Warn("report interpretation failed", "error", err)
		return ""
	}
	*usage = usage.Add(responseUsage(chatReq, completion))
	if len(completion.Choices) == 0 {
		return ""
	}
	return strings.TrimSpace(completion.Choices[0].Message.Content)
}

func (s *service) resolveCommerce(ctx context.Context, recKey string) CommerceSlot {
	if s.commerce == nil {
		return CommerceSlot{Type: "none"}
	}
	slot, err := s.commerce.Resolve(ctx, recKey)
	if err != nil {
		s.logger.Debug("commerce resolution failed", "rec_key", recKey, "error", err)
		return CommerceSlot{Type: "none"}
	}
	return slot
}

// requiresReview flags sessions whose health context is complex enough to
// warrant a human look before the recommendations ship.
func (s *service) requiresReview(profile HealthProfile, items []Item) bool {
	if len(profile.Medications) > 2 || len(profile.ChronicConditions) > 1 {
		return true
	}
	for _, item := range items {
		if item.Safety.RequiresProfessionalConsult {
			return true
		}
	}
	return false
}

// baseScore is the goal-overlap heuristic used by the fallback path:
// 50 plus 20 per matching goal, capped at 100.
func baseScore(recKey string, goals []string) float64 {
	info, ok := nutrientDatabase[recKey]
	if !ok {
		return 0
	}
	goalSet := make(map[string]struct{}, len(goals))
	for _, g := range goals {
		goalSet[g] = struct{}{}
	}
	score := 50.0
	for _, g := range info.Goals {
		if _, ok := goalSet[g]; ok {
			score += 20
		}
	}
	if score > 100 {
		score = 100
	}
	return score
}

var genericReasons = []string{
	"根据您的健康档案推荐",
	"有助于整体健康",
	"适合您的需求",
}

// padReasons trims to at most five and pads to at least three.
func padReasons(reasons []string) []string {
	out := make([]string, 0, 5)
	for _, r := range reasons {
		if len(out) >= 5 {
			break
		}
		if strings.TrimSpace(r) == "" {
			continue
		}
		out = append(out, r)
	}
	for _, filler := range genericReasons {
		if len(out) >= 3 {
			break
		}
		out = append(out, filler)
	}
	return out
}

var jsonArrayPattern = regexp.MustCompile(`(?s)\[.*\]`)

// parseReasonArray pulls a JSON string array out of the model reply,
// tolerating markdown fences and surrounding prose.
func parseReasonArray(raw string) ([]string, error) {
	sanitized := strings.TrimSpace(raw)
	sanitized = strings.TrimPrefix(sanitized, "```json")
	sanitized = strings.TrimSuffix(sanitized, "```")
	sanitized = strings.Trim(sanitized, "`")
	sanitized = strings.TrimSpace(strings.TrimPrefix(sanitized, "json"))

	if !strings.HasPrefix(sanitized, "[") {
		match := jsonArrayPattern.FindString(sanitized)
		if match == "" {
			return nil, apperrors.Wrap("llm_error", "no JSON array in response", nil)
		}
		sanitized = match
	}

	var reasons []string
	if err := json.Unmarshal([]byte(sanitized), &reasons); err != nil {
		return nil, err
	}

	out := make([]string, 0, len(reasons))
	for _, r := range reasons {
		if clean := strings.TrimSpace(r); clean != "" {
			out = append(out, clean)
		}
	}
	return out, nil
}

func clampConfidence(score float64) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return int(score)
}

func sortedNutrientKeys() []string {
	keys := make([]string, 0, len(nutrientDatabase))
	for k := range nutrientDatabase {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// responseUsage prefers server-reported token counts, falling back to a
// local estimate when the upstream response omits them.
func responseUsage(req grok.ChatCompletionRequest, resp grok.ChatCompletionResponse) metrics.TokenUsage {
	if u := resp.Usage.TokenUsage(); !u.IsZero() {
		return u
	}
	return grok.EstimateUsage(req)
}
