package rules

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"
)

// Engine applies the safety guardrails: allergy rules, chronic condition
// rules, and drug interaction checks.
type Engine struct {
	logger *slog.Logger
}

// NewEngine constructs the rule engine.
func NewEngine(logger *slog.Logger) *Engine {
	return &Engine{logger: logger.With("component", "rules.engine")}
}

// normalizeDrugName maps free-form user input onto the drug class keys of
// the interaction table. Matching is case-insensitive substring in both
// directions so "拜阿司匹灵100mg" and "asp" both resolve to aspirin.
func (e *Engine) normalizeDrugName(medication string) map[string]struct{} {
	lower := strings.ToLower(strings.TrimSpace(medication))
	matched := make(map[string]struct{})

	if _, ok := drugAliases[lower]; ok {
		matched[lower] = struct{}{}
	}
	for drugKey, aliases := range drugAliases {
		for _, alias := range aliases {
			aliasLower := strings.ToLower(alias)
			if strings.Contains(lower, aliasLower) || strings.Contains(aliasLower, lower) {
				matched[drugKey] = struct{}{}
				break
			}
		}
	}
	if len(matched) == 0 && lower != "" {
		e.logger.Debug("medication did not match any known drug class", "medication", medication)
	}
	return matched
}

func (e *Engine) checkAllergyRules(nutrient string, allergies []string) *RuleResult {
	nutrientLower := strings.ToLower(nutrient)
	for _, allergy := range allergies {
		rule, ok := allergyRules[strings.ToLower(allergy)]
		if !ok {
			e.logger.Debug("no rule for reported allergy", "allergy", allergy)
			continue
		}

		if containsFold(rule.BlockedNutrients, nutrientLower) {
			return &RuleResult{
				Nutrient:       nutrient,
				Action:         ActionBlock,
				Reason:         fmt.Sprintf("Blocked due to %s allergy: %s", allergy, rule.Description),
				ReasonZH:       fmt.Sprintf("因%s过敏被阻挡：%s", allergy, rule.DescriptionZH),
				WeightModifier: 0.0,
				SafetyInfo: SafetyInfo{
					Warnings:                    []string{rule.DescriptionZH},
					RequiresProfessionalConsult: true,
				},
			}
		}
		if containsFold(rule.WarningNutrients, nutrientLower) {
			return &RuleResult{
				Nutrient:       nutrient,
				Action:         ActionWarn,
				Reason:         fmt.Sprintf("Warning due to %s allergy: %s", allergy, rule.Description),
				ReasonZH:       fmt.Sprintf("因%s过敏需警告：%s", allergy, rule.DescriptionZH),
				WeightModifier: 0.5,
				SafetyInfo: SafetyInfo{
					Warnings: []string{rule.DescriptionZH},
				},
			}
		}
	}
	return nil
}

func (e *Engine) checkChronicConditionRules(nutrient string, conditions []string) *RuleResult {
	nutrientLower := strings.ToLower(nutrient)
	for _, condition := range conditions {
		rule, ok := chronicConditionRules[strings.ToLower(condition)]
		if !ok {
			e.logger.Debug("no rule for reported condition", "condition", condition)
			continue
		}

		if containsFold(rule.BlockedNutrients, nutrientLower) {
			return &RuleResult{
				Nutrient:       nutrient,
				Action:         ActionBlock,
				Reason:         fmt.Sprintf("Blocked due to %s: %s", condition, rule.Description),
				ReasonZH:       fmt.Sprintf("因%s被阻挡：%s", condition, rule.DescriptionZH),
				WeightModifier: 0.0,
				SafetyInfo: SafetyInfo{
					Warnings:                    []string{rule.DescriptionZH},
					RequiresProfessionalConsult: true,
				},
			}
		}
		if containsFold(rule.WarningNutrients, nutrientLower) {
			return &RuleResult{
				Nutrient:       nutrient,
				Action:         ActionWarn,
				Reason:         fmt.Sprintf("Warning due to %s: %s", condition, rule.Description),
				ReasonZH:       fmt.Sprintf("因%s需警告：%s", condition, rule.DescriptionZH),
				WeightModifier: 0.7,
				SafetyInfo: SafetyInfo{
					Warnings:                    []string{rule.DescriptionZH},
					RequiresProfessionalConsult: true,
				},
			}
		}
	}
	return nil
}

func (e *Engine) checkDrugInteractions(nutrient string, medications []string) *RuleResult {
	normalized := make(map[string]struct{})
	for _, med := range medications {
		for drug := range e.normalizeDrugName(med) {
			normalized[drug] = struct{}{}
		}
	}

	var matched []DrugInteraction
	maxSeverity := SeverityLow
	nutrientLower := strings.ToLower(nutrient)
	for _, interaction := range drugInteractions {
		if _, ok := normalized[interaction.Drug]; !ok {
			continue
		}
		if strings.ToLower(interaction.Nutrient) != nutrientLower {
			continue
		}
		matched = append(matched, interaction)
		if interaction.Severity.Rank() > maxSeverity.Rank() {
			maxSeverity = interaction.Severity
		}
	}
	if len(matched) == 0 {
		return nil
	}

	warnings := make([]string, 0, len(matched))
	for _, interaction := range matched {
		warnings = append(warnings, interaction.DescriptionZH)
	}

	switch maxSeverity {
	case SeverityCritical:
		return &RuleResult{
			Nutrient:       nutrient,
			Action:         ActionBlock,
			Reason:         "Blocked due to critical drug interaction",
			ReasonZH:       "因严重用药交互被阻挡",
			WeightModifier: 0.0,
			SafetyInfo: SafetyInfo{
				Warnings:                    warnings,
				RequiresProfessionalConsult: true,
				Interactions:                matched,
			},
		}
	case SeverityHigh:
		return &RuleResult{
			Nutrient:       nutrient,
			Action:         ActionWarn,
			Reason:         "High severity drug interaction warning",
			ReasonZH:       "高风险用药交互警告",
			WeightModifier: 0.3,
			SafetyInfo: SafetyInfo{
				Warnings:                    warnings,
				RequiresProfessionalConsult: true,
				Interactions:                matched,
			},
		}
	case SeverityMedium:
		return &RuleResult{
			Nutrient:       nutrient,
			Action:         ActionWarn,
			Reason:         "Medium severity drug interaction warning",
			ReasonZH:       "中等风险用药交互警告",
			WeightModifier: 0.6,
			SafetyInfo: SafetyInfo{
				Warnings:                    warnings,
				RequiresProfessionalConsult: true,
				Interactions:                matched,
			},
		}
	default:
		return &RuleResult{
			Nutrient:       nutrient,
			Action:         ActionAllow,
			Reason:         "Low severity drug interaction noted",
			ReasonZH:       "低风险用药交互提示",
			WeightModifier: 0.9,
			SafetyInfo: SafetyInfo{
				Warnings:     warnings,
				Interactions: matched,
			},
		}
	}
}

// CheckNutrient answers whether a single nutrient is safe for the profile.
// The first blocking rule wins as BlockedBy, warnings accumulate from all
// three rule families.
func (e *Engine) CheckNutrient(nutrient string, profile Profile) SafetyCheck {
	var warnings []string
	var blockedBy string

	if r := e.checkAllergyRules(nutrient, profile.Allergies); r != nil {
		warnings = append(warnings, r.SafetyInfo.Warnings...)
		if r.Action == ActionBlock {
			blockedBy = r.ReasonZH
		}
	}
	if r := e.checkChronicConditionRules(nutrient, profile.ChronicConditions); r != nil {
		warnings = append(warnings, r.SafetyInfo.Warnings...)
		if r.Action == ActionBlock && blockedBy == "" {
			blockedBy = r.ReasonZH
		}
	}
	if r := e.checkDrugInteractions(nutrient, profile.Medications); r != nil {
		warnings = append(warnings, r.SafetyInfo.Warnings...)
		if r.Action == ActionBlock && blockedBy == "" {
			blockedBy = r.ReasonZH
		}
	}

	return SafetyCheck{
		Safe:      blockedBy == "",
		Warnings:  warnings,
		BlockedBy: blockedBy,
	}
}

// ApplySafetyRules evaluates every candidate against all rule families and
// merges the per-family verdicts into one RuleResult per candidate, input
// order preserved.
func (e *Engine) ApplySafetyRules(profile Profile, candidates []NutrientCandidate) []RuleResult {
	results := make([]RuleResult, 0, len(candidates))
	for _, candidate := range candidates {
		allergy := e.checkAllergyRules(candidate.Nutrient, profile.Allergies)
		condition := e.checkChronicConditionRules(candidate.Nutrient, profile.ChronicConditions)
		drug := e.checkDrugInteractions(candidate.Nutrient, profile.Medications)
		results = append(results, mergeRuleResults(candidate.Nutrient, allergy, condition, drug))
	}
	return results
}

// mergeRuleResults combines up to three family verdicts: strictest action
// wins, weight modifiers multiply down to the minimum, warnings are
// deduplicated, and professional consult is required if any family says so.
func mergeRuleResults(nutrient string, parts ...*RuleResult) RuleResult {
	var present []*RuleResult
	for _, p := range parts {
		if p != nil {
			present = append(present, p)
		}
	}
	if len(present) == 0 {
		return RuleResult{
			Nutrient:       nutrient,
			Action:         ActionAllow,
			Reason:         "No safety concerns",
			ReasonZH:       "无安全顾虑",
			WeightModifier: 1.0,
		}
	}

	finalAction := ActionAllow
	for _, r := range present {
		if r.Action == ActionBlock {
			finalAction = ActionBlock
			break
		}
		if r.Action == ActionWarn {
			finalAction = ActionWarn
		}
	}

	finalWeight := present[0].WeightModifier
	for _, r := range present[1:] {
		if r.WeightModifier < finalWeight {
			finalWeight = r.WeightModifier
		}
	}

	var reasons, reasonsZH []string
	var interactions []DrugInteraction
	seen := make(map[string]struct{})
	var warnings []string
	requiresConsult := false
	for _, r := range present {
		if r.Reason != "" {
			reasons = append(reasons, r.Reason)
		}
		if r.ReasonZH != "" {
			reasonsZH = append(reasonsZH, r.ReasonZH)
		}
		for _, w := range r.SafetyInfo.Warnings {
			if _, dup := seen[w]; dup {
				continue
			}
			seen[w] = struct{}{}
			warnings = append(warnings, w)
		}
		interactions = append(interactions, r.SafetyInfo.Interactions...)
		if r.SafetyInfo.RequiresProfessionalConsult {
			requiresConsult = true
		}
	}

	return RuleResult{
		Nutrient:       nutrient,
		Action:         finalAction,
		Reason:         strings.Join(reasons, "; "),
		ReasonZH:       strings.Join(reasonsZH, "; "),
		WeightModifier: finalWeight,
		SafetyInfo: SafetyInfo{
			Warnings:                    warnings,
			RequiresProfessionalConsult: requiresConsult,
			Interactions:                interactions,
		},
	}
}

// RecommendedNutrients collects the nutrients the condition rules actively
// suggest for the profile, deduplicated and sorted.
func (e *Engine) RecommendedNutrients(profile Profile) []string {
	set := make(map[string]struct{})
	for _, condition := range profile.ChronicConditions {
		rule, ok := chronicConditionRules[strings.ToLower(condition)]
		if !ok {
			continue
		}
		for _, n := range rule.RecommendedNutrients {
			set[n] = struct{}{}
		}
	}
	out := make([]string, 0, len(set))
	for n := range set {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// FilterAndRankCandidates drops blocked candidates, scales the rest by
// their merged weight modifier, and re-sorts by adjusted score descending.
func (e *Engine) FilterAndRankCandidates(profile Profile, candidates []NutrientCandidate) []NutrientCandidate {
	results := e.ApplySafetyRules(profile, candidates)

	filtered := make([]NutrientCandidate, 0, len(candidates))
	for i, candidate := range candidates {
		if results[i].Action == ActionBlock {
			continue
		}
		filtered = append(filtered, NutrientCandidate{
			Nutrient:  candidate.Nutrient,
			BaseScore: candidate.BaseScore * results[i].WeightModifier,
		})
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		return filtered[i].BaseScore > filtered[j].BaseScore
	})
	return filtered
}

func containsFold(list []string, targetLower string) bool {
	for _, item := range list {
		if strings.ToLower(item) == targetLower {
			return true
		}
	}
	return false
}
