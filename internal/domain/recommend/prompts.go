package recommend

import (
	"fmt"
	"strings"

	"github.com/nuvia/nutrition-advisor/internal/domain/scoring"
)

const reportInterpretationSystem = "你是一个专业的营养师，负责解读体检报告并给出简短的健康建议。"

// buildPersonalizedWhyPrompt asks the model to rewrite the base scoring
// reasons as exactly three nutritionist-voiced sentences.
func buildPersonalizedWhyPrompt(nutrientName string, profile HealthProfile, baseReasons []string, benefits []string) string {
	goals := "未指定"
	if len(profile.Goals) > 0 {
		goals = strings.Join(profile.Goals, ", ")
	}
	prefs := "无特殊偏好"
	if len(profile.DietaryPreferences) > 0 {
		prefs = strings.Join(profile.DietaryPreferences, ", ")
	}

	labSummary := "- 健康指标: 暂未提供报告"
	if abnormal := abnormalMetricsSummary(profile.LabMetrics, 3); abnormal != "" {
		labSummary = "- 健康指标异常项: " + abnormal
	}

	reasonsBlock := "无"
	if len(baseReasons) > 0 {
		lines := make([]string, 0, len(baseReasons))
		for _, r := range baseReasons {
			lines = append(lines, "- "+r)
		}
		reasonsBlock = strings.Join(lines, "\n")
	}

	benefitsBlock := "综合营养支持"
	if len(benefits) > 0 {
		benefitsBlock = strings.Join(benefits, ", ")
	}

	return fmt.Sprintf(`你是一位专业且亲切的营养师。请为用户生成关于「%s」的个性化推荐理由。

## 用户资料
- 健康目标: %s
- 饮食偏好: %s
%s

## 已知信息
%s

## 营养素功效
%s

## 要求
1. 生成恰好 3 条推荐理由
2. 每条理由 25-50 字
3. 语气亲切专业，像营养师面对面建议
4. 必须结合用户具体情况（目标、饮食、指标）
5. 避免使用「您的健康目标」这种机械表述
6. 让用户感受到这是为他量身定制的建议

## 输出格式
只返回 JSON 数组，不要有其他文字：
["理由1", "理由2", "理由3"]`,
		nutrientName, goals, prefs, labSummary, reasonsBlock, benefitsBlock)
}

// buildReportInterpretationPrompt produces the one-shot lab report summary
// request.
func buildReportInterpretationPrompt(labMetrics []scoring.LabMetric) string {
	lines := make([]string, 0, len(labMetrics))
	for _, m := range labMetrics {
		flag := m.Flag
		if flag == "" {
			flag = scoring.FlagNormal
		}
		lines = append(lines, fmt.Sprintf("- %s: %v %s (%s)", m.Name, m.Value, m.Unit, flag))
	}

	return fmt.Sprintf(`您是一位专业的健康顾问。请根据以下体检报告数据，提供一个简洁的整体健康评估和建议。

体检指标：
%s

请提供：
1. 整体健康状况评估（2-3 句话）
2. 主要关注点（如有异常指标）
3. 生活方式建议（2-3 条）

请用简洁、易懂的语言，不要超过 200 字。`, strings.Join(lines, "\n"))
}

// abnormalMetricsSummary renders up to limit low/high metrics as
// "name: value (flag)" joined with commas, empty when none are abnormal.
func abnormalMetricsSummary(labMetrics []scoring.LabMetric, limit int) string {
	var parts []string
	for _, m := range labMetrics {
		flag := strings.ToLower(m.Flag)
		if flag != scoring.FlagLow && flag != scoring.FlagHigh {
			continue
		}
		parts = append(parts, fmt.Sprintf("%s: %v (%s)", m.Name, m.Value, flag))
		if len(parts) >= limit {
			break
		}
	}
	return strings.Join(parts, ", ")
}
