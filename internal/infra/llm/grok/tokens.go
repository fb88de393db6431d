package grok

import (
	"strings"
	"sync"

	"github.com/pkoukk/tiktoken-go"

	"github.com/nuvia/nutrition-advisor/pkg/metrics"
)

var (
	encodingOnce sync.Once
	encoding     *tiktoken.Tiktoken
)

// EstimateUsage computes a local token estimate for a request so callers can
// log prompt budgets even when the upstream response omits usage data. Grok
// does not publish its tokenizer; cl100k_base is close enough for budgeting.
func EstimateUsage(req ChatCompletionRequest) metrics.TokenUsage {
	encodingOnce.Do(func() {
		enc, err := tiktoken.GetEncoding("cl100k_base")
		if err == nil {
			encoding = enc
		}
	})

	var prompt int
	for _, msg := range req.Messages {
		prompt += countTokens(msg.Content) + 4 // per-message framing overhead
	}
	return metrics.TokenUsage{PromptTokens: prompt, TotalTokens: prompt}
}

func countTokens(text string) int {
	if text == "" {
		return 0
	}
	if encoding == nil {
		return len(strings.Fields(text))
	}
	return len(encoding.Encode(text, nil, nil))
}

// TokenUsage converts server-reported usage into the shared metrics shape.
func (u Usage) TokenUsage() metrics.TokenUsage {
	return metrics.TokenUsage{
		PromptTokens:     u.PromptTokens,
		CompletionTokens: u.CompletionTokens,
		TotalTokens:      u.TotalTokens,
	}
}
