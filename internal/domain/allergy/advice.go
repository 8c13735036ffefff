package allergy

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/yanqian/pollen-calendar/internal/domain/forecast"
	"github.com/yanqian/pollen-calendar/internal/infra/llm/chatgpt"
)

const (
	adviceSourceStatic = "static"
	adviceSourceLLM    = "llm"
)

var staticAdvice = map[forecast.Bucket]Advice{
	forecast.BucketNotInSeason: {
		Summary:  "Nothing you react to is in the air today.",
		Symptoms: "No pollen-related symptoms expected.",
		Tips:     []string{"Enjoy outdoor activities.", "Check upcoming seasons to plan ahead."},
	},
	forecast.BucketVeryLow: {
		Summary:  "Pollen is barely noticeable for you today.",
		Symptoms: "Sensitive people may notice an occasional sneeze.",
		Tips:     []string{"No precautions needed for most people.", "Keep antihistamines handy if you are highly sensitive."},
	},
	forecast.BucketLow: {
		Summary:  "Low pollen exposure for your sensitivities.",
		Symptoms: "Mild sneezing or itchy eyes are possible.",
		Tips:     []string{"Ventilate rooms early in the morning.", "Rinse your face after spending time outside."},
	},
	forecast.BucketModerate: {
		Summary:  "Moderate pollen for your sensitivities.",
		Symptoms: "Runny nose, sneezing and watery eyes are likely.",
		Tips:     []string{"Take preventive medication before going out.", "Wear sunglasses outdoors.", "Keep windows closed during the afternoon."},
	},
	forecast.BucketHigh: {
		Summary:  "High pollen for your sensitivities.",
		Symptoms: "Frequent sneezing, congestion and itchy eyes are expected.",
		Tips:     []string{"Limit time outdoors around midday.", "Shower and change clothes after coming home.", "Dry laundry indoors."},
	},
	forecast.BucketVeryHigh: {
		Summary:  "Very high pollen for your sensitivities.",
		Symptoms: "Strong symptoms are likely, including breathing discomfort for asthmatics.",
		Tips:     []string{"Stay indoors when possible.", "Use an air purifier.", "Contact your doctor if symptoms worsen."},
	},
}

func staticAdviceFor(b forecast.Bucket) Advice {
	advice, ok := staticAdvice[b]
	if !ok {
		advice = staticAdvice[forecast.BucketNotInSeason]
	}
	advice.Tips = append([]string(nil), advice.Tips...)
	advice.Source = adviceSourceStatic
	return advice
}

// advise asks the chat model for personalized tips when one is configured and falls back to the
// static table on any failure.
func (s *service) advise(ctx context.Context, summary forecast.TodaySummary) Advice {
	fallback := staticAdviceFor(summary.Max)
	if s.deps.Chat == nil || strings.TrimSpace(s.cfg.Advice.Model) == "" || len(summary.Blooming) == 0 {
		return fallback
	}

	completion, err := s.deps.Chat.CreateChatCompletion(ctx, chatgpt.ChatCompletionRequest{
		Model: s.cfg.Advice.Model,
		Messages: []chatgpt.Message{
			{Role: "system", Content: s.buildSystemPrompt()},
			{Role: "user", Content: buildAdvicePrompt(summary)},
		},
		Temperature:    s.cfg.Advice.Temperature,
		ResponseFormat: &chatgpt.ResponseFormat{Type: "json_object"},
	})
	if err != nil {
		s.logger.Warn("advice completion failed", "error", err)
		return fallback
	}
	if len(completion.Choices) == 0 {
		s.logger.Warn("advice completion returned no choices")
		return fallback
	}
	advice, err := parseAdvice(completion.Choices[0].Message.Content)
	if err != nil {
		s.logger.Warn("advice completion malformed", "error", err)
		return fallback
	}
	if advice.Symptoms == "" {
		advice.Symptoms = fallback.Symptoms
	}
	advice.Source = adviceSourceLLM
	if usage := completion.Usage.TokenUsage(); !usage.IsZero() {
		advice.Usage = &usage
		s.logger.Debug("advice generated", "totalTokens", usage.TotalTokens)
	}
	return advice
}

func (s *service) buildSystemPrompt() string {
	base := strings.TrimSpace(s.cfg.Advice.Prompt)
	if base == "" {
		base = "You are an allergy coach helping pollen-allergic people plan their day."
	}
	enforcer := " Respond ONLY with valid minified JSON using this shape: {\"summary\":string,\"symptoms\":string,\"tips\":string[]}. Tips must be short actionable strings. Never give medication dosages."
	return base + enforcer
}

func buildAdvicePrompt(summary forecast.TodaySummary) string {
	parts := make([]string, 0, len(summary.Blooming))
	for _, b := range summary.Blooming {
		parts = append(parts, fmt.Sprintf("%s: %s", b.Plant, b.Label))
	}
	return fmt.Sprintf("On %s the pollen levels adjusted to the user's sensitivity are %s. The overall level is %s.",
		summary.Date, strings.Join(parts, ", "), summary.MaxLabel)
}

func parseAdvice(raw string) (Advice, error) {
	sanitized := strings.TrimSpace(raw)
	sanitized = strings.TrimPrefix(sanitized, "```json")
	sanitized = strings.TrimSuffix(sanitized, "```")
	sanitized = strings.TrimSpace(sanitized)

	var wire struct {
		Summary  string   `json:"summary"`
		Symptoms string   `json:"symptoms"`
		Tips     []string `json:"tips"`
	}
	if err := json.Unmarshal([]byte(sanitized), &wire); err != nil {
		return Advice{}, err
	}
	advice := Advice{
		Summary:  strings.TrimSpace(wire.Summary),
		Symptoms: strings.TrimSpace(wire.Symptoms),
		Tips:     normalizeList(wire.Tips),
	}
	if advice.Summary == "" {
		return Advice{}, errors.New("summary missing")
	}
	if len(advice.Tips) == 0 {
		return Advice{}, errors.New("tips missing")
	}
	return advice, nil
}

func normalizeList(items []string) []string {
	out := make([]string, 0, len(items))
	seen := make(map[string]struct{})
	for _, item := range items {
		clean := strings.TrimSpace(item)
		if clean == "" {
			continue
		}
		if _, ok := seen[clean]; ok {
			continue
		}
		seen[clean] = struct{}{}
		out = append(out, clean)
	}
	return out
}
