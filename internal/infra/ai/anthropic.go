// Package ai - anthropic.go
// Anthropic Claude adapter implementing the LLMProvider interface.
package ai

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"
)

// AnthropicProvider implements LLMProvider for the Anthropic messages API.
type AnthropicProvider struct {
	apiKey     string
	baseURL    string
	model      string
	httpClient *http.Client
	usage      usage
	budgetGate *BudgetGate
}

// Anthropic API structures
type anthropicRequest struct {
	Model       string             `json:"model"`
	MaxTokens   int                `json:"max_tokens"`
	System      string             `json:"system,omitempty"`
	Messages    []anthropicMessage `json:"messages"`
	Temperature float64            `json:"temperature,omitempty"`
}

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicResponse struct {
	ID      string `json:"id"`
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Model      string `json:"model"`
	StopReason string `json:"stop_reason"`
	Usage      struct {
		InputTokens  int `json:"input_tokens"`
		OutputTokens int `json:"output_tokens"`
	} `json:"usage"`
}

// NewAnthropicProvider creates a new Claude adapter. The key defaults to ANTHROPIC_API_KEY.
func NewAnthropicProvider(cfg Config, budgetGate *BudgetGate) *AnthropicProvider {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &AnthropicProvider{
		apiKey:     orDefault(cfg.APIKey, os.Getenv("ANTHROPIC_API_KEY")),
		baseURL:    orDefault(cfg.BaseURL, "https://api.anthropic.com/v1/messages"),
		model:      orDefault(cfg.Model, "claude-3-haiku-20240307"),
		httpClient: &http.Client{Timeout: timeout},
		budgetGate: budgetGate,
	}
}

// Name returns the provider name.
func (p *AnthropicProvider) Name() string {
	return "Anthropic Claude"
}

// IsAvailable checks if the API key is configured.
func (p *AnthropicProvider) IsAvailable() bool {
	return p.apiKey != ""
}

// Complete sends a completion request to Claude.
func (p *AnthropicProvider) Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error) {
	if !p.IsAvailable() {
		return nil, fmt.Errorf("Anthropic API key not configured")
	}

	model := p.model
	if req.Model != "" {
		model = req.Model
	}

	// Check budget
	if estimated := p.calculateCost(2000+req.MaxTokens, model); !p.budgetGate.CanSpend(estimated) {
		return nil, fmt.Errorf("budget limit exceeded: %s", p.budgetGate.GetStatus())
	}

	// System text travels outside the message list.
	var system []string
	var messages []anthropicMessage
	for _, m := range req.Messages {
		if m.Role == "system" {
			system = append(system, m.Content)
			continue
		}
		messages = append(messages, anthropicMessage{Role: m.Role, Content: m.Content})
	}

	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 256
	}

	var anthResp anthropicResponse
	latency, err := postJSON(ctx, p.httpClient, p.baseURL,
		map[string]string{
			"x-api-key":         p.apiKey,
			"anthropic-version": "2023-06-01",
		},
		anthropicRequest{
			Model:       model,
			MaxTokens:   maxTokens,
			System:      strings.Join(system, "\n\n"),
			Messages:    messages,
			Temperature: req.Temperature,
		}, &anthResp)
	if err != nil {
		return nil, fmt.Errorf("Anthropic: %w", err)
	}

	var text strings.Builder
	for _, block := range anthResp.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}
	if text.Len() == 0 {
		return nil, fmt.Errorf("no response content returned")
	}

	totalTokens := anthResp.Usage.InputTokens + anthResp.Usage.OutputTokens
	cost := p.calculateCost(totalTokens, model)
	p.budgetGate.RecordSpend(cost)
	p.usage.record(totalTokens, cost)

	return &CompletionResponse{
		Content:      text.String(),
		Model:        anthResp.Model,
		PromptTokens: anthResp.Usage.InputTokens,
		OutputTokens: anthResp.Usage.OutputTokens,
		TotalTokens:  totalTokens,
		CostUSD:      cost,
		Latency:      latency,
		FinishReason: anthResp.StopReason,
	}, nil
}

// calculateCost computes cost based on tokens.
func (p *AnthropicProvider) calculateCost(tokens int, model string) float64 {
	switch model {
	case "claude-3-5-sonnet-20241022":
		return float64(tokens) * 0.000009
	case "claude-3-haiku-20240307":
		return float64(tokens) * 0.0000005
	default:
		return float64(tokens) * 0.00001
	}
}

// GetUsageStats returns current usage statistics.
func (p *AnthropicProvider) GetUsageStats() UsageStats {
	return p.usage.snapshot(p.budgetGate)
}

// ResetUsage resets all usage counters.
func (p *AnthropicProvider) ResetUsage() {
	p.usage.reset()
}

// Ensure AnthropicProvider implements LLMProvider
var _ LLMProvider = (*AnthropicProvider)(nil)
