// Package ai - openai.go
// OpenAI adapter implementing the LLMProvider interface.
package ai

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"
)

// OpenAIProvider implements LLMProvider for the OpenAI chat completions API.
type OpenAIProvider struct {
	apiKey     string
	baseURL    string
	model      string
	httpClient *http.Client
	usage      usage
	budgetGate *BudgetGate
}

// OpenAI API request/response structures
type openAIRequest struct {
	Model       string          `json:"model"`
	Messages    []openAIMessage `json:"messages"`
	MaxTokens   int             `json:"max_tokens,omitempty"`
	Temperature float64         `json:"temperature,omitempty"`
}

type openAIMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openAIResponse struct {
	ID      string `json:"id"`
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage"`
	Model string `json:"model"`
}

// NewOpenAIProvider creates a new OpenAI adapter. The key defaults to OPENAI_API_KEY.
func NewOpenAIProvider(cfg Config, budgetGate *BudgetGate) *OpenAIProvider {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &OpenAIProvider{
		apiKey:     orDefault(cfg.APIKey, os.Getenv("OPENAI_API_KEY")),
		baseURL:    orDefault(cfg.BaseURL, "https://api.openai.com/v1/chat/completions"),
		model:      orDefault(cfg.Model, "gpt-4o-mini"),
		httpClient: &http.Client{Timeout: timeout},
		budgetGate: budgetGate,
	}
}

// Name returns the provider name.
func (p *OpenAIProvider) Name() string {
	return "OpenAI"
}

// IsAvailable checks if the API key is configured.
func (p *OpenAIProvider) IsAvailable() bool {
	return p.apiKey != ""
}

// Complete sends a completion request to OpenAI.
func (p *OpenAIProvider) Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error) {
	if !p.IsAvailable() {
		return nil, fmt.Errorf("OpenAI API key not configured")
	}

	model := p.model
	if req.Model != "" {
		model = req.Model
	}

	// Estimate cost and check budget
	if estimated := p.calculateCost(1000+req.MaxTokens, model); !p.budgetGate.CanSpend(estimated) {
		return nil, fmt.Errorf("budget limit exceeded: %s", p.budgetGate.GetStatus())
	}

	messages := make([]openAIMessage, len(req.Messages))
	for i, m := range req.Messages {
		messages[i] = openAIMessage{Role: m.Role, Content: m.Content}
	}

	var oaiResp openAIResponse
	latency, err := postJSON(ctx, p.httpClient, p.baseURL,
		map[string]string{"Authorization": "Bearer " + p.apiKey},
		openAIRequest{
			Model:       model,
			Messages:    messages,
			MaxTokens:   req.MaxTokens,
			Temperature: req.Temperature,
		}, &oaiResp)
	if err != nil {
		return nil, fmt.Errorf("OpenAI: %w", err)
	}

	if len(oaiResp.Choices) == 0 {
		return nil, fmt.Errorf("no response choices returned")
	}

	// Calculate actual cost and record
	cost := p.calculateCost(oaiResp.Usage.TotalTokens, model)
	p.budgetGate.RecordSpend(cost)
	p.usage.record(oaiResp.Usage.TotalTokens, cost)

	return &CompletionResponse{
		Content:      oaiResp.Choices[0].Message.Content,
		Model:        oaiResp.Model,
		PromptTokens: oaiResp.Usage.PromptTokens,
		OutputTokens: oaiResp.Usage.CompletionTokens,
		TotalTokens:  oaiResp.Usage.TotalTokens,
		CostUSD:      cost,
		Latency:      latency,
		FinishReason: oaiResp.Choices[0].FinishReason,
	}, nil
}

// calculateCost computes the cost based on tokens and model.
func (p *OpenAIProvider) calculateCost(tokens int, model string) float64 {
	switch model {
	case "gpt-4o":
		return float64(tokens) * 0.00003 // $30/1M tokens average
	case "gpt-4o-mini":
		return float64(tokens) * 0.0000005 // $0.50/1M tokens average
	default:
		return float64(tokens) * 0.00001 // Conservative estimate
	}
}

// GetUsageStats returns current usage statistics.
func (p *OpenAIProvider) GetUsageStats() UsageStats {
	return p.usage.snapshot(p.budgetGate)
}

// ResetUsage resets all usage counters.
func (p *OpenAIProvider) ResetUsage() {
	p.usage.reset()
}

// Ensure OpenAIProvider implements LLMProvider
var _ LLMProvider = (*OpenAIProvider)(nil)
