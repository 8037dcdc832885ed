// Package ai - prompts.go
// The advisor prompt: one short, actionable tip from an economy summary.
package ai

import (
	"strings"
)

// AdvisorSystemPrompt frames the model as the game's strategy advisor.
const AdvisorSystemPrompt = `You are an expert advisor for the game "Idle Mining Tycoon". Your goal is to help the player make smart decisions.`

// TipMaxWords bounds the advisor's answer.
const TipMaxWords = 25

// BuildTipPrompt wraps a rendered economy summary in the tip instructions.
func BuildTipPrompt(summary string) string {
	var sb strings.Builder

	sb.WriteString("Analyze the following game state summary and provide one short, actionable tip (max 25 words) to guide the player.\n")
	sb.WriteString("Focus on identifying the biggest bottleneck or the most valuable next upgrade. ")
	sb.WriteString("For example, if elevator storage is nearly full, suggest upgrading the pipeline. ")
	sb.WriteString("If a certain upgrade is very affordable compared to income, suggest it.\n\n")
	sb.WriteString("Game State:\n")
	sb.WriteString(summary)
	sb.WriteString("\n\nYour concise tip:")

	return sb.String()
}

// TipRequest builds the completion request for a summary.
func TipRequest(summary string) CompletionRequest {
	return CompletionRequest{
		Messages: []Message{
			{Role: "system", Content: AdvisorSystemPrompt},
			{Role: "user", Content: BuildTipPrompt(summary)},
		},
		MaxTokens:   TipMaxWords * 4,
		Temperature: 0.7,
	}
}
