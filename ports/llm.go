package ports

import "context"

// UsageData is token accounting reported by a provider for one call.
type UsageData struct {
	PromptTokens     int    `json:"prompt_tokens"`
	CompletionTokens int    `json:"completion_tokens"`
	TotalTokens      int    `json:"total_tokens"`
	Model            string `json:"model"`
	Provider         string `json:"provider"`
}

// LLMClient sends one prompt to a generative provider and returns the text.
// Implementations honor ctx deadlines and do not retry.
type LLMClient interface {
	Generate(ctx context.Context, prompt string) (string, error)
	// Model names the provider model, recorded in generation audits.
	Model() string
}
