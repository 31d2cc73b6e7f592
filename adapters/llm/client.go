package llm

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"interviewbuddy/ports"
)

// Config holds LLM client configuration
type Config struct {
	Provider    string        // "gemini" | "openai" | "none"
	Model       string        // e.g. "gemini-2.0-flash"
	APIKey      string        // provider key
	BaseURL     string        // optional OpenAI-compatible endpoint
	Temperature float64       // 0.0-1.0, lower = more deterministic
	MaxTokens   int           // max tokens in response
	Timeout     time.Duration // per-call timeout
}

// NewClient creates the configured provider client. Provider "none" yields a
// nil client; adapters then serve every call from their fallback.
func NewClient(ctx context.Context, config Config, log *zap.Logger) (ports.LLMClient, error) {
	switch strings.ToLower(config.Provider) {
	case "gemini":
		client, err := NewGeminiClient(ctx, config, log)
		if err != nil {
			return nil, err
		}
		return client, nil
	case "openai":
		client, err := NewOpenAIClient(config, log)
		if err != nil {
			return nil, err
		}
		return client, nil
	case "none", "":
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown llm provider %q", config.Provider)
	}
}

// withTimeout bounds a call by the configured timeout when one is set.
func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}

// MockLLMClient is a mock LLM client for testing
type MockLLMClient struct {
	Response  string                              // returned for every prompt
	Error     error                               // simulates an upstream failure
	Responder func(prompt string) (string, error) // overrides Response and Error

	mu      sync.Mutex
	Prompts []string
}

func (m *MockLLMClient) Generate(ctx context.Context, prompt string) (string, error) {
	m.mu.Lock()
	m.Prompts = append(m.Prompts, prompt)
	m.mu.Unlock()

	if m.Responder != nil {
		return m.Responder(prompt)
	}
	if m.Error != nil {
		return "", m.Error
	}
	return m.Response, nil
}

func (m *MockLLMClient) Model() string {
	return "mock"
}

// Calls returns how many prompts were sent.
func (m *MockLLMClient) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Prompts)
}
