package provider

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// MockProvider returns a deterministic, prompt-derived response without
// calling any backend — used by tests and by workflows that set
// `provider: mock`.
type MockProvider struct {
	model string
}

// NewMock builds a MockProvider defaulting to model when a task specifies
// none.
func NewMock(model string) *MockProvider {
	if model == "" {
		model = "mock-default"
	}
	return &MockProvider{model: model}
}

func (m *MockProvider) DefaultModel() string {
	return m.model
}

// Infer simulates latency for prompts that opt into it (used by this
// package's cancellation test) and otherwise returns instantly.
func (m *MockProvider) Infer(ctx context.Context, prompt, _ string) (string, error) {
	if strings.Contains(prompt, "duration: 10s") || strings.Contains(prompt, "think deeply") {
		select {
		case <-time.After(2 * time.Second):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	if prompt == "" {
		return "mock response: task completed successfully", nil
	}
	return fmt.Sprintf("mock response for: %s", prompt), nil
}
