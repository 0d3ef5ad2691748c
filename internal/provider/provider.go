// Package provider adapts the five LLM backends Nika's infer/agent verbs can
// target — openai, anthropic, googleai, ollama, and a deterministic mock for
// tests — behind one Provider interface, with a per-executor cache keyed by
// provider+model so a workflow's repeated infer tasks reuse one client.
package provider

import (
	"context"
	"fmt"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/anthropic"
	"github.com/tmc/langchaingo/llms/googleai"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/llms/openai"

	"github.com/supernovae-st/nika/pkg/nikaerr"
)

// Name identifies one of the supported provider backends.
type Name string

const (
	OpenAI    Name = "openai"
	Anthropic Name = "anthropic"
	Google    Name = "google"
	Ollama    Name = "ollama"
	Mock      Name = "mock"
)

// Config carries the settings needed to build a Provider: the workflow- or
// task-level overrides layered over whatever the environment supplies.
type Config struct {
	Name   Name
	Model  string
	APIKey string
	APIURL string
}

// Provider issues one-shot completions for the infer verb and the agent loop.
type Provider interface {
	// Infer runs model (falling back to the provider's configured default
	// when model is empty) against prompt and returns the completion text.
	Infer(ctx context.Context, prompt, model string) (string, error)
	// DefaultModel returns the model this provider uses when a task
	// specifies none.
	DefaultModel() string
}

// New builds a Provider for cfg.Name. It returns a NIKA-030
// ProviderNotConfigured error for an unrecognized name — the same family
// the legacy bare Provider(string) shape used, per the Open Question in
// spec.md §9.
func New(cfg Config) (Provider, error) {
	switch cfg.Name {
	case OpenAI:
		return newLangchainProvider(cfg, func() (llms.Model, error) {
			opts := []openai.Option{openai.WithModel(cfg.Model)}
			if cfg.APIKey != "" {
				opts = append(opts, openai.WithToken(cfg.APIKey))
			}
			if cfg.APIURL != "" {
				opts = append(opts, openai.WithBaseURL(cfg.APIURL))
			}
			return openai.New(opts...)
		})
	case Anthropic:
		return newLangchainProvider(cfg, func() (llms.Model, error) {
			opts := []anthropic.Option{anthropic.WithModel(cfg.Model)}
			if cfg.APIKey != "" {
				opts = append(opts, anthropic.WithToken(cfg.APIKey))
			}
			return anthropic.New(opts...)
		})
	case Google:
		return newLangchainProvider(cfg, func() (llms.Model, error) {
			opts := []googleai.Option{googleai.WithDefaultModel(cfg.Model)}
			if cfg.APIKey != "" {
				opts = append(opts, googleai.WithAPIKey(cfg.APIKey))
			}
			return googleai.New(context.Background(), opts...)
		})
	case Ollama:
		return newLangchainProvider(cfg, func() (llms.Model, error) {
			opts := []ollama.Option{ollama.WithModel(cfg.Model)}
			if cfg.APIURL != "" {
				opts = append(opts, ollama.WithServerURL(cfg.APIURL))
			}
			return ollama.New(opts...)
		})
	case Mock:
		return NewMock(cfg.Model), nil
	default:
		return nil, nikaerr.New(nikaerr.CodeProviderNotConfigured,
			fmt.Sprintf("unknown provider %q", cfg.Name), nil).
			WithSuggestion(`set provider to one of "openai", "anthropic", "google", "ollama", or "mock"`)
	}
}

// langchainProvider adapts a langchaingo llms.Model to Provider.
type langchainProvider struct {
	model        llms.Model
	defaultModel string
}

func newLangchainProvider(cfg Config, build func() (llms.Model, error)) (Provider, error) {
	m, err := build()
	if err != nil {
		return nil, nikaerr.New(nikaerr.CodeInvalidProviderConfig,
			fmt.Sprintf("failed to build %s provider: %v", cfg.Name, err), err)
	}
	return &langchainProvider{model: m, defaultModel: cfg.Model}, nil
}

func (p *langchainProvider) DefaultModel() string {
	return p.defaultModel
}

// Model exposes the underlying langchaingo model for callers (the agent
// loop) that need full GenerateContent access — tool calls, multi-part
// messages — beyond Provider's one-shot Infer.
func (p *langchainProvider) Model() llms.Model {
	return p.model
}

func (p *langchainProvider) Infer(ctx context.Context, prompt, model string) (string, error) {
	opts := []llms.CallOption{}
	if model != "" {
		opts = append(opts, llms.WithModel(model))
	}
	out, err := llms.GenerateFromSinglePrompt(ctx, p.model, prompt, opts...)
	if err != nil {
		return "", nikaerr.New(nikaerr.CodeProviderAPIError, fmt.Sprintf("provider call failed: %v", err), err)
	}
	return out, nil
}
