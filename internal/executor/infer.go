package executor

import (
	"context"

	"github.com/supernovae-st/nika/internal/binding"
	"github.com/supernovae-st/nika/internal/workflow"
)

func (e *TaskExecutor) executeInfer(ctx context.Context, infer *workflow.InferAction, bound map[string]any) (string, error) {
	prompt, err := binding.ResolveTemplate(infer.Prompt, bound)
	if err != nil {
		return "", err
	}

	p, err := e.getProvider(infer.Provider, infer.Model)
	if err != nil {
		return "", err
	}

	model := infer.Model
	if model == "" {
		model = p.DefaultModel()
	}
	return p.Infer(ctx, prompt, model)
}
