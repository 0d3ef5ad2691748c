package executor

import (
	"context"
	"fmt"

	"github.com/supernovae-st/nika/internal/binding"
	"github.com/supernovae-st/nika/internal/workflow"
	"github.com/supernovae-st/nika/pkg/nikaerr"
)

func (e *TaskExecutor) executeInvoke(ctx context.Context, action *workflow.InvokeAction, bound map[string]any) (string, error) {
	if action.Tool == "" && action.Resource == "" {
		return "", nikaerr.New(nikaerr.CodeInvalidSchema, "invoke action must set either tool or resource", nil)
	}
	client, err := e.mcpPool.Get(ctx, action.MCP)
	if err != nil {
		return "", err
	}

	params := make(map[string]any, len(action.Params))
	for k, v := range action.Params {
		if s, ok := v.(string); ok {
			resolved, err := binding.ResolveTemplate(s, bound)
			if err != nil {
				return "", err
			}
			params[k] = resolved
			continue
		}
		params[k] = v
	}

	switch {
	case action.Tool != "":
		result, err := client.CallTool(ctx, action.Tool, params)
		if err != nil {
			return "", err
		}
		return result.Text, nil
	default:
		resource, err := binding.ResolveTemplate(action.Resource, bound)
		if err != nil {
			return "", err
		}
		return client.ReadResource(ctx, resource)
	}
}
