package executor

import (
	"context"
	"fmt"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github.com/supernovae-st/nika/internal/binding"
	"github.com/supernovae-st/nika/internal/workflow"
	"github.com/supernovae-st/nika/pkg/nikaerr"
)

func (e *TaskExecutor) executeFetch(ctx context.Context, action *workflow.FetchAction, bound map[string]any) (Result, error) {
	url, err := binding.ResolveTemplate(action.URL, bound)
	if err != nil {
		return Result{}, err
	}

	req := e.httpClient.R().SetContext(ctx)
	for key, value := range action.Headers {
		resolved, err := binding.ResolveTemplate(value, bound)
		if err != nil {
			return Result{}, err
		}
		req.SetHeader(key, resolved)
	}
	if action.Body != "" {
		body, err := binding.ResolveTemplate(action.Body, bound)
		if err != nil {
			return Result{}, err
		}
		req.SetBody(body)
	}

	method := strings.ToUpper(action.Method)
	if method == "" {
		method = "GET"
	}

	resp, err := req.Execute(method, url)
	if err != nil {
		return Result{}, nikaerr.New(nikaerr.CodeTaskFailed, fmt.Sprintf("HTTP request to %q failed: %v", url, err), err)
	}

	contentType := mimetype.Detect(resp.Body()).String()
	return Result{
		Output: string(resp.Body()),
		Meta:   map[string]any{"content_type": contentType, "status_code": resp.StatusCode()},
	}, nil
}
