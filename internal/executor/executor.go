// Package executor runs one task's verb (infer/exec/fetch/invoke/agent)
// against its resolved bindings, sharing one HTTP client and provider/MCP
// caches across every task in a run.
package executor

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/supernovae-st/nika/internal/mcp"
	"github.com/supernovae-st/nika/internal/provider"
	"github.com/supernovae-st/nika/internal/workflow"
	"github.com/supernovae-st/nika/pkg/nikaerr"
)

// execTimeout bounds a shell command's wall-clock time.
const execTimeout = 60 * time.Second

// fetchTimeout bounds one HTTP request's wall-clock time.
const fetchTimeout = 30 * time.Second

// connectTimeout bounds the TCP/TLS handshake of one HTTP request.
const connectTimeout = 10 * time.Second

// maxRedirects caps the number of redirects resty will follow.
const maxRedirects = 5

// TaskExecutor dispatches a single task's action to the right verb handler,
// with provider clients and MCP connections cached across the run.
type TaskExecutor struct {
	httpClient      *resty.Client
	providers       *provider.Cache
	mcpPool         *mcp.Pool
	defaultProvider provider.Name
	defaultModel    string
}

// New builds a TaskExecutor. defaultProvider/defaultModel are the
// workflow-level fallbacks an infer/agent task uses when it declares
// neither.
func New(defaultProvider provider.Name, defaultModel string, servers map[string]mcp.ServerConfig) *TaskExecutor {
	client := resty.New().
		SetTimeout(fetchTimeout).
		SetRedirectPolicy(resty.FlexibleRedirectPolicy(maxRedirects)).
		SetHeader("User-Agent", "nika-cli/0.1").
		SetTransport(&http.Transport{
			DialContext: (&net.Dialer{Timeout: connectTimeout}).DialContext,
		})
	client.GetClient().Timeout = fetchTimeout

	return &TaskExecutor{
		httpClient:      client,
		providers:       provider.NewCache(),
		mcpPool:         mcp.NewPool(servers),
		defaultProvider: defaultProvider,
		defaultModel:    defaultModel,
	}
}

// Result is one verb execution's outcome: its raw string output, plus
// optional observability metadata (currently only Fetch's detected content
// type) folded into the runner's TaskCompleted event payload.
type Result struct {
	Output string
	Meta   map[string]any
}

// Execute runs t's action with the already-resolved `use` bindings and
// returns the verb's raw string output.
func (e *TaskExecutor) Execute(ctx context.Context, t *workflow.Task, bound map[string]any) (Result, error) {
	switch t.Action.Kind {
	case workflow.ActionInfer:
		out, err := e.executeInfer(ctx, t.Action.Infer, bound)
		return Result{Output: out}, err
	case workflow.ActionExec:
		out, err := e.executeExec(ctx, t.Action.Exec, bound)
		return Result{Output: out}, err
	case workflow.ActionFetch:
		return e.executeFetch(ctx, t.Action.Fetch, bound)
	case workflow.ActionInvoke:
		out, err := e.executeInvoke(ctx, t.Action.Invoke, bound)
		return Result{Output: out}, err
	case workflow.ActionAgent:
		out, err := e.executeAgent(ctx, t.ID, t.Action.Agent, bound)
		return Result{Output: out}, err
	default:
		return Result{}, nikaerr.New(nikaerr.CodeNotImplemented, fmt.Sprintf("task %q has no recognized action", t.ID), nil)
	}
}

// getProvider resolves and caches the provider for name (falling back to
// the executor's default), instantiated with model as its own default.
func (e *TaskExecutor) getProvider(name, model string) (provider.Provider, error) {
	providerName := provider.Name(name)
	if providerName == "" {
		providerName = e.defaultProvider
	}
	resolvedModel := model
	if resolvedModel == "" {
		resolvedModel = e.defaultModel
	}
	return e.providers.Get(provider.Config{Name: providerName, Model: resolvedModel})
}
