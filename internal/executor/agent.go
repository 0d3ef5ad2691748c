package executor

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/tmc/langchaingo/llms"

	"github.com/supernovae-st/nika/internal/binding"
	"github.com/supernovae-st/nika/internal/provider"
	"github.com/supernovae-st/nika/internal/workflow"
	"github.com/supernovae-st/nika/pkg/nikaerr"
)

// maxAgentTurns is the hard ceiling on an agent task's turn count,
// regardless of what the task itself declares.
const maxAgentTurns = 100

// executeAgent drives AgentAction's multi-turn tool-calling loop: each turn
// sends the running message history to the provider, executes any
// requested tool calls against the referenced MCP servers in parallel, and
// feeds their results back — until the model returns no tool calls (natural
// completion), the response matches StopCondition, or the turn cap is hit.
func (e *TaskExecutor) executeAgent(ctx context.Context, taskID string, action *workflow.AgentAction, bound map[string]any) (string, error) {
	prompt, err := binding.ResolveTemplate(action.Prompt, bound)
	if err != nil {
		return "", err
	}

	p, err := e.getProvider("", "")
	if err != nil {
		return "", err
	}
	model := p.DefaultModel()

	turns := action.MaxTurns
	if turns <= 0 || turns > maxAgentTurns {
		turns = maxAgentTurns
	}

	tools := e.gatherTools(ctx, action.MCP)
	messages := []llms.MessageContent{llms.TextParts(llms.ChatMessageTypeHuman, prompt)}

	var lastText string
	for turn := 0; turn < turns; turn++ {
		opts := []llms.CallOption{llms.WithModel(model)}
		if len(tools) > 0 {
			opts = append(opts, llms.WithTools(tools))
		}

		raw, err := llmGenerateContent(ctx, p, messages, opts...)
		if err != nil {
			return "", nikaerr.New(nikaerr.CodeAgentExecutionError, fmt.Sprintf("agent task %q failed on turn %d: %v", taskID, turn, err), err)
		}
		if len(raw.Choices) == 0 {
			return "", nikaerr.New(nikaerr.CodeAgentExecutionError, fmt.Sprintf("agent task %q received no choices on turn %d", taskID, turn), nil)
		}
		choice := raw.Choices[0]
		lastText = choice.Content

		if action.StopCondition != "" && strings.Contains(choice.Content, action.StopCondition) {
			return lastText, nil
		}
		if len(choice.ToolCalls) == 0 {
			return lastText, nil
		}

		messages = append(messages, llms.MessageContent{Role: llms.ChatMessageTypeAI, Parts: toolCallParts(choice.ToolCalls)})
		messages = append(messages, e.runToolCalls(ctx, choice.ToolCalls)...)
	}

	return "", nikaerr.New(nikaerr.CodeAgentMaxTurns,
		fmt.Sprintf("agent task %q did not complete within %d turns", taskID, turns), nil)
}

// modelProvider is implemented by langchainProvider, exposing the
// underlying langchaingo model for full GenerateContent/tool-call access.
type modelProvider interface {
	Model() llms.Model
}

// llmGenerateContent is a thin seam over llms.Model.GenerateContent so
// agent.go's control flow reads the same whether p wraps a real langchaingo
// model or the mock provider (which implements Provider, not llms.Model,
// and so never reports tool calls).
func llmGenerateContent(ctx context.Context, p provider.Provider, messages []llms.MessageContent, opts ...llms.CallOption) (*llms.ContentResponse, error) {
	if mp, ok := p.(modelProvider); ok {
		return mp.Model().GenerateContent(ctx, messages, opts...)
	}

	var prompt string
	for _, m := range messages {
		if m.Role == llms.ChatMessageTypeHuman {
			for _, part := range m.Parts {
				if tp, ok := part.(llms.TextContent); ok {
					prompt = tp.Text
				}
			}
		}
	}
	text, err := p.Infer(ctx, prompt, "")
	if err != nil {
		return nil, err
	}
	return &llms.ContentResponse{Choices: []*llms.ContentChoice{{Content: text}}}, nil
}

func toolCallParts(calls []llms.ToolCall) []llms.ContentPart {
	parts := make([]llms.ContentPart, len(calls))
	for i, c := range calls {
		parts[i] = c
	}
	return parts
}

// gatherTools collects the tool definitions advertised by every MCP server
// action references, tolerating a server that fails to connect (it simply
// contributes no tools rather than failing the whole agent task).
func (e *TaskExecutor) gatherTools(ctx context.Context, servers []string) []llms.Tool {
	var tools []llms.Tool
	for _, name := range servers {
		client, err := e.mcpPool.Get(ctx, name)
		if err != nil {
			continue
		}
		names, err := client.ListTools(ctx)
		if err != nil {
			continue
		}
		for _, toolName := range names {
			tools = append(tools, llms.Tool{
				Type: "function",
				Function: &llms.FunctionDefinition{
					Name:        name + "::" + toolName,
					Description: fmt.Sprintf("%s tool on MCP server %s", toolName, name),
				},
			})
		}
	}
	return tools
}

// runToolCalls executes every requested tool call against its MCP server in
// parallel and returns one llms.MessageContent per result, in call order.
func (e *TaskExecutor) runToolCalls(ctx context.Context, calls []llms.ToolCall) []llms.MessageContent {
	results := make([]llms.MessageContent, len(calls))
	var wg sync.WaitGroup
	for i, call := range calls {
		wg.Add(1)
		go func(i int, call llms.ToolCall) {
			defer wg.Done()
			results[i] = e.runOneToolCall(ctx, call)
		}(i, call)
	}
	wg.Wait()
	return results
}

func (e *TaskExecutor) runOneToolCall(ctx context.Context, call llms.ToolCall) llms.MessageContent {
	server, tool, err := binding.ParseMCPRef(call.FunctionCall.Name)
	if err != nil {
		return toolResponse(call, fmt.Sprintf("error: %v", err))
	}
	client, err := e.mcpPool.Get(ctx, server)
	if err != nil {
		return toolResponse(call, fmt.Sprintf("error: %v", err))
	}
	params, err := decodeToolArguments(call.FunctionCall.Arguments)
	if err != nil {
		return toolResponse(call, fmt.Sprintf("error: %v", err))
	}
	result, err := client.CallTool(ctx, tool, params)
	if err != nil {
		return toolResponse(call, fmt.Sprintf("error: %v", err))
	}
	return toolResponse(call, result.Text)
}

// decodeToolArguments parses a tool call's Arguments field — a JSON-object
// string per langchaingo's ToolCall.FunctionCall — into the named parameter
// map the MCP tool actually expects. An empty string means the model
// supplied no arguments at all.
func decodeToolArguments(raw string) (map[string]any, error) {
	if strings.TrimSpace(raw) == "" {
		return map[string]any{}, nil
	}
	var params map[string]any
	if err := json.Unmarshal([]byte(raw), &params); err != nil {
		return nil, nikaerr.New(nikaerr.CodeInvalidJSON,
			fmt.Sprintf("tool call arguments are not a JSON object: %v", err), err)
	}
	return params, nil
}

func toolResponse(call llms.ToolCall, content string) llms.MessageContent {
	return llms.MessageContent{
		Role: llms.ChatMessageTypeTool,
		Parts: []llms.ContentPart{
			llms.ToolCallResponse{ToolCallID: call.ID, Name: call.FunctionCall.Name, Content: content},
		},
	}
}
