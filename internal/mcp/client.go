package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/supernovae-st/nika/pkg/nikaerr"
)

// CallTool invokes tool with params, serving a cached response when one is
// still fresh. A result the server itself reported as an error is never
// cached and is surfaced to the caller as an error.
func (c *Client) CallTool(ctx context.Context, tool string, params map[string]any) (CallResult, error) {
	if c.cache != nil {
		if cached, ok := c.cache.get(tool, params); ok {
			return cached, nil
		}
	}

	req := mcp.CallToolRequest{}
	req.Params.Name = tool
	req.Params.Arguments = params

	resp, err := c.raw.CallTool(ctx, req)
	if err != nil {
		return CallResult{}, nikaerr.New(nikaerr.CodeMCPToolError,
			fmt.Sprintf("tool call %q on server %q failed: %v", tool, c.name, err), err)
	}

	result := CallResult{Text: flattenContent(resp.Content), IsError: resp.IsError}
	if c.cache != nil {
		c.cache.put(tool, params, result)
	}
	if result.IsError {
		return result, nikaerr.New(nikaerr.CodeMCPToolError,
			fmt.Sprintf("tool %q on server %q reported an error: %s", tool, c.name, result.Text), nil)
	}
	return result, nil
}

// ReadResource reads uri from the server and returns its text content.
func (c *Client) ReadResource(ctx context.Context, uri string) (string, error) {
	req := mcp.ReadResourceRequest{}
	req.Params.URI = uri

	resp, err := c.raw.ReadResource(ctx, req)
	if err != nil {
		return "", nikaerr.New(nikaerr.CodeMCPResourceNotFound,
			fmt.Sprintf("reading resource %q from server %q failed: %v", uri, c.name, err), err)
	}

	var text string
	for _, content := range resp.Contents {
		if tc, ok := content.(mcp.TextResourceContents); ok {
			if text != "" {
				text += "\n"
			}
			text += tc.Text
		}
	}
	return text, nil
}

// ListTools returns the names of every tool the server advertises.
func (c *Client) ListTools(ctx context.Context) ([]string, error) {
	resp, err := c.raw.ListTools(ctx, mcp.ListToolsRequest{})
	if err != nil {
		return nil, nikaerr.New(nikaerr.CodeMCPProtocolError,
			fmt.Sprintf("listing tools on server %q failed: %v", c.name, err), err)
	}
	names := make([]string, 0, len(resp.Tools))
	for _, tool := range resp.Tools {
		names = append(names, tool.Name)
	}
	return names, nil
}

func flattenContent(blocks []mcp.Content) string {
	var b strings.Builder
	for _, block := range blocks {
		if text, ok := block.(mcp.TextContent); ok {
			if b.Len() > 0 {
				b.WriteByte('\n')
			}
			b.WriteString(text.Text)
		}
	}
	return b.String()
}
