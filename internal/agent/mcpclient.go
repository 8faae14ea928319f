package agent

import (
	"context"
	"encoding/json"

	"github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/openai/openai-go"

	"github.com/interop-desk/mcpgate/pkg/apperrors"
)

const (
	clientName    = "mcpgate-agent"
	clientVersion = "0.1.0"
)

// ToolCaller is the agent's view of the gateway's tool surface.
type ToolCaller interface {
	ListTools(ctx context.Context) ([]mcp.Tool, error)
	CallTool(ctx context.Context, name string, args map[string]any) (*mcp.CallToolResult, error)
	Close() error
}

// MCPToolCaller talks to the gateway over a streamable HTTP MCP session.
type MCPToolCaller struct {
	client *client.Client
}

// DialGateway connects to the gateway's MCP endpoint and initializes a
// session.
func DialGateway(ctx context.Context, endpoint string) (*MCPToolCaller, error) {
	c, err := client.NewStreamableHttpClient(endpoint)
	if err != nil {
		return nil, apperrors.New(apperrors.ErrCodeInternal, "failed to create MCP client", err)
	}
	if err := c.Start(ctx); err != nil {
		return nil, apperrors.New(apperrors.ErrCodeInternal, "failed to start MCP transport", err)
	}

	initReq := mcp.InitializeRequest{}
	initReq.Params.ProtocolVersion = mcp.LATEST_PROTOCOL_VERSION
	initReq.Params.ClientInfo = mcp.Implementation{
		Name:    clientName,
		Version: clientVersion,
	}
	if _, err := c.Initialize(ctx, initReq); err != nil {
		_ = c.Close()
		return nil, apperrors.New(apperrors.ErrCodeInternal, "MCP initialize failed", err)
	}
	return &MCPToolCaller{client: c}, nil
}

func (m *MCPToolCaller) ListTools(ctx context.Context) ([]mcp.Tool, error) {
	result, err := m.client.ListTools(ctx, mcp.ListToolsRequest{})
	if err != nil {
		return nil, apperrors.New(apperrors.ErrCodeInternal, "failed to list gateway tools", err)
	}
	return result.Tools, nil
}

func (m *MCPToolCaller) CallTool(ctx context.Context, name string, args map[string]any) (*mcp.CallToolResult, error) {
	req := mcp.CallToolRequest{}
	req.Params.Name = name
	req.Params.Arguments = args
	result, err := m.client.CallTool(ctx, req)
	if err != nil {
		return nil, apperrors.New(apperrors.ErrCodeInternal, "tool call failed: "+name, err)
	}
	return result, nil
}

func (m *MCPToolCaller) Close() error {
	return m.client.Close()
}

// openaiToolDefs converts the gateway's MCP tool declarations into OpenAI
// tool definitions for the completion request.
func openaiToolDefs(mcpTools []mcp.Tool) ([]openai.ChatCompletionToolParam, error) {
	defs := make([]openai.ChatCompletionToolParam, 0, len(mcpTools))
	for _, t := range mcpTools {
		raw, err := json.Marshal(t.InputSchema)
		if err != nil {
			return nil, apperrors.New(apperrors.ErrCodeInternal, "failed to encode tool schema: "+t.Name, err)
		}
		var params openai.FunctionParameters
		if err := json.Unmarshal(raw, &params); err != nil {
			return nil, apperrors.New(apperrors.ErrCodeInternal, "failed to decode tool schema: "+t.Name, err)
		}
		defs = append(defs, openai.ChatCompletionToolParam{
			Function: openai.FunctionDefinitionParam{
				Name:        t.Name,
				Description: openai.String(t.Description),
				Parameters:  params,
			},
		})
	}
	return defs, nil
}
