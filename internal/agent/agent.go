// Package agent drives the conversational side of the desktop: it owns the
// conversation log, feeds it to an LLM together with the gateway's tools,
// executes requested tool calls over MCP, and exposes the chat HTTP
// surface consumed by the frontend.
package agent

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/openai/openai-go"
	"github.com/rs/zerolog"

	"github.com/interop-desk/mcpgate/pkg/apperrors"
	"github.com/interop-desk/mcpgate/pkg/fdc3"
	"github.com/interop-desk/mcpgate/pkg/transcript"
)

// systemPrompt forces tool-only answers so that intent resources, not
// model-fabricated links, carry every actionable result.
const systemPrompt = `Only respond via tools; if not tool applies output: NO_APPLICABLE_TOOL.
Never return JSON or external urls or links from the model in your response.
Never make up, fabricate or generate synthetic JSON or external urls or links in your response.
Never offer to help the user find specific details or further information.
Never offer the user any suggested subsequent prompts at all.
The only JSON that is acceptable in a response is that returned directly from tools.
Any JSON relating to resources from tools should NOT be included in the text content of your response (this is because the tools already handle returning these types of resources in the artifact property rather than the text content property).
Acceptable output example: Trades retrieved for <COMPANY_NAME>.
Acceptable output example: Trades for <COMPANY_NAME> have been retrieved.
Unacceptable output example: Here are the trades for <COMPANY_NAME>: [View Trades](<URL>)
Unacceptable output example: Here are the trades for <COMPANY_NAME>: **Trades**: [View Trades](<URL>) Feel free to check the link for more details!
Replace <COMPANY_NAME> with the actual company name exactly as provided (case preserved).
`

const defaultMaxIterations = 5

// Agent holds one conversation and answers questions against it. Turns are
// serialized: the log is a single shared conversation, matching the one
// chat bar of the desktop.
type Agent struct {
	llm           CompletionClient
	tools         ToolCaller
	log           zerolog.Logger
	maxIterations int

	mu         sync.Mutex
	modelLog   []openai.ChatCompletionMessageParamUnion
	clientLog  []transcript.Message
	toolParams []openai.ChatCompletionToolParam
}

// New creates an agent over the given model and tool connection.
func New(llm CompletionClient, tools ToolCaller, log zerolog.Logger) *Agent {
	return &Agent{
		llm:           llm,
		tools:         tools,
		log:           log,
		maxIterations: defaultMaxIterations,
	}
}

// Reset discards the conversation log.
func (a *Agent) Reset() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.modelLog = nil
	a.clientLog = nil
	a.log.Info().Msg("conversation reset")
}

// History returns a snapshot of the client-facing conversation log.
func (a *Agent) History() []transcript.Message {
	a.mu.Lock()
	defer a.mu.Unlock()
	return snapshot(a.clientLog)
}

// Ask appends the question to the conversation, runs the tool loop until
// the model produces a final text answer, and returns the updated log
// snapshot.
func (a *Agent) Ask(ctx context.Context, question string) ([]transcript.Message, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	toolParams, err := a.toolDefinitions(ctx)
	if err != nil {
		return nil, err
	}

	a.modelLog = append(a.modelLog, openai.UserMessage(question))
	a.clientLog = append(a.clientLog, transcript.Human(question))

	for i := 0; i < a.maxIterations; i++ {
		messages := make([]openai.ChatCompletionMessageParamUnion, 0, len(a.modelLog)+1)
		messages = append(messages, openai.SystemMessage(systemPrompt))
		messages = append(messages, a.modelLog...)

		completion, err := a.llm.Complete(ctx, messages, toolParams)
		if err != nil {
			return nil, err
		}
		if len(completion.Choices) == 0 {
			return nil, apperrors.New(apperrors.ErrCodeLLMFailed, "model returned no choices", nil)
		}
		msg := completion.Choices[0].Message

		if len(msg.ToolCalls) == 0 {
			a.modelLog = append(a.modelLog, msg.ToParam())
			a.clientLog = append(a.clientLog, transcript.AI(msg.Content))
			return snapshot(a.clientLog), nil
		}

		a.modelLog = append(a.modelLog, msg.ToParam())
		for _, call := range msg.ToolCalls {
			if err := a.runToolCall(ctx, call); err != nil {
				return nil, err
			}
		}
	}

	return nil, apperrors.New(apperrors.ErrCodeLLMFailed, "tool loop exceeded iteration limit", nil)
}

func (a *Agent) runToolCall(ctx context.Context, call openai.ChatCompletionMessageToolCall) error {
	var args map[string]any
	if call.Function.Arguments != "" {
		if err := json.Unmarshal([]byte(call.Function.Arguments), &args); err != nil {
			return apperrors.New(apperrors.ErrCodeLLMFailed,
				"model produced invalid tool arguments for "+call.Function.Name, err)
		}
	}

	a.log.Debug().Str("tool", call.Function.Name).RawJSON("args", []byte(nonEmptyJSON(call.Function.Arguments))).
		Msg("executing tool call")

	result, err := a.tools.CallTool(ctx, call.Function.Name, args)
	if err != nil {
		return err
	}

	text, artifacts := splitResult(result)
	a.modelLog = append(a.modelLog, openai.ToolMessage(text, call.ID))
	a.clientLog = append(a.clientLog, transcript.ToolResult(call.Function.Name, text, artifacts...))
	return nil
}

// toolDefinitions lazily fetches and caches the gateway's tool surface.
func (a *Agent) toolDefinitions(ctx context.Context) ([]openai.ChatCompletionToolParam, error) {
	if a.toolParams != nil {
		return a.toolParams, nil
	}
	mcpTools, err := a.tools.ListTools(ctx)
	if err != nil {
		return nil, err
	}
	defs, err := openaiToolDefs(mcpTools)
	if err != nil {
		return nil, err
	}
	a.toolParams = defs
	a.log.Info().Int("tools", len(defs)).Msg("loaded gateway tools")
	return defs, nil
}

// splitResult separates a tool result into its joined text content and the
// resource artifacts destined for the client-side extractor.
func splitResult(result *mcp.CallToolResult) (string, []transcript.Artifact) {
	var text string
	var artifacts []transcript.Artifact
	for _, content := range result.Content {
		switch c := content.(type) {
		case mcp.TextContent:
			if text != "" {
				text += "\n"
			}
			text += c.Text
		case mcp.EmbeddedResource:
			if r := toResource(c.Resource); r != nil {
				artifacts = append(artifacts, transcript.Artifact{
					Type:     transcript.ArtifactTypeResource,
					Resource: r,
				})
			}
		}
	}
	return text, artifacts
}

func toResource(contents mcp.ResourceContents) *fdc3.Resource {
	switch rc := contents.(type) {
	case mcp.TextResourceContents:
		return &fdc3.Resource{URI: rc.URI, MimeType: rc.MIMEType, Text: rc.Text}
	case mcp.BlobResourceContents:
		return &fdc3.Resource{URI: rc.URI, MimeType: rc.MIMEType, Blob: rc.Blob}
	}
	return nil
}

func snapshot(messages []transcript.Message) []transcript.Message {
	out := make([]transcript.Message, len(messages))
	copy(out, messages)
	return out
}

func nonEmptyJSON(s string) string {
	if s == "" {
		return "{}"
	}
	return s
}
