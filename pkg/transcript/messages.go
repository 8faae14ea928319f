// Package transcript models the conversation log exchanged between the
// agent service and desktop clients, and recovers the latest actionable
// intent resource and natural-language answer from it.
//
// The log uses an explicit discriminated message type at its boundary
// rather than probing nested optional fields, so upstream shape changes
// fail loudly instead of silently missing matches.
package transcript

import (
	"encoding/json"

	"github.com/interop-desk/mcpgate/pkg/fdc3"
)

// Kind discriminates the message variants of a conversation log.
type Kind string

const (
	KindHuman      Kind = "human"
	KindAI         Kind = "ai"
	KindToolResult Kind = "tool-result"
)

// Artifact is a non-textual attachment of a tool-result message.
type Artifact struct {
	Type     string         `json:"type"`
	Resource *fdc3.Resource `json:"resource,omitempty"`
}

// ArtifactTypeResource marks an artifact carrying an embedded resource.
const ArtifactTypeResource = "resource"

// Part is one element of a multi-part AI message. A part contributes its
// Text field when set, otherwise its Content field.
type Part struct {
	Text    string `json:"text,omitempty"`
	Content string `json:"content,omitempty"`
}

// UnmarshalJSON also accepts a bare JSON string as a part, which some
// model providers emit for plain text segments.
func (p *Part) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		p.Text = s
		p.Content = ""
		return nil
	}
	type alias Part
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	*p = Part(a)
	return nil
}

func (p Part) value() string {
	if p.Text != "" {
		return p.Text
	}
	return p.Content
}

// Message is one entry of the ordered, append-only conversation log.
// Ordering is the sole signal of recency.
type Message struct {
	Kind      Kind       `json:"kind"`
	Text      string     `json:"text,omitempty"`
	Parts     []Part     `json:"parts,omitempty"`
	ToolName  string     `json:"toolName,omitempty"`
	Artifacts []Artifact `json:"artifacts,omitempty"`
}

// Human builds a human-turn message.
func Human(text string) Message {
	return Message{Kind: KindHuman, Text: text}
}

// AI builds an assistant message with plain text content.
func AI(text string) Message {
	return Message{Kind: KindAI, Text: text}
}

// ToolResult builds a tool-result message.
func ToolResult(toolName, text string, artifacts ...Artifact) Message {
	return Message{Kind: KindToolResult, ToolName: toolName, Text: text, Artifacts: artifacts}
}
