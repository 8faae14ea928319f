package transcript

import (
	"strings"

	"github.com/interop-desk/mcpgate/pkg/fdc3"
)

// Extraction is the outcome of scanning a conversation log. Either field
// may be absent.
type Extraction struct {
	Resource    *fdc3.Resource
	FinalAnswer string
}

// Extract scans an ordered conversation log backward and recovers the
// latest tool-produced intent resource and the latest non-empty AI answer.
// The two passes are independent.
//
// The resource pass is bounded to the current turn: scanning stops at the
// most recent human message, so a resource staged in an earlier turn is
// never re-raised when a later question produces none.
func Extract(messages []Message) Extraction {
	var out Extraction

resourcePass:
	for i := len(messages) - 1; i >= 0; i-- {
		msg := messages[i]
		if msg.Kind == KindHuman {
			break
		}
		if msg.Kind != KindToolResult {
			continue
		}
		for _, artifact := range msg.Artifacts {
			if artifact.Type == ArtifactTypeResource && artifact.Resource != nil {
				out.Resource = artifact.Resource
				break resourcePass
			}
		}
	}

	for i := len(messages) - 1; i >= 0; i-- {
		msg := messages[i]
		if msg.Kind != KindAI {
			continue
		}
		if answer := textOf(msg); answer != "" {
			out.FinalAnswer = answer
			break
		}
	}

	return out
}

// textOf flattens an AI message's content: a plain string, or ordered
// parts joined with newlines. Empty results are treated as absent.
func textOf(msg Message) string {
	if msg.Text != "" {
		return strings.TrimSpace(msg.Text)
	}
	if len(msg.Parts) == 0 {
		return ""
	}
	var values []string
	for _, part := range msg.Parts {
		if v := part.value(); v != "" {
			values = append(values, v)
		}
	}
	return strings.TrimSpace(strings.Join(values, "\n"))
}
