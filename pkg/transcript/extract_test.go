package transcript

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/interop-desk/mcpgate/pkg/fdc3"
)

func intentArtifact(intent string) Artifact {
	return Artifact{
		Type: ArtifactTypeResource,
		Resource: &fdc3.Resource{
			URI:      fdc3.ResourceURI,
			MimeType: fdc3.ResourceMIMEType,
			Text:     `{"type":"fdc3ApiMethodRequest","fdc3MessageJson":"{\"method\":\"raiseIntent\",\"params\":{\"intent\":\"` + intent + `\"}}"}`,
		},
	}
}

func TestExtract_ResourceAndAnswer(t *testing.T) {
	log := []Message{
		Human("show me trades for Apple"),
		ToolResult("getTrades", "Trades retrieved for Apple Inc", intentArtifact(fdc3.IntentViewInstrument)),
		AI("Trades retrieved for Apple Inc"),
	}

	got := Extract(log)

	require.NotNil(t, got.Resource)
	req, err := fdc3.DecodeRequest(got.Resource)
	require.NoError(t, err)
	assert.Equal(t, fdc3.IntentViewInstrument, req.Params.Intent)
	assert.Equal(t, "Trades retrieved for Apple Inc", got.FinalAnswer)
}

func TestExtract_Empty(t *testing.T) {
	got := Extract(nil)

	assert.Nil(t, got.Resource)
	assert.Empty(t, got.FinalAnswer)
}

func TestExtract_LatestResourceWins(t *testing.T) {
	log := []Message{
		Human("buy 100 apple then clear"),
		ToolResult("submitOrder", "Order staged", intentArtifact(fdc3.IntentSubmitOrder)),
		ToolResult("clearFilters", "Filters cleared", intentArtifact(fdc3.IntentClearFilter)),
		AI("Done."),
	}

	got := Extract(log)

	require.NotNil(t, got.Resource)
	req, err := fdc3.DecodeRequest(got.Resource)
	require.NoError(t, err)
	assert.Equal(t, fdc3.IntentClearFilter, req.Params.Intent)
}

func TestExtract_ResourceBoundedToCurrentTurn(t *testing.T) {
	log := []Message{
		Human("show me trades for Apple"),
		ToolResult("getTrades", "Trades retrieved for Apple Inc", intentArtifact(fdc3.IntentViewInstrument)),
		AI("Trades retrieved for Apple Inc"),
		Human("what is a ticker symbol?"),
		AI("A ticker is a short identifier for a listed instrument."),
	}

	got := Extract(log)

	// The earlier turn's resource must not leak into the follow-up answer.
	assert.Nil(t, got.Resource)
	assert.Equal(t, "A ticker is a short identifier for a listed instrument.", got.FinalAnswer)
}

func TestExtract_SkipsArtifactlessToolResults(t *testing.T) {
	log := []Message{
		Human("any news on a company I made up?"),
		ToolResult("getNews", "Could not find a matching company for 'Fakeco'."),
		AI("No matching company was found."),
	}

	got := Extract(log)

	assert.Nil(t, got.Resource)
	assert.Equal(t, "No matching company was found.", got.FinalAnswer)
}

func TestExtract_SkipsEmptyAIMessages(t *testing.T) {
	log := []Message{
		Human("clear filters"),
		AI("All filters cleared."),
		{Kind: KindAI},
	}

	got := Extract(log)

	assert.Equal(t, "All filters cleared.", got.FinalAnswer)
}

func TestExtract_JoinsParts(t *testing.T) {
	log := []Message{
		Human("summarize"),
		{Kind: KindAI, Parts: []Part{{Text: "First line."}, {Content: "Second line."}}},
	}

	got := Extract(log)

	assert.Equal(t, "First line.\nSecond line.", got.FinalAnswer)
}

func TestPart_UnmarshalJSON(t *testing.T) {
	var msg Message
	raw := `{"kind":"ai","parts":["bare string part",{"text":"object part"}]}`
	require.NoError(t, json.Unmarshal([]byte(raw), &msg))

	require.Len(t, msg.Parts, 2)
	assert.Equal(t, "bare string part", msg.Parts[0].Text)
	assert.Equal(t, "object part", msg.Parts[1].Text)
	assert.Equal(t, "bare string part\nobject part", textOf(msg))
}
