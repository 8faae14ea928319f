package tools

import (
	"context"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/interop-desk/mcpgate/pkg/fdc3"
	"github.com/interop-desk/mcpgate/pkg/symbols"
)

func tradingRegistry(t *testing.T) *Registry {
	t.Helper()
	return TradingTools(symbols.Default(), zerolog.Nop())
}

// resultParts splits a tool result into its text blocks and embedded
// intent requests.
func resultParts(t *testing.T, result *mcp.CallToolResult) (texts []string, requests []*fdc3.MethodRequest) {
	t.Helper()
	for _, content := range result.Content {
		switch c := content.(type) {
		case mcp.TextContent:
			texts = append(texts, c.Text)
		case mcp.EmbeddedResource:
			contents, ok := c.Resource.(mcp.TextResourceContents)
			require.True(t, ok)
			req, err := fdc3.DecodeRequest(&fdc3.Resource{
				URI:      contents.URI,
				MimeType: contents.MIMEType,
				Text:     contents.Text,
			})
			require.NoError(t, err)
			requests = append(requests, req)
		default:
			t.Fatalf("unexpected content type %T", content)
		}
	}
	return texts, requests
}

func TestTradingTools_Definitions(t *testing.T) {
	defs := tradingRegistry(t).Definitions()

	names := make([]string, 0, len(defs))
	for _, d := range defs {
		names = append(names, d.Name)
	}
	assert.Equal(t, []string{
		ToolGetTrades, ToolGetNews, ToolClearFilters, ToolSubmitOrder, ToolRequestQuote,
	}, names)
}

func TestGetTrades_Found(t *testing.T) {
	result, err := tradingRegistry(t).Dispatch(context.Background(), ToolGetTrades,
		map[string]any{"companyName": "Apple"})
	require.NoError(t, err)
	assert.False(t, result.IsError)

	texts, requests := resultParts(t, result)
	require.Len(t, texts, 1)
	assert.Equal(t, "Trades retrieved for Apple Inc", texts[0])

	require.Len(t, requests, 1)
	assert.Equal(t, fdc3.IntentViewInstrument, requests[0].Params.Intent)
	assert.Equal(t, fdc3.AppBlotter, requests[0].Params.App.AppID)
	assert.Equal(t, "AAPL", requests[0].Params.Context.ID.Ticker)
}

func TestGetTrades_Miss(t *testing.T) {
	result, err := tradingRegistry(t).Dispatch(context.Background(), ToolGetTrades,
		map[string]any{"companyName": "Unknown Holdings"})
	require.NoError(t, err)

	// Lookup misses answer in plain text without the error flag.
	assert.False(t, result.IsError)
	texts, requests := resultParts(t, result)
	require.Len(t, texts, 1)
	assert.Equal(t, "Error: Failed to lookup company for company name 'Unknown Holdings'", texts[0])
	assert.Empty(t, requests)
}

func TestGetNews_Found(t *testing.T) {
	result, err := tradingRegistry(t).Dispatch(context.Background(), ToolGetNews,
		map[string]any{"companyName": "tsla"})
	require.NoError(t, err)

	texts, requests := resultParts(t, result)
	require.Len(t, texts, 1)
	assert.Equal(t, "News filtered for Tesla Inc (TSLA)", texts[0])

	require.Len(t, requests, 1)
	assert.Equal(t, fdc3.IntentViewInstrument, requests[0].Params.Intent)
	assert.Equal(t, fdc3.AppNews, requests[0].Params.App.AppID)
}

func TestGetNews_Miss(t *testing.T) {
	result, err := tradingRegistry(t).Dispatch(context.Background(), ToolGetNews,
		map[string]any{"companyName": "Acme"})
	require.NoError(t, err)

	assert.False(t, result.IsError)
	texts, requests := resultParts(t, result)
	require.Len(t, texts, 1)
	assert.Equal(t, `Could not find a matching company for 'Acme'. Try using a full company name (e.g. "Apple" or "NVIDIA").`, texts[0])
	assert.Empty(t, requests)
}

func TestClearFilters(t *testing.T) {
	result, err := tradingRegistry(t).Dispatch(context.Background(), ToolClearFilters, nil)
	require.NoError(t, err)

	texts, requests := resultParts(t, result)
	require.Len(t, texts, 1)
	assert.Equal(t, "Filters cleared across all panels.", texts[0])

	require.Len(t, requests, 1)
	assert.Equal(t, fdc3.IntentClearFilter, requests[0].Params.Intent)
	assert.Equal(t, fdc3.AppAll, requests[0].Params.App.AppID)
	assert.Equal(t, fdc3.ContextTypeClear, requests[0].Params.Context.Type)
}

func TestSubmitOrder(t *testing.T) {
	result, err := tradingRegistry(t).Dispatch(context.Background(), ToolSubmitOrder,
		map[string]any{"side": "buy", "quantity": float64(100), "ticker": "AAPL"})
	require.NoError(t, err)
	assert.False(t, result.IsError)

	texts, requests := resultParts(t, result)
	require.Len(t, texts, 1)
	assert.Equal(t, "Order staged in the UI for BUY 100 AAPL.", texts[0])

	require.Len(t, requests, 1)
	assert.Equal(t, fdc3.IntentSubmitOrder, requests[0].Params.Intent)
	assert.Equal(t, fdc3.AppOrderTicket, requests[0].Params.App.AppID)
	details := requests[0].Params.Context.Details
	require.NotNil(t, details)
	assert.Equal(t, "AAPL", details.Ticker)
	assert.Equal(t, "buy", details.Side)
	assert.Equal(t, float64(100), details.Quantity)
}

func TestSubmitOrder_ResolvesCompanyName(t *testing.T) {
	result, err := tradingRegistry(t).Dispatch(context.Background(), ToolSubmitOrder,
		map[string]any{"side": "sell", "quantity": float64(50), "ticker": "Microsoft Corp"})
	require.NoError(t, err)

	texts, _ := resultParts(t, result)
	require.Len(t, texts, 1)
	assert.Equal(t, "Order staged in the UI for SELL 50 MSFT.", texts[0])
}

func TestSubmitOrder_UnknownTicker(t *testing.T) {
	result, err := tradingRegistry(t).Dispatch(context.Background(), ToolSubmitOrder,
		map[string]any{"side": "buy", "quantity": float64(100), "ticker": "ZZZZ"})
	require.NoError(t, err)

	// Staging tools flag an unresolvable instrument as a tool error.
	assert.True(t, result.IsError)
	texts, requests := resultParts(t, result)
	require.Len(t, texts, 1)
	assert.Equal(t, `Error: Could not resolve a valid trading ticker for "ZZZZ".`, texts[0])
	assert.Empty(t, requests)
}

func TestSubmitOrder_InvalidSide(t *testing.T) {
	_, err := tradingRegistry(t).Dispatch(context.Background(), ToolSubmitOrder,
		map[string]any{"side": "hold", "quantity": float64(100), "ticker": "AAPL"})
	assert.Error(t, err)
}

func TestRequestQuote(t *testing.T) {
	result, err := tradingRegistry(t).Dispatch(context.Background(), ToolRequestQuote,
		map[string]any{"side": "two-way", "quantity": float64(1000000), "instrument": "cable"})
	require.NoError(t, err)
	assert.False(t, result.IsError)

	texts, requests := resultParts(t, result)
	require.Len(t, texts, 1)
	assert.Equal(t, "RFQ staged in the UI for TWO-WAY 1000000 GBP/USD. The user must review and click 'Request Quotes' in the panel.", texts[0])

	require.Len(t, requests, 1)
	assert.Equal(t, fdc3.IntentInitiateRFQ, requests[0].Params.Intent)
	assert.Equal(t, fdc3.AppRFQ, requests[0].Params.App.AppID)
	assert.Equal(t, "GBP/USD", requests[0].Params.Context.Details.Ticker)
}

func TestRequestQuote_UnknownInstrument(t *testing.T) {
	result, err := tradingRegistry(t).Dispatch(context.Background(), ToolRequestQuote,
		map[string]any{"side": "buy", "quantity": float64(500), "instrument": "XAU/XAG"})
	require.NoError(t, err)

	assert.True(t, result.IsError)
	texts, _ := resultParts(t, result)
	require.Len(t, texts, 1)
	assert.Equal(t, `Error: Could not resolve a valid instrument for "XAU/XAG".`, texts[0])
}

func TestFormatQuantity(t *testing.T) {
	assert.Equal(t, "100", formatQuantity(100))
	assert.Equal(t, "1000000", formatQuantity(1e6))
	assert.Equal(t, "2.5", formatQuantity(2.5))
}
