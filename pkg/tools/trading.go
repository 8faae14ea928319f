package tools

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/rs/zerolog"

	"github.com/interop-desk/mcpgate/pkg/fdc3"
	"github.com/interop-desk/mcpgate/pkg/symbols"
)

// Tool names.
const (
	ToolGetTrades    = "getTrades"
	ToolGetNews      = "getNews"
	ToolClearFilters = "clearFilters"
	ToolSubmitOrder  = "submitOrder"
	ToolRequestQuote = "requestQuote"
)

// TradingTools builds the registry of desktop trading tools backed by the
// given symbol table. Each gateway session gets its own registry instance.
func TradingTools(table *symbols.Table, log zerolog.Logger) *Registry {
	r := NewRegistry()
	t := &tradingTools{table: table, log: log}

	// Registration only fails on duplicate names, which would be a
	// programming error here.
	mustRegister(r, Definition{
		Name:        ToolGetTrades,
		Title:       "GetTrades",
		Description: "Returns trades for a given company and raises an FDC3 ViewInstrument intent targeting the trade blotter.",
		Params: []Param{
			{Name: "companyName", Type: ParamString, Required: true, Description: "Company name or ticker symbol"},
		},
	}, t.getTrades)

	mustRegister(r, Definition{
		Name:        ToolGetNews,
		Title:       "GetNews",
		Description: "Filters the news feed for a given company or instrument. Use this when the user asks to see news, headlines, or articles for a specific company or ticker symbol.",
		Params: []Param{
			{Name: "companyName", Type: ParamString, Required: true, Description: "Company name or ticker symbol to filter news for"},
		},
	}, t.getNews)

	mustRegister(r, Definition{
		Name:        ToolClearFilters,
		Title:       "ClearFilters",
		Description: `Clears all active FDC3 filters across all panels (blotter, news, watchlist). Use this when the user says "clear filters", "reset", "show all", or "remove filter".`,
	}, t.clearFilters)

	mustRegister(r, Definition{
		Name:        ToolSubmitOrder,
		Title:       "SubmitOrder",
		Description: "Stages a traditional order in the Order Ticket app (Equities or simple instruments). Provide the side (buy/sell), quantity, and ticker symbol. The frontend will populate the Order Ticket where the user can confirm execution.",
		Params: []Param{
			{Name: "side", Type: ParamString, Required: true, Enum: []string{"buy", "sell"}, Description: "The side of the order (buy or sell)"},
			{Name: "quantity", Type: ParamNumber, Required: true, Description: "The number of shares/contracts to trade"},
			{Name: "ticker", Type: ParamString, Required: true, Description: "The ticker symbol, e.g., AAPL, MSFT"},
		},
	}, t.submitOrder)

	mustRegister(r, Definition{
		Name:        ToolRequestQuote,
		Title:       "RequestQuote",
		Description: "Stages a Request For Quote (RFQ) in the RFQ panel for OTC instruments like FX pairs (e.g. EUR/USD). Use this when the user wants to trade FX or specifically asks to request a quote from dealers. Provide side, quantity, and instrument.",
		Params: []Param{
			{Name: "side", Type: ParamString, Required: true, Enum: []string{"buy", "sell", "two-way"}, Description: "The side to request (buy, sell, or two-way)"},
			{Name: "quantity", Type: ParamNumber, Required: true, Description: "The notional amount to trade (e.g. 1000000)"},
			{Name: "instrument", Type: ParamString, Required: true, Description: "The instrument symbol, e.g., EUR/USD"},
		},
	}, t.requestQuote)

	return r
}

func mustRegister(r *Registry, def Definition, handler Handler) {
	if err := r.Register(def, handler); err != nil {
		panic(err)
	}
}

type tradingTools struct {
	table *symbols.Table
	log   zerolog.Logger
}

// lookupResult builds the shared success shape of the two lookup tools: a
// text block plus a ViewInstrument resource targeting the named panel.
func (t *tradingTools) lookupResult(message string, company symbols.Company, targetApp string) (*mcp.CallToolResult, error) {
	resource, err := fdc3.RaiseIntentResource(
		fdc3.IntentViewInstrument,
		fdc3.InstrumentContext(company.Name, company.Ticker),
		fdc3.AppIdentifier{AppID: targetApp},
	)
	if err != nil {
		return nil, err
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: message},
			resource,
		},
	}, nil
}

func (t *tradingTools) getTrades(_ context.Context, args Args) (*mcp.CallToolResult, error) {
	input := args.String("companyName")
	company, found := t.table.FindCompany(input)
	t.log.Debug().Str("tool", ToolGetTrades).Str("input", input).
		Bool("found", found).Str("ticker", company.Ticker).Msg("company lookup")

	if !found {
		// A miss is a normal answer for lookup tools, not an isError result.
		return mcp.NewToolResultText(
			fmt.Sprintf("Error: Failed to lookup company for company name '%s'", input)), nil
	}
	return t.lookupResult(
		fmt.Sprintf("Trades retrieved for %s", company.Name),
		company, fdc3.AppBlotter)
}

func (t *tradingTools) getNews(_ context.Context, args Args) (*mcp.CallToolResult, error) {
	input := args.String("companyName")
	company, found := t.table.FindCompany(input)
	t.log.Debug().Str("tool", ToolGetNews).Str("input", input).
		Bool("found", found).Str("ticker", company.Ticker).Msg("company lookup")

	if !found {
		return mcp.NewToolResultText(
			fmt.Sprintf(`Could not find a matching company for '%s'. Try using a full company name (e.g. "Apple" or "NVIDIA").`, input)), nil
	}
	return t.lookupResult(
		fmt.Sprintf("News filtered for %s (%s)", company.Name, company.Ticker),
		company, fdc3.AppNews)
}

func (t *tradingTools) clearFilters(_ context.Context, _ Args) (*mcp.CallToolResult, error) {
	t.log.Debug().Str("tool", ToolClearFilters).Msg("broadcasting ClearFilter intent to all panels")

	resource, err := fdc3.RaiseIntentResource(
		fdc3.IntentClearFilter,
		fdc3.ClearContext(),
		fdc3.AppIdentifier{AppID: fdc3.AppAll},
	)
	if err != nil {
		return nil, err
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: "Filters cleared across all panels."},
			resource,
		},
	}, nil
}

func (t *tradingTools) submitOrder(_ context.Context, args Args) (*mcp.CallToolResult, error) {
	side := args.String("side")
	quantity := args.Number("quantity")
	ticker := args.String("ticker")

	symbol, ok := t.table.Resolve(ticker)
	if !ok {
		// Staging tools signal an unresolvable instrument explicitly.
		return mcp.NewToolResultError(
			fmt.Sprintf("Error: Could not resolve a valid trading ticker for %q.", ticker)), nil
	}

	resource, err := fdc3.RaiseIntentResource(
		fdc3.IntentSubmitOrder,
		fdc3.OrderContext(symbol, side, quantity),
		fdc3.AppIdentifier{AppID: fdc3.AppOrderTicket},
	)
	if err != nil {
		return nil, err
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{
				Type: "text",
				Text: fmt.Sprintf("Order staged in the UI for %s %s %s.",
					strings.ToUpper(side), formatQuantity(quantity), symbol),
			},
			resource,
		},
	}, nil
}

func (t *tradingTools) requestQuote(_ context.Context, args Args) (*mcp.CallToolResult, error) {
	side := args.String("side")
	quantity := args.Number("quantity")
	instrument := args.String("instrument")

	symbol, ok := t.table.Resolve(instrument)
	if !ok {
		return mcp.NewToolResultError(
			fmt.Sprintf("Error: Could not resolve a valid instrument for %q.", instrument)), nil
	}

	resource, err := fdc3.RaiseIntentResource(
		fdc3.IntentInitiateRFQ,
		fdc3.OrderContext(symbol, side, quantity),
		fdc3.AppIdentifier{AppID: fdc3.AppRFQ},
	)
	if err != nil {
		return nil, err
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{
				Type: "text",
				Text: fmt.Sprintf("RFQ staged in the UI for %s %s %s. The user must review and click 'Request Quotes' in the panel.",
					strings.ToUpper(side), formatQuantity(quantity), symbol),
			},
			resource,
		},
	}, nil
}

func formatQuantity(q float64) string {
	return strconv.FormatFloat(q, 'f', -1, 64)
}
