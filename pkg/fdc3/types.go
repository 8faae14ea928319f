// Package fdc3 carries the FDC3 intent and context types used for
// cross-panel interop, plus the MCP resource encoding that lets a tool
// result transport an intent request to the desktop frontend.
package fdc3

// Intent names raised by the gateway's tools.
const (
	IntentViewInstrument = "ViewInstrument"
	IntentSubmitOrder    = "SubmitOrder"
	IntentInitiateRFQ    = "InitiateRFQ"
	IntentClearFilter    = "ClearFilter"
)

// Context type discriminators.
const (
	ContextTypeInstrument = "fdc3.instrument"
	ContextTypeOrder      = "fdc3.order"
	ContextTypeClear      = "fdc3.clear"
)

// Well-known app identifiers for the demo desktop panels. AppAll is the
// wildcard target used by ClearFilter.
const (
	AppBlotter     = "frontend-app-blotter"
	AppNews        = "frontend-app-news"
	AppOrderTicket = "frontend-app-order-ticket"
	AppRFQ         = "frontend-app-rfq"
	AppAll         = "all"
)

// AppIdentifier identifies a target application for an intent.
type AppIdentifier struct {
	AppID      string `json:"appId"`
	InstanceID string `json:"instanceId,omitempty"`
}

// InstrumentID carries the instrument identifiers of an fdc3.instrument context.
type InstrumentID struct {
	Ticker string `json:"ticker,omitempty"`
}

// OrderDetails carries the payload of an fdc3.order context.
type OrderDetails struct {
	Ticker   string  `json:"ticker"`
	Side     string  `json:"side"`
	Quantity float64 `json:"quantity"`
}

// Context is an FDC3 context object. Which optional fields are populated
// depends on Type.
type Context struct {
	Type    string        `json:"type"`
	Name    string        `json:"name,omitempty"`
	ID      *InstrumentID `json:"id,omitempty"`
	Details *OrderDetails `json:"details,omitempty"`
}

// InstrumentContext builds an fdc3.instrument context for a company.
func InstrumentContext(name, ticker string) Context {
	return Context{
		Type: ContextTypeInstrument,
		Name: name,
		ID:   &InstrumentID{Ticker: ticker},
	}
}

// OrderContext builds an fdc3.order context for a staged order or RFQ.
func OrderContext(ticker, side string, quantity float64) Context {
	return Context{
		Type: ContextTypeOrder,
		Details: &OrderDetails{
			Ticker:   ticker,
			Side:     side,
			Quantity: quantity,
		},
	}
}

// ClearContext builds the fdc3.clear context understood by every panel.
func ClearContext() Context {
	return Context{Type: ContextTypeClear}
}
