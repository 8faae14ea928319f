// Package bus fans normalized interop messages out to a dynamic set of
// registered UI surfaces. Delivery is fire-and-forget: one surface failing
// never blocks the others.
package bus

import (
	"sync"

	"github.com/hashicorp/go-multierror"
	"github.com/rs/zerolog"

	"github.com/interop-desk/mcpgate/pkg/fdc3"
)

// Source is the fixed origin tag carried by every bus message. Recipients
// ignore messages whose source they do not recognize.
const Source = "mcp-fdc3"

// MessageType is the kind tag of a bus message.
type MessageType string

const (
	TypeRaiseIntent MessageType = "raiseIntent"
	TypeBroadcast   MessageType = "broadcast"
	TypeClearFilter MessageType = "clearFilter"
)

// Message is the normalized interop payload relayed to surfaces.
type Message struct {
	Source  string        `json:"source"`
	Type    MessageType   `json:"type"`
	Intent  string        `json:"intent,omitempty"`
	Context *fdc3.Context `json:"context,omitempty"`
}

// FromRequest normalizes a decoded FDC3 method request into a bus message.
// ClearFilter intents map to the clearFilter kind; every other intent is
// relayed as a raiseIntent.
func FromRequest(req *fdc3.MethodRequest) Message {
	msg := Message{
		Source:  Source,
		Type:    TypeRaiseIntent,
		Intent:  req.Params.Intent,
		Context: req.Params.Context,
	}
	if req.Params.Intent == fdc3.IntentClearFilter {
		msg.Type = TypeClearFilter
	}
	return msg
}

// Surface is a registered reference to a displayable panel capable of
// receiving interop messages.
type Surface interface {
	ID() string
	Deliver(msg Message) error
}

// Bus holds the surface registry. Construct one per running UI process and
// pass it by reference; there is no package-level instance.
type Bus struct {
	mu       sync.RWMutex
	surfaces map[string]Surface
	log      zerolog.Logger
}

// New creates an empty bus.
func New(log zerolog.Logger) *Bus {
	return &Bus{
		surfaces: make(map[string]Surface),
		log:      log,
	}
}

// Register adds a surface. Registering the same surface identity twice is
// a no-op.
func (b *Bus) Register(s Surface) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, exists := b.surfaces[s.ID()]; exists {
		return
	}
	b.surfaces[s.ID()] = s
	b.log.Debug().Str("surface", s.ID()).Int("registered", len(b.surfaces)).Msg("surface registered")
}

// Unregister removes a surface by identity. Unknown identities are ignored.
func (b *Bus) Unregister(id string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.surfaces, id)
}

// Len returns the number of registered surfaces.
func (b *Bus) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.surfaces)
}

// Broadcast delivers msg to every registered surface except excludeID
// (typically the originator, to avoid echo). Individual delivery failures
// are collected and returned for diagnostics but never abort the fan-out.
// Broadcasting with no registered surfaces is a no-op.
func (b *Bus) Broadcast(msg Message, excludeID string) error {
	b.mu.RLock()
	targets := make([]Surface, 0, len(b.surfaces))
	for id, s := range b.surfaces {
		if id == excludeID {
			continue
		}
		targets = append(targets, s)
	}
	total := len(b.surfaces)
	b.mu.RUnlock()

	if total == 0 {
		b.log.Debug().Str("type", string(msg.Type)).Msg("broadcast with no registered surfaces")
		return nil
	}

	var errs *multierror.Error
	failed := 0
	for _, s := range targets {
		if err := s.Deliver(msg); err != nil {
			b.log.Warn().Err(err).Str("surface", s.ID()).Str("type", string(msg.Type)).
				Msg("surface delivery failed")
			errs = multierror.Append(errs, err)
			failed++
		}
	}
	b.log.Debug().Str("type", string(msg.Type)).Str("intent", msg.Intent).
		Int("delivered", len(targets)-failed).Int("failed", failed).
		Msg("broadcast complete")
	return errs.ErrorOrNil()
}
