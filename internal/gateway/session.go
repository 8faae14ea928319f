package gateway

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog"

	"github.com/interop-desk/mcpgate/pkg/apperrors"
	"github.com/interop-desk/mcpgate/pkg/symbols"
	"github.com/interop-desk/mcpgate/pkg/tools"
)

const (
	serverName    = "mcpgate-server"
	serverVersion = "0.1.0"
)

// SessionState tracks the session lifecycle. Closure is terminal.
type SessionState string

const (
	StateUninitialized SessionState = "UNINITIALIZED"
	StateActive        SessionState = "ACTIVE"
	StateClosed        SessionState = "CLOSED"
)

// Session binds an opaque token to a live transport and a dedicated tool
// dispatcher. Dispatcher state is never shared across sessions.
type Session struct {
	Token     string
	CreatedAt time.Time

	dispatcher *server.MCPServer
	registry   *tools.Registry

	mu        sync.Mutex
	state     SessionState
	done      chan struct{}
	closeOnce sync.Once
}

// NewSession builds a session around a fresh MCP server pre-registered
// with the given tool registry.
func NewSession(token string, registry *tools.Registry) *Session {
	dispatcher := server.NewMCPServer(serverName, serverVersion,
		server.WithToolCapabilities(false),
	)
	registry.Install(dispatcher)
	return &Session{
		Token:      token,
		CreatedAt:  time.Now(),
		dispatcher: dispatcher,
		registry:   registry,
		state:      StateUninitialized,
		done:       make(chan struct{}),
	}
}

// State returns the current lifecycle state.
func (s *Session) State() SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Session) activate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateUninitialized {
		s.state = StateActive
	}
}

// HandleMessage dispatches one raw JSON-RPC message to the session's MCP
// server. A nil return means the message was a notification with no reply.
func (s *Session) HandleMessage(ctx context.Context, raw json.RawMessage) json.RawMessage {
	response := s.dispatcher.HandleMessage(ctx, raw)
	if response == nil {
		return nil
	}
	out, err := json.Marshal(response)
	if err != nil {
		// The server constructed the response; marshaling it cannot
		// reasonably fail, but never crash a session over it.
		return nil
	}
	return out
}

// Done is closed when the session transitions to CLOSED.
func (s *Session) Done() <-chan struct{} {
	return s.done
}

// close transitions to CLOSED exactly once.
func (s *Session) close() {
	s.closeOnce.Do(func() {
		s.mu.Lock()
		s.state = StateClosed
		s.mu.Unlock()
		close(s.done)
	})
}

// SessionFactory allocates the per-session dispatcher wiring.
type SessionFactory func(token string) *Session

// DefaultSessionFactory wires the trading tool registry onto each new
// session and hooks dispatch outcomes into the gateway metrics.
func DefaultSessionFactory(table *symbols.Table, log zerolog.Logger) SessionFactory {
	return func(token string) *Session {
		registry := tools.TradingTools(table, log.With().Str("session", token).Logger())
		registry.SetDispatchHook(func(name string, isError bool, err error) {
			outcome := "ok"
			switch {
			case err != nil:
				outcome = "dispatch_error"
			case isError:
				outcome = "tool_error"
			}
			toolInvocations.WithLabelValues(name, outcome).Inc()
		})
		return NewSession(token, registry)
	}
}

// Store is the session-store abstraction injected into the Gateway.
type Store interface {
	// Resolve returns the live session for token, if any.
	Resolve(token string) (*Session, bool)
	// Create allocates a new ACTIVE session with a unique token.
	Create(ctx context.Context) (*Session, error)
	// Close terminates the session for token. It reports false for an
	// unknown (or already closed) token; that is a no-op, never fatal.
	Close(token string) bool
	// Len returns the number of live sessions.
	Len() int
}

// MemoryStore keeps sessions in process memory behind a RWMutex. Sessions
// are lost on restart; no expiry policy is applied.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	factory  SessionFactory
}

// NewMemoryStore creates an empty store using factory for new sessions.
func NewMemoryStore(factory SessionFactory) *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]*Session),
		factory:  factory,
	}
}

func (m *MemoryStore) Resolve(token string) (*Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	sess, ok := m.sessions[token]
	return sess, ok
}

func (m *MemoryStore) Create(ctx context.Context) (*Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, apperrors.New(apperrors.ErrCodeInternal, "session create aborted", err)
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	token := uuid.NewString()
	for {
		if _, taken := m.sessions[token]; !taken {
			break
		}
		token = uuid.NewString()
	}

	sess := m.factory(token)
	sess.activate()
	m.sessions[token] = sess
	return sess, nil
}

func (m *MemoryStore) Close(token string) bool {
	m.mu.Lock()
	sess, ok := m.sessions[token]
	if ok {
		delete(m.sessions, token)
	}
	m.mu.Unlock()

	if !ok {
		return false
	}
	sess.close()
	return true
}

func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
