// Package gateway exposes the session-scoped MCP endpoint: it multiplexes
// many concurrent client conversations over one HTTP surface, creating a
// session per initialize request and routing follow-up, stream, and
// terminate requests to the owning session.
package gateway

import (
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

// HeaderSessionID carries the opaque session token on every request after
// initialization.
const HeaderSessionID = "Mcp-Session-Id"

const (
	maxBodyBytes      = 1 << 20
	keepAliveInterval = 30 * time.Second
)

// Gateway routes inbound MCP requests to the right session.
type Gateway struct {
	store Store
	log   zerolog.Logger
}

// New creates a gateway over the given session store.
func New(store Store, log zerolog.Logger) *Gateway {
	return &Gateway{store: store, log: log}
}

// Routes installs the gateway's handlers on r.
func (g *Gateway) Routes(r *mux.Router) {
	r.HandleFunc("/mcp", g.handlePost).Methods(http.MethodPost)
	r.HandleFunc("/mcp", g.handleStream).Methods(http.MethodGet)
	r.HandleFunc("/mcp", g.handleTerminate).Methods(http.MethodDelete)
	r.HandleFunc("/health", g.handleHealth).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
}

// handlePost serves client-to-server messages: either a follow-up on an
// existing session or an initialize request that creates one.
func (g *Gateway) handlePost(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		requestErrors.WithLabelValues("body_read").Inc()
		writeError(w, http.StatusBadRequest, "failed to read request body")
		return
	}
	if !json.Valid(body) {
		requestErrors.WithLabelValues("invalid_json").Inc()
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	token := r.Header.Get(HeaderSessionID)
	switch {
	case token != "":
		sess, ok := g.store.Resolve(token)
		if !ok {
			requestErrors.WithLabelValues("unknown_session").Inc()
			writeError(w, http.StatusNotFound, "Session not found")
			return
		}
		g.respond(w, r, sess, body)

	case isInitializeRequest(body):
		sess, err := g.store.Create(r.Context())
		if err != nil {
			g.log.Error().Err(err).Msg("session create failed")
			writeError(w, http.StatusInternalServerError, "failed to create session")
			return
		}
		sessionsCreated.Inc()
		activeSessions.Inc()
		g.log.Info().Str("session", sess.Token).Msg("MCP session initialized")

		w.Header().Set(HeaderSessionID, sess.Token)
		g.respond(w, r, sess, body)

	default:
		requestErrors.WithLabelValues("no_session").Inc()
		writeError(w, http.StatusBadRequest, "Bad Request: No valid session ID provided")
	}
}

func (g *Gateway) respond(w http.ResponseWriter, r *http.Request, sess *Session, body []byte) {
	response := sess.HandleMessage(r.Context(), body)
	if response == nil {
		// Notification: acknowledged without a reply.
		w.WriteHeader(http.StatusAccepted)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(response)
}

// handleStream serves the long-lived server-to-client stream for an
// existing session.
func (g *Gateway) handleStream(w http.ResponseWriter, r *http.Request) {
	sess, ok := g.store.Resolve(r.Header.Get(HeaderSessionID))
	if !ok {
		requestErrors.WithLabelValues("unknown_session").Inc()
		writeError(w, http.StatusNotFound, "Session not found")
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	ticker := time.NewTicker(keepAliveInterval)
	defer ticker.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-sess.Done():
			return
		case <-ticker.C:
			if _, err := io.WriteString(w, ": keep-alive\n\n"); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}

// handleTerminate serves explicit session termination.
func (g *Gateway) handleTerminate(w http.ResponseWriter, r *http.Request) {
	token := r.Header.Get(HeaderSessionID)
	if !g.store.Close(token) {
		requestErrors.WithLabelValues("unknown_session").Inc()
		writeError(w, http.StatusNotFound, "Session not found")
		return
	}
	sessionsClosed.Inc()
	activeSessions.Dec()
	g.log.Info().Str("session", token).Msg("MCP session closed")
	w.WriteHeader(http.StatusOK)
}

func (g *Gateway) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"status":   "ok",
		"sessions": g.store.Len(),
	})
}

func isInitializeRequest(body []byte) bool {
	var probe struct {
		JSONRPC string `json:"jsonrpc"`
		Method  string `json:"method"`
	}
	if err := json.Unmarshal(body, &probe); err != nil {
		return false
	}
	return probe.Method == string(mcp.MethodInitialize)
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]string{"message": message},
	})
}
