package agent

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/interop-desk/mcpgate/pkg/transcript"
)

// Server exposes the agent over HTTP to the desktop frontend.
type Server struct {
	agent *Agent
	log   zerolog.Logger
}

// NewServer wraps agent with the chat HTTP surface.
func NewServer(agent *Agent, log zerolog.Logger) *Server {
	return &Server{agent: agent, log: log}
}

// Routes installs the chat handlers on r.
func (s *Server) Routes(r *mux.Router) {
	r.HandleFunc("/api/chat", s.handleChat).Methods(http.MethodPost)
	r.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
}

type chatRequest struct {
	Question string `json:"question"`
	Reset    bool   `json:"reset"`
}

type chatMessages struct {
	Messages []transcript.Message `json:"messages"`
}

type chatResponse struct {
	Status   string       `json:"status,omitempty"`
	Response chatMessages `json:"response"`
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}

	s.log.Info().Str("question", req.Question).Bool("reset", req.Reset).Msg("chat request")

	if req.Reset {
		s.agent.Reset()
		writeJSON(w, http.StatusOK, chatResponse{
			Status:   "ok",
			Response: chatMessages{Messages: []transcript.Message{}},
		})
		return
	}

	messages, err := s.agent.Ask(r.Context(), req.Question)
	if err != nil {
		s.log.Error().Err(err).Msg("chat request failed")
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, chatResponse{
		Response: chatMessages{Messages: messages},
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
