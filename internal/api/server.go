package api

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/MikeSquared-Agency/decoy/internal/catalog"
	"github.com/MikeSquared-Agency/decoy/internal/honeypot"
	"github.com/MikeSquared-Agency/decoy/internal/session"
)

type Server struct {
	router *chi.Mux
	port   int
	apiKey string
	agg    *honeypot.Aggregator
	store  *session.Store
}

func NewServer(port int, apiKey string, agg *honeypot.Aggregator, store *session.Store) *Server {
	router := chi.NewRouter()
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)

	s := &Server{
		router: router,
		port:   port,
		apiKey: apiKey,
		agg:    agg,
		store:  store,
	}

	router.Get("/health", s.health)
	router.Post("/api/analyze", s.analyze)
	router.Get("/api/session/{id}", s.sessionDebug)
	router.Get("/api/stats", s.stats)

	return s
}

func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.port)
	slog.Info("API server starting", "addr", addr)
	return http.ListenAndServe(addr, s.router)
}

type analyzeRequest struct {
	SessionID string `json:"sessionId"`
	Message   struct {
		Sender    string `json:"sender"`
		Text      string `json:"text"`
		Timestamp string `json:"timestamp"`
	} `json:"message"`
	// Accepted but non-authoritative; the session log is the source of truth.
	ConversationHistory []json.RawMessage `json:"conversationHistory"`
	Metadata            map[string]any    `json:"metadata"`
}

// analyze is the main inbound endpoint: classify the message, engage if it
// is a scam, and return only the crafted reply. The correspondent-facing
// channel never sees classification detail.
func (s *Server) analyze(w http.ResponseWriter, r *http.Request) {
	if s.apiKey != "" && r.Header.Get("x-api-key") != s.apiKey {
		writeError(w, http.StatusUnauthorized, "invalid or missing API key")
		return
	}

	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		// Body-less probe from the platform tester. Answer alive.
		writeJSON(w, http.StatusOK, map[string]string{
			"status": "success",
			"reply":  "HoneyPot API is active",
		})
		return
	}

	if req.Message.Text == "" {
		writeError(w, http.StatusBadRequest, "message.text is required")
		return
	}

	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	ts := time.Now().UTC()
	if req.Message.Timestamp != "" {
		if parsed, err := time.Parse(time.RFC3339, req.Message.Timestamp); err == nil {
			ts = parsed.UTC()
		}
	}

	reply := s.agg.Handle(r.Context(), sessionID, req.Message.Text, ts)

	writeJSON(w, http.StatusOK, map[string]string{
		"status": "success",
		"reply":  reply,
	})
}

// sessionDebug is the operator introspection surface. Not exposed to
// correspondents.
func (s *Server) sessionDebug(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	sess, ok := s.store.Get(id)
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{
			"error":      "session not found",
			"session_id": id,
		})
		return
	}

	writeJSON(w, http.StatusOK, sess.Snapshot())
}

func (s *Server) stats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]int{
		"total_sessions": s.store.Count(),
		"scam_sessions":  s.store.ScamCount(),
	})
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":    "healthy",
		"service":   "decoy scam honeypot",
		"version":   catalog.Version,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{
		"status":  "error",
		"message": msg,
	})
}
