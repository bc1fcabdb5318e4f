package api

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/MikeSquared-Agency/decoy/internal/catalog"
	"github.com/MikeSquared-Agency/decoy/internal/honeypot"
	"github.com/MikeSquared-Agency/decoy/internal/score"
	"github.com/MikeSquared-Agency/decoy/internal/session"
)

const testAPIKey = "test-key"

func newTestServer() (*Server, *session.Store) {
	st := session.NewStore()
	sc := score.New(catalog.Default(), score.DefaultThreshold)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	agg := honeypot.New(st, sc, nil, nil, nil, 3, logger)
	return NewServer(8760, testAPIKey, agg, st), st
}

func doJSON(srv *Server, method, path, body string, withKey bool) *httptest.ResponseRecorder {
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rd)
	if withKey {
		req.Header.Set("x-api-key", testAPIKey)
	}
	w := httptest.NewRecorder()
	srv.router.ServeHTTP(w, req)
	return w
}

func TestHealthEndpoint(t *testing.T) {
	srv, _ := newTestServer()

	w := doJSON(srv, "GET", "/health", "", false)
	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}

	var body map[string]string
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if body["status"] != "healthy" {
		t.Errorf("expected status healthy, got %q", body["status"])
	}
	if body["version"] != catalog.Version {
		t.Errorf("expected catalog version, got %q", body["version"])
	}
}

func TestAnalyze_MissingAPIKey(t *testing.T) {
	srv, _ := newTestServer()

	w := doJSON(srv, "POST", "/api/analyze", `{"sessionId":"s1","message":{"text":"hi"}}`, false)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
}

func TestAnalyze_EmptyBodyIsLivenessProbe(t *testing.T) {
	srv, _ := newTestServer()

	w := doJSON(srv, "POST", "/api/analyze", "", true)
	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}

	var body map[string]string
	json.NewDecoder(w.Body).Decode(&body)
	if body["reply"] != "HoneyPot API is active" {
		t.Errorf("expected liveness reply, got %q", body["reply"])
	}
}

func TestAnalyze_MissingText(t *testing.T) {
	srv, _ := newTestServer()

	w := doJSON(srv, "POST", "/api/analyze", `{"sessionId":"s1","message":{"sender":"scammer"}}`, true)
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}

	var body map[string]string
	json.NewDecoder(w.Body).Decode(&body)
	if body["status"] != "error" {
		t.Errorf("expected error status, got %q", body["status"])
	}
}

func TestAnalyze_ScamMessage(t *testing.T) {
	srv, st := newTestServer()

	payload := `{
		"sessionId": "scam-1",
		"message": {
			"sender": "scammer",
			"text": "your account will be blocked, verify at http://evil.example now",
			"timestamp": "2026-01-21T10:15:30Z"
		},
		"conversationHistory": [],
		"metadata": {"channel": "SMS"}
	}`

	w := doJSON(srv, "POST", "/api/analyze", payload, true)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var body map[string]string
	json.NewDecoder(w.Body).Decode(&body)
	if body["status"] != "success" {
		t.Errorf("expected success, got %q", body["status"])
	}
	if body["reply"] != "Why will my account be blocked?" {
		t.Errorf("unexpected reply %q", body["reply"])
	}

	sess, ok := st.Get("scam-1")
	if !ok {
		t.Fatal("session not created")
	}
	snap := sess.Snapshot()
	if !snap.IsScam || snap.TotalTurns != 1 {
		t.Errorf("unexpected session state: %+v", snap)
	}
	if snap.Messages[0].Timestamp.Format("2006-01-02") != "2026-01-21" {
		t.Errorf("request timestamp not honored: %v", snap.Messages[0].Timestamp)
	}
}

func TestAnalyze_BenignMessage(t *testing.T) {
	srv, st := newTestServer()

	w := doJSON(srv, "POST", "/api/analyze", `{"sessionId":"ok-1","message":{"text":"want to grab lunch tomorrow?"}}`, true)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var body map[string]string
	json.NewDecoder(w.Body).Decode(&body)
	if body["reply"] != honeypot.NeutralReply {
		t.Errorf("expected neutral reply, got %q", body["reply"])
	}

	sess, _ := st.Get("ok-1")
	if snap := sess.Snapshot(); snap.IsScam || len(snap.Messages) != 0 {
		t.Errorf("benign message mutated session: %+v", snap)
	}
}

func TestAnalyze_GeneratesSessionID(t *testing.T) {
	srv, st := newTestServer()

	w := doJSON(srv, "POST", "/api/analyze", `{"message":{"text":"hello there"}}`, true)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if st.Count() != 1 {
		t.Errorf("expected 1 session, got %d", st.Count())
	}
}

func TestSessionDebugEndpoint(t *testing.T) {
	srv, _ := newTestServer()

	doJSON(srv, "POST", "/api/analyze", `{"sessionId":"dbg-1","message":{"text":"verify your account urgently at http://evil.example"}}`, true)

	w := doJSON(srv, "GET", "/api/session/dbg-1", "", false)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var view session.View
	if err := json.NewDecoder(w.Body).Decode(&view); err != nil {
		t.Fatalf("failed to decode view: %v", err)
	}
	if view.SessionID != "dbg-1" || !view.IsScam || view.TotalTurns != 1 {
		t.Errorf("unexpected view: %+v", view)
	}
	if len(view.Intelligence["phishingLinks"]) != 1 {
		t.Errorf("expected extracted link, got %v", view.Intelligence)
	}
}

func TestSessionDebugEndpoint_NotFound(t *testing.T) {
	srv, _ := newTestServer()

	w := doJSON(srv, "GET", "/api/session/nope", "", false)
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
}

func TestStatsEndpoint(t *testing.T) {
	srv, _ := newTestServer()

	doJSON(srv, "POST", "/api/analyze", `{"sessionId":"a","message":{"text":"want to grab lunch tomorrow?"}}`, true)
	doJSON(srv, "POST", "/api/analyze", `{"sessionId":"b","message":{"text":"your account is blocked, verify now"}}`, true)

	w := doJSON(srv, "GET", "/api/stats", "", false)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var body map[string]int
	json.NewDecoder(w.Body).Decode(&body)
	if body["total_sessions"] != 2 {
		t.Errorf("total_sessions = %d, want 2", body["total_sessions"])
	}
	if body["scam_sessions"] != 1 {
		t.Errorf("scam_sessions = %d, want 1", body["scam_sessions"])
	}
}

func TestNotFoundEndpoint(t *testing.T) {
	srv, _ := newTestServer()

	w := doJSON(srv, "GET", "/nonexistent", "", false)
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
}
