package session

import (
	"sync"
	"time"

	"github.com/MikeSquared-Agency/decoy/internal/intel"
)

// Sender identifies which side of the conversation produced a turn.
type Sender string

const (
	SenderScammer Sender = "scammer"
	SenderAgent   Sender = "agent"
)

// Turn is one message in a session's conversation log. Immutable once
// appended.
type Turn struct {
	Sender    Sender    `json:"sender"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

// Session is the per-correspondent evidence accumulator. All mutation must
// happen with the embedded mutex held; the aggregator takes it for the whole
// read-modify-write of a message so concurrent messages for the same id are
// linearized while different ids proceed in parallel.
//
// ScamDetected is monotone: once true it never resets, even if later
// messages look benign. TurnNumber counts correspondent messages only.
type Session struct {
	sync.Mutex

	ID           string
	Turns        []Turn
	TurnNumber   int
	ScamDetected bool
	Reported     bool
	Intel        *intel.Bundle
	Notes        string
	CreatedAt    time.Time
}

// View is a lock-free copy of a session's state for the operator debug
// surface.
type View struct {
	SessionID    string              `json:"session_id"`
	Messages     []Turn              `json:"messages"`
	Intelligence map[string][]string `json:"extracted_intelligence"`
	TotalTurns   int                 `json:"total_turns"`
	IsScam       bool                `json:"is_scam"`
	AgentNotes   string              `json:"agent_notes,omitempty"`
}

// Snapshot copies the session under its lock.
func (s *Session) Snapshot() View {
	s.Lock()
	defer s.Unlock()

	turns := make([]Turn, len(s.Turns))
	copy(turns, s.Turns)

	return View{
		SessionID: s.ID,
		Messages:  turns,
		Intelligence: map[string][]string{
			"phoneNumbers":       s.Intel.PhoneNumbers.Values(),
			"upiIds":             s.Intel.UPIIDs.Values(),
			"phishingLinks":      s.Intel.PhishingURLs.Values(),
			"bankAccounts":       s.Intel.BankAccounts.Values(),
			"suspiciousKeywords": s.Intel.Keywords.Values(),
		},
		TotalTurns: s.TurnNumber,
		IsScam:     s.ScamDetected,
		AgentNotes: s.Notes,
	}
}

// Store is the process-wide map from correspondent id to session. Sessions
// live for the process lifetime; there is no eviction. See DESIGN.md for the
// growth trade-off.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewStore() *Store {
	return &Store{sessions: make(map[string]*Session)}
}

// GetOrCreate returns the session for id, creating it on first sight.
func (st *Store) GetOrCreate(id string) *Session {
	st.mu.RLock()
	s, ok := st.sessions[id]
	st.mu.RUnlock()
	if ok {
		return s
	}

	st.mu.Lock()
	defer st.mu.Unlock()
	if s, ok := st.sessions[id]; ok {
		return s
	}
	s = &Session{
		ID:        id,
		Intel:     intel.NewBundle(),
		CreatedAt: time.Now().UTC(),
	}
	st.sessions[id] = s
	return s
}

// Get returns the session for id if it exists.
func (st *Store) Get(id string) (*Session, bool) {
	st.mu.RLock()
	defer st.mu.RUnlock()
	s, ok := st.sessions[id]
	return s, ok
}

// Count returns the total number of sessions ever seen.
func (st *Store) Count() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}

// ScamCount returns how many sessions are currently classified as scams.
func (st *Store) ScamCount() int {
	st.mu.RLock()
	sessions := make([]*Session, 0, len(st.sessions))
	for _, s := range st.sessions {
		sessions = append(sessions, s)
	}
	st.mu.RUnlock()

	n := 0
	for _, s := range sessions {
		s.Lock()
		if s.ScamDetected {
			n++
		}
		s.Unlock()
	}
	return n
}
