// Package archive persists finalized cases to Postgres for forensic review.
// Live sessions stay in memory; only the handed-off case payload is written,
// so the archive survives restarts while the conversation state does not.
package archive

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/MikeSquared-Agency/decoy/internal/report"
)

const schema = `
CREATE TABLE IF NOT EXISTS honeypot_cases (
	id UUID PRIMARY KEY,
	session_id TEXT NOT NULL,
	scam_detected BOOLEAN NOT NULL,
	total_turns INT NOT NULL,
	phone_numbers TEXT[] NOT NULL DEFAULT '{}',
	upi_ids TEXT[] NOT NULL DEFAULT '{}',
	phishing_links TEXT[] NOT NULL DEFAULT '{}',
	bank_accounts TEXT[] NOT NULL DEFAULT '{}',
	suspicious_keywords TEXT[] NOT NULL DEFAULT '{}',
	agent_notes TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

type Store struct {
	pool *pgxpool.Pool
}

func New(ctx context.Context, databaseURL string) (*Store, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if _, err := pool.Exec(ctx, schema); err != nil {
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	return &Store{pool: pool}, nil
}

func (s *Store) Close() {
	s.pool.Close()
}

// WriteCase stores one finalized case and returns its archive id.
func (s *Store) WriteCase(ctx context.Context, res report.FinalResult) (uuid.UUID, error) {
	id := uuid.New()

	query := `
		INSERT INTO honeypot_cases (
			id, session_id, scam_detected, total_turns,
			phone_numbers, upi_ids, phishing_links, bank_accounts,
			suspicious_keywords, agent_notes
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err := s.pool.Exec(ctx, query,
		id, res.SessionID, res.ScamDetected, res.TotalMessagesExchanged,
		res.ExtractedIntelligence.PhoneNumbers,
		res.ExtractedIntelligence.UPIIDs,
		res.ExtractedIntelligence.PhishingLinks,
		res.ExtractedIntelligence.BankAccounts,
		res.ExtractedIntelligence.SuspiciousKeywords,
		res.AgentNotes,
	)
	if err != nil {
		return uuid.Nil, fmt.Errorf("insert case: %w", err)
	}

	return id, nil
}

// CasesForSession returns how many archived cases exist for a session id.
func (s *Store) CasesForSession(ctx context.Context, sessionID string) (int, error) {
	var n int
	err := s.pool.QueryRow(ctx,
		`SELECT count(*) FROM honeypot_cases WHERE session_id = $1`, sessionID,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count cases: %w", err)
	}
	return n, nil
}
