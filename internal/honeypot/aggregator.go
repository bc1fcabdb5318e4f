package honeypot

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/MikeSquared-Agency/decoy/internal/dialogue"
	"github.com/MikeSquared-Agency/decoy/internal/events"
	"github.com/MikeSquared-Agency/decoy/internal/intel"
	"github.com/MikeSquared-Agency/decoy/internal/report"
	"github.com/MikeSquared-Agency/decoy/internal/score"
	"github.com/MikeSquared-Agency/decoy/internal/session"
)

// NeutralReply is returned to correspondents whose messages never classify
// as scams. The correspondent-facing channel carries no classification
// detail either way.
const NeutralReply = "Thank you for your message."

// reportTimeout bounds the async handoff so a slow evaluation endpoint can
// never hold resources indefinitely.
const reportTimeout = 5 * time.Second

// Reporter delivers a finalized case to the evaluation collaborator.
type Reporter interface {
	Send(ctx context.Context, res report.FinalResult) error
}

// CaseWriter archives a finalized case.
type CaseWriter interface {
	WriteCase(ctx context.Context, res report.FinalResult) (uuid.UUID, error)
}

// EventSink publishes swarm lifecycle events.
type EventSink interface {
	Publish(subject string, data any) error
}

// Aggregator owns the per-message pipeline: classify, extract, plan the next
// utterance, accumulate evidence, and hand finished cases off. Each session's
// read-modify-write is serialized on the session's own lock; sessions for
// different correspondents run fully in parallel.
type Aggregator struct {
	store       *session.Store
	scorer      *score.Engine
	reporter    Reporter
	archive     CaseWriter
	events      EventSink
	reportTurns int
	logger      *slog.Logger
}

// New wires the aggregator. reporter, archive, and events may each be nil;
// the corresponding handoff step is skipped.
func New(st *session.Store, sc *score.Engine, rep Reporter, arch CaseWriter, ev EventSink, reportTurns int, logger *slog.Logger) *Aggregator {
	if reportTurns <= 0 {
		reportTurns = 3
	}
	return &Aggregator{
		store:       st,
		scorer:      sc,
		reporter:    rep,
		archive:     arch,
		events:      ev,
		reportTurns: reportTurns,
		logger:      logger,
	}
}

// Handle processes one inbound correspondent message and returns the reply
// to send back. It never fails toward the correspondent: a benign message
// gets the neutral acknowledgment, and collaborator errors are logged and
// swallowed off the reply path.
func (a *Aggregator) Handle(ctx context.Context, sessionID, text string, ts time.Time) string {
	result := a.scorer.Classify(text)
	sess := a.store.GetOrCreate(sessionID)

	sess.Lock()

	// Dormant path: never classified, still not a scam. No turn is logged
	// and nothing is extracted.
	if !result.IsScam && !sess.ScamDetected {
		sess.Unlock()
		a.logger.Info("no scam detected, neutral reply",
			"session_id", sessionID,
			"score", result.Normalized,
		)
		return NeutralReply
	}

	engagedNow := !sess.ScamDetected
	sess.ScamDetected = true

	sess.Turns = append(sess.Turns, session.Turn{
		Sender:    session.SenderScammer,
		Text:      text,
		Timestamp: ts,
	})
	sess.TurnNumber++

	harvest := intel.Extract(text)
	for _, kw := range a.scorer.Keywords(text) {
		harvest.Keywords.Add(kw)
	}
	sess.Intel.Merge(harvest)

	reply := dialogue.Next(text, sess.TurnNumber, sess.Turns)
	sess.Turns = append(sess.Turns, session.Turn{
		Sender:    session.SenderAgent,
		Text:      reply,
		Timestamp: time.Now().UTC(),
	})

	sess.Notes = fmt.Sprintf(
		"Engaged scammer for %d turns. Extracted %d phone numbers, %d UPI IDs, %d links.",
		sess.TurnNumber,
		sess.Intel.PhoneNumbers.Len(),
		sess.Intel.UPIIDs.Len(),
		sess.Intel.PhishingURLs.Len(),
	)

	// Finalize once: the first time the turn threshold is crossed, snapshot
	// the case under the lock and dispatch it off the reply path.
	var finalized *report.FinalResult
	if sess.TurnNumber >= a.reportTurns && !sess.Reported {
		sess.Reported = true
		finalized = &report.FinalResult{
			SessionID:              sess.ID,
			ScamDetected:           true,
			TotalMessagesExchanged: sess.TurnNumber,
			ExtractedIntelligence:  report.IntelligenceFrom(sess.Intel),
			AgentNotes:             sess.Notes,
		}
	}
	turn := sess.TurnNumber
	sess.Unlock()

	if engagedNow && a.events != nil {
		if err := a.events.Publish(events.SubjectSessionEngaged, map[string]any{
			"session_id": sessionID,
			"score":      result.Normalized,
			"categories": result.Categories,
		}); err != nil {
			a.logger.Warn("failed to publish engagement event", "session_id", sessionID, "error", err)
		}
	}

	if finalized != nil {
		go a.dispatch(*finalized)
	}

	a.logger.Info("scam engaged",
		"session_id", sessionID,
		"turn", turn,
		"score", result.Normalized,
		"categories", result.Categories,
	)
	return reply
}

// dispatch hands a finalized case to the external collaborators. Runs on its
// own goroutine with a bounded deadline; every failure is logged and
// swallowed.
func (a *Aggregator) dispatch(res report.FinalResult) {
	ctx, cancel := context.WithTimeout(context.Background(), reportTimeout)
	defer cancel()

	if a.reporter != nil {
		if err := a.reporter.Send(ctx, res); err != nil {
			a.logger.Error("final result delivery failed",
				"session_id", res.SessionID,
				"turn", res.TotalMessagesExchanged,
				"error", err,
			)
		}
	}

	if a.archive != nil {
		if id, err := a.archive.WriteCase(ctx, res); err != nil {
			a.logger.Error("case archive failed", "session_id", res.SessionID, "error", err)
		} else {
			a.logger.Info("case archived", "session_id", res.SessionID, "case_id", id)
		}
	}

	if a.events != nil {
		if err := a.events.Publish(events.SubjectCaseFinalized, map[string]any{
			"session_id":  res.SessionID,
			"total_turns": res.TotalMessagesExchanged,
			"notes":       res.AgentNotes,
		}); err != nil {
			a.logger.Warn("failed to publish finalized event", "session_id", res.SessionID, "error", err)
		}
	}
}
