package report

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/MikeSquared-Agency/decoy/internal/intel"
)

// Intelligence is the by-category artifact listing in a finalized case.
type Intelligence struct {
	PhoneNumbers       []string `json:"phoneNumbers"`
	UPIIDs             []string `json:"upiIds"`
	PhishingLinks      []string `json:"phishingLinks"`
	BankAccounts       []string `json:"bankAccounts"`
	SuspiciousKeywords []string `json:"suspiciousKeywords"`
}

// IntelligenceFrom flattens a bundle into sorted slices for the wire.
func IntelligenceFrom(b *intel.Bundle) Intelligence {
	return Intelligence{
		PhoneNumbers:       b.PhoneNumbers.Values(),
		UPIIDs:             b.UPIIDs.Values(),
		PhishingLinks:      b.PhishingURLs.Values(),
		BankAccounts:       b.BankAccounts.Values(),
		SuspiciousKeywords: b.Keywords.Values(),
	}
}

// FinalResult is the finalized-case payload handed to the evaluation
// endpoint. ScamDetected is always true at handoff time.
type FinalResult struct {
	SessionID              string       `json:"sessionId"`
	ScamDetected           bool         `json:"scamDetected"`
	TotalMessagesExchanged int          `json:"totalMessagesExchanged"`
	ExtractedIntelligence  Intelligence `json:"extractedIntelligence"`
	AgentNotes             string       `json:"agentNotes"`
}

// Client posts finalized cases to the external evaluation endpoint. Delivery
// is best-effort: the caller logs and swallows errors, never letting them
// reach the reply path.
type Client struct {
	url    string
	client *http.Client
	logger *slog.Logger
}

func NewClient(url string, logger *slog.Logger) *Client {
	return &Client{
		url:    url,
		client: &http.Client{Timeout: 5 * time.Second},
		logger: logger,
	}
}

// Send delivers a finalized case. Non-2xx responses are errors.
func (c *Client) Send(ctx context.Context, res FinalResult) error {
	body, err := json.Marshal(res)
	if err != nil {
		return fmt.Errorf("marshal final result: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("post final result: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("evaluation endpoint returned %d: %s", resp.StatusCode, snippet)
	}

	c.logger.Info("final result delivered", "session_id", res.SessionID, "status", resp.StatusCode)
	return nil
}
