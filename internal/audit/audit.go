// Package audit assembles the tamper-evidence envelope the external audit
// collaborator stores alongside every decision and triage outcome. The hash
// is a plain content hash, not a signature.
package audit

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"recon-engine/internal/domain"
)

// Record is the audit envelope for one engine output.
type Record struct {
	RecordID       string    `json:"record_id"`
	Timestamp      time.Time `json:"timestamp"`
	Component      string    `json:"component"`
	Classification string    `json:"classification"`
	Severity       string    `json:"severity,omitempty"`
	Outcome        string    `json:"outcome"`
	ContentHash    string    `json:"content_hash"`
}

// ForDecision wraps a matching decision.
func ForDecision(d domain.MatchingDecision, component string, at time.Time) Record {
	r := Record{
		RecordID:       d.TradeID,
		Timestamp:      at,
		Component:      component,
		Classification: string(d.Classification),
		Outcome:        string(d.Decision),
	}
	r.ContentHash = contentHash(r)
	return r
}

// ForTriage wraps a triage outcome.
func ForTriage(t domain.TriageOutcome, component string) Record {
	r := Record{
		RecordID:       t.ExceptionID,
		Timestamp:      t.TriagedAt,
		Component:      component,
		Classification: string(t.Classification),
		Severity:       string(t.Severity),
		Outcome:        string(t.Route),
	}
	r.ContentHash = contentHash(r)
	return r
}

// contentHash covers record id, timestamp, component, classification,
// severity, and outcome.
func contentHash(r Record) string {
	payload := fmt.Sprintf("%s|%s|%s|%s|%s|%s",
		r.RecordID, r.Timestamp.UTC().Format(time.RFC3339Nano),
		r.Component, r.Classification, r.Severity, r.Outcome)
	sum := sha256.Sum256([]byte(payload))
	return hex.EncodeToString(sum[:])
}
