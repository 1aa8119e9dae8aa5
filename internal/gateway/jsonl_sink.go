package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sync"
	"time"

	"go.uber.org/zap"

	"recon-engine/internal/audit"
	"recon-engine/internal/domain"
)

// sinkComponent names this engine in audit envelopes.
const sinkComponent = "reconciliation-engine"

// decisionLine is one JSONL output line: the engine output plus its audit
// envelope, as the external delegator expects them.
type decisionLine struct {
	Decision *domain.MatchingDecision `json:"decision,omitempty"`
	Triage   *domain.TriageOutcome    `json:"triage,omitempty"`
	Audit    audit.Record             `json:"audit"`
}

// JSONLSink writes decisions and triage outcomes as JSON lines. Writes are
// serialized so concurrent pipeline runs never interleave lines.
type JSONLSink struct {
	mu     sync.Mutex
	w      io.Writer
	logger *zap.Logger
	now    func() time.Time
}

// NewJSONLSink creates a sink writing to w.
func NewJSONLSink(w io.Writer, logger *zap.Logger) *JSONLSink {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &JSONLSink{w: w, logger: logger, now: time.Now}
}

// WriteDecision emits one matching decision with its audit envelope.
func (s *JSONLSink) WriteDecision(ctx context.Context, decision domain.MatchingDecision) error {
	line := decisionLine{
		Decision: &decision,
		Audit:    audit.ForDecision(decision, sinkComponent, s.now()),
	}
	return s.writeLine(line)
}

// WriteTriage emits one triage outcome with its audit envelope.
func (s *JSONLSink) WriteTriage(ctx context.Context, outcome domain.TriageOutcome) error {
	line := decisionLine{
		Triage: &outcome,
		Audit:  audit.ForTriage(outcome, sinkComponent),
	}
	return s.writeLine(line)
}

func (s *JSONLSink) writeLine(line decisionLine) error {
	data, err := json.Marshal(line)
	if err != nil {
		return fmt.Errorf("could not marshal output line: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.w.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("could not write output line: %w", err)
	}
	return nil
}
