package usecase

import (
	"context"

	"recon-engine/internal/domain"
)

// TradePairSource supplies the paired trade records for one reconciliation
// run. The usecase layer depends on this interface, not on a concrete
// implementation.
//
//go:generate mockgen -destination=mocks/mock_interfaces.go -source=interface.go TradePairSource,DecisionSink
type TradePairSource interface {
	Pairs(ctx context.Context) ([]domain.TradePair, error)
}

// DecisionSink receives the engine's outputs for durable storage and queue
// delivery; both are handled by external collaborators.
type DecisionSink interface {
	WriteDecision(ctx context.Context, decision domain.MatchingDecision) error
	WriteTriage(ctx context.Context, outcome domain.TriageOutcome) error
}
