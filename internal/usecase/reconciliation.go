package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"recon-engine/internal/domain"
	"recon-engine/internal/learning"
	"recon-engine/internal/matching"
	"recon-engine/internal/triage"
)

// componentName identifies this engine in exceptions and audit records.
const componentName = "reconciliation-engine"

// batchParallelism bounds concurrent pipeline runs in ReconcileBatch.
const batchParallelism = 8

// ReconcileUseCase orchestrates the full decision pipeline: fuzzy match,
// score, classify, and triage anything that is not an auto-match exception.
type ReconcileUseCase struct {
	matcher    *matching.Matcher
	scorer     *matching.Scorer
	classifier *matching.Classifier
	engine     *triage.Engine
	learner    *learning.Learner
	sink       DecisionSink
	logger     *zap.Logger
	now        func() time.Time
}

// NewReconcileUseCase wires the pipeline components together.
func NewReconcileUseCase(
	matcher *matching.Matcher,
	scorer *matching.Scorer,
	classifier *matching.Classifier,
	engine *triage.Engine,
	learner *learning.Learner,
	sink DecisionSink,
	logger *zap.Logger,
) *ReconcileUseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReconcileUseCase{
		matcher:    matcher,
		scorer:     scorer,
		classifier: classifier,
		engine:     engine,
		learner:    learner,
		sink:       sink,
		logger:     logger,
		now:        time.Now,
	}
}

// ReconcilePair runs the pipeline for one trade pair. Every pair produces a
// MatchingDecision; pairs whose decision is EXCEPTION additionally produce a
// TriageOutcome.
func (uc *ReconcileUseCase) ReconcilePair(ctx context.Context, pair domain.TradePair) (domain.MatchingDecision, *domain.TriageOutcome, error) {
	res := uc.matcher.Match(pair.Bank, pair.Counterparty)
	decision := uc.classifier.Decide(uc.scorer, res, pair.Bank, pair.Counterparty)

	if err := uc.sink.WriteDecision(ctx, decision); err != nil {
		return decision, nil, fmt.Errorf("could not write decision for trade %s: %w", decision.TradeID, err)
	}

	if decision.Decision != domain.DecisionException {
		uc.logger.Debug("trade reconciled",
			zap.String("trade_id", decision.TradeID),
			zap.String("classification", string(decision.Classification)),
			zap.Float64("score", decision.MatchScore))
		return decision, nil, nil
	}

	exc := uc.exceptionFor(pair, decision)
	outcome := uc.engine.Triage(exc)
	if err := uc.sink.WriteTriage(ctx, outcome); err != nil {
		return decision, &outcome, fmt.Errorf("could not write triage outcome for exception %s: %w", exc.ID, err)
	}
	return decision, &outcome, nil
}

// ReconcileBatch fans the pipeline out over all pairs from the source.
// Failures are local to one trade: a failing pair is reported in the summary
// and the rest of the batch proceeds.
func (uc *ReconcileUseCase) ReconcileBatch(ctx context.Context, source TradePairSource) (domain.BatchReport, error) {
	pairs, err := source.Pairs(ctx)
	if err != nil {
		return domain.BatchReport{}, fmt.Errorf("could not load trade pairs: %w", err)
	}

	var mu sync.Mutex
	report := domain.BatchReport{
		Decisions: make([]domain.MatchingDecision, 0, len(pairs)),
		Triage:    make([]domain.TriageOutcome, 0),
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(batchParallelism)
	for _, pair := range pairs {
		pair := pair
		g.Go(func() error {
			decision, outcome, err := uc.ReconcilePair(ctx, pair)
			if err != nil {
				// Sink failures abort the batch; decision failures do not
				// exist by design (bad data is a decision, not an error).
				return err
			}
			mu.Lock()
			defer mu.Unlock()
			report.Summary.PairsProcessed++
			report.Decisions = append(report.Decisions, decision)
			switch decision.Decision {
			case domain.DecisionAutoMatch:
				report.Summary.AutoMatched++
			case domain.DecisionEscalate:
				report.Summary.Escalated++
			case domain.DecisionException:
				report.Summary.Exceptions++
			}
			if outcome != nil {
				report.Triage = append(report.Triage, *outcome)
				if outcome.Severity == domain.SeverityCritical {
					report.Summary.TriagedCritical++
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return report, err
	}
	return report, nil
}

// TriageExternal triages an exception raised by an upstream pipeline stage
// (extraction failure, queue error) rather than by matching.
func (uc *ReconcileUseCase) TriageExternal(ctx context.Context, exc domain.ExceptionCase) (domain.TriageOutcome, error) {
	outcome := uc.engine.Triage(exc)
	if err := uc.sink.WriteTriage(ctx, outcome); err != nil {
		return outcome, fmt.Errorf("could not write triage outcome for exception %s: %w", exc.ID, err)
	}
	return outcome, nil
}

// RecordResolution feeds a resolution outcome back into the learner.
func (uc *ReconcileUseCase) RecordResolution(out domain.ResolutionOutcome) {
	if uc.learner != nil {
		uc.learner.ResolveOutcome(out)
	}
}

// RecordOverride feeds a human routing override back into the learner as a
// supervised correction.
func (uc *ReconcileUseCase) RecordOverride(exc domain.ExceptionCase, humanRoute domain.RoutingDestination) {
	if uc.learner != nil {
		uc.learner.ApplyOverride(exc, humanRoute)
		uc.logger.Info("human override recorded",
			zap.String("exception_id", exc.ID),
			zap.String("route", string(humanRoute)))
	}
}

// exceptionFor builds the immutable exception snapshot for a non-auto-match
// decision.
func (uc *ReconcileUseCase) exceptionFor(pair domain.TradePair, decision domain.MatchingDecision) domain.ExceptionCase {
	score := decision.MatchScore
	kind := domain.ExceptionMatching
	if decision.Classification == domain.ClassDataError {
		kind = domain.ExceptionValidation
	}
	return domain.ExceptionCase{
		ID:          uuid.NewString(),
		Timestamp:   uc.now(),
		Kind:        kind,
		Event:       "reconciliation.decision",
		TradeID:     decision.TradeID,
		Component:   componentName,
		MatchScore:  &score,
		ReasonCodes: decision.ReasonCodes,
		ErrorText:   fmt.Sprintf("reconciliation classified trade as %s", decision.Classification),
	}
}
