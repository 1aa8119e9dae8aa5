package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"recon-engine/internal/config"
	"recon-engine/internal/domain"
	"recon-engine/internal/learning"
	"recon-engine/internal/matching"
	"recon-engine/internal/taxonomy"
	"recon-engine/internal/triage"
	"recon-engine/internal/usecase"
	mock_usecase "recon-engine/internal/usecase/mocks"
)

func newUseCase(t *testing.T, sink usecase.DecisionSink) (*usecase.ReconcileUseCase, *learning.Learner) {
	t.Helper()
	cfg := config.Default()
	tax := taxonomy.New()
	learner := learning.New(cfg.Learner, zap.NewNop())
	engine := triage.NewEngine(
		triage.NewExceptionClassifier(tax),
		triage.NewSeverityScorer(tax, learner, cfg.Triage),
		learner, tax, cfg.Triage, zap.NewNop(),
	)
	uc := usecase.NewReconcileUseCase(
		matching.NewMatcher(cfg.Matching),
		matching.NewScorer(cfg.Weights, cfg.Matching),
		matching.NewClassifier(cfg.Thresholds),
		engine, learner, sink, zap.NewNop(),
	)
	return uc, learner
}

func tradeRecord(source domain.TradeSource, overrides map[string]string) *domain.TradeRecord {
	fields := map[string]string{
		domain.FieldTradeID:      "TRX-2026-0001",
		domain.FieldTradeDate:    "2026-03-02",
		domain.FieldNotional:     "10000000",
		domain.FieldCurrency:     "USD",
		domain.FieldCounterparty: "Goldman Sachs",
		domain.FieldProductType:  "IRS",
	}
	for k, v := range overrides {
		fields[k] = v
	}
	return &domain.TradeRecord{Source: source, Fields: fields}
}

func TestReconcilePair_AutoMatchWritesDecisionOnly(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	sink := mock_usecase.NewMockDecisionSink(ctrl)
	sink.EXPECT().WriteDecision(gomock.Any(), gomock.Any()).Return(nil)

	uc, _ := newUseCase(t, sink)
	pair := domain.TradePair{
		TradeID:      "TRX-2026-0001",
		Bank:         tradeRecord(domain.SourceBank, nil),
		Counterparty: tradeRecord(domain.SourceCounterparty, nil),
	}

	decision, outcome, err := uc.ReconcilePair(context.Background(), pair)
	require.NoError(t, err)

	assert.Equal(t, domain.ClassMatched, decision.Classification)
	assert.Equal(t, domain.DecisionAutoMatch, decision.Decision)
	assert.Equal(t, 1.0, decision.MatchScore)
	assert.Nil(t, outcome, "auto-matches must not be triaged")
}

func TestReconcilePair_MissingCounterpartyIsTriaged(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	var written domain.TriageOutcome
	sink := mock_usecase.NewMockDecisionSink(ctrl)
	sink.EXPECT().WriteDecision(gomock.Any(), gomock.Any()).Return(nil)
	sink.EXPECT().WriteTriage(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, out domain.TriageOutcome) error {
			written = out
			return nil
		})

	uc, _ := newUseCase(t, sink)
	pair := domain.TradePair{
		TradeID: "TRX-2026-0001",
		Bank:    tradeRecord(domain.SourceBank, nil),
	}

	decision, outcome, err := uc.ReconcilePair(context.Background(), pair)
	require.NoError(t, err)

	assert.Equal(t, domain.ClassDataError, decision.Classification)
	assert.Contains(t, decision.ReasonCodes, domain.ReasonMissingCounterpartyTrade)
	require.NotNil(t, outcome)
	assert.Equal(t, *outcome, written)
	assert.Equal(t, domain.TriageDataQualityIssue, outcome.Classification)
	// A one-sided break with match score 0.0 lands in the CRITICAL tier.
	assert.Equal(t, domain.SeverityCritical, outcome.Severity)
	assert.Equal(t, domain.RouteSeniorOps, outcome.Route)
	assert.Equal(t, 1, outcome.Priority)
	assert.NotEmpty(t, outcome.ExceptionID)
}

func TestReconcilePair_EscalationIsNotTriaged(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	sink := mock_usecase.NewMockDecisionSink(ctrl)
	sink.EXPECT().WriteDecision(gomock.Any(), gomock.Any()).Return(nil)

	uc, _ := newUseCase(t, sink)
	// A 2.1% notional difference lands just under the auto-match threshold.
	pair := domain.TradePair{
		TradeID:      "TRX-2026-0001",
		Bank:         tradeRecord(domain.SourceBank, nil),
		Counterparty: tradeRecord(domain.SourceCounterparty, map[string]string{domain.FieldNotional: "10210000"}),
	}

	decision, outcome, err := uc.ReconcilePair(context.Background(), pair)
	require.NoError(t, err)

	assert.Equal(t, domain.ClassProbableMatch, decision.Classification)
	assert.Equal(t, domain.DecisionEscalate, decision.Decision)
	assert.True(t, decision.RequiresHITL)
	assert.Nil(t, outcome, "escalations go to human review, not triage")
}

func TestReconcilePair_SinkErrorPropagates(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	sink := mock_usecase.NewMockDecisionSink(ctrl)
	sink.EXPECT().WriteDecision(gomock.Any(), gomock.Any()).Return(errors.New("store unavailable"))

	uc, _ := newUseCase(t, sink)
	pair := domain.TradePair{
		TradeID:      "TRX-2026-0001",
		Bank:         tradeRecord(domain.SourceBank, nil),
		Counterparty: tradeRecord(domain.SourceCounterparty, nil),
	}

	_, _, err := uc.ReconcilePair(context.Background(), pair)
	assert.ErrorContains(t, err, "store unavailable")
}

func TestReconcileBatch_CollatesSummary(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	pairs := []domain.TradePair{
		{
			TradeID:      "TRX-2026-0001",
			Bank:         tradeRecord(domain.SourceBank, nil),
			Counterparty: tradeRecord(domain.SourceCounterparty, nil),
		},
		{
			TradeID: "TRX-2026-0002",
			Bank:    tradeRecord(domain.SourceBank, map[string]string{domain.FieldTradeID: "TRX-2026-0002"}),
		},
	}

	source := mock_usecase.NewMockTradePairSource(ctrl)
	source.EXPECT().Pairs(gomock.Any()).Return(pairs, nil)

	sink := mock_usecase.NewMockDecisionSink(ctrl)
	sink.EXPECT().WriteDecision(gomock.Any(), gomock.Any()).Return(nil).Times(2)
	sink.EXPECT().WriteTriage(gomock.Any(), gomock.Any()).Return(nil)

	uc, _ := newUseCase(t, sink)
	report, err := uc.ReconcileBatch(context.Background(), source)
	require.NoError(t, err)

	assert.Equal(t, 2, report.Summary.PairsProcessed)
	assert.Equal(t, 1, report.Summary.AutoMatched)
	assert.Equal(t, 1, report.Summary.Exceptions)
	assert.Equal(t, 1, report.Summary.TriagedCritical)
	assert.Len(t, report.Decisions, 2)
	assert.Len(t, report.Triage, 1)
}

func TestReconcileBatch_SourceErrorFailsRun(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	source := mock_usecase.NewMockTradePairSource(ctrl)
	source.EXPECT().Pairs(gomock.Any()).Return(nil, errors.New("extract not found"))

	uc, _ := newUseCase(t, mock_usecase.NewMockDecisionSink(ctrl))
	_, err := uc.ReconcileBatch(context.Background(), source)
	assert.ErrorContains(t, err, "extract not found")
}

func TestResolutionFeedbackReachesLearner(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	var triaged domain.TriageOutcome
	sink := mock_usecase.NewMockDecisionSink(ctrl)
	sink.EXPECT().WriteDecision(gomock.Any(), gomock.Any()).Return(nil)
	sink.EXPECT().WriteTriage(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, out domain.TriageOutcome) error {
			triaged = out
			return nil
		})

	uc, learner := newUseCase(t, sink)
	pair := domain.TradePair{
		TradeID: "TRX-2026-0001",
		Bank:    tradeRecord(domain.SourceBank, nil),
	}
	_, outcome, err := uc.ReconcilePair(context.Background(), pair)
	require.NoError(t, err)
	require.NotNil(t, outcome)

	uc.RecordResolution(domain.ResolutionOutcome{
		ExceptionID:    triaged.ExceptionID,
		ResolvedOnTime: true,
		RoutingCorrect: true,
	})

	assert.Equal(t, 1, learner.EpisodeCount())
}
