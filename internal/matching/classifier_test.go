package matching_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recon-engine/internal/config"
	"recon-engine/internal/domain"
	"recon-engine/internal/matching"
)

func newClassifier() *matching.Classifier {
	return matching.NewClassifier(config.Default().Thresholds)
}

func TestClassifier_ScoreBands(t *testing.T) {
	tests := []struct {
		score        float64
		wantClass    domain.MatchClassification
		wantDecision domain.WorkflowDecision
		wantHITL     bool
	}{
		{1.00, domain.ClassMatched, domain.DecisionAutoMatch, false},
		{0.85, domain.ClassMatched, domain.DecisionAutoMatch, false},
		{0.84, domain.ClassProbableMatch, domain.DecisionEscalate, true},
		{0.70, domain.ClassProbableMatch, domain.DecisionEscalate, true},
		{0.69, domain.ClassReviewRequired, domain.DecisionException, false},
		{0.50, domain.ClassReviewRequired, domain.DecisionException, false},
		{0.49, domain.ClassBreak, domain.DecisionException, false},
		{0.00, domain.ClassBreak, domain.DecisionException, false},
	}
	for _, tt := range tests {
		decision := newClassifier().Classify(tt.score, domain.MatchResult{}, bankRecord(nil), cpRecord(nil))
		assert.Equal(t, tt.wantClass, decision.Classification, "score=%.2f", tt.score)
		assert.Equal(t, tt.wantDecision, decision.Decision, "score=%.2f", tt.score)
		assert.Equal(t, tt.wantHITL, decision.RequiresHITL, "score=%.2f", tt.score)
		assert.Equal(t, tt.score, decision.MatchScore)
		assert.Equal(t, "TRX-2026-0001", decision.TradeID)
	}
}

func TestClassifier_MissingCounterpartyRecord(t *testing.T) {
	decision := newClassifier().Classify(0.95, domain.MatchResult{}, bankRecord(nil), nil)

	assert.Equal(t, domain.ClassDataError, decision.Classification)
	assert.Equal(t, domain.DecisionException, decision.Decision)
	assert.Contains(t, decision.ReasonCodes, domain.ReasonMissingCounterpartyTrade)
	assert.False(t, decision.RequiresHITL)
	assert.Equal(t, 0.0, decision.MatchScore)
}

func TestClassifier_MissingBankRecord(t *testing.T) {
	decision := newClassifier().Classify(0.95, domain.MatchResult{}, nil, cpRecord(nil))

	assert.Equal(t, domain.ClassDataError, decision.Classification)
	assert.Contains(t, decision.ReasonCodes, domain.ReasonMissingBankTrade)
}

func TestClassifier_IdentifierMismatchShortCircuits(t *testing.T) {
	noMatch := false
	res := domain.MatchResult{IdentifierMatch: &noMatch}

	decision := newClassifier().Classify(0.95, res, bankRecord(nil),
		cpRecord(map[string]string{domain.FieldTradeID: "TRX-2026-9999"}))

	assert.Equal(t, domain.ClassDataError, decision.Classification)
	assert.Equal(t, domain.DecisionException, decision.Decision)
	assert.Equal(t, []domain.ReasonCode{domain.ReasonTradeIDMismatch}, decision.ReasonCodes)
}

func TestClassifier_ReasonCodesFromDifferences(t *testing.T) {
	res := domain.MatchResult{Differences: []domain.FieldDifference{
		{Field: domain.FieldNotional, Type: domain.DiffWithinTolerance, WithinTolerance: true},
		{Field: domain.FieldCurrency, Type: domain.DiffExactMismatch},
		{Field: domain.FieldTradeDate, Type: domain.DiffToleranceExceeded},
		// Duplicate field entries must not duplicate codes.
		{Field: domain.FieldCurrency, Type: domain.DiffExactMismatch},
		{Field: domain.FieldBuySell, Type: domain.DiffInvalidFormat},
	}}

	decision := newClassifier().Classify(0.40, res, bankRecord(nil), cpRecord(nil))

	assert.Equal(t, []domain.ReasonCode{
		domain.ReasonNotionalWithinTolerance,
		domain.ReasonCurrencyMismatch,
		domain.ReasonDateMismatch,
		domain.ReasonInvalidFieldFormat,
	}, decision.ReasonCodes)
}

func TestClassifier_DecideEndToEnd(t *testing.T) {
	cfg := config.Default()
	m := matching.NewMatcher(cfg.Matching)
	scorer := matching.NewScorer(cfg.Weights, cfg.Matching)
	classifier := matching.NewClassifier(cfg.Thresholds)

	bank := bankRecord(nil)
	cp := cpRecord(nil)
	decision := classifier.Decide(scorer, m.Match(bank, cp), bank, cp)

	require.Equal(t, domain.ClassMatched, decision.Classification)
	assert.Equal(t, 1.0, decision.MatchScore)
	assert.Equal(t, decision.MatchScore, decision.Confidence)
	assert.Empty(t, decision.ReasonCodes)
}
