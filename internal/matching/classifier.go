package matching

import (
	"recon-engine/internal/config"
	"recon-engine/internal/domain"
)

// Classifier applies score thresholds and structural pre-checks to produce a
// complete MatchingDecision.
type Classifier struct {
	thresholds config.Thresholds
}

// NewClassifier creates a classifier with the given score bands.
func NewClassifier(thresholds config.Thresholds) *Classifier {
	return &Classifier{thresholds: thresholds}
}

// Classify turns a score and comparison result into a decision. Structural
// defects short-circuit: a missing record or an identifier mismatch is a
// DATA_ERROR exception regardless of score.
func (c *Classifier) Classify(score float64, res domain.MatchResult, bank, cp *domain.TradeRecord) domain.MatchingDecision {
	tradeID := pairTradeID(bank, cp)

	if bank == nil || cp == nil {
		codes := make([]domain.ReasonCode, 0, 2)
		if bank == nil {
			codes = append(codes, domain.ReasonMissingBankTrade)
		}
		if cp == nil {
			codes = append(codes, domain.ReasonMissingCounterpartyTrade)
		}
		return decision(tradeID, domain.ClassDataError, 0.0, domain.DecisionException, codes)
	}

	if res.IdentifierMatch != nil && !*res.IdentifierMatch {
		return decision(tradeID, domain.ClassDataError, score, domain.DecisionException,
			[]domain.ReasonCode{domain.ReasonTradeIDMismatch})
	}

	codes := reasonCodesFromDifferences(res.Differences)
	switch {
	case score >= c.thresholds.AutoMatch:
		return decision(tradeID, domain.ClassMatched, score, domain.DecisionAutoMatch, codes)
	case score >= c.thresholds.Escalate:
		return decision(tradeID, domain.ClassProbableMatch, score, domain.DecisionEscalate, codes)
	case score >= c.thresholds.Review:
		return decision(tradeID, domain.ClassReviewRequired, score, domain.DecisionException, codes)
	default:
		return decision(tradeID, domain.ClassBreak, score, domain.DecisionException, codes)
	}
}

// Decide is the one-call constructor: it scores the result and classifies it
// in a single step.
func (c *Classifier) Decide(scorer *Scorer, res domain.MatchResult, bank, cp *domain.TradeRecord) domain.MatchingDecision {
	return c.Classify(scorer.Score(res), res, bank, cp)
}

func decision(tradeID string, class domain.MatchClassification, score float64, wf domain.WorkflowDecision, codes []domain.ReasonCode) domain.MatchingDecision {
	return domain.MatchingDecision{
		TradeID:        tradeID,
		Classification: class,
		MatchScore:     score,
		Decision:       wf,
		ReasonCodes:    codes,
		Confidence:     score,
		RequiresHITL:   wf == domain.DecisionEscalate,
	}
}

// reasonCodesFromDifferences derives one code per mismatched or
// tolerance-consuming field, de-duplicated with order preserved.
func reasonCodesFromDifferences(diffs []domain.FieldDifference) []domain.ReasonCode {
	codes := make([]domain.ReasonCode, 0, len(diffs))
	seen := make(map[domain.ReasonCode]bool, len(diffs))
	for _, d := range diffs {
		code := reasonCodeFor(d)
		if code == "" || seen[code] {
			continue
		}
		seen[code] = true
		codes = append(codes, code)
	}
	return codes
}

func reasonCodeFor(d domain.FieldDifference) domain.ReasonCode {
	if d.Type == domain.DiffInvalidFormat {
		return domain.ReasonInvalidFieldFormat
	}
	switch d.Field {
	case domain.FieldTradeID:
		return domain.ReasonTradeIDMismatch
	case domain.FieldTradeDate:
		if d.WithinTolerance {
			return domain.ReasonDateWithinTolerance
		}
		return domain.ReasonDateMismatch
	case domain.FieldNotional:
		if d.WithinTolerance {
			return domain.ReasonNotionalWithinTolerance
		}
		return domain.ReasonNotionalMismatch
	case domain.FieldCounterparty:
		if d.WithinTolerance {
			return domain.ReasonCounterpartyVariant
		}
		return domain.ReasonCounterpartyMismatch
	case domain.FieldCurrency:
		return domain.ReasonCurrencyMismatch
	case domain.FieldProductType:
		return domain.ReasonProductTypeMismatch
	case domain.FieldSettlementDate:
		return domain.ReasonSettlementDateMismatch
	case domain.FieldBuySell:
		return domain.ReasonBuySellMismatch
	case domain.FieldFixedRate:
		return domain.ReasonRateMismatch
	case domain.FieldFloatingRateIndex:
		return domain.ReasonFloatingIndexMismatch
	default:
		return ""
	}
}

func pairTradeID(bank, cp *domain.TradeRecord) string {
	if id := bank.TradeID(); id != "" {
		return id
	}
	if id := cp.TradeID(); id != "" {
		return id
	}
	return "UNKNOWN"
}
