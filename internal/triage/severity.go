package triage

import (
	"math"

	"recon-engine/internal/config"
	"recon-engine/internal/domain"
	"recon-engine/internal/taxonomy"
)

// AdjustmentSource supplies the learned severity adjustment for an
// exception. A nil source means no adjustment.
type AdjustmentSource interface {
	SeverityAdjustment(exc domain.ExceptionCase) float64
}

// SeverityBreakdown exposes the base score and every incremental adjustment
// separately for audit purposes.
type SeverityBreakdown struct {
	Base              float64             `json:"base"`
	AfterMatchPenalty float64             `json:"after_match_penalty"`
	AfterRetryPenalty float64             `json:"after_retry_penalty"`
	LearnedAdjustment float64             `json:"learned_adjustment"`
	Score             float64             `json:"score"`
	Tier              domain.SeverityTier `json:"tier"`
}

// SeverityScorer combines reason-code weights, match-score and retry
// penalties, and the learned adjustment into one severity score and tier.
type SeverityScorer struct {
	tax    *taxonomy.Registry
	adjust AdjustmentSource
	cfg    config.Triage
}

// NewSeverityScorer creates a scorer. adjust may be nil.
func NewSeverityScorer(tax *taxonomy.Registry, adjust AdjustmentSource, cfg config.Triage) *SeverityScorer {
	return &SeverityScorer{tax: tax, adjust: adjust, cfg: cfg}
}

// Score computes the severity breakdown for an exception. The final score is
// clamped to [0,1] and rounded to two decimals; the tier derives from the
// final score in one place (TierForScore).
func (s *SeverityScorer) Score(exc domain.ExceptionCase) SeverityBreakdown {
	base := taxonomy.DefaultBaseWeight
	if len(exc.ReasonCodes) > 0 {
		base = 0.0
		for _, code := range exc.ReasonCodes {
			if w := s.tax.Lookup(code).BaseWeight; w > base {
				base = w
			}
		}
	}

	afterMatch := base
	if exc.MatchScore != nil {
		afterMatch = base * (1 + (1-*exc.MatchScore)*s.cfg.MatchScorePenaltyFactor)
	}

	retryPenalty := math.Min(float64(exc.RetryCount)*s.cfg.RetryPenaltyStep, s.cfg.RetryPenaltyCap)
	afterRetry := afterMatch * (1 + retryPenalty)

	var learned float64
	if s.adjust != nil {
		learned = s.adjust.SeverityAdjustment(exc)
	}

	score := round2(clamp01(afterRetry + learned))
	return SeverityBreakdown{
		Base:              base,
		AfterMatchPenalty: afterMatch,
		AfterRetryPenalty: afterRetry,
		LearnedAdjustment: learned,
		Score:             score,
		Tier:              TierForScore(score),
	}
}

// TierForScore maps a severity score onto its tier. This is the single
// source of truth for the band table.
func TierForScore(score float64) domain.SeverityTier {
	switch {
	case score < 0.3:
		return domain.SeverityLow
	case score < 0.6:
		return domain.SeverityMedium
	case score < 0.8:
		return domain.SeverityHigh
	default:
		return domain.SeverityCritical
	}
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
