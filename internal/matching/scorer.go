package matching

import (
	"math"

	"recon-engine/internal/config"
	"recon-engine/internal/domain"
)

// neutralComponent is the contribution of a field whose comparison could not
// be made. Absence is penalized less than disagreement.
const neutralComponent = 0.5

// inToleranceNotionalFloor keeps a notional difference inside the tolerance
// window auto-matchable: with every other field agreeing, a difference at
// the tolerance boundary scores exactly at the auto-match threshold.
const inToleranceNotionalFloor = 0.40

// notionalKnot is one breakpoint of the notional decay curve.
type notionalKnot struct {
	pct   float64
	score float64
}

// notionalCurve decays linearly between knots and is zero beyond the last.
var notionalCurve = []notionalKnot{
	{0.0, 1.0},
	{0.01, 0.95},
	{0.10, 0.80},
	{1.0, 0.50},
	{5.0, 0.0},
}

// Scorer converts a MatchResult into a single weighted confidence score.
type Scorer struct {
	weights  config.Weights
	matching config.Matching
}

// NewScorer creates a scorer with the given weights and tolerance windows.
func NewScorer(weights config.Weights, matching config.Matching) *Scorer {
	return &Scorer{weights: weights, matching: matching}
}

// Score returns the weighted match confidence in [0,1], rounded to two
// decimals.
func (s *Scorer) Score(res domain.MatchResult) float64 {
	score := s.weights.Identifier*boolComponent(res.IdentifierMatch) +
		s.weights.TradeDate*s.dateComponent(res.DayCountDiff) +
		s.weights.Notional*s.notionalComponent(res.NotionalDiffPct) +
		s.weights.Counterparty*similarityComponent(res.CounterpartySimilarity) +
		s.weights.Currency*boolComponent(res.CurrencyMatch)
	return round2(score)
}

func boolComponent(match *bool) float64 {
	if match == nil {
		return neutralComponent
	}
	if *match {
		return 1.0
	}
	return 0.0
}

func similarityComponent(sim *float64) float64 {
	if sim == nil {
		return neutralComponent
	}
	return clamp01(*sim)
}

// dateComponent scores a day-count difference: 1.0 at zero days, 0.9 at one,
// 0.7 at two, then linear decay to zero at seven or more.
func (s *Scorer) dateComponent(days *int) float64 {
	if days == nil {
		return neutralComponent
	}
	switch d := *days; {
	case d <= 0:
		return 1.0
	case d == 1:
		return 0.9
	case d == 2:
		return 0.7
	case d >= 7:
		return 0.0
	default:
		return 0.7 * float64(7-d) / 5.0
	}
}

// notionalComponent scores a percentage difference along the decay curve,
// floored while the difference is still within the matching tolerance.
func (s *Scorer) notionalComponent(pct *float64) float64 {
	if pct == nil {
		return neutralComponent
	}
	v := curveValue(*pct)
	if *pct <= s.matching.NotionalTolerancePct && v < inToleranceNotionalFloor {
		v = inToleranceNotionalFloor
	}
	return v
}

func curveValue(pct float64) float64 {
	if pct <= 0 {
		return 1.0
	}
	last := notionalCurve[len(notionalCurve)-1]
	if pct >= last.pct {
		return last.score
	}
	for i := 1; i < len(notionalCurve); i++ {
		lo, hi := notionalCurve[i-1], notionalCurve[i]
		if pct <= hi.pct {
			frac := (pct - lo.pct) / (hi.pct - lo.pct)
			return lo.score + frac*(hi.score-lo.score)
		}
	}
	return last.score
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
