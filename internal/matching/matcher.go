// Package matching implements the reconciliation core: the fuzzy matcher
// over the fixed field set, the weighted match scorer, and the threshold
// classifier that turns a score into a workflow decision with reason codes.
package matching

import (
	"recon-engine/internal/compare"
	"recon-engine/internal/config"
	"recon-engine/internal/domain"
)

// fieldRule names the comparison rule applied to one field.
type fieldRule int

const (
	ruleIdentifier fieldRule = iota
	ruleDate
	ruleNotional
	ruleName
	ruleCurrency
	ruleScalar
)

// comparedField is one entry of the fixed field set the matcher walks.
type comparedField struct {
	name string
	rule fieldRule
}

// comparedFields is the fixed, ordered field set. Fields absent on either
// side are skipped, not scored as mismatches.
var comparedFields = []comparedField{
	{domain.FieldTradeID, ruleIdentifier},
	{domain.FieldTradeDate, ruleDate},
	{domain.FieldNotional, ruleNotional},
	{domain.FieldCounterparty, ruleName},
	{domain.FieldCurrency, ruleCurrency},
	{domain.FieldProductType, ruleScalar},
	{domain.FieldSettlementDate, ruleScalar},
	{domain.FieldBuySell, ruleScalar},
	{domain.FieldFixedRate, ruleScalar},
	{domain.FieldFloatingRateIndex, ruleScalar},
}

// Matcher runs the field comparators over two trade records.
type Matcher struct {
	cfg config.Matching
}

// NewMatcher creates a matcher with the given tolerance windows.
func NewMatcher(cfg config.Matching) *Matcher {
	return &Matcher{cfg: cfg}
}

// Match compares the two sides field by field and collates the differences.
// Either side may be nil; the result is then empty and the classifier's
// missing-record check takes over.
func (m *Matcher) Match(bank, cp *domain.TradeRecord) domain.MatchResult {
	res := domain.MatchResult{Differences: make([]domain.FieldDifference, 0)}
	if bank == nil || cp == nil {
		return res
	}

	for _, f := range comparedFields {
		bankVal, okB := bank.Field(f.name)
		cpVal, okC := cp.Field(f.name)
		if !okB || !okC {
			continue
		}

		var out compare.Outcome
		switch f.rule {
		case ruleIdentifier:
			out = compare.Exact(bankVal, cpVal)
			match := out.Equal()
			res.IdentifierMatch = &match
		case ruleDate:
			out = compare.Date(bankVal, cpVal, m.cfg.DateWindowDays)
			if out.Equal() {
				zero := 0
				res.DayCountDiff = &zero
			} else if out.Magnitude != nil {
				days := int(*out.Magnitude)
				res.DayCountDiff = &days
			}
		case ruleNotional:
			out = compare.Notional(bankVal, cpVal, m.cfg.NotionalTolerancePct)
			if out.Equal() {
				zero := 0.0
				res.NotionalDiffPct = &zero
			} else if out.Magnitude != nil {
				res.NotionalDiffPct = out.Magnitude
			}
		case ruleName:
			out = compare.Name(bankVal, cpVal, m.cfg.NameAcceptThreshold, m.cfg.AbbreviationSim)
			if out.Equal() {
				one := 1.0
				res.CounterpartySimilarity = &one
			} else if out.Magnitude != nil {
				res.CounterpartySimilarity = out.Magnitude
			}
		case ruleCurrency:
			out = compare.Exact(bankVal, cpVal)
			match := out.Equal()
			res.CurrencyMatch = &match
		default:
			out = compare.Exact(bankVal, cpVal)
		}

		if out.Equal() {
			continue
		}
		res.Differences = append(res.Differences, domain.FieldDifference{
			Field:             f.name,
			BankValue:         bankVal,
			CounterpartyValue: cpVal,
			Type:              out.Type,
			ToleranceApplied:  out.ToleranceApplied,
			WithinTolerance:   out.WithinTolerance,
			Magnitude:         out.Magnitude,
		})
	}
	return res
}
