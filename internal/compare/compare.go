// Package compare provides the field-level comparison rules used by the
// fuzzy matcher: exact equality, date windows, notional percentage
// tolerance, and fuzzy string similarity. All functions are pure; malformed
// input degrades to an INVALID_FORMAT outcome instead of an error.
package compare

import (
	"math"
	"strings"
	"time"
	"unicode"

	"github.com/agnivade/levenshtein"
	"github.com/shopspring/decimal"
	"golang.org/x/text/unicode/norm"

	"recon-engine/internal/domain"
)

// Outcome is the result of comparing one field across the two sides.
type Outcome struct {
	Type             domain.DifferenceType
	ToleranceApplied bool
	WithinTolerance  bool
	// Magnitude is a day count, percentage, or similarity ratio depending on
	// the rule; nil when the comparison could not be quantified.
	Magnitude *float64
}

// Equal reports whether the outcome represents agreement good enough to not
// appear in the difference list.
func (o Outcome) Equal() bool {
	return o.Type == "" // sentinel: comparison found no difference
}

var equalOutcome = Outcome{}

// dateLayouts are the accepted trade/settlement date formats.
var dateLayouts = []string{time.DateOnly, time.RFC3339, "01/02/2006"}

// Exact compares two scalar values under normalization (trim, case fold).
func Exact(bank, cp string) Outcome {
	if normalizeScalar(bank) == normalizeScalar(cp) {
		return equalOutcome
	}
	return Outcome{Type: domain.DiffExactMismatch}
}

// Date compares two date strings under an absolute day window. A difference
// of at most windowDays counts as within tolerance.
func Date(bank, cp string, windowDays int) Outcome {
	bankT, okB := parseDate(bank)
	cpT, okC := parseDate(cp)
	if !okB || !okC {
		return Outcome{Type: domain.DiffInvalidFormat}
	}
	days := int(math.Abs(bankT.Sub(cpT).Hours()) / 24)
	if days == 0 {
		return equalOutcome
	}
	mag := float64(days)
	if days <= windowDays {
		return Outcome{Type: domain.DiffWithinTolerance, ToleranceApplied: true, WithinTolerance: true, Magnitude: &mag}
	}
	return Outcome{Type: domain.DiffToleranceExceeded, ToleranceApplied: true, Magnitude: &mag}
}

// Notional compares two notional amounts under a percentage tolerance. The
// difference is |cp - bank| / bank x 100, computed on exact decimals.
func Notional(bank, cp string, tolerancePct float64) Outcome {
	bankD, errB := decimal.NewFromString(cleanAmount(bank))
	cpD, errC := decimal.NewFromString(cleanAmount(cp))
	if errB != nil || errC != nil {
		return Outcome{Type: domain.DiffInvalidFormat}
	}
	if bankD.Equal(cpD) {
		return equalOutcome
	}
	if bankD.IsZero() {
		// Percentage difference is undefined against a zero base; any
		// disagreement is a hard mismatch.
		return Outcome{Type: domain.DiffExactMismatch}
	}
	pct, _ := cpD.Sub(bankD).Abs().Div(bankD.Abs()).Mul(decimal.NewFromInt(100)).Float64()
	if pct <= tolerancePct {
		return Outcome{Type: domain.DiffWithinTolerance, ToleranceApplied: true, WithinTolerance: true, Magnitude: &pct}
	}
	return Outcome{Type: domain.DiffToleranceExceeded, ToleranceApplied: true, Magnitude: &pct}
}

// Name compares two counterparty names by case-insensitive similarity.
// Known institution abbreviation pairs are forced to abbrevSim; a similarity
// of at least accept counts as a fuzzy match.
func Name(bank, cp string, accept, abbrevSim float64) Outcome {
	a := normalizeName(bank)
	b := normalizeName(cp)
	if a == "" || b == "" {
		return Outcome{Type: domain.DiffInvalidFormat}
	}
	if a == b {
		return equalOutcome
	}
	sim := Similarity(a, b)
	if isAbbreviationPair(a, b) {
		sim = abbrevSim
	}
	if sim >= accept {
		return Outcome{Type: domain.DiffFuzzyMatch, ToleranceApplied: true, WithinTolerance: true, Magnitude: &sim}
	}
	return Outcome{Type: domain.DiffFuzzyMismatch, ToleranceApplied: true, Magnitude: &sim}
}

// Similarity returns a character-sequence similarity ratio in [0,1] based on
// edit distance over the longer input.
func Similarity(a, b string) float64 {
	if a == b {
		return 1.0
	}
	longest := len([]rune(a))
	if l := len([]rune(b)); l > longest {
		longest = l
	}
	if longest == 0 {
		return 1.0
	}
	dist := levenshtein.ComputeDistance(a, b)
	return 1.0 - float64(dist)/float64(longest)
}

// institutionAbbreviations maps common short names to the full institution
// name, both already in normalized form.
var institutionAbbreviations = map[string]string{
	"gs":       "goldman sachs",
	"ms":       "morgan stanley",
	"jpm":      "jpmorgan chase",
	"jp":       "jpmorgan",
	"db":       "deutsche bank",
	"cs":       "credit suisse",
	"ubs":      "union bank of switzerland",
	"bofa":     "bank of america",
	"baml":     "bank of america merrill lynch",
	"citi":     "citibank",
	"barclays": "barclays bank plc",
	"hsbc":     "hongkong and shanghai banking corporation",
	"bnp":      "bnp paribas",
	"socgen":   "societe generale",
	"nomura":   "nomura holdings",
}

func isAbbreviationPair(a, b string) bool {
	if full, ok := institutionAbbreviations[a]; ok && strings.HasPrefix(b, full) {
		return true
	}
	if full, ok := institutionAbbreviations[b]; ok && strings.HasPrefix(a, full) {
		return true
	}
	return false
}

// parseDate reduces the input to its civil date in the timestamp's own
// offset; a UTC truncation would shift offset timestamps across midnight.
func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			y, m, d := t.Date()
			return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), true
		}
	}
	return time.Time{}, false
}

func cleanAmount(s string) string {
	s = strings.TrimSpace(s)
	return strings.ReplaceAll(s, ",", "")
}

func normalizeScalar(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// normalizeName lowercases, strips diacritics-compatible forms via NFKC,
// and collapses internal whitespace.
func normalizeName(s string) string {
	s = norm.NFKC.String(s)
	s = strings.ToLower(strings.TrimSpace(s))
	var b strings.Builder
	lastSpace := false
	for _, r := range s {
		if unicode.IsSpace(r) {
			if !lastSpace && b.Len() > 0 {
				b.WriteRune(' ')
			}
			lastSpace = true
			continue
		}
		lastSpace = false
		b.WriteRune(r)
	}
	return strings.TrimSpace(b.String())
}
