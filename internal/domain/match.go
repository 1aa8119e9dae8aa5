package domain

// DifferenceType tags how a field comparison came out.
type DifferenceType string

const (
	DiffExactMismatch     DifferenceType = "EXACT_MISMATCH"
	DiffToleranceExceeded DifferenceType = "TOLERANCE_EXCEEDED"
	DiffWithinTolerance   DifferenceType = "WITHIN_TOLERANCE"
	DiffFuzzyMatch        DifferenceType = "FUZZY_MATCH"
	DiffFuzzyMismatch     DifferenceType = "FUZZY_MISMATCH"
	DiffInvalidFormat     DifferenceType = "INVALID_FORMAT"
)

// FieldDifference records the outcome of comparing one field across the two
// sides. Magnitude is a percentage for notional, a day count for dates, and a
// similarity ratio for counterparty names; nil when not applicable.
type FieldDifference struct {
	Field             string         `json:"field"`
	BankValue         string         `json:"bank_value"`
	CounterpartyValue string         `json:"counterparty_value"`
	Type              DifferenceType `json:"type"`
	ToleranceApplied  bool           `json:"tolerance_applied"`
	WithinTolerance   bool           `json:"within_tolerance"`
	Magnitude         *float64       `json:"magnitude,omitempty"`
}

// MatchResult is the structured output of the fuzzy matcher. Summary fields
// are nil when the corresponding comparison could not be made (a side missing
// or the field absent); the scorer treats those as neutral.
type MatchResult struct {
	IdentifierMatch        *bool             `json:"identifier_match,omitempty"`
	DayCountDiff           *int              `json:"day_count_diff,omitempty"`
	NotionalDiffPct        *float64          `json:"notional_diff_pct,omitempty"`
	CounterpartySimilarity *float64          `json:"counterparty_similarity,omitempty"`
	CurrencyMatch          *bool             `json:"currency_match,omitempty"`
	Differences            []FieldDifference `json:"differences"`
}

// MatchClassification is the business category of a reconciliation outcome.
type MatchClassification string

const (
	ClassMatched        MatchClassification = "MATCHED"
	ClassProbableMatch  MatchClassification = "PROBABLE_MATCH"
	ClassReviewRequired MatchClassification = "REVIEW_REQUIRED"
	ClassBreak          MatchClassification = "BREAK"
	ClassDataError      MatchClassification = "DATA_ERROR"
)

// WorkflowDecision is the processing action implied by a classification.
type WorkflowDecision string

const (
	DecisionAutoMatch WorkflowDecision = "AUTO_MATCH"
	DecisionEscalate  WorkflowDecision = "ESCALATE"
	DecisionException WorkflowDecision = "EXCEPTION"
)

// MatchingDecision is the final, immutable verdict for one reconciliation
// attempt. A re-run produces a new decision rather than mutating this one.
type MatchingDecision struct {
	TradeID        string              `json:"trade_id"`
	Classification MatchClassification `json:"classification"`
	MatchScore     float64             `json:"match_score"`
	Decision       WorkflowDecision    `json:"decision"`
	ReasonCodes    []ReasonCode        `json:"reason_codes"`
	Confidence     float64             `json:"confidence"`
	RequiresHITL   bool                `json:"requires_hitl"`
}
