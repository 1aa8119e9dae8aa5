// Package taxonomy holds the static reason-code registry: every reason code
// the engine can emit, its category, its base severity weight, and a human
// description. The registry is immutable after construction and is injected
// into the components that consult it.
package taxonomy

import "recon-engine/internal/domain"

// Category groups reason codes by origin.
type Category string

const (
	CategoryMatching      Category = "MATCHING"
	CategoryDataError     Category = "DATA_ERROR"
	CategoryProcessing    Category = "PROCESSING"
	CategorySystem        Category = "SYSTEM"
	CategoryBusinessLogic Category = "BUSINESS_LOGIC"
)

// Entry describes one reason code.
type Entry struct {
	Category    Category
	BaseWeight  float64
	Description string
}

// Registry is the immutable code lookup structure.
type Registry struct {
	entries        map[domain.ReasonCode]Entry
	categories     []Category
	autoResolvable map[domain.ReasonCode]bool
	minor          map[domain.ReasonCode]bool
	auth           map[domain.ReasonCode]bool
}

// DefaultBaseWeight is assumed for codes absent from the registry.
const DefaultBaseWeight = 0.5

// New builds the standard registry.
func New() *Registry {
	entries := map[domain.ReasonCode]Entry{
		domain.ReasonMissingBankTrade:         {CategoryDataError, 0.75, "bank-side trade record is missing"},
		domain.ReasonMissingCounterpartyTrade: {CategoryDataError, 0.75, "counterparty-side trade record is missing"},
		domain.ReasonTradeIDMismatch:          {CategoryDataError, 0.80, "trade identifiers disagree between sides"},
		domain.ReasonInvalidFieldFormat:       {CategoryDataError, 0.55, "a field value could not be parsed"},

		domain.ReasonDateMismatch:         {CategoryMatching, 0.50, "trade dates differ beyond the day window"},
		domain.ReasonNotionalMismatch:     {CategoryMatching, 0.70, "notional amounts differ beyond tolerance"},
		domain.ReasonCurrencyMismatch:     {CategoryMatching, 0.75, "currencies disagree"},
		domain.ReasonCounterpartyMismatch: {CategoryMatching, 0.45, "counterparty names are dissimilar"},

		// Tolerance-consuming codes classify as BUSINESS_LOGIC so near-miss
		// exceptions can reach AUTO_RESOLVABLE.
		domain.ReasonDateWithinTolerance:     {CategoryBusinessLogic, 0.20, "trade dates differ within the day window"},
		domain.ReasonNotionalWithinTolerance: {CategoryBusinessLogic, 0.25, "notional amounts differ within tolerance"},
		domain.ReasonCounterpartyVariant:     {CategoryBusinessLogic, 0.20, "counterparty names are close variants"},
		domain.ReasonProductTypeMismatch:     {CategoryMatching, 0.55, "product types disagree"},
		domain.ReasonSettlementDateMismatch:  {CategoryMatching, 0.40, "settlement dates disagree"},
		domain.ReasonBuySellMismatch:         {CategoryMatching, 0.65, "buy/sell directions disagree"},
		domain.ReasonRateMismatch:            {CategoryMatching, 0.55, "fixed rates disagree"},
		domain.ReasonFloatingIndexMismatch:   {CategoryMatching, 0.50, "floating rate indices disagree"},

		domain.ReasonExtractionFailed:    {CategoryProcessing, 0.60, "upstream field extraction failed"},
		domain.ReasonStorageWriteFailed:  {CategorySystem, 0.65, "durable store rejected a write"},
		domain.ReasonQueueDeliveryFailed: {CategorySystem, 0.55, "queue delivery failed"},

		domain.ReasonLowConfidenceExtraction: {CategoryBusinessLogic, 0.30, "extraction confidence below threshold"},
		domain.ReasonRateLimitExceeded:       {CategoryBusinessLogic, 0.25, "upstream rate limit hit"},
		domain.ReasonTimeout:                 {CategoryBusinessLogic, 0.35, "upstream call timed out"},
		domain.ReasonNetworkError:            {CategoryBusinessLogic, 0.35, "transient network failure"},

		domain.ReasonAuthFailure:         {CategorySystem, 0.85, "authentication failure"},
		domain.ReasonAuthorizationDenied: {CategorySystem, 0.85, "authorization denied"},
	}

	return &Registry{
		entries: entries,
		// Declaration order doubles as the dominant-category tie-break order.
		categories: []Category{
			CategoryMatching,
			CategoryDataError,
			CategoryProcessing,
			CategorySystem,
			CategoryBusinessLogic,
		},
		autoResolvable: map[domain.ReasonCode]bool{
			domain.ReasonRateLimitExceeded:       true,
			domain.ReasonTimeout:                 true,
			domain.ReasonNetworkError:            true,
			domain.ReasonLowConfidenceExtraction: true,
		},
		minor: map[domain.ReasonCode]bool{
			domain.ReasonDateWithinTolerance:     true,
			domain.ReasonNotionalWithinTolerance: true,
			domain.ReasonCounterpartyVariant:     true,
		},
		auth: map[domain.ReasonCode]bool{
			domain.ReasonAuthFailure:         true,
			domain.ReasonAuthorizationDenied: true,
		},
	}
}

// Lookup returns the entry for a code. Unknown codes fall back to an
// operational MATCHING entry with the default weight so the engine stays
// total over inputs produced by newer upstream components.
func (r *Registry) Lookup(code domain.ReasonCode) Entry {
	if e, ok := r.entries[code]; ok {
		return e
	}
	return Entry{Category: CategoryMatching, BaseWeight: DefaultBaseWeight, Description: "unrecognized reason code"}
}

// Known reports whether the code is registered.
func (r *Registry) Known(code domain.ReasonCode) bool {
	_, ok := r.entries[code]
	return ok
}

// Categories returns the fixed category iteration order.
func (r *Registry) Categories() []Category {
	out := make([]Category, len(r.categories))
	copy(out, r.categories)
	return out
}

// AutoResolvable reports whether every code in the list belongs to the fixed
// auto-resolvable set. An empty list is not auto-resolvable.
func (r *Registry) AutoResolvable(codes []domain.ReasonCode) bool {
	if len(codes) == 0 {
		return false
	}
	for _, c := range codes {
		if !r.autoResolvable[c] {
			return false
		}
	}
	return true
}

// AllMinor reports whether every code in the list is a minor mismatch code.
// An empty list is not considered minor.
func (r *Registry) AllMinor(codes []domain.ReasonCode) bool {
	if len(codes) == 0 {
		return false
	}
	for _, c := range codes {
		if !r.minor[c] {
			return false
		}
	}
	return true
}

// HasAuthCode reports whether any code is an authentication or authorization
// failure.
func (r *Registry) HasAuthCode(codes []domain.ReasonCode) bool {
	for _, c := range codes {
		if r.auth[c] {
			return true
		}
	}
	return false
}

// DominantCategory returns the category holding the most codes from the
// list. Ties break in favor of the category appearing first in the fixed
// category order. The boolean is false when the list is empty.
func (r *Registry) DominantCategory(codes []domain.ReasonCode) (Category, bool) {
	if len(codes) == 0 {
		return "", false
	}
	counts := make(map[Category]int, len(r.categories))
	for _, c := range codes {
		counts[r.Lookup(c).Category]++
	}
	var best Category
	bestCount := 0
	for _, cat := range r.categories {
		if counts[cat] > bestCount {
			best = cat
			bestCount = counts[cat]
		}
	}
	return best, true
}
