// Package triage turns exceptions into worked cases: it classifies them,
// scores their severity, and produces a routing decision with priority and
// SLA. The adjustment learner is consulted only where the business rules
// leave the route undetermined.
package triage

import (
	"recon-engine/internal/domain"
	"recon-engine/internal/taxonomy"
)

// ExceptionClassifier maps an exception onto a triage category.
type ExceptionClassifier struct {
	tax *taxonomy.Registry
}

// NewExceptionClassifier creates a classifier over the given taxonomy.
func NewExceptionClassifier(tax *taxonomy.Registry) *ExceptionClassifier {
	return &ExceptionClassifier{tax: tax}
}

// Classify determines the triage category. Exceptions carrying reason codes
// classify by their dominant taxonomy category; the rest classify by
// exception kind.
func (c *ExceptionClassifier) Classify(exc domain.ExceptionCase) domain.TriageClassification {
	dominant, ok := c.tax.DominantCategory(exc.ReasonCodes)
	if !ok {
		return classifyByKind(exc.Kind)
	}

	switch dominant {
	case taxonomy.CategoryMatching:
		return domain.TriageOperationalIssue
	case taxonomy.CategoryDataError:
		return domain.TriageDataQualityIssue
	case taxonomy.CategoryProcessing, taxonomy.CategorySystem:
		if c.tax.HasAuthCode(exc.ReasonCodes) {
			return domain.TriageComplianceIssue
		}
		return domain.TriageSystemIssue
	case taxonomy.CategoryBusinessLogic:
		if c.autoResolvable(exc) {
			return domain.TriageAutoResolvable
		}
		return domain.TriageOperationalIssue
	default:
		return domain.TriageOperationalIssue
	}
}

// autoResolvable holds when every code is from the fixed auto-resolvable
// set, or when the match landed close enough (score >= 0.80, only minor
// mismatch codes, fewer than three retries).
func (c *ExceptionClassifier) autoResolvable(exc domain.ExceptionCase) bool {
	if c.tax.AutoResolvable(exc.ReasonCodes) {
		return true
	}
	return exc.MatchScore != nil && *exc.MatchScore >= 0.80 &&
		c.tax.AllMinor(exc.ReasonCodes) && exc.RetryCount < 3
}

// classifyByKind is the static fallback table for exceptions without reason
// codes. The default arm keeps the switch total over future kinds.
func classifyByKind(kind domain.ExceptionKind) domain.TriageClassification {
	switch kind {
	case domain.ExceptionMatching:
		return domain.TriageOperationalIssue
	case domain.ExceptionExtraction, domain.ExceptionValidation:
		return domain.TriageDataQualityIssue
	case domain.ExceptionProcessing, domain.ExceptionSystem:
		return domain.TriageSystemIssue
	case domain.ExceptionCompliance:
		return domain.TriageComplianceIssue
	default:
		return domain.TriageOperationalIssue
	}
}
