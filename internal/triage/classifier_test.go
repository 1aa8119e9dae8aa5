package triage

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"recon-engine/internal/domain"
	"recon-engine/internal/taxonomy"
)

func excWith(kind domain.ExceptionKind, codes []domain.ReasonCode, score *float64, retries int) domain.ExceptionCase {
	return domain.ExceptionCase{
		ID:          "EXC-001",
		Kind:        kind,
		Component:   "reconciliation-engine",
		ReasonCodes: codes,
		MatchScore:  score,
		RetryCount:  retries,
	}
}

func scorePtr(v float64) *float64 { return &v }

func TestExceptionClassifier_ByDominantCategory(t *testing.T) {
	c := NewExceptionClassifier(taxonomy.New())

	tests := []struct {
		name  string
		codes []domain.ReasonCode
		score *float64
		retry int
		want  domain.TriageClassification
	}{
		{
			name:  "matching codes are operational",
			codes: []domain.ReasonCode{domain.ReasonCurrencyMismatch, domain.ReasonNotionalMismatch},
			want:  domain.TriageOperationalIssue,
		},
		{
			name:  "data error codes are data quality",
			codes: []domain.ReasonCode{domain.ReasonMissingBankTrade},
			want:  domain.TriageDataQualityIssue,
		},
		{
			name:  "system codes are system issues",
			codes: []domain.ReasonCode{domain.ReasonQueueDeliveryFailed},
			want:  domain.TriageSystemIssue,
		},
		{
			name:  "auth codes force compliance",
			codes: []domain.ReasonCode{domain.ReasonAuthFailure},
			want:  domain.TriageComplianceIssue,
		},
		{
			name:  "transient codes are auto resolvable",
			codes: []domain.ReasonCode{domain.ReasonTimeout, domain.ReasonNetworkError},
			want:  domain.TriageAutoResolvable,
		},
		{
			name:  "near miss with minor codes is auto resolvable",
			codes: []domain.ReasonCode{domain.ReasonNotionalWithinTolerance, domain.ReasonDateWithinTolerance},
			score: scorePtr(0.82),
			want:  domain.TriageAutoResolvable,
		},
		{
			name:  "near miss with low score stays operational",
			codes: []domain.ReasonCode{domain.ReasonNotionalWithinTolerance},
			score: scorePtr(0.75),
			want:  domain.TriageOperationalIssue,
		},
		{
			name:  "near miss with too many retries stays operational",
			codes: []domain.ReasonCode{domain.ReasonNotionalWithinTolerance},
			score: scorePtr(0.82),
			retry: 3,
			want:  domain.TriageOperationalIssue,
		},
		{
			name:  "matching-dominant mix stays operational",
			codes: []domain.ReasonCode{domain.ReasonCurrencyMismatch, domain.ReasonNotionalMismatch, domain.ReasonTimeout},
			want:  domain.TriageOperationalIssue,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exc := excWith(domain.ExceptionMatching, tt.codes, tt.score, tt.retry)
			assert.Equal(t, tt.want, c.Classify(exc))
		})
	}
}

func TestExceptionClassifier_TieBreaksOnCategoryOrder(t *testing.T) {
	c := NewExceptionClassifier(taxonomy.New())

	// One MATCHING code and one BUSINESS_LOGIC code tie; MATCHING comes
	// first in the fixed category order.
	exc := excWith(domain.ExceptionMatching,
		[]domain.ReasonCode{domain.ReasonTimeout, domain.ReasonCurrencyMismatch}, nil, 0)
	assert.Equal(t, domain.TriageOperationalIssue, c.Classify(exc))
}

func TestExceptionClassifier_ByKindWithoutCodes(t *testing.T) {
	c := NewExceptionClassifier(taxonomy.New())

	tests := []struct {
		kind domain.ExceptionKind
		want domain.TriageClassification
	}{
		{domain.ExceptionMatching, domain.TriageOperationalIssue},
		{domain.ExceptionExtraction, domain.TriageDataQualityIssue},
		{domain.ExceptionValidation, domain.TriageDataQualityIssue},
		{domain.ExceptionProcessing, domain.TriageSystemIssue},
		{domain.ExceptionSystem, domain.TriageSystemIssue},
		{domain.ExceptionCompliance, domain.TriageComplianceIssue},
		{domain.ExceptionKind("SOMETHING_NEW"), domain.TriageOperationalIssue},
	}
	for _, tt := range tests {
		exc := excWith(tt.kind, nil, nil, 0)
		assert.Equal(t, tt.want, c.Classify(exc), "kind=%s", tt.kind)
	}
}
