package domain

import "time"

// ExceptionKind is the closed set of failure types the engine triages. New
// kinds must be added here, never passed through as free text.
type ExceptionKind string

const (
	ExceptionMatching   ExceptionKind = "MATCHING_EXCEPTION"
	ExceptionExtraction ExceptionKind = "EXTRACTION_EXCEPTION"
	ExceptionValidation ExceptionKind = "VALIDATION_EXCEPTION"
	ExceptionProcessing ExceptionKind = "PROCESSING_EXCEPTION"
	ExceptionSystem     ExceptionKind = "SYSTEM_EXCEPTION"
	ExceptionCompliance ExceptionKind = "COMPLIANCE_EXCEPTION"
)

// ExceptionCase captures one processing failure or non-auto-match decision.
// It is immutable once it enters the pipeline; lifecycle transitions live on
// a companion record owned by the exception lifecycle collaborator.
type ExceptionCase struct {
	ID            string            `json:"id"`
	Timestamp     time.Time         `json:"timestamp"`
	Kind          ExceptionKind     `json:"kind"`
	Event         string            `json:"event"`
	TradeID       string            `json:"trade_id,omitempty"`
	Component     string            `json:"component"`
	MatchScore    *float64          `json:"match_score,omitempty"`
	ReasonCodes   []ReasonCode      `json:"reason_codes"`
	Context       map[string]string `json:"context,omitempty"`
	ErrorText     string            `json:"error_text,omitempty"`
	RetryCount    int               `json:"retry_count"`
	CorrelationID string            `json:"correlation_id,omitempty"`
}

// SeverityTier buckets a severity score for routing and SLA purposes.
type SeverityTier string

const (
	SeverityLow      SeverityTier = "LOW"
	SeverityMedium   SeverityTier = "MEDIUM"
	SeverityHigh     SeverityTier = "HIGH"
	SeverityCritical SeverityTier = "CRITICAL"
)

// TriageClassification is the coarse triage category of an exception.
type TriageClassification string

const (
	TriageAutoResolvable   TriageClassification = "AUTO_RESOLVABLE"
	TriageOperationalIssue TriageClassification = "OPERATIONAL_ISSUE"
	TriageDataQualityIssue TriageClassification = "DATA_QUALITY_ISSUE"
	TriageSystemIssue      TriageClassification = "SYSTEM_ISSUE"
	TriageComplianceIssue  TriageClassification = "COMPLIANCE_ISSUE"
)

// RoutingDestination is the queue an exception is worked from.
type RoutingDestination string

const (
	RouteAutoResolve RoutingDestination = "AUTO_RESOLVE"
	RouteOpsDesk     RoutingDestination = "OPS_DESK"
	RouteSeniorOps   RoutingDestination = "SENIOR_OPS"
	RouteCompliance  RoutingDestination = "COMPLIANCE"
	RouteEngineering RoutingDestination = "ENGINEERING"
)

// AllRoutingDestinations lists every destination in declaration order.
func AllRoutingDestinations() []RoutingDestination {
	return []RoutingDestination{
		RouteAutoResolve,
		RouteOpsDesk,
		RouteSeniorOps,
		RouteCompliance,
		RouteEngineering,
	}
}

// TriageOutcome is one triage pass over an exception. Re-triage supersedes an
// outcome with a new one; outcomes are never edited.
type TriageOutcome struct {
	ExceptionID       string               `json:"exception_id"`
	TradeID           string               `json:"trade_id,omitempty"`
	Severity          SeverityTier         `json:"severity"`
	SeverityScore     float64              `json:"severity_score"`
	Route             RoutingDestination   `json:"route"`
	Priority          int                  `json:"priority"`
	SLAHours          int                  `json:"sla_hours"`
	Classification    TriageClassification `json:"classification"`
	RecommendedAction string               `json:"recommended_action"`
	Assignee          string               `json:"assignee,omitempty"`
	TriagedAt         time.Time            `json:"triaged_at"`
}

// ResolutionOutcome reports how a routed exception was ultimately closed; it
// is the learner's feedback signal.
type ResolutionOutcome struct {
	ExceptionID    string    `json:"exception_id"`
	ResolvedOnTime bool      `json:"resolved_on_time"`
	RoutingCorrect bool      `json:"routing_correct"`
	ResolvedAt     time.Time `json:"resolved_at"`
}
