package domain

// BatchSummary provides high-level statistics for one reconciliation run.
type BatchSummary struct {
	PairsProcessed  int `json:"pairs_processed"`
	AutoMatched     int `json:"auto_matched"`
	Escalated       int `json:"escalated"`
	Exceptions      int `json:"exceptions"`
	TriagedCritical int `json:"triaged_critical"`
}

// BatchReport is the top-level structure for the final run output.
type BatchReport struct {
	Summary   BatchSummary       `json:"summary"`
	Decisions []MatchingDecision `json:"decisions"`
	Triage    []TriageOutcome    `json:"triage"`
}
