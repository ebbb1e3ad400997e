package validate

import "time"

// Severity grades a validation finding.
type Severity string

// Issue severities. Only errors make a report invalid; callers decide
// policy for warnings.
const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// Issue is a single validation finding. Produced once, never mutated.
type Issue struct {
	RuleID      string   `json:"rule_id"`
	Severity    Severity `json:"severity"`
	Segment     string   `json:"segment"`
	Message     string   `json:"message"`
	Description string   `json:"description"`
}

// Statistics summarizes one validation pass.
type Statistics struct {
	TotalIssues           int     `json:"total_issues"`
	Errors                int     `json:"errors"`
	Warnings              int     `json:"warnings"`
	Info                  int     `json:"info"`
	ValidationTimeSeconds float64 `json:"validation_time_seconds"`
}

// Report is the aggregated result of one validation pass.
type Report struct {
	Valid       bool       `json:"valid"`
	MessageType string     `json:"message_type"`
	Issues      []Issue    `json:"issues"`
	Statistics  Statistics `json:"statistics"`
	ValidatedAt time.Time  `json:"validated_at"`
}

// CumulativeStats are process-wide counters accumulated across calls on
// one Validator instance.
type CumulativeStats struct {
	MessagesValidated int `json:"messages_validated"`
	TotalIssues       int `json:"total_issues"`
	Errors            int `json:"errors"`
	Warnings          int `json:"warnings"`
	Info              int `json:"info"`
}
