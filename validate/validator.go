package validate

import (
	"fmt"
	"sync"
	"time"

	"github.com/samber/lo"

	"github.com/debuggerone/comako/edifact"
)

// Rule is a single validation rule. Rules are independent: execution
// order only affects report ordering, never correctness.
type Rule interface {
	// ID returns the unique rule identifier used in issues.
	ID() string

	// AppliesTo reports whether the rule runs for the given message type.
	// Rules with no message-type restriction return true for everything.
	AppliesTo(messageType string) bool

	// Validate checks the interchange and returns the issues found.
	Validate(ic *edifact.Interchange) []Issue
}

// Validator runs a registered, ordered rule list over parsed
// interchanges.
//
// The cumulative statistics are the one piece of long-lived mutable state
// in the core. They are instance-scoped, not global, and guarded by a
// mutex so a Validator may be shared across goroutines; a fresh Validator
// per goroutine avoids the lock entirely.
type Validator struct {
	rules []Rule

	mu    sync.Mutex
	stats CumulativeStats
}

// NewValidator creates a validator with the standard EDI@Energy rule set:
// structural, message-type, data-element and business rules, in that
// order.
func NewValidator() *Validator {
	return &Validator{
		rules: []Rule{
			&StructuralRule{},
			&MessageTypeRule{},
			&DataElementRule{},
			&BusinessRule{},
		},
	}
}

// Register appends a custom rule to the execution order.
func (v *Validator) Register(rule Rule) {
	v.rules = append(v.rules, rule)
}

// Rules returns the registered rules in execution order.
func (v *Validator) Rules() []Rule {
	return v.rules
}

// Validate runs every applicable rule and assembles the report. The pass
// always completes: rule failures become SYSTEM-segment issues and error
// findings only mark the report invalid, they never abort it.
func (v *Validator) Validate(ic *edifact.Interchange) *Report {
	start := time.Now()
	messageType := extractMessageType(ic)

	issues := []Issue{}
	for _, rule := range v.rules {
		if !rule.AppliesTo(messageType) {
			continue
		}
		issues = append(issues, runRule(rule, ic)...)
	}

	errorCount := lo.CountBy(issues, func(i Issue) bool { return i.Severity == SeverityError })
	warningCount := lo.CountBy(issues, func(i Issue) bool { return i.Severity == SeverityWarning })
	infoCount := lo.CountBy(issues, func(i Issue) bool { return i.Severity == SeverityInfo })

	v.mu.Lock()
	v.stats.MessagesValidated++
	v.stats.TotalIssues += len(issues)
	v.stats.Errors += errorCount
	v.stats.Warnings += warningCount
	v.stats.Info += infoCount
	v.mu.Unlock()

	return &Report{
		Valid:       errorCount == 0,
		MessageType: messageType,
		Issues:      issues,
		Statistics: Statistics{
			TotalIssues:           len(issues),
			Errors:                errorCount,
			Warnings:              warningCount,
			Info:                  infoCount,
			ValidationTimeSeconds: time.Since(start).Seconds(),
		},
		ValidatedAt: time.Now().UTC(),
	}
}

// Stats returns a copy of the cumulative counters.
func (v *Validator) Stats() CumulativeStats {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.stats
}

// ResetStats zeroes the cumulative counters.
func (v *Validator) ResetStats() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.stats = CumulativeStats{}
}

// runRule executes one rule, converting a panic into a SYSTEM-segment
// error issue so a misbehaving rule cannot blind the rest of the pass.
func runRule(rule Rule, ic *edifact.Interchange) (issues []Issue) {
	defer func() {
		if r := recover(); r != nil {
			issues = []Issue{{
				RuleID:      rule.ID(),
				Severity:    SeverityError,
				Segment:     "SYSTEM",
				Message:     fmt.Sprintf("Validation rule error: %v", r),
				Description: "Internal validation error",
			}}
		}
	}()
	return rule.Validate(ic)
}

// extractMessageType reads the message type from the first sub-field of
// the UNH message-identifier composite, falling back to UNKNOWN. Kept
// local so validation never depends on the canonicalizer.
func extractMessageType(ic *edifact.Interchange) string {
	if ic == nil {
		return "UNKNOWN"
	}
	unh, ok := ic.ByTag("UNH")
	if !ok {
		return "UNKNOWN"
	}
	if t := unh.Element(1).Component(0); t != "" {
		return t
	}
	return "UNKNOWN"
}
