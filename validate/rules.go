package validate

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/debuggerone/comako/edifact"
)

// Quantities beyond this magnitude are flagged as suspicious.
const largeQuantityThreshold = 1_000_000

// StructuralRule checks that the interchange envelope segments are
// present and ordered.
type StructuralRule struct{}

// ID returns the rule identifier.
func (r *StructuralRule) ID() string { return "STRUCT_001" }

// AppliesTo returns true: structure is checked for every message type.
func (r *StructuralRule) AppliesTo(string) bool { return true }

// Validate emits one error per missing envelope segment and a warning
// when UNB does not precede UNZ.
func (r *StructuralRule) Validate(ic *edifact.Interchange) []Issue {
	var issues []Issue

	for _, tag := range []string{"UNB", "UNH", "UNT", "UNZ"} {
		if !ic.HasTag(tag) {
			issues = append(issues, Issue{
				RuleID:      r.ID(),
				Severity:    SeverityError,
				Segment:     tag,
				Message:     fmt.Sprintf("Missing required segment: %s", tag),
				Description: "Validate required EDI segments are present",
			})
		}
	}

	if unb, unz := ic.TagIndex("UNB"), ic.TagIndex("UNZ"); unb >= 0 && unz >= 0 && unb >= unz {
		issues = append(issues, Issue{
			RuleID:      r.ID(),
			Severity:    SeverityWarning,
			Segment:     "UNB/UNZ",
			Message:     "UNB segment should come before UNZ segment",
			Description: "Segment order validation",
		})
	}

	return issues
}

// MessageTypeRule checks message-type-specific required segments.
type MessageTypeRule struct{}

// requiredByType lists the segments each supported message type must
// carry beyond the envelope. Unknown types produce no findings.
var requiredByType = map[string][]string{
	"UTILMD": {"BGM", "DTM", "NAD"},
	"MSCONS": {"BGM", "DTM", "NAD", "LOC"},
	"APERAK": {"BGM"},
}

// ID returns the rule identifier.
func (r *MessageTypeRule) ID() string { return "MSGTYPE_001" }

// AppliesTo returns true; the type dispatch happens inside Validate so
// unknown types silently pass.
func (r *MessageTypeRule) AppliesTo(string) bool { return true }

// Validate emits one error per missing type-specific segment.
func (r *MessageTypeRule) Validate(ic *edifact.Interchange) []Issue {
	messageType := extractMessageType(ic)
	required, ok := requiredByType[messageType]
	if !ok {
		return nil
	}

	var issues []Issue
	for _, tag := range required {
		if !ic.HasTag(tag) {
			issues = append(issues, Issue{
				RuleID:      r.ID(),
				Severity:    SeverityError,
				Segment:     tag,
				Message:     fmt.Sprintf("%s missing required segment: %s", messageType, tag),
				Description: fmt.Sprintf("%s requires %s segment", messageType, tag),
			})
		}
	}
	return issues
}

// DataElementRule checks per-segment element shapes and contents.
type DataElementRule struct{}

var dateFormats = []*regexp.Regexp{
	regexp.MustCompile(`^\d{8}$`),          // YYYYMMDD
	regexp.MustCompile(`^\d{6}$`),          // YYMMDD
	regexp.MustCompile(`^\d{12}$`),         // YYYYMMDDHHMM
	regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`), // YYYY-MM-DD
}

// ID returns the rule identifier.
func (r *DataElementRule) ID() string { return "DATA_001" }

// AppliesTo returns true: element shapes are checked for every type.
func (r *DataElementRule) AppliesTo(string) bool { return true }

// Validate checks UNB, UNH and DTM element shapes. DTM is optional;
// absence is never a finding.
func (r *DataElementRule) Validate(ic *edifact.Interchange) []Issue {
	var issues []Issue

	if unb, ok := ic.ByTag("UNB"); ok {
		issues = append(issues, r.validateUNB(unb)...)
	}
	if unh, ok := ic.ByTag("UNH"); ok {
		issues = append(issues, r.validateUNH(unh)...)
	}
	if dtm, ok := ic.ByTag("DTM"); ok {
		issues = append(issues, r.validateDTM(dtm)...)
	}

	return issues
}

func (r *DataElementRule) validateUNB(seg edifact.Segment) []Issue {
	if seg.Len() < 5 {
		return []Issue{{
			RuleID:      r.ID(),
			Severity:    SeverityError,
			Segment:     "UNB",
			Message:     "UNB segment has insufficient data elements",
			Description: "UNB requires at least 5 data elements",
		}}
	}

	var issues []Issue
	if syntaxID := seg.Element(0).Value(); !strings.HasPrefix(syntaxID, "UNOC") {
		issues = append(issues, Issue{
			RuleID:      r.ID(),
			Severity:    SeverityWarning,
			Segment:     "UNB",
			Message:     fmt.Sprintf("Unexpected syntax identifier: %s", syntaxID),
			Description: "UNB syntax identifier validation",
		})
	}
	if seg.Element(1).Value() == "" {
		issues = append(issues, Issue{
			RuleID:      r.ID(),
			Severity:    SeverityError,
			Segment:     "UNB",
			Message:     "UNB sender ID is empty",
			Description: "UNB sender ID validation",
		})
	}
	if seg.Element(2).Value() == "" {
		issues = append(issues, Issue{
			RuleID:      r.ID(),
			Severity:    SeverityError,
			Segment:     "UNB",
			Message:     "UNB receiver ID is empty",
			Description: "UNB receiver ID validation",
		})
	}
	return issues
}

func (r *DataElementRule) validateUNH(seg edifact.Segment) []Issue {
	if seg.Len() < 3 {
		return []Issue{{
			RuleID:      r.ID(),
			Severity:    SeverityError,
			Segment:     "UNH",
			Message:     "UNH segment has insufficient data elements",
			Description: "UNH requires at least 3 data elements",
		}}
	}

	if seg.Element(0).Value() == "" {
		return []Issue{{
			RuleID:      r.ID(),
			Severity:    SeverityError,
			Segment:     "UNH",
			Message:     "UNH message reference number is empty",
			Description: "UNH message reference validation",
		}}
	}
	return nil
}

func (r *DataElementRule) validateDTM(seg edifact.Segment) []Issue {
	dateValue := seg.Element(0).Component(1)
	if dateValue == "" || validDateFormat(dateValue) {
		return nil
	}
	return []Issue{{
		RuleID:      r.ID(),
		Severity:    SeverityWarning,
		Segment:     "DTM",
		Message:     fmt.Sprintf("DTM date format may be invalid: %s", dateValue),
		Description: "DTM date format validation",
	}}
}

func validDateFormat(value string) bool {
	for _, pattern := range dateFormats {
		if pattern.MatchString(value) {
			return true
		}
	}
	return false
}

// BusinessRule checks value semantics: quantity and measurement ranges
// and location identification.
type BusinessRule struct{}

// ID returns the rule identifier.
func (r *BusinessRule) ID() string { return "BUSINESS_001" }

// AppliesTo returns true: business values are checked wherever the
// segments appear.
func (r *BusinessRule) AppliesTo(string) bool { return true }

// Validate checks QTY, MEA and LOC values. All findings are warnings:
// suspicious values never block a message on their own.
func (r *BusinessRule) Validate(ic *edifact.Interchange) []Issue {
	var issues []Issue

	if qty, ok := ic.ByTag("QTY"); ok {
		issues = append(issues, r.validateQuantity(qty)...)
	}
	if mea, ok := ic.ByTag("MEA"); ok {
		issues = append(issues, r.validateMeasurement(mea)...)
	}
	if loc, ok := ic.ByTag("LOC"); ok {
		issues = append(issues, r.validateLocation(loc)...)
	}

	return issues
}

func (r *BusinessRule) validateQuantity(seg edifact.Segment) []Issue {
	raw := seg.Element(0).Component(1)
	if raw == "" {
		return nil
	}

	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return []Issue{{
			RuleID:      r.ID(),
			Severity:    SeverityWarning,
			Segment:     "QTY",
			Message:     fmt.Sprintf("Invalid quantity format: %s", raw),
			Description: "Quantity must be numeric",
		}}
	}

	switch {
	case value < 0:
		return []Issue{{
			RuleID:      r.ID(),
			Severity:    SeverityWarning,
			Segment:     "QTY",
			Message:     fmt.Sprintf("Negative quantity value: %v", value),
			Description: "Quantity should not be negative",
		}}
	case value > largeQuantityThreshold:
		return []Issue{{
			RuleID:      r.ID(),
			Severity:    SeverityWarning,
			Segment:     "QTY",
			Message:     fmt.Sprintf("Unusually large quantity: %v", value),
			Description: "Quantity value seems unusually large",
		}}
	}
	return nil
}

func (r *BusinessRule) validateMeasurement(seg edifact.Segment) []Issue {
	raw := seg.Element(2).Component(0)
	if raw == "" {
		return nil
	}

	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return []Issue{{
			RuleID:      r.ID(),
			Severity:    SeverityWarning,
			Segment:     "MEA",
			Message:     fmt.Sprintf("Invalid measurement format: %s", raw),
			Description: "Measurement must be numeric",
		}}
	}

	if value < 0 {
		return []Issue{{
			RuleID:      r.ID(),
			Severity:    SeverityWarning,
			Segment:     "MEA",
			Message:     fmt.Sprintf("Negative measurement value: %v", value),
			Description: "Measurement should not be negative",
		}}
	}
	return nil
}

func (r *BusinessRule) validateLocation(seg edifact.Segment) []Issue {
	if seg.Element(1).Component(0) != "" {
		return nil
	}
	return []Issue{{
		RuleID:      r.ID(),
		Severity:    SeverityWarning,
		Segment:     "LOC",
		Message:     "Location ID is empty",
		Description: "Location ID should be specified",
	}}
}
