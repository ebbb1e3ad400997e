package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStructuralRule_Order(t *testing.T) {
	// Tokenizer accepts any order; the validator flags UNZ before UNB.
	raw := "UNZ+1+REF001'" +
		"UNB+UNOC:3+S1+R1+250103:1200+REF001'" +
		"UNH+MSG001+UTILMD:D:03B:UN:EEG+1.1e'" +
		"BGM+E01+DOC1+9'" +
		"UNT+3+MSG001'"
	rule := &StructuralRule{}

	issues := rule.Validate(mustTokenize(t, raw))

	found := false
	for _, issue := range issues {
		if issue.Segment == "UNB/UNZ" {
			found = true
			assert.Equal(t, SeverityWarning, issue.Severity)
		}
	}
	assert.True(t, found, "expected segment order warning")
}

func TestDataElementRule_UNB(t *testing.T) {
	tests := []struct {
		name         string
		raw          string
		wantMessages []string
	}{
		{
			name: "too few elements",
			raw: "UNB+UNOC:3+S1'" +
				"UNH+MSG001+UTILMD:D:03B:UN:EEG+1.1e'BGM+E01+DOC1+9'",
			wantMessages: []string{"UNB segment has insufficient data elements"},
		},
		{
			name: "unexpected syntax identifier",
			raw: "UNB+UNOB:2+S1+R1+250103:1200+REF001'" +
				"UNH+MSG001+UTILMD:D:03B:UN:EEG+1.1e'BGM+E01+DOC1+9'",
			wantMessages: []string{"Unexpected syntax identifier: UNOB:2"},
		},
		{
			name: "empty sender and receiver",
			raw: "UNB+UNOC:3+++250103:1200+REF001'" +
				"UNH+MSG001+UTILMD:D:03B:UN:EEG+1.1e'BGM+E01+DOC1+9'",
			wantMessages: []string{"UNB sender ID is empty", "UNB receiver ID is empty"},
		},
	}

	rule := &DataElementRule{}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			issues := rule.Validate(mustTokenize(t, tt.raw))
			var messages []string
			for _, issue := range issues {
				messages = append(messages, issue.Message)
			}
			for _, want := range tt.wantMessages {
				assert.Contains(t, messages, want)
			}
		})
	}
}

func TestDataElementRule_DTMFormats(t *testing.T) {
	tests := []struct {
		date string
		ok   bool
	}{
		{"20250103", true},
		{"250103", true},
		{"202501031200", true},
		{"2025-01-03", true},
		{"03.01.2025", false},
		{"20250103120000", false},
	}

	rule := &DataElementRule{}
	for _, tt := range tests {
		t.Run(tt.date, func(t *testing.T) {
			raw := "UNB+UNOC:3+S1+R1+250103:1200+REF001'" +
				"UNH+MSG001+UTILMD:D:03B:UN:EEG+1.1e'" +
				"BGM+E01+DOC1+9'" +
				"DTM+137:" + tt.date + ":102'"

			issues := rule.Validate(mustTokenize(t, raw))

			flagged := false
			for _, issue := range issues {
				if issue.Segment == "DTM" {
					flagged = true
				}
			}
			assert.Equal(t, !tt.ok, flagged)
		})
	}
}

func TestBusinessRule_Quantities(t *testing.T) {
	tests := []struct {
		name        string
		qty         string
		wantMessage string
	}{
		{"valid quantity", "QTY+220:1234.5:KWH'", ""},
		{"non-numeric", "QTY+220:abc:KWH'", "Invalid quantity format: abc"},
		{"negative", "QTY+220:-5:KWH'", "Negative quantity value: -5"},
		{"unusually large", "QTY+220:2000000:KWH'", "Unusually large quantity: 2e+06"},
	}

	rule := &BusinessRule{}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := "UNB+UNOC:3+S1+R1+250103:1200+REF001'" +
				"UNH+MSG001+MSCONS:D:04B:UN:EEG'" +
				"BGM+7+DOC1+9'" + tt.qty

			issues := rule.Validate(mustTokenize(t, raw))

			if tt.wantMessage == "" {
				assert.Empty(t, issues)
				return
			}
			require.Len(t, issues, 1)
			assert.Equal(t, SeverityWarning, issues[0].Severity)
			assert.Equal(t, tt.wantMessage, issues[0].Message)
		})
	}
}

func TestBusinessRule_MeasurementAndLocation(t *testing.T) {
	raw := "UNB+UNOC:3+S1+R1+250103:1200+REF001'" +
		"UNH+MSG001+MSCONS:D:04B:UN:EEG'" +
		"BGM+7+DOC1+9'" +
		"MEA+AAE+KWH+-3:KWH'" +
		"LOC+172'"
	rule := &BusinessRule{}

	issues := rule.Validate(mustTokenize(t, raw))

	var segments []string
	for _, issue := range issues {
		assert.Equal(t, SeverityWarning, issue.Severity)
		segments = append(segments, issue.Segment)
	}
	assert.ElementsMatch(t, []string{"MEA", "LOC"}, segments)
}

func TestBusinessRule_NumericSafety(t *testing.T) {
	// A garbage QTY value warns, it never panics or errors.
	raw := "UNB+UNOC:3+S1+R1+250103:1200+REF001'" +
		"UNH+MSG001+MSCONS:D:04B:UN:EEG'" +
		"BGM+7+DOC1+9'" +
		"QTY+220:?+?::KWH'"
	v := NewValidator()

	report := v.Validate(mustTokenize(t, raw))

	for _, issue := range report.Issues {
		assert.NotEqual(t, "SYSTEM", issue.Segment)
	}
}
