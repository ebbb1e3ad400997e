package interpret

import "time"

// Qualifier code tables from the EDI@Energy profiles. Unknown codes map to
// "unknown" (or the consumption default for reading types) rather than
// failing, since partners occasionally send codes outside the profile.

var dateTypes = map[string]string{
	"137": "document_date",
	"163": "processing_date",
	"194": "start_date",
	"206": "end_date",
	"273": "validity_date",
}

var partyRoles = map[string]string{
	"MS":  "message_sender",
	"MR":  "message_recipient",
	"SU":  "supplier",
	"DP":  "distribution_partner",
	"UD":  "utility_distributor",
	"ZSO": "system_operator",
}

var locationTypes = map[string]string{
	"172": "metering_point",
	"92":  "delivery_point",
	"91":  "consumption_point",
	"7":   "place_of_delivery",
	"8":   "place_of_departure",
}

var measurementTypes = map[string]string{
	"AAE": "energy_consumption",
	"AAF": "energy_generation",
	"AAG": "power_consumption",
	"AAH": "power_generation",
}

var consumptionQualifiers = map[string]bool{"220": true, "221": true, "47": true, "131": true}
var generationQualifiers = map[string]bool{"222": true, "223": true, "48": true, "132": true}

func dateTypeFor(qualifier string) string {
	if t, ok := dateTypes[qualifier]; ok {
		return t
	}
	return "unknown"
}

func partyRoleFor(qualifier string) string {
	if r, ok := partyRoles[qualifier]; ok {
		return r
	}
	return "unknown"
}

func locationTypeFor(qualifier string) string {
	if t, ok := locationTypes[qualifier]; ok {
		return t
	}
	return "unknown"
}

func measurementTypeFor(qualifier string) string {
	if t, ok := measurementTypes[qualifier]; ok {
		return t
	}
	return "unknown"
}

// readingTypeFor classifies a QTY qualifier. Unrecognized qualifiers
// default to consumption, matching market practice for unqualified totals.
func readingTypeFor(qualifier string) string {
	switch {
	case consumptionQualifiers[qualifier]:
		return "consumption"
	case generationQualifiers[qualifier]:
		return "generation"
	default:
		return "consumption"
	}
}

// DTM format code layouts. 102 is CCYYMMDD, 203 adds HHMM, 204 adds seconds.
var dtmLayouts = map[string]string{
	"102": "20060102",
	"203": "200601021504",
	"204": "20060102150405",
}

// parseDate parses a DTM value according to its format code. Returns
// false for unknown codes or values that do not match the layout.
func parseDate(value, format string) (time.Time, bool) {
	layout, ok := dtmLayouts[format]
	if !ok || value == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(layout, value)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
