package aperak

import "github.com/debuggerone/comako/edifact"

// requiredSegments every APERAK must carry.
var requiredSegments = []string{"UNB", "UNH", "BGM", "UNT", "UNZ"}

// ValidateStructure reports whether the message carries the required
// APERAK segments. The text is run through the tokenizer, so the check
// holds for both newline-joined and plain wire form.
func ValidateStructure(message string) bool {
	ic, err := edifact.Tokenize(message)
	if err != nil {
		return false
	}
	for _, tag := range requiredSegments {
		if !ic.HasTag(tag) {
			return false
		}
	}
	return true
}

// ValidateResponseCode reports whether the BGM response code is one of
// the APERAK codes 26 through 29.
func ValidateResponseCode(message string) bool {
	ic, err := edifact.Tokenize(message)
	if err != nil {
		return false
	}
	bgm, ok := ic.ByTag("BGM")
	if !ok {
		return false
	}
	switch bgm.Element(2).Value() {
	case "26", "27", "28", "29":
		return true
	}
	return false
}

// Validation summarizes the APERAK self-checks.
type Validation struct {
	StructureValid    bool `json:"structure_valid"`
	ResponseCodeValid bool `json:"response_code_valid"`
}

// Validate runs both self-checks on a generated message.
func Validate(message string) Validation {
	return Validation{
		StructureValid:    ValidateStructure(message),
		ResponseCodeValid: ValidateResponseCode(message),
	}
}
