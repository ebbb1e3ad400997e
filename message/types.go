package message

import (
	"fmt"
	"strings"
)

// Type identifies a message kind for routing and decoding. Domain is the
// processing domain ("edi"), Category the message class ("utilmd",
// "aperak"), Version the event within the class ("received",
// "generated", "completed").
type Type struct {
	Domain   string `json:"domain"`
	Category string `json:"category"`
	Version  string `json:"version"`
}

// String returns the dotted form used as the bus subject.
func (t Type) String() string {
	return fmt.Sprintf("%s.%s.%s", t.Domain, t.Category, t.Version)
}

// IsValid reports whether all three parts are present and dot-free.
func (t Type) IsValid() bool {
	for _, part := range []string{t.Domain, t.Category, t.Version} {
		if part == "" || strings.Contains(part, ".") {
			return false
		}
	}
	return true
}

// Well-known message types emitted by the pipeline. The category for
// received interchanges is the lowercased EDIFACT message type.
var (
	TypeValidationCompleted = Type{Domain: "edi", Category: "validation", Version: "completed"}
	TypeAperakGenerated     = Type{Domain: "edi", Category: "aperak", Version: "generated"}
)

// ReceivedType returns the routing type for a received interchange of
// the given EDIFACT message type, e.g. "edi.utilmd.received".
func ReceivedType(messageType string) Type {
	category := strings.ToLower(messageType)
	if category == "" {
		category = "unknown"
	}
	return Type{Domain: "edi", Category: category, Version: "received"}
}
