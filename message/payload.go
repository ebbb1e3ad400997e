package message

import (
	"encoding/json"

	"github.com/debuggerone/comako/canonical"
	"github.com/debuggerone/comako/errors"
	"github.com/debuggerone/comako/validate"
)

// Payload is the typed content of a message. Payloads marshal themselves
// and validate their own completeness.
type Payload interface {
	json.Marshaler

	// Validate checks the payload is complete enough to publish.
	Validate() error
}

// RawPayload carries a received EDIFACT interchange before conversion.
type RawPayload struct {
	MessageType string `json:"message_type"`
	Raw         string `json:"raw"`
}

// MarshalJSON implements json.Marshaler.
func (p *RawPayload) MarshalJSON() ([]byte, error) {
	type alias RawPayload
	return json.Marshal((*alias)(p))
}

// Validate checks the raw text is present.
func (p *RawPayload) Validate() error {
	if p.Raw == "" {
		return errors.WrapInvalid(errors.ErrEmptyInterchange, "RawPayload", "Validate", "check raw text")
	}
	return nil
}

// CanonicalPayload carries a converted canonical document.
type CanonicalPayload struct {
	Document *canonical.Document `json:"document"`
}

// MarshalJSON implements json.Marshaler.
func (p *CanonicalPayload) MarshalJSON() ([]byte, error) {
	type alias CanonicalPayload
	return json.Marshal((*alias)(p))
}

// Validate checks the document is present.
func (p *CanonicalPayload) Validate() error {
	if p.Document == nil {
		return errors.WrapInvalid(errors.ErrConversionFailed, "CanonicalPayload", "Validate", "check document")
	}
	return nil
}

// ReportPayload carries a validation report.
type ReportPayload struct {
	Report *validate.Report `json:"report"`
}

// MarshalJSON implements json.Marshaler.
func (p *ReportPayload) MarshalJSON() ([]byte, error) {
	type alias ReportPayload
	return json.Marshal((*alias)(p))
}

// Validate checks the report is present.
func (p *ReportPayload) Validate() error {
	if p.Report == nil {
		return errors.WrapInvalid(errors.New("report missing"), "ReportPayload", "Validate", "check report")
	}
	return nil
}

// AperakPayload carries a generated acknowledgment.
type AperakPayload struct {
	Status      string `json:"status"`
	OriginalRef string `json:"original_ref,omitempty"`
	Aperak      string `json:"aperak"`
}

// MarshalJSON implements json.Marshaler.
func (p *AperakPayload) MarshalJSON() ([]byte, error) {
	type alias AperakPayload
	return json.Marshal((*alias)(p))
}

// Validate checks the acknowledgment text and status are present.
func (p *AperakPayload) Validate() error {
	if p.Aperak == "" {
		return errors.WrapInvalid(errors.ErrGenerationFailed, "AperakPayload", "Validate", "check acknowledgment text")
	}
	if p.Status == "" {
		return errors.WrapInvalid(errors.New("status missing"), "AperakPayload", "Validate", "check status")
	}
	return nil
}
