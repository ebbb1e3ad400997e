package message

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/debuggerone/comako/errors"
)

// Message is one routed unit of pipeline output. Implementations are
// immutable after construction.
type Message interface {
	// ID returns the unique identifier of this message instance.
	ID() string

	// Type returns the structured type used as the bus subject.
	Type() Type

	// Payload returns the typed content.
	Payload() Payload

	// CreatedAt returns the creation time.
	CreatedAt() time.Time

	// Source returns the service or component that created the message.
	Source() string

	// Hash returns a content hash over type and payload, used for
	// deduplication.
	Hash() string

	// Validate checks type and payload completeness.
	Validate() error
}

// BaseMessage is the standard Message implementation.
type BaseMessage struct {
	id        string
	msgType   Type
	payload   Payload
	createdAt time.Time
	source    string
}

// Option configures BaseMessage construction.
type Option func(*BaseMessage)

// WithTime sets a specific creation timestamp instead of time.Now.
func WithTime(createdAt time.Time) Option {
	return func(m *BaseMessage) { m.createdAt = createdAt }
}

// WithID sets an explicit message ID. Used when replaying stored
// messages.
func WithID(id string) Option {
	return func(m *BaseMessage) { m.id = id }
}

// New creates a message from a type, payload and originating source.
func New(msgType Type, payload Payload, source string, opts ...Option) *BaseMessage {
	m := &BaseMessage{
		id:        uuid.NewString(),
		msgType:   msgType,
		payload:   payload,
		createdAt: time.Now().UTC(),
		source:    source,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// ID returns the unique message identifier.
func (m *BaseMessage) ID() string { return m.id }

// Type returns the structured message type.
func (m *BaseMessage) Type() Type { return m.msgType }

// Payload returns the message payload.
func (m *BaseMessage) Payload() Payload { return m.payload }

// CreatedAt returns the creation time.
func (m *BaseMessage) CreatedAt() time.Time { return m.createdAt }

// Source returns the creating service.
func (m *BaseMessage) Source() string { return m.source }

// Hash returns a SHA256 hash over the message type and payload.
func (m *BaseMessage) Hash() string {
	h := sha256.New()
	h.Write([]byte(m.msgType.String()))
	if m.payload != nil {
		if data, err := m.payload.MarshalJSON(); err == nil {
			h.Write(data)
		}
	}
	return hex.EncodeToString(h.Sum(nil))
}

// Validate checks the message is publishable.
func (m *BaseMessage) Validate() error {
	if !m.msgType.IsValid() {
		return errors.WrapInvalid(
			fmt.Errorf("invalid message type: %q", m.msgType.String()),
			"BaseMessage", "Validate", "check type")
	}
	if m.payload == nil {
		return errors.WrapInvalid(errors.New("payload is nil"), "BaseMessage", "Validate", "check payload")
	}
	if err := m.payload.Validate(); err != nil {
		return errors.WrapInvalid(err, "BaseMessage", "Validate", "check payload")
	}
	return nil
}

// wireFormat is the JSON shape published to the bus.
type wireFormat struct {
	ID        string          `json:"id"`
	Type      Type            `json:"type"`
	Payload   json.RawMessage `json:"payload"`
	CreatedAt time.Time       `json:"created_at"`
	Source    string          `json:"source"`
}

// MarshalJSON implements json.Marshaler.
func (m *BaseMessage) MarshalJSON() ([]byte, error) {
	payloadData, err := m.payload.MarshalJSON()
	if err != nil {
		return nil, errors.WrapInvalid(err, "BaseMessage", "MarshalJSON", "marshal payload")
	}
	return json.Marshal(wireFormat{
		ID:        m.id,
		Type:      m.msgType,
		Payload:   payloadData,
		CreatedAt: m.createdAt,
		Source:    m.source,
	})
}
