package message

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestType_String(t *testing.T) {
	assert.Equal(t, "edi.validation.completed", TypeValidationCompleted.String())
	assert.Equal(t, "edi.aperak.generated", TypeAperakGenerated.String())
}

func TestType_IsValid(t *testing.T) {
	tests := []struct {
		name string
		typ  Type
		want bool
	}{
		{"complete", Type{Domain: "edi", Category: "utilmd", Version: "received"}, true},
		{"missing domain", Type{Category: "utilmd", Version: "received"}, false},
		{"missing category", Type{Domain: "edi", Version: "received"}, false},
		{"missing version", Type{Domain: "edi", Category: "utilmd"}, false},
		{"dot in part", Type{Domain: "edi", Category: "util.md", Version: "received"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.typ.IsValid())
		})
	}
}

func TestReceivedType(t *testing.T) {
	assert.Equal(t, "edi.utilmd.received", ReceivedType("UTILMD").String())
	assert.Equal(t, "edi.mscons.received", ReceivedType("MSCONS").String())
	assert.Equal(t, "edi.unknown.received", ReceivedType("").String())
}

func TestNew_Defaults(t *testing.T) {
	payload := &RawPayload{MessageType: "UTILMD", Raw: "UNB+...'"}

	m := New(ReceivedType("UTILMD"), payload, "comako")

	assert.NotEmpty(t, m.ID())
	assert.Equal(t, "comako", m.Source())
	assert.Equal(t, payload, m.Payload())
	assert.WithinDuration(t, time.Now().UTC(), m.CreatedAt(), time.Minute)
	require.NoError(t, m.Validate())
}

func TestNew_Options(t *testing.T) {
	created := time.Date(2025, 1, 3, 12, 0, 0, 0, time.UTC)

	m := New(TypeValidationCompleted, &AperakPayload{Status: "accepted", Aperak: "UNB'"}, "comako",
		WithID("fixed-id"),
		WithTime(created),
	)

	assert.Equal(t, "fixed-id", m.ID())
	assert.Equal(t, created, m.CreatedAt())
}

func TestHash_ContentSensitive(t *testing.T) {
	a := New(ReceivedType("UTILMD"), &RawPayload{MessageType: "UTILMD", Raw: "one"}, "comako")
	same := New(ReceivedType("UTILMD"), &RawPayload{MessageType: "UTILMD", Raw: "one"}, "comako")
	different := New(ReceivedType("UTILMD"), &RawPayload{MessageType: "UTILMD", Raw: "two"}, "comako")
	otherType := New(ReceivedType("MSCONS"), &RawPayload{MessageType: "UTILMD", Raw: "one"}, "comako")

	// The hash covers type and payload, not ID or timestamps.
	assert.Equal(t, a.Hash(), same.Hash())
	assert.NotEqual(t, a.Hash(), different.Hash())
	assert.NotEqual(t, a.Hash(), otherType.Hash())
	assert.Len(t, a.Hash(), 64)
}

func TestValidate_Failures(t *testing.T) {
	tests := []struct {
		name    string
		msg     *BaseMessage
		wantErr bool
	}{
		{"valid", New(TypeAperakGenerated, &AperakPayload{Status: "rejected", Aperak: "UNB'"}, "comako"), false},
		{"invalid type", New(Type{}, &RawPayload{Raw: "x"}, "comako"), true},
		{"nil payload", New(TypeAperakGenerated, nil, "comako"), true},
		{"incomplete payload", New(TypeAperakGenerated, &AperakPayload{Status: "accepted"}, "comako"), true},
		{"empty raw", New(ReceivedType("UTILMD"), &RawPayload{MessageType: "UTILMD"}, "comako"), true},
		{"nil document", New(ReceivedType("UTILMD"), &CanonicalPayload{}, "comako"), true},
		{"nil report", New(TypeValidationCompleted, &ReportPayload{}, "comako"), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.msg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestMarshalJSON_WireFormat(t *testing.T) {
	created := time.Date(2025, 1, 3, 12, 0, 0, 0, time.UTC)
	m := New(TypeAperakGenerated,
		&AperakPayload{Status: "accepted", OriginalRef: "MSG001", Aperak: "UNB'"},
		"comako",
		WithID("fixed-id"), WithTime(created),
	)

	data, err := json.Marshal(m)
	require.NoError(t, err)

	var wire struct {
		ID      string `json:"id"`
		Type    Type   `json:"type"`
		Payload struct {
			Status      string `json:"status"`
			OriginalRef string `json:"original_ref"`
			Aperak      string `json:"aperak"`
		} `json:"payload"`
		CreatedAt time.Time `json:"created_at"`
		Source    string    `json:"source"`
	}
	require.NoError(t, json.Unmarshal(data, &wire))

	assert.Equal(t, "fixed-id", wire.ID)
	assert.Equal(t, TypeAperakGenerated, wire.Type)
	assert.Equal(t, "accepted", wire.Payload.Status)
	assert.Equal(t, "MSG001", wire.Payload.OriginalRef)
	assert.Equal(t, "comako", wire.Source)
	assert.True(t, created.Equal(wire.CreatedAt))
}
