package interpret

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/debuggerone/comako/edifact"
)

func TestInterpret_InterchangeHeader(t *testing.T) {
	seg := edifact.Segment{Tag: "UNB", Elements: []edifact.Element{
		edifact.Composite("UNOC", "3"),
		edifact.Scalar("SENDER123"),
		edifact.Scalar("COMAKO"),
		edifact.Composite("250103", "1200"),
		edifact.Scalar("REF001"),
	}}

	in := Interpret(seg)
	require.Equal(t, KindInterchangeHeader, in.Kind)

	header, ok := in.Data.(InterchangeHeader)
	require.True(t, ok)
	assert.Equal(t, "UNOC:3", header.SyntaxIdentifier)
	assert.Equal(t, "SENDER123", header.Sender)
	assert.Equal(t, "COMAKO", header.Recipient)
	assert.Equal(t, "250103:1200", header.DateTime)
	assert.Equal(t, "REF001", header.ControlReference)
}

func TestInterpret_MessageHeader(t *testing.T) {
	seg := edifact.Segment{Tag: "UNH", Elements: []edifact.Element{
		edifact.Scalar("MSG001"),
		edifact.Composite("UTILMD", "D", "03B", "UN", "EEG"),
	}}

	in := Interpret(seg)
	require.Equal(t, KindMessageHeader, in.Kind)

	mh, ok := in.Data.(MessageHeader)
	require.True(t, ok)
	assert.Equal(t, "MSG001", mh.ReferenceNumber)
	assert.Equal(t, "UTILMD", mh.MessageType)
	assert.Equal(t, "D", mh.Version)
	assert.Equal(t, "03B", mh.Release)
}

func TestInterpret_DateTime(t *testing.T) {
	tests := []struct {
		name       string
		components []string
		wantType   string
		wantParsed *time.Time
	}{
		{
			name:       "document date format 102",
			components: []string{"137", "20250103", "102"},
			wantType:   "document_date",
			wantParsed: timePtr(time.Date(2025, 1, 3, 0, 0, 0, 0, time.UTC)),
		},
		{
			name:       "processing date format 203",
			components: []string{"163", "202501031200", "203"},
			wantType:   "processing_date",
			wantParsed: timePtr(time.Date(2025, 1, 3, 12, 0, 0, 0, time.UTC)),
		},
		{
			name:       "default format when omitted",
			components: []string{"137", "20250103"},
			wantType:   "document_date",
			wantParsed: timePtr(time.Date(2025, 1, 3, 0, 0, 0, 0, time.UTC)),
		},
		{
			name:       "unparseable date keeps raw",
			components: []string{"137", "not-a-date", "102"},
			wantType:   "document_date",
			wantParsed: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seg := edifact.Segment{Tag: "DTM", Elements: []edifact.Element{
				edifact.Composite(tt.components...),
			}}

			in := Interpret(seg)
			require.Equal(t, KindDateTime, in.Kind)
			dt, ok := in.Data.(DateTime)
			require.True(t, ok)

			assert.Equal(t, tt.wantType, dt.DateType)
			if tt.wantParsed == nil {
				assert.Nil(t, dt.Parsed)
			} else {
				require.NotNil(t, dt.Parsed)
				assert.True(t, tt.wantParsed.Equal(*dt.Parsed))
			}
		})
	}
}

func TestInterpret_Quantity(t *testing.T) {
	t.Run("numeric consumption", func(t *testing.T) {
		seg := edifact.Segment{Tag: "QTY", Elements: []edifact.Element{
			edifact.Composite("220", "1234.5", "KWH"),
		}}

		q, ok := Interpret(seg).Data.(Quantity)
		require.True(t, ok)
		require.NotNil(t, q.Value)
		assert.InDelta(t, 1234.5, *q.Value, 1e-9)
		assert.Equal(t, "KWH", q.Unit)
		assert.Equal(t, "consumption", q.ReadingType)
		assert.Empty(t, q.RawValue)
	})

	t.Run("non-numeric value never fails", func(t *testing.T) {
		seg := edifact.Segment{Tag: "QTY", Elements: []edifact.Element{
			edifact.Composite("220", "abc", "KWH"),
		}}

		q, ok := Interpret(seg).Data.(Quantity)
		require.True(t, ok)
		assert.Nil(t, q.Value)
		assert.Equal(t, "abc", q.RawValue)
	})

	t.Run("unit defaults to KWH", func(t *testing.T) {
		seg := edifact.Segment{Tag: "QTY", Elements: []edifact.Element{
			edifact.Composite("222", "50"),
		}}

		q, ok := Interpret(seg).Data.(Quantity)
		require.True(t, ok)
		assert.Equal(t, "KWH", q.Unit)
		assert.Equal(t, "generation", q.ReadingType)
	})
}

func TestInterpret_PartyAndLocation(t *testing.T) {
	nad := edifact.Segment{Tag: "NAD", Elements: []edifact.Element{
		edifact.Scalar("MS"),
		edifact.Scalar("9900123456789"),
	}}
	p, ok := Interpret(nad).Data.(Party)
	require.True(t, ok)
	assert.Equal(t, "message_sender", p.PartyRole)
	assert.Equal(t, "9900123456789", p.Identification)

	loc := edifact.Segment{Tag: "LOC", Elements: []edifact.Element{
		edifact.Scalar("172"),
		edifact.Composite("DE000562668802", "metering point"),
	}}
	l, ok := Interpret(loc).Data.(Location)
	require.True(t, ok)
	assert.Equal(t, "metering_point", l.LocationType)
	assert.Equal(t, "DE000562668802", l.Identification)
	assert.Equal(t, "metering point", l.Description)
}

func TestInterpret_Measurement(t *testing.T) {
	seg := edifact.Segment{Tag: "MEA", Elements: []edifact.Element{
		edifact.Scalar("AAE"),
		edifact.Scalar("KWH"),
		edifact.Composite("42.7", "KWH"),
	}}

	m, ok := Interpret(seg).Data.(Measurement)
	require.True(t, ok)
	require.NotNil(t, m.Value)
	assert.InDelta(t, 42.7, *m.Value, 1e-9)
	assert.Equal(t, "KWH", m.Unit)
}

func TestInterpret_Trailers(t *testing.T) {
	unt := edifact.Segment{Tag: "UNT", Elements: []edifact.Element{
		edifact.Scalar("5"),
		edifact.Scalar("MSG001"),
	}}
	mt, ok := Interpret(unt).Data.(MessageTrailer)
	require.True(t, ok)
	require.NotNil(t, mt.SegmentCount)
	assert.Equal(t, 5, *mt.SegmentCount)
	assert.Equal(t, "MSG001", mt.ReferenceNumber)

	unz := edifact.Segment{Tag: "UNZ", Elements: []edifact.Element{
		edifact.Scalar("1"),
		edifact.Scalar("REF001"),
	}}
	it, ok := Interpret(unz).Data.(InterchangeTrailer)
	require.True(t, ok)
	require.NotNil(t, it.GroupCount)
	assert.Equal(t, 1, *it.GroupCount)
}

func TestInterpret_Unmapped(t *testing.T) {
	seg := edifact.Segment{
		Tag:      "FTX",
		Elements: []edifact.Element{edifact.Scalar("AAO"), edifact.Scalar("note")},
		Raw:      "FTX+AAO+note",
	}

	in := Interpret(seg)
	require.Equal(t, KindUnmapped, in.Kind)
	u, ok := in.Data.(Unmapped)
	require.True(t, ok)
	assert.Equal(t, "FTX", u.Tag)
	assert.Equal(t, []string{"AAO", "note"}, u.Elements)
	assert.Equal(t, "FTX+AAO+note", u.Raw)
}

func timePtr(t time.Time) *time.Time { return &t }
