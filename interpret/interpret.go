package interpret

import (
	"strconv"
	"time"

	"github.com/debuggerone/comako/edifact"
)

// Kind labels the semantic payload produced for a segment tag.
type Kind string

// Payload kinds for the known segment tags plus the unmapped passthrough.
const (
	KindInterchangeHeader  Kind = "interchange_header"
	KindMessageHeader      Kind = "message_header"
	KindDocumentInfo       Kind = "document_info"
	KindDateTime           Kind = "date_time"
	KindParty              Kind = "party_info"
	KindLocation           Kind = "location"
	KindQuantity           Kind = "quantity"
	KindMeasurement        Kind = "measurement"
	KindMessageTrailer     Kind = "message_trailer"
	KindInterchangeTrailer Kind = "interchange_trailer"
	KindUnmapped           Kind = "unmapped"
)

// Interpreted is the named payload produced for one segment.
type Interpreted struct {
	Kind Kind
	Data any
}

// InterchangeHeader is the semantic view of a UNB segment.
type InterchangeHeader struct {
	SyntaxIdentifier string `json:"syntax_identifier"`
	Sender           string `json:"sender"`
	Recipient        string `json:"recipient"`
	DateTime         string `json:"date_time"`
	ControlReference string `json:"control_reference"`
}

// MessageHeader is the semantic view of a UNH segment.
type MessageHeader struct {
	ReferenceNumber string `json:"reference_number"`
	MessageType     string `json:"message_type"`
	Version         string `json:"version,omitempty"`
	Release         string `json:"release,omitempty"`
}

// DocumentInfo is the semantic view of a BGM segment.
type DocumentInfo struct {
	DocumentName    string `json:"document_name"`
	DocumentNumber  string `json:"document_number"`
	MessageFunction string `json:"message_function"`
}

// DateTime is the semantic view of a DTM segment. Parsed is set only when
// the raw value matches the declared format code.
type DateTime struct {
	Qualifier string     `json:"qualifier"`
	Date      string     `json:"date"`
	Format    string     `json:"format"`
	DateType  string     `json:"date_type"`
	Parsed    *time.Time `json:"parsed,omitempty"`
}

// Party is the semantic view of a NAD segment.
type Party struct {
	Qualifier      string `json:"qualifier"`
	Identification string `json:"identification"`
	Name           string `json:"name,omitempty"`
	Address        string `json:"address,omitempty"`
	PartyRole      string `json:"party_role"`
}

// Location is the semantic view of a LOC segment.
type Location struct {
	Qualifier      string `json:"qualifier"`
	Identification string `json:"identification"`
	Description    string `json:"description,omitempty"`
	LocationType   string `json:"location_type"`
}

// Quantity is the semantic view of a QTY segment. Value is nil when the
// raw text does not parse numerically; RawValue always carries the
// original text.
type Quantity struct {
	Qualifier   string   `json:"qualifier"`
	Value       *float64 `json:"value"`
	RawValue    string   `json:"raw_value,omitempty"`
	Unit        string   `json:"unit"`
	ReadingType string   `json:"reading_type"`
}

// Measurement is the semantic view of a MEA segment.
type Measurement struct {
	Qualifier       string   `json:"qualifier"`
	Dimension       string   `json:"dimension,omitempty"`
	Value           *float64 `json:"value"`
	RawValue        string   `json:"raw_value,omitempty"`
	Unit            string   `json:"unit,omitempty"`
	MeasurementType string   `json:"measurement_type"`
}

// MessageTrailer is the semantic view of a UNT segment.
type MessageTrailer struct {
	SegmentCount    *int   `json:"segment_count"`
	ReferenceNumber string `json:"reference_number"`
}

// InterchangeTrailer is the semantic view of a UNZ segment.
type InterchangeTrailer struct {
	GroupCount       *int   `json:"group_count"`
	ControlReference string `json:"control_reference"`
}

// Unmapped preserves a segment with no known positional mapping.
type Unmapped struct {
	Tag      string   `json:"tag"`
	Elements []string `json:"elements"`
	Raw      string   `json:"raw"`
}

// Interpret maps one segment into its named payload. The switch is
// exhaustive over the known tags; everything else lands in the unmapped
// arm with its raw payload preserved.
func Interpret(seg edifact.Segment) Interpreted {
	switch seg.Tag {
	case "UNB":
		return Interpreted{KindInterchangeHeader, interchangeHeader(seg)}
	case "UNH":
		return Interpreted{KindMessageHeader, messageHeader(seg)}
	case "BGM":
		return Interpreted{KindDocumentInfo, documentInfo(seg)}
	case "DTM":
		return Interpreted{KindDateTime, dateTime(seg)}
	case "NAD":
		return Interpreted{KindParty, party(seg)}
	case "LOC":
		return Interpreted{KindLocation, location(seg)}
	case "QTY":
		return Interpreted{KindQuantity, quantity(seg)}
	case "MEA":
		return Interpreted{KindMeasurement, measurement(seg)}
	case "UNT":
		return Interpreted{KindMessageTrailer, messageTrailer(seg)}
	case "UNZ":
		return Interpreted{KindInterchangeTrailer, interchangeTrailer(seg)}
	default:
		return Interpreted{KindUnmapped, unmapped(seg)}
	}
}

func interchangeHeader(seg edifact.Segment) InterchangeHeader {
	return InterchangeHeader{
		SyntaxIdentifier: seg.Element(0).Value(),
		Sender:           seg.Element(1).Value(),
		Recipient:        seg.Element(2).Value(),
		DateTime:         seg.Element(3).Value(),
		ControlReference: seg.Element(4).Value(),
	}
}

func messageHeader(seg edifact.Segment) MessageHeader {
	ident := seg.Element(1)
	return MessageHeader{
		ReferenceNumber: seg.Element(0).Value(),
		MessageType:     ident.Component(0),
		Version:         ident.Component(1),
		Release:         ident.Component(2),
	}
}

func documentInfo(seg edifact.Segment) DocumentInfo {
	return DocumentInfo{
		DocumentName:    seg.Element(0).Value(),
		DocumentNumber:  seg.Element(1).Value(),
		MessageFunction: seg.Element(2).Value(),
	}
}

func dateTime(seg edifact.Segment) DateTime {
	detail := seg.Element(0)
	dt := DateTime{
		Qualifier: detail.Component(0),
		Date:      detail.Component(1),
		Format:    detail.Component(2),
		DateType:  dateTypeFor(detail.Component(0)),
	}
	if dt.Format == "" {
		// CCYYMMDD is the profile default when no format code is given.
		dt.Format = "102"
	}
	if parsed, ok := parseDate(dt.Date, dt.Format); ok {
		dt.Parsed = &parsed
	}
	return dt
}

func party(seg edifact.Segment) Party {
	qualifier := seg.Element(0).Value()
	return Party{
		Qualifier:      qualifier,
		Identification: seg.Element(1).Value(),
		Name:           seg.Element(2).Value(),
		Address:        seg.Element(3).Value(),
		PartyRole:      partyRoleFor(qualifier),
	}
}

func location(seg edifact.Segment) Location {
	qualifier := seg.Element(0).Value()
	detail := seg.Element(1)
	return Location{
		Qualifier:      qualifier,
		Identification: detail.Component(0),
		Description:    detail.Component(1),
		LocationType:   locationTypeFor(qualifier),
	}
}

func quantity(seg edifact.Segment) Quantity {
	detail := seg.Element(0)
	qualifier := detail.Component(0)
	q := Quantity{
		Qualifier:   qualifier,
		Unit:        detail.Component(2),
		ReadingType: readingTypeFor(qualifier),
	}
	if q.Unit == "" {
		q.Unit = "KWH"
	}
	q.Value, q.RawValue = coerceNumeric(detail.Component(1))
	return q
}

func measurement(seg edifact.Segment) Measurement {
	qualifier := seg.Element(0).Value()
	detail := seg.Element(2)
	m := Measurement{
		Qualifier:       qualifier,
		Dimension:       seg.Element(1).Value(),
		Unit:            detail.Component(1),
		MeasurementType: measurementTypeFor(qualifier),
	}
	m.Value, m.RawValue = coerceNumeric(detail.Component(0))
	return m
}

func messageTrailer(seg edifact.Segment) MessageTrailer {
	t := MessageTrailer{ReferenceNumber: seg.Element(1).Value()}
	if n, err := strconv.Atoi(seg.Element(0).Value()); err == nil {
		t.SegmentCount = &n
	}
	return t
}

func interchangeTrailer(seg edifact.Segment) InterchangeTrailer {
	t := InterchangeTrailer{ControlReference: seg.Element(1).Value()}
	if n, err := strconv.Atoi(seg.Element(0).Value()); err == nil {
		t.GroupCount = &n
	}
	return t
}

func unmapped(seg edifact.Segment) Unmapped {
	elements := make([]string, len(seg.Elements))
	for i, e := range seg.Elements {
		elements[i] = e.String()
	}
	return Unmapped{Tag: seg.Tag, Elements: elements, Raw: seg.Raw}
}

// coerceNumeric parses a numeric value without ever failing: a value that
// does not parse is retained as the original text with a nil number.
func coerceNumeric(raw string) (*float64, string) {
	if raw == "" {
		return nil, ""
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, raw
	}
	return &v, ""
}
