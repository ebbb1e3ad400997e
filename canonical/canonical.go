package canonical

import (
	"time"

	"github.com/debuggerone/comako/edifact"
	"github.com/debuggerone/comako/errors"
	"github.com/debuggerone/comako/interpret"
)

// Message types with canonical extensions.
const (
	MessageTypeUTILMD  = "UTILMD"
	MessageTypeMSCONS  = "MSCONS"
	MessageTypeAPERAK  = "APERAK"
	MessageTypeUnknown = "UNKNOWN"
)

// SegmentEntry is one entry of the flat segments list. Status is set to
// "unmapped" for tags without a known positional mapping.
type SegmentEntry struct {
	SegmentType string `json:"segment_type"`
	Data        any    `json:"data"`
	Status      string `json:"status,omitempty"`
}

// UtilitiesData holds the UTILMD-specific extension buckets.
type UtilitiesData struct {
	MeteringPoints  []interpret.Location    `json:"metering_points"`
	ConsumptionData []interpret.Quantity    `json:"consumption_data"`
	MeterReadings   []interpret.Measurement `json:"meter_readings"`
}

// ConsumptionReport holds the MSCONS-specific extension buckets. The
// reporting period is a last-wins view of the DTM segments.
type ConsumptionReport struct {
	ReportingPeriod   interpret.DateTime      `json:"reporting_period"`
	MeterReadings     []interpret.Measurement `json:"meter_readings"`
	ConsumptionTotals []interpret.Quantity    `json:"consumption_totals"`
}

// Document is the canonical, typed representation of one interchange.
// Built once per interchange and read-only afterward.
type Document struct {
	MessageType       string             `json:"message_type"`
	Timestamp         time.Time          `json:"timestamp"`
	Header            map[string]any     `json:"header"`
	Body              map[string]any     `json:"body"`
	Segments          []SegmentEntry     `json:"segments"`
	Metadata          map[string]any     `json:"metadata"`
	UtilitiesData     *UtilitiesData     `json:"utilities_data,omitempty"`
	ConsumptionReport *ConsumptionReport `json:"consumption_report,omitempty"`
}

// Converter builds canonical documents from parsed interchanges. The
// clock is injectable so that conversion stays deterministic under test.
type Converter struct {
	now func() time.Time
}

// Option configures a Converter.
type Option func(*Converter)

// WithClock overrides the timestamp source.
func WithClock(now func() time.Time) Option {
	return func(c *Converter) {
		c.now = now
	}
}

// NewConverter creates a Converter with the given options.
func NewConverter(opts ...Option) *Converter {
	c := &Converter{
		now: func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// MessageType reads the message type from the first sub-field of the
// UNH message-identifier composite, falling back to UNKNOWN.
func MessageType(ic *edifact.Interchange) string {
	unh, ok := ic.ByTag("UNH")
	if !ok {
		return MessageTypeUnknown
	}
	if t := unh.Element(1).Component(0); t != "" {
		return t
	}
	return MessageTypeUnknown
}

// Convert assembles the canonical document for an interchange. Segments
// are processed in interchange order; repeated tags append to the flat
// segments list while the header/body maps keep the last occurrence.
func (c *Converter) Convert(ic *edifact.Interchange) (*Document, error) {
	if ic == nil || len(ic.Segments) == 0 {
		return nil, errors.WrapInvalid(errors.ErrConversionFailed, "Converter", "Convert", "empty interchange")
	}

	doc := &Document{
		MessageType: MessageType(ic),
		Timestamp:   c.now(),
		Header:      make(map[string]any),
		Body:        make(map[string]any),
		Segments:    make([]SegmentEntry, 0, len(ic.Segments)),
		Metadata: map[string]any{
			"conversion_version": "1.0",
			"source_format":      "EDIFACT",
		},
	}

	for _, seg := range ic.Segments {
		in := interpret.Interpret(seg)

		entry := SegmentEntry{SegmentType: seg.Tag, Data: in.Data}
		if in.Kind == interpret.KindUnmapped {
			entry.Status = "unmapped"
			doc.Segments = append(doc.Segments, entry)
			continue
		}
		doc.Segments = append(doc.Segments, entry)

		switch in.Kind {
		case interpret.KindInterchangeHeader, interpret.KindMessageHeader, interpret.KindDocumentInfo:
			doc.Header[string(in.Kind)] = in.Data
		case interpret.KindMessageTrailer, interpret.KindInterchangeTrailer:
			doc.Metadata[string(in.Kind)] = in.Data
		default:
			doc.Body[string(in.Kind)] = in.Data
		}
	}

	switch doc.MessageType {
	case MessageTypeUTILMD:
		doc.UtilitiesData = collectUtilities(doc.Segments)
	case MessageTypeMSCONS:
		doc.ConsumptionReport = collectConsumption(doc.Segments)
	}

	return doc, nil
}

func collectUtilities(entries []SegmentEntry) *UtilitiesData {
	u := &UtilitiesData{
		MeteringPoints:  []interpret.Location{},
		ConsumptionData: []interpret.Quantity{},
		MeterReadings:   []interpret.Measurement{},
	}
	for _, entry := range entries {
		switch data := entry.Data.(type) {
		case interpret.Location:
			u.MeteringPoints = append(u.MeteringPoints, data)
		case interpret.Quantity:
			u.ConsumptionData = append(u.ConsumptionData, data)
		case interpret.Measurement:
			u.MeterReadings = append(u.MeterReadings, data)
		}
	}
	return u
}

func collectConsumption(entries []SegmentEntry) *ConsumptionReport {
	r := &ConsumptionReport{
		MeterReadings:     []interpret.Measurement{},
		ConsumptionTotals: []interpret.Quantity{},
	}
	for _, entry := range entries {
		switch data := entry.Data.(type) {
		case interpret.DateTime:
			r.ReportingPeriod = data
		case interpret.Quantity:
			r.ConsumptionTotals = append(r.ConsumptionTotals, data)
		case interpret.Measurement:
			r.MeterReadings = append(r.MeterReadings, data)
		}
	}
	return r
}
