// Package message defines the typed envelope that carries EDI processing
// results between pipeline stages and onto the message bus.
//
// Messages are immutable after construction and combine a structured type
// (domain, category, version), a payload, and lifecycle metadata. The
// type doubles as the bus routing key: "edi.utilmd.received" is the
// wire subject for a received UTILMD interchange.
package message
