// Package comako implements an EDIFACT processing core for the German
// energy market. It parses UTILMD, MSCONS and APERAK interchanges,
// converts them into a canonical JSON document model, validates them
// against structural and business rules, and answers each interchange
// with an APERAK acknowledgment.
//
// # Pipeline
//
// Raw interchanges flow through four stages:
//
//	tokenize  (edifact)   segments, elements, components
//	interpret (interpret) per-tag semantic structures
//	convert   (canonical) header/body/metadata document
//	respond   (aperak)    acceptance or rejection acknowledgment
//
// Validation (validate) runs alongside conversion and never aborts a
// message: findings are collected into a report, and error findings
// drive the APERAK rejection codes.
//
// # Service
//
// The pipeline package wires the stages into a NATS-backed service:
// interchanges arrive on a queue-group subscription, are processed on a
// worker pool, and the resulting document, report and acknowledgment
// are published as typed messages (message) on subjects derived from
// the message type. cmd/comako is the runnable binary; config, metric,
// errors and natsclient carry the ambient concerns.
package comako
