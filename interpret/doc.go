// Package interpret maps typed EDIFACT segments into named, semantically
// labeled payloads. Each of the known tags (UNB, UNH, BGM, DTM, NAD, LOC,
// QTY, MEA, UNT, UNZ) has a fixed positional mapping from element index to
// semantic field; unknown tags pass through as unmapped with the raw
// payload preserved, never dropped.
//
// Interpretation never fails: these messages are externally supplied and
// partially malformed input is expected. Numeric fields use safe coercion,
// keeping the original text alongside a nil value when a number does not
// parse.
package interpret
