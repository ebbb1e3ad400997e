// Package validate checks parsed EDIFACT interchanges against the
// EDI@Energy rules used in the German energy market.
//
// Validation runs an ordered, extensible list of independent rules over
// the same parsed interchange. Rules declare which message types they
// apply to and return zero or more issues; issue severity decides whether
// the report comes back valid. A panicking rule never aborts the pass --
// the failure is converted into a SYSTEM-segment error issue and the
// remaining rules still execute.
//
// Validation never requires canonical conversion to have run, and vice
// versa: both read the same parsed interchange independently.
package validate
