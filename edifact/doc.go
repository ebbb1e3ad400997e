// Package edifact provides the tokenizer and segment model for UN/EDIFACT
// interchanges as exchanged in the German energy market (UTILMD, MSCONS,
// APERAK).
//
// An interchange is a sequence of segments delimited by the segment
// separator. Each segment carries a three-letter tag followed by elements
// delimited by the element separator; an element may itself be a composite
// of components delimited by the component separator. The escape character
// suppresses separator interpretation for the character that follows it.
//
// Tokenize produces an Interchange that preserves both the full ordered
// segment sequence and a last-wins lookup by tag. Repeated tags (multiple
// DTM or QTY segments) are common in real interchanges; call sites that
// need every occurrence must use Segments or AllByTag, while ByTag is a
// deliberate last-wins convenience for single-value lookups.
package edifact
