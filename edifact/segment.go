package edifact

import "strings"

// EDIFACT service characters used by the energy market message profiles.
const (
	SegmentSeparator   = '\''
	ElementSeparator   = '+'
	ComponentSeparator = ':'
	EscapeCharacter    = '?'
)

// Element is a closed variant over the two shapes an EDIFACT data element
// can take: a plain scalar value or a composite of components. The zero
// value is an empty scalar.
type Element struct {
	value      string
	components []string
	composite  bool
}

// Scalar creates a scalar element.
func Scalar(value string) Element {
	return Element{value: value}
}

// Composite creates a composite element from its components.
func Composite(components ...string) Element {
	return Element{components: components, composite: true}
}

// IsComposite reports whether the element is a composite.
func (e Element) IsComposite() bool {
	return e.composite
}

// Value returns the scalar value. For a composite element it returns the
// wire form (components joined by the component separator) so positional
// call sites never lose data.
func (e Element) Value() string {
	if e.composite {
		return strings.Join(e.components, string(ComponentSeparator))
	}
	return e.value
}

// Components returns the component list. A scalar element is treated as a
// single-component composite so callers can index uniformly.
func (e Element) Components() []string {
	if e.composite {
		return e.components
	}
	if e.value == "" {
		return nil
	}
	return []string{e.value}
}

// Component returns the i-th component, or "" when out of range. For a
// scalar element component 0 is the value itself.
func (e Element) Component(i int) string {
	if !e.composite {
		if i == 0 {
			return e.value
		}
		return ""
	}
	if i < 0 || i >= len(e.components) {
		return ""
	}
	return e.components[i]
}

// String returns the wire form of the element.
func (e Element) String() string {
	return e.Value()
}

// Segment is one tagged line of an interchange. Segments are created by
// Tokenize and immutable thereafter.
type Segment struct {
	Tag      string
	Elements []Element
	Raw      string
}

// Len returns the number of data elements (the tag is not counted).
func (s Segment) Len() int {
	return len(s.Elements)
}

// Element returns the i-th data element, or a zero Element when out of
// range. Positional access never panics because externally supplied
// messages are routinely short.
func (s Segment) Element(i int) Element {
	if i < 0 || i >= len(s.Elements) {
		return Element{}
	}
	return s.Elements[i]
}

// String re-serializes the segment in wire form without the terminating
// segment separator.
func (s Segment) String() string {
	parts := make([]string, 0, len(s.Elements)+1)
	parts = append(parts, s.Tag)
	for _, e := range s.Elements {
		parts = append(parts, e.String())
	}
	return strings.Join(parts, string(ElementSeparator))
}

// Interchange is one complete parsed EDIFACT transmission. Segments holds
// the full ordered sequence; the by-tag index is last-wins.
type Interchange struct {
	Segments []Segment

	byTag map[string]int
}

func newInterchange(segments []Segment) *Interchange {
	ic := &Interchange{
		Segments: segments,
		byTag:    make(map[string]int, len(segments)),
	}
	for i, seg := range segments {
		ic.byTag[seg.Tag] = i
	}
	return ic
}

// ByTag returns the last segment with the given tag. Earlier occurrences
// of a repeated tag are only reachable through Segments or AllByTag.
func (ic *Interchange) ByTag(tag string) (Segment, bool) {
	i, ok := ic.byTag[tag]
	if !ok {
		return Segment{}, false
	}
	return ic.Segments[i], true
}

// AllByTag returns every segment with the given tag in interchange order.
func (ic *Interchange) AllByTag(tag string) []Segment {
	var out []Segment
	for _, seg := range ic.Segments {
		if seg.Tag == tag {
			out = append(out, seg)
		}
	}
	return out
}

// HasTag reports whether at least one segment with the tag is present.
func (ic *Interchange) HasTag(tag string) bool {
	_, ok := ic.byTag[tag]
	return ok
}

// TagIndex returns the position of the last segment with the given tag,
// or -1 when absent. Used for segment-order checks.
func (ic *Interchange) TagIndex(tag string) int {
	i, ok := ic.byTag[tag]
	if !ok {
		return -1
	}
	return i
}

// String re-serializes the interchange in wire form, each segment closed
// by the segment separator.
func (ic *Interchange) String() string {
	var b strings.Builder
	for _, seg := range ic.Segments {
		b.WriteString(seg.String())
		b.WriteByte(SegmentSeparator)
	}
	return b.String()
}
