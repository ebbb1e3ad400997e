package edifact

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/debuggerone/comako/errors"
)

// Structural identifiers that must be present for a transmission to count
// as parsed at all. Softer presence checks belong to the validator, which
// assumes the interchange already parsed.
var requiredTags = []string{"UNB", "UNH", "BGM"}

var (
	lineBreaks = regexp.MustCompile(`\r\n|\r|\n`)
	whitespace = regexp.MustCompile(`\s+`)
)

// Tokenize parses a raw EDIFACT interchange into segments, elements and
// components, honoring the escape character at every separator level.
// Escape sequences are preserved verbatim in the stored values so that
// re-serialization reproduces the original wire form.
//
// A parse failure is always fatal for the message: empty input, an empty
// segment tag, or a missing UNB/UNH/BGM identifier rejects the whole
// transmission. There is no parse-with-warnings path.
func Tokenize(raw string) (*Interchange, error) {
	normalized := normalize(raw)
	if normalized == "" {
		return nil, errors.WrapInvalid(errors.ErrEmptyInterchange, "Tokenizer", "Tokenize", "normalize input")
	}

	var segments []Segment
	for _, chunk := range splitEscaped(normalized, SegmentSeparator) {
		chunk = strings.TrimSpace(chunk)
		if chunk == "" {
			continue
		}
		seg, err := parseSegment(chunk)
		if err != nil {
			return nil, err
		}
		segments = append(segments, seg)
	}

	if len(segments) == 0 {
		return nil, errors.WrapInvalid(errors.ErrEmptyInterchange, "Tokenizer", "Tokenize", "split segments")
	}

	ic := newInterchange(segments)
	for _, tag := range requiredTags {
		if !ic.HasTag(tag) {
			return nil, errors.WrapInvalid(
				fmt.Errorf("%w: %s", errors.ErrMissingSegment, tag),
				"Tokenizer", "Tokenize", "check required segments")
		}
	}

	return ic, nil
}

// normalize collapses line breaks and redundant whitespace. Whitespace is
// never a separator, so escaped separators survive untouched.
func normalize(raw string) string {
	s := lineBreaks.ReplaceAllString(raw, "")
	s = whitespace.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// parseSegment splits one segment chunk into tag and elements.
func parseSegment(chunk string) (Segment, error) {
	fields := splitEscaped(chunk, ElementSeparator)
	if len(fields) == 0 || fields[0] == "" {
		return Segment{}, errors.WrapInvalid(
			fmt.Errorf("%w: %q", errors.ErrEmptySegmentTag, chunk),
			"Tokenizer", "parseSegment", "extract segment tag")
	}

	tag := fields[0]
	elements := make([]Element, 0, len(fields)-1)
	for _, field := range fields[1:] {
		if strings.ContainsRune(field, ComponentSeparator) {
			elements = append(elements, Composite(splitEscaped(field, ComponentSeparator)...))
		} else {
			elements = append(elements, Scalar(field))
		}
	}

	return Segment{Tag: tag, Elements: elements, Raw: chunk}, nil
}

// splitEscaped splits s on sep with single-character escape lookahead:
// when the escape character is seen, it and the following character are
// copied verbatim into the current field and the separator meaning of
// that character is suppressed.
func splitEscaped(s string, sep byte) []string {
	var fields []string
	var current strings.Builder

	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == EscapeCharacter && i+1 < len(s):
			current.WriteByte(c)
			current.WriteByte(s[i+1])
			i++
		case c == sep:
			fields = append(fields, current.String())
			current.Reset()
		default:
			current.WriteByte(c)
		}
	}
	if current.Len() > 0 {
		fields = append(fields, current.String())
	}
	return fields
}
