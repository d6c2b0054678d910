package standoff

import "fmt"

// Span is the stretch of text an annotation points at, expressed as a
// half-open interval of character offsets: CharStart is the offset of
// the first character covered, CharEnd the offset one past the last. A
// span of length zero is legal and covers no characters.
//
// Span is a plain value type; copy it freely. Struct literals are not
// validated, so bounds coming from an untrusted source should go
// through NewSpan.
type Span struct {
	CharStart int
	CharEnd   int
}

// NewSpan builds a span after checking that the offsets form a
// well-formed half-open interval (0 <= start <= end).
func NewSpan(start, end int) (Span, error) {
	if start < 0 || start > end {
		return Span{}, &InvalidSpanError{Start: start, End: end}
	}
	return Span{CharStart: start, CharEnd: end}, nil
}

// Length returns the number of characters the span covers.
func (s Span) Length() int {
	return s.CharEnd - s.CharStart
}

// Shift returns a copy of the span moved right by offset characters
// (left when offset is negative). Both bounds move together, so the
// length is preserved.
func (s Span) Shift(offset int) Span {
	return Span{CharStart: s.CharStart + offset, CharEnd: s.CharEnd + offset}
}

// Absolute re-expresses a span given relative to frame in frame's own
// outer coordinate system.
func (s Span) Absolute(frame Span) Span {
	return s.Shift(frame.CharStart)
}

// Relative re-expresses a span given in frame's outer coordinate system
// as one relative to frame. It inverts Absolute for the same frame.
func (s Span) Relative(frame Span) Span {
	return s.Shift(-frame.CharStart)
}

// Encloses reports whether other lies entirely within the span. Every
// span encloses itself; no span encloses a nil other.
func (s Span) Encloses(other *Span) bool {
	if other == nil {
		return false
	}
	return s.CharStart <= other.CharStart && s.CharEnd >= other.CharEnd
}

// Overlaps returns the region the two spans have in common. The second
// return is false when they share no characters or other is nil; spans
// that merely touch at an endpoint do not overlap.
func (s Span) Overlaps(other *Span) (Span, bool) {
	if other == nil {
		return Span{}, false
	}
	start := max(s.CharStart, other.CharStart)
	end := min(s.CharEnd, other.CharEnd)
	if start < end {
		return Span{CharStart: start, CharEnd: end}, true
	}
	return Span{}, false
}

// Merge returns the smallest span covering both s and other, whether or
// not they touch.
func (s Span) Merge(other Span) Span {
	return Span{
		CharStart: min(s.CharStart, other.CharStart),
		CharEnd:   max(s.CharEnd, other.CharEnd),
	}
}

// Compare orders spans by start offset, ties broken by end offset. It
// returns -1, 0, or +1 in the manner of strings.Compare.
func (s Span) Compare(other Span) int {
	switch {
	case s.CharStart < other.CharStart:
		return -1
	case s.CharStart > other.CharStart:
		return 1
	case s.CharEnd < other.CharEnd:
		return -1
	case s.CharEnd > other.CharEnd:
		return 1
	}
	return 0
}

// Before reports whether s sorts strictly before other.
func (s Span) Before(other Span) bool {
	return s.Compare(other) < 0
}

// String renders the span as "(start,end)".
func (s Span) String() string {
	return fmt.Sprintf("(%d,%d)", s.CharStart, s.CharEnd)
}
