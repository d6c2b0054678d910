package standoff

import (
	"fmt"
	"strconv"
	"strings"
)

// Unit is a terminal annotation: one anchored directly to a span of
// the text.
type Unit struct {
	anno
	span Span
}

// NewUnit builds a unit over sp labeled with typeLabel. features and
// metadata may be nil; a nil feature map is replaced with a fresh empty
// one so the feature bag is always usable.
func NewUnit(localID string, sp Span, typeLabel string, features, metadata map[string]string) *Unit {
	return &Unit{
		anno: newAnno(localID, typeLabel, features, metadata),
		span: sp,
	}
}

// Span returns the text interval the unit annotates.
func (u *Unit) Span() Span {
	return u.span
}

// Members returns nil: units are terminal.
func (u *Unit) Members() []Standoff {
	return nil
}

// Terminals returns the unit itself.
func (u *Unit) Terminals() []Standoff {
	return flatten(u, nil)
}

// TextSpan returns the unit's own span.
func (u *Unit) TextSpan() (Span, bool) {
	return u.span, true
}

// Position returns the unit's location-based identity: the origin's
// document, subdocument, and stage followed by the span bounds, joined
// with ":". Neither the annotator nor the local id takes part, so two
// annotators marking the same stretch of the same file produce the
// same position even though their ids differ.
func (u *Unit) Position() string {
	var parts []string
	if u.origin != nil {
		doc, subdoc, stage := u.origin.Partition()
		parts = append(parts, doc, subdoc, stage)
	}
	parts = append(parts,
		strconv.Itoa(u.span.CharStart),
		strconv.Itoa(u.span.CharEnd))
	return strings.Join(parts, ":")
}

// String renders the unit as "id [type] (start,end)".
func (u *Unit) String() string {
	return fmt.Sprintf("%s [%s] %s", u.Identifier(), u.typeLabel, u.span)
}
