package standoff

// Document owns one annotation file's units, relations, and schemas,
// together with the text they describe when that text is available.
// Construction resolves every relation and schema against a table of
// every local id in the document, so a document that constructs
// successfully is fully navigable and one that does not is never
// handed out.
//
// A document also acts as a pseudo-annotation whose members are all of
// its annotations, which lets the Terminals machinery flatten a whole
// file the same way it flattens a schema.
type Document struct {
	units     []*Unit
	relations []*Relation
	schemas   []*Schema
	table     map[string]Annotation
	text      string
	hasText   bool
	origin    Origin
}

// NewDocument builds a document with no associated text buffer.
// SpanText and Text report absence rather than failing.
func NewDocument(units []*Unit, relations []*Relation, schemas []*Schema) (*Document, error) {
	return newDocument(units, relations, schemas, "", false)
}

// NewDocumentWithText builds a document over text. Unit spans index
// into text by character offset.
func NewDocumentWithText(units []*Unit, relations []*Relation, schemas []*Schema, text string) (*Document, error) {
	return newDocument(units, relations, schemas, text, true)
}

func newDocument(units []*Unit, relations []*Relation, schemas []*Schema, text string, hasText bool) (*Document, error) {
	for _, u := range units {
		if u.span.CharStart < 0 || u.span.CharStart > u.span.CharEnd {
			return nil, &InvalidSpanError{
				ID:    u.localID,
				Start: u.span.CharStart,
				End:   u.span.CharEnd,
			}
		}
	}

	table := make(map[string]Annotation, len(units)+len(relations)+len(schemas))
	add := func(a Annotation) error {
		id := a.LocalID()
		if prev, dup := table[id]; dup {
			return &DuplicateIdentifierError{
				ID:     id,
				First:  KindOf(prev),
				Second: KindOf(a),
			}
		}
		table[id] = a
		return nil
	}
	for _, u := range units {
		if err := add(u); err != nil {
			return nil, err
		}
	}
	for _, r := range relations {
		if err := add(r); err != nil {
			return nil, err
		}
	}
	for _, s := range schemas {
		if err := add(s); err != nil {
			return nil, err
		}
	}

	// The table is complete before any reference resolves, so nothing
	// depends on the order annotations were supplied in.
	for _, r := range relations {
		if err := r.fleshout(table); err != nil {
			return nil, err
		}
	}
	for _, s := range schemas {
		if err := s.fleshout(table); err != nil {
			return nil, err
		}
	}

	return &Document{
		units:     units,
		relations: relations,
		schemas:   schemas,
		table:     table,
		text:      text,
		hasText:   hasText,
	}, nil
}

// Units returns the document's unit annotations in supplied order.
func (d *Document) Units() []*Unit { return d.units }

// Relations returns the document's relation annotations in supplied
// order.
func (d *Document) Relations() []*Relation { return d.relations }

// Schemas returns the document's schema annotations in supplied order.
func (d *Document) Schemas() []*Schema { return d.schemas }

// Annotations returns every annotation the document owns: units, then
// relations, then schemas.
func (d *Document) Annotations() []Annotation {
	out := make([]Annotation, 0, len(d.units)+len(d.relations)+len(d.schemas))
	for _, u := range d.units {
		out = append(out, u)
	}
	for _, r := range d.relations {
		out = append(out, r)
	}
	for _, s := range d.schemas {
		out = append(out, s)
	}
	return out
}

// Lookup returns the annotation with the given local id.
func (d *Document) Lookup(localID string) (Annotation, bool) {
	a, ok := d.table[localID]
	return a, ok
}

// Members returns every annotation the document owns, making the
// document itself traversable as a non-terminal node. Never nil.
func (d *Document) Members() []Standoff {
	anns := d.Annotations()
	out := make([]Standoff, len(anns))
	for i, a := range anns {
		out[i] = a
	}
	return out
}

// Terminals expands the whole document into its terminal annotations,
// each at most once.
func (d *Document) Terminals() []Standoff {
	return flatten(d, nil)
}

// TextSpan returns the smallest span covering every terminal in the
// document. The second return is false for a document with no units.
func (d *Document) TextSpan() (Span, bool) {
	return coverSpan(d)
}

// Text returns the document's text buffer. The second return is false
// when the document was built without one.
func (d *Document) Text() (string, bool) {
	return d.text, d.hasText
}

// SpanText returns the slice of the text buffer that sp covers,
// clamped to the buffer's bounds. The second return is false when the
// document has no text buffer.
func (d *Document) SpanText(sp Span) (string, bool) {
	if !d.hasText {
		return "", false
	}
	start := clamp(sp.CharStart, 0, len(d.text))
	end := clamp(sp.CharEnd, start, len(d.text))
	return d.text[start:end], true
}

// Origin returns the corpus slot the document was read from, or nil
// before one is assigned.
func (d *Document) Origin() Origin {
	return d.origin
}

// SetOrigin assigns origin to the document and cascades it to every
// annotation it owns, so each annotation's Identifier becomes globally
// qualified. Calling it again re-tags everything; the previous origin
// leaves no trace.
func (d *Document) SetOrigin(origin Origin) {
	d.origin = origin
	for _, u := range d.units {
		u.origin = origin
	}
	for _, r := range d.relations {
		r.origin = origin
	}
	for _, s := range d.schemas {
		s.origin = origin
	}
}

// GlobalID qualifies a document-local identifier with the document's
// origin, or returns it unchanged while no origin is set.
func (d *Document) GlobalID(localID string) string {
	if d.origin == nil {
		return localID
	}
	return d.origin.MkGlobalID(localID)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
