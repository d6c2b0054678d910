package standoff

import "fmt"

// RelSpan names the two endpoints of a relation by annotation
// identifier. It is the relation's analogue of a unit's Span: the
// thing the relation is anchored by.
type RelSpan struct {
	Source string
	Target string
}

// String renders the endpoint pair as "source -> target".
func (rs RelSpan) String() string {
	return rs.Source + " -> " + rs.Target
}

// Relation is a directed link between two other annotations. The
// endpoints are named by identifier at construction time and resolved
// to objects when the owning document is built; Source and Target hand
// out the resolved annotations.
type Relation struct {
	anno
	ids    RelSpan
	source Annotation
	target Annotation
}

// NewRelation builds a relation over the endpoint identifiers in ids,
// labeled with typeLabel. features and metadata may be nil. The
// endpoints stay unresolved until the relation is given to
// NewDocument.
func NewRelation(localID string, ids RelSpan, typeLabel string, features, metadata map[string]string) *Relation {
	return &Relation{
		anno: newAnno(localID, typeLabel, features, metadata),
		ids:  ids,
	}
}

// IDs returns the endpoint identifier pair as supplied at
// construction.
func (r *Relation) IDs() RelSpan {
	return r.ids
}

// Source returns the resolved source annotation, or nil until the
// owning document has been built.
func (r *Relation) Source() Annotation {
	return r.source
}

// Target returns the resolved target annotation, or nil until the
// owning document has been built.
func (r *Relation) Target() Annotation {
	return r.target
}

// Members returns the source and target, in that order. Before
// resolution the pair holds nils and must not be traversed.
func (r *Relation) Members() []Standoff {
	return []Standoff{r.source, r.target}
}

// Terminals expands the relation into the terminal annotations under
// both endpoints, source side first.
func (r *Relation) Terminals() []Standoff {
	return flatten(r, nil)
}

// TextSpan returns the smallest span covering the terminals of both
// endpoints.
func (r *Relation) TextSpan() (Span, bool) {
	return coverSpan(r)
}

// String renders the relation as "id [type] source -> target".
func (r *Relation) String() string {
	return fmt.Sprintf("%s [%s] %s", r.Identifier(), r.typeLabel, r.ids)
}

// fleshout resolves the relation's endpoint identifiers against the
// document's id table. The document calls it exactly once, after the
// table is complete and before the document is handed out.
func (r *Relation) fleshout(objects map[string]Annotation) error {
	source, ok := objects[r.ids.Source]
	if !ok {
		return &MissingReferenceError{
			MissingID: r.ids.Source,
			Referrer:  r.localID,
			Role:      RoleSource,
		}
	}
	target, ok := objects[r.ids.Target]
	if !ok {
		return &MissingReferenceError{
			MissingID: r.ids.Target,
			Referrer:  r.localID,
			Role:      RoleTarget,
		}
	}
	r.source = source
	r.target = target
	return nil
}
