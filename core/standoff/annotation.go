package standoff

// Origin identifies the corpus slot an annotation file was read from.
// The package only consumes the capability; corpus layers supply
// implementations. The interface deliberately gives no way to name an
// annotator: annotator identity must never leak into global
// identifiers or positions, so the same annotation produced by two
// annotators stays comparable.
type Origin interface {
	// MkGlobalID derives a corpus-wide identifier from one that is
	// unique only within a single annotation file.
	MkGlobalID(localID string) string

	// Partition reports the document, subdocument, and stage of the
	// corpus slot this origin denotes.
	Partition() (doc, subdoc, stage string)
}

// Annotation is a labeled, featured object anchored to text: a Unit
// directly, a Relation or Schema through the annotations it contains.
// The set of implementations is closed; KindOf reports which variant a
// value is.
type Annotation interface {
	Standoff

	// LocalID returns the identifier that picks the annotation out
	// within its own annotation file.
	LocalID() string

	// Identifier returns an identifier intended to be unique across a
	// whole corpus: the origin-qualified local id, or the bare local
	// id while no origin is assigned.
	Identifier() string

	// Type returns the annotation's type label.
	Type() string

	// Features returns the live feature map. It is never nil, and
	// mutations are visible to every holder of the annotation.
	Features() map[string]string

	// Metadata returns the metadata map, or nil when none was given.
	Metadata() map[string]string

	// Origin returns the corpus slot the annotation belongs to, or nil
	// before a document assigns one.
	Origin() Origin

	isAnnotation()
}

// Kind names an annotation variant.
type Kind string

const (
	KindUnit     Kind = "unit"
	KindRelation Kind = "relation"
	KindSchema   Kind = "schema"
)

// KindOf reports which variant a is.
func KindOf(a Annotation) Kind {
	switch a.(type) {
	case *Unit:
		return KindUnit
	case *Relation:
		return KindRelation
	case *Schema:
		return KindSchema
	}
	return ""
}

// anno carries the state every annotation variant shares. Variants
// embed it; it stays unexported so the set of Annotation
// implementations is closed to this package.
type anno struct {
	localID   string
	typeLabel string
	features  map[string]string
	metadata  map[string]string
	origin    Origin
}

func newAnno(localID, typeLabel string, features, metadata map[string]string) anno {
	if features == nil {
		features = make(map[string]string)
	}
	return anno{
		localID:   localID,
		typeLabel: typeLabel,
		features:  features,
		metadata:  metadata,
	}
}

func (a *anno) LocalID() string             { return a.localID }
func (a *anno) Type() string                { return a.typeLabel }
func (a *anno) Features() map[string]string { return a.features }
func (a *anno) Metadata() map[string]string { return a.metadata }
func (a *anno) Origin() Origin              { return a.origin }

func (a *anno) Identifier() string {
	if a.origin == nil {
		return a.localID
	}
	return a.origin.MkGlobalID(a.localID)
}

func (a *anno) isAnnotation() {}
