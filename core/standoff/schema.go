package standoff

import "fmt"

// Schema is an annotation over a set of other annotations: units,
// relations, and other schemas. Groupings nest, and nothing stops a
// malformed corpus from making the nesting circular, so traversal
// never assumes it is acyclic.
type Schema struct {
	anno
	unitIDs     []string
	relationIDs []string
	schemaIDs   []string
	memberIDs   []string
	members     []Annotation
}

// NewSchema builds a schema whose members are named by three
// identifier lists, one per variant. Duplicate ids are kept once; the
// combined member order is units, then relations, then schemas, each
// in list order. features and metadata may be nil. The members stay
// unresolved until the schema is given to NewDocument.
func NewSchema(localID string, unitIDs, relationIDs, schemaIDs []string, typeLabel string, features, metadata map[string]string) *Schema {
	return &Schema{
		anno:        newAnno(localID, typeLabel, features, metadata),
		unitIDs:     unitIDs,
		relationIDs: relationIDs,
		schemaIDs:   schemaIDs,
		memberIDs:   unionIDs(unitIDs, relationIDs, schemaIDs),
	}
}

func unionIDs(lists ...[]string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, list := range lists {
		for _, id := range list {
			if _, dup := seen[id]; dup {
				continue
			}
			seen[id] = struct{}{}
			out = append(out, id)
		}
	}
	return out
}

// UnitIDs returns the unit member identifiers as supplied at
// construction.
func (s *Schema) UnitIDs() []string { return s.unitIDs }

// RelationIDs returns the relation member identifiers as supplied at
// construction.
func (s *Schema) RelationIDs() []string { return s.relationIDs }

// SchemaIDs returns the schema member identifiers as supplied at
// construction.
func (s *Schema) SchemaIDs() []string { return s.schemaIDs }

// MemberIDs returns the combined member identifier list in resolution
// order: units, then relations, then schemas, duplicates dropped.
func (s *Schema) MemberIDs() []string { return s.memberIDs }

// Members returns the resolved member annotations. The result is empty
// until the owning document has been built, and is never nil: a schema
// is non-terminal even when it contains nothing.
func (s *Schema) Members() []Standoff {
	out := make([]Standoff, len(s.members))
	for i, m := range s.members {
		out[i] = m
	}
	return out
}

// Terminals expands the schema into the terminal annotations under its
// members, in member order, each at most once.
func (s *Schema) Terminals() []Standoff {
	return flatten(s, nil)
}

// TextSpan returns the smallest span covering the schema's terminals.
// The second return is false for a schema with no terminals under it.
func (s *Schema) TextSpan() (Span, bool) {
	return coverSpan(s)
}

// String renders the schema as "id [type] {member ids}".
func (s *Schema) String() string {
	return fmt.Sprintf("%s [%s] %v", s.Identifier(), s.typeLabel, s.memberIDs)
}

// fleshout resolves the schema's member identifiers against the
// document's id table. The document calls it exactly once, after the
// table is complete and before the document is handed out.
func (s *Schema) fleshout(objects map[string]Annotation) error {
	members := make([]Annotation, 0, len(s.memberIDs))
	for _, id := range s.memberIDs {
		m, ok := objects[id]
		if !ok {
			return &MissingReferenceError{
				MissingID: id,
				Referrer:  s.localID,
				Role:      RoleMember,
			}
		}
		members = append(members, m)
	}
	s.members = members
	return nil
}
