// Package dialogue implements the STAC annotation conventions layered
// over the generic standoff model. Glozz units, relations, and schemas
// are reused for very different things depending on the stage: in the
// units stage, units carry document structure, dialogue acts, resources,
// and preferences; in the discourse stage, relations carry discourse
// relation instances and schemas carry complex discourse units. The
// predicates and helpers here classify raw annotations into those
// conventional roles.
//
// Nothing in this package validates documents. It reads annotations as
// they come and leaves malformed ones alone, the way downstream corpus
// tools are expected to.
package dialogue

import (
	"sort"
	"strings"

	"github.com/weftkit/weft/core/standoff"
)

// Unit types that mark document structure rather than discourse
// content. Annotators are not expected to create, edit, or delete
// these.
var StructureTypes = []string{"Turn", "paragraph", "dialogue", "Dialogue"}

// Unit types for resource annotations (subspans of segments).
var ResourceTypes = []string{"default", "Resource"}

// Unit types for preference annotations.
var PreferenceTypes = []string{"Preference"}

// SubordinatingRelations lists the relation labels treated as
// subordinating in the STAC discourse typology.
var SubordinatingRelations = []string{
	"Explanation",
	"Background",
	"Elaboration",
	"Correction",
	"Q-Elab",
	"Comment",
	"Question-answer_pair",
	"Clarification_question",
	"Acknowledgement",
}

// CoordinatingRelations lists the relation labels treated as
// coordinating.
var CoordinatingRelations = []string{
	"Result",
	"Narration",
	"Continuation",
	"Contrast",
	"Parallel",
	"Conditional",
	"Alternation",
}

// DialogueActs lists the dialogue act labels units may carry in the
// units stage.
var DialogueActs = []string{
	"Offer",
	"Counteroffer",
	"Accept",
	"Refusal",
	"Other",
}

// ActRenames maps dialogue act labels that should be read as a
// different one. Strategic comments are folded into Other, as are the
// bare Segment placeholders left by the discourse stage.
var ActRenames = map[string]string{
	"Strategic_comment": "Other",
	"Segment":           "Other",
}

const cduType = "Complex_discourse_unit"

func contains(list []string, v string) bool {
	for _, x := range list {
		if x == v {
			return true
		}
	}
	return false
}

// SplitType reads an annotation's type label as a set of labels. Glozz
// allows compound types joined with "/", so "Accept/Other" is two
// labels. The result is sorted and de-duplicated.
func SplitType(anno standoff.Annotation) []string {
	parts := strings.Split(anno.Type(), "/")
	return sortedSet(parts)
}

// DialogueActsOf returns the dialogue acts of a unit with the
// conventional renames applied. By rights the result should be a
// single label, but compound types occur in older annotations.
func DialogueActsOf(anno standoff.Annotation) []string {
	parts := SplitType(anno)
	for i, p := range parts {
		if renamed, ok := ActRenames[p]; ok {
			parts[i] = renamed
		}
	}
	return sortedSet(parts)
}

// RelationLabels returns the discourse relation labels of a relation
// instance. No renames currently apply.
func RelationLabels(anno standoff.Annotation) []string {
	return SplitType(anno)
}

func sortedSet(items []string) []string {
	seen := make(map[string]bool, len(items))
	out := make([]string, 0, len(items))
	for _, x := range items {
		if !seen[x] {
			seen[x] = true
			out = append(out, x)
		}
	}
	sort.Strings(out)
	return out
}

// IsEDU reports whether an annotation is an elementary discourse unit:
// a unit whose type is not one of the structure, resource, or
// preference types. In the discourse stage EDUs appear with the
// placeholder type Segment and still count.
func IsEDU(anno standoff.Annotation) bool {
	u, ok := anno.(*standoff.Unit)
	if !ok {
		return false
	}
	t := u.Type()
	return !contains(StructureTypes, t) &&
		!contains(ResourceTypes, t) &&
		!contains(PreferenceTypes, t)
}

// IsTurn reports whether an annotation is a turn unit.
func IsTurn(anno standoff.Annotation) bool {
	u, ok := anno.(*standoff.Unit)
	return ok && u.Type() == "Turn"
}

// IsDialogue reports whether an annotation is a dialogue unit.
func IsDialogue(anno standoff.Annotation) bool {
	u, ok := anno.(*standoff.Unit)
	return ok && u.Type() == "Dialogue"
}

// IsStructure reports whether an annotation is document structure.
func IsStructure(anno standoff.Annotation) bool {
	u, ok := anno.(*standoff.Unit)
	return ok && contains(StructureTypes, u.Type())
}

// IsResource reports whether an annotation is a resource unit.
func IsResource(anno standoff.Annotation) bool {
	u, ok := anno.(*standoff.Unit)
	return ok && contains(ResourceTypes, u.Type())
}

// IsPreference reports whether an annotation is a preference unit.
func IsPreference(anno standoff.Annotation) bool {
	u, ok := anno.(*standoff.Unit)
	return ok && contains(PreferenceTypes, u.Type())
}

// IsRelationInstance reports whether an annotation is a discourse
// relation instance: a relation whose label is in the subordinating or
// coordinating typology. Coreference links (type Anaphora) are not
// relation instances.
func IsRelationInstance(anno standoff.Annotation) bool {
	r, ok := anno.(*standoff.Relation)
	if !ok {
		return false
	}
	return contains(SubordinatingRelations, r.Type()) ||
		contains(CoordinatingRelations, r.Type())
}

// IsSubordinating reports whether an annotation is a subordinating
// relation instance.
func IsSubordinating(anno standoff.Annotation) bool {
	r, ok := anno.(*standoff.Relation)
	return ok && contains(SubordinatingRelations, r.Type())
}

// IsCoordinating reports whether an annotation is a coordinating
// relation instance.
func IsCoordinating(anno standoff.Annotation) bool {
	r, ok := anno.(*standoff.Relation)
	return ok && contains(CoordinatingRelations, r.Type())
}

// IsCDU reports whether an annotation is a complex discourse unit:
// a schema grouping EDUs (and possibly other CDUs) in the discourse
// stage.
func IsCDU(anno standoff.Annotation) bool {
	s, ok := anno.(*standoff.Schema)
	return ok && s.Type() == cduType
}
