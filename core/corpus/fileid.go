package corpus

import "strings"

// Stage names an annotation stage: one pass over a document in the
// annotation workflow. The well-known STAC stages have constants below,
// but a corpus tree may carry others; any directory name is accepted.
type Stage string

const (
	// StageUnannotated is the raw stage: structure only, no annotator.
	StageUnannotated Stage = "unannotated"
	// StageUnits is the dialogue-act stage.
	StageUnits Stage = "units"
	// StageDiscourse is the discourse-structure stage.
	StageDiscourse Stage = "discourse"
)

// FileID identifies one annotation file within a corpus: a document, a
// subdocument (section) within it, the annotation stage, and the
// annotator who produced it. Annotator is empty for stages that have
// none, such as unannotated.
//
// FileID is the corpus-layer implementation of standoff.Origin.
// Deliberately, neither MkGlobalID nor Partition expose the annotator:
// two annotators working on the same file must produce comparable
// identifiers and positions.
type FileID struct {
	Doc       string
	Subdoc    string
	Stage     Stage
	Annotator string
}

// MkGlobalID qualifies a document-local identifier into a corpus-wide
// one: doc, subdoc, stage, and the local id joined with underscores,
// skipping whichever of the first three are absent.
func (k FileID) MkGlobalID(localID string) string {
	parts := make([]string, 0, 4)
	for _, p := range []string{k.Doc, k.Subdoc, string(k.Stage), localID} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, "_")
}

// Partition reports the document, subdocument, and stage of this file.
func (k FileID) Partition() (doc, subdoc, stage string) {
	return k.Doc, k.Subdoc, string(k.Stage)
}

// String renders the id in the conventional display form
// "doc [subdoc] stage annotator", dropping the annotator when empty.
func (k FileID) String() string {
	s := k.Doc + " [" + k.Subdoc + "] " + string(k.Stage)
	if k.Annotator != "" {
		s += " " + k.Annotator
	}
	return s
}

// less orders file ids by doc, subdoc, stage, then annotator. It backs
// the sorted iteration helpers; maps of FileID have no order of their
// own.
func (k FileID) less(other FileID) bool {
	if k.Doc != other.Doc {
		return k.Doc < other.Doc
	}
	if k.Subdoc != other.Subdoc {
		return k.Subdoc < other.Subdoc
	}
	if k.Stage != other.Stage {
		return k.Stage < other.Stage
	}
	return k.Annotator < other.Annotator
}
