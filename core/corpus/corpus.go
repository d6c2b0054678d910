package corpus

import (
	"sort"

	"github.com/weftkit/weft/core/errors"
	"github.com/weftkit/weft/core/glozz"
	"github.com/weftkit/weft/core/standoff"
	"github.com/weftkit/weft/internal/logging"
)

// Corpus maps corpus keys to their loaded documents.
type Corpus map[FileID]*glozz.Doc

// Load reads every entry into a corpus. Each document is tagged with its
// key via SetOrigin, so annotation identifiers are globally unique from
// the moment the corpus exists. Any unreadable or unresolvable entry
// fails the whole load; a corpus is never partially resolved.
func Load(entries []Entry) (Corpus, error) {
	corpus := make(Corpus, len(entries))
	for _, entry := range entries {
		doc, err := LoadEntry(entry)
		if err != nil {
			return nil, err
		}
		corpus[entry.ID] = doc
	}
	return corpus, nil
}

// LoadEntry reads a single corpus entry and tags it with its key.
func LoadEntry(entry Entry) (*glozz.Doc, error) {
	doc, err := glozz.ReadDocument(entry.AAPath, entry.ACPath)
	if err != nil {
		return nil, errors.Wrapf(err, "loading %s", entry.ID)
	}
	doc.SetOrigin(entry.ID)
	logging.DocumentLoaded(entry.ID.Doc, entry.ID.Subdoc, string(entry.ID.Stage), entry.ID.Annotator,
		len(doc.Units()), len(doc.Relations()), len(doc.Schemas()))
	return doc, nil
}

// Keys returns the corpus keys in stable sorted order.
func (c Corpus) Keys() []FileID {
	keys := make([]FileID, 0, len(c))
	for id := range c {
		keys = append(keys, id)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].less(keys[j]) })
	return keys
}

// Twin retrieves the annotation with the same local identifier from
// another stage of the corpus. The usual direction is from a discourse
// segment to its units-stage counterpart, whose features carry the
// dialogue act. The annotation must already be tagged with a corpus key.
func Twin(c Corpus, anno standoff.Annotation, stage Stage) (standoff.Annotation, error) {
	origin := anno.Origin()
	if origin == nil {
		return nil, errors.NewValidation("annotation", "origin not set")
	}
	key, ok := origin.(FileID)
	if !ok {
		return nil, errors.NewValidation("annotation", "origin is not a corpus key")
	}
	key.Stage = stage
	if stage == StageUnannotated {
		// The unannotated stage has no annotator directory.
		key.Annotator = ""
	}
	doc, ok := c[key]
	if !ok {
		return nil, errors.NewNotFound("document", key.String())
	}
	return TwinFrom(doc.Document, anno)
}

// TwinFrom returns the annotation in doc sharing anno's local identifier.
func TwinFrom(doc *standoff.Document, anno standoff.Annotation) (standoff.Annotation, error) {
	twin, ok := doc.Lookup(anno.LocalID())
	if !ok {
		return nil, errors.NewNotFound("annotation", anno.LocalID())
	}
	return twin, nil
}
