package corpus

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/weftkit/weft/core/errors"
	"github.com/weftkit/weft/internal/logging"
)

// annotation file suffixes
const (
	annotationExt = ".aa"
	textExt       = ".ac"
)

// Entry locates one annotation file on disk before it is loaded: its
// corpus id plus the paths of the annotation XML and the sibling raw
// text file it stands off from.
type Entry struct {
	ID     FileID
	AAPath string
	ACPath string
}

// Scan walks a corpus tree and enumerates its annotation files without
// reading them. The expected layout is
//
//	root/<doc>/<stage>/<annotator>/<doc>_<subdoc>.aa
//
// with the annotator level absent for the unannotated stage. Files
// that do not fit the layout are skipped with a warning; entries come
// back sorted by doc, subdoc, stage, annotator.
func Scan(root string) ([]Entry, error) {
	start := time.Now()
	if info, err := os.Stat(root); err != nil {
		return nil, errors.NewIO("scan", root, err)
	} else if !info.IsDir() {
		return nil, errors.NewValidation("root", "not a directory: "+root)
	}

	pattern := filepath.Join(root, "**", "*"+annotationExt)
	matches, err := doublestar.FilepathGlob(pattern)
	if err != nil {
		return nil, errors.NewIO("glob", pattern, err)
	}

	var entries []Entry
	for _, path := range matches {
		entry, ok := entryFromPath(root, path)
		if !ok {
			continue
		}
		entries = append(entries, entry)
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].ID.less(entries[j].ID)
	})

	logging.CorpusScan(root, len(entries), time.Since(start))
	return entries, nil
}

// entryFromPath derives a corpus entry from one .aa path. The doc,
// stage, and annotator come from the directory layout; the subdoc
// comes from the filename, after the last underscore.
func entryFromPath(root, path string) (Entry, bool) {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		logging.Warn("skipping annotation file outside corpus root", "path", path)
		return Entry{}, false
	}

	segments := strings.Split(filepath.ToSlash(rel), "/")
	var id FileID
	switch len(segments) {
	case 3:
		id = FileID{Doc: segments[0], Stage: Stage(segments[1])}
	case 4:
		id = FileID{Doc: segments[0], Stage: Stage(segments[1]), Annotator: segments[2]}
	default:
		logging.Warn("skipping annotation file with unexpected layout", "path", rel)
		return Entry{}, false
	}

	name := strings.TrimSuffix(segments[len(segments)-1], annotationExt)
	if i := strings.LastIndex(name, "_"); i >= 0 {
		id.Subdoc = name[i+1:]
		if prefix := name[:i]; prefix != id.Doc {
			logging.Warn("annotation filename disagrees with doc directory",
				"path", rel, "filename_doc", prefix, "dir_doc", id.Doc)
		}
	}

	entry := Entry{ID: id, AAPath: path}
	// A sibling text file is conventional but not required; stages often
	// share one copy of the text elsewhere in the tree.
	acPath := strings.TrimSuffix(path, annotationExt) + textExt
	if _, err := os.Stat(acPath); err == nil {
		entry.ACPath = acPath
	}
	return entry, true
}

// Filter narrows a scan down to the slots of interest. Each field is a
// set of acceptable values; nil or empty means no constraint on that
// axis. Values are glob patterns, so "s1-league*" selects a family of
// documents and "*" any non-empty value.
type Filter struct {
	Docs       []string
	Subdocs    []string
	Stages     []string
	Annotators []string
}

// Apply keeps the entries whose id matches every axis of the filter.
func (f Filter) Apply(entries []Entry) []Entry {
	var out []Entry
	for _, e := range entries {
		if f.Matches(e.ID) {
			out = append(out, e)
		}
	}
	return out
}

// Matches reports whether one file id satisfies the filter.
func (f Filter) Matches(id FileID) bool {
	return matchAxis(f.Docs, id.Doc) &&
		matchAxis(f.Subdocs, id.Subdoc) &&
		matchAxis(f.Stages, string(id.Stage)) &&
		matchAxis(f.Annotators, id.Annotator)
}

func matchAxis(patterns []string, value string) bool {
	if len(patterns) == 0 {
		return true
	}
	for _, p := range patterns {
		// Ill-formed patterns simply never match.
		if ok, err := doublestar.Match(p, value); err == nil && ok {
			return true
		}
	}
	return false
}
