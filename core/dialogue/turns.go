package dialogue

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/weftkit/weft/core/errors"
	"github.com/weftkit/weft/core/standoff"
)

const (
	featAddressee  = "Addressee"
	featComments   = "Comments"
	featEmitter    = "Emitter"
	featIdentifier = "Identifier"

	// Placeholder values the Glozz UI inserts as editing aids.
	addresseePlaceholder = "Please choose..."
	commentsPlaceholder  = "Please write in remarks..."
)

// turnPrefixRe matches the turn-number/speaker prefix of a turn text.
var turnPrefixRe = regexp.MustCompile(`^([0-9]+ ?: .*? ?: )(.*)$`)

// SplitTurnText splits a turn's text into the "379: Bob: " prefix the
// annotation UI displays and the body of the turn itself. Character
// offsets of annotations are relative to the whole turn string, prefix
// included, so callers slicing the body must mind the prefix length.
func SplitTurnText(text string) (prefix, body string, err error) {
	m := turnPrefixRe.FindStringSubmatch(text)
	if m == nil {
		// Easy to just return the whole text as the body, but a turn
		// without the prefix is a sign something has gone wrong
		// upstream.
		return "", "", errors.NewValidation("turn text",
			"does not start with a number/speaker prefix: "+text)
	}
	return m[1], m[2], nil
}

// TurnID returns the turn number of a turn annotation. The second
// result is false when the annotation carries no parseable Identifier
// feature.
func TurnID(anno standoff.Annotation) (int, bool) {
	raw, ok := anno.Features()[featIdentifier]
	if !ok {
		return 0, false
	}
	id, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return id, true
}

// Speaker returns the speaker of a turn annotation, or the empty
// string when the annotation carries no Emitter feature.
func Speaker(anno standoff.Annotation) string {
	return anno.Features()[featEmitter]
}

// Addressees returns the set of players spoken to in an EDU, sorted.
// It returns nil when the feature is absent or still holds the UI
// placeholder; values like "All" or "?" are preserved as given.
func Addressees(anno standoff.Annotation) []string {
	raw, ok := anno.Features()[featAddressee]
	if !ok || raw == addresseePlaceholder {
		return nil
	}
	var names []string
	for _, name := range strings.Split(raw, ",") {
		names = append(names, strings.TrimSpace(name))
	}
	sort.Strings(names)
	return names
}

// SetAddressees replaces the addressee list of an annotation. A nil
// list removes the feature entirely.
func SetAddressees(anno standoff.Annotation, names []string) {
	feats := anno.Features()
	if names == nil {
		delete(feats, featAddressee)
		return
	}
	sorted := append([]string(nil), names...)
	sort.Strings(sorted)
	feats[featAddressee] = strings.Join(sorted, ", ")
}

// CleanupComments removes the placeholder comment text the Glozz UI
// inserts during editing. Real comments are left alone.
func CleanupComments(anno standoff.Annotation) {
	feats := anno.Features()
	if feats[featComments] == commentsPlaceholder {
		delete(feats, featComments)
	}
}
