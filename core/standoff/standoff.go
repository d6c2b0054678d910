package standoff

// Standoff is anything ultimately anchored to a stretch of text. The
// anchoring need not be direct: relations and schemas reach the text
// only through the annotations they contain.
type Standoff interface {
	// Members returns the annotations contained within this one. A nil
	// result marks a terminal annotation, which is not the same thing
	// as a non-terminal whose member list happens to be empty. For
	// relations and schemas the result is meaningful only once the
	// owning document has resolved their references.
	Members() []Standoff

	// Terminals expands the annotation into the terminal annotations
	// at its leaves, in member order, each at most once. A terminal
	// annotation yields itself. The expansion tolerates
	// self-referential and mutually-referential nesting.
	Terminals() []Standoff

	// TextSpan returns the smallest span covering every terminal under
	// this annotation. The second return is false when there are no
	// terminals to cover.
	TextSpan() (Span, bool)
}

// flatten expands s into its terminal annotations. seen carries the
// nodes already expanded along the current path; every Terminals call
// starts it at nil, so no traversal state outlives a call. Visiting a
// non-terminal extends the seen set handed to its children with all of
// its members, which is what breaks membership cycles.
func flatten(s Standoff, seen []Standoff) []Standoff {
	members := s.Members()
	if members == nil {
		return []Standoff{s}
	}
	next := make([]Standoff, 0, len(seen)+len(members))
	next = append(next, seen...)
	next = append(next, members...)
	var out []Standoff
	for _, m := range members {
		if contains(seen, m) {
			continue
		}
		out = append(out, flatten(m, next)...)
	}
	return out
}

// contains tests membership by identity, not by value: two distinct
// annotations with equal content are still distinct nodes.
func contains(set []Standoff, s Standoff) bool {
	for _, t := range set {
		if t == s {
			return true
		}
	}
	return false
}

// coverSpan merges the spans of every terminal under s. The second
// return is false when s has no terminals.
func coverSpan(s Standoff) (Span, bool) {
	var merged Span
	found := false
	for _, t := range flatten(s, nil) {
		u, ok := t.(*Unit)
		if !ok {
			continue
		}
		if !found {
			merged = u.span
			found = true
			continue
		}
		merged = merged.Merge(u.span)
	}
	return merged, found
}
