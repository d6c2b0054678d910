// Package standoff models standoff annotations: descriptions of text
// structure (spans, labeled links, labeled groupings) stored apart from
// the text they describe and tied to it, and to each other, by
// identifier rather than by containment. Several independent annotation
// layers can coexist over one source text this way.
//
// # Core Types
//
// The object model is a closed set of annotation variants plus the
// document that owns them:
//
//   - Span: half-open character interval, a plain value type
//   - Unit: terminal annotation, anchored directly by a Span
//   - Relation: directed link between two annotations, anchored indirectly
//   - Schema: labeled grouping of N annotations, possibly nested
//   - Document: owner of one file's units, relations, schemas, and text
//
// # Two-Stage Construction
//
// Relations and schemas name their endpoints by identifier, and may do
// so before those endpoints exist as objects. NewDocument therefore
// works in two passes: it first indexes every annotation by local id
// (rejecting duplicates), then resolves every relation and schema
// against the completed table. A document whose references do not all
// resolve is never returned; traversal never has to cope with dangling
// links.
//
// # Terminal Flattening
//
// Units are terminal; relations and schemas reach the text only through
// their members. Terminals expands any annotation (or a whole document)
// into the units at its leaves, tolerating self-referential and
// mutually-referential schema nesting, and TextSpan merges the result
// into a single covering interval.
//
// # Origins
//
// An Origin qualifies document-local identifiers into corpus-wide ones.
// The package only consumes the capability; corpus layers provide it
// (see core/corpus). Assigning an origin to a document cascades to
// every annotation it owns and may be repeated to re-tag.
package standoff
