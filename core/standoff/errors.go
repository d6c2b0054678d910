package standoff

import (
	"errors"
	"fmt"
)

// Sentinel errors for the ways document construction can fail. The
// typed errors below unwrap to these, so callers can branch with
// errors.Is and still read the details with errors.As.
var (
	// ErrMissingReference indicates a relation or schema names an id
	// its document does not contain.
	ErrMissingReference = errors.New("missing reference")

	// ErrDuplicateIdentifier indicates two annotations in one document
	// claim the same local id.
	ErrDuplicateIdentifier = errors.New("duplicate identifier")

	// ErrInvalidSpan indicates a malformed character interval.
	ErrInvalidSpan = errors.New("invalid span")
)

// RefRole names which slot of a non-terminal annotation referred to a
// missing id.
type RefRole string

const (
	RoleSource RefRole = "source"
	RoleTarget RefRole = "target"
	RoleMember RefRole = "member"
)

// MissingReferenceError reports an identifier that a relation or
// schema names but the owning document does not contain.
type MissingReferenceError struct {
	MissingID string  // the id nothing resolves to
	Referrer  string  // local id of the relation or schema naming it
	Role      RefRole // which slot of the referrer named it
}

func (e *MissingReferenceError) Error() string {
	return fmt.Sprintf("no annotation with id %s [%s of %s]", e.MissingID, e.Role, e.Referrer)
}

func (e *MissingReferenceError) Unwrap() error { return ErrMissingReference }

// DuplicateIdentifierError reports a local id claimed by more than one
// annotation in the same document.
type DuplicateIdentifierError struct {
	ID     string
	First  Kind // variant of the annotation that claimed the id first
	Second Kind // variant of the annotation that collided with it
}

func (e *DuplicateIdentifierError) Error() string {
	return fmt.Sprintf("duplicate annotation id %s (%s and %s)", e.ID, e.First, e.Second)
}

func (e *DuplicateIdentifierError) Unwrap() error { return ErrDuplicateIdentifier }

// InvalidSpanError reports a span that is not a well-formed half-open
// interval.
type InvalidSpanError struct {
	ID    string // local id of the offending unit; empty for a bare span
	Start int
	End   int
}

func (e *InvalidSpanError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("invalid span (%d,%d) on unit %s", e.Start, e.End, e.ID)
	}
	return fmt.Sprintf("invalid span (%d,%d)", e.Start, e.End)
}

func (e *InvalidSpanError) Unwrap() error { return ErrInvalidSpan }
