package corpus

import (
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	"github.com/weftkit/weft/core/errors"
	"github.com/weftkit/weft/core/standoff"
)

// Position is the location-based identity of a unit annotation: which
// file it sits in (document, subdocument, stage) and the characters it
// covers. Annotator and local id are deliberately absent, so positions
// from different annotators of the same file compare equal.
type Position struct {
	Doc    string
	Subdoc string
	Stage  string
	Span   standoff.Span
}

// Anchored reports whether the position carries file coordinates, as
// opposed to one rendered from a unit with no origin.
func (p Position) Anchored() bool {
	return p.Doc != "" || p.Subdoc != "" || p.Stage != ""
}

// String renders the position in the colon-joined form produced by
// standoff.Unit.Position.
func (p Position) String() string {
	var parts []string
	if p.Anchored() {
		parts = append(parts, p.Doc, p.Subdoc, p.Stage)
	}
	parts = append(parts,
		strconv.Itoa(p.Span.CharStart),
		strconv.Itoa(p.Span.CharEnd))
	return strings.Join(parts, ":")
}

// positionGrammar is the participle grammar for colon-joined positions.
// Examples: "12:34", "game1:05:units:12:34"
//
//nolint:govet // participle grammar tags are not standard struct tags
type positionGrammar struct {
	First string   `@(Ident | Int)`
	Rest  []string `( ":" @(Ident | Int) )*`
}

// positionLexer defines the lexer for positions.
// Note: Ident is tried first and requires a non-digit somewhere, so
// purely numeric fields fall through to Int
var positionLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Ident", Pattern: `[0-9]*[A-Za-z_\-][A-Za-z0-9_\-]*`},
	{Name: "Int", Pattern: `[0-9]+`},
	{Name: "Colon", Pattern: `:`},
})

// positionParser is the participle parser for positions.
var positionParser = participle.MustBuild[positionGrammar](
	participle.Lexer(positionLexer),
)

// ParsePosition parses the string form of a unit position.
// Supported formats:
//   - "start:end" (unit with no origin)
//   - "doc:subdoc:stage:start:end" (unit read from a corpus)
//
// The span bounds must be the final two fields and must be numeric.
func ParsePosition(s string) (Position, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return Position{}, errors.NewParse("position", "", "empty position string")
	}

	parsed, err := positionParser.ParseString("", trimmed)
	if err != nil {
		return Position{}, &errors.ParseError{
			Format:  "position",
			Message: "malformed position " + strconv.Quote(s),
			Err:     err,
		}
	}

	fields := append([]string{parsed.First}, parsed.Rest...)
	var pos Position
	switch len(fields) {
	case 2:
		// bare span, no file coordinates
	case 5:
		pos.Doc = fields[0]
		pos.Subdoc = fields[1]
		pos.Stage = fields[2]
	default:
		return Position{}, errors.NewParse("position", "",
			"want 2 or 5 colon-joined fields, got "+strconv.Itoa(len(fields)))
	}

	start, err := strconv.Atoi(fields[len(fields)-2])
	if err != nil {
		return Position{}, errors.NewParse("position", "", "span start is not a number")
	}
	end, err := strconv.Atoi(fields[len(fields)-1])
	if err != nil {
		return Position{}, errors.NewParse("position", "", "span end is not a number")
	}
	sp, err := standoff.NewSpan(start, end)
	if err != nil {
		return Position{}, &errors.ParseError{
			Format:  "position",
			Message: "invalid span bounds",
			Err:     err,
		}
	}
	pos.Span = sp
	return pos, nil
}

// PositionOf computes the position of a unit directly, without going
// through the string form.
func PositionOf(u *standoff.Unit) Position {
	pos := Position{Span: u.Span()}
	if origin := u.Origin(); origin != nil {
		pos.Doc, pos.Subdoc, pos.Stage = origin.Partition()
	}
	return pos
}
