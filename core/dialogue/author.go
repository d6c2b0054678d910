package dialogue

import (
	"strconv"
	"time"

	"github.com/weftkit/weft/core/standoff"
)

// PartialUnit is a unit-to-be for programmatic insertion into a
// document: just the span, type, and features. Identity and metadata
// are derived by CreateUnits.
type PartialUnit struct {
	Span     standoff.Span
	Type     string
	Features map[string]string
}

// CreateUnits instantiates new units for insertion into doc under the
// given author name.
//
// Glozz identifies units by the author and creation-date metadata pair
// rather than by their id, and the pipeline convention is to give
// automatically derived annotations negative creation dates, since a
// real creation date makes no sense for them. New dates are allocated
// below the most negative date already present, rounded down a couple
// powers of ten so the generated block is easy to spot. Local ids are
// the author name and a counter.
func CreateUnits(doc *standoff.Document, author string, partials []PartialUnit) []*standoff.Unit {
	idBase := creationBase(doc)
	units := make([]*standoff.Unit, 0, len(partials))
	for i, partial := range partials {
		metadata := map[string]string{
			"author":               author,
			"creation-date":        strconv.Itoa(-(idBase + i)),
			"lastModifier":         "n/a",
			"lastModificationDate": "0",
		}
		localID := author + "_" + strconv.Itoa(i)
		units = append(units, standoff.NewUnit(localID, partial.Span, partial.Type, partial.Features, metadata))
	}
	return units
}

// creationBase finds the next block of negative creation dates: two
// powers of ten beyond the most negative date in the document. Units
// without a parseable creation-date do not take part.
func creationBase(doc *standoff.Document) int {
	smallest := 0
	for _, u := range doc.Units() {
		date, err := strconv.Atoi(u.Metadata()["creation-date"])
		if err != nil {
			continue
		}
		if date < smallest {
			smallest = date
		}
	}
	base := 100
	for m := -smallest; m >= 10; m /= 10 {
		base *= 10
	}
	return base
}

// FreshTimestamp returns the current time in the seconds-since-epoch
// form Glozz uses for creation dates of hand-authored annotations.
func FreshTimestamp() string {
	return strconv.FormatInt(time.Now().Unix(), 10)
}
