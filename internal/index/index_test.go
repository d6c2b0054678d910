package index

import (
	"path/filepath"
	"testing"

	"github.com/weftkit/weft/core/corpus"
	"github.com/weftkit/weft/core/glozz"
	"github.com/weftkit/weft/core/standoff"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "index.db"))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

// testDoc builds a resolved document with two units, a relation, and a
// schema, tagged with the given corpus key.
func testDoc(t *testing.T, id corpus.FileID, checksum string) *glozz.Doc {
	t.Helper()
	units := []*standoff.Unit{
		standoff.NewUnit("stac_1", standoff.Span{CharStart: 0, CharEnd: 12}, "Offer", nil, nil),
		standoff.NewUnit("stac_2", standoff.Span{CharStart: 13, CharEnd: 19}, "Accept", nil, nil),
	}
	relations := []*standoff.Relation{
		standoff.NewRelation("stac_r1", standoff.RelSpan{Source: "stac_1", Target: "stac_2"},
			"Elaboration", nil, nil),
	}
	schemas := []*standoff.Schema{
		standoff.NewSchema("stac_s1", []string{"stac_1", "stac_2"}, nil, nil,
			"Complex_discourse_unit", nil, nil),
	}
	doc, err := standoff.NewDocument(units, relations, schemas)
	if err != nil {
		t.Fatal(err)
	}
	doc.SetOrigin(id)
	return &glozz.Doc{Document: doc, TextChecksum: checksum}
}

func TestOpenTwice(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "index.db")

	store, err := Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatal(err)
	}

	// Schema creation is idempotent; reopening an existing index works.
	store, err = Open(path)
	if err != nil {
		t.Fatalf("reopen error = %v", err)
	}
	defer store.Close()
	if store.Path() != path {
		t.Errorf("Path() = %q", store.Path())
	}
}

func TestLookupGlobalID(t *testing.T) {
	store := openStore(t)
	unitsKey := corpus.FileID{Doc: "game1", Subdoc: "02", Stage: corpus.StageUnits, Annotator: "pilot01"}
	discourseKey := corpus.FileID{Doc: "game1", Subdoc: "02", Stage: corpus.StageDiscourse, Annotator: "pilot01"}

	if err := store.AddDocument(unitsKey, testDoc(t, unitsKey, "aaaa")); err != nil {
		t.Fatalf("AddDocument() error = %v", err)
	}
	if err := store.AddDocument(discourseKey, testDoc(t, discourseKey, "aaaa")); err != nil {
		t.Fatalf("AddDocument() error = %v", err)
	}

	hits, err := store.LookupGlobalID("game1_02_units_stac_1")
	if err != nil {
		t.Fatalf("LookupGlobalID() error = %v", err)
	}
	if len(hits) != 1 {
		t.Fatalf("LookupGlobalID() = %d hits, want 1: %+v", len(hits), hits)
	}
	h := hits[0]
	if h.ID != unitsKey {
		t.Errorf("hit id = %+v", h.ID)
	}
	if h.LocalID != "stac_1" || h.Kind != standoff.KindUnit || h.Type != "Offer" {
		t.Errorf("hit = %+v", h)
	}
	if !h.HasSpan || h.Span != (standoff.Span{CharStart: 0, CharEnd: 12}) {
		t.Errorf("hit span = %+v", h)
	}
	if h.Position != "game1:02:units:0:12" {
		t.Errorf("hit position = %q", h.Position)
	}

	// Stages qualify identifiers, so the discourse copy is a different
	// global id.
	hits, err = store.LookupGlobalID("game1_02_discourse_stac_1")
	if err != nil {
		t.Fatal(err)
	}
	if len(hits) != 1 || hits[0].ID != discourseKey {
		t.Errorf("discourse lookup = %+v", hits)
	}

	hits, err = store.LookupGlobalID("game1_02_review_stac_1")
	if err != nil {
		t.Fatal(err)
	}
	if len(hits) != 0 {
		t.Errorf("ghost lookup = %+v", hits)
	}
}

func TestRelationAndSchemaRows(t *testing.T) {
	store := openStore(t)
	key := corpus.FileID{Doc: "game1", Subdoc: "02", Stage: corpus.StageUnits, Annotator: "pilot01"}
	if err := store.AddDocument(key, testDoc(t, key, "aaaa")); err != nil {
		t.Fatal(err)
	}

	hits, err := store.LookupGlobalID("game1_02_units_stac_r1")
	if err != nil {
		t.Fatal(err)
	}
	if len(hits) != 1 || hits[0].Kind != standoff.KindRelation {
		t.Fatalf("relation hit = %+v", hits)
	}
	if hits[0].HasSpan || hits[0].Position != "" {
		t.Errorf("relation carries unit fields: %+v", hits[0])
	}

	hits, err = store.LookupGlobalID("game1_02_units_stac_s1")
	if err != nil {
		t.Fatal(err)
	}
	if len(hits) != 1 || hits[0].Kind != standoff.KindSchema {
		t.Errorf("schema hit = %+v", hits)
	}
}

func TestAddDocumentReplaces(t *testing.T) {
	store := openStore(t)
	key := corpus.FileID{Doc: "game1", Subdoc: "02", Stage: corpus.StageUnits, Annotator: "pilot01"}

	if err := store.AddDocument(key, testDoc(t, key, "aaaa")); err != nil {
		t.Fatal(err)
	}
	if err := store.AddDocument(key, testDoc(t, key, "bbbb")); err != nil {
		t.Fatalf("re-adding the same key failed: %v", err)
	}

	stats, err := store.Stats()
	if err != nil {
		t.Fatal(err)
	}
	want := Stats{Documents: 1, Units: 2, Relations: 1, Schemas: 1}
	if stats != want {
		t.Errorf("Stats() after re-add = %+v, want %+v", stats, want)
	}
}

func TestLookupPosition(t *testing.T) {
	store := openStore(t)
	pilot01 := corpus.FileID{Doc: "game1", Subdoc: "02", Stage: corpus.StageUnits, Annotator: "pilot01"}
	pilot02 := corpus.FileID{Doc: "game1", Subdoc: "02", Stage: corpus.StageUnits, Annotator: "pilot02"}
	otherDoc := corpus.FileID{Doc: "game2", Subdoc: "01", Stage: corpus.StageUnits, Annotator: "pilot01"}
	for _, key := range []corpus.FileID{pilot01, pilot02, otherDoc} {
		if err := store.AddDocument(key, testDoc(t, key, "aaaa")); err != nil {
			t.Fatal(err)
		}
	}

	// Anchored lookup: same file coordinates, every annotator.
	pos, err := corpus.ParsePosition("game1:02:units:0:12")
	if err != nil {
		t.Fatal(err)
	}
	hits, err := store.LookupPosition(pos)
	if err != nil {
		t.Fatalf("LookupPosition() error = %v", err)
	}
	if len(hits) != 2 {
		t.Fatalf("anchored lookup = %d hits, want 2: %+v", len(hits), hits)
	}
	if hits[0].ID.Annotator != "pilot01" || hits[1].ID.Annotator != "pilot02" {
		t.Errorf("hits out of annotator order: %+v", hits)
	}
	for _, h := range hits {
		if h.Kind != standoff.KindUnit || !h.HasSpan {
			t.Errorf("non-unit position hit: %+v", h)
		}
	}

	// Unanchored lookup matches the span anywhere.
	bare := corpus.Position{Span: standoff.Span{CharStart: 0, CharEnd: 12}}
	hits, err = store.LookupPosition(bare)
	if err != nil {
		t.Fatal(err)
	}
	if len(hits) != 3 {
		t.Errorf("bare lookup = %d hits, want 3", len(hits))
	}

	// A span nobody covers.
	none, err := store.LookupPosition(corpus.Position{Span: standoff.Span{CharStart: 2, CharEnd: 3}})
	if err != nil {
		t.Fatal(err)
	}
	if len(none) != 0 {
		t.Errorf("impossible span matched %+v", none)
	}
}

func TestBuildFromCorpus(t *testing.T) {
	store := openStore(t)
	unitsKey := corpus.FileID{Doc: "game1", Subdoc: "02", Stage: corpus.StageUnits, Annotator: "pilot01"}
	discourseKey := corpus.FileID{Doc: "game1", Subdoc: "02", Stage: corpus.StageDiscourse, Annotator: "pilot01"}
	c := corpus.Corpus{
		unitsKey:     testDoc(t, unitsKey, "aaaa"),
		discourseKey: testDoc(t, discourseKey, "aaaa"),
	}

	if err := store.Build(c); err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	stats, err := store.Stats()
	if err != nil {
		t.Fatal(err)
	}
	want := Stats{Documents: 2, Units: 4, Relations: 2, Schemas: 2}
	if stats != want {
		t.Errorf("Stats() = %+v, want %+v", stats, want)
	}
	if stats.Total() != 8 {
		t.Errorf("Total() = %d, want 8", stats.Total())
	}
}

func TestStatsEmpty(t *testing.T) {
	store := openStore(t)
	stats, err := store.Stats()
	if err != nil {
		t.Fatal(err)
	}
	if stats != (Stats{}) {
		t.Errorf("Stats() of empty index = %+v", stats)
	}
}

func TestDriverInfo(t *testing.T) {
	if DriverName() == "" || DriverType() == "" {
		t.Errorf("driver info empty: %q %q", DriverName(), DriverType())
	}
}
