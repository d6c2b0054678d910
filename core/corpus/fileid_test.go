package corpus

import (
	"sort"
	"testing"
)

func TestMkGlobalID(t *testing.T) {
	tests := []struct {
		name    string
		id      FileID
		localID string
		want    string
	}{
		{
			name:    "full key",
			id:      FileID{Doc: "game1", Subdoc: "05", Stage: StageUnits, Annotator: "pilot01"},
			localID: "stac_42",
			want:    "game1_05_units_stac_42",
		},
		{
			name:    "annotator never participates",
			id:      FileID{Doc: "game1", Subdoc: "05", Stage: StageUnits, Annotator: "pilot02"},
			localID: "stac_42",
			want:    "game1_05_units_stac_42",
		},
		{
			name:    "empty subdoc skipped",
			id:      FileID{Doc: "game1", Stage: StageDiscourse},
			localID: "stac_42",
			want:    "game1_discourse_stac_42",
		},
		{
			name:    "empty key passes local id through",
			id:      FileID{},
			localID: "stac_42",
			want:    "stac_42",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.id.MkGlobalID(tt.localID); got != tt.want {
				t.Errorf("MkGlobalID() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPartition(t *testing.T) {
	id := FileID{Doc: "game1", Subdoc: "05", Stage: StageUnits, Annotator: "pilot01"}
	doc, subdoc, stage := id.Partition()
	if doc != "game1" || subdoc != "05" || stage != "units" {
		t.Errorf("Partition() = %q, %q, %q", doc, subdoc, stage)
	}
}

func TestFileIDString(t *testing.T) {
	withAnnotator := FileID{Doc: "game1", Subdoc: "05", Stage: StageUnits, Annotator: "pilot01"}
	if got, want := withAnnotator.String(), "game1 [05] units pilot01"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
	unannotated := FileID{Doc: "game1", Subdoc: "05", Stage: StageUnannotated}
	if got, want := unannotated.String(), "game1 [05] unannotated"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestFileIDAsMapKey(t *testing.T) {
	m := map[FileID]int{}
	a := FileID{Doc: "game1", Subdoc: "05", Stage: StageUnits, Annotator: "pilot01"}
	b := FileID{Doc: "game1", Subdoc: "05", Stage: StageUnits, Annotator: "pilot01"}
	m[a] = 1
	if m[b] != 1 {
		t.Errorf("identical keys do not collide")
	}
	b.Annotator = "pilot02"
	if _, ok := m[b]; ok {
		t.Errorf("distinct annotators collide")
	}
}

func TestFileIDOrdering(t *testing.T) {
	ids := []FileID{
		{Doc: "game2", Subdoc: "01", Stage: StageUnits, Annotator: "pilot01"},
		{Doc: "game1", Subdoc: "05", Stage: StageUnits, Annotator: "pilot02"},
		{Doc: "game1", Subdoc: "05", Stage: StageUnits, Annotator: "pilot01"},
		{Doc: "game1", Subdoc: "05", Stage: StageDiscourse, Annotator: "pilot01"},
		{Doc: "game1", Subdoc: "01", Stage: StageUnits, Annotator: "pilot01"},
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i].less(ids[j]) })

	want := []FileID{
		{Doc: "game1", Subdoc: "01", Stage: StageUnits, Annotator: "pilot01"},
		{Doc: "game1", Subdoc: "05", Stage: StageDiscourse, Annotator: "pilot01"},
		{Doc: "game1", Subdoc: "05", Stage: StageUnits, Annotator: "pilot01"},
		{Doc: "game1", Subdoc: "05", Stage: StageUnits, Annotator: "pilot02"},
		{Doc: "game2", Subdoc: "01", Stage: StageUnits, Annotator: "pilot01"},
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Errorf("position %d = %v, want %v", i, ids[i], want[i])
		}
	}
}
