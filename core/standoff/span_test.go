package standoff

import (
	"errors"
	"sort"
	"testing"
)

func TestNewSpan(t *testing.T) {
	tests := []struct {
		name    string
		start   int
		end     int
		wantErr bool
	}{
		{"simple", 0, 5, false},
		{"empty", 3, 3, false},
		{"zero", 0, 0, false},
		{"negative start", -1, 5, true},
		{"inverted", 5, 2, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sp, err := NewSpan(tt.start, tt.end)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewSpan(%d, %d) error = %v, wantErr %v", tt.start, tt.end, err, tt.wantErr)
			}
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidSpan) {
					t.Errorf("NewSpan(%d, %d) error = %v, want ErrInvalidSpan", tt.start, tt.end, err)
				}
				return
			}
			if sp.CharStart != tt.start || sp.CharEnd != tt.end {
				t.Errorf("NewSpan(%d, %d) = %v", tt.start, tt.end, sp)
			}
		})
	}
}

func TestSpanLength(t *testing.T) {
	tests := []struct {
		name string
		span Span
		want int
	}{
		{"simple", Span{3, 9}, 6},
		{"empty", Span{4, 4}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.span.Length(); got != tt.want {
				t.Errorf("Length() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestSpanShift(t *testing.T) {
	sp := Span{3, 7}

	got := sp.Shift(5)
	if got != (Span{8, 12}) {
		t.Errorf("Shift(5) = %v, want (8,12)", got)
	}
	if got.Length() != sp.Length() {
		t.Errorf("Shift changed length: %d != %d", got.Length(), sp.Length())
	}
	if back := got.Shift(-5); back != sp {
		t.Errorf("Shift(5).Shift(-5) = %v, want %v", back, sp)
	}
}

func TestSpanAbsoluteRelative(t *testing.T) {
	frame := Span{10, 50}
	inner := Span{2, 6}

	abs := inner.Absolute(frame)
	if abs != (Span{12, 16}) {
		t.Errorf("Absolute(%v) = %v, want (12,16)", frame, abs)
	}
	if rel := abs.Relative(frame); rel != inner {
		t.Errorf("Absolute then Relative = %v, want %v", rel, inner)
	}
}

func TestSpanEncloses(t *testing.T) {
	tests := []struct {
		name  string
		outer Span
		inner *Span
		want  bool
	}{
		{"proper containment", Span{0, 10}, &Span{2, 5}, true},
		{"itself", Span{2, 5}, &Span{2, 5}, true},
		{"shared start", Span{2, 10}, &Span{2, 5}, true},
		{"shared end", Span{0, 5}, &Span{2, 5}, true},
		{"overhang left", Span{2, 10}, &Span{0, 5}, false},
		{"overhang right", Span{0, 5}, &Span{2, 8}, false},
		{"disjoint", Span{0, 3}, &Span{5, 8}, false},
		{"nil", Span{0, 10}, nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.outer.Encloses(tt.inner); got != tt.want {
				t.Errorf("%v.Encloses(%v) = %v, want %v", tt.outer, tt.inner, got, tt.want)
			}
		})
	}
}

func TestSpanOverlaps(t *testing.T) {
	tests := []struct {
		name   string
		a      Span
		b      *Span
		want   Span
		wantOK bool
	}{
		{"partial", Span{0, 5}, &Span{3, 8}, Span{3, 5}, true},
		{"containment", Span{0, 10}, &Span{2, 5}, Span{2, 5}, true},
		{"identical", Span{2, 5}, &Span{2, 5}, Span{2, 5}, true},
		{"touching", Span{0, 3}, &Span{3, 6}, Span{}, false},
		{"disjoint", Span{0, 3}, &Span{5, 8}, Span{}, false},
		{"nil", Span{0, 3}, nil, Span{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.a.Overlaps(tt.b)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("%v.Overlaps(%v) = %v, %v, want %v, %v", tt.a, tt.b, got, ok, tt.want, tt.wantOK)
			}
			if tt.b == nil {
				return
			}
			// Overlap is symmetric.
			rev, revOK := tt.b.Overlaps(&tt.a)
			if revOK != ok || rev != got {
				t.Errorf("Overlaps not symmetric: %v vs %v", got, rev)
			}
		})
	}
}

func TestSpanMerge(t *testing.T) {
	tests := []struct {
		name string
		a, b Span
		want Span
	}{
		{"overlapping", Span{0, 5}, Span{3, 8}, Span{0, 8}},
		{"disjoint hull", Span{0, 3}, Span{7, 9}, Span{0, 9}},
		{"nested", Span{0, 10}, Span{2, 5}, Span{0, 10}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Merge(tt.b); got != tt.want {
				t.Errorf("%v.Merge(%v) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
			if rev := tt.b.Merge(tt.a); rev != tt.want {
				t.Errorf("Merge not commutative: %v vs %v", tt.want, rev)
			}
		})
	}
}

func TestSpanOrdering(t *testing.T) {
	spans := []Span{{5, 9}, {0, 7}, {5, 6}, {0, 3}}
	sort.Slice(spans, func(i, j int) bool { return spans[i].Before(spans[j]) })

	want := []Span{{0, 3}, {0, 7}, {5, 6}, {5, 9}}
	for i := range want {
		if spans[i] != want[i] {
			t.Fatalf("sorted spans = %v, want %v", spans, want)
		}
	}

	if (Span{2, 5}).Compare(Span{2, 5}) != 0 {
		t.Errorf("Compare(self) != 0")
	}
	if (Span{2, 5}).Before(Span{2, 5}) {
		t.Errorf("Before(self) = true")
	}
}

func TestSpanString(t *testing.T) {
	if got := (Span{3, 12}).String(); got != "(3,12)" {
		t.Errorf("String() = %q, want %q", got, "(3,12)")
	}
}
