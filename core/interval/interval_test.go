package interval

import (
	"testing"
	"time"
)

var base = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func span(startH, endH int) Span {
	return Span{Start: base.Add(time.Duration(startH) * time.Hour), End: base.Add(time.Duration(endH) * time.Hour)}
}

func TestOverlapIndex(t *testing.T) {
	existing := []Span{span(0, 2), span(10, 12)}

	tests := []struct {
		name      string
		candidate Span
		want      int
	}{
		{"disjoint between", span(4, 6), -1},
		{"disjoint before", span(-3, -1), -1},
		{"existing start inside candidate", span(1, 3), 0},
		{"existing end inside candidate", span(-1, 1), 0},
		{"candidate contained in existing", span(10, 11), 1},
		{"candidate contains existing", span(9, 13), 1},
		{"touching end boundary counts", span(2, 4), 0},
		{"touching start boundary counts", span(-2, 0), 0},
		{"second span matched", span(11, 14), 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := OverlapIndex(existing, tt.candidate); got != tt.want {
				t.Errorf("OverlapIndex() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestOverlapIndexEmptySet(t *testing.T) {
	if got := OverlapIndex(nil, span(0, 2)); got != -1 {
		t.Errorf("OverlapIndex(nil) = %d, want -1", got)
	}
	if got := OverlapIndex([]Span{}, span(0, 2)); got != -1 {
		t.Errorf("OverlapIndex(empty) = %d, want -1", got)
	}
}

func TestSufficientOverlap(t *testing.T) {
	tests := []struct {
		name string
		a, b Span
		min  time.Duration
		want bool
	}{
		{"b inside a's tail", span(0, 4), span(3, 6), time.Hour, true},
		{"a inside b's tail", span(3, 6), span(0, 4), time.Hour, true},
		{"b fully inside a", span(0, 6), span(2, 4), 2 * time.Hour, true},
		{"exactly threshold accepted", span(0, 4), span(3, 6), time.Hour, true},
		{"below threshold rejected", span(0, 4), span(3, 6), 2 * time.Hour, false},
		{"no overlap", span(0, 2), span(3, 5), time.Hour, false},
		{"touching only", span(0, 2), span(2, 4), time.Hour, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SufficientOverlap(tt.a, tt.b, tt.min); got != tt.want {
				t.Errorf("SufficientOverlap() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSufficientOverlapContainedSymmetric(t *testing.T) {
	a, b := span(0, 6), span(2, 4)
	if SufficientOverlap(a, b, time.Hour) != SufficientOverlap(b, a, time.Hour) {
		t.Error("contained case should be symmetric under role swap")
	}
}

func TestWithinFutureWindow(t *testing.T) {
	ref := time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		candidate time.Time
		months    int
		want      bool
	}{
		{"equal to reference", ref, 6, true},
		{"before reference", ref.Add(-time.Second), 6, false},
		{"well inside window", ref.AddDate(0, 3, 0), 6, true},
		{"exact window edge", ref.AddDate(0, 6, 0), 6, true},
		{"past window edge", ref.AddDate(0, 6, 0).Add(time.Second), 6, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := WithinFutureWindow(ref, tt.candidate, tt.months); got != tt.want {
				t.Errorf("WithinFutureWindow() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestWithinFutureWindowCalendarAware(t *testing.T) {
	// One calendar month from Feb 1 is Mar 1, regardless of February's length.
	ref := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	edge := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	if !WithinFutureWindow(ref, edge, 1) {
		t.Error("calendar month edge should be inside the window")
	}
	if WithinFutureWindow(ref, edge.Add(time.Minute), 1) {
		t.Error("past the calendar month edge should be outside the window")
	}
}
