// Package interval holds the pure time-interval math shared by the
// availability, suggestion and vote paths. No state, no I/O.
package interval

import "time"

// Span is a [Start, End) time interval.
type Span struct {
	Start time.Time
	End   time.Time
}

func (s Span) Duration() time.Duration {
	return s.End.Sub(s.Start)
}

// within reports t in [start, end], boundary-inclusive.
func within(t, start, end time.Time) bool {
	return !t.Before(start) && !t.After(end)
}

// OverlapIndex returns the index of the first span in existing that overlaps
// the candidate: its start or end falls within the candidate's bounds, or it
// fully contains the candidate. Touching boundaries count as overlap.
// Returns -1 when nothing overlaps (including an empty set).
func OverlapIndex(existing []Span, candidate Span) int {
	for i, e := range existing {
		if within(e.Start, candidate.Start, candidate.End) ||
			within(e.End, candidate.Start, candidate.End) ||
			(e.Start.Before(candidate.Start) && e.End.After(candidate.End)) {
			return i
		}
	}
	return -1
}

// SufficientOverlap reports whether the overlapping portion of a and b lasts
// at least min. An overlap of exactly min is accepted.
func SufficientOverlap(a, b Span, min time.Duration) bool {
	start := a.Start
	if b.Start.After(start) {
		start = b.Start
	}
	end := a.End
	if b.End.Before(end) {
		end = b.End
	}
	return end.Sub(start) >= min
}

// WithinFutureWindow reports whether candidate falls in
// [reference, reference + maxMonthsAhead]. The window is calendar-aware:
// months have varying lengths, so this is not a fixed millisecond multiple.
func WithinFutureWindow(reference, candidate time.Time, maxMonthsAhead int) bool {
	if candidate.Before(reference) {
		return false
	}
	return !candidate.After(reference.AddDate(0, maxMonthsAhead, 0))
}
