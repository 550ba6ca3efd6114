// Package calendar maps instants onto leaderboard bucket boundaries.
//
// All leaderboard time math happens at a fixed UTC-4 offset. Daylight
// savings is intentionally not tracked: bucket boundaries must be stable
// year round, and the original deployments always ran the servers against
// this offset.
package calendar

import "time"

var fixedZone = time.FixedZone("UTC-4", -4*60*60)

// Zone returns the fixed leaderboard time zone.
func Zone() *time.Location {
	return fixedZone
}

// Now returns the current instant in the leaderboard time zone.
func Now() time.Time {
	return time.Now().In(fixedZone)
}

// Range is a half-open interval [Start, End). A zero bound means the range
// is unbounded on that side; the all-time bucket is unbounded on both.
type Range struct {
	Start time.Time
	End   time.Time
}

// Unbounded reports whether the range has no lower bound.
func (r Range) Unbounded() bool {
	return r.Start.IsZero()
}

// Contains reports whether t falls inside the range.
func (r Range) Contains(t time.Time) bool {
	if !r.Start.IsZero() && t.Before(r.Start) {
		return false
	}
	if !r.End.IsZero() && !t.Before(r.End) {
		return false
	}
	return true
}

// midnight truncates t to the start of its calendar day in the fixed zone.
func midnight(t time.Time) time.Time {
	t = t.In(fixedZone)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, fixedZone)
}

// weekStart truncates t to midnight of the Sunday its week began on.
func weekStart(t time.Time) time.Time {
	t = t.In(fixedZone)
	return midnight(t.AddDate(0, 0, -int(t.Weekday())))
}

// monthStart truncates t to midnight of the first of its month.
func monthStart(t time.Time) time.Time {
	t = t.In(fixedZone)
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, fixedZone)
}

// yearStart truncates t to midnight of January 1 of its year.
func yearStart(t time.Time) time.Time {
	t = t.In(fixedZone)
	return time.Date(t.Year(), time.January, 1, 0, 0, 0, 0, fixedZone)
}

// SameBucket reports whether a and b fall into the same bucket of p.
func SameBucket(p Period, a, b time.Time) bool {
	a, b = a.In(fixedZone), b.In(fixedZone)
	switch p {
	case Daily:
		return midnight(a).Equal(midnight(b))
	case Weekly:
		return weekStart(a).Equal(weekStart(b))
	case Monthly:
		return a.Year() == b.Year() && a.Month() == b.Month()
	case Seasonally:
		// Season boundaries fall mid-month, so classify by boundary date
		// and pin down which year's instance of the season it was.
		return SeasonOf(a) == SeasonOf(b) &&
			seasonStart(SeasonOf(a), a).Equal(seasonStart(SeasonOf(b), b))
	case Yearly:
		return a.Year() == b.Year()
	default: // AllTime
		return true
	}
}

// FullRange returns the complete bucket of p containing t.
func FullRange(p Period, t time.Time) Range {
	t = t.In(fixedZone)
	switch p {
	case Daily:
		start := midnight(t)
		return Range{Start: start, End: start.AddDate(0, 0, 1)}
	case Weekly:
		start := weekStart(t)
		return Range{Start: start, End: start.AddDate(0, 0, 7)}
	case Monthly:
		start := monthStart(t)
		return Range{Start: start, End: start.AddDate(0, 1, 0)}
	case Seasonally:
		season := SeasonOf(t)
		start := seasonStart(season, t)
		return Range{Start: start, End: seasonEnd(season, start)}
	case Yearly:
		start := yearStart(t)
		return Range{Start: start, End: start.AddDate(1, 0, 0)}
	default: // AllTime
		return Range{}
	}
}
