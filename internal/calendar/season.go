package calendar

import "time"

// Season is a northern-hemisphere season. Seasons roll over on fixed
// calendar dates rather than astronomical instants.
type Season string

const (
	Spring Season = "spring"
	Summer Season = "summer"
	Autumn Season = "autumn"
	Winter Season = "winter"
)

// startDay returns the month and day a season begins on in any given year.
func (s Season) startDay() (time.Month, int) {
	switch s {
	case Spring:
		return time.March, 20
	case Summer:
		return time.June, 20
	case Autumn:
		return time.September, 22
	default:
		return time.December, 21
	}
}

// Next returns the season that follows s.
func (s Season) Next() Season {
	switch s {
	case Spring:
		return Summer
	case Summer:
		return Autumn
	case Autumn:
		return Winter
	default:
		return Spring
	}
}

// SeasonOf classifies an instant by the most recent season boundary at or
// before it. Instants before March 20 belong to the previous year's winter.
func SeasonOf(t time.Time) Season {
	t = t.In(Zone())
	boundary := func(s Season) time.Time {
		month, day := s.startDay()
		return time.Date(t.Year(), month, day, 0, 0, 0, 0, Zone())
	}
	switch {
	case t.Before(boundary(Spring)):
		return Winter
	case t.Before(boundary(Summer)):
		return Spring
	case t.Before(boundary(Autumn)):
		return Summer
	case t.Before(boundary(Winter)):
		return Autumn
	default:
		return Winter
	}
}

// seasonStart returns the most recent start of season s at or before t, at
// midnight. When the boundary for t's year is still in the future the season
// began the year before.
func seasonStart(s Season, t time.Time) time.Time {
	month, day := s.startDay()
	year := t.Year()
	if month > t.Month() || (month == t.Month() && day > t.Day()) {
		year--
	}
	return time.Date(year, month, day, 0, 0, 0, 0, Zone())
}

// seasonEnd returns the first season boundary strictly after start.
func seasonEnd(s Season, start time.Time) time.Time {
	month, day := s.Next().startDay()
	end := time.Date(start.Year(), month, day, 0, 0, 0, 0, Zone())
	if !end.After(start) {
		end = end.AddDate(1, 0, 0)
	}
	return end
}
