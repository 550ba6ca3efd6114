package calendar

import "fmt"

// Period identifies one of the six leaderboard time windows. The serialized
// form is SCREAMING_SNAKE_CASE, matching the cache key and API tags.
type Period string

const (
	Daily      Period = "DAILY"
	Weekly     Period = "WEEKLY"
	Monthly    Period = "MONTHLY"
	Seasonally Period = "SEASONALLY"
	Yearly     Period = "YEARLY"
	AllTime    Period = "ALL_TIME"
)

// Periods returns every period, most granular first.
func Periods() []Period {
	return []Period{Daily, Weekly, Monthly, Seasonally, Yearly, AllTime}
}

// MostGranular returns the period at which the entry log is keyed.
func MostGranular() Period {
	return Daily
}

// ParsePeriod converts a SCREAMING_SNAKE_CASE tag into a Period.
func ParsePeriod(s string) (Period, error) {
	switch Period(s) {
	case Daily, Weekly, Monthly, Seasonally, Yearly, AllTime:
		return Period(s), nil
	}
	return "", fmt.Errorf("unknown leaderboard period %q", s)
}

func (p Period) String() string {
	return string(p)
}
