package repository

// Period selects the date window of the calendar view.
type Period string

const (
	PeriodDaily   Period = "daily"
	PeriodWeekly  Period = "weekly"
	PeriodMonthly Period = "monthly"
)

// WindowDays is the inclusive look-ahead for each known period.
func (p Period) WindowDays() (int, bool) {
	switch p {
	case PeriodDaily:
		return 0, true
	case PeriodWeekly:
		return 7, true
	case PeriodMonthly:
		return 30, true
	default:
		return 0, false
	}
}

// DefaultPeriod returns the period used when none is requested.
func DefaultPeriod() Period { return PeriodDaily }

// NormalizePeriod maps an empty string to the default. Unknown values are kept
// as-is; the filter treats them as "no date window".
func NormalizePeriod(s string) Period {
	if s == "" {
		return DefaultPeriod()
	}
	return Period(s)
}
