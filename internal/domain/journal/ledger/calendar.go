package ledger

import "time"

// Calendar holds one attendance marker per day of a single month.
type Calendar struct {
	year  int
	month time.Month
	days  []Marker // index 0 is day 1
}

// NewCalendar creates the day grid for a month, with Saturdays and Sundays
// defaulted to Weekend and every other day to Ordinary.
func NewCalendar(year int, month time.Month) *Calendar {
	n := DaysIn(year, month)
	c := &Calendar{year: year, month: month, days: make([]Marker, n)}
	for i := range c.days {
		switch time.Date(year, month, i+1, 0, 0, 0, 0, time.UTC).Weekday() {
		case time.Saturday, time.Sunday:
			c.days[i] = Weekend
		default:
			c.days[i] = Ordinary
		}
	}
	return c
}

// DaysIn returns the number of days of the month, leap years included.
func DaysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// Len returns the number of days in the calendar.
func (c *Calendar) Len() int {
	return len(c.days)
}

// Day returns the marker of a day (1-based). Days outside the month are Ordinary.
func (c *Calendar) Day(day int) Marker {
	if day < 1 || day > len(c.days) {
		return Ordinary
	}
	return c.days[day-1]
}

// Set marks the days from..to (inclusive) with the marker of code. A to of 0
// means the single day from. Only days still Ordinary are written, so the
// first non-ordinary marker on a day wins. When the code has no marker, an
// *UnmappedDaysError lists every targeted day that was still open.
func (c *Calendar) Set(code string, from, to int) error {
	if to == 0 {
		to = from
	}
	if from < 1 || to > len(c.days) || to < from {
		return ErrDayOutOfRange
	}

	var unmapped []int
	for day := from; day <= to; day++ {
		if c.days[day-1] != Ordinary {
			continue
		}
		marker, ok := AttendanceMarker(code)
		if !ok {
			unmapped = append(unmapped, day)
			continue
		}
		c.days[day-1] = marker
	}
	if len(unmapped) > 0 {
		return &UnmappedDaysError{Days: unmapped}
	}
	return nil
}
