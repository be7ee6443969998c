package ledger

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrUnparsableAmount     = errors.New("value could not be parsed")
	ErrUnparsableHours      = errors.New("hours could not be parsed")
	ErrUnmappedCode         = errors.New("code neither handled nor explicitly ignored")
	ErrUnmappedCalendarCode = errors.New("could not map code to calendar")
	ErrDayOutOfRange        = errors.New("day outside of month")
)

// IngestError describes one problem found while ingesting a journal line into
// a payslip. Err is one of the sentinel errors above.
type IngestError struct {
	StaffID string
	Name    string
	Year    int
	Month   time.Month
	Code    string
	Value   string
	Err     error
}

func (e *IngestError) Error() string {
	prefix := fmt.Sprintf("%s %s %d/%02d", e.StaffID, e.Name, e.Year, int(e.Month))
	switch e.Err {
	case ErrUnparsableAmount:
		return fmt.Sprintf("%s: value '%s' for code '%s' could not be parsed", prefix, e.Value, e.Code)
	case ErrUnparsableHours:
		return fmt.Sprintf("%s: hours '%s' for code '%s' could not be parsed", prefix, e.Value, e.Code)
	case ErrUnmappedCode:
		return fmt.Sprintf("%s: code '%s' neither handled nor explicitly ignored", prefix, e.Code)
	case ErrUnmappedCalendarCode:
		return fmt.Sprintf("%s: could not map '%s' to calendar", prefix, e.Code)
	case ErrDayOutOfRange:
		return fmt.Sprintf("%s: days '%s' for code '%s' are outside of the month", prefix, e.Value, e.Code)
	default:
		return fmt.Sprintf("%s: code '%s': %v", prefix, e.Code, e.Err)
	}
}

func (e *IngestError) Unwrap() error {
	return e.Err
}

// UnmappedDaysError holds the open days targeted by a code that has no
// attendance marker.
type UnmappedDaysError struct {
	Days []int
}

func (e *UnmappedDaysError) Error() string {
	return fmt.Sprintf("%v: days %v", ErrUnmappedCalendarCode, e.Days)
}

func (e *UnmappedDaysError) Unwrap() error {
	return ErrUnmappedCalendarCode
}
