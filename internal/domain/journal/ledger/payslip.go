package ledger

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Line holds the raw columns of one journal data row. Every field except Code
// may be empty.
type Line struct {
	Code  string
	Days  string
	Hours string
	From  string
	To    string
	Unit  string
	Value string
	Gross string
}

// Sign is the polarity applied to amounts of the current journal section.
type Sign int

const (
	Positive Sign = 1
	Negative Sign = -1
)

// Decimal returns the sign as a multiplier.
func (s Sign) Decimal() decimal.Decimal {
	if s == Negative {
		return decimal.NewFromInt(-1)
	}
	return decimal.NewFromInt(1)
}

func (s Sign) String() string {
	if s == Negative {
		return "-"
	}
	return "+"
}

var (
	amountPattern = regexp.MustCompile(`^-?[0-9]+(,[0-9]+)?$`)
	hoursPattern  = regexp.MustCompile(`^(-?)([0-9]+)(?:,([0-9]{1,2}))?$`)
)

var sixty = decimal.NewFromInt(60)

// Payslip aggregates one staff member's journal lines for one month.
type Payslip struct {
	StaffID  string
	Name     string
	Year     int
	Month    time.Month
	Hours    decimal.Decimal
	Calendar *Calendar

	totals map[Category]decimal.Decimal
}

// NewPayslip creates an empty payslip with every category present at zero.
func NewPayslip(staffID, name string, year int, month time.Month) *Payslip {
	totals := make(map[Category]decimal.Decimal, len(categoryRules))
	for _, c := range Categories() {
		totals[c] = decimal.Zero
	}
	return &Payslip{
		StaffID:  staffID,
		Name:     name,
		Year:     year,
		Month:    month,
		Hours:    decimal.Zero,
		Calendar: NewCalendar(year, month),
		totals:   totals,
	}
}

// Total returns the running total of a category.
func (p *Payslip) Total(c Category) decimal.Decimal {
	return p.totals[c]
}

// Period returns the payslip's month as YYYY-MM.
func (p *Payslip) Period() string {
	return fmt.Sprintf("%d-%02d", p.Year, int(p.Month))
}

// Ingest adds one journal line to the payslip. Amount, calendar and hours are
// handled independently; every problem found is returned and the rest of the
// line is still applied.
func (p *Payslip) Ingest(line Line, sign Sign) []error {
	var errs []error

	amount := decimal.Zero
	if line.Value != "" {
		parsed, err := parseAmount(line.Value)
		if err != nil {
			errs = append(errs, p.fail(ErrUnparsableAmount, line.Code, line.Value))
		} else {
			amount = parsed.Mul(sign.Decimal())
		}
	}

	categories, ignored := MatchCode(line.Code)
	for _, c := range categories {
		p.totals[c] = p.totals[c].Add(amount)
	}
	if len(categories) == 0 && !ignored {
		errs = append(errs, p.fail(ErrUnmappedCode, line.Code, line.Value))
	}

	if line.From != "" {
		errs = append(errs, p.markCalendar(line)...)
	}

	if line.Hours != "" && CountsHours(line.Code) {
		hours, err := parseHours(line.Hours)
		if err != nil {
			errs = append(errs, p.fail(ErrUnparsableHours, line.Code, line.Hours))
		} else {
			p.Hours = p.Hours.Add(hours.Mul(sign.Decimal()))
		}
	}

	return errs
}

// markCalendar overlays the line's day range. An unmapped code yields one
// error per open day it targets.
func (p *Payslip) markCalendar(line Line) []error {
	days := line.From
	if line.To != "" {
		days += "-" + line.To
	}
	from, err := strconv.Atoi(line.From)
	if err != nil {
		return []error{p.fail(ErrDayOutOfRange, line.Code, days)}
	}
	to := 0
	if line.To != "" {
		if to, err = strconv.Atoi(line.To); err != nil {
			return []error{p.fail(ErrDayOutOfRange, line.Code, days)}
		}
	}

	err = p.Calendar.Set(line.Code, from, to)
	if err == nil {
		return nil
	}
	var unmapped *UnmappedDaysError
	if !errors.As(err, &unmapped) {
		return []error{p.fail(err, line.Code, days)}
	}
	errs := make([]error, 0, len(unmapped.Days))
	for _, day := range unmapped.Days {
		errs = append(errs, p.fail(ErrUnmappedCalendarCode, line.Code, strconv.Itoa(day)))
	}
	return errs
}

func (p *Payslip) fail(kind error, code, value string) *IngestError {
	return &IngestError{
		StaffID: p.StaffID,
		Name:    p.Name,
		Year:    p.Year,
		Month:   p.Month,
		Code:    code,
		Value:   value,
		Err:     kind,
	}
}

// parseAmount reads a decimal-comma amount such as "1234,56" or "-150,00".
func parseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if !amountPattern.MatchString(s) {
		return decimal.Zero, ErrUnparsableAmount
	}
	return decimal.NewFromString(strings.Replace(s, ",", ".", 1))
}

// parseHours reads "H,MM" where MM are minutes, giving hours with the minutes
// converted to a fraction rounded to three places.
func parseHours(s string) (decimal.Decimal, error) {
	m := hoursPattern.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return decimal.Zero, ErrUnparsableHours
	}
	whole, err := strconv.ParseInt(m[2], 10, 64)
	if err != nil {
		return decimal.Zero, ErrUnparsableHours
	}
	var minutes int64
	if m[3] != "" {
		if minutes, err = strconv.ParseInt(m[3], 10, 64); err != nil || minutes >= 60 {
			return decimal.Zero, ErrUnparsableHours
		}
	}
	hours := decimal.NewFromInt(whole).Add(decimal.NewFromInt(minutes).DivRound(sixty, 3))
	if m[1] == "-" {
		hours = hours.Neg()
	}
	return hours, nil
}
