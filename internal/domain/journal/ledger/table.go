package ledger

import (
	"fmt"
	"reflect"
	"strconv"

	"github.com/gocarina/gocsv"
	"github.com/shopspring/decimal"
)

// MaxDays is the number of day columns of the table.
const MaxDays = 31

// PayslipRow is one row of the output table. Day columns past the end of a
// shorter month stay empty.
type PayslipRow struct {
	ID     string `csv:"id"`
	Name   string `csv:"name"`
	Year   int    `csv:"year"`
	Month  int    `csv:"month"`
	Hours  string `csv:"hours"`
	Gross  string `csv:"gross"`
	ONSS   string `csv:"onss"`
	Lunch  string `csv:"lunch"`
	Group  string `csv:"group"`
	Travel string `csv:"travel"`
	Costs  string `csv:"costs"`
	Yearly string `csv:"yearly"`

	Day1  string `csv:"1"`
	Day2  string `csv:"2"`
	Day3  string `csv:"3"`
	Day4  string `csv:"4"`
	Day5  string `csv:"5"`
	Day6  string `csv:"6"`
	Day7  string `csv:"7"`
	Day8  string `csv:"8"`
	Day9  string `csv:"9"`
	Day10 string `csv:"10"`
	Day11 string `csv:"11"`
	Day12 string `csv:"12"`
	Day13 string `csv:"13"`
	Day14 string `csv:"14"`
	Day15 string `csv:"15"`
	Day16 string `csv:"16"`
	Day17 string `csv:"17"`
	Day18 string `csv:"18"`
	Day19 string `csv:"19"`
	Day20 string `csv:"20"`
	Day21 string `csv:"21"`
	Day22 string `csv:"22"`
	Day23 string `csv:"23"`
	Day24 string `csv:"24"`
	Day25 string `csv:"25"`
	Day26 string `csv:"26"`
	Day27 string `csv:"27"`
	Day28 string `csv:"28"`
	Day29 string `csv:"29"`
	Day30 string `csv:"30"`
	Day31 string `csv:"31"`
}

// Day returns the marker cell of a day (1-based).
func (r PayslipRow) Day(day int) string {
	if day < 1 || day > MaxDays {
		return ""
	}
	return reflect.ValueOf(r).FieldByName("Day" + strconv.Itoa(day)).String()
}

func (r *PayslipRow) setDay(day int, m Marker) {
	reflect.ValueOf(r).Elem().FieldByName("Day" + strconv.Itoa(day)).SetString(string(m))
}

// Record returns the row's cells in column order.
func (r PayslipRow) Record() []string {
	v := reflect.ValueOf(r)
	out := make([]string, v.NumField())
	for i := range out {
		f := v.Field(i)
		if f.Kind() == reflect.Int {
			out[i] = strconv.FormatInt(f.Int(), 10)
			continue
		}
		out[i] = f.String()
	}
	return out
}

// Header returns the column names in order.
func Header() []string {
	t := reflect.TypeOf(PayslipRow{})
	out := make([]string, t.NumField())
	for i := range out {
		out[i] = t.Field(i).Tag.Get("csv")
	}
	return out
}

// NewPayslipRow flattens a payslip.
func NewPayslipRow(p *Payslip) PayslipRow {
	row := PayslipRow{
		ID:     p.StaffID,
		Name:   p.Name,
		Year:   p.Year,
		Month:  int(p.Month),
		Hours:  FormatDecimal(p.Hours),
		Gross:  FormatDecimal(p.Total(Gross)),
		ONSS:   FormatDecimal(p.Total(ONSS)),
		Lunch:  FormatDecimal(p.Total(Lunch)),
		Group:  FormatDecimal(p.Total(Group)),
		Travel: FormatDecimal(p.Total(Travel)),
		Costs:  FormatDecimal(p.Total(Costs)),
		Yearly: FormatDecimal(p.Total(Yearly)),
	}
	for day := 1; day <= p.Calendar.Len(); day++ {
		row.setDay(day, p.Calendar.Day(day))
	}
	return row
}

// Rows flattens the ledger in staff id, year, month order.
func (l *Ledger) Rows() []PayslipRow {
	payslips := l.Payslips()
	rows := make([]PayslipRow, len(payslips))
	for i, p := range payslips {
		rows[i] = NewPayslipRow(p)
	}
	return rows
}

// MarshalCSV renders the ledger as comma-separated values with a header row.
func (l *Ledger) MarshalCSV() (string, error) {
	rows := l.Rows()
	out, err := gocsv.MarshalString(&rows)
	if err != nil {
		return "", fmt.Errorf("failed to marshal payslips: %w", err)
	}
	return out, nil
}

// FormatDecimal renders a decimal in plain notation, keeping the scale the
// arithmetic produced ("100.00" stays "100.00", "0" stays "0").
func FormatDecimal(d decimal.Decimal) string {
	if exp := d.Exponent(); exp < 0 {
		return d.StringFixed(-exp)
	}
	return d.String()
}
