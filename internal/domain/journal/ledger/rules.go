// Package ledger aggregates payroll journal lines into one payslip per staff
// member and calendar month, and renders the result as a flat table.
package ledger

import "regexp"

// Category is a monetary aggregation bucket of a payslip.
type Category string

const (
	Gross  Category = "gross"  // gross salary
	ONSS   Category = "onss"   // employer's part of social security
	Lunch  Category = "lunch"  // employer's part of lunch vouchers
	Group  Category = "group"  // group insurance premium
	Travel Category = "travel" // home-to-work travel costs
	Costs  Category = "costs"  // other reimbursed costs
	Yearly Category = "yearly" // year-end premium, double holiday pay, ...
)

type categoryRule struct {
	category Category
	pattern  *regexp.Regexp
}

// categoryRules is evaluated exhaustively: one code may feed several categories.
var categoryRules = []categoryRule{
	{Gross, regexp.MustCompile(`^0[0-9]{2}`)},
	{ONSS, regexp.MustCompile(`^(58[013]|577)`)},
	{Lunch, regexp.MustCompile(`^984`)},
	{Group, regexp.MustCompile(`^902`)},
	{Travel, regexp.MustCompile(`^85[01]-[0-9]{2}`)},
	{Costs, regexp.MustCompile(`^857-[0-9]{2}`)},
	{Yearly, regexp.MustCompile(`^3[0-9]{2}`)},
}

// ignoredRules are codes that are known and deliberately not aggregated.
var ignoredRules = []*regexp.Regexp{
	regexp.MustCompile(`^135`),
	regexp.MustCompile(`^2[2348]`),
	regexp.MustCompile(`^477`),
	regexp.MustCompile(`^57`),
	regexp.MustCompile(`^59`),
	regexp.MustCompile(`^800`),
	regexp.MustCompile(`^814`),
	regexp.MustCompile(`^83`),
	regexp.MustCompile(`^94`),
	regexp.MustCompile(`^98`),
}

// hoursRule selects the codes whose hour column counts as worked time.
var hoursRule = regexp.MustCompile(`^00[12]`)

// Categories returns the category keys in column order.
func Categories() []Category {
	out := make([]Category, len(categoryRules))
	for i, r := range categoryRules {
		out[i] = r.category
	}
	return out
}

// MatchCode returns every category the code feeds, and whether it is on the
// ignore list. Both may be set for the same code.
func MatchCode(code string) (categories []Category, ignored bool) {
	for _, r := range categoryRules {
		if r.pattern.MatchString(code) {
			categories = append(categories, r.category)
		}
	}
	for _, re := range ignoredRules {
		if re.MatchString(code) {
			ignored = true
			break
		}
	}
	return categories, ignored
}

// CountsHours reports whether the hour column of a line with this code is
// added to the worked hours.
func CountsHours(code string) bool {
	return hoursRule.MatchString(code)
}

// Marker is the attendance tag rendered in a calendar day cell.
type Marker string

const (
	Ordinary      Marker = ""   // worked, or nothing known
	Weekend       Marker = "WE" // non-business day
	PublicHoliday Marker = "PH"
	ExtraHoliday  Marker = "AH" // extra or legal holiday, unpaid leave
	SickLeave     Marker = "SL"
	FamilyAbsence Marker = "OA" // absence for family reasons
)

var attendanceCodes = map[string]Marker{
	"001":    Ordinary,
	"002":    Ordinary,
	"002-08": Ordinary, // from home
	"006":    PublicHoliday,
	"006-49": Ordinary, // public holiday worked
	"007":    ExtraHoliday,
	"011-04": ExtraHoliday,
	"013":    SickLeave,
	"013-23": SickLeave,
	"016":    ExtraHoliday,
	"135":    FamilyAbsence,
	"158":    ExtraHoliday, // unpaid leave
}

// AttendanceMarker maps a code to the marker it puts on the days it covers.
func AttendanceMarker(code string) (Marker, bool) {
	m, ok := attendanceCodes[code]
	return m, ok
}
