// Package parser classifies the text lines of a payroll journal and feeds them
// into a ledger, carrying the period, staff member and sign across lines.
package parser

import (
	"regexp"
	"strconv"
	"time"

	"github.com/FACorreiaa/payroll-journal/internal/domain/journal/ledger"
)

// Role is the kind of a journal line.
type Role int

const (
	Unclassified Role = iota
	MonthHeader
	StaffHeader
	SectionBoundary
	NegativeMarker
	DataRow
)

// Roles lists every role, Unclassified first.
func Roles() []Role {
	return []Role{Unclassified, MonthHeader, StaffHeader, SectionBoundary, NegativeMarker, DataRow}
}

func (r Role) String() string {
	switch r {
	case MonthHeader:
		return "month_header"
	case StaffHeader:
		return "staff_header"
	case SectionBoundary:
		return "section_boundary"
	case NegativeMarker:
		return "negative_marker"
	case DataRow:
		return "data_row"
	default:
		return "unclassified"
	}
}

// Journal line grammar. The table is drawn with box characters, so every
// staff, section and data line starts with a vertical border.
var (
	monthHeaderPattern = regexp.MustCompile(
		`^\s*N[°r]\s+[0-9 -]+\s+(?:du|van)\s+(?P<day>[0-9]+)/(?P<month>[0-9]+)/(?P<year>[0-9]+)`)
	staffHeaderPattern = regexp.MustCompile(
		`^│(?P<id>[0-9]{6}) (?P<name>[\p{L}\p{N}_]+)`)
	sectionBoundaryPattern = regexp.MustCompile(
		`^│\s*│\s*$`)
	negativeMarkerPattern = regexp.MustCompile(
		`^│\s*NEGATIE?F`)
	dataRowPattern = regexp.MustCompile(
		`^│[VZ ]│\s*(?P<code>[0-9]{3}(?:-[0-9]{2})?)(?:\s(?P<days>[0-9-]+))?\s*│` +
			`\s*(?P<hours>[C0-9,-]*)\s*│` +
			`\s*(?P<from>[0-9]*)(?:\s*-\s*(?P<to>[0-9]+))?\s*│` +
			`\s*(?P<unit>[0-9,-]*)\s*│` +
			`(?:\s*[0-9,-]*\s*│){3}` +
			`\s*(?P<value>[0-9,-]*)\s*│` +
			`\s*(?P<gross>[0-9,-]*)\s*│`)
)

// Classification is the role of one line and the fields it carries.
type Classification struct {
	Role Role

	// MonthHeader
	Day   int
	Month time.Month
	Year  int

	// StaffHeader
	StaffID string
	Name    string

	// DataRow
	Line ledger.Line
}

// Classify determines the role of a line. Shapes are tried in a fixed order:
// month header, staff header, section boundary, negative marker, data row.
func Classify(text string) Classification {
	if m := match(monthHeaderPattern, text); m != nil {
		day, _ := strconv.Atoi(m["day"])
		month, _ := strconv.Atoi(m["month"])
		year, _ := strconv.Atoi(m["year"])
		if month < 1 || month > 12 || year < 1 {
			return Classification{Role: Unclassified}
		}
		return Classification{Role: MonthHeader, Day: day, Month: time.Month(month), Year: year}
	}
	if m := match(staffHeaderPattern, text); m != nil {
		return Classification{Role: StaffHeader, StaffID: m["id"], Name: m["name"]}
	}
	if sectionBoundaryPattern.MatchString(text) {
		return Classification{Role: SectionBoundary}
	}
	if negativeMarkerPattern.MatchString(text) {
		return Classification{Role: NegativeMarker}
	}
	if m := match(dataRowPattern, text); m != nil {
		return Classification{Role: DataRow, Line: ledger.Line{
			Code:  m["code"],
			Days:  m["days"],
			Hours: m["hours"],
			From:  m["from"],
			To:    m["to"],
			Unit:  m["unit"],
			Value: m["value"],
			Gross: m["gross"],
		}}
	}
	return Classification{Role: Unclassified}
}

func match(re *regexp.Regexp, text string) map[string]string {
	sub := re.FindStringSubmatch(text)
	if sub == nil {
		return nil
	}
	out := make(map[string]string, len(sub))
	for i, name := range re.SubexpNames() {
		if name != "" {
			out[name] = sub[i]
		}
	}
	return out
}
