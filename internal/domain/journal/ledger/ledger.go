package ledger

import (
	"sort"
	"time"
)

// Staff is one staff member of the journal and their payslips by year and month.
type Staff struct {
	ID   string
	Name string

	years map[int]map[time.Month]*Payslip
}

// GetOrCreate returns the payslip of a month, creating an empty one first when
// the month was not seen before.
func (s *Staff) GetOrCreate(year int, month time.Month) *Payslip {
	months, ok := s.years[year]
	if !ok {
		months = make(map[time.Month]*Payslip)
		s.years[year] = months
	}
	p, ok := months[month]
	if !ok {
		p = NewPayslip(s.ID, s.Name, year, month)
		months[month] = p
	}
	return p
}

// Lookup returns the payslip of a month without creating it.
func (s *Staff) Lookup(year int, month time.Month) (*Payslip, bool) {
	p, ok := s.years[year][month]
	return p, ok
}

// Payslips returns the staff member's payslips ordered by year, then month.
func (s *Staff) Payslips() []*Payslip {
	years := make([]int, 0, len(s.years))
	for y := range s.years {
		years = append(years, y)
	}
	sort.Ints(years)

	var out []*Payslip
	for _, y := range years {
		months := make([]time.Month, 0, len(s.years[y]))
		for m := range s.years[y] {
			months = append(months, m)
		}
		sort.Slice(months, func(i, j int) bool { return months[i] < months[j] })
		for _, m := range months {
			out = append(out, s.years[y][m])
		}
	}
	return out
}

// Ledger owns every payslip produced by one conversion. It is not safe for
// concurrent use.
type Ledger struct {
	staff map[string]*Staff
}

// New creates an empty ledger.
func New() *Ledger {
	return &Ledger{staff: make(map[string]*Staff)}
}

// Upsert registers a staff member. A known id keeps the name it was first
// registered with.
func (l *Ledger) Upsert(id, name string) *Staff {
	if s, ok := l.staff[id]; ok {
		return s
	}
	s := &Staff{ID: id, Name: name, years: make(map[int]map[time.Month]*Payslip)}
	l.staff[id] = s
	return s
}

// Staff returns a registered staff member.
func (l *Ledger) Staff(id string) (*Staff, bool) {
	s, ok := l.staff[id]
	return s, ok
}

// Len returns the number of registered staff members.
func (l *Ledger) Len() int {
	return len(l.staff)
}

// Payslips returns every payslip ordered by staff id, year and month.
func (l *Ledger) Payslips() []*Payslip {
	ids := make([]string, 0, len(l.staff))
	for id := range l.staff {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var out []*Payslip
	for _, id := range ids {
		out = append(out, l.staff[id].Payslips()...)
	}
	return out
}
