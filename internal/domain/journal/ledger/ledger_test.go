package ledger

import (
	"strings"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLedger_UpsertKeepsFirstName(t *testing.T) {
	l := New()
	first := strings.ToUpper(gofakeit.LastName())

	s := l.Upsert("123456", first)
	again := l.Upsert("123456", first+"X")

	assert.Same(t, s, again)
	assert.Equal(t, first, again.Name)
	assert.Equal(t, 1, l.Len())
}

func TestStaff_GetOrCreate(t *testing.T) {
	l := New()
	s := l.Upsert("123456", "DUPONT")

	_, ok := s.Lookup(2024, time.March)
	assert.False(t, ok, "lookup must not create")

	p := s.GetOrCreate(2024, time.March)
	require.NotNil(t, p)
	assert.Same(t, p, s.GetOrCreate(2024, time.March))
	assert.Equal(t, "DUPONT", p.Name)
	assert.Equal(t, 2024, p.Year)
	assert.Equal(t, time.March, p.Month)

	found, ok := s.Lookup(2024, time.March)
	assert.True(t, ok)
	assert.Same(t, p, found)
}

func TestLedger_PayslipsOrder(t *testing.T) {
	l := New()
	b := l.Upsert("200000", strings.ToUpper(gofakeit.LastName()))
	a := l.Upsert("100000", strings.ToUpper(gofakeit.LastName()))

	b.GetOrCreate(2024, time.January)
	a.GetOrCreate(2024, time.October)
	a.GetOrCreate(2024, time.March)
	a.GetOrCreate(2023, time.December)

	var got []string
	for _, p := range l.Payslips() {
		got = append(got, p.StaffID+" "+p.Period())
	}
	assert.Equal(t, []string{
		"100000 2023-12",
		"100000 2024-03",
		"100000 2024-10",
		"200000 2024-01",
	}, got)
}

func TestLedger_StaffWithoutPayslips(t *testing.T) {
	l := New()
	l.Upsert("123456", "DUPONT")

	assert.Empty(t, l.Payslips())
	s, ok := l.Staff("123456")
	require.True(t, ok)
	assert.Empty(t, s.Payslips())

	_, ok = l.Staff("654321")
	assert.False(t, ok)
}
