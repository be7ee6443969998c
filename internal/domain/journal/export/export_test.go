package export

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/FACorreiaa/payroll-journal/internal/domain/journal/ledger"
	"github.com/FACorreiaa/payroll-journal/internal/domain/journal/parser"
)

func convert(t *testing.T, lines ...string) *parser.Result {
	t.Helper()
	s := parser.NewSession()
	s.ParseLines(lines)
	res, err := s.Result()
	require.NoError(t, err)
	return res
}

func TestWrite(t *testing.T) {
	res := convert(t,
		"Nr 004512 van 01/03/2024 tot 31/03/2024",
		"│004217 DUPONT",
		"│ │ 010 │  │  │ │ │ │ │ 1000,50 │ │",
		"│ │ 013 │  │ 4-5 │ │ │ │ │  │ │",
		"│ │ 999 │  │  │ │ │ │ │ 1,00 │ │",
		"Page 1 / 1",
	)

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, res))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	t.Cleanup(func() { _ = f.Close() })

	assert.Equal(t, []string{PayslipSheet, LogSheet}, f.GetSheetList())

	rows, err := f.GetRows(PayslipSheet)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, ledger.Header(), rows[0])

	row := rows[1]
	assert.Equal(t, "004217", row[0], "ids keep their leading zeros")
	assert.Equal(t, "DUPONT", row[1])
	assert.Equal(t, "2024", row[2])
	assert.Equal(t, "3", row[3])
	assert.Equal(t, "1000.5", row[5])
	assert.Equal(t, "WE", row[12+1], "2 March 2024 is a Saturday")
	assert.Equal(t, "SL", row[12+3])
	assert.Equal(t, "SL", row[12+4])

	cellType, err := f.GetCellType(PayslipSheet, "F2")
	require.NoError(t, err)
	assert.NotEqual(t, excelize.CellTypeSharedString, cellType)

	log, err := f.GetRows(LogSheet)
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(log), 4)
	assert.Equal(t, []string{"kind", "message"}, log[0])
	assert.Equal(t, []string{"error", res.Errors[0]}, log[1])
	assert.Equal(t, []string{"ignored", "Page 1 / 1"}, log[2])
	assert.Equal(t, "debug", log[3][0])
	assert.Len(t, log, 1+len(res.Errors)+len(res.Ignored)+len(res.Debug))
}

func TestWorkbook_EmptyResult(t *testing.T) {
	f, err := Workbook(convert(t))
	require.NoError(t, err)
	t.Cleanup(func() { _ = f.Close() })

	rows, err := f.GetRows(PayslipSheet)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, ledger.Header(), rows[0])

	log, err := f.GetRows(LogSheet)
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"kind", "message"}}, log)
}
