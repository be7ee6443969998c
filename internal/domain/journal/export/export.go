// Package export renders a conversion result as an XLSX workbook.
package export

import (
	"fmt"
	"io"
	"strconv"

	"github.com/xuri/excelize/v2"

	"github.com/FACorreiaa/payroll-journal/internal/domain/journal/ledger"
	"github.com/FACorreiaa/payroll-journal/internal/domain/journal/parser"
)

// ContentType is the media type of the rendered workbook.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

const (
	PayslipSheet = "payslips"
	LogSheet     = "log"
)

// Columns of the payslip table holding amounts or hours. They are written as
// numbers; identifiers and day markers stay text.
const (
	firstAmountColumn = 4
	lastAmountColumn  = 11
)

// Workbook builds a workbook with the payslip table on one sheet and the
// errors, ignored lines and debug trace on another.
func Workbook(res *parser.Result) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName(f.GetSheetName(0), PayslipSheet); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}
	if err := fillPayslips(f, res.Ledger); err != nil {
		_ = f.Close()
		return nil, err
	}
	if _, err := f.NewSheet(LogSheet); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("failed to add %s sheet: %w", LogSheet, err)
	}
	if err := fillLog(f, res); err != nil {
		_ = f.Close()
		return nil, err
	}
	return f, nil
}

// Write renders res and writes the workbook to w.
func Write(w io.Writer, res *parser.Result) error {
	f, err := Workbook(res)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func fillPayslips(f *excelize.File, l *ledger.Ledger) error {
	header := ledger.Header()
	if err := setRow(f, PayslipSheet, 1, toCells(header)); err != nil {
		return err
	}
	if err := boldHeader(f, PayslipSheet, len(header)); err != nil {
		return err
	}
	if err := f.SetPanes(PayslipSheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return fmt.Errorf("failed to freeze header: %w", err)
	}

	if l == nil {
		return nil
	}
	for i, row := range l.Rows() {
		if err := setRow(f, PayslipSheet, i+2, payslipCells(row)); err != nil {
			return err
		}
	}
	return nil
}

func payslipCells(row ledger.PayslipRow) []any {
	record := row.Record()
	cells := make([]any, len(record))
	for i, v := range record {
		cells[i] = v
	}
	cells[2] = row.Year
	cells[3] = row.Month
	// Amount cells are float64 for spreadsheet arithmetic and are display only.
	// The CSV table keeps the exact decimals.
	for i := firstAmountColumn; i <= lastAmountColumn; i++ {
		if n, err := strconv.ParseFloat(record[i], 64); err == nil {
			cells[i] = n
		}
	}
	return cells
}

func fillLog(f *excelize.File, res *parser.Result) error {
	if err := setRow(f, LogSheet, 1, []any{"kind", "message"}); err != nil {
		return err
	}
	if err := boldHeader(f, LogSheet, 2); err != nil {
		return err
	}

	row := 2
	for _, section := range []struct {
		kind  string
		lines []string
	}{
		{"error", res.Errors},
		{"ignored", res.Ignored},
		{"debug", res.Debug},
	} {
		for _, line := range section.lines {
			if err := setRow(f, LogSheet, row, []any{section.kind, line}); err != nil {
				return err
			}
			row++
		}
	}
	return f.SetColWidth(LogSheet, "B", "B", 100)
}

func setRow(f *excelize.File, sheet string, row int, cells []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &cells); err != nil {
		return fmt.Errorf("failed to write %s row %d: %w", sheet, row, err)
	}
	return nil
}

func boldHeader(f *excelize.File, sheet string, columns int) error {
	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}
	last, err := excelize.CoordinatesToCellName(columns, 1)
	if err != nil {
		return err
	}
	return f.SetCellStyle(sheet, "A1", last, style)
}

func toCells(values []string) []any {
	cells := make([]any, len(values))
	for i, v := range values {
		cells[i] = v
	}
	return cells
}
