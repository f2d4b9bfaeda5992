// Package export renders a user's expenses as an xlsx workbook.
package export

import (
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"

	"pennywise/internal/core"
)

const (
	ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

	ExpensesSheet = "Expenses"
	MonthlySheet  = "Monthly"
)

var expenseHeaders = []string{"Date", "Description", "Category", "Payment Type", "Amount"}

// Filename is the attachment name for an export made at now.
func Filename(now time.Time) string {
	return fmt.Sprintf("expenses_%s.xlsx", now.Format("20060102"))
}

// WriteXLSX writes one row per expense, in the given order, followed by a
// sheet of monthly totals.
func WriteXLSX(w io.Writer, expenses []core.Expense) error {
	f := excelize.NewFile()
	defer f.Close()

	// The default sheet becomes the expense list.
	if err := f.SetSheetName("Sheet1", ExpensesSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	if err := writeRow(f, ExpensesSheet, 1, toAny(expenseHeaders)); err != nil {
		return err
	}
	for i, e := range expenses {
		row := []any{e.Date.String(), e.Description, string(e.Category), string(e.PaymentType), e.Amount.Float()}
		if err := writeRow(f, ExpensesSheet, i+2, row); err != nil {
			return err
		}
	}
	for col, width := range map[string]float64{"A": 12, "B": 40, "C": 16, "D": 14, "E": 12} {
		if err := f.SetColWidth(ExpensesSheet, col, col, width); err != nil {
			return fmt.Errorf("set column width: %w", err)
		}
	}

	if _, err := f.NewSheet(MonthlySheet); err != nil {
		return fmt.Errorf("create sheet: %w", err)
	}
	if err := writeRow(f, MonthlySheet, 1, []any{"Month", "Amount"}); err != nil {
		return err
	}
	for i, m := range core.MonthlySeries(expenses) {
		if err := writeRow(f, MonthlySheet, i+2, []any{m.Month, m.Amount.Float()}); err != nil {
			return err
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func writeRow(f *excelize.File, sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("write row %d: %w", row, err)
	}
	return nil
}

func toAny(ss []string) []any {
	out := make([]any, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}
