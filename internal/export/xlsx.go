// Package export renders expense records as spreadsheets.
package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"fintrack/internal/models"
)

const (
	// ContentType is the MIME type of the generated workbook.
	ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	// Filename is the attachment name offered to clients.
	Filename = "expense_details.xlsx"

	sheetName = "Expenses"
)

var headers = []interface{}{"Name", "Category", "Amount", "Date", "Icon", "CreatedAt"}

// WriteExpenses writes expenses as a single-sheet XLSX workbook to w, one row
// per expense in the given order.
func WriteExpenses(w io.Writer, expenses []models.Expense) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	if err := f.SetSheetRow(sheetName, "A1", &headers); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for i, e := range expenses {
		icon := e.Icon
		if icon == "" {
			icon = "N/A"
		}
		row := []interface{}{
			e.Name,
			string(e.Category),
			e.Amount.InexactFloat64(),
			e.Date.UTC().Format("2006-01-02"),
			icon,
			e.CreatedAt.UTC().Format("2006-01-02 15:04:05"),
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheetName, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	for col, width := range map[string]float64{"A": 30, "B": 15, "C": 12, "D": 12, "E": 8, "F": 20} {
		if err := f.SetColWidth(sheetName, col, col, width); err != nil {
			return err
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}
