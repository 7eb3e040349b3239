package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"orders-dashboard/internal/models"
)

const defaultSheet = "Sheet1"

// WriteXLSX writes the bundle as a workbook with the sheets Summary, Daily Orders,
// Categories, Cities and Payment Methods.
func WriteXLSX(w io.Writer, bundle models.SummaryBundle) error {
	f := excelize.NewFile()
	defer f.Close()

	header, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}

	for i, t := range tables(bundle) {
		if i == 0 {
			if err := f.SetSheetName(defaultSheet, t.sheet); err != nil {
				return fmt.Errorf("rename sheet: %w", err)
			}
		} else if _, err := f.NewSheet(t.sheet); err != nil {
			return fmt.Errorf("create sheet %s: %w", t.sheet, err)
		}
		if err := writeSheet(f, t, header); err != nil {
			return fmt.Errorf("write sheet %s: %w", t.sheet, err)
		}
	}
	f.SetActiveSheet(0)

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func writeSheet(f *excelize.File, t table, headerStyle int) error {
	headers := make([]any, len(t.columns))
	for i, c := range t.columns {
		headers[i] = c.header
	}
	if err := f.SetSheetRow(t.sheet, "A1", &headers); err != nil {
		return err
	}

	last, err := excelize.ColumnNumberToName(len(t.columns))
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(t.sheet, "A1", last+"1", headerStyle); err != nil {
		return err
	}
	if err := f.SetColWidth(t.sheet, "A", last, 20); err != nil {
		return err
	}

	for i, row := range t.rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(t.sheet, cell, &row); err != nil {
			return err
		}
	}
	return nil
}
