package csvexport

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"docintel/internal/domain"
)

const sheetName = "Results"

// WriteXLSX writes records as a single-sheet workbook. Numeric fields are
// stored as numbers so spreadsheets can aggregate them.
func WriteXLSX(w io.Writer, recs []domain.Record) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName(f.GetSheetName(0), sheetName); err != nil {
		return fmt.Errorf("xlsx sheet: %w", err)
	}

	for i, h := range Headers() {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheetName, cell, h); err != nil {
			return fmt.Errorf("xlsx header: %w", err)
		}
	}

	for r := range recs {
		rec := &recs[r]
		write := func(col int, v any) error {
			cell, _ := excelize.CoordinatesToCellName(col, r+2)
			return f.SetCellValue(sheetName, cell, v)
		}
		if err := write(1, rec.Filename); err != nil {
			return fmt.Errorf("xlsx row %d: %w", r+2, err)
		}
		_ = write(2, rec.IndexName)
		_ = write(3, string(rec.Class))
		for i := 3; i < len(columns); i++ {
			if v, ok := rec.Fields[columns[i].field]; ok {
				if err := write(i+1, v); err != nil {
					return fmt.Errorf("xlsx row %d: %w", r+2, err)
				}
			}
		}
	}

	_ = f.SetColWidth(sheetName, "A", "A", 32)
	_ = f.SetColWidth(sheetName, "B", "C", 16)
	_ = f.SetColWidth(sheetName, "D", "N", 18)

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("xlsx write: %w", err)
	}
	return nil
}
