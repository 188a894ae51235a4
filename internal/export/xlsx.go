package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"smartconv/internal/domain"
)

const sheetName = "History"

// XLSXEncoder writes history as a single-sheet workbook.
type XLSXEncoder struct{}

func (e *XLSXEncoder) ContentType() string {
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

func (e *XLSXEncoder) Extension() string { return "xlsx" }

func (e *XLSXEncoder) Encode(w io.Writer, records []domain.ConversionRecord) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return fmt.Errorf("export.XLSX: renaming sheet: %w", err)
	}

	sw, err := f.NewStreamWriter(sheetName)
	if err != nil {
		return fmt.Errorf("export.XLSX: stream writer: %w", err)
	}

	if err := sw.SetRow("A1", toCells(columns)); err != nil {
		return fmt.Errorf("export.XLSX: header: %w", err)
	}
	for i := range records {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := toCells(recordToRow(&records[i]))
		// File size stays numeric so it can be summed.
		row[5] = records[i].FileSize
		if err := sw.SetRow(cell, row); err != nil {
			return fmt.Errorf("export.XLSX: row %d: %w", i+1, err)
		}
	}
	if err := sw.Flush(); err != nil {
		return fmt.Errorf("export.XLSX: flush: %w", err)
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("export.XLSX: write: %w", err)
	}
	return nil
}

func toCells(values []string) []interface{} {
	cells := make([]interface{}, len(values))
	for i, v := range values {
		cells[i] = v
	}
	return cells
}
