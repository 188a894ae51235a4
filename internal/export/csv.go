package export

import (
	"encoding/csv"
	"io"

	"smartconv/internal/domain"
)

// BOM is written first so spreadsheet applications detect UTF-8.
var BOM = []byte{0xEF, 0xBB, 0xBF}

// CSVEncoder writes history as UTF-8 CSV with a BOM.
type CSVEncoder struct{}

func (e *CSVEncoder) ContentType() string { return "text/csv; charset=utf-8" }

func (e *CSVEncoder) Extension() string { return "csv" }

func (e *CSVEncoder) Encode(w io.Writer, records []domain.ConversionRecord) error {
	if _, err := w.Write(BOM); err != nil {
		return err
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(columns); err != nil {
		return err
	}
	for i := range records {
		if err := cw.Write(recordToRow(&records[i])); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
