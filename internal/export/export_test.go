package export

import (
	"bytes"
	"encoding/csv"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"smartconv/internal/domain"
)

func sampleRecords() []domain.ConversionRecord {
	created := time.Date(2026, 10, 17, 8, 30, 0, 0, time.UTC)
	done := created.Add(2 * time.Second)
	return []domain.ConversionRecord{
		{
			ID: uuid.MustParse("11111111-1111-1111-1111-111111111111"), Filename: "merged_0a1b2c3d.pdf",
			OriginalFilename: "a.pdf, b.pdf", FileType: "pdf", ConversionType: domain.OpMergePDF,
			FileSize: 4096, Status: domain.StatusCompleted, CreatedAt: created, CompletedAt: &done,
		},
		{
			ID: uuid.MustParse("22222222-2222-2222-2222-222222222222"), Filename: "scan.pdf",
			OriginalFilename: "scan.pdf", FileType: "pdf", ConversionType: domain.OpCompressPDF,
			Status: domain.StatusFailed, ErrorMessage: "PDF could not be made smaller", CreatedAt: created,
		},
	}
}

func TestNew(t *testing.T) {
	enc, err := New(domain.ExportCSV)
	require.NoError(t, err)
	assert.Equal(t, "csv", enc.Extension())

	enc, err = New(domain.ExportXLSX)
	require.NoError(t, err)
	assert.Equal(t, "xlsx", enc.Extension())

	_, err = New("pdf")
	assert.True(t, errors.Is(err, domain.ErrInvalidParameter))
}

func TestCSVEncoder(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, (&CSVEncoder{}).Encode(&buf, sampleRecords()))

	raw := buf.Bytes()
	require.True(t, bytes.HasPrefix(raw, BOM))

	rows, err := csv.NewReader(bytes.NewReader(raw[len(BOM):])).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, columns, rows[0])
	assert.Equal(t, "merged_0a1b2c3d.pdf", rows[1][1])
	assert.Equal(t, "a.pdf, b.pdf", rows[1][2])
	assert.Equal(t, "4096", rows[1][5])
	assert.Equal(t, "2026-10-17T08:30:02Z", rows[1][9])
	assert.Equal(t, "failed", rows[2][6])
	assert.Equal(t, "PDF could not be made smaller", rows[2][7])
	assert.Equal(t, "", rows[2][9])
}

func TestCSVEncoder_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, (&CSVEncoder{}).Encode(&buf, nil))

	rows, err := csv.NewReader(bytes.NewReader(buf.Bytes()[len(BOM):])).ReadAll()
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestXLSXEncoder(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, (&XLSXEncoder{}).Encode(&buf, sampleRecords()))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(sheetName)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Conversion Type", rows[0][4])
	assert.Equal(t, "merge_pdf", rows[1][4])
	assert.Equal(t, "4096", rows[1][5])
	assert.Equal(t, "compress_pdf", rows[2][4])
}

func TestSanitizeFilename(t *testing.T) {
	assert.Equal(t, "conversion_history", SanitizeFilename("conversion history"))
	assert.Equal(t, "a_b", SanitizeFilename("__a!!!b__"))
	assert.Len(t, SanitizeFilename(string(bytes.Repeat([]byte("x"), 300))), 100)
}

func TestBuildFilename(t *testing.T) {
	now := time.Date(2026, 10, 17, 23, 0, 0, 0, time.UTC)
	assert.Equal(t, "conversion_history_2026-10-17.xlsx", BuildFilename("conversion history", &XLSXEncoder{}, now))
}
