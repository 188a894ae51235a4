// Package export encodes ledger history as CSV or XLSX.
package export

import (
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"

	"smartconv/internal/domain"
)

// columns is the header row shared by every format.
var columns = []string{
	"ID",
	"Filename",
	"Original Filename",
	"File Type",
	"Conversion Type",
	"File Size",
	"Status",
	"Error Message",
	"Created At",
	"Completed At",
}

// Encoder writes a complete export document to w.
type Encoder interface {
	Encode(w io.Writer, records []domain.ConversionRecord) error
	ContentType() string
	Extension() string
}

// New returns the encoder for format.
func New(format domain.ExportFormat) (Encoder, error) {
	switch format {
	case domain.ExportCSV, "":
		return &CSVEncoder{}, nil
	case domain.ExportXLSX:
		return &XLSXEncoder{}, nil
	default:
		return nil, fmt.Errorf("%w: unknown export format %q", domain.ErrInvalidParameter, format)
	}
}

func recordToRow(rec *domain.ConversionRecord) []string {
	row := make([]string, len(columns))
	row[0] = rec.ID.String()
	row[1] = rec.Filename
	row[2] = rec.OriginalFilename
	row[3] = rec.FileType
	row[4] = string(rec.ConversionType)
	row[5] = strconv.FormatInt(rec.FileSize, 10)
	row[6] = string(rec.Status)
	row[7] = rec.ErrorMessage
	row[8] = rec.CreatedAt.UTC().Format(time.RFC3339)
	row[9] = formatTime(rec.CompletedAt)
	return row
}

func formatTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

var nonAlphanumeric = regexp.MustCompile(`[^a-zA-Z0-9_-]+`)

var multiUnderscore = regexp.MustCompile(`_{2,}`)

// SanitizeFilename replaces everything except letters, digits, - and _ with
// underscores, collapses runs, and truncates to 100 chars.
func SanitizeFilename(name string) string {
	s := nonAlphanumeric.ReplaceAllString(name, "_")
	s = multiUnderscore.ReplaceAllString(s, "_")
	s = strings.Trim(s, "_")
	if len(s) > 100 {
		s = s[:100]
	}
	return s
}

// BuildFilename returns {prefix}_{YYYY-MM-DD}.{ext} for Content-Disposition.
func BuildFilename(prefix string, enc Encoder, now time.Time) string {
	return fmt.Sprintf("%s_%s.%s", SanitizeFilename(prefix), now.UTC().Format("2006-01-02"), enc.Extension())
}
