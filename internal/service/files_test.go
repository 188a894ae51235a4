package service_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"smartconv/internal/service"
)

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"report.pdf", "report.pdf"},
		{"my report (final).pdf", "my_report_final.pdf"},
		{"../../etc/passwd", "passwd"},
		{`C:\Users\me\scan.PNG`, "scan.PNG"},
		{".hidden", "hidden"},
		{"", "file"},
		{"???", "file"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, service.SanitizeFilename(tt.in))
		})
	}
}
