package vertex

import (
	"context"
	"errors"
	"testing"
	"time"

	"cloud.google.com/go/vertexai/genai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smartconv/internal/domain"
	"smartconv/internal/port"
)

func TestParseResponse(t *testing.T) {
	tests := []struct {
		name      string
		raw       string
		wantText  string
		wantConfs []float64
		wantErr   bool
	}{
		{
			name:      "regions with confidences",
			raw:       `{"text":"Invoice 42","regions":[{"text":"Invoice","confidence":0.95},{"text":"42","confidence":0.85}]}`,
			wantText:  "Invoice 42",
			wantConfs: []float64{0.95, 0.85},
		},
		{
			name:     "no text",
			raw:      `{"text":"","regions":[]}`,
			wantText: "",
		},
		{
			name:      "fenced and clamped",
			raw:       "```json\n{\"text\":\"a\",\"regions\":[{\"text\":\"a\",\"confidence\":1.4}]}\n```",
			wantText:  "a",
			wantConfs: []float64{1},
		},
		{
			name:      "text rebuilt from regions",
			raw:       `{"regions":[{"text":"line one","confidence":0.5},{"text":"line two","confidence":0.5}]}`,
			wantText:  "line one\nline two",
			wantConfs: []float64{0.5, 0.5},
		},
		{
			name:    "not json",
			raw:     "I cannot read this",
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := parseResponse(tt.raw)
			if tt.wantErr {
				assert.True(t, errors.Is(err, domain.ErrOCRBackend))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantText, out.Text)
			assert.Equal(t, tt.wantConfs, out.Confidences)
		})
	}
}

func TestRecognize_PassesImageFormat(t *testing.T) {
	var got genai.Blob
	r := NewWithGenerator(func(_ context.Context, image genai.Blob, prompt string) (string, error) {
		got = image
		assert.Contains(t, prompt, "regions")
		return `{"text":"x","regions":[{"text":"x","confidence":0.6}]}`, nil
	}, time.Second)

	out, err := r.Recognize(context.Background(), port.RecognizeInput{Image: []byte{1, 2}, MimeType: "image/jpeg"})

	require.NoError(t, err)
	assert.Equal(t, "image/jpeg", got.MIMEType)
	assert.Equal(t, []float64{0.6}, out.Confidences)
}

func TestRecognize_GenerateError(t *testing.T) {
	r := NewWithGenerator(func(context.Context, genai.Blob, string) (string, error) {
		return "", errors.New("quota exceeded")
	}, time.Second)

	_, err := r.Recognize(context.Background(), port.RecognizeInput{Image: []byte{1}, MimeType: "image/png"})

	assert.True(t, errors.Is(err, domain.ErrOCRBackend))
}
