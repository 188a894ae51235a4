package port

import "context"

// RecognizeInput carries one page image for text recognition.
type RecognizeInput struct {
	Image    []byte
	MimeType string
}

// RecognizeOutput is the backend result for one page. Confidences holds one
// value in [0,1] per detected text region.
type RecognizeOutput struct {
	Text        string
	Confidences []float64
}

// TextRecognizer abstracts an OCR backend.
type TextRecognizer interface {
	Recognize(ctx context.Context, input RecognizeInput) (*RecognizeOutput, error)
	IsConfigured() bool
	Name() string
}
