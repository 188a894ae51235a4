// Package vision recognises text with the Google Cloud Vision API.
package vision

import (
	"context"
	"fmt"
	"time"

	visionapi "cloud.google.com/go/vision/v2/apiv1"
	"cloud.google.com/go/vision/v2/apiv1/visionpb"
	"google.golang.org/api/option"

	"smartconv/internal/config"
	"smartconv/internal/ocr"
	"smartconv/internal/port"
)

const backendName = "vision"

func init() {
	ocr.RegisterBackend(backendName, func(ctx context.Context, cfg *config.OCRConfig, _ ocr.Tools) (port.TextRecognizer, error) {
		return New(ctx, cfg)
	})
}

type annotateFunc func(ctx context.Context, req *visionpb.BatchAnnotateImagesRequest) (*visionpb.BatchAnnotateImagesResponse, error)

// Recognizer implements port.TextRecognizer with DOCUMENT_TEXT_DETECTION.
type Recognizer struct {
	annotate annotateFunc
	timeout  time.Duration
	closer   func() error
}

// New creates a Vision client. Credentials come from cfg.CredentialsFile or
// application default credentials.
func New(ctx context.Context, cfg *config.OCRConfig) (*Recognizer, error) {
	var opts []option.ClientOption
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}
	client, err := visionapi.NewImageAnnotatorClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating image annotator client: %w", err)
	}
	r := NewWithAnnotator(func(ctx context.Context, req *visionpb.BatchAnnotateImagesRequest) (*visionpb.BatchAnnotateImagesResponse, error) {
		return client.BatchAnnotateImages(ctx, req)
	}, time.Duration(cfg.TimeoutSecs)*time.Second)
	r.closer = client.Close
	return r, nil
}

// NewWithAnnotator builds a Recognizer around a custom annotate call (for testing).
func NewWithAnnotator(annotate func(ctx context.Context, req *visionpb.BatchAnnotateImagesRequest) (*visionpb.BatchAnnotateImagesResponse, error), timeout time.Duration) *Recognizer {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Recognizer{annotate: annotate, timeout: timeout}
}

func (r *Recognizer) Name() string { return backendName }

func (r *Recognizer) IsConfigured() bool { return r.annotate != nil }

// Close releases the underlying client.
func (r *Recognizer) Close() error {
	if r.closer == nil {
		return nil
	}
	return r.closer()
}

func (r *Recognizer) Recognize(ctx context.Context, input port.RecognizeInput) (*port.RecognizeOutput, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	resp, err := r.annotate(ctx, &visionpb.BatchAnnotateImagesRequest{
		Requests: []*visionpb.AnnotateImageRequest{{
			Image:    &visionpb.Image{Content: input.Image},
			Features: []*visionpb.Feature{{Type: visionpb.Feature_DOCUMENT_TEXT_DETECTION}},
		}},
	})
	if err != nil {
		return nil, ocr.NewBackendError(backendName, "annotate request failed", err)
	}
	if len(resp.GetResponses()) == 0 {
		return nil, ocr.NewBackendError(backendName, "empty response", nil)
	}

	res := resp.GetResponses()[0]
	if msg := res.GetError().GetMessage(); msg != "" {
		return nil, ocr.NewBackendError(backendName, msg, nil)
	}

	annotation := res.GetFullTextAnnotation()
	out := &port.RecognizeOutput{Text: annotation.GetText()}
	for _, page := range annotation.GetPages() {
		for _, block := range page.GetBlocks() {
			out.Confidences = append(out.Confidences, float64(block.GetConfidence()))
		}
	}
	return out, nil
}
