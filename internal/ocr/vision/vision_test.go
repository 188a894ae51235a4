package vision_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"cloud.google.com/go/vision/v2/apiv1/visionpb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	statuspb "google.golang.org/genproto/googleapis/rpc/status"

	"smartconv/internal/domain"
	"smartconv/internal/ocr/vision"
	"smartconv/internal/port"
)

func respond(res *visionpb.AnnotateImageResponse) func(context.Context, *visionpb.BatchAnnotateImagesRequest) (*visionpb.BatchAnnotateImagesResponse, error) {
	return func(_ context.Context, req *visionpb.BatchAnnotateImagesRequest) (*visionpb.BatchAnnotateImagesResponse, error) {
		return &visionpb.BatchAnnotateImagesResponse{Responses: []*visionpb.AnnotateImageResponse{res}}, nil
	}
}

func TestRecognize_BlockConfidences(t *testing.T) {
	r := vision.NewWithAnnotator(respond(&visionpb.AnnotateImageResponse{
		FullTextAnnotation: &visionpb.TextAnnotation{
			Text: "Hello\nWorld",
			Pages: []*visionpb.Page{{
				Blocks: []*visionpb.Block{{Confidence: 0.9}, {Confidence: 0.7}},
			}},
		},
	}), 0)

	out, err := r.Recognize(context.Background(), port.RecognizeInput{Image: []byte("img")})

	require.NoError(t, err)
	assert.Equal(t, "Hello\nWorld", out.Text)
	require.Len(t, out.Confidences, 2)
	assert.InDelta(t, 0.9, out.Confidences[0], 1e-6)
}

func TestRecognize_NoText(t *testing.T) {
	r := vision.NewWithAnnotator(respond(&visionpb.AnnotateImageResponse{}), 0)

	out, err := r.Recognize(context.Background(), port.RecognizeInput{Image: []byte("img")})

	require.NoError(t, err)
	assert.Empty(t, out.Text)
	assert.Empty(t, out.Confidences)
}

func TestRecognize_ResponseError(t *testing.T) {
	r := vision.NewWithAnnotator(respond(&visionpb.AnnotateImageResponse{
		Error: &statuspb.Status{Code: 3, Message: "Bad image data."},
	}), 0)

	_, err := r.Recognize(context.Background(), port.RecognizeInput{Image: []byte("img")})

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrOCRBackend))
	assert.Contains(t, err.Error(), "Bad image data.")
}

func TestRecognize_TransportError(t *testing.T) {
	r := vision.NewWithAnnotator(func(context.Context, *visionpb.BatchAnnotateImagesRequest) (*visionpb.BatchAnnotateImagesResponse, error) {
		return nil, errors.New("deadline exceeded")
	}, 0)

	_, err := r.Recognize(context.Background(), port.RecognizeInput{Image: []byte("img")})

	assert.True(t, errors.Is(err, domain.ErrOCRBackend))
}

func TestRecognize_AppliesTimeout(t *testing.T) {
	r := vision.NewWithAnnotator(func(ctx context.Context, _ *visionpb.BatchAnnotateImagesRequest) (*visionpb.BatchAnnotateImagesResponse, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	}, 20*time.Millisecond)

	start := time.Now()
	_, err := r.Recognize(context.Background(), port.RecognizeInput{Image: []byte("img")})

	assert.True(t, errors.Is(err, domain.ErrOCRBackend))
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
	assert.Less(t, time.Since(start), 5*time.Second)
}
