// Package vertex recognises text with a Gemini model on Vertex AI.
package vertex

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"cloud.google.com/go/vertexai/genai"
	"google.golang.org/api/option"

	"smartconv/internal/config"
	"smartconv/internal/ocr"
	"smartconv/internal/port"
)

const backendName = "vertex"

const recognizePrompt = `Transcribe all text visible in this image.
Return a JSON object with exactly two keys:
- "text": the full transcription, preserving line breaks and reading order.
- "regions": an array with one object per paragraph or text block, each with
  "text" (string) and "confidence" (number between 0 and 1, how sure you are of the transcription).
If the image contains no text, return {"text": "", "regions": []}.`

func init() {
	ocr.RegisterBackend(backendName, func(ctx context.Context, cfg *config.OCRConfig, _ ocr.Tools) (port.TextRecognizer, error) {
		return New(ctx, cfg)
	})
}

// GenerateFunc sends one image plus prompt and returns the model's raw text.
type GenerateFunc func(ctx context.Context, image genai.Blob, prompt string) (string, error)

// Recognizer implements port.TextRecognizer with Gemini JSON output.
type Recognizer struct {
	generate GenerateFunc
	timeout  time.Duration
	closer   func() error
}

// New creates a Vertex AI client for cfg.ProjectID and cfg.Region.
func New(ctx context.Context, cfg *config.OCRConfig) (*Recognizer, error) {
	if cfg.ProjectID == "" || cfg.Region == "" {
		return nil, fmt.Errorf("projectID and region cannot be empty")
	}
	var opts []option.ClientOption
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}
	client, err := genai.NewClient(ctx, cfg.ProjectID, cfg.Region, opts...)
	if err != nil {
		return nil, fmt.Errorf("genai.NewClient: %w", err)
	}

	modelName := cfg.Model
	if modelName == "" {
		modelName = "gemini-1.5-pro"
	}
	model := client.GenerativeModel(modelName)
	model.GenerationConfig = genai.GenerationConfig{
		ResponseMIMEType: "application/json",
		Temperature:      genai.Ptr[float32](0.0),
	}

	r := NewWithGenerator(func(ctx context.Context, image genai.Blob, prompt string) (string, error) {
		resp, err := model.GenerateContent(ctx, image, genai.Text(prompt))
		if err != nil {
			return "", err
		}
		return firstText(resp)
	}, time.Duration(cfg.TimeoutSecs)*time.Second)
	r.closer = client.Close
	return r, nil
}

// NewWithGenerator builds a Recognizer around a custom generate call (for testing).
func NewWithGenerator(generate GenerateFunc, timeout time.Duration) *Recognizer {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Recognizer{generate: generate, timeout: timeout}
}

func (r *Recognizer) Name() string { return backendName }

func (r *Recognizer) IsConfigured() bool { return r.generate != nil }

// Close releases the underlying client.
func (r *Recognizer) Close() error {
	if r.closer == nil {
		return nil
	}
	return r.closer()
}

func (r *Recognizer) Recognize(ctx context.Context, input port.RecognizeInput) (*port.RecognizeOutput, error) {
	format := strings.TrimPrefix(input.MimeType, "image/")
	if format == "" {
		format = "png"
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	raw, err := r.generate(ctx, genai.ImageData(format, input.Image), recognizePrompt)
	if err != nil {
		return nil, ocr.NewBackendError(backendName, "generate content failed", err)
	}
	return parseResponse(raw)
}

func firstText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("empty response from model: no candidates")
	}
	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if t, ok := part.(genai.Text); ok {
			sb.WriteString(string(t))
		}
	}
	if sb.Len() == 0 {
		return "", fmt.Errorf("empty response from model: no text parts")
	}
	return sb.String(), nil
}

type modelOutput struct {
	Text    string `json:"text"`
	Regions []struct {
		Text       string  `json:"text"`
		Confidence float64 `json:"confidence"`
	} `json:"regions"`
}

func parseResponse(raw string) (*port.RecognizeOutput, error) {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(raw, "```json")
	raw = strings.TrimSuffix(strings.TrimPrefix(raw, "```"), "```")

	var parsed modelOutput
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return nil, ocr.NewBackendError(backendName, "parsing model JSON output: "+truncate(raw, 200), err)
	}

	out := &port.RecognizeOutput{Text: parsed.Text}
	for _, region := range parsed.Regions {
		c := region.Confidence
		if c < 0 {
			c = 0
		} else if c > 1 {
			c = 1
		}
		out.Confidences = append(out.Confidences, c)
	}
	if out.Text == "" && len(parsed.Regions) > 0 {
		parts := make([]string, len(parsed.Regions))
		for i, region := range parsed.Regions {
			parts[i] = region.Text
		}
		out.Text = strings.Join(parts, "\n")
	}
	return out, nil
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
