package ocr

import (
	"context"

	"smartconv/internal/domain"
	"smartconv/internal/port"
)

// Unconfigured stands in when no usable backend could be built.
type Unconfigured struct {
	Reason string
}

func (u *Unconfigured) Recognize(context.Context, port.RecognizeInput) (*port.RecognizeOutput, error) {
	return nil, domain.ErrOCRBackendUnavailable
}

func (u *Unconfigured) IsConfigured() bool { return false }

func (u *Unconfigured) Name() string { return "none" }
