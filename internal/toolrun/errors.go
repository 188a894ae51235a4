package toolrun

import (
	"fmt"

	"smartconv/internal/domain"
)

// Kind classifies a tool invocation failure.
type Kind int

const (
	KindUnavailable Kind = iota + 1
	KindFailure
	KindTimeout
)

func (k Kind) String() string {
	switch k {
	case KindUnavailable:
		return "unavailable"
	case KindFailure:
		return "failure"
	case KindTimeout:
		return "timeout"
	default:
		return "unknown"
	}
}

// ToolError reports a failed external tool invocation. It matches the
// corresponding domain sentinel with errors.Is.
type ToolError struct {
	Tool   string
	Kind   Kind
	Stderr string
	Err    error
}

func (e *ToolError) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Tool, e.Kind)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	if e.Stderr != "" {
		msg += ": " + e.Stderr
	}
	return msg
}

func (e *ToolError) Unwrap() error {
	return e.Err
}

// Is lets callers test against domain.ErrToolUnavailable, ErrToolFailure and ErrToolTimeout.
func (e *ToolError) Is(target error) bool {
	switch e.Kind {
	case KindUnavailable:
		return target == domain.ErrToolUnavailable
	case KindFailure:
		return target == domain.ErrToolFailure
	case KindTimeout:
		return target == domain.ErrToolTimeout
	}
	return false
}
