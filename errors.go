package reportpdf

import (
	"errors"
	"fmt"
)

// Sentinel errors for common rendering failure conditions.
var (
	ErrNoCaptures     = errors.New("reportpdf: no captures provided")
	ErrEmptyOutput    = errors.New("reportpdf: backend produced empty output")
	ErrBackendTimeout = errors.New("reportpdf: backend timed out")
)

// LayoutError reports a degenerate layout configuration: a non-positive row
// height estimate, or a page whose content area is consumed entirely by
// margins, header, and footer. It aborts only the structured attempt.
type LayoutError struct {
	Reason string
}

func (e *LayoutError) Error() string {
	return fmt.Sprintf("reportpdf: layout: %s", e.Reason)
}

// EncodingError reports a failure to produce document bytes: the rendering
// backend is unavailable or timed out, the intermediate representation was
// rejected, or page captures were missing or malformed. It wraps the
// underlying error and includes the operation name for context.
type EncodingError struct {
	Op  string // operation name, e.g. "encode", "compose"
	Err error  // underlying error
}

func (e *EncodingError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("reportpdf.%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("reportpdf.%s: unknown error", e.Op)
}

func (e *EncodingError) Unwrap() error {
	return e.Err
}

// NewEncodingError creates an EncodingError wrapping err with operation context.
func NewEncodingError(op string, err error) *EncodingError {
	return &EncodingError{Op: op, Err: err}
}

// RenderError reports that both the structured path and the fallback path
// failed; it is the only failure surfaced to callers of the orchestrator.
// Structured is nil when the dataset was not eligible for structured
// rendering and that path was never attempted.
type RenderError struct {
	DatasetKind string
	Structured  error // structured path failure, nil if skipped
	Fallback    error // fallback path failure
}

func (e *RenderError) Error() string {
	if e.Structured == nil {
		return fmt.Sprintf("reportpdf: rendering %s dataset failed: fallback: %v", e.DatasetKind, e.Fallback)
	}
	return fmt.Sprintf("reportpdf: rendering %s dataset failed: structured: %v; fallback: %v",
		e.DatasetKind, e.Structured, e.Fallback)
}

func (e *RenderError) Unwrap() error {
	return e.Fallback
}
