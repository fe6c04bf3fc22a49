package mealplan

import "errors"

// ErrPlanCreation is the only failure callers can observe. Every generation
// error matches it with errors.Is and renders as its message.
var ErrPlanCreation = errors.New("failed to create meal plan")

// ErrNoJSON means the model output contained no brace-delimited span.
var ErrNoJSON = errors.New("no JSON object found in model response")

// Kind classifies a generation failure for logs and telemetry.
type Kind string

const (
	// KindUpstream: the model call itself failed (network, auth, quota, safety block).
	KindUpstream Kind = "upstream"
	// KindShape: no JSON span, or the decoded object does not have the meal plan shape.
	KindShape Kind = "shape"
	// KindParse: the extracted span is not valid JSON for a meal plan.
	KindParse Kind = "parse"
)

// GenerationError keeps the root cause internally while presenting the
// generic message externally.
type GenerationError struct {
	Kind Kind
	Err  error
}

func (e *GenerationError) Error() string { return ErrPlanCreation.Error() }

// Unwrap exposes both the generic sentinel and the underlying cause.
func (e *GenerationError) Unwrap() []error { return []error{ErrPlanCreation, e.Err} }

// Cause returns the underlying error, for server-side logging only.
func (e *GenerationError) Cause() error { return e.Err }

func fail(kind Kind, err error) error {
	return &GenerationError{Kind: kind, Err: err}
}

// KindOf returns the failure kind of err, or "" if err is not a GenerationError.
func KindOf(err error) Kind {
	var ge *GenerationError
	if errors.As(err, &ge) {
		return ge.Kind
	}
	return ""
}
