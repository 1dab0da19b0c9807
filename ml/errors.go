package ml

import (
	"context"
	"errors"
	"fmt"
)

var (
	ErrUnknownCategory    = errors.New("unknown category")
	ErrOutOfRange         = errors.New("value out of range")
	ErrMissingFeature     = errors.New("missing feature")
	ErrShapeMismatch      = errors.New("shape mismatch")
	ErrNonFinite          = errors.New("non-finite prediction")
	ErrModelFailed        = errors.New("model failed")
	ErrEmptyPredictionSet = errors.New("empty prediction set")
)

// ModelError records the failure of a single ensemble member.
type ModelError struct {
	Model string
	Err   error
}

func (e *ModelError) Error() string {
	return fmt.Sprintf("model %s: %v", e.Model, e.Err)
}

func (e *ModelError) Unwrap() []error {
	return []error{ErrModelFailed, e.Err}
}

// Stage names the pipeline step a request failed in.
type Stage string

const (
	StageEncode    Stage = "encode"
	StageAssemble  Stage = "assemble"
	StageScale     Stage = "scale"
	StageExpand    Stage = "expand"
	StageEnsemble  Stage = "ensemble"
	StageAggregate Stage = "aggregate"
)

// PredictionError is the single error surfaced to callers for a failed request.
// Error() carries no internal detail; the cause is reachable through errors.Is/As.
type PredictionError struct {
	Stage Stage
	Err   error
}

func (e *PredictionError) Error() string {
	switch {
	case errors.Is(e.Err, ErrUnknownCategory):
		return "invalid input: " + e.Err.Error()
	case errors.Is(e.Err, ErrOutOfRange):
		return "invalid input: " + e.Err.Error()
	case errors.Is(e.Err, ErrEmptyPredictionSet):
		return "prediction failed: no model produced a score"
	case errors.Is(e.Err, context.Canceled), errors.Is(e.Err, context.DeadlineExceeded):
		return "prediction cancelled"
	default:
		return "prediction failed: model configuration error"
	}
}

func (e *PredictionError) Unwrap() error {
	return e.Err
}

// IsInputError reports whether err was caused by caller input rather than by
// the fitted artifacts.
func IsInputError(err error) bool {
	return errors.Is(err, ErrUnknownCategory) || errors.Is(err, ErrOutOfRange)
}

func shapeError(what string, want, got int) error {
	return fmt.Errorf("%w: %s expects %d values, got %d", ErrShapeMismatch, what, want, got)
}
