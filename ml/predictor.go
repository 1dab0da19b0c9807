package ml

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// Bundle is the immutable set of fitted artifacts a Predictor runs against.
type Bundle struct {
	Features   []string
	Scaler     FittedTransform
	Poly       FittedTransform
	Regressors map[string]FittedRegressor
	R2Scores   map[string]float64
}

// Result is the outcome of one prediction request.
type Result struct {
	Features    []float64          `json:"features"`
	Order       []string           `json:"order"`
	Predictions map[string]float64 `json:"predictions"`
	Failures    map[string]string  `json:"failures,omitempty"`
	Summary     Summary            `json:"summary"`
}

// Predictor runs the scoring pipeline for one loaded Bundle.
type Predictor struct {
	bundle   *Bundle
	ensemble *Ensemble
	logger   *zap.Logger
}

type PredictorOption func(*Predictor)

func WithLogger(logger *zap.Logger) PredictorOption {
	return func(p *Predictor) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// NewPredictor rejects a bundle missing its transforms or feature list.
func NewPredictor(bundle *Bundle, opts ...PredictorOption) (*Predictor, error) {
	if bundle == nil {
		return nil, errors.New("predictor: bundle is required")
	}
	if bundle.Scaler == nil || bundle.Poly == nil {
		return nil, errors.New("predictor: bundle has no scaler or polynomial transform")
	}
	if len(bundle.Features) == 0 {
		return nil, errors.New("predictor: bundle has no feature list")
	}
	p := &Predictor{bundle: bundle, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(p)
	}
	p.ensemble = NewEnsemble(DefaultMembers(bundle.Regressors), p.logger.Named("ensemble"))
	return p, nil
}

func (p *Predictor) Bundle() *Bundle {
	return p.bundle
}

// Encode validates input and assembles the unscaled feature vector.
func (p *Predictor) Encode(input StudentInput) ([]float64, error) {
	values, err := input.Values()
	if err != nil {
		return nil, &PredictionError{Stage: StageEncode, Err: err}
	}
	vector, err := AssembleFeatures(p.bundle.Features, values)
	if err != nil {
		return nil, &PredictionError{Stage: StageAssemble, Err: err}
	}
	return vector, nil
}

// Predict runs the full pipeline for one input.
func (p *Predictor) Predict(ctx context.Context, input StudentInput) (*Result, error) {
	vector, err := p.Encode(input)
	if err != nil {
		p.logger.Debug("rejected input", zap.Error(err))
		return nil, err
	}
	return p.PredictVector(ctx, vector)
}

// PredictVector runs the pipeline from an already assembled feature vector.
func (p *Predictor) PredictVector(ctx context.Context, vector []float64) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, &PredictionError{Stage: StageScale, Err: err}
	}
	scaled, err := p.bundle.Scaler.Transform(vector)
	if err != nil {
		return nil, p.fail(StageScale, err)
	}
	expanded, err := p.bundle.Poly.Transform(scaled)
	if err != nil {
		return nil, p.fail(StageExpand, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, &PredictionError{Stage: StageEnsemble, Err: err}
	}

	ps := p.ensemble.Run(scaled, expanded)
	summary, err := Summarize(ps)
	if err != nil {
		return nil, p.fail(StageAggregate, fmt.Errorf("%w: %d of %d models failed", err, len(ps.Failures), len(ps.Order)))
	}

	result := &Result{
		Features:    append([]float64(nil), vector...),
		Order:       ps.Order,
		Predictions: ps.Scores,
		Summary:     summary,
	}
	if len(ps.Failures) > 0 {
		result.Failures = make(map[string]string, len(ps.Failures))
		for name, ferr := range ps.Failures {
			result.Failures[name] = ferr.Error()
		}
	}
	p.logger.Debug("prediction complete",
		zap.Float64("max", summary.Max),
		zap.Float64("mean", summary.Mean),
		zap.Int("failed", len(ps.Failures)),
	)
	return result, nil
}

func (p *Predictor) fail(stage Stage, err error) error {
	p.logger.Error("prediction failed", zap.String("stage", string(stage)), zap.Error(err))
	return &PredictionError{Stage: stage, Err: err}
}
