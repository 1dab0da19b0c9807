package ml

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/floats"
)

// StandardScaler applies (x - mean) / scale per feature.
type StandardScaler struct {
	mean  []float64
	scale []float64
}

// NewStandardScaler builds a scaler from fitted parameters. Zero scale entries
// come from constant training columns and are treated as 1.
func NewStandardScaler(mean, scale []float64) (*StandardScaler, error) {
	if len(mean) == 0 {
		return nil, errors.New("standard scaler: mean is empty")
	}
	if len(mean) != len(scale) {
		return nil, shapeError("standard scaler scale", len(mean), len(scale))
	}
	safe := make([]float64, len(scale))
	for i, s := range scale {
		if s == 0 {
			s = 1
		}
		safe[i] = s
	}
	return &StandardScaler{
		mean:  append([]float64(nil), mean...),
		scale: safe,
	}, nil
}

func (s *StandardScaler) InputDim() int  { return len(s.mean) }
func (s *StandardScaler) OutputDim() int { return len(s.mean) }

func (s *StandardScaler) Transform(x []float64) ([]float64, error) {
	if len(x) != len(s.mean) {
		return nil, shapeError("standard scaler", len(s.mean), len(x))
	}
	out := make([]float64, len(x))
	floats.SubTo(out, x, s.mean)
	floats.Div(out, s.scale)
	return out, nil
}

func (s *StandardScaler) InverseTransform(y []float64) ([]float64, error) {
	if len(y) != len(s.mean) {
		return nil, shapeError("standard scaler inverse", len(s.mean), len(y))
	}
	out := make([]float64, len(y))
	floats.MulTo(out, y, s.scale)
	floats.Add(out, s.mean)
	return out, nil
}

// MinMaxScaler applies x*scale + min per feature, the form a fitted min-max
// scaler stores its parameters in.
type MinMaxScaler struct {
	min   []float64
	scale []float64
}

// NewMinMaxScaler copies min and scale, which must have equal length.
func NewMinMaxScaler(min, scale []float64) (*MinMaxScaler, error) {
	if len(min) == 0 {
		return nil, errors.New("min-max scaler: min is empty")
	}
	if len(min) != len(scale) {
		return nil, shapeError("min-max scaler scale", len(min), len(scale))
	}
	return &MinMaxScaler{
		min:   append([]float64(nil), min...),
		scale: append([]float64(nil), scale...),
	}, nil
}

func (s *MinMaxScaler) InputDim() int  { return len(s.min) }
func (s *MinMaxScaler) OutputDim() int { return len(s.min) }

func (s *MinMaxScaler) Transform(x []float64) ([]float64, error) {
	if len(x) != len(s.min) {
		return nil, shapeError("min-max scaler", len(s.min), len(x))
	}
	out := make([]float64, len(x))
	floats.MulTo(out, x, s.scale)
	floats.Add(out, s.min)
	return out, nil
}

func (s *MinMaxScaler) InverseTransform(y []float64) ([]float64, error) {
	if len(y) != len(s.min) {
		return nil, shapeError("min-max scaler inverse", len(s.min), len(y))
	}
	out := make([]float64, len(y))
	for i := range y {
		if s.scale[i] == 0 {
			return nil, fmt.Errorf("min-max scaler inverse: feature %d has zero scale", i)
		}
		out[i] = (y[i] - s.min[i]) / s.scale[i]
	}
	return out, nil
}
