package ml

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStandardScalerTransform(t *testing.T) {
	s, err := NewStandardScaler([]float64{10, 0, 5}, []float64{2, 1, 0})
	require.NoError(t, err)

	got, err := s.Transform([]float64{14, -3, 7})
	require.NoError(t, err)
	assert.Equal(t, []float64{2, -3, 2}, got)
}

func TestStandardScalerRoundTrip(t *testing.T) {
	scaler, err := NewStandardScaler([]float64{20, 85, 75}, []float64{6.1, 11.3, 14.2})
	require.NoError(t, err)
	var s InvertibleTransform = scaler

	x := []float64{17, 92, 61}
	y, err := s.Transform(x)
	require.NoError(t, err)
	back, err := s.InverseTransform(y)
	require.NoError(t, err)
	assert.InDeltaSlice(t, x, back, 1e-9)
}

func TestStandardScalerDeterministic(t *testing.T) {
	s, err := NewStandardScaler([]float64{1.5, 2.5}, []float64{0.3, 0.7})
	require.NoError(t, err)

	x := []float64{0.1, 9.9}
	a, err := s.Transform(x)
	require.NoError(t, err)
	b, err := s.Transform(x)
	require.NoError(t, err)
	assert.Equal(t, a, b)
	assert.Equal(t, []float64{0.1, 9.9}, x)
}

func TestStandardScalerShapeMismatch(t *testing.T) {
	s, err := NewStandardScaler([]float64{0, 0, 0}, []float64{1, 1, 1})
	require.NoError(t, err)

	for _, x := range [][]float64{nil, {1, 2}, {1, 2, 3, 4}} {
		out, err := s.Transform(x)
		assert.Nil(t, out)
		assert.ErrorIs(t, err, ErrShapeMismatch)
	}
	_, err = s.InverseTransform([]float64{1})
	assert.ErrorIs(t, err, ErrShapeMismatch)
}

func TestNewStandardScalerInvalid(t *testing.T) {
	_, err := NewStandardScaler(nil, nil)
	assert.Error(t, err)
	_, err = NewStandardScaler([]float64{1, 2}, []float64{1})
	assert.ErrorIs(t, err, ErrShapeMismatch)
}

func TestMinMaxScaler(t *testing.T) {
	// fitted on [0, 50] and [0, 100]
	scaler, err := NewMinMaxScaler([]float64{0, 0}, []float64{0.02, 0.01})
	require.NoError(t, err)
	var s InvertibleTransform = scaler

	y, err := s.Transform([]float64{25, 100})
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{0.5, 1}, y, 1e-12)

	back, err := s.InverseTransform(y)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{25, 100}, back, 1e-9)

	_, err = s.Transform([]float64{1})
	assert.ErrorIs(t, err, ErrShapeMismatch)
}
