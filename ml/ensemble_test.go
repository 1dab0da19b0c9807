package ml

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRegressor struct {
	score float64
	err   error
	panic bool
	dim   int
	seen  []float64
}

func (f *fakeRegressor) InputDim() int { return f.dim }

func (f *fakeRegressor) Predict(x []float64) (float64, error) {
	f.seen = x
	if f.panic {
		panic("boom")
	}
	return f.score, f.err
}

func TestDefaultMembers(t *testing.T) {
	members := DefaultMembers(map[string]FittedRegressor{
		ModelLinear: &fakeRegressor{score: 1},
	})
	require.Len(t, members, 5)

	names := make([]string, len(members))
	for i, m := range members {
		names[i] = m.Name
	}
	assert.Equal(t, ModelNames(), names)
	assert.Equal(t, InputScaled, members[0].Input)
	assert.Equal(t, InputScaled, members[1].Input)
	assert.Equal(t, InputScaled, members[2].Input)
	assert.Equal(t, InputExpanded, members[3].Input)
	assert.Equal(t, InputExpanded, members[4].Input)
	assert.IsType(t, UnavailableModel{}, members[1].Model)
}

func TestEnsembleRoutesInputs(t *testing.T) {
	scaledModel := &fakeRegressor{score: 1}
	expandedModel := &fakeRegressor{score: 2}
	e := NewEnsemble([]Member{
		{Name: "s", Input: InputScaled, Model: scaledModel},
		{Name: "e", Input: InputExpanded, Model: expandedModel},
	}, nil)

	scaled := []float64{1, 2}
	expanded := []float64{1, 1, 2, 1, 2, 4}
	ps := e.Run(scaled, expanded)
	assert.Equal(t, scaled, scaledModel.seen)
	assert.Equal(t, expanded, expandedModel.seen)
	assert.Equal(t, map[string]float64{"s": 1, "e": 2}, ps.Scores)
	assert.Empty(t, ps.Failures)
}

func TestEnsembleIsolatesFailures(t *testing.T) {
	sentinel := errors.New("corrupt artifact")
	e := NewEnsemble(DefaultMembers(map[string]FittedRegressor{
		ModelLinear:     &fakeRegressor{score: 70},
		ModelRidge:      &fakeRegressor{score: 71},
		ModelLasso:      &fakeRegressor{score: 69},
		ModelPolynomial: &fakeRegressor{score: 72},
		ModelPolyRidge:  UnavailableModel{Err: sentinel},
	}), nil)

	ps := e.Run([]float64{0}, []float64{0})
	assert.Len(t, ps.Scores, 4)
	require.Len(t, ps.Failures, 1)

	err := ps.Failures[ModelPolyRidge]
	var merr *ModelError
	require.True(t, errors.As(err, &merr))
	assert.Equal(t, ModelPolyRidge, merr.Model)
	assert.ErrorIs(t, err, ErrModelFailed)
	assert.ErrorIs(t, err, sentinel)
	assert.Equal(t, ModelNames(), ps.Order)
}

func TestEnsembleRecoversPanics(t *testing.T) {
	e := NewEnsemble([]Member{
		{Name: "a", Input: InputScaled, Model: &fakeRegressor{panic: true}},
		{Name: "b", Input: InputScaled, Model: &fakeRegressor{score: 3}},
		{Name: "c", Input: InputScaled, Model: nil},
	}, nil)

	ps := e.Run([]float64{1}, []float64{1})
	assert.Equal(t, map[string]float64{"b": 3}, ps.Scores)
	assert.Contains(t, ps.Failures["a"].Error(), "panic")
	assert.Error(t, ps.Failures["c"])
}

func TestLinearModelPredict(t *testing.T) {
	m, err := NewLinearModel(FamilyRidge, []float64{0.5, -1, 2}, 10)
	require.NoError(t, err)

	got, err := m.Predict([]float64{2, 3, 1})
	require.NoError(t, err)
	assert.InDelta(t, 10.0, got, 1e-12)

	_, err = m.Predict([]float64{1, 2})
	assert.ErrorIs(t, err, ErrShapeMismatch)
}

func TestLinearModelNonFinite(t *testing.T) {
	m, err := NewLinearModel(FamilyLinear, []float64{math.MaxFloat64, math.MaxFloat64}, 0)
	require.NoError(t, err)

	_, err = m.Predict([]float64{math.MaxFloat64, math.MaxFloat64})
	assert.ErrorIs(t, err, ErrNonFinite)
}

func TestNewLinearModelInvalid(t *testing.T) {
	_, err := NewLinearModel("svr", []float64{1}, 0)
	assert.Error(t, err)
	_, err = NewLinearModel(FamilyLasso, nil, 0)
	assert.Error(t, err)
}
