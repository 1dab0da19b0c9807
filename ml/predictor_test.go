package ml_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scorecast/ml"
	"scorecast/ml/mltest"
)

func TestPredictorPredict(t *testing.T) {
	p, err := ml.NewPredictor(mltest.Bundle(t))
	require.NoError(t, err)

	res, err := p.Predict(context.Background(), mltest.Input())
	require.NoError(t, err)

	assert.Len(t, res.Features, 19)
	assert.Equal(t, ml.ModelNames(), res.Order)
	assert.Empty(t, res.Failures)

	want := mltest.Expected()
	require.Len(t, res.Predictions, 5)
	for name, score := range want {
		assert.InDelta(t, score, res.Predictions[name], 1e-9, name)
	}
	assert.InDelta(t, 67.3, res.Summary.Max, 1e-9)
	assert.Equal(t, ml.ModelPolynomial, res.Summary.Best)
	assert.Equal(t, 5, res.Summary.Count)
}

func TestPredictorDeterministic(t *testing.T) {
	p, err := ml.NewPredictor(mltest.Bundle(t))
	require.NoError(t, err)

	in := mltest.Input()
	in.HoursStudied = 33
	in.Gender = "Male"
	in.PeerInfluence = "Positive"

	a, err := p.Predict(context.Background(), in)
	require.NoError(t, err)
	b, err := p.Predict(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestPredictorRejectsUnknownCategory(t *testing.T) {
	p, err := ml.NewPredictor(mltest.Bundle(t))
	require.NoError(t, err)

	in := mltest.Input()
	in.Gender = "Other"
	_, err = p.Predict(context.Background(), in)
	require.Error(t, err)

	var perr *ml.PredictionError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, ml.StageEncode, perr.Stage)
	assert.ErrorIs(t, err, ml.ErrUnknownCategory)
	assert.True(t, ml.IsInputError(err))
	assert.Contains(t, err.Error(), "invalid input")
}

func TestPredictorFeatureSkew(t *testing.T) {
	b := mltest.Bundle(t)
	b.Features = append(append([]string(nil), b.Features[:18]...), "Commute_Minutes")
	p, err := ml.NewPredictor(b)
	require.NoError(t, err)

	_, err = p.Predict(context.Background(), mltest.Input())
	assert.ErrorIs(t, err, ml.ErrMissingFeature)
	assert.False(t, ml.IsInputError(err))
	assert.Equal(t, "prediction failed: model configuration error", err.Error())
}

func TestPredictorShapeMismatch(t *testing.T) {
	p, err := ml.NewPredictor(mltest.Bundle(t))
	require.NoError(t, err)

	_, err = p.PredictVector(context.Background(), make([]float64, 18))
	var perr *ml.PredictionError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, ml.StageScale, perr.Stage)
	assert.ErrorIs(t, err, ml.ErrShapeMismatch)
}

func TestPredictorDegradesWithOneBrokenModel(t *testing.T) {
	b := mltest.Bundle(t)
	b.Regressors[ml.ModelLasso] = ml.UnavailableModel{Err: errors.New("truncated artifact")}
	p, err := ml.NewPredictor(b)
	require.NoError(t, err)

	res, err := p.Predict(context.Background(), mltest.Input())
	require.NoError(t, err)
	assert.Len(t, res.Predictions, 4)
	require.Contains(t, res.Failures, ml.ModelLasso)
	assert.Contains(t, res.Failures[ml.ModelLasso], "truncated artifact")
	assert.Equal(t, 4, res.Summary.Count)
}

func TestPredictorAllModelsFail(t *testing.T) {
	b := mltest.Bundle(t)
	b.Regressors = map[string]ml.FittedRegressor{}
	p, err := ml.NewPredictor(b)
	require.NoError(t, err)

	_, err = p.Predict(context.Background(), mltest.Input())
	assert.ErrorIs(t, err, ml.ErrEmptyPredictionSet)
	assert.Equal(t, "prediction failed: no model produced a score", err.Error())
}

func TestPredictorCancelled(t *testing.T) {
	p, err := ml.NewPredictor(mltest.Bundle(t))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = p.Predict(ctx, mltest.Input())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewPredictorRequiresBundle(t *testing.T) {
	_, err := ml.NewPredictor(nil)
	assert.Error(t, err)
	_, err = ml.NewPredictor(&ml.Bundle{Features: []string{"a"}})
	assert.Error(t, err)
}

func TestLoadModelFamilyCheck(t *testing.T) {
	_, err := ml.LoadModel(ml.FamilyRidge, []byte(`{"family":"lasso","coef":[1],"intercept":0}`))
	assert.Error(t, err)

	m, err := ml.LoadModel(ml.FamilyRidge, []byte(`{"coef":[1,2],"intercept":3}`))
	require.NoError(t, err)
	assert.Equal(t, 2, m.InputDim())

	_, err = ml.LoadModel(ml.FamilyRidge, []byte(`{"coef":`))
	assert.Error(t, err)
	_, err = ml.LoadModel(ml.FamilyRidge, nil)
	assert.Error(t, err)
}

func TestLoadScalerKinds(t *testing.T) {
	s, err := ml.LoadScaler([]byte(`{"kind":"minmax","min":[0,0],"scale":[0.5,0.25]}`))
	require.NoError(t, err)
	out, err := s.Transform([]float64{2, 4})
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 1}, out)
	back, err := s.InverseTransform(out)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{2, 4}, back, 1e-12)

	_, err = ml.LoadScaler([]byte(`{"kind":"robust","scale":[1]}`))
	assert.Error(t, err)
}
