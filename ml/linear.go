package ml

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// Family names the fitting procedure a linear model came from. Inference is
// identical across families.
type Family string

const (
	FamilyLinear     Family = "linear"
	FamilyRidge      Family = "ridge"
	FamilyLasso      Family = "lasso"
	FamilyPolynomial Family = "polynomial"
	FamilyPolyRidge  Family = "poly_ridge"
)

func (f Family) valid() bool {
	switch f {
	case FamilyLinear, FamilyRidge, FamilyLasso, FamilyPolynomial, FamilyPolyRidge:
		return true
	}
	return false
}

// LinearModel predicts intercept + coef·x.
type LinearModel struct {
	family    Family
	coef      []float64
	intercept float64
}

// NewLinearModel copies coef; the family only selects the error prefix.
func NewLinearModel(family Family, coef []float64, intercept float64) (*LinearModel, error) {
	if !family.valid() {
		return nil, fmt.Errorf("linear model: unsupported family %q", family)
	}
	if len(coef) == 0 {
		return nil, errors.New("linear model: no coefficients")
	}
	return &LinearModel{
		family:    family,
		coef:      append([]float64(nil), coef...),
		intercept: intercept,
	}, nil
}

func (m *LinearModel) InputDim() int { return len(m.coef) }

func (m *LinearModel) Predict(x []float64) (float64, error) {
	if len(x) != len(m.coef) {
		return 0, shapeError(string(m.family)+" model", len(m.coef), len(x))
	}
	y := m.intercept + floats.Dot(m.coef, x)
	if math.IsNaN(y) || math.IsInf(y, 0) {
		return 0, fmt.Errorf("%w: %s model produced %v", ErrNonFinite, m.family, y)
	}
	return y, nil
}

// UnavailableModel stands in for a regressor whose artifact could not be
// loaded. Every prediction reports the load error.
type UnavailableModel struct {
	Err error
}

func (m UnavailableModel) InputDim() int { return 0 }

func (m UnavailableModel) Predict([]float64) (float64, error) {
	if m.Err == nil {
		return 0, errors.New("model unavailable")
	}
	return 0, fmt.Errorf("model unavailable: %w", m.Err)
}
