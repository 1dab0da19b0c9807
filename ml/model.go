package ml

// FittedTransform maps a fixed-length vector to another fixed-length vector
// using parameters learned elsewhere.
type FittedTransform interface {
	Transform(x []float64) ([]float64, error)
	InputDim() int
	OutputDim() int
}

// InvertibleTransform is implemented by transforms that can undo themselves.
type InvertibleTransform interface {
	FittedTransform
	InverseTransform(y []float64) ([]float64, error)
}

// FittedRegressor maps a fixed-length vector to a single score.
type FittedRegressor interface {
	Predict(x []float64) (float64, error)
	InputDim() int
}

// Input selects which representation an ensemble member consumes.
type Input string

const (
	InputScaled   Input = "scaled"
	InputExpanded Input = "expanded"
)

// Model display names, in display order.
const (
	ModelLinear     = "Linear"
	ModelRidge      = "Ridge"
	ModelLasso      = "Lasso"
	ModelPolynomial = "Polynomial"
	ModelPolyRidge  = "Poly+Ridge"
)

// ModelNames returns the fixed display names in display order.
func ModelNames() []string {
	return []string{ModelLinear, ModelRidge, ModelLasso, ModelPolynomial, ModelPolyRidge}
}

// ModelInput reports which representation the named model consumes.
func ModelInput(name string) (Input, bool) {
	switch name {
	case ModelLinear, ModelRidge, ModelLasso:
		return InputScaled, true
	case ModelPolynomial, ModelPolyRidge:
		return InputExpanded, true
	default:
		return "", false
	}
}
