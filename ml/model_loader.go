package ml

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ScalerSpec is the serialized form of a fitted scaler.
type ScalerSpec struct {
	Kind  string    `json:"kind"`
	Mean  []float64 `json:"mean,omitempty"`
	Min   []float64 `json:"min,omitempty"`
	Scale []float64 `json:"scale"`
}

func (s ScalerSpec) Build() (InvertibleTransform, error) {
	switch s.Kind {
	case "standard", "":
		return NewStandardScaler(s.Mean, s.Scale)
	case "minmax":
		return NewMinMaxScaler(s.Min, s.Scale)
	default:
		return nil, fmt.Errorf("unsupported scaler kind %q", s.Kind)
	}
}

// PolynomialSpec is the serialized form of a fitted polynomial expansion.
type PolynomialSpec struct {
	NFeaturesIn     int  `json:"n_features_in"`
	Degree          int  `json:"degree"`
	IncludeBias     bool `json:"include_bias"`
	InteractionOnly bool `json:"interaction_only"`
}

func (s PolynomialSpec) Build() (FittedTransform, error) {
	return NewPolynomialFeatures(s.NFeaturesIn, s.Degree, s.IncludeBias, s.InteractionOnly)
}

// RegressorSpec is the serialized form of a fitted linear-family regressor.
type RegressorSpec struct {
	Family    Family    `json:"family"`
	Coef      []float64 `json:"coef"`
	Intercept float64   `json:"intercept"`
}

func (s RegressorSpec) Build() (FittedRegressor, error) {
	return NewLinearModel(s.Family, s.Coef, s.Intercept)
}

// LoadScaler decodes a standard or min-max scaler artifact.
func LoadScaler(payload []byte) (InvertibleTransform, error) {
	var spec ScalerSpec
	if err := decodeArtifact(payload, &spec); err != nil {
		return nil, err
	}
	return spec.Build()
}

func LoadPolynomial(payload []byte) (FittedTransform, error) {
	var spec PolynomialSpec
	if err := decodeArtifact(payload, &spec); err != nil {
		return nil, err
	}
	return spec.Build()
}

// LoadModel decodes a regressor artifact. expected, when set, must match the
// family recorded in the payload.
func LoadModel(expected Family, payload []byte) (FittedRegressor, error) {
	var spec RegressorSpec
	if err := decodeArtifact(payload, &spec); err != nil {
		return nil, err
	}
	if spec.Family == "" {
		spec.Family = expected
	}
	if expected != "" && spec.Family != expected {
		return nil, fmt.Errorf("expected %s model, artifact holds %s", expected, spec.Family)
	}
	return spec.Build()
}

func LoadFeatureNames(payload []byte) ([]string, error) {
	var names []string
	if err := decodeArtifact(payload, &names); err != nil {
		return nil, err
	}
	if len(names) == 0 {
		return nil, errors.New("feature list is empty")
	}
	return names, nil
}

func LoadR2Scores(payload []byte) (map[string]float64, error) {
	var scores map[string]float64
	if err := decodeArtifact(payload, &scores); err != nil {
		return nil, err
	}
	return scores, nil
}

func decodeArtifact(payload []byte, v interface{}) error {
	if len(payload) == 0 {
		return errors.New("empty payload")
	}
	if err := json.Unmarshal(payload, v); err != nil {
		return fmt.Errorf("decode: %w", err)
	}
	return nil
}
