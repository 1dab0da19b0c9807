// Package mltest provides a small fitted-artifact fixture for tests.
//
// The scaler mean equals the encoded form of Input(), so that input scales to
// the zero vector: linear members then predict their intercept and the
// polynomial members predict intercept plus the bias coefficient.
package mltest

import (
	"testing"

	"scorecast/ml"
)

var (
	mean = []float64{20, 85, 75, 7, 3, 2, 1, 0, 1, 0, 1, 1, 1, 1, 1, 0, 1, 1, 0}
	std  = []float64{6, 11, 14, 1.5, 1.1, 1.5, 0.7, 0.3, 0.3, 0.5, 0.8, 0.7, 0.7, 0.7, 0.7, 0.5, 0.6, 0.7, 0.5}

	linearCoef = []float64{1.8, 2.3, 0.7, 0.1, 0.2, 0.6, 0.5, -0.2, 0.3, 0.2, 0.2, 0.4, 0.5, -0.3, 0.4, 0, 0.3, 0.5, 0}

	intercepts = map[string]float64{
		ml.ModelLinear:     67.2,
		ml.ModelRidge:      67.25,
		ml.ModelLasso:      67.1,
		ml.ModelPolynomial: 67.0,
		ml.ModelPolyRidge:  67.05,
	}
	biasCoef = map[string]float64{
		ml.ModelPolynomial: 0.3,
		ml.ModelPolyRidge:  0.2,
	}
	families = map[string]ml.Family{
		ml.ModelLinear:     ml.FamilyLinear,
		ml.ModelRidge:      ml.FamilyRidge,
		ml.ModelLasso:      ml.FamilyLasso,
		ml.ModelPolynomial: ml.FamilyPolynomial,
		ml.ModelPolyRidge:  ml.FamilyPolyRidge,
	}
)

// Input is the reference scenario; it encodes to the scaler mean.
func Input() ml.StudentInput {
	return ml.StudentInput{
		HoursStudied:              20,
		Attendance:                85,
		PreviousScores:            75,
		SleepHours:                7,
		PhysicalActivity:          3,
		TutoringSessions:          2,
		MotivationLevel:           "Medium",
		LearningDisabilities:      "No",
		InternetAccess:            "Yes",
		ExtracurricularActivities: "No",
		ParentalEducationLevel:    "College",
		FamilyIncome:              "Medium",
		ParentalInvolvement:       "Medium",
		DistanceFromHome:          "Moderate",
		PeerInfluence:             "Neutral",
		SchoolType:                "Public",
		TeacherQuality:            "Medium",
		AccessToResources:         "Medium",
		Gender:                    "Female",
	}
}

// Expected returns the score each model produces for Input().
func Expected() map[string]float64 {
	out := make(map[string]float64, len(intercepts))
	for name, b := range intercepts {
		out[name] = b + biasCoef[name]
	}
	return out
}

func Features() []string {
	return ml.DefaultFeatureOrder()
}

func Scaler() ml.ScalerSpec {
	return ml.ScalerSpec{
		Kind:  "standard",
		Mean:  append([]float64(nil), mean...),
		Scale: append([]float64(nil), std...),
	}
}

func Polynomial() ml.PolynomialSpec {
	return ml.PolynomialSpec{NFeaturesIn: len(mean), Degree: 2, IncludeBias: true}
}

// Regressors returns the serialized form of every model keyed by display name.
func Regressors() map[string]ml.RegressorSpec {
	expandedDim := ml.PolynomialOutputDim(len(mean), 2, true, false)
	out := make(map[string]ml.RegressorSpec, len(families))
	for name, family := range families {
		spec := ml.RegressorSpec{Family: family, Intercept: intercepts[name]}
		input, _ := ml.ModelInput(name)
		if input == ml.InputExpanded {
			spec.Coef = make([]float64, expandedDim)
			spec.Coef[0] = biasCoef[name]
			for i, c := range linearCoef {
				spec.Coef[i+1] = c * 0.9
			}
		} else {
			spec.Coef = append([]float64(nil), linearCoef...)
		}
		out[name] = spec
	}
	return out
}

func R2Scores() map[string]float64 {
	return map[string]float64{
		ml.ModelLinear:     0.712,
		ml.ModelRidge:      0.713,
		ml.ModelLasso:      0.705,
		ml.ModelPolynomial: 0.698,
		ml.ModelPolyRidge:  0.721,
	}
}

// Bundle builds the fixture bundle, failing the test on error.
func Bundle(t testing.TB) *ml.Bundle {
	t.Helper()
	scaler, err := Scaler().Build()
	if err != nil {
		t.Fatalf("scaler: %v", err)
	}
	poly, err := Polynomial().Build()
	if err != nil {
		t.Fatalf("polynomial: %v", err)
	}
	regressors := make(map[string]ml.FittedRegressor)
	for name, spec := range Regressors() {
		model, err := spec.Build()
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		regressors[name] = model
	}
	return &ml.Bundle{
		Features:   Features(),
		Scaler:     scaler,
		Poly:       poly,
		Regressors: regressors,
		R2Scores:   R2Scores(),
	}
}
