package artifact

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"scorecast/ml"
)

var ErrArtifactLoad = errors.New("artifact load failed")

// LoadError reports which artifact could not be loaded or validated.
type LoadError struct {
	Name string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load artifact %s: %v", e.Name, e.Err)
}

func (e *LoadError) Unwrap() []error {
	return []error{ErrArtifactLoad, e.Err}
}

// Options controls Load.
type Options struct {
	// AllowPartialEnsemble turns an undecodable regressor into a model that
	// fails on every request instead of failing the whole load.
	AllowPartialEnsemble bool
	Logger               *zap.Logger
}

type regressorArtifact struct {
	name   string
	model  string
	family ml.Family
}

var regressorArtifacts = []regressorArtifact{
	{NameLinearModel, ml.ModelLinear, ml.FamilyLinear},
	{NameRidgeModel, ml.ModelRidge, ml.FamilyRidge},
	{NameLassoModel, ml.ModelLasso, ml.FamilyLasso},
	{NamePolynomialModel, ml.ModelPolynomial, ml.FamilyPolynomial},
	{NamePolyRidgeModel, ml.ModelPolyRidge, ml.FamilyPolyRidge},
}

// ArtifactName returns the artifact a display model is stored under.
func ArtifactName(model string) (string, bool) {
	for _, r := range regressorArtifacts {
		if r.model == model {
			return r.name, true
		}
	}
	return "", false
}

// Load reads and decodes every artifact and validates the result. The
// returned bundle is never mutated afterwards.
func Load(ctx context.Context, store Store, opts Options) (*ml.Bundle, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	features, err := loadOne(ctx, store, NameFeatures, ml.LoadFeatureNames)
	if err != nil {
		return nil, err
	}
	scaler, err := loadOne(ctx, store, NameScaler, ml.LoadScaler)
	if err != nil {
		return nil, err
	}
	poly, err := loadOne(ctx, store, NamePolyFeatures, ml.LoadPolynomial)
	if err != nil {
		return nil, err
	}
	r2, err := loadOne(ctx, store, NameR2Scores, ml.LoadR2Scores)
	if err != nil {
		return nil, err
	}

	regressors := make(map[string]ml.FittedRegressor, len(regressorArtifacts))
	for _, r := range regressorArtifacts {
		family := r.family
		model, err := loadOne(ctx, store, r.name, func(payload []byte) (ml.FittedRegressor, error) {
			return ml.LoadModel(family, payload)
		})
		if err != nil {
			if !opts.AllowPartialEnsemble || errors.Is(err, context.Canceled) {
				return nil, err
			}
			logger.Warn("regressor unavailable, continuing without it",
				zap.String("artifact", r.name), zap.String("model", r.model), zap.Error(err))
			model = ml.UnavailableModel{Err: err}
		}
		regressors[r.model] = model
	}

	bundle := &ml.Bundle{
		Features:   features,
		Scaler:     scaler,
		Poly:       poly,
		Regressors: regressors,
		R2Scores:   r2,
	}
	if err := Validate(bundle, logger); err != nil {
		return nil, err
	}
	logger.Info("artifact bundle loaded",
		zap.Int("features", len(features)),
		zap.Int("expanded", poly.OutputDim()),
		zap.Int("regressors", len(regressors)),
	)
	return bundle, nil
}

func loadOne[T any](ctx context.Context, store Store, name string, decode func([]byte) (T, error)) (T, error) {
	var zero T
	payload, err := store.Load(ctx, name)
	if err != nil {
		return zero, &LoadError{Name: name, Err: err}
	}
	v, err := decode(payload)
	if err != nil {
		return zero, &LoadError{Name: name, Err: err}
	}
	return v, nil
}

// Validate checks the bundle against the declared vocabulary and the
// transforms against each other. Regressor dimensions are only logged: a
// mismatched regressor fails on its own at prediction time.
func Validate(bundle *ml.Bundle, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := validateFeatures(bundle.Features); err != nil {
		return &LoadError{Name: NameFeatures, Err: err}
	}
	if got := bundle.Scaler.InputDim(); got != len(bundle.Features) {
		return &LoadError{Name: NameScaler, Err: fmt.Errorf("%w: scaler fitted on %d features, feature list has %d",
			ml.ErrShapeMismatch, got, len(bundle.Features))}
	}
	if got, want := bundle.Poly.InputDim(), bundle.Scaler.OutputDim(); got != want {
		return &LoadError{Name: NamePolyFeatures, Err: fmt.Errorf("%w: polynomial expansion fitted on %d inputs, scaler emits %d",
			ml.ErrShapeMismatch, got, want)}
	}

	for _, r := range regressorArtifacts {
		model, ok := bundle.Regressors[r.model]
		if !ok {
			continue
		}
		if _, unavailable := model.(ml.UnavailableModel); unavailable {
			continue
		}
		input, _ := ml.ModelInput(r.model)
		want := bundle.Scaler.OutputDim()
		if input == ml.InputExpanded {
			want = bundle.Poly.OutputDim()
		}
		if model.InputDim() != want {
			logger.Warn("regressor dimension does not match its input",
				zap.String("model", r.model), zap.Int("want", want), zap.Int("got", model.InputDim()))
		}
	}
	for name := range bundle.R2Scores {
		if _, ok := ml.ModelInput(name); !ok {
			logger.Warn("r2 score for unknown model", zap.String("model", name))
		}
	}
	return nil
}

func validateFeatures(features []string) error {
	seen := make(map[string]bool, len(features))
	for _, name := range features {
		if seen[name] {
			return fmt.Errorf("duplicate feature %q", name)
		}
		seen[name] = true
		if _, ok := ml.LookupAttribute(name); !ok {
			return fmt.Errorf("feature %q is not a declared attribute", name)
		}
	}
	for _, attr := range ml.Vocabulary() {
		if !seen[attr.Name] {
			return fmt.Errorf("%w: declared attribute %s absent from feature list", ml.ErrMissingFeature, attr.Name)
		}
	}
	return nil
}
