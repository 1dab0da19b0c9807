package ml

import (
	"fmt"

	"go.uber.org/zap"
)

// Member is one regressor in the ensemble and the representation it reads.
type Member struct {
	Name  string
	Input Input
	Model FittedRegressor
}

// PredictionSet holds one outcome per member: a score or a failure.
type PredictionSet struct {
	Order    []string
	Scores   map[string]float64
	Failures map[string]error
}

// Succeeded returns the successful scores in member order.
func (ps PredictionSet) Succeeded() []float64 {
	out := make([]float64, 0, len(ps.Scores))
	for _, name := range ps.Order {
		if v, ok := ps.Scores[name]; ok {
			out = append(out, v)
		}
	}
	return out
}

// Ensemble runs a fixed set of members over one scaled and one expanded vector.
type Ensemble struct {
	members []Member
	logger  *zap.Logger
}

// NewEnsemble copies members. A nil logger discards member failures.
func NewEnsemble(members []Member, logger *zap.Logger) *Ensemble {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Ensemble{
		members: append([]Member(nil), members...),
		logger:  logger,
	}
}

// DefaultMembers wires the five fitted regressors to their fixed names and
// inputs. A name missing from regressors becomes an UnavailableModel.
func DefaultMembers(regressors map[string]FittedRegressor) []Member {
	members := make([]Member, 0, len(regressors))
	for _, name := range ModelNames() {
		input, _ := ModelInput(name)
		model, ok := regressors[name]
		if !ok || model == nil {
			model = UnavailableModel{Err: fmt.Errorf("no artifact for %s", name)}
		}
		members = append(members, Member{Name: name, Input: input, Model: model})
	}
	return members
}

// Run invokes every member. A failing or panicking member is recorded in
// Failures and the remaining members still run.
func (e *Ensemble) Run(scaled, expanded []float64) PredictionSet {
	ps := PredictionSet{
		Order:    make([]string, 0, len(e.members)),
		Scores:   make(map[string]float64, len(e.members)),
		Failures: make(map[string]error),
	}
	for _, m := range e.members {
		ps.Order = append(ps.Order, m.Name)
		x := scaled
		if m.Input == InputExpanded {
			x = expanded
		}
		score, err := invoke(m, x)
		if err != nil {
			e.logger.Warn("model prediction failed", zap.String("model", m.Name), zap.Error(err))
			ps.Failures[m.Name] = &ModelError{Model: m.Name, Err: err}
			continue
		}
		ps.Scores[m.Name] = score
	}
	return ps
}

func invoke(m Member, x []float64) (score float64, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	if m.Model == nil {
		return 0, fmt.Errorf("no model")
	}
	if x == nil {
		return 0, fmt.Errorf("no %s input", m.Input)
	}
	return m.Model.Predict(x)
}
