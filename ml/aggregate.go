package ml

import (
	"sort"

	"gonum.org/v1/gonum/floats"
)

// Summary reports the highest score with its model. Mean is taken over the
// Count models that succeeded.
type Summary struct {
	Max   float64 `json:"max"`
	Mean  float64 `json:"mean"`
	Best  string  `json:"best"`
	Count int     `json:"count"`
}

// Summarize computes the unweighted max and mean over successful scores.
func Summarize(ps PredictionSet) (Summary, error) {
	scores := ps.Succeeded()
	if len(scores) == 0 {
		return Summary{}, ErrEmptyPredictionSet
	}
	best := ""
	for _, name := range ps.Order {
		v, ok := ps.Scores[name]
		if !ok {
			continue
		}
		if best == "" || v > ps.Scores[best] {
			best = name
		}
	}
	return Summary{
		Max:   floats.Max(scores),
		Mean:  floats.Sum(scores) / float64(len(scores)),
		Best:  best,
		Count: len(scores),
	}, nil
}

// ModelRank is one row of the R² ranking, Rank starting at 1.
type ModelRank struct {
	Rank  int     `json:"rank"`
	Model string  `json:"model"`
	R2    float64 `json:"r2"`
}

// RankModels orders models by historical R² descending, ties by name.
func RankModels(r2 map[string]float64) []ModelRank {
	ranks := make([]ModelRank, 0, len(r2))
	for name, score := range r2 {
		ranks = append(ranks, ModelRank{Model: name, R2: score})
	}
	sort.Slice(ranks, func(i, j int) bool {
		if ranks[i].R2 != ranks[j].R2 {
			return ranks[i].R2 > ranks[j].R2
		}
		return ranks[i].Model < ranks[j].Model
	})
	for i := range ranks {
		ranks[i].Rank = i + 1
	}
	return ranks
}
