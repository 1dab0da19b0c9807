package ml

import (
	"errors"

	"gonum.org/v1/gonum/stat/combin"
)

// PolynomialFeatures expands a vector into all monomials up to a degree.
// Term order is bias, then each degree in turn with index combinations in
// lexicographic order, the order scikit-learn's PolynomialFeatures emits.
type PolynomialFeatures struct {
	nInputs int
	terms   [][]int
}

// NewPolynomialFeatures precomputes the term list for nInputs features.
func NewPolynomialFeatures(nInputs, degree int, includeBias, interactionOnly bool) (*PolynomialFeatures, error) {
	if nInputs <= 0 {
		return nil, errors.New("polynomial features: input dimension must be positive")
	}
	if degree <= 0 {
		return nil, errors.New("polynomial features: degree must be positive")
	}
	return &PolynomialFeatures{
		nInputs: nInputs,
		terms:   polynomialTerms(nInputs, degree, includeBias, interactionOnly),
	}, nil
}

func polynomialTerms(n, degree int, includeBias, interactionOnly bool) [][]int {
	terms := make([][]int, 0, PolynomialOutputDim(n, degree, includeBias, interactionOnly))
	if includeBias {
		terms = append(terms, []int{})
	}
	for k := 1; k <= degree; k++ {
		if interactionOnly {
			if k > n {
				break
			}
			terms = append(terms, combin.Combinations(n, k)...)
			continue
		}
		// multisets of size k map onto k-subsets of n+k-1 by c[i]-i, preserving order
		for _, c := range combin.Combinations(n+k-1, k) {
			for i := range c {
				c[i] -= i
			}
			terms = append(terms, c)
		}
	}
	return terms
}

// PolynomialOutputDim is the expanded length for n inputs.
func PolynomialOutputDim(n, degree int, includeBias, interactionOnly bool) int {
	if n <= 0 || degree <= 0 {
		return 0
	}
	total := 0
	if includeBias {
		total = 1
	}
	for k := 1; k <= degree; k++ {
		if interactionOnly {
			if k > n {
				break
			}
			total += combin.Binomial(n, k)
			continue
		}
		total += combin.Binomial(n+k-1, k)
	}
	return total
}

func (p *PolynomialFeatures) InputDim() int  { return p.nInputs }
func (p *PolynomialFeatures) OutputDim() int { return len(p.terms) }

func (p *PolynomialFeatures) Transform(x []float64) ([]float64, error) {
	if len(x) != p.nInputs {
		return nil, shapeError("polynomial features", p.nInputs, len(x))
	}
	out := make([]float64, len(p.terms))
	for i, term := range p.terms {
		v := 1.0
		for _, idx := range term {
			v *= x[idx]
		}
		out[i] = v
	}
	return out, nil
}
