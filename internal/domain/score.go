package domain

import (
	"fmt"
	"sort"
)

// CohesionScore computes the weighted cohesion score (WCS): a weighted
// mean of Fit, Phase and stability (1 - Dissolution). Convexity keeps
// the result in [0,1] for valid inputs.
func CohesionScore(r Ratings, w Weights) (float64, error) {
	if err := r.Validate(); err != nil {
		return 0, err
	}
	if err := w.Validate(); err != nil {
		return 0, err
	}
	stability := 1 - r.Dissolution
	return (w.Fit*r.Fit + w.Phase*r.Phase + w.Stability*stability) / w.Sum(), nil
}

// DissolutionRisk blends raw dissolution with lack of cohesion:
// lambda*d + (1-lambda)*(1-wcs). With the default lambda raw
// dissolution dominates, low cohesion still contributes.
func DissolutionRisk(d, wcs, lambda float64) (float64, error) {
	if !inUnitRange(d) {
		return 0, ErrRatingOutOfRange
	}
	if !inUnitRange(wcs) {
		return 0, ErrCohesionOutOfRange
	}
	if !inUnitRange(lambda) {
		return 0, ErrLambdaOutOfRange
	}
	return lambda*d + (1-lambda)*(1-wcs), nil
}

// Evaluate scores one option. Veto is a hard flag on raw Dissolution
// exceeding the threshold (strict), independent of the computed risk.
func (o Option) Evaluate(p Params) (Evaluation, error) {
	if err := p.Validate(); err != nil {
		return Evaluation{}, err
	}
	wcs, err := CohesionScore(o.Ratings, p.Weights)
	if err != nil {
		return Evaluation{}, err
	}
	dr, err := DissolutionRisk(o.Dissolution, wcs, p.Lambda)
	if err != nil {
		return Evaluation{}, err
	}
	return Evaluation{
		WCS:    wcs,
		DR:     dr,
		Vetoed: o.Dissolution > p.VetoThreshold,
	}, nil
}

// RankOptions evaluates every option and sorts ascending by DR, lowest
// risk first. The sort is stable: equal DR keeps input order. Vetoed
// options stay in the result with the flag set, filtering is up to the
// caller. Первая невалидная опция прерывает весь батч.
func RankOptions(opts []Option, p Params) ([]RankedOption, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	ranked := make([]RankedOption, 0, len(opts))
	for _, o := range opts {
		ev, err := o.Evaluate(p)
		if err != nil {
			return nil, fmt.Errorf("option %q: %w", o.Name, err)
		}
		ranked = append(ranked, RankedOption{Option: o, Evaluation: ev})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].DR < ranked[j].DR
	})

	return ranked, nil
}
