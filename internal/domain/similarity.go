package domain

import "math"

// SimilarityFunc compares two attribute values, result in [0,1]
// (1 = perfect match).
type SimilarityFunc func(a, b float64) float64

// BinarySimilarity - 1 при точном совпадении, иначе 0.
// Для категориальных атрибутов (закодированные метки и т.п.).
func BinarySimilarity(a, b float64) float64 {
	if a == b {
		return 1
	}
	return 0
}

// ScalarSimilarity builds a similarity for values on a fixed scale:
// 1 - |a-b|/scale, clipped to [0,1].
func ScalarSimilarity(scale float64) (SimilarityFunc, error) {
	if math.IsNaN(scale) || scale <= 0 {
		return nil, ErrInvalidScale
	}
	return func(a, b float64) float64 {
		return clip01(1 - math.Abs(a-b)/scale)
	}, nil
}

// ScalarSimilarities builds one scalar similarity per attribute scale.
func ScalarSimilarities(scales []float64) ([]SimilarityFunc, error) {
	sims := make([]SimilarityFunc, 0, len(scales))
	for _, s := range scales {
		sim, err := ScalarSimilarity(s)
		if err != nil {
			return nil, err
		}
		sims = append(sims, sim)
	}
	return sims, nil
}

// ProfileCohesion computes the cohesion score between two attribute
// vectors with one similarity per attribute. Nil weights means equal
// weights. Empty vectors or zero total weight yield 0.
func ProfileCohesion(subject, target, weights []float64, sims []SimilarityFunc) (float64, error) {
	n := len(subject)
	if len(target) != n || len(sims) != n {
		return 0, ErrLengthMismatch
	}
	if weights != nil && len(weights) != n {
		return 0, ErrLengthMismatch
	}

	var weighted, total float64
	for i := 0; i < n; i++ {
		wi := 1.0
		if weights != nil {
			wi = weights[i]
		}
		if wi <= 0 {
			continue
		}
		// кастомная similarity может вылезти за [0,1]
		weighted += wi * clip01(sims[i](subject[i], target[i]))
		total += wi
	}

	if total <= 0 {
		return 0, nil
	}
	return weighted / total, nil
}

const ratioEps = 1e-12

// DistributionalRatio compares the subject's fit against two target
// profiles: ProfileCohesion(subject, A) / ProfileCohesion(subject, B).
// Values above 1 mean closer to A, below 1 closer to B. Both cohesions
// near zero is neutral (1); a near-zero denominator alone is +Inf.
func DistributionalRatio(subject, targetA, targetB, weights []float64, sims []SimilarityFunc) (float64, error) {
	a, err := ProfileCohesion(subject, targetA, weights, sims)
	if err != nil {
		return 0, err
	}
	b, err := ProfileCohesion(subject, targetB, weights, sims)
	if err != nil {
		return 0, err
	}

	if b <= ratioEps {
		if a <= ratioEps {
			return 1, nil
		}
		return math.Inf(1), nil
	}
	return a / b, nil
}

func clip01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
