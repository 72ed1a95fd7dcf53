package domain

import "math"

const (
	DefaultLambda        = 0.7
	DefaultVetoThreshold = 0.8
)

// Ratings - пользовательские оценки опции, каждая в [0,1]
type Ratings struct {
	Fit         float64 // alignment with current goals
	Phase       float64 // readiness / timing
	Dissolution float64 // risk that the option collapses
}

func (r Ratings) Validate() error {
	if !inUnitRange(r.Fit) || !inUnitRange(r.Phase) || !inUnitRange(r.Dissolution) {
		return ErrRatingOutOfRange
	}
	return nil
}

// Option - именованный кандидат для ранжирования
type Option struct {
	Name string
	Ratings
}

// Weights for the cohesion score. Stability weighs the complement
// (1 - Dissolution), not Dissolution itself.
type Weights struct {
	Fit       float64
	Phase     float64
	Stability float64
}

// DefaultWeights - невзвешенное среднее
func DefaultWeights() Weights {
	return Weights{Fit: 1, Phase: 1, Stability: 1}
}

func (w Weights) Sum() float64 {
	return w.Fit + w.Phase + w.Stability
}

func (w Weights) Validate() error {
	for _, v := range [...]float64{w.Fit, w.Phase, w.Stability} {
		if math.IsNaN(v) || v < 0 {
			return ErrNegativeWeight
		}
	}
	if w.Sum() == 0 {
		return ErrZeroWeights
	}
	return nil
}

// Params - конфиг скоринга, передаётся явно на каждый вызов
type Params struct {
	Weights       Weights
	Lambda        float64
	VetoThreshold float64
}

func DefaultParams() Params {
	return Params{
		Weights:       DefaultWeights(),
		Lambda:        DefaultLambda,
		VetoThreshold: DefaultVetoThreshold,
	}
}

func (p Params) Validate() error {
	if err := p.Weights.Validate(); err != nil {
		return err
	}
	if !inUnitRange(p.Lambda) {
		return ErrLambdaOutOfRange
	}
	if !inUnitRange(p.VetoThreshold) {
		return ErrThresholdOutOfRange
	}
	return nil
}

// Evaluation - результат скоринга одной опции, иммутабельный
type Evaluation struct {
	WCS    float64
	DR     float64
	Vetoed bool
}

type RankedOption struct {
	Option
	Evaluation
}

// NaN не проходит ни одно сравнение, поэтому проверяем явно
func inUnitRange(v float64) bool {
	return !math.IsNaN(v) && v >= 0 && v <= 1
}
