package domain

import (
	"errors"
	"fmt"
)

// ErrInvalidInput - корень таксономии, все ошибки валидации его оборачивают
var ErrInvalidInput = errors.New("invalid input")

var (
	ErrRatingOutOfRange    = fmt.Errorf("%w: rating outside [0,1]", ErrInvalidInput)
	ErrCohesionOutOfRange  = fmt.Errorf("%w: cohesion outside [0,1]", ErrInvalidInput)
	ErrLambdaOutOfRange    = fmt.Errorf("%w: lambda outside [0,1]", ErrInvalidInput)
	ErrThresholdOutOfRange = fmt.Errorf("%w: veto threshold outside [0,1]", ErrInvalidInput)
	ErrNegativeWeight      = fmt.Errorf("%w: negative weight", ErrInvalidInput)
	ErrZeroWeights         = fmt.Errorf("%w: all weights are zero", ErrInvalidInput)
)

var (
	ErrLengthMismatch = fmt.Errorf("%w: vector length mismatch", ErrInvalidInput)
	ErrInvalidScale   = fmt.Errorf("%w: scale must be positive", ErrInvalidInput)
)
