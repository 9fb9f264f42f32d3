package dynamo

import "errors"

// Domain errors for simulation operations.
var (
	// ErrInvalidState indicates a state vector with invalid dimensions or values.
	ErrInvalidState = errors.New("dynamo: invalid state (NaN or Inf detected)")

	// ErrParameterBounds indicates a parameter value is outside valid range.
	ErrParameterBounds = errors.New("dynamo: parameter out of valid bounds")

	// ErrStepTooSmall indicates adaptive timestep became too small.
	ErrStepTooSmall = errors.New("dynamo: adaptive timestep below minimum")

	// ErrStepLimit indicates the solver used its whole step budget before the end time.
	ErrStepLimit = errors.New("dynamo: step budget exhausted before end of span")

	// ErrDimensionMismatch indicates mismatched state dimensions.
	ErrDimensionMismatch = errors.New("dynamo: dimension mismatch between state and system")

	// ErrInvalidSpan indicates an empty or reversed integration span.
	ErrInvalidSpan = errors.New("dynamo: invalid time span")
)

// SimulationError wraps an error with simulation context.
type SimulationError struct {
	Step    int
	Time    float64
	State   State
	Wrapped error
}

func (e *SimulationError) Error() string {
	return SimError{Time: e.Time, Step: e.Step, Message: e.Wrapped.Error()}.Error()
}

func (e *SimulationError) Unwrap() error {
	return e.Wrapped
}
