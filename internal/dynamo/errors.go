package dynamo

import (
	"errors"
	"fmt"
)

// Domain errors for simulation operations.
var (
	// ErrInvalidState indicates a position or velocity became NaN or Inf.
	ErrInvalidState = errors.New("dynamo: invalid state (NaN or Inf detected)")

	// ErrParameterBounds indicates a parameter value is outside valid range.
	ErrParameterBounds = errors.New("dynamo: parameter out of valid bounds")

	// ErrDegenerateDistance indicates two bodies occupy the same position,
	// where the inverse-square law is undefined.
	ErrDegenerateDistance = errors.New("dynamo: coincident bodies (zero distance)")

	// ErrNonPositiveMass indicates a body was given mass <= 0.
	ErrNonPositiveMass = errors.New("dynamo: mass must be positive")

	// ErrZeroVector indicates an attempt to normalize a zero-length vector.
	ErrZeroVector = errors.New("dynamo: cannot normalize zero vector")

	// ErrDuplicateName indicates two bodies share a name.
	ErrDuplicateName = errors.New("dynamo: duplicate body name")
)

// SimulationError wraps an error with simulation context.
type SimulationError struct {
	Tick    int
	Time    float64
	Wrapped error
}

func (e *SimulationError) Error() string {
	return fmt.Sprintf("tick %d (t=%.0fs): %v", e.Tick, e.Time, e.Wrapped)
}

func (e *SimulationError) Unwrap() error {
	return e.Wrapped
}
