package dynamo

import (
	"errors"
	"fmt"
)

// Domain errors for simulation operations.
var (
	// ErrInvalidMass indicates a body constructed with a non-positive mass.
	ErrInvalidMass = errors.New("dynamo: mass must be positive")

	// ErrNoBodies indicates a simulation constructed without any bodies.
	ErrNoBodies = errors.New("dynamo: simulation needs at least one body")

	// ErrInvalidState indicates a position, velocity or mass that is NaN or Inf.
	ErrInvalidState = errors.New("dynamo: invalid state (NaN or Inf detected)")

	// ErrParameterBounds indicates a parameter value is outside valid range.
	ErrParameterBounds = errors.New("dynamo: parameter out of valid bounds")

	// ErrUnknownName indicates a lookup for an unregistered name.
	ErrUnknownName = errors.New("dynamo: unknown name")
)

// SimulationError wraps an error with the frame and body it was detected at.
type SimulationError struct {
	Frame   int
	Body    int
	Wrapped error
}

func (e *SimulationError) Error() string {
	return fmt.Sprintf("frame %d, body %d: %v", e.Frame, e.Body, e.Wrapped)
}

func (e *SimulationError) Unwrap() error {
	return e.Wrapped
}
