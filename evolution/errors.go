// SPDX-License-Identifier: MIT

package evolution

import (
	"errors"
	"fmt"
)

// Configuration errors, returned before any numeric work.
var (
	// ErrNoModels indicates that no hardening model was supplied.
	ErrNoModels = errors.New("evolution: at least one hardening model is required")

	// ErrBadSteps indicates a fixed step count below two.
	ErrBadSteps = errors.New("evolution: step count must be >= 2")

	// ErrBadIndependent indicates an interpolation variable other than sepa or fobs.
	ErrBadIndependent = errors.New("evolution: independent variable must be sepa or fobs")

	// ErrUnknownParam indicates a dependent variable that is unknown or not tracked.
	ErrUnknownParam = errors.New("evolution: unknown or untracked parameter")

	// ErrBadTargets indicates an empty or non-positive target set.
	ErrBadTargets = errors.New("evolution: targets must be non-empty, finite and positive")

	// ErrTargetsOutOfBounds indicates targets entirely outside every track.
	ErrTargetsOutOfBounds = errors.New("evolution: targets outside all tracks (bad units?)")
)

// Numerical-invariant violations, always wrapped in *IntegrationError.
var (
	// ErrNegativeTimestep indicates a step with dt < 0.
	ErrNegativeTimestep = errors.New("evolution: negative time step")

	// ErrNonFinite indicates a NaN or infinite state value.
	ErrNonFinite = errors.New("evolution: non-finite value")

	// ErrStepBudget indicates a binary exhausted its step budget before finishing.
	ErrStepBudget = errors.New("evolution: step budget exhausted before coalescence")

	// ErrSeparationIncrease indicates a step that widened the orbit.
	ErrSeparationIncrease = errors.New("evolution: separation increased")

	// ErrInvariant indicates a failed post-integration consistency check.
	ErrInvariant = errors.New("evolution: post-integration invariant violated")
)

// IntegrationError reports where and why integration failed.
type IntegrationError struct {
	Binary int     // binary index in the population
	Step   int     // step index within the binary's track
	Field  string  // offending quantity
	Value  float64 // offending value
	Err    error   // one of the numerical sentinels above
}

func (e *IntegrationError) Error() string {
	return fmt.Sprintf("%v: binary %d, step %d: %s = %g", e.Err, e.Binary, e.Step, e.Field, e.Value)
}

// Unwrap exposes the sentinel to errors.Is.
func (e *IntegrationError) Unwrap() error { return e.Err }

func integrationErr(bin, step int, field string, value float64, err error) error {
	return &IntegrationError{Binary: bin, Step: step, Field: field, Value: value, Err: err}
}
