// SPDX-License-Identifier: MIT

package hardening

import "errors"

var (
	// ErrUnknownKind indicates an unrecognised model name.
	ErrUnknownKind = errors.New("hardening: unknown model kind")

	// ErrBadParam indicates a non-physical model parameter.
	ErrBadParam = errors.New("hardening: invalid model parameter")

	// ErrNoSolution indicates the fixed-time normalisation could not be bracketed.
	ErrNoSolution = errors.New("hardening: normalisation did not converge")

	// ErrNilPopulation indicates a population-dependent model was built without one.
	ErrNilPopulation = errors.New("hardening: population is nil")
)
