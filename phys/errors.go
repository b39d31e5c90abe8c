// SPDX-License-Identifier: MIT

package phys

import "errors"

var (
	// ErrLengthMismatch indicates paired slices of different lengths.
	ErrLengthMismatch = errors.New("phys: slice length mismatch")

	// ErrTooFewPoints indicates a helper needs at least two samples.
	ErrTooFewPoints = errors.New("phys: at least two points required")

	// ErrNonPositive indicates a strictly positive value (bound, mass, frequency) was not.
	ErrNonPositive = errors.New("phys: value must be positive")
)
