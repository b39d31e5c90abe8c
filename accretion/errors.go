// SPDX-License-Identifier: MIT

package accretion

import "errors"

var (
	// ErrUnknownSplit indicates an unrecognised preferential-accretion policy.
	ErrUnknownSplit = errors.New("accretion: unknown split policy")

	// ErrBadParam indicates a non-physical model parameter.
	ErrBadParam = errors.New("accretion: invalid model parameter")

	// ErrShapeMismatch indicates an external rate table of the wrong shape.
	ErrShapeMismatch = errors.New("accretion: rate table shape mismatch")
)
