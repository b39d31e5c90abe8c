// SPDX-License-Identifier: MIT

package binary

import "errors"

var (
	// ErrEmpty indicates a population without binaries.
	ErrEmpty = errors.New("binary: empty population")

	// ErrShapeMismatch indicates per-binary arrays of different lengths.
	ErrShapeMismatch = errors.New("binary: array length mismatch")

	// ErrBadValue indicates a non-finite or out-of-domain initial value.
	ErrBadValue = errors.New("binary: invalid initial value")

	// ErrBadOptions indicates inconsistent generator options.
	ErrBadOptions = errors.New("binary: invalid generator options")
)
