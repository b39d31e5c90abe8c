// SPDX-License-Identifier: MIT

package grid

import "errors"

// Every message is prefixed with "grid: ..."; callers match with errors.Is.
var (
	// ErrBadShape is returned when a requested shape is invalid (negative size).
	ErrBadShape = errors.New("grid: invalid shape")

	// ErrOutOfRange indicates an index outside valid bounds.
	ErrOutOfRange = errors.New("grid: index out of range")

	// ErrDimensionMismatch indicates incompatible operand shapes.
	ErrDimensionMismatch = errors.New("grid: dimension mismatch")

	// ErrSpanOpen is returned when Begin is called while another span is open,
	// or Push/End without an open span.
	ErrSpanOpen = errors.New("grid: arena span state violated")
)
