// SPDX-License-Identifier: MIT

package gwb

import "errors"

var (
	// ErrNilTrack indicates a nil track or catalog.
	ErrNilTrack = errors.New("gwb: nil track or catalog")

	// ErrShapeMismatch indicates catalog columns of different lengths.
	ErrShapeMismatch = errors.New("gwb: catalog column length mismatch")
)
