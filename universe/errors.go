// SPDX-License-Identifier: MIT

package universe

import "errors"

var (
	// ErrBadEdges indicates fewer than two, non-positive or non-increasing bin edges.
	ErrBadEdges = errors.New("universe: frequency edges must be positive and strictly increasing")

	// ErrNoSamples indicates that no binary reaches any bin before redshift zero.
	ErrNoSamples = errors.New("universe: no binary reaches the frequency band")

	// ErrTooManySamples indicates a Poisson mean above the configured ceiling.
	ErrTooManySamples = errors.New("universe: expected sample count exceeds the limit")

	// ErrNilTrack indicates a nil track.
	ErrNilTrack = errors.New("universe: nil track")
)
