// SPDX-License-Identifier: MIT

package config

import "errors"

var (
	// ErrBadConfig indicates a value outside its documented domain, or a
	// document that does not decode.
	ErrBadConfig = errors.New("config: invalid configuration")

	// ErrUnknownKind indicates an unrecognised model kind, split policy or
	// integrator mode.
	ErrUnknownKind = errors.New("config: unknown kind")
)
