// SPDX-License-Identifier: MIT

package cosmo

import "errors"

var (
	// ErrBadParams indicates non-physical cosmological parameters.
	ErrBadParams = errors.New("cosmo: invalid cosmological parameters")
)
