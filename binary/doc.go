// SPDX-License-Identifier: MIT

// Package binary holds the initial conditions of a discrete binary
// population and the per-step State snapshot handed to rate models.
//
// ⚙️ Usage
//
//	pop, _ := binary.Synthetic(rnd, binary.DefaultSyntheticOptions(100))
//	if err := pop.Validate(); err != nil { ... }
//
// A Population is immutable once handed to the integrator.
package binary
