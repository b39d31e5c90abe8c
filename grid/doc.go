// SPDX-License-Identifier: MIT

// Package grid provides the two storage shapes used by the engine.
//
// 🚀 What is grid?
//
//	Dense  - a row-major float64 matrix (F×R spectra, N×T interpolation output)
//	Arena  - a chunked column store where every binary owns a [first,last) span
//
// ⚙️ Usage
//
//	d, _ := grid.NewDense(nfreq, nreals)
//	_ = d.Set(0, 0, 1.5e-15)
//	row := d.Row(0) // shared storage, no copy
//
//	a, _ := grid.NewArena(grid.ColumnCount, nbin, 64)
//	_ = a.Begin(i)
//	k, _ := a.Push()
//	a.Col(grid.ColSepa)[k] = sepa
//	_ = a.End()
//
// Both types are single-writer. Readers only see committed data after the
// integrator that owns them has returned.
package grid
