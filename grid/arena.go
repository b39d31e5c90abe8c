// SPDX-License-Identifier: MIT

package grid

import "fmt"

// Standard track columns. Callers may allocate extra columns after
// ColumnCount (e.g. per-model diagnostic rates).
const (
	ColSepa = iota
	ColEccen
	ColM1
	ColM2
	ColScafa
	ColTlook
	ColDadt
	ColDedt
	ColMdot1
	ColMdot2
	ColumnCount
)

// minChunk is the smallest growth increment of an Arena.
const minChunk = 16

// Arena is a column store of per-step track samples. Each binary owns the
// contiguous span [First(i), Last(i)). Storage grows in chunks that double
// with every growth so that appends stay amortised O(1).
//
// Spans are written strictly one binary at a time: Begin, any number of
// Push, End. Fixed-length layouts are created with NewFixedArena instead.
type Arena struct {
	cols  [][]float64
	n     int // rows in use
	chunk int

	first []int
	last  []int

	open int // binary with an open span, -1 when none
}

// NewArena returns an empty arena with ncols columns for nbin binaries and an
// initial chunk of chunk rows.
//
// Errors:
//   - ErrBadShape when ncols<1 or nbin<0.
func NewArena(ncols, nbin, chunk int) (*Arena, error) {
	if ncols < 1 || nbin < 0 {
		return nil, fmt.Errorf("NewArena(%d,%d): %w", ncols, nbin, ErrBadShape)
	}
	if chunk < minChunk {
		chunk = minChunk
	}
	a := &Arena{
		cols:  make([][]float64, ncols),
		chunk: chunk,
		first: make([]int, nbin),
		last:  make([]int, nbin),
		open:  -1,
	}
	for c := range a.cols {
		a.cols[c] = make([]float64, 0, chunk)
	}
	return a, nil
}

// NewFixedArena returns an arena where every binary owns exactly steps rows:
// First(i) = i*steps and Last(i) = (i+1)*steps.
func NewFixedArena(ncols, nbin, steps int) (*Arena, error) {
	if ncols < 1 || nbin < 0 || steps < 1 {
		return nil, fmt.Errorf("NewFixedArena(%d,%d,%d): %w", ncols, nbin, steps, ErrBadShape)
	}
	total := nbin * steps
	a := &Arena{
		cols:  make([][]float64, ncols),
		n:     total,
		chunk: steps,
		first: make([]int, nbin),
		last:  make([]int, nbin),
		open:  -1,
	}
	for c := range a.cols {
		a.cols[c] = make([]float64, total)
	}
	for i := 0; i < nbin; i++ {
		a.first[i] = i * steps
		a.last[i] = (i + 1) * steps
	}
	return a, nil
}

// Binaries returns the number of spans.
func (a *Arena) Binaries() int { return len(a.first) }

// Columns returns the number of columns.
func (a *Arena) Columns() int { return len(a.cols) }

// Len returns the number of rows in use.
func (a *Arena) Len() int { return a.n }

// Cap returns the number of rows allocated.
func (a *Arena) Cap() int {
	if len(a.cols) == 0 {
		return 0
	}
	return cap(a.cols[0])
}

// Col returns the in-use portion of column c. Writes are visible in a.
func (a *Arena) Col(c int) []float64 { return a.cols[c][:a.n] }

// Span returns the [first,last) row range of binary i.
func (a *Arena) Span(i int) (first, last int) { return a.first[i], a.last[i] }

// Steps returns the number of rows owned by binary i.
func (a *Arena) Steps(i int) int { return a.last[i] - a.first[i] }

// Series returns column c restricted to binary i's span.
func (a *Arena) Series(c, i int) []float64 {
	return a.cols[c][a.first[i]:a.last[i]:a.last[i]]
}

// Begin opens the span of binary i at the current end of the arena.
func (a *Arena) Begin(i int) error {
	if a.open >= 0 {
		return fmt.Errorf("Arena.Begin(%d): span %d still open: %w", i, a.open, ErrSpanOpen)
	}
	if i < 0 || i >= len(a.first) {
		return fmt.Errorf("Arena.Begin(%d): %w", i, ErrOutOfRange)
	}
	a.open = i
	a.first[i] = a.n
	a.last[i] = a.n
	return nil
}

// Push appends one zeroed row to the open span and returns its index.
func (a *Arena) Push() (int, error) {
	if a.open < 0 {
		return 0, fmt.Errorf("Arena.Push: %w", ErrSpanOpen)
	}
	if a.n == a.Cap() {
		a.grow()
	}
	k := a.n
	for c := range a.cols {
		a.cols[c] = a.cols[c][:k+1]
		a.cols[c][k] = 0
	}
	a.n++
	a.last[a.open] = a.n
	return k, nil
}

// End closes the open span.
func (a *Arena) End() error {
	if a.open < 0 {
		return fmt.Errorf("Arena.End: %w", ErrSpanOpen)
	}
	a.open = -1
	return nil
}

// grow enlarges every column by the current chunk and doubles the chunk.
func (a *Arena) grow() {
	newCap := a.Cap() + a.chunk
	for c := range a.cols {
		next := make([]float64, a.n, newCap)
		copy(next, a.cols[c][:a.n])
		a.cols[c] = next
	}
	a.chunk *= 2
}

// Trim releases unused capacity so that Cap() == Len().
func (a *Arena) Trim() {
	if a.Cap() == a.n {
		return
	}
	for c := range a.cols {
		next := make([]float64, a.n)
		copy(next, a.cols[c][:a.n])
		a.cols[c] = next
	}
}
