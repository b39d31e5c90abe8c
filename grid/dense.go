// SPDX-License-Identifier: MIT

package grid

import (
	"fmt"
	"math"
	"strings"
)

// Method tags used in wrapped errors.
const (
	ctxAt   = "At"
	ctxSet  = "Set"
	ctxAdd  = "AddAt"
	ctxCopy = "CopyFrom"

	fmtRowOpen  = "["
	fmtRowClose = "]\n"
	fmtSep      = ", "
)

// denseErrorf wraps a sentinel with the method name and coordinates.
func denseErrorf(method string, i, j int, err error) error {
	return fmt.Errorf("Dense.%s(%d,%d): %w", method, i, j, err)
}

// Dense is a row-major r×c float64 matrix backed by one flat buffer.
type Dense struct {
	r, c int
	data []float64
}

// NewDense allocates a zero-filled r×c matrix. Zero-area shapes are legal.
//
// Errors:
//   - ErrBadShape when r<0 or c<0.
//
// Complexity:
//   - Time O(r*c), Space O(r*c).
func NewDense(r, c int) (*Dense, error) {
	if r < 0 || c < 0 {
		return nil, fmt.Errorf("NewDense(%d,%d): %w", r, c, ErrBadShape)
	}
	return &Dense{r: r, c: c, data: make([]float64, r*c)}, nil
}

// NewFilled allocates an r×c matrix with every element set to v.
func NewFilled(r, c int, v float64) (*Dense, error) {
	d, err := NewDense(r, c)
	if err != nil {
		return nil, err
	}
	d.Fill(v)
	return d, nil
}

// Rows returns the number of rows.
func (m *Dense) Rows() int { return m.r }

// Cols returns the number of columns.
func (m *Dense) Cols() int { return m.c }

// Shape returns (rows, cols).
func (m *Dense) Shape() (int, int) { return m.r, m.c }

// Raw exposes the flat row-major buffer. Writes are visible in m.
func (m *Dense) Raw() []float64 { return m.data }

func (m *Dense) indexOf(i, j int) (int, bool) {
	if i < 0 || i >= m.r || j < 0 || j >= m.c {
		return 0, false
	}
	return i*m.c + j, true
}

// At returns element (i,j) or ErrOutOfRange.
func (m *Dense) At(i, j int) (float64, error) {
	k, ok := m.indexOf(i, j)
	if !ok {
		return 0, denseErrorf(ctxAt, i, j, ErrOutOfRange)
	}
	return m.data[k], nil
}

// Set writes element (i,j) or returns ErrOutOfRange.
func (m *Dense) Set(i, j int, v float64) error {
	k, ok := m.indexOf(i, j)
	if !ok {
		return denseErrorf(ctxSet, i, j, ErrOutOfRange)
	}
	m.data[k] = v
	return nil
}

// AddAt accumulates v into element (i,j).
func (m *Dense) AddAt(i, j int, v float64) error {
	k, ok := m.indexOf(i, j)
	if !ok {
		return denseErrorf(ctxAdd, i, j, ErrOutOfRange)
	}
	m.data[k] += v
	return nil
}

// Row returns row i as a slice sharing storage with m, or nil when i is out
// of range.
func (m *Dense) Row(i int) []float64 {
	if i < 0 || i >= m.r {
		return nil
	}
	return m.data[i*m.c : (i+1)*m.c : (i+1)*m.c]
}

// Fill sets every element to v.
func (m *Dense) Fill(v float64) {
	for k := range m.data {
		m.data[k] = v
	}
}

// Clone returns a deep copy.
func (m *Dense) Clone() *Dense {
	out := &Dense{r: m.r, c: m.c, data: make([]float64, len(m.data))}
	copy(out.data, m.data)
	return out
}

// CopyFrom overwrites m with src. Shapes must match.
func (m *Dense) CopyFrom(src *Dense) error {
	if src.r != m.r || src.c != m.c {
		return denseErrorf(ctxCopy, src.r, src.c, ErrDimensionMismatch)
	}
	copy(m.data, src.data)
	return nil
}

// Sqrt replaces every element with its square root, clamping tiny negative
// round-off to zero first.
func (m *Dense) Sqrt() {
	for k, v := range m.data {
		if v < 0 {
			v = 0
		}
		m.data[k] = math.Sqrt(v)
	}
}

// RowMean returns the arithmetic mean of row i, skipping NaN entries.
// A row without finite entries yields NaN.
func (m *Dense) RowMean(i int) float64 {
	row := m.Row(i)
	var sum float64
	var n int
	for _, v := range row {
		if math.IsNaN(v) {
			continue
		}
		sum += v
		n++
	}
	if n == 0 {
		return math.NaN()
	}
	return sum / float64(n)
}

// String renders the matrix one row per line.
func (m *Dense) String() string {
	var b strings.Builder
	var i, j, base int
	for i = 0; i < m.r; i++ {
		b.WriteString(fmtRowOpen)
		base = i * m.c
		for j = 0; j < m.c; j++ {
			fmt.Fprintf(&b, "%g", m.data[base+j])
			if j+1 < m.c {
				b.WriteString(fmtSep)
			}
		}
		b.WriteString(fmtRowClose)
	}
	return b.String()
}

// Cube is a row-major d0×d1×d2 float64 tensor, used for (F, L, R) loudest
// source arrays.
type Cube struct {
	d0, d1, d2 int
	data       []float64
}

// NewCube allocates a zero-filled tensor.
func NewCube(d0, d1, d2 int) (*Cube, error) {
	if d0 < 0 || d1 < 0 || d2 < 0 {
		return nil, fmt.Errorf("NewCube(%d,%d,%d): %w", d0, d1, d2, ErrBadShape)
	}
	return &Cube{d0: d0, d1: d1, d2: d2, data: make([]float64, d0*d1*d2)}, nil
}

// Shape returns the three extents.
func (c *Cube) Shape() (int, int, int) { return c.d0, c.d1, c.d2 }

// At returns element (i,j,k) or ErrOutOfRange.
func (c *Cube) At(i, j, k int) (float64, error) {
	if i < 0 || i >= c.d0 || j < 0 || j >= c.d1 || k < 0 || k >= c.d2 {
		return 0, fmt.Errorf("Cube.At(%d,%d,%d): %w", i, j, k, ErrOutOfRange)
	}
	return c.data[(i*c.d1+j)*c.d2+k], nil
}

// Set writes element (i,j,k) or returns ErrOutOfRange.
func (c *Cube) Set(i, j, k int, v float64) error {
	if i < 0 || i >= c.d0 || j < 0 || j >= c.d1 || k < 0 || k >= c.d2 {
		return fmt.Errorf("Cube.Set(%d,%d,%d): %w", i, j, k, ErrOutOfRange)
	}
	c.data[(i*c.d1+j)*c.d2+k] = v
	return nil
}

// Raw exposes the flat buffer.
func (c *Cube) Raw() []float64 { return c.data }
