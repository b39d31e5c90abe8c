// SPDX-License-Identifier: MIT

package universe

import (
	"fmt"
	"math"

	"github.com/jaedmunt/holodeck/evolution"
	"github.com/jaedmunt/holodeck/phys"
)

// Dim indexes a sample dimension.
type Dim int

// Sample dimensions, in kernel order.
const (
	DimMtot  Dim = iota // log10 total mass [g]
	DimMrat             // log10 mass ratio
	DimRedz             // log10 redshift
	DimFobs             // log10 observer-frame orbital frequency [1/s]
	DimEccen            // eccentricity
	DimDadt             // da/dt [cm/s]
	DimDedt             // de/dt [1/s]
	NumDims
)

var dimNames = [NumDims]string{"mtot", "mrat", "redz", "fobs", "eccen", "dadt", "dedt"}

func (d Dim) String() string {
	if d < 0 || d >= NumDims {
		return fmt.Sprintf("Dim(%d)", int(d))
	}
	return dimNames[d]
}

// logDims are stored as log10 of the physical value.
var logDims = [NumDims]bool{DimMtot: true, DimMrat: true, DimRedz: true, DimFobs: true}

// Samples is the weighted point cloud of (binary, bin) pairs that reach the
// bin before redshift zero.
type Samples struct {
	Values  [NumDims][]float64
	Weights []float64 // expected number in the light cone

	Binary []int // source binary of each sample
	Bin    []int // frequency bin of each sample
}

// Len returns the number of samples.
func (s *Samples) Len() int { return len(s.Weights) }

// TotalWeight returns Σ weights, the expected number of binaries in the band.
func (s *Samples) TotalWeight() float64 {
	var sum float64
	for _, w := range s.Weights {
		sum += w
	}
	return sum
}

func (s *Samples) add(i, j int, v [NumDims]float64, w float64) {
	for d := range v {
		s.Values[d] = append(s.Values[d], v[d])
	}
	s.Weights = append(s.Weights, w)
	s.Binary = append(s.Binary, i)
	s.Bin = append(s.Bin, j)
}

// Weights interpolates t to the centres of fobsEdges (observer-frame orbital
// frequency [1/s]) and weights every (binary, bin) pair by the number of
// such binaries expected in the light cone.
//
// Implementation:
//   - Stage 1: arithmetic bin centres and Δln f per bin.
//   - Stage 2: Track.At on fobs for masses, separation, rates and scale-factor.
//   - Stage 3: keep pairs with z > 0; weight = λ(f_rest, df/dt, z, d_c) / V · Δln f
//     where V is the population's sample volume.
//
// Errors:
//   - ErrNilTrack, ErrBadEdges, ErrNoSamples, and evolution's At errors.
//
// Complexity:
//   - Time O(N·F·log S), Space O(N·F).
func Weights(t *evolution.Track, fobsEdges []float64) (*Samples, error) {
	if t == nil {
		return nil, ErrNilTrack
	}
	cents, dlnf, err := Bins(fobsEdges)
	if err != nil {
		return nil, err
	}
	params := []evolution.Param{
		evolution.ParamM1, evolution.ParamM2, evolution.ParamSepa,
		evolution.ParamDadt, evolution.ParamScafa,
	}
	if t.Eccentric() {
		params = append(params, evolution.ParamEccen, evolution.ParamDedt)
	}
	at, err := t.At(evolution.IndepFobs, cents, params, evolution.AtOptions{})
	if err != nil {
		return nil, fmt.Errorf("Weights: %w", err)
	}

	cos, vol := t.Cosmology(), t.SampleVolume()
	s := &Samples{}
	for i := 0; i < t.Size(); i++ {
		row := func(p evolution.Param) []float64 {
			if m, ok := at[p]; ok {
				return m.Row(i)
			}
			return nil
		}
		m1, m2, sepa := row(evolution.ParamM1), row(evolution.ParamM2), row(evolution.ParamSepa)
		dadt, scafa := row(evolution.ParamDadt), row(evolution.ParamScafa)
		ecc, dedt := row(evolution.ParamEccen), row(evolution.ParamDedt)

		for j, fc := range cents {
			z := cos.AToZ(scafa[j])
			if !(z > 0) || math.IsInf(z, 0) {
				continue
			}
			frst := phys.FrstFromFobs(fc, z)
			dfdt := phys.DfdtFromDadt(dadt[j], sepa[j], frst)
			w := phys.LambdaFactorDlnf(frst, dfdt, z, cos.ZToDcom(z)) / vol * dlnf[j]
			if !(w > 0) || math.IsInf(w, 0) {
				continue
			}
			mt, mr := phys.MtotMrat(m1[j], m2[j])
			var v [NumDims]float64
			v[DimMtot], v[DimMrat] = math.Log10(mt), math.Log10(mr)
			v[DimRedz], v[DimFobs] = math.Log10(z), math.Log10(fc)
			v[DimDadt] = dadt[j]
			if ecc != nil {
				v[DimEccen], v[DimDedt] = ecc[j], dedt[j]
			}
			s.add(i, j, v, w)
		}
	}
	if s.Len() == 0 {
		return nil, ErrNoSamples
	}
	return s, nil
}

// Bins validates frequency edges and returns the arithmetic bin centres and
// Δln f of every bin.
//
// Errors:
//   - ErrBadEdges.
func Bins(edges []float64) (cents, dlnf []float64, err error) {
	if len(edges) < 2 {
		return nil, nil, fmt.Errorf("Bins: %d edges: %w", len(edges), ErrBadEdges)
	}
	for k, e := range edges {
		if !(e > 0) || math.IsInf(e, 0) || (k > 0 && !(e > edges[k-1])) {
			return nil, nil, fmt.Errorf("Bins: edge[%d] = %g: %w", k, e, ErrBadEdges)
		}
	}
	cents, err = phys.Midpoints(edges, false)
	if err != nil {
		return nil, nil, err
	}
	dlnf = make([]float64, len(cents))
	for k := range dlnf {
		dlnf[k] = math.Log(edges[k+1] / edges[k])
	}
	return cents, dlnf, nil
}
