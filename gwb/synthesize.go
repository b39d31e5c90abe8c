// SPDX-License-Identifier: MIT

package gwb

import (
	"errors"
	"fmt"
	"math"
	"math/rand"

	"github.com/jaedmunt/holodeck/evolution"
	"github.com/jaedmunt/holodeck/phys"
	"github.com/jaedmunt/holodeck/rng"
	"github.com/jaedmunt/holodeck/universe"
)

// harmonics returns the harmonic numbers used for a track.
func harmonics(eccentric bool, n int) []int {
	if !eccentric || n <= 1 {
		return []int{2}
	}
	hs := make([]int, n)
	for i := range hs {
		hs[i] = i + 1
	}
	return hs
}

// Synthesize builds the GW spectrum of t in the bins gwEdges (observer-frame
// GW frequency [1/s]) over NReals Poisson realizations.
//
// Implementation:
//   - Stage 1: per bin centre f and harmonic n, interpolate every binary to
//     orbital frequency f/n; pairs with z ≤ 0 (reached after today) or
//     outside the track are dropped.
//   - Stage 2: per pair, h_s from the chirp mass, comoving distance and
//     rest-frame orbital frequency; weight g(n,e)(2/n)² (1 for circular);
//     expected count λ/V·Δln f; per-instance h_c² = h_s² g (2/n)² / Δln f.
//   - Stage 3: analytic h_c² = Σ h_c²·count; per realization, Poisson counts
//     per pair, total = Σ h_c²·k, foreground = the NLoudest loudest
//     instances, background = total − foreground.
//   - Stage 4: square roots. With an observing duration, Single keeps the
//     largest h_s·√N per bin, N the GW cycles at f clipped to DurObs·f.
//
// Errors:
//   - ErrNilTrack, universe.ErrBadEdges, evolution At errors when no bin
//     overlaps any track, rng.ErrBadMean on non-finite weights.
//
// Complexity:
//   - Time O(F·(N·(H·log S + S) + R·N·H)), Space O(F·(R·L) + N·H).
func Synthesize(r *rand.Rand, t *evolution.Track, gwEdges []float64, opts ...Option) (*Spectrum, error) {
	if t == nil {
		return nil, ErrNilTrack
	}
	o := buildOptions(opts)
	cents, dlnf, err := universe.Bins(gwEdges)
	if err != nil {
		return nil, err
	}
	r = rng.OrDefault(r)

	harms := harmonics(t.Eccentric(), o.NHarmonics)
	useEcc := len(harms) > 1
	sp, err := newSpectrum(cents, harms, o.NReals, o.NLoudest, true)
	if err != nil {
		return nil, err
	}
	if o.DurObs > 0 {
		sp.Single = make([]float64, len(cents))
	}
	o.logf("gwb: %d binaries, %d bins, harmonics %d..%d, %d realizations",
		t.Size(), len(cents), harms[0], harms[len(harms)-1], o.NReals)

	params := []evolution.Param{
		evolution.ParamM1, evolution.ParamM2, evolution.ParamSepa,
		evolution.ParamDadt, evolution.ParamScafa,
	}
	if useEcc {
		params = append(params, evolution.ParamEccen)
	}

	cos, vol := t.Cosmology(), t.SampleVolume()
	forb := make([]float64, len(harms))
	srcs := make([]source, 0, t.Size()*len(harms))
	var missed int
	for j, f := range cents {
		for h, n := range harms {
			forb[h] = f / float64(n)
		}
		at, err := t.At(evolution.IndepFobs, forb, params, evolution.AtOptions{})
		if errors.Is(err, evolution.ErrTargetsOutOfBounds) {
			missed++
			o.progress(j+1, len(cents))
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("Synthesize: bin %d: %w", j, err)
		}

		srcs = srcs[:0]
		for i := 0; i < t.Size(); i++ {
			m1, m2 := at[evolution.ParamM1].Row(i), at[evolution.ParamM2].Row(i)
			sepa, dadt := at[evolution.ParamSepa].Row(i), at[evolution.ParamDadt].Row(i)
			scafa := at[evolution.ParamScafa].Row(i)
			var ecc []float64
			if useEcc {
				ecc = at[evolution.ParamEccen].Row(i)
			}
			for h, n := range harms {
				z := cos.AToZ(scafa[h])
				if !(z > 0) || math.IsInf(z, 0) {
					continue
				}
				gne := 1.0
				if useEcc {
					gne = phys.GWFreqDistFunc(n, ecc[h])
				}
				if !(gne > 0) {
					continue
				}
				frst := phys.FrstFromFobs(forb[h], z)
				dcom := cos.ZToDcom(z)
				dfdt := phys.DfdtFromDadt(dadt[h], sepa[h], frst)
				hs := phys.GWStrainSource(phys.ChirpMass(m1[h], m2[h]), dcom, frst)
				hn := 2.0 / float64(n)
				src := source{
					hc2:  hs * hs * gne * hn * hn / dlnf[j],
					num:  phys.LambdaFactorDlnf(frst, dfdt, z, dcom) / vol * dlnf[j],
					circ: n == 2,
				}
				if !(src.num > 0) || !(src.hc2 > 0) || math.IsInf(src.hc2, 0) {
					continue
				}
				srcs = append(srcs, src)
				if sp.Single != nil {
					nf := float64(n)
					hc := phys.GWCharStrain(hs*hn*math.Sqrt(gne), o.DurObs, f, nf*frst, nf*dfdt)
					if hc > sp.Single[j] {
						sp.Single[j] = hc
					}
				}
			}
		}
		if err := sp.realize(r, j, srcs, o.NLoudest); err != nil {
			return nil, fmt.Errorf("Synthesize: bin %d: %w", j, err)
		}
		o.progress(j+1, len(cents))
	}
	if missed == len(cents) {
		return nil, fmt.Errorf("Synthesize: %w", evolution.ErrTargetsOutOfBounds)
	}
	sp.finish()
	o.logf("gwb: done, %d/%d bins outside every track", missed, len(cents))
	return sp, nil
}
