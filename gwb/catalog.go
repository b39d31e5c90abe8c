// SPDX-License-Identifier: MIT

package gwb

import (
	"fmt"
	"math"
	"sort"

	"github.com/jaedmunt/holodeck/cosmo"
	"github.com/jaedmunt/holodeck/phys"
	"github.com/jaedmunt/holodeck/universe"
)

// FromCatalog builds a one-realization spectrum from a resampled catalog.
// Every entry is a single circular source radiating at twice its orbital
// frequency; entries outside gwEdges are ignored. NHarmonics and NReals are
// not used. A nil cos uses cosmo.Default().
//
// Errors:
//   - ErrNilTrack, ErrShapeMismatch, universe.ErrBadEdges.
//
// Complexity:
//   - Time O(M·log F + F·L) for M catalog entries, Space O(M + F·L).
func FromCatalog(cat *universe.Catalog, gwEdges []float64, cos cosmo.Cosmology, opts ...Option) (*Spectrum, error) {
	if cat == nil {
		return nil, ErrNilTrack
	}
	n := cat.Len()
	if len(cat.Mrat) != n || len(cat.Redz) != n || len(cat.Fobs) != n {
		return nil, fmt.Errorf("FromCatalog: %w", ErrShapeMismatch)
	}
	o := buildOptions(opts)
	cents, dlnf, err := universe.Bins(gwEdges)
	if err != nil {
		return nil, err
	}
	if cos == nil {
		cos = cosmo.Default()
	}
	sp, err := newSpectrum(cents, []int{2}, 1, o.NLoudest, false)
	if err != nil {
		return nil, err
	}

	perBin := make([][]source, len(cents))
	for k := 0; k < n; k++ {
		fgw := 2 * cat.Fobs[k]
		j := sort.SearchFloat64s(gwEdges, fgw) - 1
		if fgw == gwEdges[0] {
			j = 0
		}
		if j < 0 || j >= len(cents) || !(cat.Redz[k] > 0) {
			continue
		}
		z := cat.Redz[k]
		m1, m2 := phys.M1M2FromMtotMrat(cat.Mtot[k], cat.Mrat[k])
		frst := phys.FrstFromFobs(cat.Fobs[k], z)
		hs := phys.GWStrainSource(phys.ChirpMass(m1, m2), cos.ZToDcom(z), frst)
		perBin[j] = append(perBin[j], source{hc2: hs * hs / dlnf[j], num: 1, circ: true})
	}

	for j, srcs := range perBin {
		sort.Slice(srcs, func(a, b int) bool { return srcs[a].hc2 > srcs[b].hc2 })
		var t tally
		for _, src := range srcs {
			first := t.nloud
			if t.add(src, 1, o.NLoudest) == 1 {
				if err := sp.Loudest.Set(j, first, 0, math.Sqrt(src.hc2)); err != nil {
					return nil, err
				}
			}
		}
		t.store(&sp.Components, j, 0)
		t.store(&sp.Circular, j, 0)
		o.progress(j+1, len(cents))
	}
	sp.finish()
	o.logf("gwb: catalog of %d sources binned into %d frequencies", n, len(cents))
	return sp, nil
}
