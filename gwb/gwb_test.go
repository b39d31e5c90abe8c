package gwb_test

import (
	"math"
	"testing"

	"github.com/jaedmunt/holodeck/binary"
	"github.com/jaedmunt/holodeck/cosmo"
	"github.com/jaedmunt/holodeck/evolution"
	"github.com/jaedmunt/holodeck/gwb"
	"github.com/jaedmunt/holodeck/hardening"
	"github.com/jaedmunt/holodeck/phys"
	"github.com/jaedmunt/holodeck/rng"
	"github.com/jaedmunt/holodeck/universe"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var boxVolume = math.Pow(100*phys.MPC, 3)

// gwEdges spans roughly 2-200 nHz in GW frequency.
func gwEdges(t *testing.T) []float64 {
	edges, err := phys.LogSpace(2e-9, 2e-7, 6)
	require.NoError(t, err)
	return edges
}

// track evolves n binaries that coalesce before redshift zero; a nil eccen
// leaves eccentricity untracked.
func track(t *testing.T, n int, eccen *binary.Range) *evolution.Track {
	return trackIn(t, n, eccen, boxVolume)
}

// trackIn is track with an explicit sample volume; smaller volumes raise
// every expected source count.
func trackIn(t *testing.T, n int, eccen *binary.Range, volume float64) *evolution.Track {
	o := binary.DefaultSyntheticOptions(n)
	o.Sepa = binary.Range{Lo: 1e2 * phys.PC, Hi: 1e3 * phys.PC}
	o.Redz = binary.Range{Lo: 0.2, Hi: 1.0}
	o.Volume = volume
	if eccen != nil {
		o = o.WithEccen(*eccen)
	}
	pop, err := binary.Synthetic(rng.FromSeed(11), o)
	require.NoError(t, err)
	ft, err := hardening.NewFixedTime(pop, 0.5*phys.GYR)
	require.NoError(t, err)
	tr, err := evolution.Evolve(pop, []hardening.Model{hardening.GW{}, ft}, evolution.WithSteps(100))
	require.NoError(t, err)
	return tr
}

// checkLoudest asserts that the foreground is exactly the listed loudest sources.
func checkLoudest(t *testing.T, s *gwb.Spectrum) {
	nf, nl, nr := s.Loudest.Shape()
	require.Equal(t, len(s.Freqs), nf)
	for j := 0; j < nf; j++ {
		for rr := 0; rr < nr; rr++ {
			var sum, prev float64 = 0, math.Inf(1)
			for q := 0; q < nl; q++ {
				v, err := s.Loudest.At(j, q, rr)
				require.NoError(t, err)
				assert.LessOrEqual(t, v, prev, "loudest not ordered at f=%d r=%d", j, rr)
				prev = v
				sum += v * v
			}
			fore := s.Foreground.Row(j)[rr]
			assert.InDelta(t, fore, math.Sqrt(sum), 1e-9*fore)
			tot := s.Total.Row(j)[rr]
			bg := s.Background.Row(j)[rr]
			assert.InDelta(t, tot*tot, fore*fore+bg*bg, 1e-9*tot*tot)
		}
	}
}

func TestSynthesize_Circular(t *testing.T) {
	tr := track(t, 10, nil)
	s, err := gwb.Synthesize(rng.FromSeed(1), tr, gwEdges(t), gwb.WithRealizations(20))
	require.NoError(t, err)

	assert.Equal(t, []int{2}, s.Harmonics)
	assert.Equal(t, 20, s.NReals())
	require.Len(t, s.Freqs, 5)
	require.Len(t, s.Analytic, 5)
	for j := range s.Freqs {
		assert.Positive(t, s.Analytic[j])
		assert.Equal(t, s.Analytic[j], s.Circular.Analytic[j])
		assert.Equal(t, s.Total.Row(j), s.Circular.Total.Row(j))
	}
	checkLoudest(t, s)
}

func TestSynthesize_SingleHarmonicForcesCircular(t *testing.T) {
	tr := track(t, 8, &binary.Range{Lo: 0.3, Hi: 0.6})
	require.True(t, tr.Eccentric())
	s, err := gwb.Synthesize(rng.FromSeed(2), tr, gwEdges(t),
		gwb.WithHarmonics(1), gwb.WithRealizations(10))
	require.NoError(t, err)

	assert.Equal(t, []int{2}, s.Harmonics)
	for j := range s.Freqs {
		assert.Equal(t, s.Analytic[j], s.Circular.Analytic[j])
		assert.Equal(t, s.Total.Row(j), s.Circular.Total.Row(j))
		assert.Equal(t, s.Foreground.Row(j), s.Circular.Foreground.Row(j))
	}
}

func TestSynthesize_EccentricHarmonics(t *testing.T) {
	tr := track(t, 8, &binary.Range{Lo: 0.3, Hi: 0.6})
	s, err := gwb.Synthesize(rng.FromSeed(3), tr, gwEdges(t),
		gwb.WithHarmonics(12), gwb.WithRealizations(10))
	require.NoError(t, err)

	require.Len(t, s.Harmonics, 12)
	assert.Equal(t, 1, s.Harmonics[0])
	var more int
	for j := range s.Freqs {
		assert.GreaterOrEqual(t, s.Analytic[j], s.Circular.Analytic[j])
		if s.Analytic[j] > s.Circular.Analytic[j] {
			more++
		}
		for rr := 0; rr < s.NReals(); rr++ {
			assert.GreaterOrEqual(t, s.Total.Row(j)[rr], s.Circular.Total.Row(j)[rr])
		}
	}
	assert.Positive(t, more, "higher harmonics never contributed")
	checkLoudest(t, s)
}

func TestSynthesize_NearCircularMatchesCircular(t *testing.T) {
	tr := track(t, 8, &binary.Range{Lo: 1e-9, Hi: 1e-9})
	s, err := gwb.Synthesize(rng.FromSeed(4), tr, gwEdges(t),
		gwb.WithHarmonics(10), gwb.WithRealizations(5))
	require.NoError(t, err)

	require.Len(t, s.Harmonics, 10)
	for j := range s.Freqs {
		assert.Equal(t, s.Analytic[j], s.Circular.Analytic[j])
		assert.Equal(t, s.Total.Row(j), s.Circular.Total.Row(j))
	}
}

// With every expected count far above one the realizations are close to
// Gaussian, so their mean sits within a fraction of a percent of Analytic.
func TestSynthesize_PoissonMeanMatchesAnalytic(t *testing.T) {
	const nreals = 200
	tr := trackIn(t, 6, nil, 1e-9*boxVolume)
	s, err := gwb.Synthesize(rng.FromSeed(5), tr, gwEdges(t), gwb.WithRealizations(nreals))
	require.NoError(t, err)

	for j := range s.Freqs {
		want := s.Analytic[j] * s.Analytic[j]
		require.Positive(t, want, "bin %d", j)
		var mean float64
		for _, hc := range s.Total.Row(j) {
			mean += hc * hc / nreals
		}
		assert.InEpsilon(t, want, mean, 1e-2, "bin %d", j)
	}
}

func TestSynthesize_SingleSourceStrain(t *testing.T) {
	tr := track(t, 6, nil)
	s, err := gwb.Synthesize(rng.FromSeed(8), tr, gwEdges(t), gwb.WithRealizations(2))
	require.NoError(t, err)
	assert.Nil(t, s.Single)

	long, err := gwb.Synthesize(rng.FromSeed(8), tr, gwEdges(t),
		gwb.WithRealizations(2), gwb.WithObservingDuration(20*phys.YR))
	require.NoError(t, err)
	require.Len(t, long.Single, len(long.Freqs))
	for j := range long.Single {
		assert.Positive(t, long.Single[j], "bin %d", j)
	}

	// Seconds-long campaigns clip every source, so h_c scales as √dur.
	one, err := gwb.Synthesize(rng.FromSeed(8), tr, gwEdges(t),
		gwb.WithRealizations(2), gwb.WithObservingDuration(1))
	require.NoError(t, err)
	four, err := gwb.Synthesize(rng.FromSeed(8), tr, gwEdges(t),
		gwb.WithRealizations(2), gwb.WithObservingDuration(4))
	require.NoError(t, err)
	for j := range one.Single {
		assert.InEpsilon(t, 2*one.Single[j], four.Single[j], 1e-12, "bin %d", j)
		assert.LessOrEqual(t, four.Single[j], long.Single[j], "bin %d", j)
	}
}

func TestSynthesize_ZeroLoudest(t *testing.T) {
	tr := track(t, 6, nil)
	s, err := gwb.Synthesize(rng.FromSeed(6), tr, gwEdges(t),
		gwb.WithLoudest(0), gwb.WithRealizations(4))
	require.NoError(t, err)
	for j := range s.Freqs {
		assert.Equal(t, make([]float64, 4), s.Foreground.Row(j))
		assert.Equal(t, s.Total.Row(j), s.Background.Row(j))
	}
}

func TestSynthesize_Deterministic(t *testing.T) {
	tr := track(t, 6, nil)
	a, err := gwb.Synthesize(rng.FromSeed(9), tr, gwEdges(t), gwb.WithRealizations(3))
	require.NoError(t, err)
	b, err := gwb.Synthesize(rng.FromSeed(9), tr, gwEdges(t), gwb.WithRealizations(3))
	require.NoError(t, err)
	assert.Equal(t, a.Total.Raw(), b.Total.Raw())
	assert.Equal(t, a.Loudest.Raw(), b.Loudest.Raw())
}

func TestSynthesize_LogAndProgress(t *testing.T) {
	tr := track(t, 4, nil)
	var calls, last int
	var logs []string
	_, err := gwb.Synthesize(rng.FromSeed(1), tr, gwEdges(t),
		gwb.WithRealizations(2),
		gwb.WithProgress(func(done, total int) { calls++; last = done; assert.Equal(t, 5, total) }),
		gwb.WithLogf(func(format string, args ...any) { logs = append(logs, format) }))
	require.NoError(t, err)
	assert.Equal(t, 5, calls)
	assert.Equal(t, 5, last)
	assert.NotEmpty(t, logs)
}

func TestSynthesize_Errors(t *testing.T) {
	_, err := gwb.Synthesize(nil, nil, []float64{1, 2})
	assert.ErrorIs(t, err, gwb.ErrNilTrack)

	tr := track(t, 3, nil)
	_, err = gwb.Synthesize(nil, tr, []float64{1e-8})
	assert.ErrorIs(t, err, universe.ErrBadEdges)
	_, err = gwb.Synthesize(nil, tr, []float64{2e-8, 1e-8})
	assert.ErrorIs(t, err, universe.ErrBadEdges)

	// kHz lies far above the ISCO frequency of any SMBH binary
	_, err = gwb.Synthesize(nil, tr, []float64{1e3, 2e3, 3e3}, gwb.WithRealizations(1))
	assert.ErrorIs(t, err, evolution.ErrTargetsOutOfBounds)

	edges := gwEdges(t)
	assert.Panics(t, func() { _, _ = gwb.Synthesize(nil, tr, edges, gwb.WithHarmonics(0)) })
	assert.Panics(t, func() { _, _ = gwb.Synthesize(nil, tr, edges, gwb.WithRealizations(0)) })
	assert.Panics(t, func() { _, _ = gwb.Synthesize(nil, tr, edges, gwb.WithLoudest(-1)) })
	assert.Panics(t, func() { _, _ = gwb.Synthesize(nil, tr, edges, gwb.WithObservingDuration(0)) })
}

func TestFromCatalog(t *testing.T) {
	edges := []float64{1e-8, 2e-8, 4e-8}
	mtot := 1e9 * phys.MSOL
	cat := &universe.Catalog{
		Mtot:  []float64{mtot, mtot, mtot, mtot, mtot},
		Mrat:  []float64{1, 0.5, 1, 1, 1},
		Redz:  []float64{0.5, 0.5, 0.5, 0.5, -0.1},
		Fobs:  []float64{0.75e-8, 0.75e-8, 1.5e-8, 5e-8, 0.75e-8},
		Eccen: make([]float64, 5),
		Dadt:  make([]float64, 5),
		Dedt:  make([]float64, 5),
	}
	s, err := gwb.FromCatalog(cat, edges, nil, gwb.WithLoudest(1))
	require.NoError(t, err)
	require.Equal(t, 1, s.NReals())
	assert.Nil(t, s.Analytic)

	cos := cosmo.Default()
	dcom := cos.ZToDcom(0.5)
	strain := func(mrat, fobs float64) float64 {
		m1, m2 := phys.M1M2FromMtotMrat(mtot, mrat)
		return phys.GWStrainSource(phys.ChirpMass(m1, m2), dcom, fobs*1.5)
	}
	h0, h1 := strain(1, 0.75e-8), strain(0.5, 0.75e-8)
	h2 := strain(1, 1.5e-8)
	dlnf := math.Ln2

	// bin 0 holds the two sources at 15 nHz; the redshift -0.1 entry is dropped
	assert.InEpsilon(t, math.Sqrt((h0*h0+h1*h1)/dlnf), s.Total.Row(0)[0], 1e-9)
	assert.InEpsilon(t, h0/math.Sqrt(dlnf), s.Foreground.Row(0)[0], 1e-9)
	assert.InEpsilon(t, h1/math.Sqrt(dlnf), s.Background.Row(0)[0], 1e-9)
	// bin 1 holds the 30 nHz source; 100 nHz is outside the edges
	assert.InEpsilon(t, h2/math.Sqrt(dlnf), s.Total.Row(1)[0], 1e-9)
	assert.Equal(t, 0.0, s.Background.Row(1)[0])
	assert.Equal(t, s.Total.Raw(), s.Circular.Total.Raw())
	checkLoudest(t, s)

	_, err = gwb.FromCatalog(nil, edges, nil)
	assert.ErrorIs(t, err, gwb.ErrNilTrack)
	cat.Redz = cat.Redz[:2]
	_, err = gwb.FromCatalog(cat, edges, nil)
	assert.ErrorIs(t, err, gwb.ErrShapeMismatch)
}

func TestFromCatalog_Resampled(t *testing.T) {
	tr := track(t, 10, nil)
	orbEdges := make([]float64, 0, 6)
	for _, e := range gwEdges(t) {
		orbEdges = append(orbEdges, e/2)
	}
	s, err := universe.Weights(tr, orbEdges)
	require.NoError(t, err)
	cat, err := universe.Resample(rng.FromSeed(3), s, orbEdges,
		universe.WithDownSample(s.TotalWeight()/200))
	require.NoError(t, err)

	sp, err := gwb.FromCatalog(cat, gwEdges(t), tr.Cosmology())
	require.NoError(t, err)
	var loud bool
	for j := range sp.Freqs {
		if sp.Total.Row(j)[0] > 0 {
			loud = true
		}
	}
	assert.Equal(t, cat.Len() > 0, loud)
	checkLoudest(t, sp)
}
