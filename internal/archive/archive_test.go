package archive_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/jaedmunt/holodeck/gwb"
	"github.com/jaedmunt/holodeck/internal/archive"
	"github.com/jaedmunt/holodeck/phys"
	"github.com/jaedmunt/holodeck/universe"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// spectrum returns a two-bin catalog spectrum with two sources in bin 0.
func spectrum(t *testing.T) *gwb.Spectrum {
	m := 1e9 * phys.MSOL
	cat := &universe.Catalog{
		Mtot:  []float64{m, m, m},
		Mrat:  []float64{1, 0.3, 1},
		Redz:  []float64{0.5, 0.5, 0.5},
		Fobs:  []float64{0.75e-8, 0.75e-8, 1.5e-8},
		Eccen: make([]float64, 3),
		Dadt:  make([]float64, 3),
		Dedt:  make([]float64, 3),
	}
	s, err := gwb.FromCatalog(cat, []float64{1e-8, 2e-8, 4e-8}, nil, gwb.WithLoudest(2))
	require.NoError(t, err)
	return s
}

func open(t *testing.T, path string) *archive.Store {
	st, err := archive.Open(context.Background(), path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	return st
}

func TestStore_SaveAndGet(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "runs.db")
	st := open(t, path)
	sp := spectrum(t)
	sp.Single = []float64{3e-15, 1e-15}

	id, err := st.Save(ctx, archive.Run{
		Fingerprint: "00000000deadbeef",
		Config:      "seed: 1\n",
		Binaries:    3,
		Coalesced:   2,
		Spectrum:    sp,
	})
	require.NoError(t, err)
	require.Len(t, id, 36)
	require.NoError(t, st.Close())

	st = open(t, path)
	rec, ok, err := st.Get(ctx, id)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "00000000deadbeef", rec.Fingerprint)
	assert.Equal(t, "seed: 1\n", rec.Config)
	assert.Equal(t, 3, rec.Binaries)
	assert.Equal(t, 2, rec.Coalesced)
	assert.False(t, rec.Created.IsZero())

	got := rec.Spectrum
	assert.Equal(t, sp.Freqs, got.Freqs)
	assert.Equal(t, []int{2}, got.Harmonics)
	assert.Equal(t, 1, got.NReals())
	assert.Nil(t, got.Analytic)
	for j := range sp.Freqs {
		assert.Equal(t, sp.Total.Row(j), got.Total[j])
		assert.Equal(t, sp.Foreground.Row(j), got.Foreground[j])
		assert.Equal(t, sp.Background.Row(j), got.Background[j])
		assert.Equal(t, sp.Circular.Foreground.Row(j), got.CircularForeground[j])
		assert.Equal(t, sp.Circular.Background.Row(j), got.CircularBackground[j])
		assert.Equal(t, sp.Circular.Total.Row(j), got.CircularTotal[j])
	}
	assert.Equal(t, sp.Single, got.Single)

	loud, err := st.Loudest(ctx, id, 0)
	require.NoError(t, err)
	require.Len(t, loud, 2)
	assert.Equal(t, 0, loud[0].Rank)
	assert.Equal(t, 1, loud[1].Rank)
	assert.Greater(t, loud[0].Strain, loud[1].Strain)
	want, err := sp.Loudest.At(0, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, want, loud[0].Strain)

	loud, err = st.Loudest(ctx, id, 1)
	require.NoError(t, err)
	assert.Len(t, loud, 1, "empty foreground slots are not stored")
}

func TestStore_ByFingerprint(t *testing.T) {
	ctx := context.Background()
	st := open(t, ":memory:")
	sp := spectrum(t)

	a, err := st.Save(ctx, archive.Run{Fingerprint: "a", Spectrum: sp})
	require.NoError(t, err)
	_, err = st.Save(ctx, archive.Run{Fingerprint: "b", Spectrum: sp})
	require.NoError(t, err)
	c, err := st.Save(ctx, archive.Run{Fingerprint: "a", Spectrum: sp})
	require.NoError(t, err)
	assert.NotEqual(t, a, c)

	ids, err := st.ByFingerprint(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, []string{a, c}, ids)

	ids, err = st.ByFingerprint(ctx, "none")
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestStore_Errors(t *testing.T) {
	ctx := context.Background()
	_, err := archive.Open(ctx, "")
	assert.Error(t, err)

	st := open(t, ":memory:")
	_, err = st.Save(ctx, archive.Run{})
	assert.ErrorIs(t, err, archive.ErrNilSpectrum)

	_, ok, err := st.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, st.Close())
	require.NoError(t, st.Close())
	_, err = st.Save(ctx, archive.Run{Spectrum: spectrum(t)})
	assert.ErrorIs(t, err, archive.ErrClosed)
	_, _, err = st.Get(ctx, "x")
	assert.ErrorIs(t, err, archive.ErrClosed)
	_, err = st.ByFingerprint(ctx, "x")
	assert.ErrorIs(t, err, archive.ErrClosed)
	_, err = st.Loudest(ctx, "x", 0)
	assert.ErrorIs(t, err, archive.ErrClosed)
}
