package config_test

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jaedmunt/holodeck/binary"
	"github.com/jaedmunt/holodeck/config"
	"github.com/jaedmunt/holodeck/evolution"
	"github.com/jaedmunt/holodeck/hardening"
	"github.com/jaedmunt/holodeck/phys"
	"github.com/jaedmunt/holodeck/rng"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fullDoc = `
seed: 7
population:
  n: 6
  mtot_msol: [1.0e8, 1.0e9]
  sepa_pc: [100, 1000]
  redz: [0.2, 1.0]
  eccen: [0.1, 0.5]
  volume_mpc3: 1.0e6
hardening:
  - kind: gw
  - kind: fixed_time
    hard_time_gyr: 0.5
    rchar_pc: 50
accretion:
  f_edd: 0.01
  split: secondary
  max_sepa_pc: 1
evolution:
  mode: fixed
  steps: 40
gwb:
  fmin_nhz: 2
  fmax_nhz: 200
  bins: 5
  harmonics: 4
  realizations: 3
  loudest: 2
universe:
  down_sample: 10
  bandwidth_scale: 0.3
`

func parse(t *testing.T, doc string) (*config.Config, error) {
	t.Helper()
	return config.Parse(strings.NewReader(doc))
}

func TestParse_EmptyIsDefault(t *testing.T) {
	c, err := parse(t, "")
	require.NoError(t, err)
	assert.Equal(t, config.Default(), c)
	assert.Equal(t, config.Default().Fingerprint(), c.Fingerprint())
}

func TestParse_FullDocument(t *testing.T) {
	c, err := parse(t, fullDoc)
	require.NoError(t, err)
	assert.Equal(t, int64(7), c.Seed)
	assert.Equal(t, []float64{0.1, 1}, c.Population.Mrat, "unset keys keep defaults")
	require.Len(t, c.Hardening, 2)
	assert.Equal(t, 50.0, c.Hardening[1].RCharPc)
	require.NotNil(t, c.Accretion)
	require.NotNil(t, c.Universe)
	assert.Equal(t, 10.0, c.Universe.DownSample)
}

func TestParse_RejectsUnknownKeys(t *testing.T) {
	_, err := parse(t, "population:\n  nn: 3\n")
	assert.ErrorIs(t, err, config.ErrBadConfig)
	_, err = parse(t, "gwb: [1, 2]\n")
	assert.ErrorIs(t, err, config.ErrBadConfig)
}

func TestParse_UnknownKindSuggests(t *testing.T) {
	_, err := parse(t, "hardening:\n  - kind: fixed_tme\n")
	require.ErrorIs(t, err, config.ErrUnknownKind)
	assert.Contains(t, err.Error(), `did you mean "fixed_time"`)

	_, err = parse(t, "evolution: {mode: adaptiv}\n")
	require.ErrorIs(t, err, config.ErrUnknownKind)
	assert.Contains(t, err.Error(), `did you mean "adaptive"`)

	_, err = parse(t, "accretion: {f_edd: 0.1, split: zzzzzzzzzz}\n")
	require.ErrorIs(t, err, config.ErrUnknownKind)
	assert.Contains(t, err.Error(), "proportional, equal, secondary")
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name string
		doc  string
	}{
		{"NoBinaries", "population: {n: 0}"},
		{"InvertedRange", "population: {sepa_pc: [10, 1]}"},
		{"ShortRange", "population: {redz: [1]}"},
		{"MassRatioAboveOne", "population: {mrat: [0.5, 2]}"},
		{"EccentricityOne", "population: {eccen: [0.1, 1.0]}"},
		{"NoVolume", "population: {volume_mpc3: 0}"},
		{"NoHardening", "hardening: []"},
		{"BadEddington", "accretion: {f_edd: 0, split: equal}"},
		{"OneStep", "evolution: {steps: 1}"},
		{"BadCFL", "evolution: {mode: adaptive, cfl: 2}"},
		{"NoStepCap", "evolution: {mode: adaptive, max_step_gyr: 0}"},
		{"InvertedBand", "gwb: {fmin_nhz: 10, fmax_nhz: 1}"},
		{"NoBins", "gwb: {bins: 0}"},
		{"CadenceLongerThanCampaign", "gwb: {dur_yr: 1, cad_yr: 2}"},
		{"NoRealizations", "gwb: {realizations: 0}"},
		{"NegativeLoudest", "gwb: {loudest: -1}"},
		{"NoDownSample", "universe: {down_sample: 0}"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := parse(t, tc.doc)
			assert.ErrorIs(t, err, config.ErrBadConfig)
		})
	}
}

func TestFingerprint(t *testing.T) {
	a, err := parse(t, fullDoc)
	require.NoError(t, err)
	b, err := parse(t, "# same run\n"+strings.ReplaceAll(fullDoc, "  mode: fixed\n", ""))
	require.NoError(t, err)
	assert.Len(t, a.Fingerprint(), 16)
	assert.Equal(t, a.Fingerprint(), b.Fingerprint())

	b.Seed++
	assert.NotEqual(t, a.Fingerprint(), b.Fingerprint())
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")
	require.NoError(t, os.WriteFile(path, []byte(fullDoc), 0o600))
	c, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, 6, c.Population.N)

	_, err = config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	require.NoError(t, os.WriteFile(path, []byte("seed: [1]\n"), 0o600))
	_, err = config.Load(path)
	assert.ErrorIs(t, err, config.ErrBadConfig)
	assert.Contains(t, err.Error(), path)
}

func TestEdges(t *testing.T) {
	c := config.Default()
	edges, err := c.Edges()
	require.NoError(t, err)
	require.Len(t, edges, c.GWB.Bins+1)
	assert.InEpsilon(t, 2e-9, edges[0], 1e-12)
	assert.InEpsilon(t, 2e-7, edges[len(edges)-1], 1e-12)

	c.GWB.DurYr, c.GWB.CadYr = 10, 1
	require.NoError(t, c.Validate())
	edges, err = c.Edges()
	require.NoError(t, err)
	require.Len(t, edges, 11)
	dur := 10 * phys.YR
	for k := 1; k < len(edges); k++ {
		assert.InEpsilon(t, float64(k)/dur, 0.5*(edges[k-1]+edges[k]), 1e-12)
	}
}

func TestBuild_RunsEndToEnd(t *testing.T) {
	c, err := parse(t, fullDoc)
	require.NoError(t, err)

	pop, err := c.BuildPopulation(rng.FromSeed(c.Seed))
	require.NoError(t, err)
	require.Equal(t, 6, pop.Size())
	assert.True(t, pop.Eccentric())
	assert.InEpsilon(t, 1e6*math.Pow(phys.MPC, 3), pop.SampleVolume, 1e-12)
	for i := 0; i < pop.Size(); i++ {
		assert.GreaterOrEqual(t, pop.Sepa[i], 100*phys.PC)
		assert.LessOrEqual(t, pop.Sepa[i], 1000*phys.PC)
	}

	models, err := c.BuildHardening(pop)
	require.NoError(t, err)
	require.Len(t, models, 2)
	assert.Equal(t, string(hardening.KindFixedTime), models[1].Name())

	acc, err := c.BuildAccretion()
	require.NoError(t, err)
	require.NotNil(t, acc)

	opts, err := c.EvolutionOptions()
	require.NoError(t, err)
	tr, err := evolution.Evolve(pop, models, opts...)
	require.NoError(t, err)
	assert.Equal(t, 40, tr.Steps(0))
	assert.True(t, tr.Accreting())

	assert.Len(t, c.GWBOptions(), 3)
	c.GWB.DurYr, c.GWB.CadYr = 10, 1
	assert.Len(t, c.GWBOptions(), 4)
	assert.Len(t, c.UniverseOptions(), 2)
	assert.Nil(t, config.Default().UniverseOptions())
}

func TestBuild_AdaptiveAndScattering(t *testing.T) {
	c, err := parse(t, `
population: {n: 2, sepa_pc: [0.01, 0.02], redz: [1, 2]}
hardening:
  - kind: gw
  - kind: stellar_scattering
    rho_msol_pc3: 1000
    sigma_km_s: 200
evolution: {mode: adaptive, max_binary_steps: 5000}
`)
	require.NoError(t, err)
	assert.True(t, c.Adaptive())
	acc, err := c.BuildAccretion()
	require.NoError(t, err)
	assert.Nil(t, acc)

	pop, err := c.BuildPopulation(rng.FromSeed(1))
	require.NoError(t, err)
	models, err := c.BuildHardening(pop)
	require.NoError(t, err)
	opts, err := c.EvolutionOptions()
	require.NoError(t, err)
	tr, err := evolution.EvolveAdaptive(pop, models, opts...)
	require.NoError(t, err)
	assert.Equal(t, evolution.ModeAdaptive, tr.Mode())
}

func TestBuild_MissingModelParameter(t *testing.T) {
	c, err := parse(t, "hardening:\n  - kind: stellar_scattering\n")
	require.NoError(t, err)
	pop, err := c.BuildPopulation(nil)
	require.NoError(t, err)
	_, err = c.BuildHardening(pop)
	assert.ErrorIs(t, err, hardening.ErrBadParam)
}

func TestMarshal_RoundTrip(t *testing.T) {
	a, err := parse(t, fullDoc)
	require.NoError(t, err)
	b, err := config.Parse(strings.NewReader(string(a.Marshal())))
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestBuild_OneGammaKeepsOtherDefault(t *testing.T) {
	build := func(extra string) (hardening.Model, binary.State) {
		c, err := parse(t, "population: {n: 2}\nhardening:\n  - kind: fixed_time\n    hard_time_gyr: 1\n"+extra)
		require.NoError(t, err)
		pop, err := c.BuildPopulation(rng.FromSeed(4))
		require.NoError(t, err)
		models, err := c.BuildHardening(pop)
		require.NoError(t, err)
		require.Len(t, models, 1)
		return models[0], binary.State{Index: 0, M1: pop.M1[0], M2: pop.M2[0], Sepa: phys.PC, Scafa: pop.Scafa[0]}
	}
	ref, s := build("")
	outer, s2 := build("    gamma_outer: 1.5\n")
	require.Equal(t, s, s2)

	want, _ := ref.Rate(s)
	got, _ := outer.Rate(s)
	assert.InEpsilon(t, want, got, 1e-12)
}
