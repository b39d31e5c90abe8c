package evolution_test

import (
	"errors"
	"math"
	"testing"

	"github.com/jaedmunt/holodeck/accretion"
	"github.com/jaedmunt/holodeck/binary"
	"github.com/jaedmunt/holodeck/evolution"
	"github.com/jaedmunt/holodeck/hardening"
	"github.com/jaedmunt/holodeck/phys"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// equalMass builds circular equal-mass binaries of total mass mtot [Msol]
// at separations sepa [pc], all formed at scale-factor scafa.
func equalMass(mtot float64, scafa float64, sepa ...float64) *binary.Population {
	p := &binary.Population{SampleVolume: math.Pow(100*phys.MPC, 3)}
	for _, s := range sepa {
		p.M1 = append(p.M1, 0.5*mtot*phys.MSOL)
		p.M2 = append(p.M2, 0.5*mtot*phys.MSOL)
		p.Sepa = append(p.Sepa, s*phys.PC)
		p.Scafa = append(p.Scafa, scafa)
	}
	return p
}

func withEccen(p *binary.Population, e float64) *binary.Population {
	p.Eccen = make([]float64, p.Size())
	for i := range p.Eccen {
		p.Eccen[i] = e
	}
	return p
}

func gwOnly() []hardening.Model { return []hardening.Model{hardening.GW{}} }

func gwPlusEnv(t *testing.T, p *binary.Population, tHard float64) []hardening.Model {
	ft, err := hardening.NewFixedTime(p, tHard)
	require.NoError(t, err)
	return []hardening.Model{hardening.GW{}, ft}
}

// checkTrack asserts the properties every finished track must satisfy.
func checkTrack(t *testing.T, p *binary.Population, tr *evolution.Track, iscoTol float64) {
	t.Helper()
	require.Equal(t, p.Size(), tr.Size())
	for i := 0; i < tr.Size(); i++ {
		sepa, err := tr.Series(evolution.ParamSepa, i)
		require.NoError(t, err)
		tl, _ := tr.Series(evolution.ParamTlook, i)
		m1, _ := tr.Series(evolution.ParamM1, i)
		m2, _ := tr.Series(evolution.ParamM2, i)

		assert.Equal(t, p.Sepa[i], sepa[0], "binary %d step-0 separation", i)
		assert.Equal(t, p.M1[i], m1[0], "binary %d step-0 m1", i)
		assert.Equal(t, p.M2[i], m2[0], "binary %d step-0 m2", i)
		for s := 1; s < len(sepa); s++ {
			require.LessOrEqual(t, sepa[s], sepa[s-1], "binary %d step %d", i, s)
			require.LessOrEqual(t, tl[s], tl[s-1], "binary %d step %d", i, s)
		}
		last := len(sepa) - 1
		if tr.IsCoalesced(i) {
			risco := phys.RadISCO(m1[last], m2[last])
			assert.LessOrEqual(t, sepa[last], risco*(1+iscoTol), "binary %d ends at ISCO", i)
		}
		if tr.Eccentric() {
			ecc, _ := tr.Series(evolution.ParamEccen, i)
			for _, e := range ecc {
				require.GreaterOrEqual(t, e, 0.0)
				require.LessOrEqual(t, e, 1-phys.MaxEccenOneMinus)
			}
		}
	}
}

func TestEvolve_SingleCircularGW(t *testing.T) {
	p := equalMass(1e9, 0.5, 1e4)
	tr, err := evolution.Evolve(p, gwOnly(), evolution.WithSteps(100))
	require.NoError(t, err)
	checkTrack(t, p, tr, 0)

	require.Equal(t, 100, tr.Steps(0))
	final, err := tr.Final(evolution.ParamSepa, 0)
	require.NoError(t, err)
	rs := phys.SchwarzschildRadius(p.Mtot(0))
	assert.LessOrEqual(t, final, 3*rs*(1+1e-12))

	scafa0, _ := tr.Series(evolution.ParamScafa, 0)
	assert.Equal(t, p.Scafa[0], scafa0[0])
	assert.False(t, tr.IsCoalesced(0), "GW alone from 10 kpc takes far longer than a Hubble time")
	assert.Equal(t, evolution.ModeFixed, tr.Mode())
	assert.Equal(t, []string{"gw"}, tr.HardeningNames())
}

func TestEvolve_TwoBinariesSharedSteps(t *testing.T) {
	p := equalMass(1e9, 0.5, 1e-2, 1e-1)
	tr, err := evolution.Evolve(p, gwOnly(), evolution.WithSteps(50))
	require.NoError(t, err)
	checkTrack(t, p, tr, 0)

	for i := 0; i < 2; i++ {
		require.Equal(t, 50, tr.Steps(i))
		final, _ := tr.Final(evolution.ParamSepa, i)
		assert.Equal(t, phys.RadISCO(p.M1[i], p.M2[i]), final)
	}
	assert.Equal(t, []bool{true, true}, tr.Coalesced())

	// the wider binary takes longer to merge
	tl0, _ := tr.Final(evolution.ParamTlook, 0)
	tl1, _ := tr.Final(evolution.ParamTlook, 1)
	assert.Greater(t, tl0, tl1)
}

func TestEvolve_EccentricityBounds(t *testing.T) {
	p := withEccen(equalMass(1e9, 0.5, 1e-2, 1e3), 0.9)
	models := gwPlusEnv(t, p, phys.GYR)
	tr, err := evolution.Evolve(p, models, evolution.WithSteps(80))
	require.NoError(t, err)
	assert.True(t, tr.Eccentric())
	checkTrack(t, p, tr, 0)

	ecc, _ := tr.Series(evolution.ParamEccen, 0)
	assert.Less(t, ecc[len(ecc)-1], ecc[0], "GW emission circularises")
}

func TestEvolve_MassWithoutAccretionIsConstant(t *testing.T) {
	p := equalMass(1e9, 0.5, 1e3, 5e2)
	tr, err := evolution.Evolve(p, gwPlusEnv(t, p, phys.GYR), evolution.WithSteps(40))
	require.NoError(t, err)
	assert.False(t, tr.Accreting())
	for i := 0; i < p.Size(); i++ {
		m1, _ := tr.Series(evolution.ParamM1, i)
		for _, m := range m1 {
			require.Equal(t, p.M1[i], m)
		}
	}
	_, err = tr.Series(evolution.ParamMdot1, 0)
	require.ErrorIs(t, err, evolution.ErrUnknownParam)
}

func TestEvolve_AccretionGrowsMass(t *testing.T) {
	p := equalMass(1e9, 0.5, 1e3, 5e2)
	p.M2[1] = 0.2 * p.M1[1]
	acc, err := accretion.NewEddington(0.01, accretion.SplitSecondary)
	require.NoError(t, err)

	tr, err := evolution.Evolve(p, gwPlusEnv(t, p, phys.GYR),
		evolution.WithSteps(60), evolution.WithAccretion(acc))
	require.NoError(t, err)
	assert.True(t, tr.Accreting())
	checkTrack(t, p, tr, 0)

	for i := 0; i < p.Size(); i++ {
		m1, _ := tr.Final(evolution.ParamM1, i)
		m2, _ := tr.Final(evolution.ParamM2, i)
		assert.Greater(t, m1, p.M1[i])
		assert.Greater(t, m2, p.M2[i])
		mdot, err := tr.Series(evolution.ParamMdot2, i)
		require.NoError(t, err)
		assert.Greater(t, mdot[len(mdot)-1], 0.0)
	}

	// diagnostics only: rates recorded, masses frozen
	frozen, err := accretion.NewEddington(0.01, accretion.SplitSecondary, accretion.WithoutMassEvolution())
	require.NoError(t, err)
	tr, err = evolution.Evolve(p, gwPlusEnv(t, p, phys.GYR),
		evolution.WithSteps(60), evolution.WithAccretion(frozen))
	require.NoError(t, err)
	m1, _ := tr.Final(evolution.ParamM1, 0)
	assert.Equal(t, p.M1[0], m1)
	mdot, _ := tr.Series(evolution.ParamMdot1, 0)
	assert.Greater(t, mdot[0], 0.0)
}

func TestTrack_TotalMassRatio(t *testing.T) {
	p := equalMass(1e9, 0.5, 1e3, 5e2)
	p.M2[1] = 0.2 * p.M1[1]
	acc, err := accretion.NewEddington(0.01, accretion.SplitSecondary)
	require.NoError(t, err)
	tr, err := evolution.Evolve(p, gwPlusEnv(t, p, phys.GYR),
		evolution.WithSteps(30), evolution.WithAccretion(acc))
	require.NoError(t, err)

	for i := 0; i < p.Size(); i++ {
		mtot, mrat := tr.TotalMassRatio(i)
		m1, _ := tr.Series(evolution.ParamM1, i)
		m2, _ := tr.Series(evolution.ParamM2, i)
		require.Len(t, mtot, len(m1))
		require.Len(t, mrat, len(m1))
		for k := range m1 {
			assert.InEpsilon(t, m1[k]+m2[k], mtot[k], 1e-12)
			assert.InEpsilon(t, math.Min(m1[k], m2[k])/math.Max(m1[k], m2[k]), mrat[k], 1e-12)
			assert.LessOrEqual(t, mrat[k], 1.0)
		}
	}
	_, mrat := tr.TotalMassRatio(1)
	assert.InEpsilon(t, 0.2, mrat[0], 1e-12)
	assert.Greater(t, mrat[len(mrat)-1], mrat[0], "secondary accretion raises q")
}

func TestEvolve_DebugRatesSumToTotal(t *testing.T) {
	p := equalMass(1e9, 0.5, 1e3)
	tr, err := evolution.Evolve(p, gwPlusEnv(t, p, phys.GYR),
		evolution.WithSteps(30), evolution.WithDebugRates())
	require.NoError(t, err)
	require.Equal(t, []string{"gw", "fixed_time"}, tr.HardeningNames())

	dadt, _ := tr.Series(evolution.ParamDadt, 0)
	gw, env := tr.DebugRates(0, 0), tr.DebugRates(1, 0)
	require.Len(t, gw, len(dadt))
	for s := range dadt {
		assert.InEpsilon(t, dadt[s], gw[s]+env[s], 1e-12, "step %d", s)
	}
	assert.Nil(t, tr.DebugRates(2, 0))
}

func TestEvolve_ConfigurationErrors(t *testing.T) {
	p := equalMass(1e9, 0.5, 1e3)

	_, err := evolution.Evolve(p, nil)
	require.ErrorIs(t, err, evolution.ErrNoModels)
	_, err = evolution.Evolve(p, []hardening.Model{nil})
	require.ErrorIs(t, err, evolution.ErrNoModels)

	bad := equalMass(1e9, 0.5, 1e3)
	bad.M2 = bad.M2[:0]
	_, err = evolution.Evolve(bad, gwOnly())
	require.ErrorIs(t, err, binary.ErrShapeMismatch)

	assert.Panics(t, func() { _, _ = evolution.Evolve(p, gwOnly(), evolution.WithSteps(1)) })
	assert.Panics(t, func() { _, _ = evolution.EvolveAdaptive(p, gwOnly(), evolution.WithCFL(0)) })
	assert.Panics(t, func() { _, _ = evolution.EvolveAdaptive(p, gwOnly(), evolution.WithMaxStep(-1)) })
}

// widening is a deliberately broken model that pushes binaries apart.
type widening struct{}

func (widening) Name() string                         { return "widening" }
func (widening) Rate(binary.State) (float64, float64) { return 1.0, 0 }

func TestEvolve_NegativeTimestepIsFatal(t *testing.T) {
	p := equalMass(1e9, 0.5, 1e3)
	_, err := evolution.Evolve(p, []hardening.Model{widening{}}, evolution.WithSteps(10))
	require.ErrorIs(t, err, evolution.ErrNegativeTimestep)

	var ie *evolution.IntegrationError
	require.True(t, errors.As(err, &ie))
	assert.Equal(t, 0, ie.Binary)
	assert.Equal(t, 1, ie.Step)
	assert.Equal(t, "dt", ie.Field)
	assert.Contains(t, ie.Error(), "binary 0, step 1")
}

func TestEvolve_ModifiersAndCallbacks(t *testing.T) {
	p := equalMass(1e9, 0.5, 1e3, 5e2)
	var calls, progress, logs int
	mod := func(tr *evolution.Track) error {
		calls++
		assert.Equal(t, 2, tr.Size())
		return nil
	}
	_, err := evolution.Evolve(p, gwPlusEnv(t, p, phys.GYR),
		evolution.WithSteps(20),
		evolution.WithModifiers(mod),
		evolution.WithProgress(func(done, total int) {
			progress++
			assert.Equal(t, 19, total)
		}),
		evolution.WithLogf(func(string, ...any) { logs++ }),
	)
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
	assert.Equal(t, 19, progress)
	assert.GreaterOrEqual(t, logs, 2)

	boom := errors.New("boom")
	_, err = evolution.Evolve(p, gwPlusEnv(t, p, phys.GYR),
		evolution.WithModifiers(func(*evolution.Track) error { return boom }))
	require.ErrorIs(t, err, boom)
}

func TestEvolveAdaptive_ReachesISCO(t *testing.T) {
	p := withEccen(equalMass(1e9, 0.5, 1e3, 2e2), 0.5)
	var grown bool
	tr, err := evolution.EvolveAdaptive(p, gwPlusEnv(t, p, phys.GYR),
		evolution.WithChunkPerBinary(1),
		evolution.WithLogf(func(format string, _ ...any) {
			if format == "evolution: arena grown to %d rows" {
				grown = true
			}
		}))
	require.NoError(t, err)
	assert.Equal(t, evolution.ModeAdaptive, tr.Mode())
	checkTrack(t, p, tr, 0)
	assert.True(t, grown)

	total := 0
	for i := 0; i < tr.Size(); i++ {
		assert.True(t, tr.IsCoalesced(i), "binary %d merges within 1 Gyr", i)
		assert.Greater(t, tr.Steps(i), 10)
		total += tr.Steps(i)
	}
	assert.Equal(t, total, tr.TotalSteps())
}

func TestEvolveAdaptive_StopsAtRedshiftZero(t *testing.T) {
	p := equalMass(1e9, 0.5, 1e4)
	tr, err := evolution.EvolveAdaptive(p, gwOnly())
	require.NoError(t, err)
	checkTrack(t, p, tr, 0)

	assert.False(t, tr.IsCoalesced(0))
	scafa, _ := tr.Final(evolution.ParamScafa, 0)
	tlook, _ := tr.Final(evolution.ParamTlook, 0)
	assert.Equal(t, 1.0, scafa)
	assert.Equal(t, 0.0, tlook)

	// MaxStep caps every step, so the Hubble-time track takes dozens of them
	age := tr.Age(0)
	assert.InEpsilon(t, tr.Cosmology().Age(0), age[len(age)-1], 1e-12)
	assert.Greater(t, tr.Steps(0), int(tr.Cosmology().ZToTlbk(1)/evolution.DefaultMaxStep))
}

func TestEvolveAdaptive_EdgeStarts(t *testing.T) {
	// formed below the redshift floor: one step to z = 0, not coalesced
	late := equalMass(1e9, 1/(1+5e-4), 1e4)
	tr, err := evolution.EvolveAdaptive(late, gwOnly())
	require.NoError(t, err)
	assert.Equal(t, 2, tr.Steps(0))
	assert.False(t, tr.IsCoalesced(0))
	scafa, _ := tr.Final(evolution.ParamScafa, 0)
	assert.Equal(t, 1.0, scafa)

	// formed just outside ISCO: one step lands exactly on it
	near := equalMass(1e9, 0.5, 1)
	risco := phys.RadISCO(near.M1[0], near.M2[0])
	near.Sepa[0] = 1.0005 * risco
	tr, err = evolution.EvolveAdaptive(near, gwOnly())
	require.NoError(t, err)
	checkTrack(t, near, tr, 0)
	assert.Equal(t, 2, tr.Steps(0))
	assert.True(t, tr.IsCoalesced(0))
	sepa, _ := tr.Final(evolution.ParamSepa, 0)
	assert.Equal(t, risco, sepa)
}

func TestEvolveAdaptive_StepBudget(t *testing.T) {
	p := equalMass(1e9, 0.5, 1e3)
	_, err := evolution.EvolveAdaptive(p, gwPlusEnv(t, p, phys.GYR), evolution.WithMaxBinarySteps(3))
	require.ErrorIs(t, err, evolution.ErrStepBudget)

	var ie *evolution.IntegrationError
	require.True(t, errors.As(err, &ie))
	assert.Equal(t, 0, ie.Binary)
	assert.Equal(t, 4, ie.Step)
}

func TestEvolveAdaptive_Accretion(t *testing.T) {
	p := equalMass(1e9, 0.5, 1e3)
	acc, err := accretion.NewEddington(0.05, accretion.SplitProportional)
	require.NoError(t, err)
	tr, err := evolution.EvolveAdaptive(p, gwPlusEnv(t, p, phys.GYR), evolution.WithAccretion(acc))
	require.NoError(t, err)
	checkTrack(t, p, tr, 0)

	m1, _ := tr.Series(evolution.ParamM1, 0)
	for s := 1; s < len(m1); s++ {
		require.GreaterOrEqual(t, m1[s], m1[s-1])
	}
	assert.Greater(t, m1[len(m1)-1], m1[0])
}
