// SPDX-License-Identifier: MIT

package evolution

import (
	"fmt"

	"github.com/jaedmunt/holodeck/accretion"
	"github.com/jaedmunt/holodeck/cosmo"
	"github.com/jaedmunt/holodeck/phys"
)

// Integration defaults.
const (
	DefaultSteps          = 100
	DefaultCFL            = 0.1
	DefaultMaxStep        = 0.1 * phys.GYR
	DefaultMaxBinarySteps = 10000
	DefaultChunkPerBinary = 64

	// iscoMargin: an adaptive step ending within this factor of ISCO is
	// shortened to end exactly on it.
	iscoMargin = 1.001
	// redzFloor: an adaptive step ending below this redshift is stretched
	// to reach z = 0.
	redzFloor = 1.0e-3
	// eccenFloor bounds the eccentricity CFL criterion away from e = 0.
	eccenFloor = 1.0e-3
)

// Modifier adjusts a finished track before the final consistency check.
type Modifier func(t *Track) error

// Options configures both integrators. Fields that only one mode uses are
// ignored by the other.
type Options struct {
	Steps int // fixed mode: steps per binary, including step 0

	CFL            float64 // adaptive: safety factor on every stability bound
	MaxStep        float64 // adaptive: absolute cap on dt [s]
	MaxBinarySteps int     // adaptive: per-binary step ceiling
	ChunkPerBinary int     // adaptive: initial arena rows per binary

	Accretion  accretion.Model
	Cosmology  cosmo.Cosmology
	DebugRates bool
	Modifiers  []Modifier

	// Logf receives progress messages; nil is silent.
	Logf func(format string, args ...any)
	// Progress is called with (done, total) after each step (fixed mode) or
	// binary (adaptive mode); nil is silent.
	Progress func(done, total int)
}

// Option mutates Options.
type Option func(*Options)

// DefaultOptions returns the defaults used when no options are given.
func DefaultOptions() Options {
	return Options{
		Steps:          DefaultSteps,
		CFL:            DefaultCFL,
		MaxStep:        DefaultMaxStep,
		MaxBinarySteps: DefaultMaxBinarySteps,
		ChunkPerBinary: DefaultChunkPerBinary,
	}
}

// WithSteps sets the fixed-mode step count. Panics below 2.
func WithSteps(n int) Option {
	return func(o *Options) {
		if n < 2 {
			panic(ErrBadSteps.Error())
		}
		o.Steps = n
	}
}

// WithCFL sets the adaptive safety factor. Panics outside (0,1].
func WithCFL(cfl float64) Option {
	return func(o *Options) {
		if !(cfl > 0) || cfl > 1 {
			panic(fmt.Sprintf("evolution: WithCFL(%g) outside (0,1]", cfl))
		}
		o.CFL = cfl
	}
}

// WithMaxStep caps the adaptive step duration [s]. Panics on non-positive input.
func WithMaxStep(dt float64) Option {
	return func(o *Options) {
		if !(dt > 0) {
			panic(fmt.Sprintf("evolution: WithMaxStep(%g) must be > 0", dt))
		}
		o.MaxStep = dt
	}
}

// WithMaxBinarySteps sets the adaptive per-binary step ceiling. Panics below 1.
func WithMaxBinarySteps(n int) Option {
	return func(o *Options) {
		if n < 1 {
			panic(fmt.Sprintf("evolution: WithMaxBinarySteps(%d) must be >= 1", n))
		}
		o.MaxBinarySteps = n
	}
}

// WithChunkPerBinary pre-sizes the adaptive arena to n rows per binary.
func WithChunkPerBinary(n int) Option {
	return func(o *Options) {
		if n < 1 {
			panic(fmt.Sprintf("evolution: WithChunkPerBinary(%d) must be >= 1", n))
		}
		o.ChunkPerBinary = n
	}
}

// WithAccretion attaches an accretion model.
func WithAccretion(m accretion.Model) Option {
	return func(o *Options) { o.Accretion = m }
}

// WithCosmology replaces the default cosmology.
func WithCosmology(c cosmo.Cosmology) Option {
	return func(o *Options) { o.Cosmology = c }
}

// WithDebugRates stores every hardening model's da/dt at every step.
func WithDebugRates() Option {
	return func(o *Options) { o.DebugRates = true }
}

// WithModifiers appends post-integration modifiers, applied in order.
func WithModifiers(mods ...Modifier) Option {
	return func(o *Options) { o.Modifiers = append(o.Modifiers, mods...) }
}

// WithLogf routes progress messages to logf.
func WithLogf(logf func(format string, args ...any)) Option {
	return func(o *Options) { o.Logf = logf }
}

// WithProgress installs a progress callback.
func WithProgress(fn func(done, total int)) Option {
	return func(o *Options) { o.Progress = fn }
}

func buildOptions(opts []Option) Options {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.Cosmology == nil {
		o.Cosmology = cosmo.Default()
	}
	return o
}

func (o *Options) logf(format string, args ...any) {
	if o.Logf != nil {
		o.Logf(format, args...)
	}
}

func (o *Options) progress(done, total int) {
	if o.Progress != nil {
		o.Progress(done, total)
	}
}
