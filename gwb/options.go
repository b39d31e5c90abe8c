// SPDX-License-Identifier: MIT

package gwb

import "fmt"

// Synthesis defaults.
const (
	DefaultHarmonics    = 30
	DefaultRealizations = 100
	DefaultLoudest      = 5
)

// Options configures Synthesize and FromCatalog.
type Options struct {
	NHarmonics int // harmonics 1..NHarmonics for eccentric tracks
	NReals     int // Poisson realizations
	NLoudest   int // sources per realization classified as foreground

	// DurObs [s], when positive, fills Spectrum.Single with cycles clipped
	// to an observing campaign of this length.
	DurObs float64

	Logf     func(format string, args ...any)
	Progress func(done, total int) // called once per frequency bin
}

// Option mutates Options.
type Option func(*Options)

// DefaultOptions returns the defaults used when no options are given.
func DefaultOptions() Options {
	return Options{NHarmonics: DefaultHarmonics, NReals: DefaultRealizations, NLoudest: DefaultLoudest}
}

// WithHarmonics sets the number of harmonics. 1 forces the circular n=2
// treatment even for eccentric tracks. Panics below 1.
func WithHarmonics(n int) Option {
	return func(o *Options) {
		if n < 1 {
			panic(fmt.Sprintf("gwb: WithHarmonics(%d) must be >= 1", n))
		}
		o.NHarmonics = n
	}
}

// WithRealizations sets the number of realizations. Panics below 1.
func WithRealizations(n int) Option {
	return func(o *Options) {
		if n < 1 {
			panic(fmt.Sprintf("gwb: WithRealizations(%d) must be >= 1", n))
		}
		o.NReals = n
	}
}

// WithLoudest sets the foreground size. 0 puts everything in the background.
// Panics on negative input.
func WithLoudest(n int) Option {
	return func(o *Options) {
		if n < 0 {
			panic(fmt.Sprintf("gwb: WithLoudest(%d) must be >= 0", n))
		}
		o.NLoudest = n
	}
}

// WithObservingDuration enables Spectrum.Single for a campaign of dur
// seconds. Panics unless dur > 0.
func WithObservingDuration(dur float64) Option {
	return func(o *Options) {
		if !(dur > 0) {
			panic(fmt.Sprintf("gwb: WithObservingDuration(%g) must be > 0", dur))
		}
		o.DurObs = dur
	}
}

// WithLogf routes progress messages to logf.
func WithLogf(logf func(format string, args ...any)) Option {
	return func(o *Options) { o.Logf = logf }
}

// WithProgress installs a per-frequency progress callback.
func WithProgress(fn func(done, total int)) Option {
	return func(o *Options) { o.Progress = fn }
}

func buildOptions(opts []Option) Options {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
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
