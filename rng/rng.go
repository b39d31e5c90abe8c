// SPDX-License-Identifier: MIT

package rng

import "math/rand"

// DefaultSeed is the fixed seed used when callers pass seed==0.
const DefaultSeed int64 = 1

// FromSeed returns a deterministic *rand.Rand.
// Policy: seed==0 ⇒ use DefaultSeed; otherwise use the provided seed verbatim.
func FromSeed(seed int64) *rand.Rand {
	s := seed
	if s == 0 {
		s = DefaultSeed
	}
	return rand.New(rand.NewSource(s))
}

// OrDefault returns r, or a DefaultSeed stream when r is nil.
func OrDefault(r *rand.Rand) *rand.Rand {
	if r == nil {
		return FromSeed(0)
	}
	return r
}

// deriveSeed mixes a parent seed and a stream identifier with a SplitMix64
// finalizer (Vigna 2014 constants).
func deriveSeed(parent int64, stream uint64) int64 {
	x := uint64(parent) ^ (stream + 0x9e3779b97f4a7c15)
	x += 0x9e3779b97f4a7c15
	x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
	x = (x ^ (x >> 27)) * 0x94d049bb133111eb
	x ^= x >> 31
	return int64(x)
}

// Derive creates an independent deterministic stream from base and a stream
// identifier. base.Int63() is consumed once so that reusing a stream id still
// yields a fresh child. A nil base derives from DefaultSeed.
func Derive(base *rand.Rand, stream uint64) *rand.Rand {
	var parent int64
	if base == nil {
		parent = DefaultSeed
	} else {
		parent = base.Int63()
	}
	return rand.New(rand.NewSource(deriveSeed(parent, stream)))
}

// Normal draws from N(mu, sigma²).
func Normal(r *rand.Rand, mu, sigma float64) float64 {
	return mu + sigma*r.NormFloat64()
}
