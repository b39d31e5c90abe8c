// Package rng centralises deterministic random generation for the
// resampling and GW-synthesis stages.
//
// Goals:
//   - Determinism: same seed ⇒ identical realizations across platforms.
//   - Encapsulation: callers pass an explicit *rand.Rand; nothing here reads
//     the global math/rand state or the clock.
//   - Scale: Poisson draws stay O(1) per draw for arbitrarily large means.
//
// Concurrency:
//   - math/rand.Rand is NOT goroutine-safe. Use Derive to split independent
//     streams for workers.
package rng
