// SPDX-License-Identifier: MIT

package rng

import (
	"errors"
	"math"
	"math/rand"
)

// ErrBadMean indicates a negative or non-finite Poisson mean.
var ErrBadMean = errors.New("rng: poisson mean must be finite and >= 0")

// knuthLimit is the mean above which the transformed-rejection sampler is used.
const knuthLimit = 30.0

// Poisson draws one Poisson(lambda) variate.
//
// Small means use Knuth multiplication; larger means use Hörmann's PTRS
// transformed rejection, which is O(1) expected time for any lambda.
func Poisson(r *rand.Rand, lambda float64) (int64, error) {
	if lambda < 0 || math.IsNaN(lambda) || math.IsInf(lambda, 0) {
		return 0, ErrBadMean
	}
	if lambda == 0 {
		return 0, nil
	}
	if lambda < knuthLimit {
		return poissonKnuth(r, lambda), nil
	}
	return poissonPTRS(r, lambda), nil
}

// PoissonInto fills dst with independent Poisson(lambda) draws.
func PoissonInto(r *rand.Rand, lambda float64, dst []int64) error {
	for i := range dst {
		k, err := Poisson(r, lambda)
		if err != nil {
			return err
		}
		dst[i] = k
	}
	return nil
}

func poissonKnuth(r *rand.Rand, lambda float64) int64 {
	limit := math.Exp(-lambda)
	prod := r.Float64()
	var k int64
	for prod > limit {
		k++
		prod *= r.Float64()
	}
	return k
}

// poissonPTRS implements W. Hörmann (1993), "The transformed rejection method
// for generating Poisson random variables".
func poissonPTRS(r *rand.Rand, lambda float64) int64 {
	slam := math.Sqrt(lambda)
	loglam := math.Log(lambda)
	b := 0.931 + 2.53*slam
	a := -0.059 + 0.02483*b
	invalpha := 1.1239 + 1.1328/(b-3.4)
	vr := 0.9277 - 3.6224/(b-2)

	for {
		u := r.Float64() - 0.5
		v := r.Float64()
		us := 0.5 - math.Abs(u)
		k := math.Floor((2*a/us+b)*u + lambda + 0.43)
		if us >= 0.07 && v <= vr {
			return int64(k)
		}
		if k < 0 || (us < 0.013 && v > us) {
			continue
		}
		lg, _ := math.Lgamma(k + 1)
		if math.Log(v)+math.Log(invalpha)-math.Log(a/(us*us)+b) <= -lambda+k*loglam-lg {
			return int64(k)
		}
	}
}
