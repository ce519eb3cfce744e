package sieve

import "math"

// smallTableLimit bounds the static primality table: 2*3*5*7.
const smallTableLimit = 210

// smallPrimeTable gives O(1) verdicts for n < 210. Built once at startup by
// plain cross-off; used by helpers and point-query fast paths, not by the
// sieve itself.
var smallPrimeTable [smallTableLimit]bool

func init() {
	for i := 2; i < smallTableLimit; i++ {
		smallPrimeTable[i] = true
	}
	for i := 2; i*i < smallTableLimit; i++ {
		if !smallPrimeTable[i] {
			continue
		}
		for j := i * i; j < smallTableLimit; j += i {
			smallPrimeTable[j] = false
		}
	}
}

// IsSmallPrime reports whether n is prime, for n < 210 only. Larger n report
// false; callers wanting full coverage go through a Sieve or Cache.
func IsSmallPrime(n uint64) bool {
	return n < smallTableLimit && smallPrimeTable[n]
}

// UpperBoundPrimeCount returns a value >= pi(n), the number of primes <= n.
//
// For n > 54 it evaluates the heuristic
//
//	exp(0.3125*(1/(ln n - 4))^1.655 + ln n - ln(ln n - 1)) - 4
//
// which is about 0.008% above pi(n) for n > 5e8. The raw expression diverges
// as ln n approaches 4, so the result is clamped to n, which is always a
// valid (if loose) bound. For n <= 54 the exact count comes from the small
// table.
func UpperBoundPrimeCount(n uint64) uint64 {
	if n < 2 {
		return 0
	}
	if n <= 54 {
		var count uint64
		for i := uint64(2); i <= n; i++ {
			if smallPrimeTable[i] {
				count++
			}
		}
		return count
	}

	ln := math.Log(float64(n))
	est := math.Exp(0.3125*math.Pow(1/(ln-4), 1.655)+ln-math.Log(ln-1)) - 4
	if !(est < float64(n)) { // catches +Inf and NaN as well
		return n
	}
	return uint64(math.Ceil(est))
}
