package sieve

import "gonum.org/v1/gonum/stat"

// GapStats summarizes the gaps between consecutive primes of a built sieve.
type GapStats struct {
	// Samples is the number of gaps, pi(max_value) - 1.
	Samples int
	// Mean and StdDev describe the gap distribution.
	Mean   float64
	StdDev float64
	// Max is the largest gap observed.
	Max uint64
}

// GapStats walks the primes once and reports gap statistics. It does not
// touch the stream cursor and is safe to call from concurrent readers.
func (s *Sieve[W]) GapStats() GapStats {
	capacity := uint64(18)
	if s.maxValue > 54 {
		capacity = UpperBoundPrimeCount(s.maxValue)
	}
	gaps := make([]float64, 0, capacity)

	var res GapStats
	var prev uint64
	s.each(func(p uint64) bool {
		if prev != 0 {
			gap := p - prev
			gaps = append(gaps, float64(gap))
			if gap > res.Max {
				res.Max = gap
			}
		}
		prev = p
		return true
	})

	res.Samples = len(gaps)
	if res.Samples > 0 {
		res.Mean = stat.Mean(gaps, nil)
	}
	if res.Samples > 1 {
		res.StdDev = stat.StdDev(gaps, nil)
	}
	return res
}
