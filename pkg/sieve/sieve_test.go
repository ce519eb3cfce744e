package sieve

import (
	"errors"
	"math"
	"slices"
	"testing"
)

// naivePrimes is the trivial bool-array sieve used as the reference oracle.
func naivePrimes(max uint64) []uint64 {
	composite := make([]bool, max+1)
	var primes []uint64
	for i := uint64(2); i <= max; i++ {
		if composite[i] {
			continue
		}
		primes = append(primes, i)
		for j := i * i; j <= max; j += i {
			composite[j] = true
		}
	}
	return primes
}

func TestSieveMatchesNaive(t *testing.T) {
	testCases := []struct {
		name        string
		compression int
		maxValue    uint64
		wide        bool // 64-bit words
	}{
		{name: "compression 3", compression: 3, maxValue: 50_000},
		{name: "compression 4", compression: 4, maxValue: 10_000},
		{name: "compression 5", compression: 5, maxValue: 25_000},
		{name: "compression 6", compression: 6, maxValue: 100_000, wide: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			want := naivePrimes(tc.maxValue)

			var got []uint64
			var count uint64
			if tc.wide {
				s, err := NewCompressed[uint64](tc.maxValue, tc.compression)
				if err != nil {
					t.Fatal(err)
				}
				got, count = s.MakeVector(), s.Count()
			} else {
				s, err := NewCompressed[uint8](tc.maxValue, tc.compression)
				if err != nil {
					t.Fatal(err)
				}
				got, count = s.MakeVector(), s.Count()
			}

			if !slices.Equal(got, want) {
				t.Fatalf("prime list diverges from reference: got %d primes, want %d", len(got), len(want))
			}
			if count != uint64(len(want)) {
				t.Errorf("Count() = %d, want %d", count, len(want))
			}
		})
	}
}

func TestSievePrimes100(t *testing.T) {
	s, err := NewCompressed[uint8](100, 3)
	if err != nil {
		t.Fatal(err)
	}
	primes := s.MakeVector()

	if len(primes) != 25 {
		t.Fatalf("pi(100) = %d, want 25", len(primes))
	}
	if !slices.Equal(primes[:3], []uint64{2, 3, 5}) {
		t.Errorf("first primes = %v, want [2 3 5]", primes[:3])
	}
	if !slices.Equal(primes[22:], []uint64{83, 89, 97}) {
		t.Errorf("last primes = %v, want [83 89 97]", primes[22:])
	}
}

func TestSievePrimes1000(t *testing.T) {
	s, err := NewCompressed[uint8](1000, 3)
	if err != nil {
		t.Fatal(err)
	}
	primes := s.MakeVector()

	if len(primes) != 168 {
		t.Fatalf("pi(1000) = %d, want 168", len(primes))
	}
	if !s.IsPrime(997) {
		t.Error("997 should be prime")
	}
	if s.IsPrime(999) {
		t.Error("999 should not be prime")
	}
}

func TestSieveMillion(t *testing.T) {
	s, err := New(1_000_000)
	if err != nil {
		t.Fatal(err)
	}
	if got := s.Count(); got != 78498 {
		t.Fatalf("pi(1e6) = %d, want 78498", got)
	}
}

func TestSieveBoundaries(t *testing.T) {
	// Minimum bound: max_value = F + P = 37 for compression 3. 37 itself is
	// prime and must be included.
	s, err := NewCompressed[uint8](37, 3)
	if err != nil {
		t.Fatal(err)
	}
	want := []uint64{2, 3, 5, 7, 11, 13, 17, 19, 23, 29, 31, 37}
	if got := s.MakeVector(); !slices.Equal(got, want) {
		t.Errorf("primes at minimum bound = %v, want %v", got, want)
	}

	// One below the minimum is a precondition violation.
	if _, err := NewCompressed[uint8](36, 3); err == nil {
		t.Error("max value below F+P should be rejected")
	}

	// A composite bound stops at the largest smaller prime.
	s, err = NewCompressed[uint8](100, 3)
	if err != nil {
		t.Fatal(err)
	}
	primes := s.MakeVector()
	if primes[len(primes)-1] != 97 {
		t.Errorf("largest prime <= 100 = %d, want 97", primes[len(primes)-1])
	}

	// A prime bound includes itself.
	s, err = NewCompressed[uint8](97, 3)
	if err != nil {
		t.Fatal(err)
	}
	primes = s.MakeVector()
	if primes[len(primes)-1] != 97 {
		t.Errorf("largest prime <= 97 = %d, want 97", primes[len(primes)-1])
	}
}

func TestSieveRejectsMismatchedWords(t *testing.T) {
	// Compression 3 has R = 8 columns; a 64-bit word leaves 56 tail bits.
	if _, err := NewCompressed[uint64](100_000, 3); err == nil {
		t.Error("compression 3 on uint64 words should be rejected")
	}
	// Compression 4 has R = 48 columns; 48 % 32 != 0.
	if _, err := NewCompressed[uint32](100_000, 4); err == nil {
		t.Error("compression 4 on uint32 words should be rejected")
	}
}

func TestSieveTrialDivision(t *testing.T) {
	s, err := NewCompressed[uint8](50_000, 4)
	if err != nil {
		t.Fatal(err)
	}
	s.each(func(p uint64) bool {
		for d := uint64(2); d*d <= p; d++ {
			if p%d == 0 {
				t.Fatalf("sieve produced composite %d (divisible by %d)", p, d)
			}
		}
		return true
	})
}

func TestGapStats(t *testing.T) {
	s, err := NewCompressed[uint8](1000, 3)
	if err != nil {
		t.Fatal(err)
	}
	stats := s.GapStats()

	if stats.Samples != 167 {
		t.Errorf("Samples = %d, want 167", stats.Samples)
	}
	// Largest gap below 1000 is 887 -> 907.
	if stats.Max != 20 {
		t.Errorf("Max = %d, want 20", stats.Max)
	}
	wantMean := float64(997-2) / 167
	if math.Abs(stats.Mean-wantMean) > 1e-9 {
		t.Errorf("Mean = %v, want %v", stats.Mean, wantMean)
	}
	if stats.StdDev <= 0 {
		t.Errorf("StdDev = %v, want > 0", stats.StdDev)
	}
}

func TestAllocationGuard(t *testing.T) {
	if _, err := New(math.MaxUint64 - 1); !errors.Is(err, ErrAllocation) {
		t.Errorf("absurd max value: err = %v, want ErrAllocation", err)
	}
}
