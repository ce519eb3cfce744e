package sieve

import (
	"fmt"
	"sort"
	"sync"
)

// smallPrimes holds the primes a wheel can absorb plus the first prime that
// follows each supported compression level.
var smallPrimes = [...]uint64{2, 3, 5, 7, 11, 13, 17, 19, 23}

// Wheel holds the tables derived from a single compression level: the
// primorial P of the first C small primes, the first prime F not absorbed by
// the wheel, and the sorted residues row0 of [F, F+P) that are coprime to P.
// Every integer >= F that is coprime to the first C primes is row*P + row0[col]
// for exactly one (row, col).
type Wheel struct {
	compression      int
	primorial        uint64   // P, product of the first C primes
	firstPrime       uint64   // F, the (C+1)-th prime
	repeat           int      // R = phi(P), entries per row
	row0             []uint64 // sorted coprime residues in [F, F+P)
	offsetMultiplier uint64   // keeps offset - row0[col] non-negative in the row-0 sweep
}

var (
	wheelMu sync.RWMutex
	wheels  = make(map[int]*Wheel)
)

// wheelFor returns the cached wheel for a compression level, generating it on
// first use. Tables are generated at runtime once per process; they depend
// only on the compression.
func wheelFor(compression int) (*Wheel, error) {
	if compression < 1 || compression >= len(smallPrimes) {
		return nil, fmt.Errorf("sieve: unsupported compression %d (want 1..%d)", compression, len(smallPrimes)-1)
	}

	wheelMu.RLock()
	w, ok := wheels[compression]
	wheelMu.RUnlock()
	if ok {
		return w, nil
	}

	wheelMu.Lock()
	defer wheelMu.Unlock()
	if w, ok = wheels[compression]; ok {
		return w, nil
	}
	w = newWheel(compression)
	wheels[compression] = w
	return w, nil
}

// newWheel generates the tables for one compression level.
func newWheel(compression int) *Wheel {
	primorial := uint64(1)
	repeat := 1
	for _, p := range smallPrimes[:compression] {
		primorial *= p
		repeat *= int(p - 1) // phi of a squarefree product
	}
	first := smallPrimes[compression]

	// Scan odd integers from F upward and keep those not divisible by any
	// absorbed prime but 2 (the step of 2 skips even numbers). The window
	// [F, F+P) is one full period, so exactly phi(P) residues survive.
	row0 := make([]uint64, 0, repeat)
	for x := first; len(row0) < repeat; x += 2 {
		if x >= first+primorial {
			panic(fmt.Sprintf("sieve: wheel residue miscount for compression %d", compression))
		}
		coprime := true
		for _, p := range smallPrimes[1:compression] {
			if x%p == 0 {
				coprime = false
				break
			}
		}
		if coprime {
			row0 = append(row0, x)
		}
	}

	// Any multiple of p that is >= row0[R-1] works as the row-0 sweep offset.
	// ceil((row0[R-1]+1)/F) * p >= row0[R-1]+1 for every p >= F.
	last := row0[repeat-1]
	multiplier := (last + first) / first

	return &Wheel{
		compression:      compression,
		primorial:        primorial,
		firstPrime:       first,
		repeat:           repeat,
		row0:             row0,
		offsetMultiplier: multiplier,
	}
}

// Compression returns the number of small primes absorbed by the wheel.
func (w *Wheel) Compression() int { return w.compression }

// Primorial returns P, the product of the absorbed primes.
func (w *Wheel) Primorial() uint64 { return w.primorial }

// FirstPrime returns F, the smallest prime the grid represents.
func (w *Wheel) FirstPrime() uint64 { return w.firstPrime }

// Repeat returns R, the number of grid columns.
func (w *Wheel) Repeat() int { return w.repeat }

// MinValue returns the smallest max_value the sieve accepts for this wheel:
// the grid must reach at least the second row.
func (w *Wheel) MinValue() uint64 { return w.firstPrime + w.primorial }

// RowColumnToPrime decodes grid coordinates back to the integer they encode.
func (w *Wheel) RowColumnToPrime(row uint64, col int) uint64 {
	return row*w.primorial + w.row0[col]
}

// RowColumn is the inverse of RowColumnToPrime. ok is false when n is not a
// grid candidate (n < F or n shares a factor with the primorial).
func (w *Wheel) RowColumn(n uint64) (row uint64, col int, ok bool) {
	if n < w.firstPrime {
		return 0, 0, false
	}
	row = (n - w.firstPrime) / w.primorial
	residue := n - row*w.primorial
	col = sort.Search(w.repeat, func(i int) bool { return w.row0[i] >= residue })
	if col == w.repeat || w.row0[col] != residue {
		return 0, 0, false
	}
	return row, col, true
}

// ModularInverse returns a^-1 mod p via the extended Euclidean algorithm.
// p must be prime and a must not be a multiple of p.
func ModularInverse(a, p uint64) uint64 {
	t, newT := int64(0), int64(1)
	r, newR := int64(p), int64(a%p)
	for newR != 0 {
		q := r / newR
		t, newT = newT, t-q*newT
		r, newR = newR, r-q*newR
	}
	if t < 0 {
		t += int64(p)
	}
	return uint64(t)
}
