// Package sieve implements a wheel-factorized prime sieve that enumerates
// every prime up to a bound of roughly 4e9.
//
// Candidates are held in a compact grid bitmap from which the first C small
// primes (the compression) are factored out: column col of row row encodes
// the integer row*P + row0[col], where P is the primorial of the absorbed
// primes and row0 the residues of one wheel turn. Composites are crossed off
// one prime at a time, jumping straight to the first multiple inside each
// column with a modular inverse. The surviving bits are transferred to a
// dense bitset indexed by the integer itself, which backs the streaming and
// materialization methods.
//
// Basic usage:
//
//	s, err := sieve.New(1_000_000)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for {
//	    p, err := s.NextPrime()
//	    if err != nil {
//	        break // sieve.ErrOutOfRange: stream exhausted
//	    }
//	    use(p)
//	}
package sieve

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/bits"
	"sort"
	"strconv"
	"time"

	"github.com/sanonone/primegrid/pkg/metrics"
)

// DefaultCompression is the production configuration: the wheel absorbs
// 2*3*5*7*11*13, giving R = 5760 columns, exactly 90 uint64 words per row.
const DefaultCompression = 6

var (
	// ErrAllocation signals that the grid bitmap or the output bitset would
	// exceed addressable memory.
	ErrAllocation = errors.New("sieve: allocation exceeds addressable memory")

	// ErrOutOfRange signals that the prime stream has passed max_value.
	ErrOutOfRange = errors.New("sieve: prime stream exhausted")
)

// Word constrains the grid word type. The wheel and word must pair so that a
// row is a whole number of words: phi(P) % bits(W) == 0.
type Word interface {
	~uint8 | ~uint16 | ~uint32 | ~uint64
}

// wordBits returns the width of W in bits.
func wordBits[W Word]() int {
	return bits.OnesCount64(uint64(^W(0)))
}

// Sieve enumerates the primes up to a fixed bound. Construction runs the full
// cross-off; afterwards the sieve is read-only except for the stream cursor.
// Concurrent readers are fine as long as no goroutine uses the cursor methods
// (Reset, NextPrime, MakeVector).
type Sieve[W Word] struct {
	wheel       *Wheel
	maxValue    uint64
	rows        uint64 // grid rows, enough to cover max_value
	wordsPerRow int
	wordWidth   int

	// grid is the cross-off bitmap, stored column-major by word-column: flat
	// index i lives at (row = i % rows, wordColumn = i / rows), so stepping a
	// column by one row moves one flat index and the cross-off inner loop
	// strides by exactly p. Released once construction finishes.
	grid []W

	primes *BitSet // bit n set iff n is prime; outlives the grid
	cursor uint64
}

// New builds a sieve over [2, maxValue] in the default configuration
// (compression 6, 64-bit words). maxValue must be at least 30047 there; use
// NewCompressed with a smaller wheel for smaller bounds.
func New(maxValue uint64) (*Sieve[uint64], error) {
	return NewCompressed[uint64](maxValue, DefaultCompression)
}

// NewCompressed builds a sieve with an explicit compression level and word
// type. The pairing must leave no tail bits in a row: compressions 3, 4 and 5
// fit uint8 words (R = 8, 48, 480), compressions 6 and 7 fit uint64 words
// (R = 5760, 92160). maxValue must be at least F+P for the chosen wheel.
func NewCompressed[W Word](maxValue uint64, compression int) (*Sieve[W], error) {
	wheel, err := wheelFor(compression)
	if err != nil {
		return nil, err
	}
	if maxValue < wheel.MinValue() {
		return nil, fmt.Errorf("sieve: max value %d below minimum %d for compression %d",
			maxValue, wheel.MinValue(), compression)
	}

	width := wordBits[W]()
	if wheel.repeat%width != 0 {
		return nil, fmt.Errorf("sieve: %d-bit words leave tail bits in a %d-column row (compression %d)",
			width, wheel.repeat, compression)
	}

	if maxValue > math.MaxUint64-wheel.primorial {
		return nil, ErrAllocation
	}
	rows := (maxValue-wheel.firstPrime+wheel.primorial-1)/wheel.primorial + 1
	wordsPerRow := wheel.repeat / width
	if rows > uint64(math.MaxInt)/uint64(wordsPerRow) || maxValue>>6 >= uint64(math.MaxInt) {
		return nil, ErrAllocation
	}

	s := &Sieve[W]{
		wheel:       wheel,
		maxValue:    maxValue,
		rows:        rows,
		wordsPerRow: wordsPerRow,
		wordWidth:   width,
		grid:        make([]W, rows*uint64(wordsPerRow)),
		primes:      NewBitSet(maxValue),
	}
	for i := range s.grid {
		s.grid[i] = ^W(0)
	}

	// The absorbed primes are not grid candidates; record them directly.
	for _, p := range smallPrimes[:compression] {
		s.primes.Add(p)
	}

	start := time.Now()
	s.sweepRowZero()
	s.sweepUpperRows()
	s.grid = nil

	elapsed := time.Since(start)
	label := strconv.Itoa(compression)
	metrics.BuildDuration.WithLabelValues(label).Observe(elapsed.Seconds())
	metrics.PrimesFound.WithLabelValues(label).Set(float64(s.primes.Count()))
	metrics.GridBytes.WithLabelValues(label).Set(float64(rows * uint64(wordsPerRow) * uint64(width/8)))
	slog.Debug("sieve built",
		"compression", compression,
		"max_value", maxValue,
		"rows", rows,
		"duration", elapsed)

	return s, nil
}

// MaxValue returns the inclusive bound the sieve was built for.
func (s *Sieve[W]) MaxValue() uint64 { return s.maxValue }

// Wheel returns the wheel tables the sieve was built with.
func (s *Sieve[W]) Wheel() *Wheel { return s.wheel }

// IsPrime reports whether n is prime. n must not exceed MaxValue; larger
// values report false.
func (s *Sieve[W]) IsPrime(n uint64) bool {
	return n <= s.maxValue && s.primes.Has(n)
}

// Count returns pi(max_value), the number of primes the sieve holds.
func (s *Sieve[W]) Count() uint64 {
	return s.primes.Count()
}

// sweepRowZero scans row 0 left to right. Every surviving bit there is a
// prime in [F, F+P); each is recorded and its multiples crossed off. Bits in
// row 0 can be cleared by earlier primes of the same row (e.g. 121 by 11), so
// the word is re-read for every column.
func (s *Sieve[W]) sweepRowZero() {
	width := s.wordWidth
	for col := 0; col < s.wheel.repeat; col++ {
		flat := uint64(col/width) * s.rows
		if s.grid[flat]&(W(1)<<(col%width)) == 0 {
			continue
		}
		p := s.wheel.row0[col]
		s.primes.Add(p)
		s.crossOff(p, s.wheel.offsetMultiplier*p)
	}
}

// sweepUpperRows handles rows >= 1 in row-major order: every surviving bit is
// a prime; primes up to sqrt(max_value) also cross off their multiples, and
// once the guard fires the remaining bits are only collected. The walk stops
// at the largest candidate <= max_value, which may sit partway through the
// final row.
func (s *Sieve[W]) sweepUpperRows() {
	limit := isqrt(s.maxValue)
	lastRow, lastCol := s.lastCandidate()
	width := s.wordWidth
	crossing := true

	for row := uint64(1); row <= lastRow; row++ {
		maxCol := s.wheel.repeat - 1
		if row == lastRow {
			maxCol = lastCol
		}
		for wc := 0; wc <= maxCol/width; wc++ {
			// A cross-off from this row never lands back in it: the next
			// multiple of p > P is at least 2p, beyond row's end. Caching the
			// word is safe here, unlike in row 0.
			word := s.grid[uint64(wc)*s.rows+row]
			if word == 0 {
				continue
			}
			for b := 0; b < width; b++ {
				col := wc*width + b
				if col > maxCol {
					break
				}
				if word&(W(1)<<b) == 0 {
					continue
				}
				p := s.wheel.RowColumnToPrime(row, col)
				s.primes.Add(p)
				if crossing {
					if p > limit {
						crossing = false
					} else {
						s.crossOff(p, p)
					}
				}
			}
		}
	}
}

// crossOff clears every multiple of p from the grid. offset is any multiple
// of p that is at least row0[R-1], so offset-row0[c] stays non-negative: the
// row-0 sweep passes offsetMultiplier*p, the upper sweep p itself (p > P
// there, hence p > row0[R-1]). For each column the first affected row is
// ((offset - row0[c]) * P^-1) mod p; from there multiples sit exactly p flat
// indexes apart within the column's word-column. The product is carried out
// in uint64: it exceeds 32 bits from compression 6 on.
func (s *Sieve[W]) crossOff(p, offset uint64) {
	inv := ModularInverse(s.wheel.primorial%p, p)
	width := s.wordWidth
	for c := 0; c < s.wheel.repeat; c++ {
		first := (offset - s.wheel.row0[c]) % p * inv % p
		colBase := uint64(c/width) * s.rows
		end := colBase + s.rows
		mask := ^(W(1) << (c % width))
		for flat := colBase + first; flat < end; flat += p {
			s.grid[flat] &= mask
		}
	}
}

// lastCandidate locates the grid position of the largest candidate that does
// not exceed max_value, which may sit partway through the final row. The
// residue max_value - row*P is always in [F, F+P), so the search cannot come
// up empty.
func (s *Sieve[W]) lastCandidate() (row uint64, col int) {
	row = (s.maxValue - s.wheel.firstPrime) / s.wheel.primorial
	residue := s.maxValue - row*s.wheel.primorial
	col = sort.Search(s.wheel.repeat, func(i int) bool { return s.wheel.row0[i] > residue }) - 1
	return row, col
}

// isqrt returns floor(sqrt(n)) exactly, fixing up float rounding.
func isqrt(n uint64) uint64 {
	r := uint64(math.Sqrt(float64(n)))
	for r > 0 && r*r > n {
		r--
	}
	for (r+1)*(r+1) <= n {
		r++
	}
	return r
}
