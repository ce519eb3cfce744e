package sieve

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"
)

// maxReferencePrimes caps how many entries a reference file may declare.
// pi(4e9) is about 1.9e8, so 2^31 leaves slack while rejecting garbage
// headers.
const maxReferencePrimes = 1 << 31

// LoadReference reads a pre-computed prime list in the reference format: one
// native-endian uint64 count followed by count ascending uint32 primes. The
// file exists purely as a debug aid for VerifyAgainst.
func LoadReference(path string) ([]uint32, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open reference file: %w", err)
	}
	defer f.Close()

	r := bufio.NewReaderSize(f, 1<<20)

	var header [8]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return nil, fmt.Errorf("failed to read reference header: %w", err)
	}
	count := binary.NativeEndian.Uint64(header[:])
	if count > maxReferencePrimes {
		return nil, fmt.Errorf("reference header declares %d primes, refusing", count)
	}

	primes := make([]uint32, count)
	if err := binary.Read(r, binary.NativeEndian, primes); err != nil {
		return nil, fmt.Errorf("failed to read reference primes: %w", err)
	}
	return primes, nil
}

// VerifyAgainst replays the sieve's prime stream against a reference list
// and reports the first disagreement. The reference may extend beyond
// max_value; trailing entries are ignored. The stream cursor is untouched.
func (s *Sieve[W]) VerifyAgainst(ref []uint32) error {
	idx := 0
	var mismatch error
	s.each(func(p uint64) bool {
		if idx >= len(ref) {
			mismatch = fmt.Errorf("sieve produced %d past the reference list's %d entries", p, len(ref))
			return false
		}
		if want := uint64(ref[idx]); p != want {
			mismatch = fmt.Errorf("prime #%d mismatch: sieve produced %d, reference has %d", idx+1, p, want)
			return false
		}
		idx++
		return true
	})
	if mismatch != nil {
		return mismatch
	}
	if idx < len(ref) && uint64(ref[idx]) <= s.maxValue {
		return fmt.Errorf("sieve missed reference prime %d (entry #%d)", ref[idx], idx+1)
	}
	return nil
}
