package sieve

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"
)

// writeReference produces a file in the reference format: a native-endian
// uint64 count followed by the primes as uint32 values.
func writeReference(t *testing.T, primes []uint32) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "primes_reference")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	if err := binary.Write(f, binary.NativeEndian, uint64(len(primes))); err != nil {
		t.Fatal(err)
	}
	if err := binary.Write(f, binary.NativeEndian, primes); err != nil {
		t.Fatal(err)
	}
	return path
}

func referencePrimes(t *testing.T, max uint64) []uint32 {
	t.Helper()
	wide := naivePrimes(max)
	ref := make([]uint32, len(wide))
	for i, p := range wide {
		ref[i] = uint32(p)
	}
	return ref
}

func TestLoadReferenceRoundTrip(t *testing.T) {
	want := referencePrimes(t, 10_000)
	path := writeReference(t, want)

	got, err := LoadReference(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != len(want) {
		t.Fatalf("loaded %d primes, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("entry %d = %d, want %d", i, got[i], want[i])
		}
	}
}

func TestVerifyAgainst(t *testing.T) {
	ref := referencePrimes(t, 10_000)
	s, err := NewCompressed[uint8](10_000, 3)
	if err != nil {
		t.Fatal(err)
	}

	if err := s.VerifyAgainst(ref); err != nil {
		t.Errorf("verification against a correct reference failed: %v", err)
	}

	// A longer reference than the sieve's range is fine; trailing entries
	// are ignored.
	small, err := NewCompressed[uint8](1000, 3)
	if err != nil {
		t.Fatal(err)
	}
	if err := small.VerifyAgainst(ref); err != nil {
		t.Errorf("longer reference should verify: %v", err)
	}

	// A corrupted entry is reported.
	corrupt := make([]uint32, len(ref))
	copy(corrupt, ref)
	corrupt[100]++
	if err := s.VerifyAgainst(corrupt); err == nil {
		t.Error("corrupted reference should fail verification")
	}

	// A truncated reference is reported as well.
	if err := s.VerifyAgainst(ref[:100]); err == nil {
		t.Error("truncated reference should fail verification")
	}
}

func TestLoadReferenceRejectsGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bogus")
	if err := os.WriteFile(path, []byte{1, 2, 3}, 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadReference(path); err == nil {
		t.Error("short header should fail")
	}

	// A header that declares more primes than the cap.
	huge := make([]byte, 8)
	binary.NativeEndian.PutUint64(huge, 1<<40)
	if err := os.WriteFile(path, huge, 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadReference(path); err == nil {
		t.Error("oversized count should fail")
	}
}
