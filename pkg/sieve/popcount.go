package sieve

import "math/bits"

// popcountFunc counts the set bits across a word slice.
type popcountFunc func([]uint64) uint64

// popcountWords is the active kernel. The pure-Go version is the default;
// builds with the avo tag may swap in the generated POPCNT routine (see
// popcount_avo_amd64.go).
var popcountWords popcountFunc = popcountGo

func popcountGo(words []uint64) uint64 {
	var n uint64
	for _, w := range words {
		n += uint64(bits.OnesCount64(w))
	}
	return n
}
