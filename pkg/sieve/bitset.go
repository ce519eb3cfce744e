package sieve

import "math/bits"

// BitSet is a dense bit set over uint64 indexes, one bit per integer. The
// sieve uses it as the output structure: bit n is set iff n is prime. It does
// not grow; the sieve sizes it to max_value+1 bits up front.
type BitSet struct {
	words []uint64
}

// NewBitSet returns a bit set able to hold indexes 0..max inclusive.
func NewBitSet(max uint64) *BitSet {
	return &BitSet{
		words: make([]uint64, (max>>6)+1), // >> 6 == / 64
	}
}

// Add sets bit n. n must be within the capacity given to NewBitSet.
func (bs *BitSet) Add(n uint64) {
	bs.words[n>>6] |= 1 << (n & 63)
}

// Has reports whether bit n is set. Out-of-range indexes are simply absent.
func (bs *BitSet) Has(n uint64) bool {
	w := n >> 6
	if w >= uint64(len(bs.words)) {
		return false
	}
	return bs.words[w]&(1<<(n&63)) != 0
}

// Count returns the number of set bits, using the dispatched popcount kernel.
func (bs *BitSet) Count() uint64 {
	return popcountWords(bs.words)
}

// NextSet returns the smallest set bit >= from, or ok=false when none exists.
func (bs *BitSet) NextSet(from uint64) (n uint64, ok bool) {
	w := from >> 6
	if w >= uint64(len(bs.words)) {
		return 0, false
	}
	word := bs.words[w] & (^uint64(0) << (from & 63))
	for {
		if word != 0 {
			return w<<6 + uint64(bits.TrailingZeros64(word)), true
		}
		w++
		if w >= uint64(len(bs.words)) {
			return 0, false
		}
		word = bs.words[w]
	}
}
