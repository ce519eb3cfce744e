package sieve

// Reset moves the stream cursor back to the beginning.
func (s *Sieve[W]) Reset() { s.cursor = 0 }

// NextPrime returns the next prime at or after the cursor and advances it.
// Primes come out in strictly increasing natural order. Once the cursor
// passes max_value every call returns ErrOutOfRange until Reset.
func (s *Sieve[W]) NextPrime() (uint64, error) {
	if s.cursor > s.maxValue {
		return 0, ErrOutOfRange
	}
	n, ok := s.primes.NextSet(s.cursor)
	if !ok || n > s.maxValue {
		s.cursor = s.maxValue + 1
		return 0, ErrOutOfRange
	}
	s.cursor = n + 1
	return n, nil
}

// MakeVector materializes every prime <= max_value in ascending order. The
// slice is pre-sized with UpperBoundPrimeCount so it never reallocates.
// MakeVector drives the stream cursor and leaves it reset.
func (s *Sieve[W]) MakeVector() []uint64 {
	capacity := uint64(18) // pi(54); the bound formula needs n > 54
	if s.maxValue > 54 {
		capacity = UpperBoundPrimeCount(s.maxValue)
	}

	out := make([]uint64, 0, capacity)
	s.Reset()
	for {
		p, err := s.NextPrime()
		if err != nil {
			break // ErrOutOfRange is the normal termination signal
		}
		out = append(out, p)
	}
	s.Reset()
	return out
}

// each calls fn for every prime in ascending order without disturbing the
// stream cursor. fn returning false stops the walk.
func (s *Sieve[W]) each(fn func(p uint64) bool) {
	for n, ok := s.primes.NextSet(0); ok && n <= s.maxValue; n, ok = s.primes.NextSet(n + 1) {
		if !fn(n) {
			return
		}
	}
}
