//go:build avo && amd64

package sieve

import (
	"log/slog"

	"github.com/klauspost/cpuid/v2"
)

// popcountWordsAsm is generated from the avo program in ./gen.
//
//go:generate go run ./gen -stubs ./popcount_stubs_amd64.go -out ./popcount_amd64.s

func init() {
	if cpuid.CPU.Has(cpuid.POPCNT) {
		slog.Debug("primegrid compute: using POPCNT bit-count kernel")
		popcountWords = popcountWordsAsm
	}
}
