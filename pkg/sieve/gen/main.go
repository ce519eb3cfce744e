package main

import (
	. "github.com/mmcloughlin/avo/build"
	. "github.com/mmcloughlin/avo/operand"
)

func main() {
	TEXT("popcountWordsAsm", NOSPLIT, "func(words []uint64) uint64")
	Pragma("noescape")
	Doc("popcountWordsAsm counts the set bits in words using the POPCNT instruction.")
	generatePopcount()
	Generate()
}

func generatePopcount() {
	ptr := Load(Param("words").Base(), GP64())
	n := Load(Param("words").Len(), GP64())

	sum := GP64()
	XORQ(sum, sum)
	word := GP64()

	Label("loop_popcount")
	CMPQ(n, Imm(0))
	JE(LabelRef("done_popcount"))

	POPCNTQ(Mem{Base: ptr}, word)
	ADDQ(word, sum)

	ADDQ(Imm(8), ptr)
	DECQ(n)
	JMP(LabelRef("loop_popcount"))

	Label("done_popcount")
	Store(sum, ReturnIndex(0))
	RET()
}
