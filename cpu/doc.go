// Package cpu implements the flip-jump processor.
//
// Every step reads two words at the instruction pointer: a bit address to
// flip, and an address to jump to. Memory is a sparse map of words addressed
// by bit, backed by lazily-zeroed ranges. Two reserved bit addresses at 2w and
// 2w+1 write output bits, and one bit in the word at 3w reads input bits.
//
// The processor is generic over the word type, one of uint8, uint16, uint32 or
// uint64; all addresses and values wrap at that width.
package cpu
