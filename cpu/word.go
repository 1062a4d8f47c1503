package cpu

import (
	"math/bits"
)

// Word is the set of supported machine words.
type Word interface {
	~uint8 | ~uint16 | ~uint32 | ~uint64
}

// Width returns the bit width of W.
func Width[W Word]() W {
	return W(bits.OnesCount64(uint64(^W(0))))
}

// InputOffset returns the bit within word 3 that reads input: 4 for 8-bit
// words, up to 7 for 64-bit words.
func InputOffset[W Word]() W {
	return W(bits.TrailingZeros64(uint64(Width[W]())) + 1)
}

// InputBit returns the bit address that reads input.
func InputBit[W Word]() W {
	return 3*Width[W]() + InputOffset[W]()
}

// OutputBit returns the bit address whose flip outputs a 0 (value false) or
// a 1 (value true).
func OutputBit[W Word](value bool) W {
	if value {
		return 2*Width[W]() + 1
	}
	return 2 * Width[W]()
}
