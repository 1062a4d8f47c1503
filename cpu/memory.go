package cpu

import (
	log "github.com/sirupsen/logrus"

	"github.com/ezrec/flipjump/fjm"
	"github.com/ezrec/flipjump/io"
)

// ZeroRange is a half-open range of word indexes that read as zero until
// first touched.
type ZeroRange struct {
	Start uint64
	End   uint64
}

// Contains reports whether a word index lies in the range.
func (zr ZeroRange) Contains(index uint64) bool {
	return zr.Start <= index && index < zr.End
}

// Memory is a sparse, bit-addressed memory of W words.
//
// Words that were loaded, zero-filled or touched are held in a map. Large
// zero-filled spans are kept as ranges and only materialize a word when it is
// first read or flipped. The ranges never change after Load.
type Memory[W Word] struct {
	Verbose  bool // If set, enables verbose logging.
	ZeroInit bool // If set, every unmapped word reads as zero.

	IO io.Channel // Backing stream for the reserved I/O addresses.

	words map[W]W
	zeros []ZeroRange

	w        W
	inputBit W
	inputSet W
}

// NewMemory creates an empty memory.
func NewMemory[W Word](zeroInit bool, channel io.Channel) (mem *Memory[W]) {
	mem = &Memory[W]{
		ZeroInit: zeroInit,
		IO:       channel,
		words:    make(map[W]W),
		w:        Width[W](),
		inputBit: InputBit[W](),
	}
	mem.inputSet = W(1) << InputOffset[W]()
	return
}

// Load places an image's segments, in file order. Zero spans of up to
// threshold words are written out; longer ones become ZeroRanges.
func (mem *Memory[W]) Load(img *fjm.Image, threshold uint64) (err error) {
	if uint64(img.Width) != uint64(mem.w) {
		err = &fjm.ErrHeader{Field: "width", Value: uint64(img.Width), Err: fjm.ErrUnsupportedWordWidth}
		return
	}

	err = img.Validate()
	if err != nil {
		return
	}

	for index, value := range img.Words() {
		mem.words[W(index)] = W(value)
	}

	for start, end := range img.ZeroFill() {
		if end-start <= threshold {
			for index := start; index < end; index++ {
				mem.words[W(index)] = 0
			}
		} else {
			mem.zeros = append(mem.zeros, ZeroRange{Start: start, End: end})
		}
	}

	if mem.Verbose {
		log.Debugf("memory: %d words mapped, %d zero ranges", len(mem.words), len(mem.zeros))
	}

	return
}

// Len returns the number of mapped words.
func (mem *Memory[W]) Len() int {
	return len(mem.words)
}

// ZeroRanges returns the lazily-zeroed ranges.
func (mem *Memory[W]) ZeroRanges() []ZeroRange {
	return mem.zeros
}

// Peek returns a mapped word without materializing it.
func (mem *Memory[W]) Peek(index W) (value W, ok bool) {
	value, ok = mem.words[index]
	return
}

// unmapped materializes an unmapped word with an initial value, if the word
// is zero-initialized.
func (mem *Memory[W]) unmapped(addr W, index W, value W) (err error) {
	if !mem.ZeroInit && !mem.inZeroRange(index) {
		err = &ErrFault{Addr: uint64(addr), Err: ErrUninitializedAccess}
		return
	}
	mem.words[index] = value
	return
}

func (mem *Memory[W]) inZeroRange(index W) bool {
	for _, zr := range mem.zeros {
		if zr.Contains(uint64(index)) {
			return true
		}
	}
	return false
}

// ReadWord returns the word holding bit address addr.
func (mem *Memory[W]) ReadWord(addr W) (value W, err error) {
	index := addr / mem.w
	value, ok := mem.words[index]
	if ok {
		return
	}

	err = mem.unmapped(addr, index, 0)
	return
}

// ReadWordWithInput reads the word holding bit address addr. If that word
// holds the input bit, the bit is replaced by the next input bit.
func (mem *Memory[W]) ReadWordWithInput(addr W) (value W, err error) {
	value, err = mem.ReadWord(addr)
	if err != nil {
		return
	}

	if addr > mem.inputBit || mem.inputBit-addr >= mem.w {
		return
	}

	bit, err := mem.IO.Next()
	if err != nil {
		return
	}
	if bit {
		value |= mem.inputSet
	} else {
		value &^= mem.inputSet
	}

	return
}

// FlipBit flips the bit at addr. Flips of the two output addresses write an
// output bit instead.
func (mem *Memory[W]) FlipBit(addr W) (err error) {
	if addr >= 2*mem.w && addr <= 2*mem.w+1 {
		err = mem.IO.Send(addr == 2*mem.w+1)
		return
	}

	index := addr / mem.w
	mask := W(1) << (addr % mem.w)
	value, ok := mem.words[index]
	if ok {
		mem.words[index] = value ^ mask
		return
	}

	err = mem.unmapped(addr, index, mask)
	return
}
