// Package asm is a minimal flip-jump assembler.
//
// Each source line holds at most one item:
//
//	label:                  ; define a label at the next word
//	flip ; jump             ; an instruction, two words
//	flip                    ; jump defaults to the next instruction
//	.word expr              ; one data word
//	.reserve count          ; count zero words
//	.org addr               ; continue in a new segment at a bit address
//	                        ; aligned to an instruction (two words)
//	.equ NAME expr          ; define a constant
//
// Operands are Starlark expressions over labels, constants, w (the word
// width), here (the bit address of the current item) and the I/O addresses
// OUT0, OUT1 and IN. Text after '#' is a comment.
package asm

import (
	"bufio"
	"io"
	"regexp"
	"slices"
	"strings"

	log "github.com/sirupsen/logrus"
	"go.starlark.net/starlark"
	"go.starlark.net/syntax"

	"github.com/ezrec/flipjump/fjm"
)

var reLabel = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_.]*$`)

type itemKind int

const (
	itemOp itemKind = iota
	itemWord
	itemReserve
)

// item is a placed piece of the program.
type item struct {
	kind   itemKind
	lineNo int
	line   string
	word   uint64
	count  uint64
	exprs  []string
}

// segment is a run of consecutive items.
type segment struct {
	start uint64 // Word index.
	items []item
}

// Assembler is a two pass assembler producing a flip-jump image.
type Assembler struct {
	Verbose bool   // If set, verbosely logs the assembler actions.
	Width   uint16 // Word width in bits, 8 to 64.
	Version uint64 // Image version to produce.

	Label  map[string]uint64 // Map of labels to bit addresses.
	Equate map[string]uint64 // Map of constants.

	segments []segment
	cursor   uint64 // Next word index.
	pending  []string
}

func (asm *Assembler) w() uint64 {
	return uint64(asm.Width)
}

func (asm *Assembler) mask() uint64 {
	return ^uint64(0) >> (64 - asm.w())
}

// predefined returns the builtin names.
func (asm *Assembler) predefined() map[string]uint64 {
	w := asm.w()
	var offset uint64
	for n := w; n > 1; n >>= 1 {
		offset++
	}
	return map[string]uint64{
		"w":    w,
		"OUT0": 2 * w,
		"OUT1": 2*w + 1,
		"IN":   3*w + offset + 1,
	}
}

// eval evaluates an operand with the given names in scope.
func (asm *Assembler) eval(expr string, here uint64, names ...map[string]uint64) (value uint64, err error) {
	thread := starlark.Thread{}
	opts := syntax.FileOptions{}
	pred := starlark.StringDict{}
	for key, value := range asm.predefined() {
		pred[key] = starlark.MakeUint64(value)
	}
	pred["here"] = starlark.MakeUint64(here)
	for _, dict := range names {
		for key, value := range dict {
			pred[key] = starlark.MakeUint64(value)
		}
	}

	prog := "rc=" + expr + "\n"
	dict, err := starlark.ExecFileOptions(&opts, &thread, "expr", prog, pred)
	if err != nil {
		err = ErrParseExpression{Expr: expr, Err: err}
		return
	}
	st_int, ok := dict["rc"].(starlark.Int)
	if !ok {
		err = ErrParseExpression{Expr: expr}
		return
	}
	if u, ok := st_int.Uint64(); ok {
		value = u
	} else if i, ok := st_int.Int64(); ok {
		value = uint64(i)
	} else {
		err = ErrParseExpression{Expr: expr}
		return
	}

	value &= asm.mask()
	return
}

// place records an item at the cursor, binding pending labels to it.
func (asm *Assembler) place(it item, words uint64) {
	if len(asm.segments) == 0 {
		asm.segments = append(asm.segments, segment{start: asm.cursor})
	}
	it.word = asm.cursor
	for _, label := range asm.pending {
		asm.Label[label] = asm.cursor * asm.w()
	}
	asm.pending = nil

	seg := &asm.segments[len(asm.segments)-1]
	seg.items = append(seg.items, it)
	asm.cursor += words
}

// pad skips one zero word to align an instruction; pending labels stay
// queued for the instruction.
func (asm *Assembler) pad() {
	pending := asm.pending
	asm.pending = nil
	asm.place(item{kind: itemReserve, count: 1}, 1)
	asm.pending = pending
}

// define queues a label for the next placed item.
func (asm *Assembler) define(label string) (err error) {
	if !reLabel.MatchString(label) {
		err = ErrLabelInvalid
		return
	}
	_, defined := asm.Label[label]
	if defined || slices.Contains(asm.pending, label) {
		err = ErrLabelDuplicate
		return
	}
	asm.pending = append(asm.pending, label)
	return
}

// parseLine handles one source line of the first pass.
func (asm *Assembler) parseLine(line string, lineno int) (err error) {
	if idx := strings.IndexByte(line, '#'); idx >= 0 {
		line = line[:idx]
	}
	line = strings.TrimSpace(line)

	// Leading labels.
	for {
		idx := strings.IndexByte(line, ':')
		if idx < 0 {
			break
		}
		label := strings.TrimSpace(line[:idx])
		if !reLabel.MatchString(label) {
			break
		}
		err = asm.define(label)
		if err != nil {
			return
		}
		line = strings.TrimSpace(line[idx+1:])
	}

	if len(line) == 0 {
		return
	}

	it := item{lineNo: lineno, line: line}

	if !strings.HasPrefix(line, ".") {
		ops := strings.Split(line, ";")
		if len(ops) > 2 {
			err = ErrOperandsExtra
			return
		}
		for _, op := range ops {
			it.exprs = append(it.exprs, strings.TrimSpace(op))
		}
		it.kind = itemOp
		if asm.cursor%2 == 1 {
			asm.pad()
		}
		asm.place(it, 2)
		return
	}

	directive, arg, _ := strings.Cut(line, " ")
	arg = strings.TrimSpace(arg)
	switch directive {
	case ".word":
		it.kind = itemWord
		it.exprs = []string{arg}
		asm.place(it, 1)
	case ".reserve":
		it.kind = itemReserve
		it.count, err = asm.eval(arg, asm.cursor*asm.w(), asm.Equate)
		if err != nil {
			return
		}
		asm.place(it, it.count)
	case ".org":
		var addr uint64
		addr, err = asm.eval(arg, asm.cursor*asm.w(), asm.Equate)
		if err != nil {
			return
		}
		if addr%(2*asm.w()) != 0 {
			err = ErrOrgAlignment
			return
		}
		asm.cursor = addr / asm.w()
		asm.segments = append(asm.segments, segment{start: asm.cursor})
	case ".equ":
		name, expr, ok := strings.Cut(arg, " ")
		if !ok || !reLabel.MatchString(name) {
			err = ErrEquateSyntax
			return
		}
		if _, defined := asm.Equate[name]; defined {
			err = ErrEquateDuplicate
			return
		}
		asm.Equate[name], err = asm.eval(strings.TrimSpace(expr), asm.cursor*asm.w(), asm.Equate)
	default:
		err = ErrDirectiveInvalid
	}

	return
}

// resolve evaluates an item's words in the second pass.
func (asm *Assembler) resolve(it item) (words []uint64, err error) {
	w := asm.w()
	here := it.word * w

	if it.kind == itemWord {
		var value uint64
		value, err = asm.eval(it.exprs[0], here, asm.Equate, asm.Label)
		words = []uint64{value}
		return
	}

	flip := uint64(0)
	jump := (here + 2*w) & asm.mask()
	if expr := it.exprs[0]; expr != "" {
		flip, err = asm.eval(expr, here, asm.Equate, asm.Label)
		if err != nil {
			return
		}
	}
	if len(it.exprs) > 1 && it.exprs[1] != "" {
		jump, err = asm.eval(it.exprs[1], here, asm.Equate, asm.Label)
		if err != nil {
			return
		}
	}
	words = []uint64{flip, jump}

	return
}

// Parse assembles source text into an image builder.
func (asm *Assembler) Parse(r io.Reader) (b *fjm.Builder, err error) {
	if !slices.Contains(fjm.Widths, asm.Width) {
		err = ErrWidthInvalid
		return
	}

	asm.Label = make(map[string]uint64)
	asm.Equate = make(map[string]uint64)
	asm.segments = nil
	asm.cursor = 0
	asm.pending = nil

	scanner := bufio.NewScanner(r)
	lineno := 0
	for scanner.Scan() {
		lineno++
		line := scanner.Text()
		err = asm.parseLine(line, lineno)
		if err != nil {
			err = ErrSyntax{LineNo: lineno, Line: line, Err: err}
			return
		}
	}
	err = scanner.Err()
	if err != nil {
		return
	}

	// Trailing labels point past the end.
	for _, label := range asm.pending {
		asm.Label[label] = asm.cursor * asm.w()
	}
	asm.pending = nil

	b = fjm.NewBuilder(asm.Width, asm.Version)
	for _, seg := range asm.segments {
		var data []uint64
		var zeros uint64
		for _, it := range seg.items {
			if it.kind == itemReserve {
				zeros += it.count
				continue
			}
			var words []uint64
			words, err = asm.resolve(it)
			if err != nil {
				err = ErrSyntax{LineNo: it.lineNo, Line: it.line, Err: err}
				return
			}
			data = append(data, make([]uint64, zeros)...)
			zeros = 0
			data = append(data, words...)
		}
		length := uint64(len(data)) + zeros
		if length == 0 {
			continue
		}
		err = b.AddSegment(seg.start, length, data)
		if err != nil {
			return
		}
		if asm.Verbose {
			log.Debugf("asm: segment at word %d: %d data words, %d words", seg.start, len(data), length)
		}
	}

	return
}
