package fjm

import (
	"encoding/binary"
	"errors"
	"io"
	"iter"
	"slices"

	"github.com/ezrec/flipjump/internal"
)

const (
	MAGIC       = 0x4a46 // "FJ", little-endian.
	MAX_VERSION = 2      // Highest supported image version.
)

// Widths lists the supported word widths, in bits.
var Widths = []uint16{8, 16, 32, 64}

// Header is the fixed part of an image.
type Header struct {
	Magic        uint16
	Width        uint16 // Word width in bits.
	Version      uint64
	SegmentCount uint64
	Flags        uint64 // Version > 0 only.
	Reserved     uint32 // Version > 0 only.
}

// Segment places DataLen pool words, starting at pool index DataStart, at
// word index SegmentStart. Words past DataLen up to SegmentLen are zero.
type Segment struct {
	SegmentStart uint64
	SegmentLen   uint64
	DataStart    uint64
	DataLen      uint64
}

// String returns the segment's placement.
func (seg Segment) String() string {
	return f("[%v+%v] data[%v+%v]", seg.SegmentStart, seg.SegmentLen, seg.DataStart, seg.DataLen)
}

// Image is a decoded memory image.
type Image struct {
	Header
	Segments []Segment
	Data     []uint64 // Word pool, as stored.
}

// Read decodes an image. The header is validated before anything else is
// read, and every segment is checked against the word pool.
func Read(r io.Reader) (img *Image, err error) {
	img = &Image{}
	hdr := &img.Header

	err = readFields(r, &hdr.Magic)
	if err != nil {
		return
	}
	if hdr.Magic != MAGIC {
		err = &ErrHeader{Field: "magic", Value: uint64(hdr.Magic), Err: ErrBadMagic}
		return
	}

	err = readFields(r, &hdr.Width)
	if err != nil {
		return
	}
	if !slices.Contains(Widths, hdr.Width) {
		err = &ErrHeader{Field: "width", Value: uint64(hdr.Width), Err: ErrUnsupportedWordWidth}
		return
	}

	err = readFields(r, &hdr.Version, &hdr.SegmentCount)
	if err != nil {
		return
	}
	if hdr.Version > MAX_VERSION {
		err = &ErrHeader{Field: "version", Value: hdr.Version, Err: ErrUnsupportedVersion}
		return
	}

	if hdr.Version > 0 {
		err = readFields(r, &hdr.Flags, &hdr.Reserved)
		if err != nil {
			return
		}
	}

	// The count is untrusted; let append grow the table.
	img.Segments = make([]Segment, 0, min(hdr.SegmentCount, 1024))
	for range hdr.SegmentCount {
		var seg Segment
		err = readFields(r, &seg.SegmentStart, &seg.SegmentLen, &seg.DataStart, &seg.DataLen)
		if err != nil {
			return
		}
		img.Segments = append(img.Segments, seg)
	}

	pool, err := io.ReadAll(r)
	if err != nil {
		return
	}
	size := int(hdr.Width / 8)
	if len(pool)%size != 0 {
		err = ErrTruncated
		return
	}
	img.Data = make([]uint64, len(pool)/size)
	for n := range img.Data {
		img.Data[n] = decodeWord(pool[n*size:], size)
	}

	err = img.Validate()

	return
}

// Validate checks every segment's lengths and data range.
func (img *Image) Validate() (err error) {
	for n, seg := range img.Segments {
		if seg.SegmentLen < seg.DataLen {
			err = &ErrSegment{Index: n, Segment: seg, Err: ErrMalformedSegment}
			return
		}
		if seg.SegmentStart+seg.SegmentLen < seg.SegmentStart {
			err = &ErrSegment{Index: n, Segment: seg, Err: ErrDataRange}
			return
		}
		end := seg.DataStart + seg.DataLen
		if end < seg.DataStart || end > uint64(len(img.Data)) {
			err = &ErrSegment{Index: n, Segment: seg, Err: ErrDataRange}
			return
		}
	}

	return
}

// mask of the image's word width.
func (img *Image) mask() uint64 {
	return ^uint64(0) >> (64 - img.Width)
}

// Word returns the value loaded at a word index from a pool word, with the
// version 2 transform applied.
func (img *Image) Word(index uint64, stored uint64) uint64 {
	if img.Version == 2 && index%2 == 1 {
		stored += index * uint64(img.Width)
	}
	return stored & img.mask()
}

// segmentWords iterates the placed data words of one segment.
func (img *Image) segmentWords(seg Segment) iter.Seq2[uint64, uint64] {
	return func(yield func(index uint64, value uint64) bool) {
		for i := range seg.DataLen {
			index := seg.SegmentStart + i
			if !yield(index, img.Word(index, img.Data[seg.DataStart+i])) {
				return
			}
		}
	}
}

// Words iterates (word index, value) for every data word of every segment,
// in file order.
func (img *Image) Words() iter.Seq2[uint64, uint64] {
	seqs := make([]iter.Seq2[uint64, uint64], len(img.Segments))
	for n, seg := range img.Segments {
		seqs[n] = img.segmentWords(seg)
	}
	return internal.IterSeq2Concat(seqs...)
}

// ZeroFill iterates the half-open [start, end) word ranges that segments
// extend past their data.
func (img *Image) ZeroFill() iter.Seq2[uint64, uint64] {
	return func(yield func(start uint64, end uint64) bool) {
		for _, seg := range img.Segments {
			if seg.SegmentLen <= seg.DataLen {
				continue
			}
			if !yield(seg.SegmentStart+seg.DataLen, seg.SegmentStart+seg.SegmentLen) {
				return
			}
		}
	}
}

// WriteTo encodes the image.
func (img *Image) WriteTo(w io.Writer) (n int64, err error) {
	cw := &countWriter{w: w}
	defer func() { n = cw.n }()

	hdr := img.Header
	hdr.SegmentCount = uint64(len(img.Segments))

	fields := []any{hdr.Magic, hdr.Width, hdr.Version, hdr.SegmentCount}
	if hdr.Version > 0 {
		fields = append(fields, hdr.Flags, hdr.Reserved)
	}
	for _, seg := range img.Segments {
		fields = append(fields, seg.SegmentStart, seg.SegmentLen, seg.DataStart, seg.DataLen)
	}
	for _, field := range fields {
		err = binary.Write(cw, binary.LittleEndian, field)
		if err != nil {
			return
		}
	}

	size := int(hdr.Width / 8)
	pool := make([]byte, len(img.Data)*size)
	for i, word := range img.Data {
		encodeWord(pool[i*size:], size, word)
	}
	_, err = cw.Write(pool)

	return
}

type countWriter struct {
	w io.Writer
	n int64
}

func (cw *countWriter) Write(p []byte) (n int, err error) {
	n, err = cw.w.Write(p)
	cw.n += int64(n)
	return
}

// readFields reads little-endian fixed-size values, mapping a short read to
// ErrTruncated.
func readFields(r io.Reader, fields ...any) (err error) {
	for _, field := range fields {
		err = binary.Read(r, binary.LittleEndian, field)
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			err = ErrTruncated
		}
		if err != nil {
			return
		}
	}
	return
}

func decodeWord(b []byte, size int) uint64 {
	switch size {
	case 1:
		return uint64(b[0])
	case 2:
		return uint64(binary.LittleEndian.Uint16(b))
	case 4:
		return uint64(binary.LittleEndian.Uint32(b))
	default:
		return binary.LittleEndian.Uint64(b)
	}
}

func encodeWord(b []byte, size int, word uint64) {
	switch size {
	case 1:
		b[0] = uint8(word)
	case 2:
		binary.LittleEndian.PutUint16(b, uint16(word))
	case 4:
		binary.LittleEndian.PutUint32(b, uint32(word))
	default:
		binary.LittleEndian.PutUint64(b, word)
	}
}
