package fjm

import (
	"errors"

	"github.com/ezrec/flipjump/translate"
)

var f = translate.From

var (
	// Header errors
	ErrBadMagic             = errors.New(f("bad magic"))
	ErrUnsupportedVersion   = errors.New(f("unsupported version"))
	ErrUnsupportedWordWidth = errors.New(f("unsupported word width"))

	// Layout errors
	ErrMalformedSegment = errors.New(f("segment length smaller than data length"))
	ErrDataRange        = errors.New(f("segment data outside of the word pool"))
	ErrTruncated        = errors.New(f("truncated image"))
)

// ErrHeader reports a header field that failed validation.
type ErrHeader struct {
	Field string
	Value uint64
	Err   error
}

func (err *ErrHeader) Error() string {
	if err.Field == "magic" {
		return f("%v (%v %v, should be %v)", err.Err, err.Field,
			translate.Hex(err.Value), translate.Hex(uint16(MAGIC)))
	}
	return f("%v (%v %v)", err.Err, err.Field, err.Value)
}

func (err *ErrHeader) Unwrap() error {
	return err.Err
}

// ErrSegment reports a segment that cannot be placed.
type ErrSegment struct {
	Index   int
	Segment Segment
	Err     error
}

func (err *ErrSegment) Error() string {
	return f("segment %v %v: %v", err.Index, err.Segment.String(), err.Err)
}

func (err *ErrSegment) Unwrap() error {
	return err.Err
}
