package io

import (
	"errors"
	"io"
)

// Tape provides sequential I/O operations for reading and writing byte streams.
// It wraps an io.Reader for input and io.Writer for output, converting between
// bit-level Channel operations and byte-level I/O.
//
// Once Input is exhausted every further bit reads as 1.
type Tape struct {
	Input  io.Reader
	Output io.Writer
	Timer  Timer // If set, stopped for the duration of each stream call.

	readIndex int
	hasInput  bool
	lastInput byte

	nextOutput byte
	writeIndex int
}

var _ Channel = (*Tape)(nil)

type flusher interface {
	Flush() error
}

func (tc *Tape) stop() {
	if tc.Timer != nil {
		tc.Timer.StopTimer()
	}
}

func (tc *Tape) start() {
	if tc.Timer != nil {
		tc.Timer.StartTimer()
	}
}

// Next returns the next input bit, reading a byte from Input when the
// previous one is used up.
func (tc *Tape) Next() (bit bool, err error) {
	if !tc.hasInput {
		var one [1]byte
		if tc.Input == nil {
			err = ErrTapeInput
			return
		}
		tc.stop()
		_, err = io.ReadFull(tc.Input, one[:])
		tc.start()
		switch {
		case errors.Is(err, io.EOF):
			err = nil
			one[0] = 0xff
		case err != nil:
			err = errors.Join(ErrTapeInput, err)
			return
		}
		tc.lastInput = one[0]
		tc.hasInput = true
		tc.readIndex = 0
	}

	bit = ((tc.lastInput >> tc.readIndex) & 1) != 0
	tc.readIndex++
	if tc.readIndex == 8 {
		tc.hasInput = false
	}

	return
}

// Send writes a bit to the output stream, buffering bits until a complete
// byte is assembled, then writing and flushing it.
func (tc *Tape) Send(value bool) (err error) {
	if value {
		tc.nextOutput |= 1 << tc.writeIndex
	}

	tc.writeIndex++
	if tc.writeIndex < 8 {
		return
	}

	out := tc.nextOutput
	tc.nextOutput = 0
	tc.writeIndex = 0

	tc.stop()
	defer tc.start()

	if tc.Output == nil {
		err = ErrTapeOutput
		return
	}

	_, err = tc.Output.Write([]byte{out})
	if err == nil {
		if fl, ok := tc.Output.(flusher); ok {
			err = fl.Flush()
		}
	}
	if err != nil {
		err = errors.Join(ErrTapeOutput, err)
	}

	return
}
