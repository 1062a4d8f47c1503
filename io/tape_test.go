package io

import (
	"bufio"
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

type mockTimer struct {
	stops  int
	starts int
}

func (mt *mockTimer) StopTimer()  { mt.stops++ }
func (mt *mockTimer) StartTimer() { mt.starts++ }

type failReader struct{}

func (failReader) Read(p []byte) (int, error) { return 0, errors.New("broken") }

func sendByte(ch Channel, value uint8) (err error) {
	for n := range 8 {
		err = ch.Send(value&(1<<n) != 0)
		if err != nil {
			return
		}
	}
	return
}

func nextByte(ch Channel) (value uint8, err error) {
	for n := range 8 {
		var bit bool
		bit, err = ch.Next()
		if err != nil {
			return
		}
		if bit {
			value |= 1 << n
		}
	}
	return
}

func TestTape_RoundTrip(t *testing.T) {
	assert := assert.New(t)

	output := &bytes.Buffer{}
	tape := &Tape{Output: output}

	for _, value := range []uint8{'h', 'i', 0x00, 0xff} {
		assert.NoError(sendByte(tape, value))
	}

	assert.Equal([]byte{'h', 'i', 0x00, 0xff}, output.Bytes())
}

func TestTape_PartialByte(t *testing.T) {
	assert := assert.New(t)

	output := &bytes.Buffer{}
	tape := &Tape{Output: output}

	for range 7 {
		assert.NoError(tape.Send(true))
	}
	assert.Equal(0, output.Len())

	assert.NoError(tape.Send(false))
	assert.Equal([]byte{0x7f}, output.Bytes())
}

func TestTape_Flush(t *testing.T) {
	assert := assert.New(t)

	output := &bytes.Buffer{}
	buffered := bufio.NewWriter(output)
	timer := &mockTimer{}
	tape := &Tape{Output: buffered, Timer: timer}

	assert.NoError(sendByte(tape, 'A'))
	assert.Equal([]byte{'A'}, output.Bytes())
	assert.Equal(1, timer.stops)
	assert.Equal(1, timer.starts)
}

func TestTape_Input(t *testing.T) {
	assert := assert.New(t)

	timer := &mockTimer{}
	tape := &Tape{Input: bytes.NewReader([]byte{0x35, 0xa0}), Timer: timer}

	var got []uint8
	for range 4 {
		value, err := nextByte(tape)
		assert.NoError(err)
		got = append(got, value)
	}

	// Exhausted input reads as all ones, forever.
	assert.Equal([]uint8{0x35, 0xa0, 0xff, 0xff}, got)
	assert.Equal(timer.stops, timer.starts)
	assert.Equal(4, timer.stops)

	for range 100 {
		bit, err := tape.Next()
		assert.NoError(err)
		assert.True(bit)
	}
}

func TestTape_InputError(t *testing.T) {
	assert := assert.New(t)

	tape := &Tape{Input: failReader{}}
	_, err := tape.Next()
	assert.ErrorIs(err, ErrTapeInput)
}

func TestTape_Unset(t *testing.T) {
	assert := assert.New(t)

	tape := &Tape{}

	_, err := tape.Next()
	assert.ErrorIs(err, ErrTapeInput)

	for range 7 {
		assert.NoError(tape.Send(true))
	}
	assert.ErrorIs(tape.Send(true), ErrTapeOutput)
}
