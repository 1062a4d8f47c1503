// Package io provides the bit-level I/O channels of the flip-jump
// interpreter. A channel carries single bits; the Tape channel packs them
// LSB first into bytes of an underlying byte stream.
package io

// Channel is a bit stream behind the reserved I/O addresses.
type Channel interface {
	// Next returns the next input bit.
	Next() (bit bool, err error)
	// Send writes a single output bit.
	Send(value bool) error
}

// Timer is paused while a channel blocks on its underlying stream.
type Timer interface {
	StopTimer()
	StartTimer()
}
