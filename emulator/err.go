package emulator

import (
	"errors"

	"github.com/ezrec/flipjump/translate"
)

var f = translate.From

var (
	ErrNotLoaded = errors.New(f("no image loaded"))
)

// ErrRuntime indicates the step and instruction pointer of a runtime error.
type ErrRuntime struct {
	Step uint64
	Ip   uint64
	Err  error
}

func (err *ErrRuntime) Error() string {
	return f("step %d ip %v: %v", err.Step, translate.Hex(err.Ip), err.Err)
}

func (err *ErrRuntime) Unwrap() error {
	return err.Err
}
