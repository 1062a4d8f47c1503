package cpu

import (
	"errors"

	"github.com/ezrec/flipjump/translate"
)

var f = translate.From

var (
	// Execution errors
	ErrUnalignedFetch      = errors.New(f("unaligned fetch"))
	ErrSelfModifyForbidden = errors.New(f("op tried to flip itself"))
	ErrUninitializedAccess = errors.New(f("uninitialized access"))
	ErrForbiddenNullJump   = errors.New(f("jump into the reserved I/O region"))

	// Configuration errors
	ErrPolicy = errors.New(f("invalid policy"))
)

// ErrFault reports a fault at a bit address.
type ErrFault struct {
	Addr uint64
	Err  error
}

func (err *ErrFault) Error() string {
	return f("%v at %v", err.Err, translate.Hex(err.Addr))
}

func (err *ErrFault) Unwrap() error {
	return err.Err
}

// ErrPolicyValue reports a policy setting that cannot be used.
type ErrPolicyValue struct {
	Name  string
	Value uint64
}

func (err *ErrPolicyValue) Error() string {
	return f("%v: %v %v", ErrPolicy, err.Name, err.Value)
}

func (err *ErrPolicyValue) Unwrap() error {
	return ErrPolicy
}
