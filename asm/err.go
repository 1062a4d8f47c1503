package asm

import (
	"errors"

	"github.com/ezrec/flipjump/translate"
)

var f = translate.From

var (
	ErrDirectiveInvalid = errors.New(f("directive invalid"))
	ErrEquateSyntax     = errors.New(f(".equ syntax"))
	ErrEquateDuplicate  = errors.New(f(".equ duplicated"))
	ErrLabelDuplicate   = errors.New(f("label duplicated"))
	ErrLabelInvalid     = errors.New(f("label invalid"))
	ErrOrgAlignment     = errors.New(f(".org not instruction aligned"))
	ErrOperandsExtra    = errors.New(f("excessive operands"))
	ErrWidthInvalid     = errors.New(f("width invalid"))
)

// ErrSyntax locates an error in the source.
type ErrSyntax struct {
	LineNo int
	Line   string
	Err    error
}

func (err ErrSyntax) Error() string {
	return f("line %d '%v' %v", err.LineNo, err.Line, err.Err)
}

func (err ErrSyntax) Unwrap() error {
	return err.Err
}

// ErrParseExpression reports an operand that did not evaluate to an integer.
type ErrParseExpression struct {
	Expr string
	Err  error
}

func (err ErrParseExpression) Error() string {
	if err.Err != nil {
		return f("'%v' is not a valid expression: %v", err.Expr, err.Err)
	}
	return f("'%v' is not a valid expression", err.Expr)
}

func (err ErrParseExpression) Unwrap() error {
	return err.Err
}
