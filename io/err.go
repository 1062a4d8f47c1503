package io

import (
	"errors"

	"github.com/ezrec/flipjump/translate"
)

var f = translate.From

var (
	// Tape errors
	ErrTapeInput  = errors.New(f("tape input"))
	ErrTapeOutput = errors.New(f("tape output"))
)
