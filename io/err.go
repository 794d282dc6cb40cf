package io

import (
	"errors"

	"github.com/ezrec/ls8/translate"
)

var f = translate.From

var (
	// Sink errors
	ErrOutputMissing = errors.New(f("output missing"))
)
