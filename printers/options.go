package printers

import (
	"io"
	"os"
)

// options contains common display options shared by all printers
type options struct {
	ShowTimestamp bool
	Writer        io.Writer
}

func defaultOptions() options {
	return options{Writer: os.Stdout}
}

type hasOptions interface {
	options() *options
}

// WithTimestamp enables timestamp display in printer output
func WithTimestamp[T hasOptions]() func(T) {
	return func(p T) {
		p.options().ShowTimestamp = true
	}
}

// WithWriter sends printer output to w instead of stdout
func WithWriter[T hasOptions](w io.Writer) func(T) {
	return func(p T) {
		p.options().Writer = w
	}
}
