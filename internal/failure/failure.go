// SPDX-License-Identifier: EPL-2.0

// Package failure defines the error kinds surfaced to the operator. Callers
// wrap concrete errors with one of the kinds and test them with errors.Is.
package failure

import (
	"errors"
	"fmt"
)

var (
	// ErrUserInput marks a problem the operator can fix: no folder given,
	// no stem-set found, missing stems.
	ErrUserInput = errors.New("invalid input")

	// ErrIO marks a failed open, read, write or remove.
	ErrIO = errors.New("i/o failure")

	// ErrConcurrency marks an operation refused because another is running.
	ErrConcurrency = errors.New("operation already running")
)

// User returns an ErrUserInput with a formatted message.
func User(format string, args ...any) error {
	return &kindError{kind: ErrUserInput, msg: fmt.Sprintf(format, args...)}
}

// IO wraps err as an ErrIO for op on path. A nil err stays nil.
func IO(op, path string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrIO) {
		return err
	}
	return &kindError{kind: ErrIO, msg: fmt.Sprintf("%s %s", op, path), err: err}
}

// Busy returns an ErrConcurrency naming what is already running.
func Busy(what string) error {
	return &kindError{kind: ErrConcurrency, msg: what}
}

type kindError struct {
	kind error
	msg  string
	err  error
}

func (e *kindError) Error() string {
	if e.err != nil {
		return fmt.Sprintf("%s: %v", e.msg, e.err)
	}
	return e.msg
}

func (e *kindError) Unwrap() []error {
	if e.err != nil {
		return []error{e.kind, e.err}
	}
	return []error{e.kind}
}

// Kind returns the kind of err, or nil when it carries none.
func Kind(err error) error {
	for _, k := range []error{ErrConcurrency, ErrUserInput, ErrIO} {
		if errors.Is(err, k) {
			return k
		}
	}
	return nil
}
