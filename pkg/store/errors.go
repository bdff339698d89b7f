package store

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned by operations that need an existing day.
	ErrNotFound = errors.New("store: entry not found")
	// ErrDecode matches every *DecodeError.
	ErrDecode = errors.New("store: decode failed")
	// ErrIO matches every *IOError.
	ErrIO = errors.New("store: i/o failure")
	// ErrDanglingAttachment rejects a save that references a missing file.
	ErrDanglingAttachment = errors.New("store: attachment has no backing file")
	// ErrInvalidDay rejects keys whose iso date is malformed.
	ErrInvalidDay = errors.New("store: invalid day key")
)

// DecodeError reports a persisted document or media file that could not be
// read back.
type DecodeError struct {
	Path string
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("store: decode %s: %v", e.Path, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

func (e *DecodeError) Is(target error) bool {
	return target == ErrDecode
}

// IOError reports a filesystem failure. Data durability is at risk whenever
// one is returned, so callers must not assume the operation took effect.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("store: %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

func (e *IOError) Is(target error) bool {
	return target == ErrIO
}

func ioError(op, path string, err error) error {
	return &IOError{Op: op, Path: path, Err: err}
}
