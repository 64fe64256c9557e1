package program

import (
	"errors"
	"fmt"
)

var (
	ErrConstWithoutValue        = errors.New("program: constant has no value")
	ErrNegativeHintPC           = errors.New("program: hint pc is negative")
	ErrHintPCOutOfRange         = errors.New("program: hint pc out of range")
	ErrCompiledClassUnsupported = errors.New("program: compiled class support not built in")
)

// IdentifierError reports a malformed identifier by name.
type IdentifierError struct {
	Name string
	Err  error
}

func (e *IdentifierError) Error() string {
	return fmt.Sprintf("%v: %s", e.Err, e.Name)
}

func (e *IdentifierError) Unwrap() error { return e.Err }
