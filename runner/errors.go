package runner

import (
	"errors"
	"fmt"
	"syscall"
)

// ErrorKind is the stable error taxonomy reported as error_type
type ErrorKind int

// Error kinds. The ordinals are part of the caller protocol and must not change.
const (
	CouldNotOpenInputFile    ErrorKind = iota // 0
	CouldNotCreateOutputFile                  // 1
	CouldNotCreateErrorFile                   // 2
	CreateProcessFailed                       // 3
	WaitForProcessFailed                      // 4
	GetProcessUsageFailed                     // 5
	ArgumentError                             // 6
	UnknownError                              // 7
)

var (
	errorKindString = []string{
		"Could Not Open Input File",
		"Could Not Create Output File",
		"Could Not Create Error File",
		"Create Process Failed",
		"Wait For Process Failed",
		"Get Process Usage Failed",
		"Argument Error",
		"Unknown Error",
	}
)

func (k ErrorKind) String() string {
	i := int(k)
	if i >= 0 && i < len(errorKindString) {
		return errorKindString[i]
	}
	return errorKindString[UnknownError]
}

// Error is a failure of the runner itself together with the OS error behind it
type Error struct {
	Kind ErrorKind
	Err  error
}

// NewError wraps err with kind
func NewError(kind ErrorKind, err error) *Error {
	return &Error{Kind: kind, Err: err}
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Kind.String()
	}
	return fmt.Sprintf("%v: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Code returns the raw OS error code, 0 if the error did not come from the OS
func (e *Error) Code() int {
	var errno syscall.Errno
	if errors.As(e.Err, &errno) {
		return int(errno)
	}
	return 0
}

// AsError classifies any error as *Error, unknown errors become UnknownError
func AsError(err error) *Error {
	var re *Error
	if errors.As(err, &re) {
		return re
	}
	return NewError(UnknownError, err)
}
