package runner

import (
	"errors"
	"fmt"
	"os"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorKindOrdinals(t *testing.T) {
	kinds := []ErrorKind{
		CouldNotOpenInputFile,
		CouldNotCreateOutputFile,
		CouldNotCreateErrorFile,
		CreateProcessFailed,
		WaitForProcessFailed,
		GetProcessUsageFailed,
		ArgumentError,
		UnknownError,
	}
	for i, k := range kinds {
		assert.Equal(t, i, int(k))
	}
}

func TestErrorKindString(t *testing.T) {
	assert.Equal(t, "Create Process Failed", CreateProcessFailed.String())
	assert.Equal(t, "Unknown Error", ErrorKind(42).String())
	assert.Equal(t, "Unknown Error", ErrorKind(-1).String())
}

func TestErrorCode(t *testing.T) {
	pathErr := &os.PathError{Op: "open", Path: "in.txt", Err: syscall.ENOENT}
	tests := []struct {
		name string
		err  *Error
		code int
	}{
		{"Errno", NewError(CreateProcessFailed, syscall.EACCES), int(syscall.EACCES)},
		{"PathError", NewError(CouldNotOpenInputFile, pathErr), int(syscall.ENOENT)},
		{"Wrapped", NewError(WaitForProcessFailed, fmt.Errorf("wait: %w", syscall.ECHILD)), int(syscall.ECHILD)},
		{"Not OS", NewError(UnknownError, errors.New("x")), 0},
		{"Nil", NewError(ArgumentError, nil), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, tt.err.Code())
		})
	}
}

func TestAsError(t *testing.T) {
	e := NewError(GetProcessUsageFailed, syscall.EINVAL)
	assert.Same(t, e, AsError(fmt.Errorf("usage: %w", e)))

	u := AsError(errors.New("boom"))
	assert.Equal(t, UnknownError, u.Kind)
	assert.Equal(t, "Unknown Error: boom", u.Error())
}
