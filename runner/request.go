package runner

import (
	"errors"
	"fmt"
)

// UnlimitedStackArg is the optional fifth argument raising the stack limit
const UnlimitedStackArg = "--unlimited-stack"

// ErrTooFewArguments is returned when fewer than 4 positional arguments are given
var ErrTooFewArguments = errors.New("expected <executable> <stdin_file> <stdout_file> <stderr_file>")

// Request describes what to execute and where its standard streams go.
// It is immutable once parsed.
type Request struct {
	Executable string
	InputFile  string
	OutputFile string
	ErrorFile  string

	// raise the stack rlimit of the child to the maximum the OS allows.
	// no-op where the stack size is fixed at link time (Windows)
	UnlimitedStack bool
}

// ParseRequest builds a Request from the positional arguments
// <executable> <stdin_file> <stdout_file> <stderr_file> [--unlimited-stack].
// Tokens after the fifth are ignored.
func ParseRequest(args []string) (Request, error) {
	if len(args) < 4 {
		return Request{}, NewError(ArgumentError, ErrTooFewArguments)
	}
	return Request{
		Executable:     args[0],
		InputFile:      args[1],
		OutputFile:     args[2],
		ErrorFile:      args[3],
		UnlimitedStack: len(args) >= 5 && args[4] == UnlimitedStackArg,
	}, nil
}

func (r Request) String() string {
	return fmt.Sprintf("Request[%s <%s >%s 2>%s stack=%v]", r.Executable, r.InputFile, r.OutputFile, r.ErrorFile, r.UnlimitedStack)
}
