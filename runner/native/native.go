// Package native implements runner.Backend with the process model of the
// host: fork and exec on Linux and macOS, CreateProcess on Windows.
package native

import (
	"github.com/judgekit/procrunner/runner"
)

var _ runner.Backend = Backend{}

// Backend spawns children directly on the host
type Backend struct{}

// kinds of the failure opening the stdin, stdout and stderr redirect
var fileErrorKinds = [3]runner.ErrorKind{
	runner.CouldNotOpenInputFile,
	runner.CouldNotCreateOutputFile,
	runner.CouldNotCreateErrorFile,
}
