//go:build linux || darwin || windows

package forkexec

import (
	"github.com/judgekit/procrunner/pkg/rlimit"
)

// Runner is the configuration to start the child
type Runner struct {
	// argv for the child. No PATH lookup is done for Args[0].
	// On Windows a single argument is used verbatim as the command line.
	Args []string

	// environment of the child, ignored on Windows where the child
	// inherits the environment of the caller
	Env []string

	// POSIX resource limits inherited by the child
	RLimits []rlimit.RLimit

	// file descriptors / handles for stdin, stdout and stderr of the child
	Files []uintptr
}
