//go:build linux || darwin

package forkexec

import (
	"syscall"

	"github.com/judgekit/procrunner/pkg/rlimit"
)

// Start forks and execs the child and returns its pid. The rlimits are
// applied to the calling process for the duration of the fork, so Start
// must not race with other forks that should not inherit them.
// A failed execve is reported as error and the child is already reaped.
func (r *Runner) Start() (int, error) {
	if len(r.Args) == 0 {
		return 0, syscall.EINVAL
	}

	restore, err := rlimit.Apply(r.RLimits)
	if err != nil {
		return 0, err
	}
	defer restore()

	attr := &syscall.ProcAttr{
		Env:   r.Env,
		Files: r.Files,
	}
	return syscall.ForkExec(r.Args[0], r.Args, attr)
}
