package native

import (
	"golang.org/x/sys/unix"

	"github.com/judgekit/procrunner/runner"
)

// waitExit blocks until pid exited, leaving it as a zombie
func waitExit(pid int) error {
	var info unix.Siginfo
	err := unix.Waitid(unix.P_PID, pid, &info, unix.WEXITED|unix.WNOWAIT, nil)
	for err == unix.EINTR {
		err = unix.Waitid(unix.P_PID, pid, &info, unix.WEXITED|unix.WNOWAIT, nil)
	}
	return err
}

// ru_maxrss is in KiB
func maxRSS(v int64) runner.Size {
	return runner.Size(v) << 10
}
