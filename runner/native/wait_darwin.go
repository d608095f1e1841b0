package native

import (
	"syscall"

	"golang.org/x/sys/unix"

	"github.com/judgekit/procrunner/runner"
)

// waitExit blocks until pid exited, leaving it as a zombie
func waitExit(pid int) error {
	kq, err := unix.Kqueue()
	if err != nil {
		return err
	}
	defer unix.Close(kq)

	var ev unix.Kevent_t
	unix.SetKevent(&ev, pid, unix.EVFILT_PROC, unix.EV_ADD|unix.EV_ONESHOT)
	ev.Fflags = unix.NOTE_EXIT

	events := make([]unix.Kevent_t, 1)
	for {
		n, err := unix.Kevent(kq, []unix.Kevent_t{ev}, events, nil)
		if err == unix.EINTR {
			continue
		}
		if err == unix.ESRCH {
			return nil
		}
		if err != nil {
			return err
		}
		if n > 0 && events[0].Flags&unix.EV_ERROR != 0 {
			errno := syscall.Errno(events[0].Data)
			// already a zombie
			if errno == unix.ESRCH {
				return nil
			}
			return errno
		}
		return nil
	}
}

// ru_maxrss is in bytes
func maxRSS(v int64) runner.Size {
	return runner.Size(v)
}
