package forkexec

import (
	"syscall"
	"unsafe"

	"golang.org/x/sys/windows"
)

// Start creates the child with Files as its standard handles. The handles
// must be inheritable. The thread handle is closed, the caller owns the
// returned process handle.
func (r *Runner) Start() (windows.Handle, int, error) {
	if len(r.Args) == 0 || len(r.Files) < 3 {
		return windows.InvalidHandle, 0, syscall.EINVAL
	}

	cmd := r.Args[0]
	if len(r.Args) > 1 {
		cmd = windows.ComposeCommandLine(r.Args)
	}
	cmdLine, err := windows.UTF16PtrFromString(cmd)
	if err != nil {
		return windows.InvalidHandle, 0, err
	}

	si := &windows.StartupInfo{
		Flags:     windows.STARTF_USESTDHANDLES,
		StdInput:  windows.Handle(r.Files[0]),
		StdOutput: windows.Handle(r.Files[1]),
		StdErr:    windows.Handle(r.Files[2]),
	}
	si.Cb = uint32(unsafe.Sizeof(*si))

	var pi windows.ProcessInformation
	if err := windows.CreateProcess(nil, cmdLine, nil, nil, true, windows.CREATE_NO_WINDOW, nil, nil, si, &pi); err != nil {
		return windows.InvalidHandle, 0, err
	}
	windows.CloseHandle(pi.Thread)
	return pi.Process, int(pi.ProcessId), nil
}
