package native

import (
	"os"
	"sync"
	"syscall"
	"time"
	"unsafe"

	"golang.org/x/sys/windows"

	"github.com/judgekit/procrunner/pkg/forkexec"
	"github.com/judgekit/procrunner/runner"
)

// exit code of a child killed by Terminate
const killedExitCode = 1

var (
	modpsapi                 = windows.NewLazySystemDLL("psapi.dll")
	procGetProcessMemoryInfo = modpsapi.NewProc("GetProcessMemoryInfo")
)

// processMemoryCounters is PROCESS_MEMORY_COUNTERS
type processMemoryCounters struct {
	CB                         uint32
	PageFaultCount             uint32
	PeakWorkingSetSize         uintptr
	WorkingSetSize             uintptr
	QuotaPeakPagedPoolUsage    uintptr
	QuotaPagedPoolUsage        uintptr
	QuotaPeakNonPagedPoolUsage uintptr
	QuotaNonPagedPoolUsage     uintptr
	PagefileUsage              uintptr
	PeakPagefileUsage          uintptr
}

func getProcessMemoryInfo(h windows.Handle, c *processMemoryCounters) error {
	c.CB = uint32(unsafe.Sizeof(*c))
	r1, _, e1 := procGetProcessMemoryInfo.Call(uintptr(h), uintptr(unsafe.Pointer(c)), uintptr(c.CB))
	if r1 == 0 {
		return e1
	}
	return nil
}

// Spawn opens the redirect files as inheritable handles, creates the child
// with them as standard handles and closes the parent copies
func (Backend) Spawn(req runner.Request) (runner.Child, error) {
	handles, err := prepareHandles(req.InputFile, req.OutputFile, req.ErrorFile)
	if err != nil {
		return nil, err
	}
	defer closeHandles(handles)

	fds := make([]uintptr, len(handles))
	for i, h := range handles {
		fds[i] = uintptr(h)
	}

	// the stack reserve of a Windows executable is fixed at link time,
	// req.UnlimitedStack has nothing to apply
	r := forkexec.Runner{
		Args:  []string{req.Executable},
		Files: fds,
	}
	h, pid, err := r.Start()
	if err != nil {
		return nil, runner.NewError(runner.CreateProcessFailed, err)
	}
	return &process{pid: pid, h: h}, nil
}

func openHandle(name string, access, disposition uint32) (windows.Handle, error) {
	p, err := windows.UTF16PtrFromString(name)
	if err != nil {
		return windows.InvalidHandle, err
	}
	sa := windows.SecurityAttributes{InheritHandle: 1}
	sa.Length = uint32(unsafe.Sizeof(sa))
	return windows.CreateFile(p, access, windows.FILE_SHARE_READ, &sa, disposition, windows.FILE_ATTRIBUTE_NORMAL, 0)
}

// prepareHandles opens the redirect files for the new process
func prepareHandles(inputFile, outputFile, errorFile string) ([]windows.Handle, error) {
	handles := []windows.Handle{windows.InvalidHandle, windows.InvalidHandle, windows.InvalidHandle}
	access := [3]uint32{windows.GENERIC_READ, windows.GENERIC_WRITE, windows.GENERIC_WRITE}
	disposition := [3]uint32{windows.OPEN_EXISTING, windows.CREATE_ALWAYS, windows.CREATE_ALWAYS}
	for i, name := range [3]string{inputFile, outputFile, errorFile} {
		h, err := openHandle(name, access[i], disposition[i])
		if err != nil {
			closeHandles(handles)
			return nil, runner.NewError(fileErrorKinds[i], err)
		}
		handles[i] = h
	}
	return handles, nil
}

func closeHandles(handles []windows.Handle) {
	for _, h := range handles {
		if h != windows.InvalidHandle {
			windows.CloseHandle(h)
		}
	}
}

// process owns the process handle. The handle is kept open for the lifetime
// of the runner so Terminate never hits a recycled process.
type process struct {
	pid      int
	mu       sync.Mutex
	h        windows.Handle
	reaped   bool
	killSent bool
}

func (p *process) Pid() int {
	return p.pid
}

func (p *process) Wait() (runner.ExitStatus, error) {
	ev, err := windows.WaitForSingleObject(p.h, windows.INFINITE)
	if ev == windows.WAIT_FAILED {
		if err == nil {
			err = syscall.EINVAL
		}
		return runner.ExitStatus{}, runner.NewError(runner.WaitForProcessFailed, err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	var code uint32
	if err := windows.GetExitCodeProcess(p.h, &code); err != nil {
		return runner.ExitStatus{}, runner.NewError(runner.WaitForProcessFailed, err)
	}
	p.reaped = true
	return runner.ExitStatus{
		ExitCode: code,
		Killed:   p.killSent && code == killedExitCode,
	}, nil
}

func filetimeDuration(ft windows.Filetime) time.Duration {
	ticks := int64(ft.HighDateTime)<<32 | int64(ft.LowDateTime)
	return time.Duration(ticks * 100)
}

func (p *process) Usage() (runner.Usage, error) {
	var creation, exit, kernel, user windows.Filetime
	if err := windows.GetProcessTimes(p.h, &creation, &exit, &kernel, &user); err != nil {
		return runner.Usage{}, runner.NewError(runner.GetProcessUsageFailed, err)
	}
	var pmc processMemoryCounters
	if err := getProcessMemoryInfo(p.h, &pmc); err != nil {
		return runner.Usage{}, runner.NewError(runner.GetProcessUsageFailed, err)
	}
	return runner.Usage{
		Time:   filetimeDuration(kernel) + filetimeDuration(user),
		Memory: runner.Size(pmc.PeakWorkingSetSize),
	}, nil
}

// Terminate fails with access denied once the child exited, the caller
// treats that as a no-op
func (p *process) Terminate() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.reaped {
		return os.ErrProcessDone
	}
	if err := windows.TerminateProcess(p.h, killedExitCode); err != nil {
		return err
	}
	p.killSent = true
	return nil
}
