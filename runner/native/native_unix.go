//go:build linux || darwin

package native

import (
	"os"
	"sync"
	"time"

	"golang.org/x/sys/unix"

	"github.com/judgekit/procrunner/pkg/forkexec"
	"github.com/judgekit/procrunner/pkg/rlimit"
	"github.com/judgekit/procrunner/runner"
)

// Spawn opens the redirect files, forks and execs req.Executable and closes
// the parent copies of the files
func (Backend) Spawn(req runner.Request) (runner.Child, error) {
	files, err := prepareFiles(req.InputFile, req.OutputFile, req.ErrorFile)
	if err != nil {
		return nil, err
	}
	defer closeFiles(files)

	fds := make([]uintptr, len(files))
	for i, f := range files {
		fds[i] = f.Fd()
	}

	rlims := rlimit.RLimits{UnlimitedStack: req.UnlimitedStack}
	r := forkexec.Runner{
		Args:    []string{req.Executable},
		Env:     os.Environ(),
		RLimits: rlims.PrepareRLimit(),
		Files:   fds,
	}
	pid, err := r.Start()
	if err != nil {
		return nil, runner.NewError(runner.CreateProcessFailed, err)
	}
	return &process{pid: pid}, nil
}

// prepareFiles opens the redirect files for the new process
func prepareFiles(inputFile, outputFile, errorFile string) ([]*os.File, error) {
	files := make([]*os.File, 3)
	flags := [3]int{os.O_RDONLY, os.O_WRONLY | os.O_CREATE | os.O_TRUNC, os.O_WRONLY | os.O_CREATE | os.O_TRUNC}
	for i, name := range [3]string{inputFile, outputFile, errorFile} {
		f, err := os.OpenFile(name, flags[i], 0644)
		if err != nil {
			closeFiles(files)
			return nil, runner.NewError(fileErrorKinds[i], err)
		}
		files[i] = f
	}
	return files, nil
}

// closeFiles close all file in the list
func closeFiles(files []*os.File) {
	for _, f := range files {
		if f != nil {
			f.Close()
		}
	}
}

// process is a forked child. The mutex orders the kill against the reap so
// that a recycled pid is never signalled.
type process struct {
	pid      int
	mu       sync.Mutex
	reaped   bool
	killSent bool
}

func (p *process) Pid() int {
	return p.pid
}

func (p *process) Wait() (runner.ExitStatus, error) {
	// block without reaping so the pid stays valid for Terminate
	if err := waitExit(p.pid); err != nil {
		return runner.ExitStatus{}, runner.NewError(runner.WaitForProcessFailed, err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	var wstatus unix.WaitStatus
	_, err := unix.Wait4(p.pid, &wstatus, 0, nil)
	for err == unix.EINTR {
		_, err = unix.Wait4(p.pid, &wstatus, 0, nil)
	}
	if err != nil {
		return runner.ExitStatus{}, runner.NewError(runner.WaitForProcessFailed, err)
	}
	p.reaped = true
	s := exitStatus(wstatus)
	// a SIGKILL sent to a zombie does not change its status
	s.Killed = p.killSent && s.Signal == uint32(unix.SIGKILL)
	return s, nil
}

func exitStatus(wstatus unix.WaitStatus) runner.ExitStatus {
	var s runner.ExitStatus
	switch {
	case wstatus.Exited():
		s.ExitCode = uint32(wstatus.ExitStatus())
	case wstatus.Signaled():
		s.Signal = uint32(wstatus.Signal())
	}
	return s
}

// Usage reads the accounting of reaped children, which is only the child
// since a runner spawns once
func (p *process) Usage() (runner.Usage, error) {
	var rusage unix.Rusage
	if err := unix.Getrusage(unix.RUSAGE_CHILDREN, &rusage); err != nil {
		return runner.Usage{}, runner.NewError(runner.GetProcessUsageFailed, err)
	}
	return runner.Usage{
		Time:   time.Duration(rusage.Utime.Nano() + rusage.Stime.Nano()),
		Memory: maxRSS(int64(rusage.Maxrss)),
	}, nil
}

// Terminate sends SIGKILL unless the child was reaped already
func (p *process) Terminate() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.reaped {
		return os.ErrProcessDone
	}
	if err := unix.Kill(p.pid, unix.SIGKILL); err != nil {
		return err
	}
	p.killSent = true
	return nil
}
