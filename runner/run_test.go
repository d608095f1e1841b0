package runner

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sleeper is a child that runs until terminated or released
type sleeper struct {
	exit       chan ExitStatus
	once       sync.Once
	terminated int
	waitErr    error
	usageErr   error
	usage      Usage
	waited     bool
	mu         sync.Mutex
}

func newSleeper() *sleeper {
	return &sleeper{exit: make(chan ExitStatus, 1)}
}

func (s *sleeper) Pid() int { return 1234 }

func (s *sleeper) Terminate() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.waited {
		return os.ErrProcessDone
	}
	s.terminated++
	s.release(ExitStatus{Signal: 9, Killed: true})
	return nil
}

func (s *sleeper) release(st ExitStatus) {
	s.once.Do(func() { s.exit <- st })
}

func (s *sleeper) Wait() (ExitStatus, error) {
	st := <-s.exit
	s.mu.Lock()
	s.waited = true
	s.mu.Unlock()
	if s.waitErr != nil {
		return ExitStatus{}, s.waitErr
	}
	return st, nil
}

func (s *sleeper) Usage() (Usage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.waited {
		panic("usage before wait")
	}
	return s.usage, s.usageErr
}

type backend struct {
	child Child
	err   error
	req   Request
}

func (b *backend) Spawn(req Request) (Child, error) {
	b.req = req
	if b.err != nil {
		return nil, b.err
	}
	return b.child, nil
}

func TestRun_Normal(t *testing.T) {
	s := newSleeper()
	s.usage = Usage{Time: 5 * time.Millisecond, Memory: 1 << 20}
	s.release(ExitStatus{ExitCode: 0})

	r := Runner{Backend: &backend{child: s}, Control: strings.NewReader("")}
	out := r.Run(context.Background(), Request{Executable: "a.out"})
	require.Equal(t, Result{Time: 5, Memory: 1024}, out)
}

func TestRun_SpawnFailed(t *testing.T) {
	b := &backend{err: NewError(CouldNotOpenInputFile, syscall.ENOENT)}
	r := Runner{Backend: b}
	out := r.Run(context.Background(), Request{InputFile: "missing"})
	require.Equal(t, Failure{Error: true, Kind: CouldNotOpenInputFile, Code: int(syscall.ENOENT)}, out)
	assert.Equal(t, "missing", b.req.InputFile)
}

func TestRun_WaitFailed(t *testing.T) {
	s := newSleeper()
	s.waitErr = NewError(WaitForProcessFailed, syscall.ECHILD)
	s.release(ExitStatus{})

	r := Runner{Backend: &backend{child: s}}
	out := r.Run(context.Background(), Request{})
	require.Equal(t, Failure{Error: true, Kind: WaitForProcessFailed, Code: int(syscall.ECHILD)}, out)
}

func TestRun_UsageFailed(t *testing.T) {
	s := newSleeper()
	s.usageErr = NewError(GetProcessUsageFailed, syscall.EFAULT)
	s.release(ExitStatus{})

	r := Runner{Backend: &backend{child: s}}
	out := r.Run(context.Background(), Request{})
	require.Equal(t, Failure{Error: true, Kind: GetProcessUsageFailed, Code: int(syscall.EFAULT)}, out)
}

// killer writes kill bytes to w until the reader side is closed
func killer(w io.Writer) {
	for {
		time.Sleep(10 * time.Millisecond)
		if _, err := w.Write([]byte("ak")); err != nil {
			return
		}
	}
}

func TestRun_Killed(t *testing.T) {
	s := newSleeper()
	pr, pw := io.Pipe()
	defer pw.Close()

	r := Runner{Backend: &backend{child: s}, Control: pr}
	done := make(chan Outcome, 1)
	go func() { done <- r.Run(context.Background(), Request{}) }()
	go killer(pw)

	select {
	case out := <-done:
		rt, ok := out.(Result)
		require.True(t, ok, "unexpected outcome %v", out)
		assert.True(t, rt.Killed)
		assert.Equal(t, uint32(9), rt.Signal)
		assert.Equal(t, 0.001, rt.Time)
	case <-time.After(5 * time.Second):
		t.Fatal("run did not return after kill byte")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	assert.Equal(t, 1, s.terminated)
}

// signalReader returns the kill byte once and closes ready on the next read,
// when the first byte was handled
type signalReader struct {
	n     int
	ready chan struct{}
}

func (r *signalReader) Read(b []byte) (int, error) {
	r.n++
	if r.n == 1 {
		b[0] = KillByte
		return 1, nil
	}
	if r.n == 2 {
		close(r.ready)
	}
	return 0, io.EOF
}

// gatedBackend spawns only after ready is closed
type gatedBackend struct {
	child Child
	ready chan struct{}
}

func (b *gatedBackend) Spawn(Request) (Child, error) {
	<-b.ready
	return b.child, nil
}

func TestRun_KillBeforeSpawn(t *testing.T) {
	s := newSleeper()
	s.release(ExitStatus{})
	ready := make(chan struct{})

	r := Runner{Backend: &gatedBackend{child: s, ready: ready}, Control: &signalReader{ready: ready}}
	out := r.Run(context.Background(), Request{})
	require.Equal(t, Result{Time: 0.001}, out)
	assert.Zero(t, s.terminated)
}

func TestRun_KillAfterExit(t *testing.T) {
	s := newSleeper()
	s.release(ExitStatus{ExitCode: 1})

	r := Runner{Backend: &backend{child: s}, Control: strings.NewReader("")}
	out := r.Run(context.Background(), Request{})
	require.Equal(t, Result{ExitCode: 1, Time: 0.001}, out)

	// a late kill request is ignored
	c := &cancellation{logger: discardLogger()}
	c.attach(s)
	c.finish()
	assert.True(t, c.cancel())
	assert.Zero(t, s.terminated)
}

func TestCancellation_BeforeSpawn(t *testing.T) {
	s := newSleeper()
	c := &cancellation{logger: discardLogger()}
	assert.False(t, c.cancel())

	c.attach(s)
	assert.True(t, c.cancel())
	assert.Equal(t, 1, s.terminated)
}

func TestCancellation_TerminateFails(t *testing.T) {
	s := newSleeper()
	s.waited = true
	c := &cancellation{logger: discardLogger()}
	c.attach(s)
	assert.True(t, c.cancel())
	assert.Zero(t, s.terminated)
}

func TestCancellation_Once(t *testing.T) {
	s := newSleeper()
	c := &cancellation{logger: discardLogger()}
	c.attach(s)
	assert.True(t, c.cancel())
	assert.True(t, c.cancel())
	c.finish()
	assert.Equal(t, 1, s.terminated)
	assert.Equal(t, ExitStatus{Signal: 9, Killed: true}, <-s.exit)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}
