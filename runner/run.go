package runner

import (
	"context"
	"io"
	"log/slog"
	"sync"
)

// Runner spawns one child, waits for it and measures it
type Runner struct {
	Backend Backend

	// Control is the stream carrying the kill byte, nil disables cancellation
	Control io.Reader

	Logger *slog.Logger
}

// Run executes req and returns the outcome to report. It never returns nil.
func (r *Runner) Run(ctx context.Context, req Request) Outcome {
	logger := r.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	c := &cancellation{logger: logger}
	if r.Control != nil {
		l := Listener{Reader: r.Control, OnKill: c.cancel}
		go l.Listen(ctx)
	}

	child, err := r.Backend.Spawn(req)
	if err != nil {
		c.finish()
		logger.Debug("spawn failed", "request", req.String(), "err", err)
		return NewFailure(err)
	}
	logger.Debug("spawned", "pid", child.Pid(), "request", req.String())
	c.attach(child)

	status, err := child.Wait()
	c.finish()
	if err != nil {
		logger.Debug("wait failed", "pid", child.Pid(), "err", err)
		return NewFailure(err)
	}

	usage, err := child.Usage()
	if err != nil {
		logger.Debug("usage failed", "pid", child.Pid(), "err", err)
		return NewFailure(err)
	}

	rt := NewResult(status, usage)
	logger.Debug("finished", "pid", child.Pid(), "result", rt.String(), "usage", usage.String())
	return rt
}

// cancellation orders kill requests against spawn and reap. A request read
// before the child exists is dropped, one after the reap is a no-op.
type cancellation struct {
	mu        sync.Mutex
	t         Terminator
	done      bool
	requested bool
	logger    *slog.Logger
}

// attach makes the spawned child the target of kill requests
func (c *cancellation) attach(t Terminator) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = t
}

// cancel terminates the child once. It reports false when there is no child
// yet, the listener then keeps waiting for the next kill byte.
func (c *cancellation) cancel() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.done || c.requested {
		return true
	}
	if c.t == nil {
		c.logger.Debug("kill request before spawn dropped")
		return false
	}
	c.requested = true
	if err := c.t.Terminate(); err != nil {
		c.logger.Debug("terminate failed", "err", err)
		return true
	}
	c.logger.Debug("kill delivered")
	return true
}

// finish marks the child as reaped, later kill requests are ignored
func (c *cancellation) finish() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.done = true
}
