package runner

// Backend creates children on a specific platform
type Backend interface {
	// Spawn opens the redirect files of req, starts the executable bound to
	// them and closes the parent copies. Errors are *Error carrying the kind
	// of the step that failed.
	Spawn(req Request) (Child, error)
}

// Terminator is the capability to forcefully kill a child. Terminating a
// child that was already reaped returns os.ErrProcessDone and has no effect.
type Terminator interface {
	Terminate() error
}

// Child is a started process exclusively owned by the runner
type Child interface {
	Terminator

	// Pid returns the OS process id
	Pid() int

	// Wait blocks until the child terminated and reaps it. Interruption by
	// signals is retried. ExitStatus.Killed is only set when a delivered
	// Terminate is what ended the child.
	Wait() (ExitStatus, error)

	// Usage returns the resources used by the child. It must only be called
	// after Wait returned successfully.
	Usage() (Usage, error)
}
