package runner

import (
	"fmt"
	"time"
)

// minTime is the smallest reported CPU time in ms
const minTime = 0.001

// Outcome is the terminal payload of an invocation, either Result or Failure
type Outcome interface {
	outcome()
}

// Result is the payload of a run that completed (or was killed)
type Result struct {
	Error    bool    `json:"error"`
	Killed   bool    `json:"killed"`
	Time     float64 `json:"time"`   // CPU time in ms
	Memory   float64 `json:"memory"` // peak memory in KiB
	ExitCode uint32  `json:"exitCode"`
	Signal   uint32  `json:"signal"`
}

// Failure is the payload of a run the runner could not carry out
type Failure struct {
	Error bool      `json:"error"`
	Kind  ErrorKind `json:"error_type"`
	Code  int       `json:"error_code"`
}

func (Result) outcome()  {}
func (Failure) outcome() {}

// NewResult builds the success payload from the exit status and usage sample
func NewResult(s ExitStatus, u Usage) Result {
	return Result{
		Killed:   s.Killed,
		Time:     u.Millis(),
		Memory:   u.Memory.KiBFloat(),
		ExitCode: s.ExitCode,
		Signal:   s.Signal,
	}
}

// NewFailure builds the error payload for err
func NewFailure(err error) Failure {
	e := AsError(err)
	return Failure{
		Error: true,
		Kind:  e.Kind,
		Code:  e.Code(),
	}
}

func (r Result) String() string {
	if r.Killed {
		return fmt.Sprintf("Result[Killed(%d %d)][%.3f ms %.0f KiB]", r.ExitCode, r.Signal, r.Time, r.Memory)
	}
	if r.Signal != 0 {
		return fmt.Sprintf("Result[Signalled(%d)][%.3f ms %.0f KiB]", r.Signal, r.Time, r.Memory)
	}
	return fmt.Sprintf("Result[Exited(%d)][%.3f ms %.0f KiB]", r.ExitCode, r.Time, r.Memory)
}

func (f Failure) String() string {
	return fmt.Sprintf("Failure[%v(%d)]", f.Kind, f.Code)
}

// ExitStatus is how the child terminated. Signal is 0 on platforms without
// signals and when the child exited normally.
type ExitStatus struct {
	ExitCode uint32
	Signal   uint32

	// Killed is set when the child ended because of a Terminate call,
	// not when Terminate raced with a normal exit
	Killed bool
}

// Usage is the post-mortem resource usage of the child
type Usage struct {
	Time   time.Duration // user + system CPU time
	Memory Size          // peak resident memory
}

// Millis returns the CPU time in ms, never less than 0.001
func (u Usage) Millis() float64 {
	ms := float64(u.Time) / float64(time.Millisecond)
	if ms < minTime {
		return minTime
	}
	return ms
}

func (u Usage) String() string {
	return fmt.Sprintf("Usage[%v %v]", u.Time, u.Memory)
}
