//go:build !linux && !darwin && !windows

package native

import (
	"errors"

	"github.com/judgekit/procrunner/runner"
)

// Spawn is not supported on this platform
func (Backend) Spawn(req runner.Request) (runner.Child, error) {
	return nil, runner.NewError(runner.CreateProcessFailed, errors.ErrUnsupported)
}
