//go:build linux || darwin || windows

// Package rlimit provides the resource limits inherited by the child process.
package rlimit

import (
	"strings"
)

// RLimits defines the rlimit applied to the child process
type RLimits struct {
	// UnlimitedStack raises the stack limit to the maximum the OS allows.
	// On Windows the stack size is a link time property of the executable
	// and no rlimit is produced.
	UnlimitedStack bool
}

func (r RLimits) String() string {
	var sb strings.Builder
	sb.WriteString("RLimits[")
	for i, rl := range r.PrepareRLimit() {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(rl.String())
	}
	sb.WriteString("]")
	return sb.String()
}
