// Package forkexec starts a child process bound to the given standard
// streams with resource limits applied before the executable runs.
//
// On Linux and macOS the rlimits are set on the calling process around
// fork so the child inherits them. On Windows the child is created by
// CreateProcess with inheritable standard handles.
package forkexec
