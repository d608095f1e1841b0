// Package runner runs a single program with redirected standard streams,
// measures the resources it used and reports one structured verdict.
//
// # Protocol
//
// Every invocation produces exactly one payload line, either a Result
//
//	{"error":false,"killed":false,"time":1.5,"memory":1024,"exitCode":0,"signal":0}
//
// or a Failure
//
//	{"error":true,"error_type":0,"error_code":2}
//
// where error_type is one of the ErrorKind ordinals and error_code is the raw
// OS error code behind it.
//
// # Cancellation
//
// While the child runs the Listener reads the runner's own standard input one
// byte at a time. The byte 'k' terminates the child forcefully. Other bytes and
// end of input are ignored.
//
// # Backend
//
// Backend abstracts the platform process model: Spawn creates the Child,
// Child.Wait blocks until it terminated, Child.Usage returns the post-mortem
// CPU time and peak memory, and Terminator.Terminate kills it.
package runner
