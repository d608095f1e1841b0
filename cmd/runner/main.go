// Command runner executes one program with its standard streams redirected to
// files, listens on its own stdin for the kill byte, and prints a single JSON
// line with the verdict and the resources used. The exit status is always 0.
//
//	runner <executable> <stdin_file> <stdout_file> <stderr_file> [--unlimited-stack]
package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/judgekit/procrunner/runner"
	"github.com/judgekit/procrunner/runner/native"
)

const logLevelEnv = "PROCRUNNER_LOG_LEVEL"

var noFlags = 0

func main() {
	run(context.Background(), os.Args, os.Stdin, os.Stdout, os.Stderr, native.Backend{})
}

// run parses args, executes the request on backend and writes exactly one
// outcome to stdout
func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer, backend runner.Backend) {
	if len(args) == 0 {
		args = []string{"runner"}
	}
	rep := runner.NewReporter(stdout)
	defer func() {
		if r := recover(); r != nil {
			rep.Emit(runner.NewFailure(fmt.Errorf("panic: %v", r)))
		}
	}()

	cmd := &cli.Command{
		Name:        "runner",
		Usage:       "run a program with redirected stdio and report its resource usage",
		ArgsUsage:   "<executable> <stdin_file> <stdout_file> <stderr_file> [" + runner.UnlimitedStackArg + "]",
		HideHelp:    true,
		HideVersion: true,
		Writer:      stderr,
		ErrWriter:   stderr,
		// every token is positional, paths may start with '-'. Flags are only
		// set from the environment.
		StopOnNthArg: &noFlags,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "diagnostic log level written to stderr (debug, info, warn, error)",
				Value:   "error",
				Sources: cli.EnvVars(logLevelEnv),
			},
		},
		OnUsageError: func(ctx context.Context, cmd *cli.Command, err error, isSubcommand bool) error {
			return runner.NewError(runner.ArgumentError, err)
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			logger := newLogger(stderr, cmd.String("log-level"))

			// taken from args, cli drops a leading "--" or empty token
			req, err := runner.ParseRequest(args[1:])
			if err != nil {
				return err
			}

			r := runner.Runner{
				Backend: backend,
				Control: stdin,
				Logger:  logger,
			}
			return rep.Emit(r.Run(ctx, req))
		},
	}

	if err := cmd.Run(ctx, args); err != nil && !rep.Emitted() {
		rep.Emit(runner.NewFailure(err))
	}
	if !rep.Emitted() {
		rep.Emit(runner.NewFailure(nil))
	}
}
