package cli

import (
	"context"
	"fmt"

	"github.com/lifeisriding/slimductor/errors"
	"github.com/spf13/cobra"
)

// Result records how a command invocation went. Hooks must never be
// blocked by the registry, so a failed Result is only logged; the process
// still exits successfully.
type Result struct {
	// Command is the path of the command that ran, e.g. "slimductor check".
	Command string
	// Err is the failure, if any. Panics are converted to INTERNAL_ERROR.
	Err error
	// Panicked is set when the command panicked.
	Panicked bool
}

// OK reports whether the command succeeded.
func (r Result) OK() bool {
	return r.Err == nil
}

// Execute runs root and captures every failure, including panics, in the
// returned Result. Failures are logged and, with --verbose, printed to
// stderr.
func Execute(ctx context.Context, root *cobra.Command) (res Result) {
	root.SilenceErrors = true
	root.SilenceUsage = true
	res.Command = root.CommandPath()

	defer func() {
		if r := recover(); r != nil {
			res.Panicked = true
			res.Err = errors.Internal(fmt.Sprintf("panic: %v", r), nil)
		}
		report(root, res)
	}()

	cmd, err := root.ExecuteContextC(ctx)
	if cmd != nil {
		res.Command = cmd.CommandPath()
	}
	res.Err = err
	return res
}

// report logs a failed result. It must not panic itself.
func report(root *cobra.Command, res Result) {
	if res.OK() {
		return
	}
	defer func() { _ = recover() }()

	logger := GetLogger(root)
	logger.WithError(res.Err).WithField("command", res.Command).Warn("Command failed")

	if GetOptions(root).Verbose {
		NewErrorHandler(true).Handle(root.ErrOrStderr(), res.Err)
	}
}
