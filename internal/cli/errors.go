package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

// usageError marks mistakes in how the command was invoked (exit code 2).
type usageError struct {
	msg string
}

func (e usageError) Error() string { return e.msg }

// refError reports an item reference that matched nothing, or too much.
type refError struct {
	ref    string
	reason string
}

func (e refError) Error() string {
	return fmt.Sprintf("%s: %s", e.reason, e.ref)
}

// ExitCode maps an error from the command tree to a process exit code.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var ue usageError
	var re refError
	if errors.As(err, &ue) || errors.As(err, &re) {
		return 2
	}
	return 1
}

func exactArgs(n int, usage string) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) != n {
			return usageError{"usage: " + usage}
		}
		return nil
	}
}

func minArgs(n int, usage string) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) < n {
			return usageError{"usage: " + usage}
		}
		return nil
	}
}

func noArgs(name string) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) > 0 {
			return usageError{fmt.Sprintf("unknown subcommand: %s (see `%s --help`)", args[0], name)}
		}
		return nil
	}
}
