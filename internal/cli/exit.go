package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// ExitError is an error that carries a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// exactArgs is cobra.ExactArgs reporting a usage error (exit code 2).
func exactArgs(n int, names ...string) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) == n {
			return nil
		}
		msg := fmt.Sprintf("%s: accepts %d arg(s), received %d", cmd.CommandPath(), n, len(args))
		if len(args) < n && len(names) > len(args) {
			msg = fmt.Sprintf("%s: missing required argument %s", cmd.CommandPath(), names[len(args)])
		}
		return &ExitError{Code: 2, Message: msg}
	}
}

// noSubcommand rejects positional arguments on the root command, which
// only appear when no subcommand matched.
func noSubcommand(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return nil
	}
	msg := fmt.Sprintf("unknown command %q for %q", args[0], cmd.CommandPath())
	if suggestions := cmd.SuggestionsFor(args[0]); len(suggestions) > 0 {
		msg += fmt.Sprintf(" (did you mean %q?)", suggestions[0])
	}
	return &ExitError{Code: 2, Message: msg}
}
