package cmd

import (
	"fmt"

	"github.com/KostasZigo/gitodb/internal/errdefs"
	"github.com/spf13/cobra"
)

// maximumArgs validates command receives at most n positional arguments.
// Enables usage printing in case of error.
func maximumArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) > n {
			cmd.SilenceUsage = false
			return fmt.Errorf("%w: %s command accepts at most %d arg(s), received %d",
				errdefs.ErrUsage, cmd.Name(), n, len(args))
		}
		return nil
	}
}

// exactArgs validates command receives exactly n positional arguments.
// Enables usage printing in case of error.
func exactArgs(n int, what string) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) != n {
			cmd.SilenceUsage = false
			return fmt.Errorf("%w: %s command requires exactly %d argument (%s), received %d",
				errdefs.ErrUsage, cmd.Name(), n, what, len(args))
		}
		return nil
	}
}

// minimumArgs validates command receives at least n positional arguments.
func minimumArgs(n int, what string) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) < n {
			cmd.SilenceUsage = false
			return fmt.Errorf("%w: %s command requires at least %d argument (%s), received %d",
				errdefs.ErrUsage, cmd.Name(), n, what, len(args))
		}
		return nil
	}
}
