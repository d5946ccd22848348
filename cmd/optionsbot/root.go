package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/aretw0/lifecycle"
	"github.com/spf13/cobra"

	"github.com/aretw0/optionsbot/internal/logging"
)

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	ctx := lifecycle.NewSignalContext(context.Background())
	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "optionsbot",
		Short: "optionsbot simulates what startup stock options may be worth",
		Long: `optionsbot compiles small programs describing a company's possible futures
and an employee's option grant, then runs Monte Carlo batches over them.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Persistent flags (available to all commands)
	flags := rootCmd.PersistentFlags()
	flags.String("log-level", "warn", "Log level (debug, info, warn, error)")
	flags.String("log-format", "text", "Log format (text, json)")
	flags.String("library", "", "Directory holding named scenarios as markdown files")
	flags.String("redis", "", "Redis address for report storage (host:port); memory when empty")
	flags.Bool("lenient-else", false, "Accept several else branches per actor and pick one at random")

	rootCmd.AddCommand(
		newCheckCmd(),
		newFormatCmd(),
		newSerializeCmd(),
		newDeserializeCmd(),
		newSimulateCmd(),
		newGraphCmd(),
		newLibraryCmd(),
		newServeCmd(),
		newMCPCmd(),
		newVersionCmd(),
	)
	return rootCmd
}

func loggerFrom(cmd *cobra.Command) *slog.Logger {
	level, _ := cmd.Flags().GetString("log-level")
	format, _ := cmd.Flags().GetString("log-format")
	return logging.NewWithFormat(cmd.ErrOrStderr(), logging.ParseLevel(level), format)
}
