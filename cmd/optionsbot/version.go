package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aretw0/optionsbot"
	"github.com/aretw0/optionsbot/internal/presentation/tui"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number of optionsbot",
		Run: func(cmd *cobra.Command, args []string) {
			if tui.IsTerminal(cmd.OutOrStdout()) {
				tui.PrintBanner(cmd.OutOrStdout())
			}
			fmt.Fprintf(cmd.OutOrStdout(), "optionsbot version %s\n", strings.TrimSpace(optionsbot.Version))
		},
	}
}
