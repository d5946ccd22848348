package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/optionsbot"
	"github.com/aretw0/optionsbot/pkg/domain"
)

func newFormatCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "format [file]",
		Short: "Print a program in canonical form",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			write, _ := cmd.Flags().GetBool("write")
			data, err := readInput(cmd, args)
			if err != nil {
				return err
			}

			text, err := optionsbot.Format(string(data))
			if err != nil {
				printErrors(cmd.ErrOrStderr(), inputName(args), domain.Messages(err))
				return fmt.Errorf("%s does not parse", inputName(args))
			}

			if write && len(args) > 0 && args[0] != "-" {
				if err := os.WriteFile(args[0], []byte(text+"\n"), 0o644); err != nil {
					return fmt.Errorf("failed to write %s: %w", args[0], err)
				}
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), text)
			return nil
		},
	}
	cmd.Flags().BoolP("write", "w", false, "Write the result back to the file instead of stdout")
	return cmd
}
