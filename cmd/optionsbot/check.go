package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/optionsbot/pkg/domain"
)

// errFindings makes check --strict exit non-zero without printing twice.
var errFindings = errors.New("lint findings")

func newCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check [file]",
		Short: "Compile a program and report mistakes",
		Long: `Compiles a program (from a file or stdin) and lists header values outside
their allowed range, branches that can never be drawn and ranges written high
to low. With --strict any finding fails the command.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			strict, _ := cmd.Flags().GetBool("strict")
			data, err := readInput(cmd, args)
			if err != nil {
				return err
			}
			profile, err := loadProfile(cmd)
			if err != nil {
				return err
			}
			eng, cleanup, err := buildEngine(cmd, engineSetup{profile: profile})
			if err != nil {
				return err
			}
			defer cleanup()

			name := inputName(args)
			findings, err := eng.Check(string(data))
			if err != nil {
				printErrors(cmd.ErrOrStderr(), name, domain.Messages(err))
				return fmt.Errorf("%s does not compile", name)
			}
			for _, f := range findings {
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", name, f)
			}
			if len(findings) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "%s: ok\n", name)
				return nil
			}
			if strict {
				return fmt.Errorf("%w: %d in %s", errFindings, len(findings), name)
			}
			return nil
		},
	}
	cmd.Flags().Bool("strict", false, "Fail when there are lint findings")
	cmd.Flags().String("profile", "", "Batch profile whose constraints are checked too")
	return cmd
}
