package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/optionsbot"
	"github.com/aretw0/optionsbot/internal/presentation/graph"
	"github.com/aretw0/optionsbot/pkg/domain"
)

func newGraphCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "graph [file]",
		Short: "Draw a program's decision tree as a Mermaid flowchart",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(cmd, args)
			if err != nil {
				return err
			}
			prog, err := optionsbot.Parse(string(data))
			if err != nil {
				printErrors(cmd.ErrOrStderr(), inputName(args), domain.Messages(err))
				return fmt.Errorf("%s does not parse", inputName(args))
			}
			fmt.Fprint(cmd.OutOrStdout(), graph.GenerateMermaid(prog))
			return nil
		},
	}
}
