package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/optionsbot"
	"github.com/aretw0/optionsbot/internal/presentation/tui"
	"github.com/aretw0/optionsbot/pkg/domain"
)

var errNoLibrary = errors.New("no library: pass --library <dir>")

func newLibraryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "library",
		Short: "Manage named scenarios",
	}
	cmd.AddCommand(newLibraryListCmd(), newLibraryShowCmd(), newLibraryAddCmd())
	return cmd
}

func newLibraryListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List scenario names",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			lib, err := openLibrary(cmd, true)
			if err != nil {
				return err
			}
			if lib == nil {
				return errNoLibrary
			}
			names, err := lib.List(cmd.Context())
			if err != nil {
				return err
			}
			for _, n := range names {
				fmt.Fprintln(cmd.OutOrStdout(), n)
			}
			return nil
		},
	}
}

func newLibraryShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <name>",
		Short: "Print a scenario",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			lib, err := openLibrary(cmd, true)
			if err != nil {
				return err
			}
			if lib == nil {
				return errNoLibrary
			}
			s, err := lib.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return tui.Print(cmd.OutOrStdout(), scenarioMarkdown(s))
		},
	}
}

func newLibraryAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add <name> [file]",
		Short: "Store a program as a named scenario",
		Long:  `Formats the program and saves it as <name>.md in the library. The program must compile.`,
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			lib, err := openLibrary(cmd, false)
			if err != nil {
				return err
			}
			if lib == nil {
				return errNoLibrary
			}
			data, err := readInput(cmd, args[1:])
			if err != nil {
				return err
			}
			if _, err := optionsbot.Compile(string(data)); err != nil {
				printErrors(cmd.ErrOrStderr(), inputName(args[1:]), domain.Messages(err))
				return fmt.Errorf("%s does not compile", inputName(args[1:]))
			}
			text, err := optionsbot.Format(string(data))
			if err != nil {
				return err
			}

			title, _ := cmd.Flags().GetString("title")
			description, _ := cmd.Flags().GetString("description")
			trials, _ := cmd.Flags().GetInt("trials")
			return lib.Save(cmd.Context(), &domain.Scenario{
				Name:        args[0],
				Title:       title,
				Description: description,
				Trials:      trials,
				Source:      text,
			})
		},
	}
	cmd.Flags().String("title", "", "Human readable title")
	cmd.Flags().String("description", "", "Short description")
	cmd.Flags().Int("trials", 0, "Trial count used when the scenario is simulated")
	return cmd
}

func scenarioMarkdown(s *domain.Scenario) string {
	title := s.Title
	if title == "" {
		title = s.Name
	}
	md := "# " + title + "\n\n"
	if s.Description != "" {
		md += s.Description + "\n\n"
	}
	if s.Trials > 0 {
		md += fmt.Sprintf("Runs %d trials by default.\n\n", s.Trials)
	}
	return md + "```\n" + s.Source + "\n```\n"
}
