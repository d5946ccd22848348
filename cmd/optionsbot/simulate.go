package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/optionsbot"
	"github.com/aretw0/optionsbot/internal/numfmt"
	"github.com/aretw0/optionsbot/internal/presentation/tui"
	"github.com/aretw0/optionsbot/pkg/domain"
	"github.com/aretw0/optionsbot/pkg/runner"
)

func newSimulateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "simulate [file]",
		Short: "Run a Monte Carlo batch over a program",
		Long: `Runs a batch of independent trials and summarizes the profit distribution.
The program comes from a file, stdin, --scenario or, with --default, the
built-in example. Flags override the profile, which overrides the defaults.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			scenario, _ := flags.GetString("scenario")
			useDefault, _ := flags.GetBool("default")
			asJSON, _ := flags.GetBool("json")

			profile, err := loadProfile(cmd)
			if err != nil {
				return err
			}
			eng, cleanup, err := buildEngine(cmd, engineSetup{profile: profile})
			if err != nil {
				return err
			}
			defer cleanup()

			var opts []runner.Option
			if flags.Changed("trials") {
				n, _ := flags.GetInt("trials")
				opts = append(opts, runner.WithTrials(n))
			}
			if flags.Changed("workers") {
				n, _ := flags.GetInt("workers")
				opts = append(opts, runner.WithWorkers(n))
			}
			if flags.Changed("seed") {
				seed, _ := flags.GetUint64("seed")
				opts = append(opts, runner.WithSeed(seed))
			}
			if keep, _ := flags.GetBool("keep-outcomes"); keep {
				opts = append(opts, runner.WithKeepOutcomes(true))
			}
			if sets, _ := flags.GetStringToString("set"); len(sets) > 0 {
				overrides, err := parseOverrides(sets)
				if err != nil {
					return err
				}
				opts = append(opts, runner.WithVariables(overrides))
			}

			var report *domain.Report
			switch {
			case scenario != "":
				report, err = eng.SimulateScenario(cmd.Context(), scenario, opts...)
			case useDefault:
				report, err = eng.Simulate(cmd.Context(), optionsbot.DefaultProgram, opts...)
			default:
				data, rerr := readInput(cmd, args)
				if rerr != nil {
					return rerr
				}
				report, err = eng.Simulate(cmd.Context(), string(data), opts...)
			}
			if err != nil {
				printErrors(cmd.ErrOrStderr(), inputName(args), domain.Messages(err))
				return fmt.Errorf("simulation failed")
			}

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(report)
			}
			out := cmd.OutOrStdout()
			if err := tui.Print(out, tui.ReportMarkdown(report)); err != nil {
				return err
			}
			if tui.IsTerminal(out) {
				fmt.Fprintf(out, "Mean profit: %s\n", tui.Profit(report.Summary.MeanProfit, numfmt.Cents(report.Summary.MeanProfit)))
			}
			return nil
		},
	}

	flags := cmd.Flags()
	flags.Int("trials", runner.DefaultTrials, "Number of trials")
	flags.Int("workers", 0, "Worker goroutines (0 means one per CPU)")
	flags.Uint64("seed", 0, "Fixed seed for a reproducible batch")
	flags.Bool("keep-outcomes", false, "Include every trial outcome in the report")
	flags.Bool("json", false, "Print the report as JSON")
	flags.String("scenario", "", "Run a named scenario from --library")
	flags.Bool("default", false, "Run the built-in example program")
	flags.String("profile", "", "Batch profile (.yaml, .json or .hcl)")
	flags.StringToString("set", nil, "Override header variables, e.g. --set totalGrant=400")
	return cmd
}

func parseOverrides(sets map[string]string) (map[string]float64, error) {
	out := make(map[string]float64, len(sets))
	for name, raw := range sets {
		prog, err := optionsbot.Parse(fmt.Sprintf("[%s=%s]{}", name, raw))
		if err != nil || len(prog.Variables) != 1 {
			return nil, fmt.Errorf("invalid --set %s=%s", name, raw)
		}
		out[name] = prog.Variables[0].Value
	}
	return out, nil
}
