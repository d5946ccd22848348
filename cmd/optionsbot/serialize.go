package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aretw0/optionsbot"
	"github.com/aretw0/optionsbot/pkg/domain"
	"github.com/aretw0/optionsbot/pkg/serialization"
)

func newSerializeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serialize [file]",
		Short: "Convert a program into the structured stage list",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output, _ := cmd.Flags().GetString("output")
			data, err := readInput(cmd, args)
			if err != nil {
				return err
			}

			doc, err := optionsbot.Serialize(string(data))
			if err != nil {
				printErrors(cmd.ErrOrStderr(), inputName(args), domain.Messages(err))
				return fmt.Errorf("%s does not parse", inputName(args))
			}

			if editor, _ := cmd.Flags().GetBool("editor"); editor {
				for _, reason := range serialization.EditorSupported(doc) {
					fmt.Fprintf(cmd.ErrOrStderr(), "not editable as stages: %s\n", reason)
				}
			}

			var out []byte
			switch output {
			case "json":
				out, err = serialization.ToJSON(doc)
			case "yaml":
				out, err = serialization.ToYAML(doc)
			case "compact":
				prog, perr := doc.Program()
				if perr != nil {
					return perr
				}
				out = []byte(serialization.Compact(prog))
			default:
				return fmt.Errorf("unknown output format %q (json, yaml, compact)", output)
			}
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), strings.TrimRight(string(out), "\n"))
			return nil
		},
	}
	cmd.Flags().StringP("output", "o", "json", "Output format (json, yaml, compact)")
	cmd.Flags().Bool("editor", false, "Warn about structures the stage editor cannot show")
	return cmd
}

func newDeserializeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "deserialize [file]",
		Short: "Convert a structured stage list back into a program",
		Long: `Reads a structured document (JSON or YAML, from a file or stdin) and prints
the program in canonical form.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input, _ := cmd.Flags().GetString("input")
			data, err := readInput(cmd, args)
			if err != nil {
				return err
			}
			if input == "" {
				input = "json"
				if len(args) > 0 {
					if ext := strings.ToLower(filepath.Ext(args[0])); ext == ".yaml" || ext == ".yml" {
						input = "yaml"
					}
				}
			}

			var doc *serialization.Document
			switch input {
			case "json":
				doc, err = serialization.FromJSON(data)
			case "yaml":
				doc, err = serialization.FromYAML(data)
			default:
				return fmt.Errorf("unknown input format %q (json, yaml)", input)
			}
			if err != nil {
				return err
			}

			src, err := optionsbot.Deserialize(doc)
			if err != nil {
				return err
			}
			text, err := optionsbot.Format(src)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), text)
			return nil
		},
	}
	cmd.Flags().StringP("input", "i", "", "Input format (json, yaml); guessed from the file extension when empty")
	return cmd
}
