package cli

import (
	"os"

	"delivery-sim/internal/adapters/in/scenario"

	"github.com/spf13/cobra"
)

// ExportOptions holds flags for the export command.
type ExportOptions struct {
	*RootOptions
	Dir    string
	Output string
}

// NewExportCommand creates the export command.
func NewExportCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ExportOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "export <scenario>",
		Short: "Print a scenario in normal form",
		Long: `Build a scenario and export it again: defaults are filled in, nodes and edges
are ordered by location and consecutive identical vehicles are merged.

Example:
  simctl export friday --dir ./scenarios
  simctl export ./draft.yaml --output ./scenarios/draft.yaml`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Dir, "dir", "scenarios", "scenario directory for names")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "write to file instead of stdout")

	return cmd
}

func runExport(opts *ExportOptions, ref string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	doc, err := loadScenario(ref, opts.Dir)
	if err != nil {
		return failLoad(formatter, ref, err)
	}
	archetype, err := doc.Archetype(formatter.Logger())
	if err != nil {
		return formatter.Fail(ExitFailure, ErrCodeInvalidScenario, "invalid scenario: "+ref, err)
	}

	exported, err := scenario.Export(archetype)
	if err != nil {
		return formatter.Fail(ExitFailure, ErrCodeExport, "cannot export scenario: "+ref, err)
	}
	exported.Description = doc.Description

	data, err := scenario.Marshal(exported)
	if err != nil {
		return formatter.Fail(ExitFailure, ErrCodeExport, "cannot encode scenario: "+ref, err)
	}

	if opts.Output == "" {
		return formatter.Success(exported, string(data))
	}

	if err = os.WriteFile(opts.Output, data, 0o644); err != nil { //nolint:gosec // scenario files are not secret
		return formatter.Fail(ExitCommandError, ErrCodeWriteFailed, "cannot write "+opts.Output, err)
	}
	formatter.VerboseLog("wrote %s", opts.Output)
	return formatter.Success(map[string]string{"output": opts.Output}, "")
}
