package cli

import (
	"strings"

	"delivery-sim/internal/adapters/in/scenario"

	"github.com/spf13/cobra"
)

// NewScenariosCommand creates the scenarios command.
func NewScenariosCommand(rootOpts *RootOptions) *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:           "scenarios",
		Short:         "List the scenarios of a directory",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := &OutputFormatter{
				Format:    rootOpts.Format,
				Writer:    cmd.OutOrStdout(),
				ErrWriter: cmd.ErrOrStderr(),
				Verbose:   rootOpts.Verbose,
			}

			catalog, err := scenario.NewCatalog(dir)
			if err != nil {
				return formatter.Fail(ExitCommandError, ErrCodeNotFound, "cannot open "+dir, err)
			}
			names, err := catalog.Names()
			if err != nil {
				return formatter.Fail(ExitCommandError, ErrCodeGeneric, "cannot list "+dir, err)
			}

			text := ""
			if len(names) > 0 {
				text = strings.Join(names, "\n") + "\n"
			}
			return formatter.Success(names, text)
		},
	}

	cmd.Flags().StringVar(&dir, "dir", "scenarios", "scenario directory")

	return cmd
}
