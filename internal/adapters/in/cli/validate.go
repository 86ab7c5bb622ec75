package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// ValidateOptions holds flags for the validate command.
type ValidateOptions struct {
	*RootOptions
	Dir string
}

// ScenarioCheck is the outcome of validating one scenario.
type ScenarioCheck struct {
	Scenario string `json:"scenario"`
	Valid    bool   `json:"valid"`
	Error    string `json:"error,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ValidateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "validate <scenario>...",
		Short: "Validate scenarios without simulating them",
		Long: `Parse every scenario and build its region, fleet, order generator and raters.
Reports every scenario instead of stopping at the first invalid one.

Example:
  simctl validate ./scenarios/*.yaml
  simctl validate friday lunch --dir ./scenarios`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(opts, args, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Dir, "dir", "scenarios", "scenario directory for names")

	return cmd
}

func runValidate(opts *ValidateOptions, refs []string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}
	logger := formatter.Logger()

	checks := make([]ScenarioCheck, 0, len(refs))
	invalid := 0
	for _, ref := range refs {
		check := ScenarioCheck{Scenario: ref, Valid: true}
		doc, err := loadScenario(ref, opts.Dir)
		if err == nil {
			_, err = doc.Archetype(logger)
		}
		if err != nil {
			check.Valid = false
			check.Error = err.Error()
			invalid++
		}
		formatter.VerboseLog("checked %s", ref)
		checks = append(checks, check)
	}

	var text strings.Builder
	for _, c := range checks {
		if c.Valid {
			fmt.Fprintf(&text, "✓ %s\n", c.Scenario)
		} else {
			fmt.Fprintf(&text, "✗ %s\n  %s\n", c.Scenario, c.Error)
		}
	}
	if err := formatter.Success(checks, text.String()); err != nil {
		return err
	}

	if invalid > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%s: %d of %d scenario(s) invalid", ErrCodeInvalidScenario, invalid, len(checks)))
	}
	return nil
}
