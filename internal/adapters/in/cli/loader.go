package cli

import (
	"errors"
	"io/fs"
	"os"

	"delivery-sim/internal/adapters/in/scenario"
	"delivery-sim/internal/pkg/errs"
)

// loadScenario reads ref as a file path if such a file exists, otherwise as a
// scenario name of the catalog in dir.
func loadScenario(ref string, dir string) (*scenario.Document, error) {
	if info, err := os.Stat(ref); err == nil && !info.IsDir() {
		return scenario.Load(ref)
	}

	catalog, err := scenario.NewCatalog(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, errs.NewObjectNotFoundErrorWithCause("scenario", ref, err)
		}
		return nil, err
	}
	return catalog.Load(ref)
}

// failLoad reports a loadScenario error with the matching codes.
func failLoad(formatter *OutputFormatter, ref string, err error) error {
	switch {
	case errors.Is(err, errs.ErrObjectNotFound):
		return formatter.Fail(ExitCommandError, ErrCodeNotFound, "scenario not found: "+ref, err)
	case errors.Is(err, scenario.ErrInvalidScenario):
		return formatter.Fail(ExitFailure, ErrCodeInvalidScenario, "invalid scenario: "+ref, err)
	default:
		return formatter.Fail(ExitCommandError, ErrCodeGeneric, "cannot read scenario: "+ref, err)
	}
}
