package scenario

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"delivery-sim/internal/core/application/simulation"
	"delivery-sim/internal/pkg/errs"
)

var extensions = []string{".yaml", ".yml"}

// Catalog serves the scenario files of one directory by file name without
// extension.
type Catalog struct {
	dir    string
	logger *slog.Logger
}

// NewCatalog opens the scenario directory dir.
func NewCatalog(dir string) (*Catalog, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("open scenario directory: %w", err)
	}
	if !info.IsDir() {
		return nil, errs.NewValueIsInvalidErrorWithCause("scenario directory", fmt.Errorf("%s is not a directory", dir))
	}
	return &Catalog{dir: dir}, nil
}

func (c *Catalog) Dir() string {
	return c.dir
}

// SetLogger sets the logger handed to the fleets of built scenarios.
func (c *Catalog) SetLogger(logger *slog.Logger) {
	c.logger = logger
}

// Names lists the scenarios of the directory in ascending order.
func (c *Catalog) Names() ([]string, error) {
	entries, err := os.ReadDir(c.dir)
	if err != nil {
		return nil, fmt.Errorf("list scenario directory: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		ext := filepath.Ext(e.Name())
		if e.IsDir() || !slices.Contains(extensions, ext) {
			continue
		}
		names = append(names, strings.TrimSuffix(e.Name(), ext))
	}
	slices.Sort(names)
	return slices.Compact(names), nil
}

// Load parses the scenario called name.
//
// Returns:
//   - *Document: The parsed document
//   - error: ObjectNotFoundError if the directory holds no such scenario, or the
//     parse error of the file
func (c *Catalog) Load(name string) (*Document, error) {
	if name == "" || filepath.Base(name) != name || strings.HasPrefix(name, ".") {
		return nil, errs.NewObjectNotFoundError("scenario", name)
	}

	for _, ext := range extensions {
		doc, err := Load(filepath.Join(c.dir, name+ext))
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		return doc, err
	}
	return nil, errs.NewObjectNotFoundError("scenario", name)
}

// ProblemGroup loads the scenario called name and builds a fresh problem group
// of it. Every call reads the file again, so edits apply to the next run.
func (c *Catalog) ProblemGroup(name string) (simulation.ProblemGroup, error) {
	doc, err := c.Load(name)
	if err != nil {
		return simulation.ProblemGroup{}, err
	}
	return doc.Group(c.logger)
}
