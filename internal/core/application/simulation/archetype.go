package simulation

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"

	"delivery-sim/internal/core/domain/model/fleet"
	"delivery-sim/internal/core/domain/services/generator"
	"delivery-sim/internal/core/domain/services/rating"
	"delivery-sim/internal/pkg/errs"
)

// ErrMissingRater is returned when a problem of a group cannot be rated by one of
// the group's criteria.
var ErrMissingRater = errors.New("problem has no rater for criterion")

// ProblemArchetype is one delivery problem: a fleet in a region, the orders it
// receives, how it is rated and how long it runs.
type ProblemArchetype struct {
	name             string
	generatorFactory generator.Factory
	manager          *fleet.Manager
	raterFactories   map[rating.Criterion]rating.Factory
	length           int64
}

// NewProblemArchetype validates and creates a ProblemArchetype.
//
// Parameters:
//   - name: Non-blank name
//   - generatorFactory: Creates the orders of every run
//   - manager: The fleet and its region
//   - raterFactories: Raters by criterion
//   - length: Number of ticks of a run, not negative
//
// Returns:
//   - ProblemArchetype: The archetype
//   - error: Joined validation errors
func NewProblemArchetype(
	name string,
	generatorFactory generator.Factory,
	manager *fleet.Manager,
	raterFactories map[rating.Criterion]rating.Factory,
	length int64,
) (ProblemArchetype, error) {
	var errName, errGenerator, errManager, errRaters, errLength error
	if strings.TrimSpace(name) == "" {
		errName = errs.NewValueIsRequiredError("name")
	}
	if generatorFactory == nil {
		errGenerator = errs.NewValueIsRequiredError("order generator factory")
	}
	if manager == nil {
		errManager = errs.NewValueIsRequiredError("vehicle manager")
	}
	if raterFactories == nil {
		errRaters = errs.NewValueIsRequiredError("rater factories")
	}
	if length < 0 {
		errLength = errs.NewValueIsOutOfRangeError("simulation length", length, 0, "+inf")
	}
	if err := errors.Join(errName, errGenerator, errManager, errRaters, errLength); err != nil {
		return ProblemArchetype{}, err
	}

	return ProblemArchetype{
		name:             name,
		generatorFactory: generatorFactory,
		manager:          manager,
		raterFactories:   maps.Clone(raterFactories),
		length:           length,
	}, nil
}

func (p ProblemArchetype) Name() string {
	return p.name
}

func (p ProblemArchetype) GeneratorFactory() generator.Factory {
	return p.generatorFactory
}

func (p ProblemArchetype) Manager() *fleet.Manager {
	return p.manager
}

// RaterFactories returns a copy of the rater factories.
func (p ProblemArchetype) RaterFactories() map[rating.Criterion]rating.Factory {
	return maps.Clone(p.raterFactories)
}

// Criteria returns the criteria the archetype can be rated by, in order.
func (p ProblemArchetype) Criteria() []rating.Criterion {
	return slices.Sorted(maps.Keys(p.raterFactories))
}

func (p ProblemArchetype) Length() int64 {
	return p.length
}

func (p ProblemArchetype) String() string {
	return p.name
}

// ProblemGroup is a set of archetypes rated by common criteria.
type ProblemGroup struct {
	problems []ProblemArchetype
	criteria []rating.Criterion
}

// NewProblemGroup creates a group. Every problem must have a rater for every
// criterion, otherwise ErrMissingRater is returned.
func NewProblemGroup(problems []ProblemArchetype, criteria []rating.Criterion) (ProblemGroup, error) {
	for _, p := range problems {
		for _, c := range criteria {
			if _, ok := p.raterFactories[c]; !ok {
				return ProblemGroup{}, fmt.Errorf("%w: problem %s, criterion %s", ErrMissingRater, p.name, c)
			}
		}
	}
	return ProblemGroup{problems: slices.Clone(problems), criteria: slices.Clone(criteria)}, nil
}

func (g ProblemGroup) Problems() []ProblemArchetype {
	return slices.Clone(g.problems)
}

func (g ProblemGroup) Criteria() []rating.Criterion {
	return slices.Clone(g.criteria)
}
