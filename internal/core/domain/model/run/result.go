package run

import (
	"errors"
	"maps"
	"slices"
	"strings"
	"time"

	"delivery-sim/internal/core/domain/model/kernel"
	"delivery-sim/internal/pkg/errs"
	"delivery-sim/internal/pkg/guard"
)

var (
	// ErrScenarioIsRequired is returned for a result without a scenario name.
	ErrScenarioIsRequired = errs.NewValueIsRequiredError("scenario")
	// ErrServiceIsRequired is returned for a result without a delivery service kind.
	ErrServiceIsRequired = errs.NewValueIsRequiredError("service")
	// ErrScoresAreRequired is returned for a result without any score.
	ErrScoresAreRequired = errs.NewValueIsRequiredError("scores")
	// ErrResultIsNotConstructed is returned when using a zero Result.
	ErrResultIsNotConstructed = errors.New("Result must be created via NewResult constructor")
)

// Result is the outcome of running one scenario several times with one delivery
// service.
//
// Business rules:
//   - The id is a valid UUID
//   - Scenario and service are not blank
//   - Runs is at least 1
//   - There is at least one score, every score lies in [0, 1]
//
// Example:
//
//	result, err := run.NewResult(kernel.NewUUID(), "friday", "basic", 3,
//	    map[string]float64{"amount_delivered": 0.97}, time.Now())
//	if err != nil {
//	    return err
//	}
//	fmt.Println(result.Score("amount_delivered"))
type Result struct {
	id         kernel.UUID
	scenario   string
	service    string
	runs       int
	scores     map[string]float64
	finishedAt time.Time

	guard guard.ConstructorGuard
}

// NewResult creates a result.
//
// Parameters:
//   - id: Identifier of the result
//   - scenario: Name of the simulated scenario
//   - service: Kind of the delivery service that was rated
//   - runs: Runs per problem the scores were averaged over
//   - scores: Mean score per criterion key, copied
//   - finishedAt: End of the last run, stored in UTC
//
// Returns:
//   - *Result: The result
//   - error: Joined validation errors
func NewResult(
	id kernel.UUID,
	scenario string,
	service string,
	runs int,
	scores map[string]float64,
	finishedAt time.Time,
) (*Result, error) {
	r := &Result{guard: guard.NewConstructorGuard()}

	if err := errors.Join(
		r.setID(id),
		r.setScenario(scenario),
		r.setService(service),
		r.setRuns(runs),
		r.setScores(scores),
	); err != nil {
		return nil, err
	}
	r.finishedAt = finishedAt.UTC()

	return r, nil
}

// RestoreResult rebuilds a persisted result. It applies the same rules as NewResult.
func RestoreResult(
	id kernel.UUID,
	scenario string,
	service string,
	runs int,
	scores map[string]float64,
	finishedAt time.Time,
) (*Result, error) {
	return NewResult(id, scenario, service, runs, scores, finishedAt)
}

func (r *Result) Validate() error {
	return r.guard.Validate(ErrResultIsNotConstructed)
}

func (r *Result) ID() kernel.UUID {
	return r.id
}

func (r *Result) Scenario() string {
	return r.scenario
}

func (r *Result) Service() string {
	return r.service
}

func (r *Result) Runs() int {
	return r.runs
}

// Scores returns a copy of the mean score per criterion key.
func (r *Result) Scores() map[string]float64 {
	return maps.Clone(r.scores)
}

// Score returns the mean score of criterion, false if it was not rated.
func (r *Result) Score(criterion string) (float64, bool) {
	s, ok := r.scores[criterion]
	return s, ok
}

// Criteria returns the rated criterion keys in ascending order.
func (r *Result) Criteria() []string {
	return slices.Sorted(maps.Keys(r.scores))
}

func (r *Result) FinishedAt() time.Time {
	return r.finishedAt
}

func (r *Result) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	r.id = id
	return nil
}

func (r *Result) setScenario(scenario string) error {
	if strings.TrimSpace(scenario) == "" {
		return ErrScenarioIsRequired
	}
	r.scenario = scenario
	return nil
}

func (r *Result) setService(service string) error {
	if strings.TrimSpace(service) == "" {
		return ErrServiceIsRequired
	}
	r.service = service
	return nil
}

func (r *Result) setRuns(runs int) error {
	if runs < 1 {
		return errs.NewValueIsOutOfRangeError("runs", runs, 1, "+inf")
	}
	r.runs = runs
	return nil
}

func (r *Result) setScores(scores map[string]float64) error {
	if len(scores) == 0 {
		return ErrScoresAreRequired
	}
	var scoreErrs []error
	for _, key := range slices.Sorted(maps.Keys(scores)) {
		if strings.TrimSpace(key) == "" {
			scoreErrs = append(scoreErrs, errs.NewValueIsRequiredError("criterion"))
			continue
		}
		if s := scores[key]; s < 0 || s > 1 {
			scoreErrs = append(scoreErrs, errs.NewValueIsOutOfRangeError("score of "+key, s, 0, 1))
		}
	}
	if err := errors.Join(scoreErrs...); err != nil {
		return err
	}
	r.scores = maps.Clone(scores)
	return nil
}
