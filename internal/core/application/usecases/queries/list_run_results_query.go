package queries

import (
	"errors"

	"delivery-sim/internal/pkg/errs"
	"delivery-sim/internal/pkg/guard"
)

// MaxListLimit caps the number of results one ListRunResultsQuery returns.
const MaxListLimit = 500

var ErrListRunResultsQueryIsNotConstructed = errors.New(
	"ListRunResultsQuery must be created via NewListRunResultsQuery constructor",
)

// ListRunResultsQuery retrieves the newest run results, optionally of one
// scenario only.
//
// Example:
//
//	query, _ := NewListRunResultsQuery("friday", 10)
//	results, err := NewListRunResultsQueryHandler(db).Handle(ctx, query)
//	if err != nil {
//	    return fmt.Errorf("failed to list results: %w", err)
//	}
//	for _, r := range results {
//	    fmt.Printf("%s %s %v\n", r.FinishedAt, r.Service, r.Scores)
//	}
type ListRunResultsQuery struct {
	scenario string
	limit    int

	guard guard.ConstructorGuard
}

// NewListRunResultsQuery creates the query. An empty scenario lists every
// scenario; limit must lie in [1, MaxListLimit].
func NewListRunResultsQuery(scenario string, limit int) (ListRunResultsQuery, error) {
	if limit < 1 || limit > MaxListLimit {
		return ListRunResultsQuery{}, errs.NewValueIsOutOfRangeError("limit", limit, 1, MaxListLimit)
	}
	return ListRunResultsQuery{scenario: scenario, limit: limit, guard: guard.NewConstructorGuard()}, nil
}

func (q ListRunResultsQuery) Validate() error {
	return q.guard.Validate(ErrListRunResultsQueryIsNotConstructed)
}

func (q ListRunResultsQuery) Scenario() string {
	return q.scenario
}

func (q ListRunResultsQuery) Limit() int {
	return q.limit
}
