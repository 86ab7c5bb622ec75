package queries

import (
	"errors"

	"delivery-sim/internal/core/domain/model/kernel"
	"delivery-sim/internal/pkg/guard"
)

var ErrGetRunResultQueryIsNotConstructed = errors.New(
	"GetRunResultQuery must be created via NewGetRunResultQuery constructor",
)

// GetRunResultQuery retrieves one stored run result by id.
//
// Example:
//
//	query, err := NewGetRunResultQuery(runID)
//	if err != nil {
//	    return err
//	}
//	result, err := NewGetRunResultQueryHandler(db).Handle(ctx, query)
type GetRunResultQuery struct {
	runID kernel.UUID

	guard guard.ConstructorGuard
}

// NewGetRunResultQuery creates the query. The id must be valid.
func NewGetRunResultQuery(runID kernel.UUID) (GetRunResultQuery, error) {
	if err := runID.Validate(); err != nil {
		return GetRunResultQuery{}, err
	}
	return GetRunResultQuery{runID: runID, guard: guard.NewConstructorGuard()}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetRunResultQuery) Validate() error {
	return q.guard.Validate(ErrGetRunResultQueryIsNotConstructed)
}

func (q GetRunResultQuery) RunID() kernel.UUID {
	return q.runID
}
