// Package ports defines the persistence contracts of the simulation service.
// Adapters implement them; use cases depend only on these interfaces.
package ports

import (
	"context"

	"delivery-sim/internal/core/domain/model/kernel"
	"delivery-sim/internal/core/domain/model/run"
)

// RunRepository stores the results of finished simulation batches.
type RunRepository interface {
	// Add persists a new result. Results are immutable, there is no Update.
	Add(ctx context.Context, result *run.Result) error

	// Get returns the result with the given id, or an ObjectNotFoundError.
	Get(ctx context.Context, id kernel.UUID) (*run.Result, error)

	// List returns the stored results of scenario, newest first. An empty
	// scenario lists every result. A limit of 0 or less means no limit.
	List(ctx context.Context, scenario string, limit int) ([]*run.Result, error)
}
