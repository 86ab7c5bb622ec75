// Package queries contains read operations for retrieving stored run results.
// Queries bypass the domain model and read the tables with plain SQL.
package queries

import (
	"database/sql"
	"time"

	"delivery-sim/internal/core/domain/model/kernel"

	"github.com/google/uuid"
)

// RunResultResponse is the read model of a stored run result.
//
// Example:
//
//	response := RunResultResponse{
//	    ID:         kernel.NewUUID(),
//	    Scenario:   "friday",
//	    Service:    "basic",
//	    Runs:       3,
//	    FinishedAt: time.Now().UTC(),
//	    Scores:     map[string]float64{"in_time": 0.82, "amount_delivered": 1},
//	}
type RunResultResponse struct {
	ID         kernel.UUID
	Scenario   string
	Service    string
	Runs       int
	FinishedAt time.Time
	Scores     map[string]float64
}

const runResultColumns = `
	r.id,
	r.scenario,
	r.service,
	r.runs,
	r.finished_at,
	s.criterion,
	s.value`

// scanRunResults folds one row per score into one response per run. Rows of the
// same run must be adjacent.
func scanRunResults(rows *sql.Rows) ([]RunResultResponse, error) {
	results := make([]RunResultResponse, 0)

	for rows.Next() {
		var (
			id        uuid.UUID
			response  RunResultResponse
			criterion sql.NullString
			value     sql.NullFloat64
		)

		if err := rows.Scan(
			&id,
			&response.Scenario,
			&response.Service,
			&response.Runs,
			&response.FinishedAt,
			&criterion,
			&value,
		); err != nil {
			return nil, err
		}

		runID, err := kernel.UUIDFromBytes(id[:])
		if err != nil {
			return nil, err
		}

		if n := len(results); n == 0 || !results[n-1].ID.IsEqual(runID) {
			response.ID = runID
			response.FinishedAt = response.FinishedAt.UTC()
			response.Scores = make(map[string]float64)
			results = append(results, response)
		}
		if criterion.Valid && value.Valid {
			results[len(results)-1].Scores[criterion.String] = value.Float64
		}
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return results, nil
}
