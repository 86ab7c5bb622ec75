package queries

import (
	"context"

	"gorm.io/gorm"
)

// ListRunResultsQueryHandler reads run results newest first.
//
// Example:
//
//	handler := NewListRunResultsQueryHandler(db)
//	query, _ := NewListRunResultsQuery("", 20)
//
//	results, err := handler.Handle(ctx, query)
//	if err != nil {
//	    return err
//	}
//	fmt.Printf("Found %d results\n", len(results))
type ListRunResultsQueryHandler struct {
	db *gorm.DB
}

func NewListRunResultsQueryHandler(db *gorm.DB) ListRunResultsQueryHandler {
	return ListRunResultsQueryHandler{db: db}
}

// Handle returns at most query.Limit() results ordered by finish time, newest
// first, and by id for equal times. Every result carries all of its scores.
func (h ListRunResultsQueryHandler) Handle(ctx context.Context, query ListRunResultsQuery) ([]RunResultResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT`+runResultColumns+`
		FROM (
			SELECT id, scenario, service, runs, finished_at
			FROM runs
			WHERE ? = '' OR scenario = ?
			ORDER BY finished_at DESC, id
			LIMIT ?
		) r
		LEFT JOIN run_scores s ON s.run_id = r.id
		ORDER BY r.finished_at DESC, r.id, s.criterion
	`, query.Scenario(), query.Scenario(), query.Limit()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanRunResults(rows)
}
