package queries

import (
	"context"

	"delivery-sim/internal/pkg/errs"

	"gorm.io/gorm"
)

// GetRunResultQueryHandler reads one run result with its scores.
type GetRunResultQueryHandler struct {
	db *gorm.DB
}

func NewGetRunResultQueryHandler(db *gorm.DB) GetRunResultQueryHandler {
	return GetRunResultQueryHandler{db: db}
}

// Handle returns the result, or an ObjectNotFoundError if no run has the id.
func (h GetRunResultQueryHandler) Handle(ctx context.Context, query GetRunResultQuery) (RunResultResponse, error) {
	if err := query.Validate(); err != nil {
		return RunResultResponse{}, err
	}

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT`+runResultColumns+`
		FROM runs r
		LEFT JOIN run_scores s ON s.run_id = r.id
		WHERE r.id = ?
		ORDER BY s.criterion
	`, query.RunID().Bytes()).Rows()
	if err != nil {
		return RunResultResponse{}, err
	}
	defer rows.Close()

	results, err := scanRunResults(rows)
	if err != nil {
		return RunResultResponse{}, err
	}
	if len(results) == 0 {
		return RunResultResponse{}, errs.NewObjectNotFoundError("run", query.RunID())
	}

	return results[0], nil
}
