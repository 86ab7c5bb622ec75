// Package runrepo persists run.Result aggregates with GORM.
// A result is stored as one row in "runs" plus one row per criterion in "run_scores".
package runrepo

import (
	"time"

	"delivery-sim/internal/core/domain/model/kernel"
	"delivery-sim/internal/core/domain/model/run"

	"github.com/google/uuid"
)

// RunDTO is the database representation of a run result.
type RunDTO struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey"`
	Scenario   string     `gorm:"type:varchar(255);not null;index"`
	Service    string     `gorm:"type:varchar(64);not null"`
	Runs       int        `gorm:"type:int;not null"`
	FinishedAt time.Time  `gorm:"type:timestamptz;not null;index"`
	Scores     []ScoreDTO `gorm:"foreignKey:RunID;constraint:OnDelete:CASCADE"`
}

// TableName overrides GORM's default "run_dtos".
func (RunDTO) TableName() string {
	return "runs"
}

// ScoreDTO stores the mean score of one criterion of a run.
type ScoreDTO struct {
	RunID     uuid.UUID `gorm:"type:uuid;primaryKey"`
	Criterion string    `gorm:"type:varchar(64);primaryKey"`
	Value     float64   `gorm:"type:double precision;not null"`
}

// TableName overrides GORM's default "score_dtos".
func (ScoreDTO) TableName() string {
	return "run_scores"
}

// fromDomain converts a result into its row and score rows, scores ordered by criterion.
func fromDomain(result *run.Result) RunDTO {
	runID := result.ID().Bytes()
	scores := make([]ScoreDTO, 0, len(result.Criteria()))
	for _, criterion := range result.Criteria() {
		value, _ := result.Score(criterion)
		scores = append(scores, ScoreDTO{
			RunID:     runID,
			Criterion: criterion,
			Value:     value,
		})
	}

	return RunDTO{
		ID:         runID,
		Scenario:   result.Scenario(),
		Service:    result.Service(),
		Runs:       result.Runs(),
		FinishedAt: result.FinishedAt(),
		Scores:     scores,
	}
}

// toDomain rebuilds a result from a row with preloaded scores.
func toDomain(dto RunDTO) (*run.Result, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	scores := make(map[string]float64, len(dto.Scores))
	for _, s := range dto.Scores {
		scores[s.Criterion] = s.Value
	}

	return run.RestoreResult(id, dto.Scenario, dto.Service, dto.Runs, scores, dto.FinishedAt)
}
