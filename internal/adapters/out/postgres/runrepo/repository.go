package runrepo

import (
	"context"
	"errors"

	"delivery-sim/internal/core/domain/model/kernel"
	"delivery-sim/internal/core/domain/model/run"
	"delivery-sim/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormRunRepository implements ports.RunRepository using GORM.
type GormRunRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormRunRepository creates a new GORM run repository.
func NewGormRunRepository(db *gorm.DB, tracker aggregateTracker) *GormRunRepository {
	return &GormRunRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add saves a new result together with its scores.
func (r *GormRunRepository) Add(ctx context.Context, aggregate *run.Result) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Get retrieves a result by ID.
func (r *GormRunRepository) Get(ctx context.Context, id kernel.UUID) (*run.Result, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto RunDTO
	if err := r.db.WithContext(ctx).Preload("Scores").First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("run", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// List retrieves the results of scenario, or of every scenario when it is empty,
// newest first.
//
// Example:
//
//	results, err := repo.List(ctx, "friday", 10)
//	if err != nil {
//		return fmt.Errorf("list runs: %w", err)
//	}
//	for _, result := range results {
//		fmt.Println(result.ID(), result.Scores())
//	}
func (r *GormRunRepository) List(ctx context.Context, scenario string, limit int) ([]*run.Result, error) {
	query := r.db.WithContext(ctx).Preload("Scores").Order("finished_at DESC").Order("id")
	if scenario != "" {
		query = query.Where("scenario = ?", scenario)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}

	var dtos []RunDTO
	if err := query.Find(&dtos).Error; err != nil {
		return nil, err
	}

	results := make([]*run.Result, 0, len(dtos))
	for _, dto := range dtos {
		result, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		results = append(results, result)
	}

	return results, nil
}
