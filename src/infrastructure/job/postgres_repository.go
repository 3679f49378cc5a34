package job

import (
	"context"
	"encoding/json"
	"errors"

	"gorm.io/gorm"
)

// PostgresJobRepository keeps jobs in the same database as the document
// registry, so one connection serves both the API and the worker.
type PostgresJobRepository struct {
	db *gorm.DB
}

func NewPostgresJobRepository(db *gorm.DB) *PostgresJobRepository {
	return &PostgresJobRepository{db: db}
}

// Create inserts a pending job carrying the ingestion payload.
func (r *PostgresJobRepository) Create(ctx context.Context, taskType string, payload json.RawMessage) (*Job, error) {
	queued := &Job{
		TaskType: taskType,
		Payload:  payload,
		Status:   JobStatusPending,
	}

	if result := r.db.WithContext(ctx).Create(queued); result.Error != nil {
		return nil, result.Error
	}

	return queued, nil
}

func (r *PostgresJobRepository) Get(ctx context.Context, id int) (*Job, error) {
	var found Job
	result := r.db.WithContext(ctx).First(&found, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}

	return &found, nil
}

// UpdateStatus records a status transition, storing the failure message
// when the transition is to failed.
func (r *PostgresJobRepository) UpdateStatus(ctx context.Context, id int, status JobStatus, errMsg *string) error {
	result := r.db.WithContext(ctx).Model(&Job{}).Where("id = ?", id).Updates(map[string]interface{}{
		"status": status,
		"error":  errMsg,
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errors.New("job not found")
	}

	return nil
}

var _ JobRepository = (*PostgresJobRepository)(nil)
