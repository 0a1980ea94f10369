package reports

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// JobStore is the task-state store for report jobs.
type JobStore interface {
	// Create persists a new job row.
	Create(ctx context.Context, job *Job) error
	// Get returns a job by id, or nil if absent.
	Get(ctx context.Context, id string) (*Job, error)
	// SetStatus transitions a job, recording the artifact key or error.
	SetStatus(ctx context.Context, id string, status Status, objectKey, errMsg string) error
	// ListFinishedBefore returns terminal jobs older than the cutoff.
	ListFinishedBefore(ctx context.Context, cutoff time.Time) ([]Job, error)
	// Delete removes a job row.
	Delete(ctx context.Context, id string) error
}

// GormJobStore is the GORM-backed JobStore.
type GormJobStore struct {
	db *gorm.DB
}

// NewJobStore creates a job store on the given connection.
func NewJobStore(db *gorm.DB) *GormJobStore {
	return &GormJobStore{db: db}
}

func (s *GormJobStore) Create(ctx context.Context, job *Job) error {
	if err := s.db.WithContext(ctx).Create(job).Error; err != nil {
		return fmt.Errorf("failed to create report job: %w", err)
	}
	return nil
}

func (s *GormJobStore) Get(ctx context.Context, id string) (*Job, error) {
	var job Job
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&job).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read report job %s: %w", id, err)
	}
	return &job, nil
}

func (s *GormJobStore) SetStatus(ctx context.Context, id string, status Status, objectKey, errMsg string) error {
	err := s.db.WithContext(ctx).Model(&Job{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":     status,
			"object_key": objectKey,
			"error":      errMsg,
		}).Error
	if err != nil {
		return fmt.Errorf("failed to update report job %s: %w", id, err)
	}
	return nil
}

func (s *GormJobStore) ListFinishedBefore(ctx context.Context, cutoff time.Time) ([]Job, error) {
	var jobs []Job
	err := s.db.WithContext(ctx).
		Where("status IN ?", []Status{StatusDone, StatusFailed}).
		Where("created_at < ?", cutoff).
		Find(&jobs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list expired report jobs: %w", err)
	}
	return jobs, nil
}

func (s *GormJobStore) Delete(ctx context.Context, id string) error {
	if err := s.db.WithContext(ctx).Where("id = ?", id).Delete(&Job{}).Error; err != nil {
		return fmt.Errorf("failed to delete report job %s: %w", id, err)
	}
	return nil
}
