package reports

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"inventory-api/core/storage"
	"inventory-api/feature/assets"
	"inventory-api/feature/assets/models"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
)

// ErrNotFound is returned when a requested job does not exist.
var ErrNotFound = errors.New("report job not found")

// ErrNotReady is returned when a result is fetched before the job finished.
var ErrNotReady = errors.New("report job not finished")

// AssetSource is the read-only asset query the renderer consumes. Satisfied
// by the assets service; reads see only committed state.
type AssetSource interface {
	ListAssets(ctx context.Context, f assets.ListFilter) ([]models.Asset, int64, error)
}

// Service renders asset exports asynchronously and tracks them via the
// JobStore.
type Service struct {
	jobs      JobStore
	source    AssetSource
	client    storage.Client
	bucket    string
	retention time.Duration
	logger    *zap.Logger
}

// NewService creates the reports service.
func NewService(jobs JobStore, source AssetSource, client storage.Client, bucket string, cfg Config, logger *zap.Logger) *Service {
	return &Service{
		jobs:      jobs,
		source:    source,
		client:    client,
		bucket:    bucket,
		retention: time.Duration(cfg.RetentionHours) * time.Hour,
		logger:    logger,
	}
}

// Submit accepts an export request and starts rendering in the background.
// The returned job is in pending state; callers poll it by id.
func (s *Service) Submit(ctx context.Context, filter assets.ListFilter) (*Job, error) {
	job := &Job{
		ID:     uuid.NewString(),
		Status: StatusPending,
	}
	if err := s.jobs.Create(ctx, job); err != nil {
		return nil, err
	}

	// Rendering outlives the HTTP exchange, like an accepted sync batch.
	go s.render(context.Background(), job.ID, filter)

	s.logger.Info("Report job submitted", zap.String("job_id", job.ID))
	return job, nil
}

// Poll returns the current state of a job.
func (s *Service) Poll(ctx context.Context, id string) (*Job, error) {
	job, err := s.jobs.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if job == nil {
		return nil, ErrNotFound
	}
	return job, nil
}

// FetchResult streams the rendered artifact of a finished job.
func (s *Service) FetchResult(ctx context.Context, id string) (io.ReadCloser, error) {
	job, err := s.Poll(ctx, id)
	if err != nil {
		return nil, err
	}
	if job.Status != StatusDone {
		return nil, ErrNotReady
	}

	reader, err := s.client.GetObject(ctx, s.bucket, job.ObjectKey, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch report artifact %s: %w", job.ObjectKey, err)
	}
	return reader, nil
}

// Expire removes finished jobs older than the retention window together with
// their artifacts. It returns the number of jobs removed.
func (s *Service) Expire(ctx context.Context) (int, error) {
	cutoff := time.Now().Add(-s.retention)

	jobs, err := s.jobs.ListFinishedBefore(ctx, cutoff)
	if err != nil {
		return 0, err
	}

	removed := 0
	for _, job := range jobs {
		if job.ObjectKey != "" {
			if err := s.client.RemoveObject(ctx, s.bucket, job.ObjectKey, minio.RemoveObjectOptions{}); err != nil {
				s.logger.Warn("Failed to remove report artifact",
					zap.String("job_id", job.ID),
					zap.String("object_key", job.ObjectKey),
					zap.Error(err))
				continue
			}
		}
		if err := s.jobs.Delete(ctx, job.ID); err != nil {
			s.logger.Warn("Failed to remove report job", zap.String("job_id", job.ID), zap.Error(err))
			continue
		}
		removed++
	}

	if removed > 0 {
		s.logger.Info("Expired report jobs", zap.Int("removed", removed))
	}
	return removed, nil
}

// export is the artifact schema.
type export struct {
	GeneratedAt time.Time      `json:"generated_at"`
	Total       int64          `json:"total"`
	Assets      []models.Asset `json:"assets"`
}

// render executes one job: query, marshal, upload, mark terminal state.
func (s *Service) render(ctx context.Context, jobID string, filter assets.ListFilter) {
	if err := s.jobs.SetStatus(ctx, jobID, StatusRunning, "", ""); err != nil {
		s.logger.Error("Failed to mark report job running", zap.String("job_id", jobID), zap.Error(err))
		return
	}

	fail := func(err error) {
		s.logger.Error("Report job failed", zap.String("job_id", jobID), zap.Error(err))
		if serr := s.jobs.SetStatus(ctx, jobID, StatusFailed, "", err.Error()); serr != nil {
			s.logger.Error("Failed to mark report job failed", zap.String("job_id", jobID), zap.Error(serr))
		}
	}

	// Full export: page through the committed listing.
	if filter.Limit <= 0 {
		filter.Limit = 1000
	}
	var all []models.Asset
	var total int64
	for {
		page, t, err := s.source.ListAssets(ctx, filter)
		if err != nil {
			fail(err)
			return
		}
		total = t
		all = append(all, page...)
		if len(page) < filter.Limit || len(all) >= int(total) {
			break
		}
		filter.Offset += filter.Limit
	}

	data, err := json.MarshalIndent(export{
		GeneratedAt: time.Now().UTC(),
		Total:       total,
		Assets:      all,
	}, "", "  ")
	if err != nil {
		fail(fmt.Errorf("failed to marshal export: %w", err))
		return
	}

	objectKey := fmt.Sprintf("reports/%s.json", jobID)
	_, err = s.client.PutObject(ctx, s.bucket, objectKey, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: "application/json",
	})
	if err != nil {
		fail(fmt.Errorf("failed to upload export: %w", err))
		return
	}

	if err := s.jobs.SetStatus(ctx, jobID, StatusDone, objectKey, ""); err != nil {
		s.logger.Error("Failed to mark report job done", zap.String("job_id", jobID), zap.Error(err))
		return
	}

	s.logger.Info("Report job completed",
		zap.String("job_id", jobID),
		zap.Int64("assets", total),
		zap.String("object_key", objectKey))
}
