package assets

import (
	"context"
	"errors"
	"fmt"

	"inventory-api/feature/assets/models"
	"inventory-api/feature/assets/sync"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ErrNotFound is returned when a requested asset or conflict does not exist.
var ErrNotFound = errors.New("not found")

// ConflictError reports a single-record submission that was quarantined
// instead of accepted.
type ConflictError struct {
	Reason sync.Reason
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("submission rejected: %s", e.Reason)
}

// InvalidRecord identifies a malformed record excluded from a batch before
// the pipeline ran. It is reported separately from the three disposition
// buckets since the record never reached data-conflict logic.
type InvalidRecord struct {
	Index      int    `json:"index"`
	InternalID string `json:"internal_id,omitempty"`
	Error      string `json:"error"`
}

// Service wires the sync engine to its stores and exposes the asset and
// conflict-review operations.
type Service struct {
	store      *Store
	quarantine *QuarantineStore
	pipeline   *sync.Pipeline
	logger     *zap.Logger
}

// NewService creates the assets service.
func NewService(db *gorm.DB, logger *zap.Logger, cfg sync.Config) *Service {
	store := NewStore(db)
	quarantine := NewQuarantineStore(db)
	return &Service{
		store:      store,
		quarantine: quarantine,
		pipeline:   sync.NewPipeline(store, quarantine, cfg.MaxBatchSize, logger),
		logger:     logger,
	}
}

// SyncBatch validates and ingests a batch of client records.
//
// Malformed records are excluded up front and returned in the invalid list;
// the remaining records run through the pipeline in their original order. The
// returned result accounts for every validated record exactly once.
func (s *Service) SyncBatch(ctx context.Context, records []sync.Record) (*sync.BatchResult, []InvalidRecord, error) {
	valid := make([]sync.Record, 0, len(records))
	invalid := make([]InvalidRecord, 0)

	for i, rec := range records {
		if msg := rec.Validate(); msg != "" {
			invalid = append(invalid, InvalidRecord{
				Index:      i,
				InternalID: rec.InternalID,
				Error:      msg,
			})
			continue
		}
		valid = append(valid, rec)
	}

	if len(invalid) > 0 {
		s.logger.Warn("Batch contained malformed records",
			zap.Int("submitted", len(records)),
			zap.Int("excluded", len(invalid)))
	}

	result, err := s.pipeline.Run(ctx, valid)
	if err != nil {
		return nil, nil, err
	}
	return result, invalid, nil
}

// CreateAsset creates a single asset through the same pipeline as a
// one-record batch; there is no separate creation code path.
func (s *Service) CreateAsset(ctx context.Context, rec sync.Record) (*models.Asset, error) {
	if msg := rec.Validate(); msg != "" {
		return nil, &sync.ValidationError{Index: 0, Field: "record", Msg: msg}
	}

	result, err := s.pipeline.Run(ctx, []sync.Record{rec})
	if err != nil {
		return nil, err
	}
	if len(result.Conflicted) > 0 {
		return nil, &ConflictError{Reason: result.Conflicted[0].Reason}
	}

	asset, err := s.store.GetAsset(ctx, rec.InternalID)
	if err != nil {
		return nil, err
	}
	if asset == nil {
		return nil, ErrNotFound
	}
	return asset, nil
}

// GetAsset returns an asset by internal id.
func (s *Service) GetAsset(ctx context.Context, internalID string) (*models.Asset, error) {
	asset, err := s.store.GetAsset(ctx, internalID)
	if err != nil {
		return nil, err
	}
	if asset == nil {
		return nil, ErrNotFound
	}
	return asset, nil
}

// GetAssetByTag returns an asset by external tag, used for field lookups.
func (s *Service) GetAssetByTag(ctx context.Context, tag string) (*models.Asset, error) {
	asset, err := s.store.GetAssetByTag(ctx, tag)
	if err != nil {
		return nil, err
	}
	if asset == nil {
		return nil, ErrNotFound
	}
	return asset, nil
}

// ListAssets returns the filtered, paginated asset listing. This is the
// read-only collaborator query used by report generation; it sees only
// committed state.
func (s *Service) ListAssets(ctx context.Context, f ListFilter) ([]models.Asset, int64, error) {
	return s.store.List(ctx, f)
}

// RetireAsset soft deletes an active asset and returns the updated row.
func (s *Service) RetireAsset(ctx context.Context, internalID string) (*models.Asset, error) {
	ok, err := s.store.Retire(ctx, internalID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNotFound
	}
	return s.store.GetAsset(ctx, internalID)
}

// ListConflicts returns quarantined submissions for manual review.
func (s *Service) ListConflicts(ctx context.Context, f ConflictFilter) ([]models.ConflictiveAsset, int64, error) {
	return s.quarantine.List(ctx, f)
}

// GetConflict returns one quarantined submission.
func (s *Service) GetConflict(ctx context.Context, id uint) (*models.ConflictiveAsset, error) {
	row, err := s.quarantine.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, ErrNotFound
	}
	return row, nil
}

// DeleteConflict removes a quarantined submission (administrative action).
func (s *Service) DeleteConflict(ctx context.Context, id uint) error {
	ok, err := s.quarantine.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound
	}
	return nil
}

// ResolveConflict re-submits a corrected record through the normal pipeline
// as a single-record batch. If the submission is accepted, the quarantine
// entry it corrects is deleted. A still-conflicting submission leaves the
// original entry in place and quarantines the new one like any other reject.
func (s *Service) ResolveConflict(ctx context.Context, id uint, rec sync.Record) (*sync.BatchResult, error) {
	row, err := s.quarantine.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, ErrNotFound
	}

	if msg := rec.Validate(); msg != "" {
		return nil, &sync.ValidationError{Index: 0, Field: "record", Msg: msg}
	}

	result, err := s.pipeline.Run(ctx, []sync.Record{rec})
	if err != nil {
		return nil, err
	}

	if result.Counts.Created+result.Counts.Updated == 1 {
		if _, err := s.quarantine.Delete(ctx, id); err != nil {
			return nil, err
		}
		s.logger.Info("Conflict resolved",
			zap.Uint("conflict_id", id),
			zap.String("internal_id", rec.InternalID))
	}

	return result, nil
}
