package assets

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"inventory-api/feature/assets/models"
	"inventory-api/feature/assets/sync"

	"gorm.io/gorm"
)

// QuarantineStore persists rejected submissions for manual review.
// It implements sync.Quarantine.
type QuarantineStore struct {
	db *gorm.DB
}

// NewQuarantineStore creates a quarantine store on the given connection.
func NewQuarantineStore(db *gorm.DB) *QuarantineStore {
	return &QuarantineStore{db: db}
}

// Record appends a rejected submission. The full submission is snapshotted
// verbatim so the review tooling can reconstruct exactly what the client sent.
func (q *QuarantineStore) Record(ctx context.Context, rec sync.Record, reason sync.Reason) error {
	snapshot, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to snapshot submission %s: %w", rec.InternalID, err)
	}

	row := models.ConflictiveAsset{
		SourceInternalID:  rec.InternalID,
		SourceExternalTag: rec.ExternalTag,
		Reason:            string(reason),
		SubmittedVersion:  rec.Version,
		SubmittedPayload:  snapshot,
	}

	if err := q.db.WithContext(ctx).Create(&row).Error; err != nil {
		return fmt.Errorf("failed to quarantine submission %s: %w", rec.InternalID, err)
	}
	return nil
}

// ConflictFilter narrows the quarantine listing.
type ConflictFilter struct {
	Reason string
	From   *time.Time
	To     *time.Time
	Offset int
	Limit  int
}

// List returns quarantined submissions matching the filter, newest first,
// plus the total match count.
func (q *QuarantineStore) List(ctx context.Context, f ConflictFilter) ([]models.ConflictiveAsset, int64, error) {
	qry := q.db.WithContext(ctx).Model(&models.ConflictiveAsset{})

	if f.Reason != "" {
		qry = qry.Where("reason = ?", f.Reason)
	}
	if f.From != nil {
		qry = qry.Where("created_at >= ?", *f.From)
	}
	if f.To != nil {
		qry = qry.Where("created_at <= ?", *f.To)
	}

	var total int64
	if err := qry.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count conflicts: %w", err)
	}
	if total == 0 {
		return []models.ConflictiveAsset{}, 0, nil
	}

	limit := f.Limit
	if limit <= 0 {
		limit = 100
	}

	var out []models.ConflictiveAsset
	err := qry.Order("id DESC").Offset(f.Offset).Limit(limit).Find(&out).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list conflicts: %w", err)
	}
	return out, total, nil
}

// Get returns one quarantined submission, or nil if absent.
func (q *QuarantineStore) Get(ctx context.Context, id uint) (*models.ConflictiveAsset, error) {
	var row models.ConflictiveAsset
	err := q.db.WithContext(ctx).Where("id = ?", id).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read conflict %d: %w", id, err)
	}
	return &row, nil
}

// Delete removes a quarantined submission. This is an administrative action,
// never taken by the engine itself.
func (q *QuarantineStore) Delete(ctx context.Context, id uint) (bool, error) {
	res := q.db.WithContext(ctx).Where("id = ?", id).Delete(&models.ConflictiveAsset{})
	if res.Error != nil {
		return false, fmt.Errorf("failed to delete conflict %d: %w", id, res.Error)
	}
	return res.RowsAffected == 1, nil
}
