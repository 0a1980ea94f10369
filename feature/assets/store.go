package assets

import (
	"context"
	"errors"
	"fmt"
	"time"

	"inventory-api/feature/assets/models"
	"inventory-api/feature/assets/sync"

	"gorm.io/gorm"
)

// Store is the GORM-backed asset store. It implements sync.Store for the
// ingestion pipeline and exposes the read and lifecycle operations consumed
// by the service layer.
type Store struct {
	db *gorm.DB
}

// NewStore creates an asset store on the given connection.
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// GetByInternalID returns the version view for the key, or nil if no row exists.
func (s *Store) GetByInternalID(ctx context.Context, internalID string) (*sync.Stored, error) {
	var a models.Asset
	err := s.db.WithContext(ctx).
		Select("internal_id", "external_tag", "version").
		Where("internal_id = ?", internalID).
		First(&a).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read asset %s: %w", internalID, err)
	}

	return &sync.Stored{
		InternalID:  a.InternalID,
		ExternalTag: a.ExternalTag,
		Version:     a.Version,
	}, nil
}

// OwnerOfTag returns the internal id of the asset holding the external tag,
// or "" when the tag is unclaimed. Retired rows still count: the tag stays
// reserved for the asset's audit history.
func (s *Store) OwnerOfTag(ctx context.Context, tag string) (string, error) {
	var a models.Asset
	err := s.db.WithContext(ctx).
		Select("internal_id").
		Where("external_tag = ?", tag).
		First(&a).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to look up tag %s: %w", tag, err)
	}
	return a.InternalID, nil
}

// Insert creates a new asset at version 1. Unique constraint violations are
// reported as sync.ErrDuplicate so the pipeline can quarantine the record.
func (s *Store) Insert(ctx context.Context, rec sync.Record) error {
	asset := models.Asset{
		InternalID:  rec.InternalID,
		ExternalTag: rec.ExternalTag,
		Version:     1,
		Status:      models.StatusActive,
		Payload:     rec.Payload,
	}

	if err := s.db.WithContext(ctx).Create(&asset).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return sync.ErrDuplicate
		}
		return fmt.Errorf("failed to insert asset %s: %w", rec.InternalID, err)
	}
	return nil
}

// UpdateVersioned applies the payload and bumps the version by exactly 1 in a
// single conditional UPDATE guarded by the expected version. The guard makes
// the check-and-write atomic at the row level: two concurrent submissions that
// both read version N cannot both write N+1, the loser affects zero rows.
func (s *Store) UpdateVersioned(ctx context.Context, rec sync.Record) (bool, error) {
	res := s.db.WithContext(ctx).Model(&models.Asset{}).
		Where("internal_id = ? AND version = ?", rec.InternalID, rec.Version).
		Updates(map[string]any{
			"external_tag": rec.ExternalTag,
			"location":     rec.Payload.Location,
			"element_type": rec.Payload.ElementType,
			"installer":    rec.Payload.Installer,
			"latitude":     rec.Payload.Latitude,
			"longitude":    rec.Payload.Longitude,
			"installed_at": rec.Payload.InstalledAt,
			"metadata":     []byte(rec.Payload.Metadata),
			"version":      gorm.Expr("version + 1"),
		})

	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrDuplicatedKey) {
			return false, sync.ErrDuplicate
		}
		return false, fmt.Errorf("failed to update asset %s: %w", rec.InternalID, res.Error)
	}

	return res.RowsAffected == 1, nil
}

// ListFilter narrows the asset listing. Zero values mean "no constraint".
type ListFilter struct {
	InternalID    string
	ExternalTag   string
	Installer     string
	ElementType   string
	Location      string
	Status        models.Status
	InstalledFrom *time.Time
	InstalledTo   *time.Time
	Offset        int
	Limit         int
}

// List returns the assets matching the filter plus the total match count.
// Reads see only committed state; in-flight batches are invisible. Retired
// rows are excluded unless the filter asks for them explicitly.
func (s *Store) List(ctx context.Context, f ListFilter) ([]models.Asset, int64, error) {
	q := s.db.WithContext(ctx).Model(&models.Asset{})

	if f.InternalID != "" {
		q = q.Where("internal_id = ?", f.InternalID)
	}
	if f.ExternalTag != "" {
		q = q.Where("external_tag = ?", f.ExternalTag)
	}
	if f.Installer != "" {
		q = q.Where("installer = ?", f.Installer)
	}
	if f.ElementType != "" {
		q = q.Where("element_type = ?", f.ElementType)
	}
	if f.Location != "" {
		q = q.Where("location = ?", f.Location)
	}
	if f.InstalledFrom != nil {
		q = q.Where("installed_at >= ?", *f.InstalledFrom)
	}
	if f.InstalledTo != nil {
		q = q.Where("installed_at <= ?", *f.InstalledTo)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	} else {
		q = q.Where("status <> ?", models.StatusRetired)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count assets: %w", err)
	}
	if total == 0 {
		return []models.Asset{}, 0, nil
	}

	limit := f.Limit
	if limit <= 0 {
		limit = 100
	}

	var out []models.Asset
	err := q.Order("created_at DESC").Offset(f.Offset).Limit(limit).Find(&out).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list assets: %w", err)
	}
	return out, total, nil
}

// GetAsset returns the full asset row for the internal id.
func (s *Store) GetAsset(ctx context.Context, internalID string) (*models.Asset, error) {
	var a models.Asset
	err := s.db.WithContext(ctx).Where("internal_id = ?", internalID).First(&a).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read asset %s: %w", internalID, err)
	}
	return &a, nil
}

// GetAssetByTag returns the full asset row for the external tag.
func (s *Store) GetAssetByTag(ctx context.Context, tag string) (*models.Asset, error) {
	var a models.Asset
	err := s.db.WithContext(ctx).Where("external_tag = ?", tag).First(&a).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read asset by tag %s: %w", tag, err)
	}
	return &a, nil
}

// Retire soft deletes an active asset: status flips to retired and the
// version increments, so any submission based on the pre-retirement version
// conflicts. It returns false when no active row matched.
func (s *Store) Retire(ctx context.Context, internalID string) (bool, error) {
	res := s.db.WithContext(ctx).Model(&models.Asset{}).
		Where("internal_id = ? AND status = ?", internalID, models.StatusActive).
		Updates(map[string]any{
			"status":  models.StatusRetired,
			"version": gorm.Expr("version + 1"),
		})
	if res.Error != nil {
		return false, fmt.Errorf("failed to retire asset %s: %w", internalID, res.Error)
	}
	return res.RowsAffected == 1, nil
}
