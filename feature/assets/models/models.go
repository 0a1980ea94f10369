package models

import (
	"encoding/json"
	"time"
)

// Status is the lifecycle state of an asset.
type Status string

const (
	// StatusActive marks an asset as in service.
	StatusActive Status = "active"
	// StatusRetired marks an asset as soft deleted. The row persists so audit
	// history and quarantine provenance stay intact.
	StatusRetired Status = "retired"
)

// Payload carries the domain attributes of an asset. The sync engine treats it
// as opaque: it is written through unmodified and never inspected for conflict
// detection.
type Payload struct {
	Location    string          `gorm:"column:location;size:255" json:"location"`
	ElementType string          `gorm:"column:element_type;size:128" json:"element_type"`
	Installer   string          `gorm:"column:installer;size:128" json:"installer"`
	Latitude    float64         `gorm:"column:latitude" json:"latitude"`
	Longitude   float64         `gorm:"column:longitude" json:"longitude"`
	InstalledAt *time.Time      `gorm:"column:installed_at" json:"installed_at,omitempty"`
	Metadata    json.RawMessage `gorm:"column:metadata;type:json" json:"metadata,omitempty"`
}

// Asset is the canonical inventory record.
//
// Version is the sole arbiter of whether a submission is based on current
// state: it starts at 1 on creation and is incremented by exactly 1 on every
// accepted mutation. UpdatedAt is informational only.
type Asset struct {
	ID          uint    `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	InternalID  string  `gorm:"column:internal_id;size:64;uniqueIndex;not null" json:"internal_id"`
	ExternalTag *string `gorm:"column:external_tag;size:128;uniqueIndex" json:"external_tag,omitempty"`
	Version     int64   `gorm:"column:version;not null" json:"version"`
	Status      Status  `gorm:"column:status;size:16;not null;default:active" json:"status"`

	Payload `gorm:"embedded"`

	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at" json:"updated_at"`
}

// TableName overrides the table name used by GORM.
func (Asset) TableName() string {
	return "assets"
}

// ConflictiveAsset is a quarantined submission held for manual review.
//
// Rows are provenance records, independent of the asset lifecycle: an asset
// may be retired or removed while its quarantine history remains.
type ConflictiveAsset struct {
	ID                uint            `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	SourceInternalID  string          `gorm:"column:source_internal_id;size:64;index" json:"source_internal_id"`
	SourceExternalTag *string         `gorm:"column:source_external_tag;size:128" json:"source_external_tag,omitempty"`
	Reason            string          `gorm:"column:reason;size:32;index" json:"reason"`
	SubmittedVersion  int64           `gorm:"column:submitted_version" json:"submitted_version"`
	SubmittedPayload  json.RawMessage `gorm:"column:submitted_payload;type:json" json:"submitted_payload"`
	CreatedAt         time.Time       `gorm:"column:created_at;index" json:"created_at"`
}

// TableName overrides the table name used by GORM.
func (ConflictiveAsset) TableName() string {
	return "conflictive_assets"
}
