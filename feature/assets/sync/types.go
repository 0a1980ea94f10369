package sync

import (
	"context"

	"inventory-api/feature/assets/models"
)

// Record is a single client submission within a batch.
type Record struct {
	// InternalID is the client-assigned unique key, immutable after creation.
	InternalID string `json:"internal_id"`

	// ExternalTag is the optional externally scanned identifier (e.g. barcode).
	ExternalTag *string `json:"external_tag,omitempty"`

	// Version is the stored version this submission is based on.
	Version int64 `json:"version"`

	// Payload carries the domain attributes, opaque to the engine.
	Payload models.Payload `json:"payload"`
}

// Reason explains why a submission was quarantined.
type Reason string

const (
	// ReasonDuplicateKey marks a collision on internal id or external tag
	// with a different logical entity.
	ReasonDuplicateKey Reason = "duplicate_key"
	// ReasonVersionMismatch marks a submission based on a stale version.
	ReasonVersionMismatch Reason = "version_mismatch"
)

// Classification is the Version Comparator's verdict for one record.
type Classification int

const (
	// ClassCreate means no stored record exists for the internal id.
	ClassCreate Classification = iota
	// ClassAcceptUpdate means the submitted version matches the stored one.
	ClassAcceptUpdate
	// ClassRejectVersionMismatch means the submitted version is stale.
	ClassRejectVersionMismatch
)

// Conflict identifies a quarantined record in a batch result.
type Conflict struct {
	InternalID string `json:"internal_id"`
	Reason     Reason `json:"reason"`
}

// Counts are the aggregate totals of a batch result.
type Counts struct {
	Created    int `json:"created"`
	Updated    int `json:"updated"`
	Conflicted int `json:"conflicted"`
}

// BatchResult is the per-batch outcome summary. Every record that entered the
// pipeline appears in exactly one of the three lists.
type BatchResult struct {
	Created    []string   `json:"created"`
	Updated    []string   `json:"updated"`
	Conflicted []Conflict `json:"conflicted"`
	Counts     Counts     `json:"counts"`
}

// Total returns the number of records the result accounts for.
func (r *BatchResult) Total() int {
	return len(r.Created) + len(r.Updated) + len(r.Conflicted)
}

// Stored is the point-in-time view of a stored asset the engine needs for
// classification. Payload columns are deliberately absent: conflicts are
// decided on version alone, never on payload equality.
type Stored struct {
	InternalID  string
	ExternalTag *string
	Version     int64
}

// Store is the durable keyed storage the pipeline mutates.
//
// Implementations must make UpdateVersioned a true conditional update (the
// version check and the payload write execute as one atomic statement), so two
// concurrent submissions reading the same version cannot both win.
type Store interface {
	// GetByInternalID returns the stored view for the key, or nil if absent.
	GetByInternalID(ctx context.Context, internalID string) (*Stored, error)

	// OwnerOfTag returns the internal id of the asset holding the external
	// tag, or "" if the tag is unclaimed.
	OwnerOfTag(ctx context.Context, tag string) (string, error)

	// Insert creates a new asset at version 1. A unique constraint violation
	// is reported as ErrDuplicate; any other error is an infrastructure
	// failure.
	Insert(ctx context.Context, rec Record) error

	// UpdateVersioned applies the payload and increments the version by
	// exactly 1, guarded by rec.Version. It returns false when the stored
	// version moved since classification (a lost race, not an error).
	UpdateVersioned(ctx context.Context, rec Record) (bool, error)
}

// Quarantine is the durable store of rejected submissions.
type Quarantine interface {
	// Record appends a rejected submission with its reason. Append-only:
	// the engine never resolves or expires quarantine entries.
	Record(ctx context.Context, rec Record, reason Reason) error
}
