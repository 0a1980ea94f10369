// Package sync implements the offline-first batch ingestion engine.
//
// Disconnected mobile clients collect asset records locally and submit them in
// ordered batches. The engine reconciles each record against server state using
// per-record version numbers: a record based on the current stored version is
// accepted and the version incremented, a record based on a stale version is
// quarantined for manual review. Timestamps are never used as an ordering
// signal, since field devices have unsynchronized clocks.
//
// # Classification
//
// For each record the engine decides exactly one disposition:
//
//   - created: no stored row existed for the internal id
//   - updated: the submitted version matched the stored version
//   - conflicted: duplicate key or version mismatch, written to quarantine
//
// Duplicate key takes precedence over version comparison, because a key
// collision indicates a different logical entity rather than a concurrent edit
// of the same one.
//
// # Partial failure
//
// Records are processed sequentially in submission order and each accepted
// mutation commits independently. Data conflicts never abort the batch; only
// infrastructure failures (store unreachable) do, and those surface as a single
// fatal error with no partial result so the caller can safely retry the whole
// batch. Mutations that committed before a fatal error remain durable.
package sync
