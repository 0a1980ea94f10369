// Package assets implements the inventory feature: the canonical asset store,
// the conflict quarantine, and the HTTP surface for batch synchronization and
// manual conflict review.
//
// The synchronization semantics live in the sync subpackage; this package
// provides the GORM-backed stores the engine mutates and the service/handler
// wiring around it, following the feature layout used across the codebase.
package assets
