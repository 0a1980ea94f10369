// Package models defines the persistent records of the assets feature:
// the canonical Asset row and the ConflictiveAsset quarantine row.
package models
