package sync

// Classify decides how a submission relates to the stored row for its key.
// stored is nil when no row exists.
//
// This is single-field optimistic concurrency: the submitted version either
// matches the stored version exactly or the submission is stale. There is no
// timestamp comparison and no payload merge; the engine optimizes for never
// silently losing a conflicting edit, at the cost of never automatically
// resolving one.
func Classify(rec Record, stored *Stored) Classification {
	if stored == nil {
		return ClassCreate
	}
	if rec.Version == stored.Version {
		return ClassAcceptUpdate
	}
	return ClassRejectVersionMismatch
}

// Validate checks the record shape before it may enter the pipeline.
// It returns an empty string when the record is well formed, otherwise a
// description of the first problem found.
func (r Record) Validate() string {
	if r.InternalID == "" {
		return "missing internal_id"
	}
	if r.Version < 1 {
		return "version must be >= 1"
	}
	if r.ExternalTag != nil && *r.ExternalTag == "" {
		return "external_tag must be omitted or non-empty"
	}
	return ""
}
