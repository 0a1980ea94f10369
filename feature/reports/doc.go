// Package reports tracks long-running asset export jobs.
//
// Jobs are recorded in an explicit task-state store behind the JobStore
// interface (submit, poll, fetch-result, expire) rather than filesystem
// markers, keeping the sync engine's concurrency reasoning independent of
// report bookkeeping. Rendered artifacts are uploaded to object storage and
// fetched by job id; expiry removes both the row and the artifact after the
// configured retention.
package reports
