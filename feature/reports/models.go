package reports

import "time"

// Status is the lifecycle state of a report job.
type Status string

const (
	// StatusPending means the job is accepted but not yet running.
	StatusPending Status = "pending"
	// StatusRunning means the export is being rendered.
	StatusRunning Status = "running"
	// StatusDone means the artifact is available.
	StatusDone Status = "done"
	// StatusFailed means rendering failed; Error holds the cause.
	StatusFailed Status = "failed"
)

// Job is one report job row.
type Job struct {
	ID        string    `gorm:"column:id;primaryKey;size:36" json:"id"`
	Status    Status    `gorm:"column:status;size:16;not null;index" json:"status"`
	ObjectKey string    `gorm:"column:object_key;size:255" json:"object_key,omitempty"`
	Error     string    `gorm:"column:error;size:1024" json:"error,omitempty"`
	CreatedAt time.Time `gorm:"column:created_at;index" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at" json:"updated_at"`
}

// TableName overrides the table name used by GORM.
func (Job) TableName() string {
	return "report_jobs"
}

// Finished reports whether the job reached a terminal state.
func (j *Job) Finished() bool {
	return j.Status == StatusDone || j.Status == StatusFailed
}
