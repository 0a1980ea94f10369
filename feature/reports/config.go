package reports

// Config holds configuration for report job tracking.
type Config struct {
	// RetentionHours is how long finished jobs and their artifacts are kept
	// before Expire removes them.
	RetentionHours int `mapstructure:"retention_hours" default:"72"`
}
