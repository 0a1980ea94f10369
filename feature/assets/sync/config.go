package sync

// Config holds configuration for the batch ingestion pipeline.
type Config struct {
	// MaxBatchSize is the maximum number of records accepted per batch.
	// Submissions above it are rejected wholesale with a size error.
	// Zero disables the limit.
	MaxBatchSize int `mapstructure:"max_batch_size" default:"500"`
}
