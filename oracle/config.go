package oracle

import (
	"fmt"
	"runtime"
)

// Config groups the per-session knobs of the oracle. Every PlaneSet carries the
// Config it was built with and all queries on it use that configuration.
type Config struct {
	Precision Precision // working representation (default float64)
	Threads   int       // max concurrent chunks in Minimize (default GOMAXPROCS)
	ChunkSize int       // points per Minimize work unit (default 4096)
	MaxSteps  int       // breakpoint budget of a DriftSession (default 1024)
}

const (
	defaultChunkSize = 4096
	defaultMaxSteps  = 1024
)

// DefaultConfig returns the configuration used when a field is left zero.
func DefaultConfig() Config {
	return Config{
		Precision: Float64,
		Threads:   runtime.GOMAXPROCS(0),
		ChunkSize: defaultChunkSize,
		MaxSteps:  defaultMaxSteps,
	}
}

// Validate rejects negative sizes and unknown precisions. Zero values are valid
// and mean "use the default".
func (c Config) Validate() error {
	if c.Precision != "" && !c.Precision.IsValid() {
		return fmt.Errorf("%w: unknown precision %q", ErrInvalidConfig, c.Precision)
	}
	if c.Threads < 0 {
		return fmt.Errorf("%w: threads must be non-negative, got %d", ErrInvalidConfig, c.Threads)
	}
	if c.ChunkSize < 0 {
		return fmt.Errorf("%w: chunk size must be non-negative, got %d", ErrInvalidConfig, c.ChunkSize)
	}
	if c.MaxSteps < 0 {
		return fmt.Errorf("%w: max steps must be non-negative, got %d", ErrInvalidConfig, c.MaxSteps)
	}
	return nil
}

// withDefaults fills zero fields from DefaultConfig.
func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.Precision == "" {
		c.Precision = d.Precision
	}
	if c.Threads == 0 {
		c.Threads = d.Threads
	}
	if c.ChunkSize == 0 {
		c.ChunkSize = d.ChunkSize
	}
	if c.MaxSteps == 0 {
		c.MaxSteps = d.MaxSteps
	}
	return c
}
