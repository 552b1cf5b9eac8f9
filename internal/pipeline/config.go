package pipeline

import "time"

// Config bounds one Pool's concurrency, queueing, and retry behavior. The
// three constructors below are spec §4.5's named specializations; callers
// needing a custom stage build a Config literal directly.
type Config struct {
	Name            string
	MaxConcurrency  int
	MaxQueueSize    int
	Curve           Curve
	BaseRetryDelay  time.Duration
	MaxRetryDelay   time.Duration
	DeadlockTimeout time.Duration
}

// EmbeddingConfig returns the embedding-stage specialization: concurrency
// 3-5, exponential backoff 2s-30s, queue 50-100.
func EmbeddingConfig() Config {
	return Config{
		Name:            "embedding",
		MaxConcurrency:  4,
		MaxQueueSize:    75,
		Curve:           CurveExponential,
		BaseRetryDelay:  2 * time.Second,
		MaxRetryDelay:   30 * time.Second,
		DeadlockTimeout: 30 * time.Second,
	}
}

// VectorStoreConfig returns the vector-store-stage specialization:
// concurrency 8-10, linear backoff 0.5s-5s, queue 100-200.
func VectorStoreConfig() Config {
	return Config{
		Name:            "vector_store",
		MaxConcurrency:  9,
		MaxQueueSize:    150,
		Curve:           CurveLinear,
		BaseRetryDelay:  500 * time.Millisecond,
		MaxRetryDelay:   5 * time.Second,
		DeadlockTimeout: 30 * time.Second,
	}
}

// GraphStoreConfig returns the graph-store-stage specialization:
// concurrency 2-3, exponential backoff 1s-10s, queue 25-50, deadlock
// watch 60s.
func GraphStoreConfig() Config {
	return Config{
		Name:            "graph_store",
		MaxConcurrency:  3,
		MaxQueueSize:    40,
		Curve:           CurveExponential,
		BaseRetryDelay:  1 * time.Second,
		MaxRetryDelay:   10 * time.Second,
		DeadlockTimeout: 60 * time.Second,
	}
}

// WithOverrides returns a copy of base with maxConcurrency/maxQueueSize
// replaced when positive, letting configuration override a specialization's
// concurrency and queue depth without touching its backoff curve.
func (base Config) WithOverrides(maxConcurrency, maxQueueSize int) Config {
	cfg := base
	if maxConcurrency > 0 {
		cfg.MaxConcurrency = maxConcurrency
	}
	if maxQueueSize > 0 {
		cfg.MaxQueueSize = maxQueueSize
	}
	return cfg
}
