// Package config loads a workspace's .graphidx.kdl configuration: project
// root/name, include/exclude globs, the validator's bounds (spec §4.3),
// the three pipeline specializations' concurrency/backoff/queue settings
// (spec §4.5), the orchestrator's batch-failure threshold and incremental-
// scan toggle, the reachability analyzer's bounds (spec §4.6), and the
// graph-store/vector-store/embedding connection settings (spec §6).
// Grounded on the teacher's internal/config (KDL-based, sblinch/kdl-go).
package config

import (
	"runtime"
	"time"

	"github.com/standardbeagle/graphidx/internal/metavalidate"
	"github.com/standardbeagle/graphidx/internal/reachability"
)

// Project identifies the workspace being indexed.
type Project struct {
	Root string
	Name string
}

// Watch controls the live file-watcher (spec §4.4).
type Watch struct {
	Enabled    bool
	DebounceMs int
}

// Stage bounds one pipeline specialization's concurrency and queue depth
// (spec §4.5); zero values mean "use the built-in specialization default".
type Stage struct {
	MaxConcurrency int
	MaxQueueSize   int
}

// Pipeline holds the three named pipeline specializations' overrides.
type Pipeline struct {
	Graph  Stage
	Vector Stage
	Embed  Stage
}

// Orchestrator controls the batch-failure policy (spec §4.4).
type Orchestrator struct {
	BatchFailureThreshold float64 // fraction of found blocks allowed to fail, default 0.10
	Incremental           bool    // preferred when the vector store already has data
}

// GraphStore holds a Neo4j connection's settings (spec §6).
type GraphStore struct {
	URI      string
	Username string
	Password string
	Database string
}

// VectorStore holds the vector-store connection's settings (spec §6).
// Kind selects the concrete Store implementation; "memory" uses the
// in-process reference store and ignores the rest of this struct.
type VectorStore struct {
	Kind       string
	Endpoint   string
	Collection string
}

// Embedding names the embedding provider's model and where to read its API
// key from (never the key itself — spec §5.3 "never the key itself").
type Embedding struct {
	Model     string
	APIKeyEnv string
}

// Config is the fully-resolved, ready-to-wire configuration for one
// workspace.
type Config struct {
	Project      Project
	Include      []string
	Exclude      []string
	Watch        Watch
	Validator    metavalidate.Config
	Pipeline     Pipeline
	Orchestrator Orchestrator
	Reachability reachability.Config
	GraphStore   GraphStore
	VectorStore  VectorStore
	Embedding    Embedding
}

// Default returns the built-in defaults, used whenever .graphidx.kdl is
// absent or a section is omitted.
func Default(workspaceRoot string) Config {
	return Config{
		Project:   Project{Root: workspaceRoot},
		Watch:     Watch{Enabled: true, DebounceMs: 300},
		Validator: metavalidate.DefaultConfig(),
		Pipeline: Pipeline{
			Graph:  Stage{MaxConcurrency: 3, MaxQueueSize: 40},
			Vector: Stage{MaxConcurrency: 9, MaxQueueSize: 150},
			Embed:  Stage{MaxConcurrency: 4, MaxQueueSize: 75},
		},
		Orchestrator: Orchestrator{BatchFailureThreshold: 0.10, Incremental: true},
		Reachability: reachability.DefaultConfig(),
		VectorStore:  VectorStore{Kind: "memory"},
		Embedding:    Embedding{Model: "text-embedding-3-small", APIKeyEnv: "OPENAI_API_KEY"},
		Exclude:      defaultExclusions(),
	}
}

// debounce returns Watch.DebounceMs as a time.Duration, defaulting to 300ms
// when unset.
func (c Config) debounce() time.Duration {
	if c.Watch.DebounceMs <= 0 {
		return 300 * time.Millisecond
	}
	return time.Duration(c.Watch.DebounceMs) * time.Millisecond
}

func secondsToDuration(sec int) time.Duration {
	return time.Duration(sec) * time.Second
}

// maxGoroutinesHint returns runtime.NumCPU() (mirrors the teacher's
// fallback for Performance.MaxGoroutines); nothing in this repository
// calls it.
func maxGoroutinesHint() int {
	return runtime.NumCPU()
}

func defaultExclusions() []string {
	return []string{
		"**/.git/**",
		"**/.*/**",
		"**/node_modules/**",
		"**/vendor/**",
		"**/dist/**",
		"**/build/**",
		"**/out/**",
		"**/bin/**",
		"**/obj/**",
		"**/*.min.js",
		"**/*.min.css",
		"**/*_test.go",
		"**/testdata/**",
		"**/__pycache__/**",
		"**/*.pyc",
		"**/logs/**",
		"**/*.log",
	}
}
