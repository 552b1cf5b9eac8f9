package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	kdl "github.com/sblinch/kdl-go"
	"github.com/sblinch/kdl-go/document"

	"github.com/standardbeagle/graphidx/internal/metavalidate"
)

// fileName is the configuration file's name at the workspace root.
const fileName = ".graphidx.kdl"

// Load reads workspaceRoot's .graphidx.kdl, if present, and overlays it onto
// Default(workspaceRoot). A missing file is not an error.
func Load(workspaceRoot string) (Config, error) {
	cfg := Default(workspaceRoot)

	path := filepath.Join(workspaceRoot, fileName)
	content, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("config: reading %s: %w", path, err)
	}

	doc, err := kdl.Parse(strings.NewReader(string(content)))
	if err != nil {
		return Config{}, fmt.Errorf("config: parsing %s: %w", path, err)
	}

	for _, n := range doc.Nodes {
		switch nodeName(n) {
		case "project":
			applyProject(&cfg, n)
		case "watch":
			applyWatch(&cfg, n)
		case "validator":
			applyValidator(&cfg, n)
		case "pipeline":
			applyPipeline(&cfg, n)
		case "orchestrator":
			applyOrchestrator(&cfg, n)
		case "reachability":
			applyReachability(&cfg, n)
		case "graph_store":
			applyGraphStore(&cfg, n)
		case "vector_store":
			applyVectorStore(&cfg, n)
		case "embedding":
			applyEmbedding(&cfg, n)
		case "include":
			cfg.Include = append(cfg.Include, collectStringArgs(n)...)
		case "exclude":
			cfg.Exclude = collectStringArgs(n)
		}
	}

	return cfg, nil
}

func applyProject(cfg *Config, n *document.Node) {
	for _, cn := range n.Children {
		switch nodeName(cn) {
		case "root":
			if s, ok := firstStringArg(cn); ok {
				cfg.Project.Root = s
			}
		case "name":
			if s, ok := firstStringArg(cn); ok {
				cfg.Project.Name = s
			}
		}
	}
}

func applyWatch(cfg *Config, n *document.Node) {
	for _, cn := range n.Children {
		switch nodeName(cn) {
		case "enabled":
			if b, ok := firstBoolArg(cn); ok {
				cfg.Watch.Enabled = b
			}
		case "debounce_ms":
			if v, ok := firstIntArg(cn); ok {
				cfg.Watch.DebounceMs = v
			}
		}
	}
}

func applyValidator(cfg *Config, n *document.Node) {
	v := &cfg.Validator
	for _, cn := range n.Children {
		switch nodeName(cn) {
		case "max_metadata_size":
			if i, ok := firstIntArg(cn); ok {
				v.MaxMetadataSize = i
			}
		case "max_string_length":
			if i, ok := firstIntArg(cn); ok {
				v.MaxStringLength = i
			}
		case "max_array_length":
			if i, ok := firstIntArg(cn); ok {
				v.MaxArrayLength = i
			}
		case "max_object_depth":
			if i, ok := firstIntArg(cn); ok {
				v.MaxObjectDepth = i
			}
		case "validation_enabled":
			if b, ok := firstBoolArg(cn); ok {
				v.ValidationEnabled = b
			}
		case "allow_truncation":
			if b, ok := firstBoolArg(cn); ok {
				v.AllowTruncation = b
			}
		case "log_level":
			if s, ok := firstStringArg(cn); ok {
				v.LogLevel = metavalidate.LogLevel(s)
			}
		}
	}
}

func applyPipeline(cfg *Config, n *document.Node) {
	for _, cn := range n.Children {
		switch nodeName(cn) {
		case "graph":
			applyStage(&cfg.Pipeline.Graph, cn)
		case "vector":
			applyStage(&cfg.Pipeline.Vector, cn)
		case "embed":
			applyStage(&cfg.Pipeline.Embed, cn)
		}
	}
}

func applyStage(s *Stage, n *document.Node) {
	for _, cn := range n.Children {
		switch nodeName(cn) {
		case "max_concurrency":
			if v, ok := firstIntArg(cn); ok {
				s.MaxConcurrency = v
			}
		case "max_queue_size":
			if v, ok := firstIntArg(cn); ok {
				s.MaxQueueSize = v
			}
		}
	}
}

func applyOrchestrator(cfg *Config, n *document.Node) {
	for _, cn := range n.Children {
		switch nodeName(cn) {
		case "batch_failure_threshold":
			if v, ok := firstFloatArg(cn); ok {
				cfg.Orchestrator.BatchFailureThreshold = v
			}
		case "incremental":
			if b, ok := firstBoolArg(cn); ok {
				cfg.Orchestrator.Incremental = b
			}
		}
	}
}

func applyReachability(cfg *Config, n *document.Node) {
	for _, cn := range n.Children {
		switch nodeName(cn) {
		case "max_analysis_depth":
			if v, ok := firstIntArg(cn); ok {
				cfg.Reachability.MaxAnalysisDepth = v
			}
		case "max_analysis_time_sec":
			if v, ok := firstIntArg(cn); ok {
				cfg.Reachability.MaxAnalysisTime = secondsToDuration(v)
			}
		}
	}
}

func applyGraphStore(cfg *Config, n *document.Node) {
	for _, cn := range n.Children {
		switch nodeName(cn) {
		case "uri":
			if s, ok := firstStringArg(cn); ok {
				cfg.GraphStore.URI = s
			}
		case "username":
			if s, ok := firstStringArg(cn); ok {
				cfg.GraphStore.Username = s
			}
		case "password":
			if s, ok := firstStringArg(cn); ok {
				cfg.GraphStore.Password = s
			}
		case "database":
			if s, ok := firstStringArg(cn); ok {
				cfg.GraphStore.Database = s
			}
		}
	}
}

func applyVectorStore(cfg *Config, n *document.Node) {
	for _, cn := range n.Children {
		switch nodeName(cn) {
		case "kind":
			if s, ok := firstStringArg(cn); ok {
				cfg.VectorStore.Kind = s
			}
		case "endpoint":
			if s, ok := firstStringArg(cn); ok {
				cfg.VectorStore.Endpoint = s
			}
		case "collection":
			if s, ok := firstStringArg(cn); ok {
				cfg.VectorStore.Collection = s
			}
		}
	}
}

func applyEmbedding(cfg *Config, n *document.Node) {
	for _, cn := range n.Children {
		switch nodeName(cn) {
		case "model":
			if s, ok := firstStringArg(cn); ok {
				cfg.Embedding.Model = s
			}
		case "api_key_env":
			if s, ok := firstStringArg(cn); ok {
				cfg.Embedding.APIKeyEnv = s
			}
		}
	}
}

func nodeName(n *document.Node) string {
	if n == nil || n.Name == nil {
		return ""
	}
	return n.Name.NodeNameString()
}

func firstIntArg(n *document.Node) (int, bool) {
	if len(n.Arguments) == 0 {
		return 0, false
	}
	switch v := n.Arguments[0].Value.(type) {
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	default:
		return 0, false
	}
}

func firstFloatArg(n *document.Node) (float64, bool) {
	if len(n.Arguments) == 0 {
		return 0, false
	}
	switch v := n.Arguments[0].Value.(type) {
	case float64:
		return v, true
	case int64:
		return float64(v), true
	default:
		return 0, false
	}
}

func firstStringArg(n *document.Node) (string, bool) {
	if len(n.Arguments) == 0 {
		return "", false
	}
	if s, ok := n.Arguments[0].Value.(string); ok {
		return s, true
	}
	return "", false
}

func firstBoolArg(n *document.Node) (bool, bool) {
	if len(n.Arguments) == 0 {
		return false, false
	}
	if b, ok := n.Arguments[0].Value.(bool); ok {
		return b, true
	}
	return false, false
}

func collectStringArgs(n *document.Node) []string {
	if n == nil {
		return nil
	}
	out := make([]string, 0, len(n.Arguments))
	for _, a := range n.Arguments {
		if s, ok := a.Value.(string); ok {
			out = append(out, s)
		}
	}
	if len(out) == 0 && len(n.Children) > 0 {
		out = make([]string, 0, len(n.Children))
		for _, child := range n.Children {
			if s, ok := firstStringArg(child); ok {
				out = append(out, s)
			} else if child.Name != nil {
				if s, ok := child.Name.Value.(string); ok {
					out = append(out, s)
				}
			}
		}
	}
	return out
}
