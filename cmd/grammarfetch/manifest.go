package main

import (
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// manifestName is the machine-written record of what was fetched, kept
// alongside the grammar assets themselves. TOML rather than KDL: this
// file is generated and re-read by this tool only, never hand-edited,
// and a flatter format suits that better than internal/config's
// human-authored .graphidx.kdl.
const manifestName = "grammars.toml"

// assetRecord is one fetched (or already-present) grammar asset's
// recorded state.
type assetRecord struct {
	Name      string `toml:"name"`
	SizeBytes int64  `toml:"size_bytes"`
	SHA256    string `toml:"sha256,omitempty"`
}

// manifest is the full set of assets a grammarfetch run has verified
// present in the target directory.
type manifest struct {
	BaseURL string        `toml:"base_url"`
	Assets  []assetRecord `toml:"assets"`
}

func writeManifest(dir string, m manifest) error {
	data, err := toml.Marshal(m)
	if err != nil {
		return err
	}
	tmp := filepath.Join(dir, manifestName+".tmp")
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, filepath.Join(dir, manifestName))
}

func readManifest(dir string) (manifest, error) {
	data, err := os.ReadFile(filepath.Join(dir, manifestName))
	if err != nil {
		return manifest{}, err
	}
	var m manifest
	if err := toml.Unmarshal(data, &m); err != nil {
		return manifest{}, err
	}
	return m, nil
}
