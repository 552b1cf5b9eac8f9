// Command grammarfetch downloads the tree-sitter WASM runtime and
// per-language grammar blobs a workspace needs, verifying their sizes
// before counting them present. It is the grammar-binary side of the
// indexer: internal/parse links native Go grammar bindings at build
// time for the languages it parses, but a WASM-hosted front end (or a
// CI image that only ships the binary, not the grammars) fetches these
// assets at startup instead.
//
// Grounded on spec.md §6's literal CLI contract and network rules; no
// teacher file does this (the teacher links its grammars natively), so
// the retry/backoff idiom is adapted from internal/pipeline's
// attempt-indexed delay shape rather than copied from any one file.
package main

import (
	"crypto/sha256"
	"encoding/hex"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"
)

// requestTimeout and maxRedirects are spec §5/§6's download bounds: 30s
// per request, 5 redirects max.
const (
	requestTimeout = 30 * time.Second
	maxRedirects   = 5
)

// retryDelaysMS is spec §6's literal three-attempt backoff schedule:
// no delay, then 1s, then 2s.
var retryDelaysMS = []int{0, 1000, 2000}

// runtimeAsset is the tree-sitter WASM runtime itself; its size must
// land in [minRuntimeBytes, maxRuntimeBytes] (spec §6: 170-210 KB).
const runtimeAsset = "tree-sitter.wasm"

const (
	minRuntimeBytes = 170 * 1024
	maxRuntimeBytes = 210 * 1024
)

// grammarLanguages is spec §6's "~30 languages incl. c_sharp" enumerated
// list. packageName differs from the language name only for xml, which
// ships from a separate grammar package upstream.
type grammarLanguage struct {
	name        string
	packageName string
}

var grammarLanguages = []grammarLanguage{
	{name: "go"}, {name: "javascript"}, {name: "typescript"}, {name: "tsx"},
	{name: "python"}, {name: "rust"}, {name: "cpp"}, {name: "c"},
	{name: "java"}, {name: "c_sharp"}, {name: "php"}, {name: "ruby"},
	{name: "css"}, {name: "html"}, {name: "json"}, {name: "yaml"},
	{name: "bash"}, {name: "lua"}, {name: "scala"}, {name: "swift"},
	{name: "kotlin"}, {name: "dart"}, {name: "elixir"}, {name: "elm"},
	{name: "haskell"}, {name: "ocaml"}, {name: "perl"}, {name: "r"},
	{name: "toml"}, {name: "xml", packageName: "tree-sitter-xml"},
}

func (l grammarLanguage) assetName() string {
	return fmt.Sprintf("tree-sitter-%s.wasm", l.name)
}

func (l grammarLanguage) sourcePackage() string {
	if l.packageName != "" {
		return l.packageName
	}
	return "tree-sitter-" + l.name
}

// baseURL is where grammar blobs are fetched from; overridable for
// tests and for mirrors/air-gapped builds via GRAPHIDX_GRAMMAR_BASE_URL.
var baseURL = "https://cdn.jsdelivr.net/npm/tree-sitter-wasms@latest/out"

func main() {
	if v := os.Getenv("GRAPHIDX_GRAMMAR_BASE_URL"); v != "" {
		baseURL = v
	}

	strict := flag.Bool("strict", false, "exit non-zero on any download or verification failure")
	flag.BoolVar(strict, "s", false, "shorthand for --strict")
	dir := flag.String("dir", filepath.Join("dist", "services", "tree-sitter"), "target directory for grammar assets")
	help := flag.Bool("help", false, "show usage")
	flag.BoolVar(help, "h", false, "shorthand for --help")
	flag.Parse()

	if *help {
		flag.Usage()
		os.Exit(0)
	}

	os.Exit(run(*dir, *strict))
}

func run(dir string, strict bool) int {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "grammarfetch: creating %s: %v\n", dir, err)
		return 1
	}

	client := &http.Client{
		Timeout: requestTimeout,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= maxRedirects {
				return fmt.Errorf("stopped after %d redirects", maxRedirects)
			}
			return nil
		},
	}

	anyFailed := false
	m := manifest{BaseURL: baseURL}

	runtimePath := filepath.Join(dir, runtimeAsset)
	if err := fetchVerified(client, baseURL+"/"+runtimeAsset, runtimePath, minRuntimeBytes, maxRuntimeBytes, ""); err != nil {
		fmt.Fprintf(os.Stderr, "grammarfetch: %s: %v\n", runtimeAsset, err)
		anyFailed = true
	}

	runtimePresent := !anyFailed
	present := 0
	if runtimePresent {
		present++ // the runtime counts toward "tree-sitter.wasm + 2 language grammars"
		recordAsset(&m, runtimePath, runtimeAsset)
	}

	for _, lang := range grammarLanguages {
		asset := lang.assetName()
		target := filepath.Join(dir, asset)
		url := fmt.Sprintf("%s/%s", baseURL, asset)
		if err := fetchVerified(client, url, target, 0, 0, ""); err != nil {
			fmt.Fprintf(os.Stderr, "grammarfetch: %s: %v\n", asset, err)
			anyFailed = true
			continue
		}
		present++
		recordAsset(&m, target, asset)
	}

	if err := writeManifest(dir, m); err != nil {
		fmt.Fprintf(os.Stderr, "grammarfetch: writing manifest: %v\n", err)
	}

	if strict && anyFailed {
		return 1
	}
	if !runtimePresent || present < 3 { // runtime + at least 2 grammars
		return 1
	}
	return 0
}

func recordAsset(m *manifest, path, name string) {
	info, err := os.Stat(path)
	if err != nil {
		return
	}
	m.Assets = append(m.Assets, assetRecord{Name: name, SizeBytes: info.Size()})
}

// fetchVerified downloads url to target with spec §6's retry schedule,
// then checks the result's size bounds (when non-zero) and, when
// wantSHA256 is set, its digest. A file already present with a
// matching size is treated as satisfied without a network round trip.
func fetchVerified(client *http.Client, url, target string, minBytes, maxBytes int64, wantSHA256 string) error {
	if info, err := os.Stat(target); err == nil {
		if minBytes == 0 || (info.Size() >= minBytes && info.Size() <= maxBytes) {
			return nil
		}
	}

	body, err := fetchWithRetry(client, url)
	if err != nil {
		return err
	}

	if minBytes > 0 {
		size := int64(len(body))
		if size < minBytes || size > maxBytes {
			return fmt.Errorf("size %d bytes out of bounds [%d, %d]", size, minBytes, maxBytes)
		}
	}
	if wantSHA256 != "" {
		sum := sha256.Sum256(body)
		if hex.EncodeToString(sum[:]) != wantSHA256 {
			return fmt.Errorf("sha256 mismatch")
		}
	}

	tmp := target + ".tmp"
	if err := os.WriteFile(tmp, body, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", tmp, err)
	}
	return os.Rename(tmp, target)
}

// fetchWithRetry follows spec §6's network rules: HTTPS, retry on
// network errors and 5xx with the [0, 1000, 2000]ms schedule across
// three attempts, never retrying a 4xx.
func fetchWithRetry(client *http.Client, url string) ([]byte, error) {
	var lastErr error
	for attempt, delayMS := range retryDelaysMS {
		if delayMS > 0 {
			time.Sleep(time.Duration(delayMS) * time.Millisecond)
		}

		resp, err := client.Get(url)
		if err != nil {
			lastErr = err
			continue
		}

		if resp.StatusCode >= 400 && resp.StatusCode < 500 {
			resp.Body.Close()
			return nil, fmt.Errorf("attempt %d: %s (not retrying 4xx)", attempt+1, resp.Status)
		}
		if resp.StatusCode >= 500 {
			resp.Body.Close()
			lastErr = fmt.Errorf("attempt %d: %s", attempt+1, resp.Status)
			continue
		}

		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			lastErr = err
			continue
		}
		return body, nil
	}
	return nil, fmt.Errorf("fetching %s: %w", url, lastErr)
}
