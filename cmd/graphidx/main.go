// Command graphidx indexes a workspace into a code knowledge graph:
// parses its source with tree-sitter, extracts entities/relationships,
// and upserts them into the configured graph and vector stores.
// Grounded on the teacher's cmd/lci's flag/command layout and signal
// handling, scoped to this indexer's lifecycle (start/status/clear) plus a
// read-only report command, rather than the teacher's search/grep/MCP
// surface.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/standardbeagle/graphidx/internal/config"
	"github.com/standardbeagle/graphidx/internal/debuglog"
)

func main() {
	app := &cli.App{
		Name:  "graphidx",
		Usage: "Index a workspace into a code knowledge graph",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "root",
				Aliases: []string{"r"},
				Usage:   "Workspace root to index",
				Value:   ".",
			},
			&cli.BoolFlag{
				Name:  "quiet",
				Usage: "Suppress debug logging",
			},
		},
		Before: func(c *cli.Context) error {
			if !c.Bool("quiet") {
				debuglog.SetOutput(os.Stderr)
			}
			return nil
		},
		Commands: []*cli.Command{
			{
				Name:   "start",
				Usage:  "Index the workspace and keep watching for changes",
				Action: startCommand,
			},
			{
				Name:   "status",
				Usage:  "Print the current indexing state",
				Action: statusCommand,
			},
			{
				Name:   "clear",
				Usage:  "Clear the graph store, vector store, and local cache",
				Action: clearCommand,
			},
			{
				Name:   "report",
				Usage:  "Print unused imports, dead code, and unreachable statements without touching any store",
				Action: reportCommand,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func workspaceRoot(c *cli.Context) (string, error) {
	root := c.String("root")
	return filepath.Abs(root)
}

func startCommand(c *cli.Context) error {
	root, err := workspaceRoot(c)
	if err != nil {
		return err
	}

	o, _, err := config.Build(c.Context, root)
	if err != nil {
		return fmt.Errorf("graphidx: building orchestrator: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	errChan := make(chan error, 1)
	go func() { errChan <- o.Start(ctx) }()

	select {
	case err := <-errChan:
		if err != nil {
			return fmt.Errorf("graphidx: indexing failed: %w", err)
		}
		fmt.Fprintf(os.Stderr, "indexed %s\n", root)
	case sig := <-sigChan:
		fmt.Fprintf(os.Stderr, "received %v, shutting down\n", sig)
		o.Cancel()
	}

	return nil
}

func statusCommand(c *cli.Context) error {
	root, err := workspaceRoot(c)
	if err != nil {
		return err
	}

	o, _, err := config.Build(c.Context, root)
	if err != nil {
		return fmt.Errorf("graphidx: building orchestrator: %w", err)
	}

	status := o.Status()
	fmt.Printf("state: %s\n", status.State)
	if status.Category != "" {
		fmt.Printf("category: %s\n", status.Category)
		fmt.Printf("message: %s\n", status.Message)
	}
	return nil
}

func clearCommand(c *cli.Context) error {
	root, err := workspaceRoot(c)
	if err != nil {
		return err
	}

	o, _, err := config.Build(c.Context, root)
	if err != nil {
		return fmt.Errorf("graphidx: building orchestrator: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := o.Clear(ctx); err != nil {
		return fmt.Errorf("graphidx: clear failed: %w", err)
	}
	fmt.Fprintf(os.Stderr, "cleared %s\n", root)
	return nil
}
