package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/spdxkit/spdxtu/config"
	"github.com/spdxkit/spdxtu/document"
	"github.com/spdxkit/spdxtu/element"
	"github.com/spdxkit/spdxtu/store"
	"github.com/spdxkit/spdxtu/watch"
)

const (
	Version   = "0.1.0"
	BuildTime = "dev"
	appName   = "spdxtu"
)

// app carries the resolved tool configuration and logger into the commands.
type app struct {
	cfg    *config.Config
	logger *slog.Logger
}

func rootCmd() *cobra.Command {
	var logLevel string
	a := &app{}

	cmd := &cobra.Command{
		Use:   appName,
		Short: "SPDX v3 transfer-unit tooling",
		Long: `spdxtu builds SPDX v3 transfer units from a pool of element files.

make assembles a document: starting from the configured include list it
follows every identifier-valued reference field until the closure is
complete, compresses identifiers against the document's namespace and
prefixes, and writes one self-contained file.

merge, split, and check operate on existing documents: merge expands
spdxDocument elements into payload files, split recovers standalone
elements from a document, and check verifies a document's internal
consistency.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			a.logger = newLogger(logLevel)
			slog.SetDefault(a.logger)
			cfg, err := config.NewLoader(a.logger).Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			a.cfg = cfg
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")

	cmd.AddCommand(
		a.makeCmd(),
		a.mergeCmd(),
		a.splitCmd(),
		a.checkCmd(),
		a.newCmd(),
		a.watchCmd(),
		versionCmd(),
	)
	return cmd
}

func newLogger(level string) *slog.Logger {
	lvl := slog.LevelInfo
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("%s version %s (build: %s)\n", appName, Version, BuildTime)
		},
	}
}

// loadPool reads every element file into an in-memory store.
func (a *app) loadPool() (*store.Store, error) {
	pool, err := store.Load(a.cfg.Dirs.Elements, a.cfg.Dirs.Pattern, element.NewCodec(), a.logger)
	if err != nil {
		return nil, fmt.Errorf("load elements: %w", err)
	}
	return pool, nil
}

// resolveAssemblyConfig accepts either a path or a file name relative to the
// configured assembly-config directory.
func (a *app) resolveAssemblyConfig(name string) string {
	if _, err := os.Stat(name); err == nil {
		return name
	}
	return filepath.Join(a.cfg.Dirs.Configs, name)
}

func (a *app) makeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "make <config>",
		Short: "Assemble a transfer-unit document from an assembly configuration",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runMake(args[0])
		},
	}
}

func (a *app) runMake(configName string) error {
	tuCfg, err := document.LoadConfig(a.resolveAssemblyConfig(configName))
	if err != nil {
		return err
	}
	pool, err := a.loadPool()
	if err != nil {
		return err
	}
	doc, err := document.NewAssembler(pool, a.logger).Assemble(tuCfg)
	if err != nil {
		return err
	}
	out := filepath.Join(a.cfg.Dirs.Out, tuCfg.Filename)
	if err := doc.WriteFile(out); err != nil {
		return err
	}
	a.logger.Info("document written", "path", out, "elements", len(doc.Elements))
	return nil
}

func (a *app) mergeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "merge [docID]",
		Short: "Expand spdxDocument elements into standalone payload files",
		Long: `Merge writes one payload per spdxDocument element: the element bodies it
lists, wrapped with its namespace, prefixes, and default properties. With no
argument every spdxDocument in the pool is merged.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			docID := ""
			if len(args) == 1 {
				docID = args[0]
			}
			return a.runMerge(docID)
		},
	}
}

func (a *app) runMerge(docID string) error {
	pool, err := a.loadPool()
	if err != nil {
		return err
	}
	results, unserialized, err := document.NewMerger(pool, a.logger).Merge(docID)
	if err != nil {
		return err
	}

	outDir := filepath.Join(a.cfg.Dirs.Out, "documents")
	for _, res := range results {
		expandedPath := filepath.Join(outDir, res.Name+"_x.json")
		if err := res.Expanded.WriteFile(expandedPath); err != nil {
			return err
		}
		compressedPath := filepath.Join(outDir, res.Name+".json")
		if err := res.Compressed.WriteFile(compressedPath); err != nil {
			return err
		}
		fmt.Printf("%3d elements  %s\n", len(res.Compressed.Elements), compressedPath)
	}

	if len(unserialized) > 0 {
		fmt.Println("\nNot serialized:")
		for _, id := range unserialized {
			fmt.Printf("  %s\n", id)
		}
	}
	return nil
}

func (a *app) splitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "split <file>",
		Short: "Split a transfer-unit document into standalone element files",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runSplit(args[0])
		},
	}
}

func (a *app) runSplit(path string) error {
	doc, err := document.ParseFile(path)
	if err != nil {
		return err
	}
	els, err := document.NewSplitter(a.logger).Split(doc)
	if err != nil {
		return err
	}

	outDir := filepath.Join(a.cfg.Dirs.Out, "elements")
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	for _, el := range els {
		data, err := json.MarshalIndent(el, "", "  ")
		if err != nil {
			return fmt.Errorf("encode %s: %w", el.ID, err)
		}
		data = append(data, '\n')
		out := filepath.Join(outDir, document.ElementFilename(el.ID))
		if err := os.WriteFile(out, data, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", out, err)
		}
	}
	a.logger.Info("elements written", "count", len(els), "dir", outDir)
	return nil
}

func (a *app) checkCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check <file>",
		Short: "Check the internal consistency of a transfer-unit document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runCheck(args[0])
		},
	}
}

func (a *app) runCheck(path string) error {
	doc, err := document.ParseFile(path)
	if err != nil {
		return err
	}
	report, err := document.Check(doc, a.logger)
	if err != nil {
		return err
	}

	printFindings := func(label string, ids []string) {
		if len(ids) == 0 {
			return
		}
		fmt.Printf("%s:\n", label)
		for _, id := range ids {
			fmt.Printf("  %s\n", id)
		}
	}
	printFindings("Dangling references", report.Dangling)
	printFindings("Duplicate ids", report.Duplicates)
	printFindings("Elements created after the document", report.Late)
	printFindings("Uncovered IRIs", report.Uncovered)
	printFindings("Uncompressed identifiers", report.Uncompressed)
	printFindings("Root elements", report.Roots)

	if !report.OK() {
		return fmt.Errorf("document %s has defects", path)
	}
	fmt.Printf("%s: ok (%d elements)\n", path, len(doc.Elements))
	return nil
}

func (a *app) newCmd() *cobra.Command {
	var namespace, name string
	cmd := &cobra.Command{
		Use:   "new <kind>",
		Short: "Create a new element file with a freshly minted identifier",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runNew(args[0], namespace, name)
		},
	}
	cmd.Flags().StringVar(&namespace, "namespace", "", "Base IRI for the element id (required)")
	cmd.Flags().StringVar(&name, "name", "", "Local name for the element id (default: a new UUID)")
	_ = cmd.MarkFlagRequired("namespace")
	return cmd
}

func (a *app) runNew(kind, namespace, name string) error {
	if name == "" {
		name = uuid.New().String()
	}
	el := &element.Element{
		ID:      namespace + name,
		Created: time.Now().UTC().Format(time.RFC3339),
		Kind:    kind,
		Props:   map[string]any{},
	}
	data, err := json.MarshalIndent(el, "", "  ")
	if err != nil {
		return fmt.Errorf("encode element: %w", err)
	}
	data = append(data, '\n')

	if err := os.MkdirAll(a.cfg.Dirs.Elements, 0o755); err != nil {
		return fmt.Errorf("create elements dir: %w", err)
	}
	out := filepath.Join(a.cfg.Dirs.Elements, document.ElementFilename(el.ID))
	f, err := os.OpenFile(out, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return fmt.Errorf("create element file: %w", err)
	}
	defer f.Close()
	if _, err := f.Write(data); err != nil {
		return fmt.Errorf("write element file: %w", err)
	}
	fmt.Printf("%s\n", out)
	return nil
}

func (a *app) watchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch <config>",
		Short: "Reassemble a document whenever element files change",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runWatch(cmd.Context(), args[0])
		},
	}
}

func (a *app) runWatch(ctx context.Context, configName string) error {
	if err := a.runMake(configName); err != nil {
		a.logger.Error("initial assembly failed", "error", err)
	}

	dirs := []string{a.cfg.Dirs.Elements}
	if _, err := os.Stat(a.cfg.Dirs.Configs); err == nil {
		dirs = append(dirs, a.cfg.Dirs.Configs)
	}
	w, err := watch.New(dirs, a.cfg.Watch.Debounce, nil, a.logger)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	a.logger.Info("watching for changes", "dirs", dirs)
	err = w.Run(ctx, func() {
		if err := a.runMake(configName); err != nil {
			a.logger.Error("assembly failed", "error", err)
		}
	})
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
