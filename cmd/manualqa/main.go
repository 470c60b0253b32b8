// Copyright 2026 ManualQA Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"text/tabwriter"
	"time"

	"github.com/joho/godotenv"
	"github.com/panjf2000/ants/v2"
	"github.com/urfave/cli/v2"

	"github.com/manualqa/manualqa"
	"github.com/manualqa/manualqa/ai"
	"github.com/manualqa/manualqa/answer"
	"github.com/manualqa/manualqa/core"
	"github.com/manualqa/manualqa/reindex"
	"github.com/manualqa/manualqa/storage"
)

func main() {
	app := &cli.App{
		Name:  "manualqa",
		Usage: "Question answering over product manuals",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
			&cli.StringFlag{
				Name:    "data",
				Aliases: []string{"d"},
				Usage:   "Path to the manual library data directory",
				Value:   "manualqa-data",
				EnvVars: []string{"MANUALQA_DATA"},
			},
			&cli.StringFlag{
				Name:    "host",
				Usage:   "AI service host URL (embeddings and chat)",
				EnvVars: []string{"MANUALQA_HOST"},
			},
			&cli.StringFlag{
				Name:    "token",
				Usage:   "API token for the AI service",
				EnvVars: []string{"OPENAI_API_KEY"},
			},
			&cli.StringFlag{
				Name:    "embedding-model",
				Usage:   "Embedding model name",
				EnvVars: []string{"MANUALQA_EMBEDDING_MODEL"},
			},
			&cli.StringFlag{
				Name:    "chat-model",
				Usage:   "Chat model name for answer generation",
				EnvVars: []string{"MANUALQA_CHAT_MODEL"},
			},
			&cli.StringFlag{
				Name:    "vision-model",
				Usage:   "Vision model name for figure descriptions",
				EnvVars: []string{"MANUALQA_VISION_MODEL"},
			},
		},
		Before: setup,
		Commands: []*cli.Command{
			{
				Name:      "load",
				Usage:     "Ingest a manual PDF for a product",
				ArgsUsage: "<product name> <pdf path>",
				Action:    loadCommand,
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "vision",
						Usage: "Describe embedded images with the vision model",
					},
				},
			},
			{
				Name:      "ask",
				Usage:     "Ask a question about a loaded manual",
				ArgsUsage: "<product name> <question>",
				Action:    askCommand,
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "top-k",
						Usage: "Number of chunks retrieved as context",
						Value: answer.DefaultTopK,
					},
					&cli.BoolFlag{
						Name:    "verbose",
						Aliases: []string{"v"},
						Usage:   "Show retrieval details alongside the answer",
					},
				},
			},
			{
				Name:   "list",
				Usage:  "List registered manuals and their status",
				Action: listCommand,
			},
			{
				Name:      "reindex",
				Usage:     "Re-embed a loaded manual's index with the current embedding model",
				ArgsUsage: "<product name>",
				Action:    reindexCommand,
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "batch-size",
						Usage: "Number of chunks to embed in each batch",
						Value: 100,
					},
					&cli.IntFlag{
						Name:  "report-interval",
						Usage: "Report progress every N chunks",
						Value: 100,
					},
					&cli.IntFlag{
						Name:  "max-retries",
						Usage: "Maximum retry attempts for failed embedding calls",
						Value: 3,
					},
					&cli.DurationFlag{
						Name:  "retry-delay",
						Usage: "Base delay for exponential backoff",
						Value: 1 * time.Second,
					},
				},
			},
			{
				Name:      "bulk",
				Usage:     "Ingest every PDF in a directory, one product per file",
				ArgsUsage: "<directory>",
				Action:    bulkCommand,
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:    "concurrency",
						Aliases: []string{"c"},
						Usage:   "Number of documents processed in parallel",
					},
					&cli.BoolFlag{
						Name:  "vision",
						Usage: "Describe embedded images with the vision model",
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

// setup loads .env if present and configures the default logger.
func setup(c *cli.Context) error {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("loading .env: %w", err)
	}

	levelStr := strings.ToLower(c.String("log-level"))

	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}

func aiConfigFromFlags(c *cli.Context) *ai.Config {
	var opts []ai.ConfigOption
	if host := c.String("host"); host != "" {
		opts = append(opts, ai.WithHost(host))
	}
	if token := c.String("token"); token != "" {
		opts = append(opts, ai.WithToken(token))
	}
	if model := c.String("embedding-model"); model != "" {
		opts = append(opts, ai.WithEmbeddingModel(model))
	}
	if model := c.String("chat-model"); model != "" {
		opts = append(opts, ai.WithChatModel(model))
	}
	if model := c.String("vision-model"); model != "" {
		opts = append(opts, ai.WithVisionModel(model))
	}
	return ai.NewConfig(opts...)
}

func openLibrary(c *cli.Context, extra ...manualqa.LibraryOption) (*manualqa.Library, error) {
	opts := append([]manualqa.LibraryOption{
		manualqa.WithAIConfig(aiConfigFromFlags(c)),
	}, extra...)

	library, err := manualqa.NewLibrary(c.String("data"), opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to open manual library: %w", err)
	}
	return library, nil
}

func loadCommand(c *cli.Context) error {
	if c.NArg() != 2 {
		return fmt.Errorf("usage: load <product name> <pdf path>")
	}
	productName := c.Args().Get(0)
	pdfPath := c.Args().Get(1)

	library, err := openLibrary(c, manualqa.WithVision(c.Bool("vision")))
	if err != nil {
		return err
	}
	defer library.Close()

	record, err := library.LoadManual(context.Background(), productName, pdfPath)
	if err != nil {
		return fmt.Errorf("failed to load manual for %q: %w", productName, err)
	}

	fmt.Printf("Loaded manual for %s (status: %s)\n", record.DisplayName, record.Status)
	return nil
}

func askCommand(c *cli.Context) error {
	if c.NArg() != 2 {
		return fmt.Errorf("usage: ask <product name> <question>")
	}
	productName := c.Args().Get(0)
	question := c.Args().Get(1)

	library, err := openLibrary(c, manualqa.WithTopK(c.Int("top-k")))
	if err != nil {
		return err
	}
	defer library.Close()

	var monitor answer.Monitor
	if c.Bool("verbose") {
		monitor = &verboseMonitor{out: os.Stderr}
	}

	response, err := library.AskWithMonitor(context.Background(), productName, question, monitor)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return fmt.Errorf("no manual registered for %q; load it first", productName)
	case errors.Is(err, manualqa.ErrManualNotReady):
		return fmt.Errorf("the manual for %q has not finished loading; load it again", productName)
	case err != nil:
		return fmt.Errorf("failed to answer: %w", err)
	}

	fmt.Println(response)
	return nil
}

func listCommand(c *cli.Context) error {
	library, err := openLibrary(c)
	if err != nil {
		return err
	}
	defer library.Close()

	manuals, err := library.Manuals(context.Background())
	if err != nil {
		return fmt.Errorf("failed to list manuals: %w", err)
	}

	if len(manuals) == 0 {
		fmt.Println("No manuals registered.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "PRODUCT\tSTATUS\tUPDATED")
	for _, record := range manuals {
		fmt.Fprintf(w, "%s\t%s\t%s\n",
			record.DisplayName, record.Status,
			record.UpdatedAt.Local().Format("2006-01-02 15:04"))
	}
	return w.Flush()
}

func reindexCommand(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("usage: reindex <product name>")
	}
	productName := c.Args().Get(0)

	config := &reindex.Config{
		BatchSize:      c.Int("batch-size"),
		ReportInterval: c.Int("report-interval"),
		MaxRetries:     c.Int("max-retries"),
		RetryDelay:     c.Duration("retry-delay"),
	}
	if config.BatchSize <= 0 {
		return fmt.Errorf("batch-size must be greater than 0")
	}
	if config.ReportInterval <= 0 {
		return fmt.Errorf("report-interval must be greater than 0")
	}
	if config.MaxRetries <= 0 {
		return fmt.Errorf("max-retries must be greater than 0")
	}

	library, err := openLibrary(c)
	if err != nil {
		return err
	}
	defer library.Close()

	err = library.Reindex(context.Background(), productName, config, os.Stderr)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return fmt.Errorf("no manual registered for %q", productName)
	case errors.Is(err, manualqa.ErrManualNotReady):
		return fmt.Errorf("the manual for %q has not finished loading", productName)
	case err != nil:
		return fmt.Errorf("reindex failed: %w", err)
	}
	return nil
}

func bulkCommand(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("usage: bulk <directory>")
	}
	dir := c.Args().Get(0)

	extra := []manualqa.LibraryOption{manualqa.WithVision(c.Bool("vision"))}
	if size := c.Int("concurrency"); size > 0 {
		extra = append(extra, manualqa.WithPoolSize(size))
	}
	library, err := openLibrary(c, extra...)
	if err != nil {
		return err
	}
	defer library.Close()

	paths, err := filepath.Glob(filepath.Join(dir, "*.pdf"))
	if err != nil {
		return fmt.Errorf("failed to list %s: %w", dir, err)
	}
	if len(paths) == 0 {
		fmt.Printf("No PDF files found in %s.\n", dir)
		return nil
	}

	poolSize := c.Int("concurrency")
	if poolSize < 1 {
		poolSize = 1
	}
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return err
	}
	defer pool.Release()

	ctx := context.Background()
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		failures int
	)
	for _, path := range paths {
		path := path
		wg.Add(1)
		if err := pool.Submit(func() {
			defer wg.Done()
			record, err := library.LoadManual(ctx, productNameFromPath(path), path)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				failures++
				fmt.Fprintf(os.Stderr, "FAILED %s: %v\n", filepath.Base(path), err)
				return
			}
			fmt.Printf("Loaded %s (status: %s)\n", record.DisplayName, record.Status)
		}); err != nil {
			wg.Done()
			mu.Lock()
			failures++
			mu.Unlock()
			fmt.Fprintf(os.Stderr, "FAILED %s: %v\n", filepath.Base(path), err)
		}
	}
	wg.Wait()

	if failures > 0 {
		return fmt.Errorf("%d of %d manuals failed to load", failures, len(paths))
	}
	return nil
}

// productNameFromPath derives a product name from a file name:
// "acme-blender-3000.pdf" becomes "acme blender 3000".
func productNameFromPath(path string) string {
	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return strings.ReplaceAll(strings.ReplaceAll(base, "-", " "), "_", " ")
}

// verboseMonitor prints retrieval details to stderr during ask --verbose.
type verboseMonitor struct {
	out *os.File
}

var _ answer.Monitor = (*verboseMonitor)(nil)

func (m *verboseMonitor) Start(question string) {
	fmt.Fprintf(m.out, "Question: %s\n", question)
}

func (m *verboseMonitor) AfterQueryEmbedding(dimensions int) {
	fmt.Fprintf(m.out, "Embedded question (%d dimensions)\n", dimensions)
}

func (m *verboseMonitor) AfterRetrieval(matches []*core.ChunkMatch) {
	fmt.Fprintf(m.out, "Retrieved %d chunks:\n", len(matches))
	for i, match := range matches {
		text := match.Record.Text
		if len(text) > 120 {
			text = text[:120] + "..."
		}
		fmt.Fprintf(m.out, "  [%d] score=%.3f %s\n", i+1, match.Score, text)
	}
}

func (m *verboseMonitor) Finish(_ string) {
	fmt.Fprintln(m.out)
}
