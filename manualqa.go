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


package manualqa

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strconv"

	"github.com/manualqa/manualqa/ai"
	"github.com/manualqa/manualqa/ai/openai"
	"github.com/manualqa/manualqa/answer"
	"github.com/manualqa/manualqa/core"
	"github.com/manualqa/manualqa/ingest"
	"github.com/manualqa/manualqa/reindex"
	"github.com/manualqa/manualqa/storage"
	"github.com/manualqa/manualqa/storage/badger"
)

// ErrManualNotReady is returned when a question targets a manual whose
// ingestion has not completed successfully.
var ErrManualNotReady = errors.New("manual not ready")

// Library is the top level entry point: a registry of product manuals plus
// their per-manual vector indexes, all under one data directory. The same AI
// provider serves ingestion and answering, so index and query embeddings
// always come from the same model.
type Library struct {
	dataDir  string
	registry storage.ManualRegistry
	provider ai.AIProvider
	pipeline *ingest.Pipeline
	answerer *answer.Answerer
	logger   *slog.Logger

	ownsProvider bool
}

// LibraryOption configures a Library.
type LibraryOption func(*libraryOptions)

type libraryOptions struct {
	aiConfig *ai.Config
	provider ai.AIProvider
	vision   bool
	topK     int
	poolSize int
	logger   *slog.Logger
}

// WithAIConfig sets the AI service configuration used to build the provider.
// Ignored when WithProvider is also given.
func WithAIConfig(config *ai.Config) LibraryOption {
	return func(o *libraryOptions) {
		o.aiConfig = config
	}
}

// WithProvider supplies a ready-made AI provider instead of building one
// from configuration. The library does not close a supplied provider.
func WithProvider(provider ai.AIProvider) LibraryOption {
	return func(o *libraryOptions) {
		o.provider = provider
	}
}

// WithVision enables vision-enhanced extraction during ingestion.
func WithVision(enabled bool) LibraryOption {
	return func(o *libraryOptions) {
		o.vision = enabled
	}
}

// WithTopK sets how many chunks are retrieved as answer context.
func WithTopK(k int) LibraryOption {
	return func(o *libraryOptions) {
		o.topK = k
	}
}

// WithPoolSize sets the worker pool size for bulk ingestion.
func WithPoolSize(size int) LibraryOption {
	return func(o *libraryOptions) {
		o.poolSize = size
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) LibraryOption {
	return func(o *libraryOptions) {
		o.logger = logger
	}
}

// NewLibrary opens (creating if needed) a manual library at dataDir.
// The registry lives under dataDir/catalog and each manual's vector index
// under dataDir/indexes/<record-id>.
func NewLibrary(dataDir string, opts ...LibraryOption) (*Library, error) {
	options := &libraryOptions{
		aiConfig: ai.DefaultConfig(),
	}
	for _, opt := range opts {
		opt(options)
	}

	logger := options.logger
	if logger == nil {
		logger = slog.Default()
	}

	registry, err := badger.OpenManualRegistry(filepath.Join(dataDir, "catalog"))
	if err != nil {
		return nil, err
	}

	provider := options.provider
	ownsProvider := false
	if provider == nil {
		provider, err = openai.NewProvider(options.aiConfig)
		if err != nil {
			registry.Close()
			return nil, err
		}
		ownsProvider = true
	}

	ingestOpts := []ingest.Option{
		ingest.WithVision(options.vision),
		ingest.WithLogger(logger),
	}
	if options.poolSize > 0 {
		ingestOpts = append(ingestOpts, ingest.WithPoolSize(options.poolSize))
	}
	pipeline, err := ingest.NewPipeline(provider, ingestOpts...)
	if err != nil {
		if ownsProvider {
			provider.Close()
		}
		registry.Close()
		return nil, err
	}

	answerOpts := []answer.Option{answer.WithLogger(logger)}
	if options.topK > 0 {
		answerOpts = append(answerOpts, answer.WithTopK(options.topK))
	}
	answerer, err := answer.NewAnswerer(provider, answerOpts...)
	if err != nil {
		pipeline.Release()
		if ownsProvider {
			provider.Close()
		}
		registry.Close()
		return nil, err
	}

	return &Library{
		dataDir:      dataDir,
		registry:     registry,
		provider:     provider,
		pipeline:     pipeline,
		answerer:     answerer,
		logger:       logger,
		ownsProvider: ownsProvider,
	}, nil
}

// Close releases the library's resources.
func (l *Library) Close() error {
	l.pipeline.Release()
	if l.ownsProvider {
		if err := l.provider.Close(); err != nil {
			l.logger.Error("error closing AI provider", "err", err)
		}
	}
	if err := l.registry.Close(); err != nil {
		l.logger.Error("error closing manual registry", "err", err)
		return err
	}
	return nil
}

// LoadManual registers the product (names differing only in case or spacing
// are the same product) and ingests the PDF at pdfPath into its vector
// index. A product whose manual is already loaded is returned as-is without
// re-ingesting. On ingestion failure the record is marked Failed and no
// index is left behind; a later LoadManual for the same product retries.
func (l *Library) LoadManual(ctx context.Context, productName, pdfPath string) (*core.ManualRecord, error) {
	return l.loadManual(ctx, productName, func(location string) error {
		return l.pipeline.IngestFile(ctx, pdfPath, location)
	})
}

// LoadManualFromReader is LoadManual for a PDF supplied as a stream, e.g. an
// upload. The stream is spooled to a temporary file for the duration of the
// ingestion.
func (l *Library) LoadManualFromReader(ctx context.Context, productName string, r io.Reader) (*core.ManualRecord, error) {
	return l.loadManual(ctx, productName, func(location string) error {
		return l.pipeline.IngestReader(ctx, r, location)
	})
}

func (l *Library) loadManual(ctx context.Context, productName string, ingestTo func(location string) error) (*core.ManualRecord, error) {
	record, created, err := l.registry.GetOrCreate(ctx, productName)
	if err != nil {
		return nil, err
	}

	if !created && record.Status == core.StatusCompleted {
		l.logger.Info("manual already loaded", "product", record.ProductName)
		return record, nil
	}

	location := l.indexLocation(record)
	if err := ingestTo(location); err != nil {
		if markErr := l.registry.MarkFailed(ctx, record); markErr != nil {
			l.logger.Error("failed to mark manual as failed",
				"product", record.ProductName, "err", markErr)
		}
		return record, err
	}

	if err := l.registry.MarkCompleted(ctx, record, location); err != nil {
		return record, err
	}

	l.logger.Info("manual loaded", "product", record.ProductName, "location", location)
	return record, nil
}

// Ask answers a question about a previously loaded manual.
// The product must exist and its ingestion must have completed; otherwise
// storage.ErrNotFound or ErrManualNotReady is returned before any model call.
func (l *Library) Ask(ctx context.Context, productName, question string) (string, error) {
	return l.AskWithMonitor(ctx, productName, question, nil)
}

// AskWithMonitor is Ask with monitoring callbacks at each answering stage.
func (l *Library) AskWithMonitor(ctx context.Context, productName, question string, monitor answer.Monitor) (string, error) {
	record, err := l.registry.Get(ctx, productName)
	if err != nil {
		return "", err
	}
	if record.Status != core.StatusCompleted {
		return "", fmt.Errorf("%w: %s is %s", ErrManualNotReady,
			record.ProductName, record.Status)
	}
	return l.answerer.AnswerWithMonitor(ctx, question, record.IndexLocation, monitor)
}

// Reindex re-embeds the stored chunks of a loaded manual with the library's
// current embedding model. Required after switching embedding models, since
// answers need index and query vectors from the same model. Progress is
// written to progress when non-nil.
func (l *Library) Reindex(ctx context.Context, productName string, config *reindex.Config, progress io.Writer) error {
	record, err := l.registry.Get(ctx, productName)
	if err != nil {
		return err
	}
	if record.Status != core.StatusCompleted {
		return fmt.Errorf("%w: %s is %s", ErrManualNotReady,
			record.ProductName, record.Status)
	}

	reindexer, err := reindex.NewReindexer(l.provider.Embedder(), config, progress)
	if err != nil {
		return err
	}
	return reindexer.Run(ctx, record.IndexLocation)
}

// Manuals returns every registered manual with its processing status,
// ordered by product name.
func (l *Library) Manuals(ctx context.Context) ([]*core.ManualRecord, error) {
	return l.registry.List(ctx)
}

// NewIngestionPipeline creates a standalone pipeline sharing the library's
// provider, for callers that manage index locations themselves.
func (l *Library) NewIngestionPipeline(opts ...ingest.Option) (*ingest.Pipeline, error) {
	return ingest.NewPipeline(l.provider, opts...)
}

// IndexLocationFor maps a registry record to its index directory.
func (l *Library) IndexLocationFor(record *core.ManualRecord) string {
	return l.indexLocation(record)
}

func (l *Library) indexLocation(record *core.ManualRecord) string {
	return filepath.Join(l.dataDir, "indexes", strconv.FormatUint(uint64(record.Id), 10))
}
