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

package ingest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"github.com/panjf2000/ants/v2"

	"github.com/manualqa/manualqa/ai"
	"github.com/manualqa/manualqa/chunk"
	"github.com/manualqa/manualqa/core"
	"github.com/manualqa/manualqa/extract"
	"github.com/manualqa/manualqa/storage/badger"
)

// Pipeline turns a manual PDF into a persisted vector index: extract text,
// split into chunks, embed everything, then write the index in one pass.
type Pipeline struct {
	extractor *extract.Extractor
	splitter  *chunk.Splitter
	embedder  ai.Embedder
	pool      *ants.Pool
	logger    *slog.Logger

	vision       bool
	chunkSize    int
	chunkOverlap int
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithVision enables vision-enhanced extraction: embedded images are
// described by the provider's vision model and indexed alongside the text.
// Ignored when the provider has no captioner configured.
func WithVision(enabled bool) Option {
	return func(p *Pipeline) error {
		p.vision = enabled
		return nil
	}
}

// WithChunkSize overrides the target chunk length.
func WithChunkSize(size int) Option {
	return func(p *Pipeline) error {
		if size > 0 {
			p.chunkSize = size
		}
		return nil
	}
}

// WithChunkOverlap overrides the overlap between consecutive chunks.
func WithChunkOverlap(overlap int) Option {
	return func(p *Pipeline) error {
		if overlap >= 0 {
			p.chunkOverlap = overlap
		}
		return nil
	}
}

// WithPoolSize sets the worker pool size for bulk directory ingestion.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(p *Pipeline) error {
		if size < 1 {
			size = 1
		}
		if p.pool != nil {
			p.pool.Release()
		}
		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		p.pool = pool
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// NewPipeline creates an ingestion pipeline backed by the provider's
// embedder and, when vision is enabled, its captioner.
func NewPipeline(provider ai.AIProvider, opts ...Option) (*Pipeline, error) {
	if provider == nil {
		return nil, ErrAIProviderRequired
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	p := &Pipeline{
		embedder:     provider.Embedder(),
		pool:         pool,
		logger:       slog.Default().With("component", "ingest"),
		chunkSize:    chunk.DefaultChunkSize,
		chunkOverlap: chunk.DefaultChunkOverlap,
	}

	for _, opt := range opts {
		if optErr := opt(p); optErr != nil {
			p.Release()
			return nil, optErr
		}
	}

	extractOpts := []extract.Option{extract.WithLogger(p.logger)}
	if p.vision {
		if captioner := provider.Captioner(); captioner != nil {
			extractOpts = append(extractOpts, extract.WithCaptioner(captioner))
		} else {
			p.logger.Warn("vision requested but no vision model configured, using plain extraction")
		}
	}
	p.extractor = extract.NewExtractor(extractOpts...)
	p.splitter = chunk.NewSplitter(
		chunk.WithChunkSize(p.chunkSize),
		chunk.WithChunkOverlap(p.chunkOverlap),
	)

	return p, nil
}

// IngestFile processes the PDF at pdfPath and writes its vector index at
// indexLocation. Nothing is written until every chunk has an embedding; a
// failure while writing removes the location again so no partial index
// survives. An existing index at the location is replaced.
func (p *Pipeline) IngestFile(ctx context.Context, pdfPath, indexLocation string) error {
	units, err := p.extractor.ExtractFile(ctx, pdfPath)
	if err != nil {
		return err
	}

	chunks, err := p.splitter.Split(units)
	if err != nil {
		return err
	}

	p.logger.Debug("split document", "path", pdfPath, "chunks", len(chunks))

	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Text
	}

	vectors, err := p.embedder.EmbedTexts(ctx, texts)
	if err != nil {
		return fmt.Errorf("%w: embedding chunks: %v", ErrIndexing, err)
	}
	if len(vectors) != len(chunks) {
		return fmt.Errorf("%w: embedder returned %d vectors for %d chunks",
			ErrIndexing, len(vectors), len(chunks))
	}

	records := make([]*core.ChunkRecord, len(chunks))
	for i, c := range chunks {
		records[i] = &core.ChunkRecord{
			Id:     c.ContentID(),
			Seq:    c.Seq,
			Text:   c.Text,
			Vector: vectors[i],
		}
	}

	if err := p.writeIndex(ctx, indexLocation, records); err != nil {
		return err
	}

	p.logger.Info("indexed document", "path", pdfPath,
		"location", indexLocation, "chunks", len(records))
	return nil
}

// writeIndex replaces whatever lives at location with a fresh index holding
// the given records. The location is removed on failure.
func (p *Pipeline) writeIndex(ctx context.Context, location string, records []*core.ChunkRecord) error {
	if err := os.RemoveAll(location); err != nil {
		return fmt.Errorf("%w: clearing index location: %v", ErrIndexing, err)
	}

	repo, err := badger.OpenChunkRepository(location)
	if err != nil {
		return fmt.Errorf("%w: opening index: %v", ErrIndexing, err)
	}

	if _, err := repo.AddChunkRecords(ctx, records...); err != nil {
		repo.Close()
		p.removeIndex(location)
		return fmt.Errorf("%w: writing records: %v", ErrIndexing, err)
	}

	if err := repo.Close(); err != nil {
		p.removeIndex(location)
		return fmt.Errorf("%w: closing index: %v", ErrIndexing, err)
	}
	return nil
}

// removeIndex is the best-effort cleanup after a failed write.
func (p *Pipeline) removeIndex(location string) {
	if err := os.RemoveAll(location); err != nil {
		p.logger.Warn("failed to remove partial index", "location", location, "err", err)
	}
}

// IngestReader spools the PDF stream to a temporary file and ingests it.
// The temporary file is removed before returning, on every path.
func (p *Pipeline) IngestReader(ctx context.Context, r io.Reader, indexLocation string) error {
	tmp, err := os.CreateTemp("", "manualqa-*.pdf")
	if err != nil {
		return fmt.Errorf("%w: creating temp file: %v", ErrIndexing, err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		return fmt.Errorf("%w: spooling upload: %v", ErrIndexing, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%w: spooling upload: %v", ErrIndexing, err)
	}

	return p.IngestFile(ctx, tmpPath, indexLocation)
}

// IngestDir ingests every PDF in dir, fanning documents out across the
// worker pool. locationFor maps each PDF path to its index location.
// Per-file failures are collected and returned joined; the remaining files
// still get processed.
func (p *Pipeline) IngestDir(ctx context.Context, dir string, locationFor func(pdfPath string) string) error {
	paths, err := filepath.Glob(filepath.Join(dir, "*.pdf"))
	if err != nil {
		return fmt.Errorf("%w: listing %s: %v", ErrIndexing, dir, err)
	}
	if len(paths) == 0 {
		p.logger.Warn("no PDF files found", "dir", dir)
		return nil
	}

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs []error
	)

	for _, path := range paths {
		path := path
		wg.Add(1)
		submitErr := p.pool.Submit(func() {
			defer wg.Done()
			if err := p.IngestFile(ctx, path, locationFor(path)); err != nil {
				p.logger.Error("failed to ingest document", "path", path, "err", err)
				mu.Lock()
				errs = append(errs, fmt.Errorf("%s: %w", filepath.Base(path), err))
				mu.Unlock()
			}
		})
		if submitErr != nil {
			wg.Done()
			mu.Lock()
			errs = append(errs, fmt.Errorf("%s: %w", filepath.Base(path), submitErr))
			mu.Unlock()
		}
	}
	wg.Wait()

	return errors.Join(errs...)
}

// Release releases the worker pool.
// The pipeline should not be used after calling Release.
func (p *Pipeline) Release() {
	if p.pool != nil {
		p.pool.Release()
	}
}
