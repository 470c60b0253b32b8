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

// Package answer generates grounded answers to questions about an ingested
// manual. The question is embedded, the nearest chunks are retrieved from
// the manual's vector index, and a language model answers strictly from the
// retrieved text.
package answer

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/manualqa/manualqa/ai"
	"github.com/manualqa/manualqa/storage/badger"
)

// DefaultTopK is how many chunks are retrieved as answer context.
const DefaultTopK = 4

// Answerer answers questions against persisted vector indexes.
type Answerer struct {
	embedder  ai.Embedder
	completer ai.Completer
	topK      int
	logger    *slog.Logger
}

// Option configures an Answerer.
type Option func(*Answerer) error

// WithTopK sets how many chunks are retrieved as context.
// Default is DefaultTopK.
func WithTopK(k int) Option {
	return func(a *Answerer) error {
		if k > 0 {
			a.topK = k
		}
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(a *Answerer) error {
		if logger == nil {
			logger = slog.Default()
		}
		a.logger = logger
		return nil
	}
}

// NewAnswerer creates an answerer backed by the provider's embedder and
// completer. The embedder must be the one the target indexes were built with.
func NewAnswerer(provider ai.AIProvider, opts ...Option) (*Answerer, error) {
	if provider == nil {
		return nil, ErrAIProviderRequired
	}

	a := &Answerer{
		embedder:  provider.Embedder(),
		completer: provider.Completer(),
		topK:      DefaultTopK,
		logger:    slog.Default().With("component", "answer"),
	}

	for _, opt := range opts {
		if err := opt(a); err != nil {
			return nil, err
		}
	}

	return a, nil
}

// Answer answers the question from the index at indexLocation.
// Fails with storage.ErrIndexNotFound, before any model call, when no index
// exists there.
func (a *Answerer) Answer(ctx context.Context, question, indexLocation string) (string, error) {
	return a.AnswerWithMonitor(ctx, question, indexLocation, nil)
}

// AnswerWithMonitor answers the question with monitoring callbacks at each
// stage. A nil monitor is allowed.
func (a *Answerer) AnswerWithMonitor(ctx context.Context, question, indexLocation string, monitor Monitor) (string, error) {
	if monitor == nil {
		monitor = &noopMonitor{}
	}
	if strings.TrimSpace(question) == "" {
		return "", ErrEmptyQuestion
	}

	monitor.Start(question)

	repo, err := badger.OpenExistingChunkRepository(indexLocation)
	if err != nil {
		return "", err
	}
	defer repo.Close()

	embedding, err := a.embedder.EmbedText(ctx, question)
	if err != nil {
		a.logger.Error("error generating embedding for question", "err", err)
		return "", fmt.Errorf("%w: embedding question: %v", ErrAnswer, err)
	}
	monitor.AfterQueryEmbedding(len(embedding))

	matches, err := repo.FindSimilar(ctx, embedding, a.topK)
	if err != nil {
		a.logger.Error("error retrieving chunks", "err", err)
		return "", fmt.Errorf("%w: retrieving context: %v", ErrAnswer, err)
	}
	monitor.AfterRetrieval(matches)

	a.logger.Debug("retrieved context", "location", indexLocation, "chunks", len(matches))

	// Zero matches still goes to the model: the prompt's refusal instruction
	// produces the standard no-answer reply.
	response, err := a.completer.Complete(ctx, buildPrompt(question, matches))
	if err != nil {
		a.logger.Error("error generating answer", "err", err)
		return "", fmt.Errorf("%w: %v", ErrAnswer, err)
	}

	monitor.Finish(response)
	return response, nil
}
