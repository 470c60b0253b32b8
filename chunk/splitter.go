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

// Package chunk splits extracted manual text into overlapping pieces sized
// for embedding and retrieval.
package chunk

import (
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/textsplitter"

	"github.com/manualqa/manualqa/core"
)

const (
	// DefaultChunkSize is the target chunk length in characters.
	DefaultChunkSize = 1000
	// DefaultChunkOverlap is how many characters consecutive chunks share.
	DefaultChunkOverlap = 150
)

// defaultSeparators order the split boundaries from paragraph down to
// character. The ideographic full stop keeps CJK manuals splitting on
// sentence boundaries too.
var defaultSeparators = []string{"\n\n", "\n", "。", ". ", " ", ""}

// Splitter produces overlapping chunks from extracted units.
type Splitter struct {
	chunkSize    int
	chunkOverlap int
	separators   []string
}

// Option configures a Splitter.
type Option func(*Splitter)

// WithChunkSize overrides the target chunk length.
func WithChunkSize(size int) Option {
	return func(s *Splitter) {
		if size > 0 {
			s.chunkSize = size
		}
	}
}

// WithChunkOverlap overrides the overlap between consecutive chunks.
func WithChunkOverlap(overlap int) Option {
	return func(s *Splitter) {
		if overlap >= 0 {
			s.chunkOverlap = overlap
		}
	}
}

// WithSeparators overrides the boundary preference order.
func WithSeparators(separators []string) Option {
	return func(s *Splitter) {
		if len(separators) > 0 {
			s.separators = separators
		}
	}
}

// NewSplitter creates a splitter with the default 1000/150 geometry.
func NewSplitter(opts ...Option) *Splitter {
	s := &Splitter{
		chunkSize:    DefaultChunkSize,
		chunkOverlap: DefaultChunkOverlap,
		separators:   defaultSeparators,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Split joins the unit texts with blank lines, in the order given, and cuts
// the result into overlapping chunks. Returns ErrNoChunks when the units
// carry no usable text.
func (s *Splitter) Split(units []core.ExtractedUnit) ([]core.Chunk, error) {
	texts := make([]string, 0, len(units))
	for _, unit := range units {
		if strings.TrimSpace(unit.Text) == "" {
			continue
		}
		texts = append(texts, unit.Text)
	}
	if len(texts) == 0 {
		return nil, ErrNoChunks
	}

	splitter := textsplitter.NewRecursiveCharacter(
		textsplitter.WithChunkSize(s.chunkSize),
		textsplitter.WithChunkOverlap(s.chunkOverlap),
		textsplitter.WithSeparators(s.separators),
	)

	pieces, err := splitter.SplitText(strings.Join(texts, "\n\n"))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoChunks, err)
	}

	chunks := make([]core.Chunk, 0, len(pieces))
	for _, piece := range pieces {
		if strings.TrimSpace(piece) == "" {
			continue
		}
		chunks = append(chunks, core.Chunk{
			Seq:  len(chunks),
			Text: piece,
		})
	}
	if len(chunks) == 0 {
		return nil, ErrNoChunks
	}
	return chunks, nil
}
