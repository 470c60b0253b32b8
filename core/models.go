package core

import (
	"encoding/binary"
	"strconv"
	"strings"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for domain entities.
// It is generated using content-based hashing or database sequences.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// This ensures that identical content produces identical IDs.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// ManualStatus tracks the ingestion state of a product manual.
type ManualStatus int

const (
	// StatusPending indicates ingestion has been started but not finished.
	StatusPending ManualStatus = iota + 1
	// StatusCompleted indicates a vector index was built successfully.
	StatusCompleted
	// StatusFailed indicates the last ingestion attempt failed.
	StatusFailed
)

// String returns a human-readable form of the status.
func (s ManualStatus) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusCompleted:
		return "completed"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// ManualRecord tracks a product manual and where its vector index lives.
// Records are keyed by the normalized product name so that differently
// cased or spaced spellings of one product resolve to the same record.
type ManualRecord struct {
	Id            ID
	ProductName   string // normalized lookup key, see NormalizeProductName
	DisplayName   string // product name as originally entered
	IndexLocation string // directory holding the vector index, empty until completed
	Status        ManualStatus
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// NormalizeProductName lowercases a product name and collapses runs of
// whitespace to single spaces. "Foo X1" and "foo  x1" normalize identically,
// which deduplicates registry entries on purpose.
func NormalizeProductName(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), " ")
}

// UnitKind identifies the origin of an extracted text unit.
type UnitKind int

const (
	// UnitBody is text extracted directly from a page.
	UnitBody UnitKind = iota + 1
	// UnitFigure is a generated description of an image embedded in a page.
	UnitFigure
)

// ExtractedUnit is an ordered text fragment produced by document extraction.
// Units are ordered by (Page, Seq); figure descriptions follow the body text
// of the page they appear on. Units are transient and never persisted.
type ExtractedUnit struct {
	Page int // 1-based page number
	Seq  int // page-relative order; 0 is the page body
	Kind UnitKind
	Text string
}

// Chunk is a bounded text span produced by splitting, the unit of embedding
// and retrieval. Transient; persisted only as a ChunkRecord once embedded.
type Chunk struct {
	Seq  int
	Text string
}

// ContentID returns a deterministic ID derived from the chunk position and
// text, so re-ingesting the same document yields the same record IDs.
func (c Chunk) ContentID() ID {
	return IDFromContent(strconv.Itoa(c.Seq) + ":" + c.Text)
}

// ChunkRecord is a chunk together with its embedding vector, as stored in a
// vector index.
type ChunkRecord struct {
	Id     ID
	Seq    int
	Text   string
	Vector []float32
}

// ChunkMatch is a retrieval result with its similarity score.
type ChunkMatch struct {
	Record *ChunkRecord
	Score  float32
}
