package chunk

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/manualqa/manualqa/core"
)

func unit(page int, text string) core.ExtractedUnit {
	return core.ExtractedUnit{Page: page, Kind: core.UnitBody, Text: text}
}

func TestSplitShortText(t *testing.T) {
	s := NewSplitter()

	chunks, err := s.Split([]core.ExtractedUnit{
		unit(1, "Press the power button to turn the unit on."),
	})
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Equal(t, 0, chunks[0].Seq)
	assert.Equal(t, "Press the power button to turn the unit on.", chunks[0].Text)
}

func TestSplitEmptyUnits(t *testing.T) {
	s := NewSplitter()

	_, err := s.Split(nil)
	assert.ErrorIs(t, err, ErrNoChunks)

	_, err = s.Split([]core.ExtractedUnit{unit(1, "   \n\t")})
	assert.ErrorIs(t, err, ErrNoChunks)
}

func TestSplitRespectsChunkSize(t *testing.T) {
	s := NewSplitter(WithChunkSize(100), WithChunkOverlap(20))

	var b strings.Builder
	for i := 0; i < 40; i++ {
		b.WriteString("The safety valve must be inspected before each use. ")
	}

	chunks, err := s.Split([]core.ExtractedUnit{unit(1, b.String())})
	require.NoError(t, err)
	require.Greater(t, len(chunks), 1)

	for i, c := range chunks {
		assert.Equal(t, i, c.Seq)
		assert.LessOrEqual(t, len(c.Text), 100, "chunk %d too long", i)
		assert.NotEmpty(t, strings.TrimSpace(c.Text))
	}
}

func TestSplitOverlapsConsecutiveChunks(t *testing.T) {
	s := NewSplitter(WithChunkSize(100), WithChunkOverlap(40))

	// Unique words so shared boundary text can only come from the overlap.
	words := make([]string, 60)
	for i := range words {
		words[i] = fmt.Sprintf("word%02d", i)
	}

	chunks, err := s.Split([]core.ExtractedUnit{unit(1, strings.Join(words, " "))})
	require.NoError(t, err)
	require.Greater(t, len(chunks), 2)

	for i := 1; i < len(chunks); i++ {
		overlap := boundaryOverlap(chunks[i-1].Text, chunks[i].Text)
		assert.GreaterOrEqual(t, overlap, 10,
			"chunks %d and %d should share boundary text", i-1, i)
		assert.LessOrEqual(t, overlap, 40,
			"shared boundary text must stay within the configured overlap")
	}
}

// boundaryOverlap returns the length of the longest prefix of next that is
// also a suffix of prev.
func boundaryOverlap(prev, next string) int {
	limit := len(prev)
	if len(next) < limit {
		limit = len(next)
	}
	for n := limit; n > 0; n-- {
		if strings.HasSuffix(prev, next[:n]) {
			return n
		}
	}
	return 0
}

func TestSplitCoversAllParagraphs(t *testing.T) {
	s := NewSplitter(WithChunkSize(120), WithChunkOverlap(20))

	var paragraphs []string
	for i := 'a'; i <= 'j'; i++ {
		paragraphs = append(paragraphs,
			strings.Repeat(string(i), 5)+" maintenance procedure for this section.")
	}

	chunks, err := s.Split([]core.ExtractedUnit{
		unit(1, strings.Join(paragraphs, "\n\n")),
	})
	require.NoError(t, err)
	require.Greater(t, len(chunks), 1)

	joined := ""
	for _, c := range chunks {
		joined += c.Text + "\n"
	}
	for _, p := range paragraphs {
		marker := p[:5]
		assert.Contains(t, joined, marker)
	}
}

func TestSplitJoinsUnitsWithBlankLines(t *testing.T) {
	s := NewSplitter()

	chunks, err := s.Split([]core.ExtractedUnit{
		unit(1, "First page text."),
		{Page: 1, Seq: 1, Kind: core.UnitFigure, Text: "Figure on page 1: a wiring diagram."},
		unit(2, "Second page text."),
	})
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Equal(t,
		"First page text.\n\nFigure on page 1: a wiring diagram.\n\nSecond page text.",
		chunks[0].Text)
}

func TestSplitSkipsBlankUnits(t *testing.T) {
	s := NewSplitter()

	chunks, err := s.Split([]core.ExtractedUnit{
		unit(1, "Usable text."),
		unit(2, "   "),
		unit(3, "More text."),
	})
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Equal(t, "Usable text.\n\nMore text.", chunks[0].Text)
}
