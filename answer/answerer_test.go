package answer

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/manualqa/manualqa/ai/mock"
	"github.com/manualqa/manualqa/core"
	"github.com/manualqa/manualqa/storage"
	"github.com/manualqa/manualqa/storage/badger"
)

// buildIndex persists an index at location with one record per text, using
// the mock embedder's deterministic vectors so retrieval lines up with
// question embeddings.
func buildIndex(t *testing.T, location string, texts ...string) {
	t.Helper()

	repo, err := badger.OpenChunkRepository(location)
	require.NoError(t, err)
	defer repo.Close()

	records := make([]*core.ChunkRecord, len(texts))
	for i, text := range texts {
		c := core.Chunk{Seq: i, Text: text}
		records[i] = &core.ChunkRecord{
			Id:     c.ContentID(),
			Seq:    c.Seq,
			Text:   c.Text,
			Vector: mock.DeterministicVector(text, 64),
		}
	}
	_, err = repo.AddChunkRecords(context.Background(), records...)
	require.NoError(t, err)
}

func TestNewAnswererRequiresProvider(t *testing.T) {
	_, err := NewAnswerer(nil)
	assert.ErrorIs(t, err, ErrAIProviderRequired)
}

func TestAnswerMissingIndex(t *testing.T) {
	embedder := mock.NewMockEmbedder()
	completer := mock.NewMockCompleter()
	provider := mock.NewMockProviderWithServices(embedder, nil, completer)

	a, err := NewAnswerer(provider)
	require.NoError(t, err)

	_, err = a.Answer(context.Background(), "how do I reset it?",
		filepath.Join(t.TempDir(), "no-such-index"))
	require.Error(t, err)
	assert.ErrorIs(t, err, storage.ErrIndexNotFound)
	assert.Zero(t, embedder.CallCount(), "embedder must not run without an index")
	assert.Zero(t, completer.CallCount(), "completer must not run without an index")
}

func TestAnswerEmptyQuestion(t *testing.T) {
	a, err := NewAnswerer(mock.NewMockProvider())
	require.NoError(t, err)

	_, err = a.Answer(context.Background(), "   ", t.TempDir())
	assert.ErrorIs(t, err, ErrEmptyQuestion)
}

func TestAnswerBuildsGroundedPrompt(t *testing.T) {
	location := filepath.Join(t.TempDir(), "index")
	buildIndex(t, location,
		"Hold the reset button for five seconds to restore factory settings.",
		"Rinse the filter under cold water once a month.",
		"The warranty covers manufacturing defects for two years.",
	)

	completer := mock.NewMockCompleter()
	completer.CompleteFunc = func(ctx context.Context, prompt string) (string, error) {
		return "Hold the reset button for five seconds.", nil
	}
	provider := mock.NewMockProviderWithServices(mock.NewMockEmbedder(), nil, completer)

	a, err := NewAnswerer(provider, WithTopK(2))
	require.NoError(t, err)

	answer, err := a.Answer(context.Background(), "how do I reset the device?", location)
	require.NoError(t, err)
	assert.Equal(t, "Hold the reset button for five seconds.", answer)

	prompt := completer.LastPrompt()
	assert.Contains(t, prompt, "how do I reset the device?")
	assert.Contains(t, prompt, RefusalMessage)
	assert.Contains(t, prompt, "[1] ")
	assert.Contains(t, prompt, "[2] ")
	assert.NotContains(t, prompt, "[3] ", "top-k must cap the context")
}

func TestAnswerCompleterFailure(t *testing.T) {
	location := filepath.Join(t.TempDir(), "index")
	buildIndex(t, location, "Some manual content.")

	completer := mock.NewMockCompleter()
	completer.CompleteFunc = func(ctx context.Context, prompt string) (string, error) {
		return "", errors.New("model overloaded")
	}
	provider := mock.NewMockProviderWithServices(mock.NewMockEmbedder(), nil, completer)

	a, err := NewAnswerer(provider)
	require.NoError(t, err)

	_, err = a.Answer(context.Background(), "anything?", location)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrAnswer)
}

func TestAnswerWithMonitor(t *testing.T) {
	location := filepath.Join(t.TempDir(), "index")
	buildIndex(t, location, "Plug the cable into the port marked IN.")

	a, err := NewAnswerer(mock.NewMockProvider())
	require.NoError(t, err)

	m := &recordingMonitor{}
	answer, err := a.AnswerWithMonitor(context.Background(), "where does the cable go?", location, m)
	require.NoError(t, err)

	assert.Equal(t, "where does the cable go?", m.question)
	assert.Equal(t, 64, m.dimensions)
	assert.Len(t, m.matches, 1)
	assert.Equal(t, answer, m.answer)
}

type recordingMonitor struct {
	question   string
	dimensions int
	matches    []*core.ChunkMatch
	answer     string
}

func (m *recordingMonitor) Start(question string)                     { m.question = question }
func (m *recordingMonitor) AfterQueryEmbedding(dimensions int)        { m.dimensions = dimensions }
func (m *recordingMonitor) AfterRetrieval(matches []*core.ChunkMatch) { m.matches = matches }
func (m *recordingMonitor) Finish(answer string)                      { m.answer = answer }
