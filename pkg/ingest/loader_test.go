package ingest

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractTextPlainFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "knowledge.txt")
	require.NoError(t, os.WriteFile(path, []byte("Sherlock lives at 221B Baker Street."), 0o644))

	text, err := ExtractText(path)
	require.NoError(t, err)
	assert.Equal(t, "Sherlock lives at 221B Baker Street.", text)
}

func TestExtractTextCaseInsensitiveExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "KNOWLEDGE.TXT")
	require.NoError(t, os.WriteFile(path, []byte("content"), 0o644))

	text, err := ExtractText(path)
	require.NoError(t, err)
	assert.Equal(t, "content", text)
}

func TestExtractTextUnsupportedFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "image.png")
	require.NoError(t, os.WriteFile(path, []byte{0x89, 0x50}, 0o644))

	_, err := ExtractText(path)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestExtractTextMissingFile(t *testing.T) {
	_, err := ExtractText(filepath.Join(t.TempDir(), "missing.txt"))
	assert.Error(t, err)
}

type countingEmbedder struct {
	calls int
}

func (c *countingEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	c.calls++
	return []float32{float32(len(text)), 1, 0}, nil
}

func TestProcessorSplitsAndEmbeds(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.txt")
	content := strings.Repeat("Sherlock Holmes deduces. ", 20) // 500 chars
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	embedder := &countingEmbedder{}
	processor := NewProcessor(embedder)

	chunks, err := processor.Process(context.Background(), path)
	require.NoError(t, err)
	require.NotEmpty(t, chunks)

	assert.Equal(t, len(chunks), embedder.calls)
	for i, c := range chunks {
		assert.Equal(t, i, c.Index)
		assert.NotEmpty(t, c.Content)
		assert.Len(t, c.Embedding, 3)
		assert.LessOrEqual(t, len(c.Content), DefaultChunkSize)
	}
}

func TestProcessorUnsupportedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.docx")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))

	processor := NewProcessor(&countingEmbedder{})
	_, err := processor.Process(context.Background(), path)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}
