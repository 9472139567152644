package textsplit

import (
	"strings"
	"testing"
)

func TestSplit(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		chunkSize int
		overlap   int
		wantCount int
	}{
		{
			name:      "empty text",
			text:      "",
			chunkSize: 100,
			overlap:   20,
			wantCount: 0,
		},
		{
			name:      "shorter than chunk size",
			text:      "hello world",
			chunkSize: 100,
			overlap:   20,
			wantCount: 1,
		},
		{
			name:      "exact chunk size",
			text:      strings.Repeat("a", 100),
			chunkSize: 100,
			overlap:   20,
			wantCount: 1,
		},
		{
			name:      "two chunks with overlap",
			text:      strings.Repeat("a", 150),
			chunkSize: 100,
			overlap:   20,
			wantCount: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chunks := Split(tt.text, tt.chunkSize, tt.overlap)
			if len(chunks) != tt.wantCount {
				t.Errorf("chunk count = %d, want %d", len(chunks), tt.wantCount)
			}
		})
	}
}

func TestSplitOverlapContinuity(t *testing.T) {
	text := strings.Repeat("abcdefghij", 30) // 300 chars
	chunks := Split(text, 100, 20)

	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}

	// Each chunk after the first must start with the tail of its
	// predecessor.
	for i := 1; i < len(chunks); i++ {
		prev := chunks[i-1]
		tail := prev[len(prev)-20:]
		if !strings.HasPrefix(chunks[i], tail) {
			t.Errorf("chunk %d does not overlap its predecessor", i)
		}
	}
}

func TestSplitPreservesContent(t *testing.T) {
	text := "The quick brown fox jumps over the lazy dog. " + strings.Repeat("x", 200)
	chunks := Split(text, 100, 20)

	joined := strings.Join(chunks, "")
	if !strings.Contains(joined, "quick brown fox") {
		t.Error("split lost original content")
	}
}
