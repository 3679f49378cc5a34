package docqa_test

import (
	"strings"
	"testing"

	"docchat/src/core/docqa"
)

func TestSplitTextWindows(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		size    int
		overlap int
		want    []string
	}{
		{
			name:    "shorter than window is one chunk",
			text:    "hello",
			size:    10,
			overlap: 2,
			want:    []string{"hello"},
		},
		{
			name:    "exactly one window",
			text:    "abcdefghij",
			size:    10,
			overlap: 2,
			want:    []string{"abcdefghij"},
		},
		{
			name:    "overlapping windows",
			text:    "abcdefghijkl",
			size:    5,
			overlap: 2,
			want:    []string{"abcde", "defgh", "ghijk", "jkl"},
		},
		{
			name:    "no overlap",
			text:    "abcdefgh",
			size:    3,
			overlap: 0,
			want:    []string{"abc", "def", "gh"},
		},
		{
			name:    "empty text",
			text:    "",
			size:    5,
			overlap: 2,
			want:    nil,
		},
		{
			name:    "overlap equal to size yields nothing",
			text:    "abcdef",
			size:    3,
			overlap: 3,
			want:    nil,
		},
		{
			name:    "non-positive size yields nothing",
			text:    "abcdef",
			size:    0,
			overlap: 0,
			want:    nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := docqa.SplitText(tt.text, tt.size, tt.overlap)
			if len(got) != len(tt.want) {
				t.Fatalf("SplitText(%q, %d, %d) = %q, want %q", tt.text, tt.size, tt.overlap, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("chunk %d = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

// Dropping the leading overlap of every chunk after the first must
// reconstruct the original text exactly.
func TestSplitTextReconstruction(t *testing.T) {
	text := strings.Repeat("the quick brown fox jumps over the lazy dog. ", 120)
	size := docqa.DefaultChunkSize
	overlap := docqa.DefaultChunkOverlap

	chunks := docqa.SplitText(text, size, overlap)

	var b strings.Builder
	for i, c := range chunks {
		if i == 0 {
			b.WriteString(c)
			continue
		}
		b.WriteString(c[overlap:])
	}
	if b.String() != text {
		t.Error("reconstructed text does not match the original")
	}
}

func TestSplitTextChunkLengths(t *testing.T) {
	text := strings.Repeat("x", 5000)
	chunks := docqa.SplitText(text, 1000, 200)

	for i, c := range chunks {
		if i < len(chunks)-1 && len(c) != 1000 {
			t.Errorf("chunk %d length = %d, want 1000", i, len(c))
		}
	}
	last := chunks[len(chunks)-1]
	if len(last) == 0 || len(last) > 1000 {
		t.Errorf("last chunk length = %d, want in (0, 1000]", len(last))
	}
}

func TestSplitTextChunkCount(t *testing.T) {
	// For length L > size the chunk count is ceil((L-overlap)/(size-overlap)).
	tests := []struct {
		length int
		want   int
	}{
		{length: 500, want: 1},
		{length: 1000, want: 1},
		{length: 1001, want: 2},
		{length: 1800, want: 2},
		{length: 1801, want: 3},
		{length: 10000, want: 13},
	}

	for _, tt := range tests {
		chunks := docqa.SplitText(strings.Repeat("a", tt.length), 1000, 200)
		if len(chunks) != tt.want {
			t.Errorf("length %d: got %d chunks, want %d", tt.length, len(chunks), tt.want)
		}
	}
}

func TestChunksEarlyStop(t *testing.T) {
	seen := 0
	for range docqa.Chunks(strings.Repeat("a", 10000), 1000, 200) {
		seen++
		if seen == 3 {
			break
		}
	}
	if seen != 3 {
		t.Errorf("saw %d chunks after break, want 3", seen)
	}
}
