package utils

import (
	"fmt"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func words(n int) string {
	parts := make([]string, n)
	for i := range parts {
		parts[i] = fmt.Sprintf("word%03d", i)
	}
	return strings.Join(parts, " ")
}

// overlapLen returns the longest prefix of next (up to max runes) that is also
// a suffix of prev.
func overlapLen(prev, next string, max int) int {
	best := 0
	runes := []rune(next)
	for k := 1; k <= max && k <= len(runes); k++ {
		if strings.HasSuffix(prev, string(runes[:k])) {
			best = k
		}
	}
	return best
}

func TestTextSplitter(t *testing.T) {
	t.Run("Short text is a single segment", func(t *testing.T) {
		s := NewTextSplitter(100, 20)

		chunks := s.Split("  just a few words  ")

		require.Len(t, chunks, 1)
		assert.Equal(t, "just a few words", chunks[0])
	})

	t.Run("Empty and whitespace text", func(t *testing.T) {
		s := NewTextSplitter(100, 20)

		assert.Empty(t, s.Split(""))
		assert.Empty(t, s.Split(" \n\t "))
	})

	t.Run("Long text respects size and overlaps consecutive segments", func(t *testing.T) {
		s := NewTextSplitter(100, 20)

		chunks := s.Split(words(300))

		require.Greater(t, len(chunks), 1)
		for i, c := range chunks {
			assert.NotEmpty(t, c)
			assert.LessOrEqual(t, utf8.RuneCountInString(c), 100, "chunk %d too long", i)
		}
		for i := 1; i < len(chunks); i++ {
			n := overlapLen(chunks[i-1], chunks[i], 20)
			assert.Greater(t, n, 0, "chunks %d and %d do not overlap", i-1, i)
		}
	})

	t.Run("Every word survives splitting", func(t *testing.T) {
		s := NewTextSplitter(64, 16)
		text := words(120)

		joined := strings.Join(s.Split(text), " ")

		for _, w := range strings.Fields(text) {
			assert.Contains(t, joined, w)
		}
	})

	t.Run("Prefers section delimiters", func(t *testing.T) {
		s := NewTextSplitter(200, 20)
		intro := "## Intro\n" + words(15)
		methods := "## Methods\n" + words(15)

		chunks := s.Split(intro + "\n" + methods)

		require.Len(t, chunks, 2)
		assert.True(t, strings.HasPrefix(chunks[0], "## Intro"))
		assert.True(t, strings.HasPrefix(chunks[1], "## Methods"))
	})

	t.Run("Counts runes not bytes", func(t *testing.T) {
		s := NewTextSplitter(50, 10)
		text := strings.Repeat("фотосинтез ", 40)

		chunks := s.Split(text)

		require.Greater(t, len(chunks), 1)
		for _, c := range chunks {
			assert.LessOrEqual(t, utf8.RuneCountInString(c), 50)
		}
	})

	t.Run("Falls back to character splitting", func(t *testing.T) {
		s := NewTextSplitter(10, 2)

		chunks := s.Split(strings.Repeat("x", 35))

		require.Greater(t, len(chunks), 3)
		for _, c := range chunks {
			assert.LessOrEqual(t, len(c), 10)
		}
	})

	t.Run("Invalid overlap is clamped", func(t *testing.T) {
		s := NewTextSplitter(80, 80)

		assert.Equal(t, 10, s.Overlap)
	})
}
