package ocr

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTabulaExtractor(t *testing.T) {
	t.Run("Missing file is an error", func(t *testing.T) {
		_, err := NewTabulaExtractor().Extract(context.Background(), filepath.Join(t.TempDir(), "nope.pdf"))

		assert.Error(t, err)
	})

	t.Run("Cancelled context short-circuits", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := NewTabulaExtractor().Extract(ctx, "whatever.pdf")

		assert.ErrorIs(t, err, context.Canceled)
	})
}
