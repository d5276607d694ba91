// Package ocr turns uploaded documents into plain text for indexing.
package ocr

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/tsawler/tabula"
)

var ErrEmptyDocument = errors.New("document contains no extractable text")

// TextExtractor reads the text of a document on disk.
type TextExtractor interface {
	Extract(ctx context.Context, path string) (*Extraction, error)
}

type Extraction struct {
	Text     string
	Markdown bool
	Warnings int
}

// TabulaExtractor prefers markdown output, whose "##" headings give the
// splitter section boundaries, and falls back to plain text.
type TabulaExtractor struct {
	ExcludeHeadersAndFooters bool
}

func NewTabulaExtractor() *TabulaExtractor {
	return &TabulaExtractor{ExcludeHeadersAndFooters: true}
}

func (t *TabulaExtractor) open(path string) *tabula.Extractor {
	ext := tabula.Open(path)
	if t.ExcludeHeadersAndFooters {
		ext = ext.ExcludeHeadersAndFooters()
	}
	return ext
}

func (t *TabulaExtractor) Extract(ctx context.Context, path string) (*Extraction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// ToMarkdown and Text are terminal and close the reader themselves.
	md, warnings, mdErr := t.open(path).ToMarkdown()
	if mdErr == nil && strings.TrimSpace(md) != "" {
		return &Extraction{Text: md, Markdown: true, Warnings: len(warnings)}, nil
	}

	text, warnings, err := t.open(path).JoinParagraphs().Text()
	if err != nil {
		if mdErr != nil {
			return nil, fmt.Errorf("extract %s: %w", path, errors.Join(mdErr, err))
		}
		return nil, fmt.Errorf("extract %s: %w", path, err)
	}
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyDocument
	}
	return &Extraction{Text: text, Warnings: len(warnings)}, nil
}
