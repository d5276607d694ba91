// Package compile renders saved quiz questions into a markdown export.
package compile

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"pdf-quiz-bot/pkg/quiz"
)

const FileName = "compilation.md"

// Compile numbers the questions from 0 in the order they were saved.
func Compile(results []*quiz.Result) string {
	sections := make([]string, len(results))
	for i, r := range results {
		sections[i] = fmt.Sprintf("## Question %d\n%s", i, r.Question())
	}
	return strings.Join(sections, "\n\n")
}

// CompileToFile writes the export to path, creating its directory.
func CompileToFile(path string, results []*quiz.Result) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create export dir: %w", err)
	}
	if err := os.WriteFile(path, []byte(Compile(results)), 0o644); err != nil {
		return fmt.Errorf("write export: %w", err)
	}
	return nil
}
