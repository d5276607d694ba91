package compile

import (
	"os"
	"path/filepath"
	"testing"

	"pdf-quiz-bot/pkg/quiz"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func savedSet() []*quiz.Result {
	return []*quiz.Result{
		{
			Kind: quiz.KindMCQ,
			MCQ: &quiz.MCQ{
				Question:      "Where does photosynthesis happen?",
				AnswerOptions: []string{"Chloroplast", "Nucleus", "Ribosome"},
				CorrectAnswer: 0,
			},
			Valid: true,
		},
		{
			Kind:  quiz.KindFFQ,
			FFQ:   &quiz.FFQ{Question: "Name the gas released.", Answer: "Oxygen"},
			Valid: true,
		},
	}
}

func TestCompile(t *testing.T) {
	out := Compile(savedSet())

	assert.Contains(t, out, "## Question 0\nQuestion: Where does photosynthesis happen?")
	assert.Contains(t, out, "## Question 1\nQuestion: Name the gas released.")
	for _, opt := range []string{"Chloroplast", "Nucleus", "Ribosome"} {
		assert.Contains(t, out, opt)
	}
	assert.Contains(t, out, "Correct answer: 0")
	assert.Contains(t, out, "Answer: Oxygen")
	assert.Contains(t, out, "Correct answer: 0\n\n## Question 1")
}

func TestCompileEmpty(t *testing.T) {
	assert.Equal(t, "", Compile(nil))
}

func TestCompileToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "42", FileName)

	require.NoError(t, CompileToFile(path, savedSet()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, Compile(savedSet()), string(data))
}
