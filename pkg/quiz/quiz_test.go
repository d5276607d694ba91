package quiz

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validMCQ = "Let me think about chlorophyll first.\n" +
	"```yaml\n" +
	"question: Which pigment absorbs light during photosynthesis?\n" +
	"answer_options:\n" +
	"  - Chlorophyll\n" +
	"  - Hemoglobin\n" +
	"  - Melanin\n" +
	"correct_answer: 0\n" +
	"```\n"

func TestExtractYAMLBlock(t *testing.T) {
	t.Run("Takes the last of several blocks", func(t *testing.T) {
		text := "draft:\n```yaml\nquestion: first\n```\nfinal:\n```yaml\nquestion: second\n```"

		block, found := ExtractYAMLBlock(text)

		require.True(t, found)
		assert.Equal(t, "question: second", block)
	})

	t.Run("Reports not found", func(t *testing.T) {
		_, found := ExtractYAMLBlock("no fences here")

		assert.False(t, found)
	})
}

func TestParseMCQ(t *testing.T) {
	t.Run("Valid block", func(t *testing.T) {
		res := ParseMCQ(Answer{Text: validMCQ, Context: []string{"ctx"}})

		require.True(t, res.Valid)
		assert.Equal(t, KindMCQ, res.Kind)
		assert.Equal(t, "Which pigment absorbs light during photosynthesis?", res.MCQ.Question)
		assert.Equal(t, []string{"Chlorophyll", "Hemoglobin", "Melanin"}, res.MCQ.AnswerOptions)
		assert.Equal(t, 0, res.MCQ.CorrectAnswer)
		assert.Equal(t, []string{"ctx"}, res.Sources)
	})

	cases := map[string]string{
		"No block":           "I could not come up with anything.",
		"Broken yaml":        "```yaml\nquestion: [unterminated\n```",
		"Index out of range": "```yaml\nquestion: q\nanswer_options: [a, b]\ncorrect_answer: 2\n```",
		"Too few options":    "```yaml\nquestion: q\nanswer_options: [a]\ncorrect_answer: 0\n```",
		"Missing question":   "```yaml\nanswer_options: [a, b]\ncorrect_answer: 1\n```",
		"Missing answer":     "```yaml\nquestion: q\nanswer_options: [a, b, c]\n```",
		"Null answer":        "```yaml\nquestion: q\nanswer_options: [a, b]\ncorrect_answer: null\n```",
	}
	for name, text := range cases {
		t.Run(name, func(t *testing.T) {
			var res *Result
			require.NotPanics(t, func() { res = ParseMCQ(Answer{Text: text, Context: []string{"s"}}) })

			assert.False(t, res.Valid)
			assert.Equal(t, -1, res.MCQ.CorrectAnswer)
			assert.Equal(t, []string{}, res.MCQ.AnswerOptions)
			assert.NotEmpty(t, res.MCQ.Question)
			assert.Equal(t, text, res.Reasoning)
			assert.Equal(t, []string{"s"}, res.Sources)
		})
	}

	t.Run("Omitted index is not read as option 0", func(t *testing.T) {
		res := ParseMCQ(Answer{Text: cases["Missing answer"]})

		assert.False(t, res.Valid)
		assert.Equal(t, "invalid MCQ: correct_answer is missing", res.MCQ.Question)
	})
}

func TestParseFFQ(t *testing.T) {
	t.Run("Valid block", func(t *testing.T) {
		res := ParseFFQ(Answer{Text: "```yaml\nquestion: What is ATP?\nanswer: The cell's energy currency.\n```"})

		require.True(t, res.Valid)
		assert.Equal(t, "What is ATP?", res.FFQ.Question)
		assert.Equal(t, "The cell's energy currency.", res.FFQ.Answer)
	})

	t.Run("Missing block is a not-found result", func(t *testing.T) {
		res := ParseFFQ(Answer{Text: "just prose"})

		assert.False(t, res.Valid)
		assert.Equal(t, "no FFQ found", res.FFQ.Question)
	})
}

func TestResultRendering(t *testing.T) {
	res := ParseMCQ(Answer{Text: validMCQ, Context: []string{"chunk one", "chunk two"}})

	q := res.Question()
	assert.Contains(t, q, "Question: Which pigment")
	assert.Contains(t, q, " 1. Hemoglobin")
	assert.Contains(t, q, "Correct answer: 0")
	assert.Equal(t, "REFERENCE 0:\nchunk one\n\nREFERENCE 1:\nchunk two", res.SourcesText())
}

type scriptedChain struct {
	replies []string
	errs    []error
	calls   int
}

func (c *scriptedChain) Invoke(ctx context.Context, topic string) (*Answer, error) {
	i := c.calls
	c.calls++
	if i < len(c.errs) && c.errs[i] != nil {
		return nil, c.errs[i]
	}
	reply := c.replies[len(c.replies)-1]
	if i < len(c.replies) {
		reply = c.replies[i]
	}
	return &Answer{Text: reply, Context: []string{"ctx"}}, nil
}

func TestGenerator(t *testing.T) {
	ctx := context.Background()

	t.Run("Retries until valid", func(t *testing.T) {
		chain := &scriptedChain{replies: []string{"nothing", "```yaml\nbad: [\n```", validMCQ}}
		gen := NewGenerator(KindMCQ, chain, 5, nil)

		res, err := gen.Generate(ctx, "Photosynthesis")

		require.NoError(t, err)
		assert.True(t, res.Valid)
		assert.Equal(t, "Photosynthesis", res.Topic)
		assert.Equal(t, 3, chain.calls)
	})

	t.Run("Gives up after the attempt budget", func(t *testing.T) {
		chain := &scriptedChain{replies: []string{"never valid"}}
		gen := NewGenerator(KindFFQ, chain, 3, nil)

		_, err := gen.Generate(ctx, "Cells")

		require.Error(t, err)
		assert.ErrorIs(t, err, ErrGenerationFailed)
		var genErr *GenerationError
		require.True(t, errors.As(err, &genErr))
		assert.Equal(t, 3, genErr.Attempts)
		require.NotNil(t, genErr.Last)
		assert.False(t, genErr.Last.Valid)
		assert.Equal(t, 3, chain.calls)
	})

	t.Run("Chain errors count as attempts", func(t *testing.T) {
		boom := errors.New("timeout")
		chain := &scriptedChain{replies: []string{"x"}, errs: []error{boom, boom}}
		gen := NewGenerator(KindMCQ, chain, 2, nil)

		_, err := gen.Generate(ctx, "t")

		assert.ErrorIs(t, err, ErrGenerationFailed)
		assert.ErrorIs(t, err, boom)
	})

	t.Run("Attempt returns invalid results without error", func(t *testing.T) {
		gen := NewGenerator(KindMCQ, &scriptedChain{replies: []string{"nope"}}, 1, nil)

		res, err := gen.Attempt(ctx, "t")

		require.NoError(t, err)
		assert.False(t, res.Valid)
	})

	t.Run("Cancelled context stops retrying", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		chain := &scriptedChain{replies: []string{validMCQ}}

		_, err := NewGenerator(KindMCQ, chain, 3, nil).Generate(cctx, "t")

		assert.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, 0, chain.calls)
	})
}

func TestExcerpt(t *testing.T) {
	long := strings.Repeat("a", 500) + "END"

	out := excerpt(long, 400)

	assert.True(t, strings.HasSuffix(out, "END"))
	assert.Equal(t, 403, len([]rune(out)))
	assert.Equal(t, "short", excerpt("short", 400))
}
