package quiz

import (
	"fmt"
	"regexp"

	"pdf-quiz-bot/pkg/rag"

	"gopkg.in/yaml.v3"
)

// yamlBlockPattern matches fenced ```yaml blocks lazily so that several blocks
// in one answer are found separately.
var yamlBlockPattern = regexp.MustCompile("(?s)```yaml\\s*\\n(.*?)\\n\\s*```")

// Answer is the raw generator output the parsers work on.
type Answer = rag.Answer

// ExtractYAMLBlock returns the body of the last fenced yaml block in text.
// Models tend to draft first and settle last, so the final block wins.
func ExtractYAMLBlock(text string) (string, bool) {
	matches := yamlBlockPattern.FindAllStringSubmatch(text, -1)
	if len(matches) == 0 {
		return "", false
	}
	return matches[len(matches)-1][1], true
}

// ParseMCQ turns a model answer into an MCQ result. It never fails: when no
// valid question can be recovered the result has Valid=false, the error
// message as question text, no options and CorrectAnswer -1.
func ParseMCQ(answer Answer) *Result {
	result := &Result{
		Kind:      KindMCQ,
		Reasoning: answer.Text,
		Sources:   answer.Context,
	}

	mcq, err := decodeMCQ(answer.Text)
	if err != nil {
		result.MCQ = &MCQ{
			Question:      err.Error(),
			AnswerOptions: []string{},
			CorrectAnswer: -1,
		}
		return result
	}

	result.MCQ = mcq
	result.Valid = true
	return result
}

// mcqBlock keeps CorrectAnswer as a pointer so an omitted index is not read
// as option 0.
type mcqBlock struct {
	Question      string   `yaml:"question"`
	AnswerOptions []string `yaml:"answer_options"`
	CorrectAnswer *int     `yaml:"correct_answer"`
}

func decodeMCQ(text string) (*MCQ, error) {
	block, found := ExtractYAMLBlock(text)
	if !found {
		return nil, fmt.Errorf("no MCQ found")
	}
	var raw mcqBlock
	if err := yaml.Unmarshal([]byte(block), &raw); err != nil {
		return nil, fmt.Errorf("decode MCQ: %w", err)
	}
	if raw.CorrectAnswer == nil {
		return nil, fmt.Errorf("invalid MCQ: correct_answer is missing")
	}
	mcq := MCQ{
		Question:      raw.Question,
		AnswerOptions: raw.AnswerOptions,
		CorrectAnswer: *raw.CorrectAnswer,
	}
	if err := mcq.Validate(); err != nil {
		return nil, fmt.Errorf("invalid MCQ: %w", err)
	}
	return &mcq, nil
}

// ParseFFQ is the free-form counterpart of ParseMCQ. Missing or malformed
// blocks produce Valid=false with the error message as question text.
func ParseFFQ(answer Answer) *Result {
	result := &Result{
		Kind:      KindFFQ,
		Reasoning: answer.Text,
		Sources:   answer.Context,
	}

	ffq, err := decodeFFQ(answer.Text)
	if err != nil {
		result.FFQ = &FFQ{Question: err.Error()}
		return result
	}

	result.FFQ = ffq
	result.Valid = true
	return result
}

func decodeFFQ(text string) (*FFQ, error) {
	block, found := ExtractYAMLBlock(text)
	if !found {
		return nil, fmt.Errorf("no FFQ found")
	}
	var ffq FFQ
	if err := yaml.Unmarshal([]byte(block), &ffq); err != nil {
		return nil, fmt.Errorf("decode FFQ: %w", err)
	}
	if err := ffq.Validate(); err != nil {
		return nil, fmt.Errorf("invalid FFQ: %w", err)
	}
	return &ffq, nil
}

// Parser converts an Answer into a Result.
type Parser func(Answer) *Result

// ParserFor returns the parser for a question kind.
func ParserFor(kind Kind) Parser {
	if kind == KindFFQ {
		return ParseFFQ
	}
	return ParseMCQ
}
