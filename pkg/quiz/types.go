package quiz

import (
	"fmt"
	"strings"
)

// Kind identifies which question variant a Result carries.
type Kind string

const (
	KindMCQ Kind = "MCQ"
	KindFFQ Kind = "FFQ"
)

// MCQ is a multiple-choice question. CorrectAnswer is a 0-based index into
// AnswerOptions.
type MCQ struct {
	Question      string   `yaml:"question" json:"question"`
	AnswerOptions []string `yaml:"answer_options" json:"answer_options"`
	CorrectAnswer int      `yaml:"correct_answer" json:"correct_answer"`
}

func (q MCQ) String() string {
	var b strings.Builder
	b.WriteString("Question: ")
	b.WriteString(q.Question)
	b.WriteString("\nAnswer options:\n")
	for i, option := range q.AnswerOptions {
		fmt.Fprintf(&b, " %d. %s\n", i, option)
	}
	fmt.Fprintf(&b, "Correct answer: %d", q.CorrectAnswer)
	return b.String()
}

// Validate checks the fields the model is asked to fill in.
func (q MCQ) Validate() error {
	if strings.TrimSpace(q.Question) == "" {
		return fmt.Errorf("question is empty")
	}
	if len(q.AnswerOptions) < 2 {
		return fmt.Errorf("expected at least 2 answer options, got %d", len(q.AnswerOptions))
	}
	if q.CorrectAnswer < 0 || q.CorrectAnswer >= len(q.AnswerOptions) {
		return fmt.Errorf("correct_answer %d out of range [0, %d)", q.CorrectAnswer, len(q.AnswerOptions))
	}
	return nil
}

// FFQ is a free-form question with a reference answer.
type FFQ struct {
	Question string `yaml:"question" json:"question"`
	Answer   string `yaml:"answer" json:"answer"`
}

func (q FFQ) String() string {
	return fmt.Sprintf("Question: %s\nAnswer: %s", q.Question, q.Answer)
}

func (q FFQ) Validate() error {
	if strings.TrimSpace(q.Question) == "" {
		return fmt.Errorf("question is empty")
	}
	if strings.TrimSpace(q.Answer) == "" {
		return fmt.Errorf("answer is empty")
	}
	return nil
}

// Result is the outcome of one generation call. Exactly one of MCQ and FFQ is
// set, matching Kind. It is never modified after the parser returns it.
type Result struct {
	Kind      Kind     `json:"kind"`
	MCQ       *MCQ     `json:"mcq,omitempty"`
	FFQ       *FFQ     `json:"ffq,omitempty"`
	Valid     bool     `json:"valid"`
	Reasoning string   `json:"reasoning"`
	Sources   []string `json:"sources"`
	Topic     string   `json:"topic,omitempty"`
}

// Question returns the human-readable rendering of the carried question.
func (r *Result) Question() string {
	switch r.Kind {
	case KindMCQ:
		if r.MCQ != nil {
			return r.MCQ.String()
		}
	case KindFFQ:
		if r.FFQ != nil {
			return r.FFQ.String()
		}
	}
	return ""
}

// SourcesText renders the supporting chunks as numbered references.
func (r *Result) SourcesText() string {
	refs := make([]string, len(r.Sources))
	for i, source := range r.Sources {
		refs[i] = fmt.Sprintf("REFERENCE %d:\n%s", i, source)
	}
	return strings.Join(refs, "\n\n")
}
