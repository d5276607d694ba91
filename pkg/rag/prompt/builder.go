package prompt

import (
	"fmt"
	"strings"
)

// ContextualBuilder assembles a quiz prompt from an instruction template,
// the retrieved reference segments and the requested topic.
type ContextualBuilder struct {
	instruction string
	segments    []string
	topic       string
}

func NewContextualBuilder(instruction string, segments []string, topic string) *ContextualBuilder {
	return &ContextualBuilder{
		instruction: instruction,
		segments:    segments,
		topic:       topic,
	}
}

func (b *ContextualBuilder) Build() string {
	var prompt strings.Builder

	b.writeReferenceMaterial(&prompt)
	b.writeTask(&prompt)
	b.writeTopic(&prompt)

	return prompt.String()
}

func (b *ContextualBuilder) writeReferenceMaterial(prompt *strings.Builder) {
	if len(b.segments) == 0 {
		return
	}

	prompt.WriteString("<reference_material>\n")
	for i, seg := range b.segments {
		fmt.Fprintf(prompt, "[%d]\n%s\n\n", i+1, strings.TrimSpace(seg))
	}
	prompt.WriteString("</reference_material>\n\n")
}

func (b *ContextualBuilder) writeTask(prompt *strings.Builder) {
	prompt.WriteString("<task>\n")
	prompt.WriteString(strings.TrimSpace(b.instruction))
	prompt.WriteString("\n</task>\n\n")
}

func (b *ContextualBuilder) writeTopic(prompt *strings.Builder) {
	prompt.WriteString("<topic>\n")
	prompt.WriteString(b.topic)
	prompt.WriteString("\n</topic>\n\n")
	prompt.WriteString("Use only the reference material. Finish with the fenced yaml block.")
}
