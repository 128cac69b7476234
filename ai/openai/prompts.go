package openai

import (
	"fmt"
	"strings"
)

// answerSystemPrompt instructs the model to answer only from the supplied
// course evidence and the student's own prior decisions.
const answerSystemPrompt = `You are a study assistant for a lecture course.
Answer the student's question using ONLY the material in the CONTEXT block.
The context contains two kinds of evidence, each labeled: course excerpts
taken from lecture transcripts, and the student's own earlier decisions and
notes. Treat course excerpts as authoritative for what the course teaches.
Treat the student's decisions as facts about their situation, never as
course content. If the context does not contain enough information to
answer, say so plainly. Do not invent lecture content. When you use a
piece of evidence, cite its [chunk_id:...] or [id:...] tag.`

// buildUserPrompt assembles the final user message from the question and
// the evidence context.
func buildUserPrompt(question, contextBlock string) string {
	var b strings.Builder
	b.WriteString("CONTEXT:\n")
	if strings.TrimSpace(contextBlock) == "" {
		b.WriteString("(no evidence retrieved)\n")
	} else {
		b.WriteString(contextBlock)
		if !strings.HasSuffix(contextBlock, "\n") {
			b.WriteString("\n")
		}
	}
	b.WriteString(fmt.Sprintf("\nQUESTION: %s", question))
	return b.String()
}
