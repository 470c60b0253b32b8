package answer

import (
	"fmt"
	"strings"

	"github.com/manualqa/manualqa/core"
)

// RefusalMessage is the exact reply the model is instructed to give when the
// retrieved context does not answer the question.
const RefusalMessage = "No relevant information was found in the manual."

const promptTemplate = `You are an assistant with expert knowledge of a product manual.
Answer the user's question using ONLY the context passages below, in the
same language the question is written in.
If the context passages do not contain the answer, reply with exactly:
%s
Do not use your own knowledge or any information outside the context passages.

Context passages:
%s

Question:
%s

Answer:`

// buildPrompt assembles the grounded answering prompt from the retrieved
// chunks. Zero chunks yields an empty context block; the refusal instruction
// covers that case.
func buildPrompt(question string, matches []*core.ChunkMatch) string {
	var context strings.Builder
	for i, match := range matches {
		if i > 0 {
			context.WriteString("\n\n")
		}
		fmt.Fprintf(&context, "[%d] %s", i+1, match.Record.Text)
	}
	return fmt.Sprintf(promptTemplate, RefusalMessage, context.String(), question)
}
