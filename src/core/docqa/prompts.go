package docqa

import (
	"bytes"
	"text/template"
)

// Fixed replies the query pipeline may return verbatim.
const (
	GreetingReply     = "Hi, How I can assist you today?"
	NotCoveredReply   = "This question is not covered in the document."
	NotAvailableReply = "This information isn't available in the document."
)

const GroundedAnswerPromptTmpl = `You are a professional document analyst. Answer the question using ONLY the context extracted from the uploaded document below. Synthesize the information in your own words instead of quoting lines verbatim.

The context and question are delimited by XML tags <CONTEXT></CONTEXT> and <QUESTION></QUESTION>:

<CONTEXT>
{{.Context}}
</CONTEXT>

<QUESTION>
{{.Question}}
</QUESTION>

Follow these rules:
1. Answer ONLY from the provided context.
2. When the context carries page numbers, cite them (e.g. "See page 5").
3. If the question is unrelated to the context, respond exactly: "` + NotCoveredReply + `"
4. If the answer cannot be determined from the context, respond exactly: "` + NotAvailableReply + `"
5. Never fabricate information that is not present in the context.
6. Keep the answer concise, structured and professional.`

var groundedAnswerTmpl = template.Must(template.New("grounded_answer").Parse(GroundedAnswerPromptTmpl))

type promptData struct {
	Context  string
	Question string
}

// BuildGroundedPrompt renders the grounding prompt for a question and its
// assembled retrieval context.
func BuildGroundedPrompt(contextText, question string) (string, error) {
	var buf bytes.Buffer
	if err := groundedAnswerTmpl.Execute(&buf, promptData{
		Context:  contextText,
		Question: question,
	}); err != nil {
		return "", err
	}
	return buf.String(), nil
}
