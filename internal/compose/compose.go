// Package compose builds the query string sent to the chatbot endpoint.
package compose

import "strings"

const (
	contextSeparator = " | "
	contextPrefix    = ". remember previous prompts: {"
	contextSuffix    = "}"
)

// Query combines the current input with the user's earlier prompts.
//
// priorUserTexts must not include currentInput itself. With no prior text the
// trimmed input is returned as is. Otherwise the prior prompts are joined with
// " | ", every '?' is removed from the joined part only, and the result is
// appended as "<input>. remember previous prompts: {<joined>}". Braces in user
// text are passed through.
func Query(currentInput string, priorUserTexts []string) string {
	trimmed := strings.TrimSpace(currentInput)
	joined := strings.Join(priorUserTexts, contextSeparator)
	if joined == "" {
		return trimmed
	}
	// The remote prompt parser chokes on question marks.
	stripped := strings.ReplaceAll(joined, "?", "")
	return trimmed + contextPrefix + stripped + contextSuffix
}
