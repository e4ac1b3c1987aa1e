package service

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/courseloop/coursegw/internal/domain"
)

// BuildContext renders retrieved chunks as a citable SOURCES block. Each
// chunk gets a 1-indexed label line followed by its content, chunks
// separated by a blank line. The label index is the citation number.
func BuildContext(chunks []domain.DocumentChunk) string {
	blocks := make([]string, 0, len(chunks))
	for i := range chunks {
		c := &chunks[i]

		title := c.Title
		if title == "" {
			title = "n/a"
		}
		chunkIndex := "n/a"
		if c.ChunkIndex != nil {
			chunkIndex = strconv.Itoa(*c.ChunkIndex)
		}

		label := fmt.Sprintf("SOURCE[%d] id=%s title=%s chunk=%s", i+1, c.ID, title, chunkIndex)
		blocks = append(blocks, label+"\n"+c.Content)
	}
	return strings.Join(blocks, "\n\n")
}

// BuildPrompt wraps the context block in the grounding instruction template.
// Every path that reaches the generation backend goes through this template;
// it restricts the model to the provided sources, demands an explicit
// "I don't know" when they are insufficient, and requires a trailing
// citation list of the SOURCE numbers used.
func BuildPrompt(chunks []domain.DocumentChunk, question string) string {
	return fmt.Sprintf(`You are CourseLLM.
Use ONLY the provided sources to answer.
If the sources do not contain the answer, say you don't know.

Return:
1) Answer (concise)
2) Citations: list SOURCE numbers you used, e.g. [1], [2]

SOURCES:
%s

QUESTION:
%s
`, BuildContext(chunks), question)
}

var citationRe = regexp.MustCompile(`\[(\d+)\]`)

// ValidateCitations strips citations whose index falls outside [1, n] from
// the answer text, returning the cleaned answer and the citations dropped,
// verbatim. The model's citation output is not trusted blindly: a dangling
// [7] over five sources would dereference nothing on the caller side. An
// index too large for int counts as out of range.
func ValidateCitations(answer string, n int) (string, []string) {
	var dropped []string
	cleaned := citationRe.ReplaceAllStringFunc(answer, func(match string) string {
		idx, err := strconv.Atoi(citationRe.FindStringSubmatch(match)[1])
		if err == nil && idx >= 1 && idx <= n {
			return match
		}
		dropped = append(dropped, match)
		return ""
	})
	if len(dropped) == 0 {
		return answer, nil
	}

	lines := strings.Split(cleaned, "\n")
	for i, line := range lines {
		lines[i] = strings.Join(strings.Fields(line), " ")
	}
	return strings.TrimSpace(strings.Join(lines, "\n")), dropped
}
