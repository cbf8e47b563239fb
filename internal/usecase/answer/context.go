package answer

import (
	"fmt"
	"strings"

	"github.com/campuskit/courserag/internal/domain/search/result"
)

// maxContextTokens is a rough token budget for the assembled context;
// the character budget approximates tokens * 4.
const (
	maxContextTokens = 2048
	charBudget       = maxContextTokens * 4
)

// AssembleContext builds the textual context block handed to the generator
// from the retrieved hits, truncating once the character budget runs out.
func AssembleContext(hits []result.Hit) string {
	var blocks []string
	charCount := 0
	for _, h := range hits {
		c := h.Course
		prereq := c.Prerequisites
		if prereq == "" {
			prereq = "None listed"
		}
		block := fmt.Sprintf(
			"[%s] %s\nDepartment: %s\nSource: %s\nDescription: %s\nPrerequisites: %s\n---",
			c.Code, c.Title, c.Department, c.Source, c.Description, prereq,
		)
		if charCount+len(block) > charBudget {
			remaining := charBudget - charCount
			if remaining > 80 {
				blocks = append(blocks, block[:remaining]+"\n[…truncated…]\n---")
			}
			break
		}
		blocks = append(blocks, block)
		charCount += len(block)
	}
	return strings.Join(blocks, "\n")
}
