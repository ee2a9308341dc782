package readingtime

import (
	"fmt"
	"strings"
)

const wordsPerMinute = 200

// Estimate returns a human-readable reading time for the given markdown
// content, at 200 words per minute with a one minute floor.
func Estimate(content string) string {
	words := len(strings.Fields(content))
	minutes := (words + wordsPerMinute - 1) / wordsPerMinute
	if minutes < 1 {
		minutes = 1
	}
	return fmt.Sprintf("%d min read", minutes)
}
