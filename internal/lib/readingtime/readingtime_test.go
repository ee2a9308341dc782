package readingtime

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEstimate(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"empty content floors at one minute", "", "1 min read"},
		{"single word", "hello", "1 min read"},
		{"exactly one minute", strings.Repeat("word ", 200), "1 min read"},
		{"rounds up past the boundary", strings.Repeat("word ", 201), "2 min read"},
		{"long article", strings.Repeat("word ", 1000), "5 min read"},
		{"whitespace only", "   \n\t  ", "1 min read"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Estimate(tt.content))
		})
	}
}
