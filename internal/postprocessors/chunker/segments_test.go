package chunker

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitSegments(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		threshold int
		expected  []string
	}{
		{
			name:      "short paragraphs kept whole",
			body:      "First para.\nStill first.\n\nSecond para.",
			threshold: 400,
			expected:  []string{"First para.\nStill first.", "Second para."},
		},
		{
			name:      "blank paragraphs skipped",
			body:      "A\n\n\n\n  \n\nB",
			threshold: 400,
			expected:  []string{"A", "B"},
		},
		{
			name:      "list markers",
			body:      "Intro line here:\n• first item\n- second item\n3. third item",
			threshold: 20,
			expected:  []string{"Intro line here:", "• first item", "- second item", "3. third item"},
		},
		{
			name:      "sentence boundaries need a capital",
			body:      "This is one. This is two! Is this three? yes it is.",
			threshold: 20,
			expected:  []string{"This is one.", "This is two!", "Is this three? yes it is."},
		},
		{
			name:      "newline after sentence end",
			body:      "First one.\nSecond one.",
			threshold: 10,
			expected:  []string{"First one.", "Second one."},
		},
		{
			name:      "dash without space is not a marker",
			body:      "alpha\n-beta",
			threshold: 5,
			expected:  []string{"alpha\n-beta"},
		},
		{
			name:      "numbered item followed by a capital splits twice",
			body:      "Steps follow\n1. Open the file",
			threshold: 10,
			expected:  []string{"Steps follow", "1.", "Open the file"},
		},
		{
			name:      "no boundary keeps the paragraph",
			body:      strings.Repeat("word ", 30),
			threshold: 50,
			expected:  []string{strings.TrimSpace(strings.Repeat("word ", 30))},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, SplitSegments(tt.body, tt.threshold))
		})
	}
}

func TestSplitSegments_ThresholdCountsCharacters(t *testing.T) {
	para := strings.Repeat("é", 300) + ". Next"

	segments := SplitSegments(para, 400)

	assert.Equal(t, []string{para}, segments)
}

func TestSplitSegments_AtThresholdNotSplit(t *testing.T) {
	para := "One. Two. Three."

	assert.Equal(t, []string{para}, SplitSegments(para, len(para)))
	assert.Equal(t, []string{"One.", "Two.", "Three."}, SplitSegments(para, len(para)-1))
}
