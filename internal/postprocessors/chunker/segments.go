package chunker

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

var paragraphBreak = regexp.MustCompile(`\n\n+`)

// SplitSegments breaks a section body into segments. Paragraphs up to
// threshold characters stay whole; longer ones are split at list items and
// sentence boundaries. Segments are stripped and never empty.
func SplitSegments(body string, threshold int) []string {
	var segments []string
	for _, para := range paragraphBreak.Split(body, -1) {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}
		if runeLen(para) <= threshold {
			segments = append(segments, para)
			continue
		}
		for _, part := range splitLong(para) {
			if part = strings.TrimSpace(part); part != "" {
				segments = append(segments, part)
			}
		}
	}
	return segments
}

// splitLong cuts a paragraph at every boundary found by boundaryAt,
// scanning left to right and resuming after each consumed separator.
func splitLong(para string) []string {
	rs := []rune(para)
	var parts []string
	start := 0
	for i := 0; i < len(rs); {
		if end, ok := boundaryAt(rs, i); ok {
			parts = append(parts, string(rs[start:i]))
			start, i = end, end
			continue
		}
		i++
	}
	return append(parts, string(rs[start:]))
}

// boundaryAt reports whether a separator starts at i and where it ends.
// Two kinds are recognised, tried in order at each position:
//
//   - a newline followed by a list marker ("•", "- ", "12."); only the
//     newline is consumed
//   - whitespace after '.', '!' or '?' followed by an ASCII capital; the
//     whole whitespace run is consumed
func boundaryAt(rs []rune, i int) (int, bool) {
	if rs[i] == '\n' && listMarkerAt(rs, i+1) {
		return i + 1, true
	}
	if i == 0 || !isTerminal(rs[i-1]) || !unicode.IsSpace(rs[i]) {
		return 0, false
	}
	j := i
	for j < len(rs) && unicode.IsSpace(rs[j]) {
		j++
	}
	if j < len(rs) && rs[j] >= 'A' && rs[j] <= 'Z' {
		return j, true
	}
	return 0, false
}

func listMarkerAt(rs []rune, k int) bool {
	if k >= len(rs) {
		return false
	}
	switch {
	case rs[k] == '•':
		return true
	case rs[k] == '-':
		return k+1 < len(rs) && unicode.IsSpace(rs[k+1])
	}
	j := k
	for j < len(rs) && unicode.IsDigit(rs[j]) {
		j++
	}
	return j > k && j < len(rs) && rs[j] == '.'
}

func isTerminal(r rune) bool {
	return r == '.' || r == '!' || r == '?'
}

// runeLen is the length used for every size comparison in this package.
func runeLen(s string) int {
	return utf8.RuneCountInString(s)
}
