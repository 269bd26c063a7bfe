package chunker

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func seg(ch string) string {
	return strings.Repeat(ch, 100)
}

func TestPack_JoinsWithLabel(t *testing.T) {
	assert.Equal(t, []string{"[Skills] Go\nRust"}, Pack([]string{"Go", "Rust"}, "Skills", 400, 0))
	assert.Equal(t, []string{"Go\nRust"}, Pack([]string{"Go", "Rust"}, "", 400, 0))
}

func TestPack_NoSegments(t *testing.T) {
	assert.Empty(t, Pack(nil, "Skills", 400, 0))
}

func TestPack_GreedyFlush(t *testing.T) {
	segments := []string{seg("a"), seg("b"), seg("c"), seg("d"), seg("e")}

	got := Pack(segments, "", 250, 0)

	assert.Equal(t, []string{
		seg("a") + "\n" + seg("b"),
		seg("c") + "\n" + seg("d"),
		seg("e"),
	}, got)
}

func TestPack_OverlapCarriesTrailingSegments(t *testing.T) {
	segments := []string{seg("a"), seg("b"), seg("c"), seg("d"), seg("e")}

	got := Pack(segments, "", 250, 1)

	assert.Equal(t, []string{
		seg("a") + "\n" + seg("b"),
		seg("b") + "\n" + seg("c"),
		seg("c") + "\n" + seg("d"),
		seg("d") + "\n" + seg("e"),
	}, got)
}

func TestPack_OverlapLargerThanBufferStartsEmpty(t *testing.T) {
	segments := []string{seg("a"), seg("b"), seg("c"), seg("d"), seg("e")}

	assert.Equal(t, Pack(segments, "", 250, 0), Pack(segments, "", 250, 3))
}

func TestPack_OversizedSegmentSplitByLine(t *testing.T) {
	segments := []string{"short", "line one is here\nline two is here\n\n  line three  "}

	got := Pack(segments, "", 20, 0)

	assert.Equal(t, []string{"short", "line one is here", "line two is here", "line three"}, got)
}

func TestPack_LeftoverLinesKeepAccumulating(t *testing.T) {
	segments := []string{"line one is here\nline two is here\nline three", "tail"}

	got := Pack(segments, "Projects", 20, 0)

	assert.Equal(t, []string{
		"[Projects] line one is here",
		"[Projects] line two is here",
		"[Projects] line three\ntail",
	}, got)
}

func TestPack_SingleLongLineKeptWhole(t *testing.T) {
	long := strings.Repeat("x", 50)

	got := Pack([]string{long, "after"}, "", 20, 0)

	assert.Equal(t, []string{long, "after"}, got)
}

func TestLabelPrefix(t *testing.T) {
	assert.Equal(t, "[Work Experience] ", LabelPrefix("Work Experience"))
	assert.Equal(t, "", LabelPrefix(""))
}
