package chunker

import "strings"

// Pack greedily packs segments into chunk texts of about size characters,
// prefixing each with "[label] " when label is non-empty.
//
// A segment longer than size is split by line instead; its trailing lines
// stay open and keep accumulating with the following segments. A single line
// longer than size is emitted whole. With overlap > 0 the last overlap
// segments of a flushed chunk start the next one.
func Pack(segments []string, label string, size, overlap int) []string {
	var (
		out    []string
		parts  []string
		length int
	)
	flush := func(p []string) {
		if text := labelled(label, p); text != "" {
			out = append(out, text)
		}
	}

	for _, seg := range segments {
		segLen := runeLen(seg)

		if segLen > size {
			if len(parts) > 0 {
				flush(parts)
				parts, length = nil, 0
			}
			var sub []string
			subLen := 0
			for _, line := range strings.Split(seg, "\n") {
				line = strings.TrimSpace(line)
				if line == "" {
					continue
				}
				lineLen := runeLen(line)
				if subLen+lineLen > size && len(sub) > 0 {
					flush(sub)
					sub, subLen = nil, 0
				}
				sub = append(sub, line)
				subLen += lineLen + 1
			}
			if len(sub) > 0 {
				parts, length = sub, subLen
			}
			continue
		}

		if length+segLen > size && len(parts) > 0 {
			flush(parts)
			if overlap > 0 && len(parts) >= overlap {
				carry := make([]string, overlap)
				copy(carry, parts[len(parts)-overlap:])
				parts = carry
				length = len(carry) - 1
				for _, c := range carry {
					length += runeLen(c)
				}
			} else {
				parts, length = nil, 0
			}
		}

		parts = append(parts, seg)
		length += segLen + 1
	}

	if len(parts) > 0 {
		flush(parts)
	}
	return out
}

// labelled joins parts into a chunk body. An empty body yields "".
func labelled(label string, parts []string) string {
	body := strings.TrimSpace(strings.Join(parts, "\n"))
	if body == "" {
		return ""
	}
	if label == "" {
		return body
	}
	return "[" + label + "] " + body
}

// LabelPrefix returns the prefix Pack puts in front of chunks of a section.
func LabelPrefix(label string) string {
	if label == "" {
		return ""
	}
	return "[" + label + "] "
}
