package chatbot

import (
	"sort"
	"strings"
	"unicode/utf16"
)

// mentionRange is a half-open [start, end) span in UTF-16 code units.
type mentionRange struct {
	start int
	end   int
}

// selfMentionRanges extracts the spans that reference the bot itself.
// A non-empty result means the bot was addressed.
func selfMentionRanges(mentions []Mention) []mentionRange {
	var ranges []mentionRange
	for _, m := range mentions {
		if !m.IsSelf {
			continue
		}
		ranges = append(ranges, mentionRange{start: m.Index, end: m.Index + m.Length})
	}
	return ranges
}

// stripMentions removes the given spans from text and trims whitespace.
// Spans are removed in descending start order so that earlier removals
// never shift the offsets of spans still to be processed. Offsets are
// interpreted as UTF-16 code units; out-of-bounds spans are skipped.
func stripMentions(text string, ranges []mentionRange) string {
	if len(ranges) == 0 {
		return strings.TrimSpace(text)
	}
	sorted := make([]mentionRange, len(ranges))
	copy(sorted, ranges)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].start > sorted[j].start
	})

	units := utf16.Encode([]rune(text))
	for _, r := range sorted {
		if r.start < 0 || r.end <= r.start || r.end > len(units) {
			continue
		}
		units = append(units[:r.start:r.start], units[r.end:]...)
	}
	return strings.TrimSpace(string(utf16.Decode(units)))
}
