package memo

import (
	"strings"
	"unicode/utf8"
)

// Truncate enforces a hard maximum character length on the rendered memo.
//
// Memos within the limit pass through untouched. Otherwise the excess is
// distributed evenly across the item lines: each line longer than its
// quota is shortened by that many characters and ends with an ellipsis
// marker, while headers and the order-link footer are never touched. The
// even split can overshoot when line lengths are very uneven, so a second
// pass shaves the longest remaining item line until the render fits. A
// memo with no item lines, or one whose headers and footer alone exceed
// the budget, falls back to a naive cut of the whole rendered string.
//
// Post-condition on every path: the returned text never exceeds maxLength.
func Truncate(m *Memo, maxLength int) (truncated bool, text string) {
	text = m.Render()
	length := utf8.RuneCountInString(text)
	if length <= maxLength {
		return false, text
	}

	if len(m.ItemLines) == 0 {
		return true, cut(text, maxLength)
	}

	work := &Memo{
		HeaderLines: m.HeaderLines,
		ItemLines:   append([]ItemLine(nil), m.ItemLines...),
		FooterLines: m.FooterLines,
	}

	excess := length - maxLength
	quota := excess / len(work.ItemLines)
	for i, line := range work.ItemLines {
		n := utf8.RuneCountInString(line.Text)
		if quota > 0 && n > quota {
			work.ItemLines[i].Text = shorten(line.Text, n-quota)
		}
	}

	out := work.Render()
	for utf8.RuneCountInString(out) > maxLength {
		j := longestItemLine(work.ItemLines)
		if j < 0 {
			break
		}
		over := utf8.RuneCountInString(out) - maxLength
		n := utf8.RuneCountInString(work.ItemLines[j].Text)
		work.ItemLines[j].Text = shorten(work.ItemLines[j].Text, n-over)
		out = work.Render()
	}

	if utf8.RuneCountInString(out) > maxLength {
		out = cut(out, maxLength)
	}
	return true, out
}

// shorten reduces s to exactly width characters ending in the ellipsis
// marker. An existing marker is stripped first so repeated shortening
// never stacks markers. Widths at or below the marker collapse to it.
func shorten(s string, width int) string {
	base := strings.TrimSuffix(s, marker)
	markerLen := utf8.RuneCountInString(marker)
	if width <= markerLen {
		return marker
	}
	keep := width - markerLen
	if utf8.RuneCountInString(base) <= keep {
		return base + marker
	}
	return runePrefix(base, keep) + marker
}

// longestItemLine returns the index of the longest item line that can
// still be shortened, or -1 when every line is already down to the marker.
func longestItemLine(lines []ItemLine) int {
	best := -1
	bestLen := utf8.RuneCountInString(marker)
	for i, line := range lines {
		if n := utf8.RuneCountInString(line.Text); n > bestLen {
			best = i
			bestLen = n
		}
	}
	return best
}

// cut is the degenerate whole-string truncation: keep the leading
// characters and append the marker.
func cut(s string, maxLength int) string {
	markerLen := utf8.RuneCountInString(marker)
	if maxLength <= markerLen {
		return runePrefix(marker, maxLength)
	}
	return runePrefix(s, maxLength-markerLen) + marker
}

func runePrefix(s string, n int) string {
	if n <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
