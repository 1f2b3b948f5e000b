// Package memo builds and bounds the annotation text written back to a
// ledger entry: an optional partial-order warning, the purchased items,
// and a link to the order.
//
// A memo is kept structured until the last moment so the truncator can
// shorten item lines without corrupting numbering, links, or warnings.
// Lengths are measured in characters (runes), matching the budgeting
// service's memo limit.
package memo

import (
	"strconv"
	"strings"
	"unicode/utf8"
)

// DefaultMaxLength is the budgeting service's hard memo size limit.
const DefaultMaxLength = 500

// marker is appended wherever content had to be cut.
const marker = "..."

// ItemLine is one rendered item with its display index. Index 0 is a
// sentinel meaning "single item, no numbering" and renders as a bullet.
type ItemLine struct {
	Index int
	Text  string
}

// Memo is the structured annotation before rendering. Header and footer
// lines are required content and survive truncation intact; only item
// lines may be shortened.
type Memo struct {
	HeaderLines []string
	ItemLines   []ItemLine
	FooterLines []string
}

// Render concatenates header, item, and footer lines joined by newline.
// Item lines are numbered when indexed, bulleted otherwise.
func (m *Memo) Render() string {
	lines := make([]string, 0, len(m.HeaderLines)+len(m.ItemLines)+len(m.FooterLines))
	lines = append(lines, m.HeaderLines...)
	for _, item := range m.ItemLines {
		lines = append(lines, item.render())
	}
	lines = append(lines, m.FooterLines...)
	return strings.Join(lines, "\n")
}

// Length returns the character length of the rendered memo.
func (m *Memo) Length() int {
	return utf8.RuneCountInString(m.Render())
}

func (l ItemLine) render() string {
	if l.Index == 0 {
		return "- " + l.Text
	}
	return strconv.Itoa(l.Index) + ". " + l.Text
}
