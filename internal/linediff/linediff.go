// Package linediff renders a line-based diff between two texts using a
// longest-common-subsequence alignment. Only changed lines are rendered,
// prefixed with "- " for removals and "+ " for additions.
package linediff

import (
	"regexp"
	"strings"
)

// DefaultMaxLines caps rendered output; anything beyond is replaced by "...".
const DefaultMaxLines = 20

// maxCells bounds the LCS table. Larger inputs fall back to positional alignment.
const maxCells = 4_000_000

// Op is the kind of an edit.
type Op int

const (
	Equal Op = iota
	Delete
	Insert
)

// Edit is one line of an edit script.
type Edit struct {
	Op   Op
	Text string
}

var lineBreak = regexp.MustCompile(`\r?\n`)

// Lines splits s on LF or CRLF.
func Lines(s string) []string {
	return lineBreak.Split(s, -1)
}

// Compute returns an edit script turning a into b. When a line could be
// removed or added at the same point, removals come first.
func Compute(a, b []string) []Edit {
	// Common prefix and suffix never need the table.
	prefix := 0
	for prefix < len(a) && prefix < len(b) && a[prefix] == b[prefix] {
		prefix++
	}
	suffix := 0
	for suffix < len(a)-prefix && suffix < len(b)-prefix && a[len(a)-1-suffix] == b[len(b)-1-suffix] {
		suffix++
	}

	edits := make([]Edit, 0, len(a)+len(b))
	for _, line := range a[:prefix] {
		edits = append(edits, Edit{Equal, line})
	}

	midA := a[prefix : len(a)-suffix]
	midB := b[prefix : len(b)-suffix]
	if (len(midA)+1)*(len(midB)+1) > maxCells {
		edits = append(edits, positional(midA, midB)...)
	} else {
		edits = append(edits, lcs(midA, midB)...)
	}

	for _, line := range a[len(a)-suffix:] {
		edits = append(edits, Edit{Equal, line})
	}
	return edits
}

// lcs aligns a and b on their longest common subsequence.
func lcs(a, b []string) []Edit {
	n, m := len(a), len(b)
	// table[i][j] is the LCS length of a[i:] and b[j:].
	table := make([][]int, n+1)
	for i := range table {
		table[i] = make([]int, m+1)
	}
	for i := n - 1; i >= 0; i-- {
		for j := m - 1; j >= 0; j-- {
			if a[i] == b[j] {
				table[i][j] = table[i+1][j+1] + 1
			} else {
				table[i][j] = max(table[i+1][j], table[i][j+1])
			}
		}
	}

	edits := make([]Edit, 0, n+m)
	i, j := 0, 0
	for i < n && j < m {
		switch {
		case a[i] == b[j]:
			edits = append(edits, Edit{Equal, a[i]})
			i++
			j++
		case table[i+1][j] >= table[i][j+1]:
			edits = append(edits, Edit{Delete, a[i]})
			i++
		default:
			edits = append(edits, Edit{Insert, b[j]})
			j++
		}
	}
	for ; i < n; i++ {
		edits = append(edits, Edit{Delete, a[i]})
	}
	for ; j < m; j++ {
		edits = append(edits, Edit{Insert, b[j]})
	}
	return edits
}

// positional compares line by line at equal indexes.
func positional(a, b []string) []Edit {
	edits := make([]Edit, 0, len(a)+len(b))
	for i := 0; i < max(len(a), len(b)); i++ {
		switch {
		case i >= len(a):
			edits = append(edits, Edit{Insert, b[i]})
		case i >= len(b):
			edits = append(edits, Edit{Delete, a[i]})
		case a[i] == b[i]:
			edits = append(edits, Edit{Equal, a[i]})
		default:
			edits = append(edits, Edit{Delete, a[i]}, Edit{Insert, b[i]})
		}
	}
	return edits
}

// Render diffs oldText against newText, capped at DefaultMaxLines.
// Identical inputs render as "".
func Render(oldText, newText string) string {
	return RenderLimit(oldText, newText, DefaultMaxLines)
}

// RenderLimit is Render with an explicit cap. maxLines <= 0 disables the cap.
func RenderLimit(oldText, newText string, maxLines int) string {
	if oldText == newText {
		return ""
	}

	var out []string
	for _, e := range Compute(Lines(oldText), Lines(newText)) {
		switch e.Op {
		case Delete:
			out = append(out, "- "+e.Text)
		case Insert:
			out = append(out, "+ "+e.Text)
		}
	}

	if maxLines > 0 && len(out) > maxLines {
		return strings.Join(out[:maxLines], "\n") + "\n..."
	}
	return strings.Join(out, "\n")
}

// Indent prefixes every line of s with prefix.
func Indent(s, prefix string) string {
	if s == "" {
		return ""
	}
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = prefix + l
	}
	return strings.Join(lines, "\n")
}
