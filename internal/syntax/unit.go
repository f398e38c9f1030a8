package syntax

import (
	"go/token"
	"sort"
	"strings"
)

// Unit is one resolved source file.
type Unit struct {
	// Path is the source file path as reported in issues.
	Path string
	// Content is the source text the node ranges point into.
	Content []byte
	// Nodes are the top-level expressions in source order.
	Nodes []Expression

	lineStarts []int
}

// NewUnit returns a unit over content.
func NewUnit(path string, content []byte, nodes []Expression) *Unit {
	u := &Unit{Path: path, Content: content, Nodes: nodes}
	u.lineStarts = computeLineStarts(content)
	return u
}

func computeLineStarts(content []byte) []int {
	starts := []int{0}
	for i, b := range content {
		if b == '\n' {
			starts = append(starts, i+1)
		}
	}
	return starts
}

// Position converts a byte offset into a 1-based line and column.
func (u *Unit) Position(offset int) token.Position {
	if offset < 0 {
		offset = 0
	}
	if offset > len(u.Content) {
		offset = len(u.Content)
	}
	line := sort.Search(len(u.lineStarts), func(i int) bool {
		return u.lineStarts[i] > offset
	}) - 1
	return token.Position{
		Filename: u.Path,
		Offset:   offset,
		Line:     line + 1,
		Column:   offset - u.lineStarts[line] + 1,
	}
}

// Text returns the source text covered by n.
func (u *Unit) Text(n Node) string {
	if n.Offset() < 0 || n.End() > len(u.Content) || n.Offset() > n.End() {
		return ""
	}
	return string(u.Content[n.Offset():n.End()])
}

// Lines splits the content into lines without their terminators.
func (u *Unit) Lines() []string {
	return strings.Split(strings.ReplaceAll(string(u.Content), "\r\n", "\n"), "\n")
}
