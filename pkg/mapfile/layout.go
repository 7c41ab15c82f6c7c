package mapfile

import (
	"bytes"

	"gopkg.in/yaml.v3"
)

// SequenceLayout is the placement of block sequences that are the value of
// a mapping key.
type SequenceLayout int

const (
	// IndentedSequences puts the items one level deeper than the key:
	//
	//	entities:
	//	  - uid: 1
	IndentedSequences SequenceLayout = iota
	// FlushSequences puts the items in the key's column, as map files
	// written by the game's serializer do:
	//
	//	entities:
	//	- uid: 1
	FlushSequences
)

// String returns the layout name.
func (l SequenceLayout) String() string {
	if l == FlushSequences {
		return "flush"
	}
	return "indented"
}

// DetectLayout reports the layout of the first block sequence found under a
// mapping key. Documents without one are IndentedSequences.
func DetectLayout(roots ...*yaml.Node) SequenceLayout {
	for _, root := range roots {
		if layout, ok := detectLayout(root); ok {
			return layout
		}
	}
	return IndentedSequences
}

func detectLayout(n *yaml.Node) (SequenceLayout, bool) {
	if n == nil || n.Kind == yaml.AliasNode {
		return 0, false
	}
	if n.Kind == yaml.MappingNode {
		for i := 0; i+1 < len(n.Content); i += 2 {
			key, value := n.Content[i], n.Content[i+1]
			if value.Kind != yaml.SequenceNode || value.Style&yaml.FlowStyle != 0 {
				continue
			}
			for _, item := range value.Content {
				if item.Kind == yaml.AliasNode || item.Column == 0 || item.Line == key.Line {
					continue
				}
				// Items start two columns after their "- " indicator.
				if item.Column-2 == key.Column {
					return FlushSequences, true
				}
				return IndentedSequences, true
			}
		}
	}
	for _, child := range n.Content {
		if layout, ok := detectLayout(child); ok {
			return layout, true
		}
	}
	return 0, false
}

// flushSequences rewrites two-space indented yaml.v3 output so that every
// block sequence under a mapping key starts in the key's column. Nested
// content moves left with its sequence; literal and folded scalars keep
// their relative indentation.
func flushSequences(src []byte) []byte {
	var (
		lines [][]byte
		// Key columns of the sequences being moved, innermost last.
		open []int
		// Comments seen since the last content line.
		pending []pendingComment
		// Indent of the previous content line and whether it ended in a
		// key with its value on the following lines.
		prevIndent = -1
		prevOpens  bool
		// Column a block scalar's content must exceed, or -1.
		block = -1
	)

	for _, line := range bytes.SplitAfter(src, []byte("\n")) {
		if len(line) == 0 {
			continue
		}
		body := bytes.TrimLeft(line, " ")
		indent := len(line) - len(body)

		if len(bytes.TrimSpace(body)) == 0 {
			lines = append(lines, line)
			continue
		}

		if block >= 0 {
			if indent > block {
				lines = append(lines, dedent(line, 2*len(open)))
				continue
			}
			block = -1
		}

		if body[0] == '#' {
			pending = append(pending, pendingComment{line: len(lines), indent: indent})
			lines = append(lines, dedent(line, 2*enclosing(open, indent)))
			continue
		}

		for len(open) > 0 && indent <= open[len(open)-1] {
			open = open[:len(open)-1]
		}
		if isSequenceItem(body) && prevOpens && indent >= 2 && indent > prevIndent {
			open = append(open, indent-2)
			// Comments above the first item belong to the new sequence.
			for _, c := range pending {
				if c.indent >= indent {
					lines[c.line] = dedent(lines[c.line], 2)
				}
			}
		}
		pending = pending[:0]

		lines = append(lines, dedent(line, 2*len(open)))
		prevIndent = indent
		prevOpens = opensBlockValue(body)
		if col, ok := blockScalarParent(body, indent); ok {
			block = col
		}
	}

	return bytes.Join(lines, nil)
}

type pendingComment struct {
	line   int
	indent int
}

// enclosing counts the open sequences a line at indent belongs to.
func enclosing(open []int, indent int) int {
	n := 0
	for _, col := range open {
		if indent > col {
			n++
		}
	}
	return n
}

func dedent(line []byte, n int) []byte {
	for i := 0; i < n && len(line) > 0 && line[0] == ' '; i++ {
		line = line[1:]
	}
	return line
}

func isSequenceItem(body []byte) bool {
	return body[0] == '-' && (len(body) == 1 || body[1] == ' ' || body[1] == '\n' || body[1] == '\r')
}

// opensBlockValue reports whether a line ends in a mapping key whose value
// follows on the next lines, optionally after a tag or anchor.
func opensBlockValue(body []byte) bool {
	s := bytes.TrimRight(body, " \r\n")
	if bytes.HasSuffix(s, []byte(":")) {
		return true
	}
	i := bytes.LastIndex(s, []byte(": "))
	if i < 0 {
		return false
	}
	for _, f := range bytes.Fields(s[i+2:]) {
		if f[0] != '!' && f[0] != '&' {
			return false
		}
	}
	return true
}

// blockScalarParent reports whether a line starts a literal or folded
// scalar and returns the column its content lines are indented past.
func blockScalarParent(body []byte, indent int) (int, bool) {
	s := bytes.TrimRight(body, " \r\n")
	fields := bytes.Fields(s)
	if len(fields) == 0 || !isBlockIndicator(fields[len(fields)-1]) {
		return 0, false
	}

	// Skip "- " indicators to find the node the scalar belongs to.
	col := indent
	rest := s
	for len(rest) >= 2 && rest[0] == '-' && rest[1] == ' ' {
		rest = rest[2:]
		col += 2
	}
	if isBlockIndicator(bytes.Fields(rest)[0]) {
		// "- |": the item itself is the scalar.
		return col - 2, true
	}
	if !bytes.Contains(rest, []byte(": ")) {
		return 0, false
	}
	return col, true
}

func isBlockIndicator(f []byte) bool {
	if len(f) == 0 || (f[0] != '|' && f[0] != '>') {
		return false
	}
	for _, c := range f[1:] {
		if c != '-' && c != '+' && (c < '1' || c > '9') {
			return false
		}
	}
	return true
}
