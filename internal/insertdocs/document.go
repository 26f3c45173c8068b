package insertdocs

import (
	"slices"
	"strings"
)

// Document is one text file split into lines. The final element is always
// the empty string following the last line break, so joining with "\n"
// reproduces a newline-terminated file.
type Document struct {
	Path    string
	Lines   []string
	Changed bool
}

// NewDocument splits text into a Document.
func NewDocument(path, text string) *Document {
	return &Document{Path: path, Lines: append(splitLines(text), "")}
}

// Text joins the lines back together.
func (d *Document) Text() string {
	return strings.Join(d.Lines, "\n")
}

// replaceLines swaps in the rewritten lines and records whether they differ.
func (d *Document) replaceLines(lines []string) {
	if !slices.Equal(d.Lines, lines) {
		d.Changed = true
	}
	d.Lines = lines
}

// cursor reads input lines front to back while building a separate output.
type cursor struct {
	in  []string
	pos int
	out []string
}

func (c *cursor) line() int {
	return c.pos
}

// next consumes the next input line without emitting it.
func (c *cursor) next() (string, bool) {
	if c.pos >= len(c.in) {
		return "", false
	}
	line := c.in[c.pos]
	c.pos++
	return line, true
}

// peek returns the next input line without consuming it.
func (c *cursor) peek() (string, bool) {
	if c.pos >= len(c.in) {
		return "", false
	}
	return c.in[c.pos], true
}

// take consumes the next input line and emits it unchanged.
func (c *cursor) take() (string, bool) {
	line, ok := c.next()
	if ok {
		c.out = append(c.out, line)
	}
	return line, ok
}

// replace overwrites the most recently emitted line.
func (c *cursor) replace(line string) {
	c.out[len(c.out)-1] = line
}

func (c *cursor) emit(lines ...string) {
	c.out = append(c.out, lines...)
}
