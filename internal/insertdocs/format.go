package insertdocs

import (
	"strings"
	"unicode"
)

const (
	codeIndent     = "    "
	codeBlockStart = ".. code-block:: python"
	literalSuffix  = "::"
)

// docLine keeps the stripped text and indentation a line had before any
// rewriting; later comparisons look at those, not at the rewritten text.
type docLine struct {
	text     string
	stripped string
	indent   int
}

func newDocLine(text string) docLine {
	stripped := strings.TrimLeftFunc(text, unicode.IsSpace)
	return docLine{text: text, stripped: stripped, indent: len(text) - len(stripped)}
}

// Format turns a raw docstring into reStructuredText. Underlined headings
// become bold text, headings starting with "Example" open a code block,
// {{{ and }}} toggle a literal block, and the shared indentation of all
// lines after the first is removed.
func Format(doc string) string {
	raw := splitLines(doc)
	if len(raw) == 0 {
		return ""
	}

	lines := make([]docLine, 0, len(raw))
	lines = append(lines, newDocLine(strings.TrimLeftFunc(raw[0], unicode.IsSpace)))
	width := minIndent(raw[1:])
	for _, line := range raw[1:] {
		lines = append(lines, newDocLine(dedent(line, width)))
	}

	var (
		out       []string
		prev      = newDocLine("")
		inExample bool
		inCode    bool
	)
	for _, line := range lines {
		switch {
		case line.indent == prev.indent && (strings.Contains(line.text, "---") || strings.Contains(line.text, "===")):
			if isUnderline(line, prev) {
				out[len(out)-1] = "**" + prev.stripped + "**\n"
				line.text, line.stripped = "", ""
				inExample = false
				if strings.HasPrefix(strings.ToLower(prev.stripped), "example") {
					line.text = codeBlockStart + "\n"
					inExample = true
				}
			}
		case strings.Contains(line.text, " : "):
			// numpydoc parameter line
		case strings.HasPrefix(line.stripped, "{{{"):
			inCode = true
			if len(out) > 0 {
				out[len(out)-1] += literalSuffix
			}
			line.text = ""
		case strings.HasPrefix(line.stripped, "}}}"):
			inCode = false
			line.text = ""
		case inExample || inCode:
			line.text = codeIndent + line.text
		}
		prev = line
		out = append(out, line.text)
	}
	out = append(out, "")
	return strings.Join(out, "\n")
}

// isUnderline reports whether line underlines prev: it consists only of
// dashes or equal signs and is at least as long as the heading text.
func isUnderline(line, prev docLine) bool {
	under := strings.Count(line.text, "-") + strings.Count(line.text, "=")
	n1 := len(strings.TrimSpace(line.text))
	n2 := len(strings.TrimSpace(prev.text))
	return under == n1 && n2 > 0 && n1 >= n2
}

// minIndent returns the smallest leading whitespace width over the
// non-blank lines, or -1 when every line is blank.
func minIndent(lines []string) int {
	width := -1
	for _, line := range lines {
		stripped := strings.TrimLeftFunc(line, unicode.IsSpace)
		if stripped == "" {
			continue
		}
		if n := len(line) - len(stripped); width < 0 || n < width {
			width = n
		}
	}
	return width
}

func dedent(line string, width int) string {
	if width < 0 || len(line) <= width {
		return ""
	}
	return line[width:]
}
