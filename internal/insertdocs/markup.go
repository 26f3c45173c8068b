package insertdocs

import "strings"

// Document markup. These strings are read back by later runs, so they must
// stay byte-compatible with documents already processed.
const (
	DirectiveBase  = ".. insertdocs::"
	DirectiveStart = ".. insertdocs start::"
	DirectiveEnd   = ".. insertdocs end::"
	OptionPrefix   = ".. insertdocs "
	labelPrefix    = ".. _insertdocs-"
	refTargetStart = "<insertdocs-"
)

// Slug turns a dotted name into an anchor-safe one.
func Slug(name string) string {
	return strings.ReplaceAll(name, ".", "-")
}

// Label returns the anchor line placed before every fragment.
func Label(name string) string {
	return labelPrefix + Slug(name) + ":"
}

// XRef returns the cross-reference markup pointing at name's label.
func XRef(name string) string {
	return ":ref:`" + name + refTargetStart + Slug(name) + ">`"
}

// Indent prefixes every line of text with n spaces.
func Indent(text string, n int) string {
	pad := strings.Repeat(" ", n)
	lines := splitLines(text)
	for i, line := range lines {
		lines[i] = pad + line
	}
	return strings.Join(lines, "\n")
}

// splitLines splits on line breaks without yielding a trailing empty line
// for text that ends in one.
func splitLines(text string) []string {
	if text == "" {
		return nil
	}
	text = strings.TrimSuffix(text, "\n")
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return lines
}
