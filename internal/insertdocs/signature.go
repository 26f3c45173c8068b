package insertdocs

import "strings"

// Split formats obj's docstring and separates the signature-like header
// from the body. The header is qualified with everything in fullName
// before the last dot.
func Split(obj *Object, fullName string) (header, body string) {
	baseName, name := splitName(fullName)
	body = Format(obj.Doc)
	header = name

	switch obj.Kind {
	case KindModule:
	case KindFunction, KindMethod:
		header = name + "()"
		if h, b, ok := splitCall(body, name); ok {
			header, body = h, b
		}
	case KindProperty:
		if strings.HasPrefix(body, name) {
			header, body = splitFirstLine(body)
		}
	case KindClass:
		if h, b, ok := splitCall(body, name); ok {
			header, body = h, b
		} else if strings.HasPrefix(body, name) {
			header, body = splitFirstLine(body)
		}
	}

	header = collapseSpaces(header)
	if baseName != "" {
		header = baseName + "." + header
	}
	return header, body
}

func splitName(fullName string) (baseName, name string) {
	if i := strings.LastIndex(fullName, "."); i >= 0 {
		return fullName[:i], fullName[i+1:]
	}
	return "", fullName
}

// splitCall extracts "name(...)" from the start of doc when the
// parentheses balance. Line breaks inside the signature are dropped.
func splitCall(doc, name string) (header, body string, ok bool) {
	if !strings.HasPrefix(doc, name+"(") {
		return "", "", false
	}
	end := matchParen(doc, len(name))
	if end < 0 {
		return "", "", false
	}
	header = strings.NewReplacer("\r", "", "\n", "").Replace(doc[:end+1])
	body = strings.TrimLeft(doc[end+1:], ":")
	body = strings.TrimLeft(body, " \t\r\n\v\f")
	return header, body, true
}

// matchParen returns the index of the parenthesis closing the one at open,
// or -1.
func matchParen(text string, open int) int {
	level := 0
	for i := open; i < len(text); i++ {
		switch text[i] {
		case '(':
			level++
		case ')':
			level--
			if level == 0 {
				return i
			}
		}
	}
	return -1
}

func splitFirstLine(text string) (first, rest string) {
	first, rest, _ = strings.Cut(text, "\n")
	return first, rest
}

func collapseSpaces(s string) string {
	for strings.Contains(s, "  ") {
		s = strings.ReplaceAll(s, "  ", " ")
	}
	return s
}
