package insertdocs

import (
	"regexp"
	"sort"
	"strings"
)

var existingRef = regexp.MustCompile(":ref:`(.+?)<insertdocs-(.+?)>`")

// boundaries may follow a name for it to be linked. Parentheses are left
// out on purpose: "`(" renders wrongly.
var boundaries = []string{" ", ",", ":", ";", ". "}

// OrderNames returns the names in the order the rewriter tries them:
// longest first, then lexicographically, without duplicates.
func OrderNames(names []string) []string {
	ordered := make([]string, 0, len(names))
	seen := map[string]bool{}
	for _, name := range names {
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		ordered = append(ordered, name)
	}
	sort.Slice(ordered, func(i, j int) bool {
		if len(ordered[i]) != len(ordered[j]) {
			return len(ordered[i]) > len(ordered[j])
		}
		return ordered[i] < ordered[j]
	})
	return ordered
}

// RewriteRefs turns plain occurrences of the known names into
// cross-references. References this tool made earlier are reverted first,
// so the result only links names that are known now. Lines starting with
// ".." and text between double backticks are left alone.
func RewriteRefs(text string, names []string) (string, bool) {
	stripped := existingRef.ReplaceAllString(text, "$1")
	ordered := OrderNames(names)

	lines := splitLines(stripped)
	linked := 0
	for i, line := range lines {
		if strings.HasPrefix(line, "..") {
			continue
		}
		for _, name := range ordered {
			var n int
			line, n = linkName(line, name)
			linked += n
		}
		lines[i] = line
	}

	result := stripped
	if linked > 0 {
		result = strings.Join(lines, "\n") + "\n"
	}
	return result, result != text
}

// linkName wraps every eligible occurrence of name in line.
func linkName(line, name string) (string, int) {
	count := 0
	for from := 0; from <= len(line); {
		i := strings.Index(line[from:], name)
		if i < 0 {
			break
		}
		start := from + i
		end := start + len(name)
		pre, post := line[:start], line[end:]
		if strings.Count(pre, "``")%2 == 1 || !endsName(post) {
			from = end
			continue
		}
		ref := XRef(name)
		line = pre + ref + post
		from = start + len(ref)
		count++
	}
	return line, count
}

func endsName(post string) bool {
	if post == "" || post == "." {
		return true
	}
	for _, b := range boundaries {
		if strings.HasPrefix(post, b) {
			return true
		}
	}
	return false
}
