package insertdocs

import (
	"io"
	"log/slog"
	"regexp"
	"strings"
)

// Mode selects whether a scan inserts fragments or strips them.
type Mode int

const (
	ModeInsert Mode = iota
	ModeClear
)

func (m Mode) String() string {
	if m == ModeClear {
		return "clear"
	}
	return "insert"
}

var (
	blockOption   = regexp.MustCompile(`^\s+?:(.+?):`)
	commentOption = regexp.MustCompile(`^\.\. insertdocs\s+?:(.+?):`)
)

// Scanner rewrites the directives of one document at a time.
type Scanner struct {
	mode     Mode
	renderer *Renderer
	logger   *slog.Logger
}

// NewScanner returns a scanner for mode. The renderer is only consulted in
// ModeInsert and may be nil otherwise.
func NewScanner(mode Mode, renderer *Renderer, logger *slog.Logger) *Scanner {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Scanner{mode: mode, renderer: renderer, logger: logger}
}

type directive struct {
	name     string
	line     int
	options  map[string]string
	hasBlock bool
	// block holds the previously inserted lines, end marker excluded.
	block []string
}

// Scan rewrites doc in place and returns the names a fragment was inserted
// for. A start marker without an end marker leaves doc untouched and
// returns a *ParseError.
func (s *Scanner) Scan(doc *Document) ([]string, error) {
	c := &cursor{in: doc.Lines}
	var names []string
	for {
		d, ok := s.seekStart(c)
		if !ok {
			break
		}
		s.readOptions(c, d)
		if d.hasBlock {
			block, ok := skipBlock(c)
			if !ok {
				return nil, &ParseError{Path: doc.Path, Line: d.line, Name: d.name, Err: ErrUnterminatedBlock}
			}
			d.block = block
		}
		if s.mode == ModeInsert && s.insert(c, d) {
			names = append(names, d.name)
		}
	}
	doc.replaceLines(c.out)
	return names, nil
}

// seekStart emits lines until a directive marker, which it rewrites to the
// canonical form for the scan mode.
func (s *Scanner) seekStart(c *cursor) (*directive, bool) {
	for {
		line, ok := c.take()
		if !ok {
			return nil, false
		}
		var hasBlock bool
		switch {
		case strings.HasPrefix(line, DirectiveBase):
		case strings.HasPrefix(line, DirectiveStart):
			hasBlock = true
		default:
			continue
		}
		_, name, _ := strings.Cut(line, "::")
		d := &directive{
			name:     strings.TrimSpace(name),
			line:     c.line(),
			options:  map[string]string{},
			hasBlock: hasBlock,
		}
		if s.mode == ModeClear {
			c.replace(DirectiveBase + " " + d.name)
		} else {
			c.replace(DirectiveStart + " " + d.name)
		}
		return d, true
	}
}

// readOptions consumes option lines and emits the first line that is not
// one. A directive marker right after the options is left for the next
// seekStart.
func (s *Scanner) readOptions(c *cursor, d *directive) {
	for {
		line, ok := c.peek()
		if !ok {
			return
		}
		if isMarker(line) {
			if s.mode == ModeInsert {
				c.emit("")
			}
			return
		}
		c.take()
		m := blockOption.FindStringSubmatchIndex(line)
		if m == nil {
			m = commentOption.FindStringSubmatchIndex(line)
		}
		if m == nil {
			return
		}
		key := line[m[2]:m[3]]
		value := strings.TrimSpace(line[m[1]:])
		d.options[normalizeKey(key)] = value
		prefix := OptionPrefix
		if s.mode == ModeClear {
			prefix = "   "
		}
		if rewritten := optionLine(prefix, key, value); strings.TrimRight(line, " ") != rewritten {
			c.replace(rewritten)
		}
	}
}

// optionLine formats an option in the canonical form for prefix. Empty
// values get no trailing space; lines that differ from this only by
// trailing spaces, as older tools wrote them, are kept as they are.
func optionLine(prefix, key, value string) string {
	if value == "" {
		return prefix + ":" + key + ":"
	}
	return prefix + ":" + key + ": " + value
}

func isMarker(line string) bool {
	return strings.HasPrefix(line, DirectiveBase) || strings.HasPrefix(line, DirectiveStart)
}

func normalizeKey(key string) string {
	return strings.ToLower(strings.ReplaceAll(strings.TrimSpace(key), "-", "_"))
}

// skipBlock drops previously inserted lines up to and including the end
// marker and the blank line insertion always writes after it. It returns
// the dropped lines before the end marker.
func skipBlock(c *cursor) ([]string, bool) {
	var block []string
	for {
		line, ok := c.next()
		if !ok {
			return nil, false
		}
		if strings.HasPrefix(line, DirectiveEnd) {
			break
		}
		block = append(block, line)
	}
	if line, ok := c.peek(); ok && line == "" {
		c.next()
	}
	return block, true
}

// insert emits the fragment for d followed by the end marker. It reports
// whether a fragment was produced. An existing block that only differs
// from the fresh fragment by generated references is kept as it is, so the
// reference pass has nothing to redo.
func (s *Scanner) insert(c *cursor, d *directive) bool {
	if s.renderer == nil {
		c.emit(DirectiveEnd, "")
		return false
	}
	opts, unknown := ParseOptions(d.options)
	if len(unknown) > 0 {
		s.logger.Debug("ignoring directive options", "name", d.name, "options", unknown)
	}
	text, err := s.renderer.Render(d.name, opts)
	if err != nil || text == "" {
		c.emit(DirectiveEnd, "")
		return false
	}
	lines := append([]string{""}, splitLines(text)...)
	if sameBlock(d.block, lines) {
		lines = d.block
	}
	c.emit(lines...)
	c.emit(DirectiveEnd, "")
	return true
}

// sameBlock reports whether old equals fresh once the references the
// link pass added to old are removed.
func sameBlock(old, fresh []string) bool {
	if len(old) != len(fresh) {
		return false
	}
	for i, line := range old {
		if existingRef.ReplaceAllString(line, "$1") != fresh[i] {
			return false
		}
	}
	return true
}
