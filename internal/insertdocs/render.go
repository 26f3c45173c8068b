package insertdocs

import (
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strconv"
	"strings"
)

// Options selects what a fragment includes beyond the object itself.
type Options struct {
	// Members enables member sections for classes and modules.
	Members bool
	// Only limits member sections to these names when non-empty.
	Only []string
	// InheritedMembers also collects class members from the bases.
	InheritedMembers bool
}

// ParseOptions reads directive options. Keys are expected normalized; an
// empty value means true.
func ParseOptions(raw map[string]string) (Options, []string) {
	var (
		opts    Options
		unknown []string
	)
	for key, value := range raw {
		switch key {
		case "members":
			opts.Members = true
			for _, name := range strings.Split(value, ",") {
				if name = strings.TrimSpace(name); name != "" {
					opts.Only = append(opts.Only, name)
				}
			}
		case "inherited_members":
			opts.InheritedMembers = flagValue(value)
		default:
			unknown = append(unknown, key)
		}
	}
	sort.Strings(unknown)
	return opts, unknown
}

func flagValue(value string) bool {
	if value == "" {
		return true
	}
	b, err := strconv.ParseBool(value)
	return err != nil || b
}

func (o Options) selects(name string) bool {
	if len(o.Only) == 0 {
		return true
	}
	for _, n := range o.Only {
		if n == name {
			return true
		}
	}
	return false
}

// Renderer produces documentation fragments for names in a namespace.
type Renderer struct {
	ns     Namespace
	logger *slog.Logger
}

// NewRenderer returns a renderer resolving names in ns. A nil logger
// discards output.
func NewRenderer(ns Namespace, logger *slog.Logger) *Renderer {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Renderer{ns: ns, logger: logger}
}

// Render returns the fragment for name. Resolution and kind failures are
// logged and returned; the fragment is empty in that case.
func (r *Renderer) Render(name string, opts Options) (string, error) {
	return r.render(name, opts, map[string]bool{})
}

// render resolves and renders name. active holds the sequences being
// rendered further up, so a sequence that reaches itself again ends there.
func (r *Renderer) render(name string, opts Options, active map[string]bool) (string, error) {
	if active[name] {
		r.logger.Warn("sequence refers to itself", "name", name)
		return "", fmt.Errorf("%s: %w", name, ErrCycle)
	}
	obj, err := r.ns.Lookup(name)
	if err != nil {
		r.logger.Warn("do not know object", "name", name, "err", err)
		return "", fmt.Errorf("%s: %w", name, err)
	}
	return r.renderObject(obj, name, opts, active)
}

func (r *Renderer) renderObject(obj *Object, name string, opts Options, active map[string]bool) (string, error) {
	switch obj.Kind {
	case KindString:
		return Format(obj.Doc), nil
	case KindSequence:
		active[name] = true
		defer delete(active, name)
		return r.renderSequence(obj, opts, active), nil
	case KindClass:
		return r.renderClass(obj, name, opts), nil
	case KindFunction:
		return renderFunction(obj, name, false), nil
	case KindMethod:
		return renderFunction(obj, name, true), nil
	case KindProperty:
		return renderProperty(obj, name), nil
	case KindModule:
		return r.renderModule(obj, name, opts), nil
	default:
		r.logger.Warn("cannot determine how to generate docs", "name", name, "kind", obj.Kind)
		return "", fmt.Errorf("%s (%s): %w", name, obj.Kind, ErrUnrenderable)
	}
}

func (r *Renderer) renderSequence(obj *Object, opts Options, active map[string]bool) string {
	parts := make([]string, 0, len(obj.Items))
	for _, item := range obj.Items {
		text, err := r.render(item, opts, active)
		if err != nil || text == "" {
			continue
		}
		parts = append(parts, text)
	}
	return strings.Join(parts, "\n\n")
}

func renderFunction(obj *Object, fullName string, method bool) string {
	header, body := Split(obj, fullName)
	directive := ".. py:function:: "
	if method {
		directive = ".. py:method:: "
	}
	return Label(fullName) + "\n\n" + directive + header + "\n\n" + Indent(body, 2)
}

func renderProperty(obj *Object, fullName string) string {
	header, body := Split(obj, fullName)
	return Label(fullName) + "\n\n" + ".. py:attribute:: " + header + "\n\n" + Indent(body, 2)
}

func (r *Renderer) renderClass(obj *Object, fullName string, opts Options) string {
	var b strings.Builder
	header, body := Split(obj, fullName)
	b.WriteString(Label(fullName) + "\n\n")
	b.WriteString(".. py:class:: " + header + "\n\n")
	if len(obj.Bases) > 0 {
		names := make([]string, len(obj.Bases))
		for i, base := range obj.Bases {
			names[i] = base.Name
		}
		b.WriteString("  *Inherits from " + strings.Join(names, ", ") + "*\n\n")
	}
	b.WriteString(Indent(body, 2) + "\n\n")
	if !opts.Members {
		return b.String()
	}

	properties := map[string]string{}
	methods := map[string]string{}
	for _, m := range r.documentedMembers(classMembers(obj, opts.InheritedMembers), fullName, opts) {
		switch m.Object.Kind {
		case KindProperty:
			properties[m.Name] = renderProperty(m.Object, fullName+"."+m.Name)
		case KindMethod, KindFunction:
			methods[m.Name] = renderFunction(m.Object, fullName+"."+m.Name, true)
		}
	}
	writeSection(&b, "  *PROPERTIES*\n\n", properties, 2)
	writeSection(&b, "  *METHODS*\n\n", methods, 2)
	b.WriteString("\n\n")
	return b.String()
}

func (r *Renderer) renderModule(obj *Object, fullName string, opts Options) string {
	var b strings.Builder
	header, body := Split(obj, fullName)
	b.WriteString(Label(fullName) + "\n\n")
	b.WriteString(".. py:module:: " + header + "\n\n")
	b.WriteString(body + "\n\n")
	if !opts.Members {
		return b.String()
	}

	functions := map[string]string{}
	classes := map[string]string{}
	for _, m := range r.documentedMembers(obj.Members, fullName, opts) {
		switch m.Object.Kind {
		case KindFunction:
			functions[m.Name] = renderFunction(m.Object, fullName+"."+m.Name, false)
		case KindClass:
			classes[m.Name] = r.renderClass(m.Object, fullName+"."+m.Name, Options{})
		}
	}
	writeSection(&b, "Functions\n----------\n\n", functions, 0)
	writeSection(&b, "Classes\n----------\n\n", classes, 0)
	b.WriteString("\n\n")
	return b.String()
}

// documentedMembers filters members by the selection, hides private names
// and skips members without a docstring.
func (r *Renderer) documentedMembers(members []Member, fullName string, opts Options) []Member {
	var kept []Member
	for _, m := range members {
		if strings.HasPrefix(m.Name, "_") || !opts.selects(m.Name) || m.Object == nil {
			continue
		}
		if strings.TrimSpace(m.Object.Doc) == "" {
			r.logger.Info("skipping member: no docstring", "name", fullName+"."+m.Name)
			continue
		}
		kept = append(kept, m)
	}
	return kept
}

// classMembers returns the members of obj, followed by those of its bases
// when inherited is set. A name defined closer to obj wins.
func classMembers(obj *Object, inherited bool) []Member {
	var (
		members []Member
		seen    = map[string]bool{}
		visited = map[*Object]bool{}
	)
	var collect func(*Object)
	collect = func(o *Object) {
		if o == nil || visited[o] {
			return
		}
		visited[o] = true
		for _, m := range o.Members {
			if seen[m.Name] {
				continue
			}
			seen[m.Name] = true
			members = append(members, m)
		}
		if !inherited {
			return
		}
		for _, base := range o.Bases {
			collect(base)
		}
	}
	collect(obj)
	return members
}

func writeSection(b *strings.Builder, title string, entries map[string]string, indent int) {
	if len(entries) == 0 {
		return
	}
	keys := make([]string, 0, len(entries))
	for k := range entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	b.WriteString(title)
	for _, k := range keys {
		text := entries[k]
		if indent > 0 {
			text = Indent(text, indent)
		}
		b.WriteString(text + "\n\n")
	}
}
