package namespace

import (
	"fmt"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/agentflare-ai/insertdocs/internal/insertdocs"
)

// objectSpec is one entry of a namespace file.
//
//	[objects."geo.Box"]
//	kind = "class"
//	doc = """Box(w, h)
//
//	    A box."""
//	bases = ["geo.Shape"]
//	members = ["size", "grow"]
type objectSpec struct {
	Kind    string   `toml:"kind"`
	Doc     string   `toml:"doc"`
	Bases   []string `toml:"bases"`
	Members []string `toml:"members"`
	Items   []string `toml:"items"`
}

type fileSpec struct {
	Objects map[string]objectSpec `toml:"objects"`
}

// TOMLFile resolves names described in a TOML namespace file. Members are
// named relative to their owner ("geo.Box" + "grow"); bases and sequence
// items use full names.
type TOMLFile struct {
	path    string
	objects map[string]objectSpec
}

// LoadTOML reads and decodes a namespace file.
func LoadTOML(path string) (*TOMLFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	f, err := ParseTOML(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	f.path = path
	return f, nil
}

// ParseTOML decodes namespace file content.
func ParseTOML(data []byte) (*TOMLFile, error) {
	var spec fileSpec
	if err := toml.Unmarshal(data, &spec); err != nil {
		return nil, err
	}
	for name, o := range spec.Objects {
		if insertdocs.ParseKind(o.Kind) == insertdocs.KindUnknown && o.Kind != "" {
			return nil, fmt.Errorf("object %q: unknown kind %q", name, o.Kind)
		}
	}
	return &TOMLFile{objects: spec.Objects}, nil
}

// Names returns every name the file defines.
func (f *TOMLFile) Names() []string {
	names := make([]string, 0, len(f.objects))
	for name := range f.objects {
		names = append(names, name)
	}
	return names
}

func (f *TOMLFile) Lookup(name string) (*insertdocs.Object, error) {
	if _, ok := f.objects[name]; !ok {
		return nil, fmt.Errorf("%q: %w", name, insertdocs.ErrUnknownName)
	}
	return f.build(name, map[string]*insertdocs.Object{}), nil
}

// build converts the entry for name and everything it refers to. built
// breaks cycles between bases.
func (f *TOMLFile) build(name string, built map[string]*insertdocs.Object) *insertdocs.Object {
	if obj, ok := built[name]; ok {
		return obj
	}
	spec := f.objects[name]
	obj := &insertdocs.Object{
		Kind:  insertdocs.ParseKind(spec.Kind),
		Name:  shortName(name),
		Doc:   spec.Doc,
		Items: spec.Items,
	}
	built[name] = obj
	for _, base := range spec.Bases {
		if _, ok := f.objects[base]; ok {
			obj.Bases = append(obj.Bases, f.build(base, built))
			continue
		}
		obj.Bases = append(obj.Bases, &insertdocs.Object{Kind: insertdocs.KindClass, Name: shortName(base)})
	}
	for _, member := range spec.Members {
		full := name + "." + member
		if _, ok := f.objects[full]; !ok {
			continue
		}
		obj.Members = append(obj.Members, insertdocs.Member{Name: member, Object: f.build(full, built)})
	}
	return obj
}

func shortName(name string) string {
	if i := strings.LastIndex(name, "."); i >= 0 {
		return name[i+1:]
	}
	return name
}
