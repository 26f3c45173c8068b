package insertdocs

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
)

type testNamespace map[string]*Object

func (ns testNamespace) Lookup(name string) (*Object, error) {
	obj, ok := ns[name]
	if !ok {
		return nil, fmt.Errorf("lookup %q: %w", name, ErrUnknownName)
	}
	return obj, nil
}

func geoNamespace() testNamespace {
	area := &Object{Kind: KindMethod, Name: "area", Doc: "area()\n\n    Area of the shape."}
	shape := &Object{
		Kind:    KindClass,
		Name:    "Shape",
		Doc:     "Shape()\n\n    Base of all shapes.",
		Members: []Member{{Name: "area", Object: area}},
	}
	box := &Object{
		Kind:  KindClass,
		Name:  "Box",
		Doc:   "Box(w, h)\n\n    A box.",
		Bases: []*Object{shape},
		Members: []Member{
			{Name: "size", Object: &Object{Kind: KindProperty, Name: "size", Doc: "size int\nThe size."}},
			{Name: "grow", Object: &Object{Kind: KindMethod, Name: "grow", Doc: "grow(n)\n\n    Grow it by n."}},
			{Name: "_hidden", Object: &Object{Kind: KindMethod, Name: "_hidden", Doc: "Private."}},
			{Name: "bare", Object: &Object{Kind: KindMethod, Name: "bare"}},
		},
	}
	helper := &Object{Kind: KindFunction, Name: "helper", Doc: "helper(x)\n\n    Helps with x."}
	geo := &Object{
		Kind: KindModule,
		Name: "geo",
		Doc:  "Geometry helpers.",
		Members: []Member{
			{Name: "helper", Object: helper},
			{Name: "Box", Object: box},
			{Name: "undocumented", Object: &Object{Kind: KindFunction, Name: "undocumented"}},
		},
	}
	return testNamespace{
		"geo":        geo,
		"geo.Box":    box,
		"geo.Shape":  shape,
		"geo.helper": helper,
		"geo.note":   {Kind: KindString, Doc: "A free-form note."},
		"geo.all":    {Kind: KindSequence, Items: []string{"geo.helper", "missing", "geo.note"}},
		"geo.weird":  {Kind: KindUnknown, Name: "weird"},
		"mymodule.myfunc": {
			Kind: KindFunction,
			Name: "myfunc",
			Doc:  "myfunc()\n\n    Does a thing.",
		},
	}
}

// memStore keeps documents in a map keyed by path.
type memStore struct {
	files  map[string]string
	writes int
}

func newMemStore(files map[string]string) *memStore {
	return &memStore{files: files}
}

func (s *memStore) List(dir, ext string) ([]string, error) {
	var names []string
	for path := range s.files {
		if filepath.Dir(path) == dir && strings.HasSuffix(path, ext) {
			names = append(names, filepath.Base(path))
		}
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("no documents in %s", dir)
	}
	sort.Strings(names)
	return names, nil
}

func (s *memStore) Read(path string) (string, error) {
	text, ok := s.files[path]
	if !ok {
		return "", fmt.Errorf("read %s: not found", path)
	}
	return text, nil
}

func (s *memStore) Write(path, text string) error {
	s.files[path] = text
	s.writes++
	return nil
}
