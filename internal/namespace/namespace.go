// Package namespace provides the name resolvers the insertdocs core renders
// from: plain maps, TOML description files, Go source packages, and the
// combinators that stack and cache them.
package namespace

import (
	"errors"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/agentflare-ai/insertdocs/internal/insertdocs"
)

// Map resolves names from a fixed table.
type Map map[string]*insertdocs.Object

func (m Map) Lookup(name string) (*insertdocs.Object, error) {
	if obj, ok := m[name]; ok && obj != nil {
		return obj, nil
	}
	return nil, fmt.Errorf("%q: %w", name, insertdocs.ErrUnknownName)
}

// Chain asks each namespace in turn. The first one that knows a name wins.
type Chain []insertdocs.Namespace

func (c Chain) Lookup(name string) (*insertdocs.Object, error) {
	for _, ns := range c {
		obj, err := ns.Lookup(name)
		if err == nil {
			return obj, nil
		}
		if !errors.Is(err, insertdocs.ErrUnknownName) {
			return nil, err
		}
	}
	return nil, fmt.Errorf("%q: %w", name, insertdocs.ErrUnknownName)
}

// Cache remembers successful lookups of another namespace. Failures are
// not cached.
type Cache struct {
	ns      insertdocs.Namespace
	objects *lru.Cache[string, *insertdocs.Object]
}

// Cached wraps ns with an LRU of the given size.
func Cached(ns insertdocs.Namespace, size int) (*Cache, error) {
	if size <= 0 {
		size = 256
	}
	objects, err := lru.New[string, *insertdocs.Object](size)
	if err != nil {
		return nil, err
	}
	return &Cache{ns: ns, objects: objects}, nil
}

func (c *Cache) Lookup(name string) (*insertdocs.Object, error) {
	if obj, ok := c.objects.Get(name); ok {
		return obj, nil
	}
	obj, err := c.ns.Lookup(name)
	if err != nil {
		return nil, err
	}
	c.objects.Add(name, obj)
	return obj, nil
}

// Len reports how many objects are cached.
func (c *Cache) Len() int {
	return c.objects.Len()
}
