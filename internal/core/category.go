package core

import (
	"fmt"
	"strings"
)

// Category labels the purpose of a transaction. Valid values are defined by a Registry.
type Category string

func (c Category) String() string {
	return string(c)
}

// DefaultCategories is the category list used when no override is configured.
var DefaultCategories = []string{
	"Food",
	"Transport",
	"Rent",
	"Shopping",
	"Health",
	"Entertainment",
	"Utilities",
	"Other",
}

// Registry is the closed set of categories accepted by the application.
// It is immutable after construction and safe for concurrent use.
type Registry struct {
	ordered []Category
	members map[Category]struct{}
}

// NewRegistry builds a registry from names, preserving order.
// Blank and duplicate names are rejected.
func NewRegistry(names []string) (*Registry, error) {
	if len(names) == 0 {
		return nil, fmt.Errorf("category registry: no categories given")
	}
	r := &Registry{
		ordered: make([]Category, 0, len(names)),
		members: make(map[Category]struct{}, len(names)),
	}
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" {
			return nil, fmt.Errorf("category registry: blank category name")
		}
		c := Category(n)
		if _, dup := r.members[c]; dup {
			return nil, fmt.Errorf("category registry: duplicate category %q", n)
		}
		r.members[c] = struct{}{}
		r.ordered = append(r.ordered, c)
	}
	return r, nil
}

// DefaultRegistry returns a registry holding DefaultCategories.
func DefaultRegistry() *Registry {
	r, err := NewRegistry(DefaultCategories)
	if err != nil {
		panic(err)
	}
	return r
}

// Contains reports whether c is a member. Matching is exact.
func (r *Registry) Contains(c Category) bool {
	if r == nil {
		return false
	}
	_, ok := r.members[c]
	return ok
}

// Parse validates raw input and returns the matching category.
func (r *Registry) Parse(raw string) (Category, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", invalid("category", ErrMissingField)
	}
	c := Category(raw)
	if !r.Contains(c) {
		return "", invalid("category", fmt.Errorf("%w: %q", ErrUnknownCategory, raw))
	}
	return c, nil
}

// Names returns the members as plain strings in registry order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.ordered))
	for i, c := range r.ordered {
		out[i] = string(c)
	}
	return out
}
