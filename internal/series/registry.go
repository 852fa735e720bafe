package series

import (
	"fmt"
	"sort"

	"energy-dataset/internal/validate"
)

// Registry is a named set of collections. Validation cases reference their
// target collection by name and are resolved through a Registry.
type Registry struct {
	byName map[string]*Collection
	order  []string
}

func NewRegistry() *Registry {
	return &Registry{byName: make(map[string]*Collection)}
}

// Register adds c under its current name.
func (r *Registry) Register(c *Collection) error {
	if c == nil {
		return fmt.Errorf("series: nil collection")
	}
	if _, exists := r.byName[c.Name()]; exists {
		return fmt.Errorf("%w: %q", ErrDuplicateCollection, c.Name())
	}
	r.byName[c.Name()] = c
	r.order = append(r.order, c.Name())
	return nil
}

// Collection resolves name.
func (r *Registry) Collection(name string) (*Collection, error) {
	c, ok := r.byName[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCollection, name)
	}
	return c, nil
}

// Source implements validate.Resolver.
func (r *Registry) Source(name string) (validate.Source, error) {
	c, err := r.Collection(name)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// Collections returns the collections in registration order.
func (r *Registry) Collections() []*Collection {
	out := make([]*Collection, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.byName[name])
	}
	return out
}

// Names returns the registered names sorted alphabetically.
func (r *Registry) Names() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	sort.Strings(out)
	return out
}
