package canopy

import "fmt"

// SceneNav is the scroll navigation a scene starts with.
type SceneNav struct {
	// Scale multiplies scroll distances. Zero means 1.
	Scale float64
	Start float64
	End   float64
}

// Descriptor names a scene and knows how to build it.
type Descriptor struct {
	ID   int
	Name string
	New  func(ctx *Context) (*Scene, error)
	Nav  SceneNav
}

// scale returns the descriptor's navigation scale, 1 when unset.
func (d Descriptor) scale() float64 {
	if d.Nav.Scale == 0 {
		return 1
	}
	return d.Nav.Scale
}

// Registry is the list of scenes an experience can switch between. Default
// names the scene used when a lookup fails.
type Registry struct {
	Default string
	List    []Descriptor
}

// Add appends d and returns the registry for chaining.
func (r *Registry) Add(d Descriptor) *Registry {
	r.List = append(r.List, d)
	return r
}

// Lookup returns the descriptor registered under name.
func (r *Registry) Lookup(name string) (Descriptor, bool) {
	for _, d := range r.List {
		if d.Name == name {
			return d, true
		}
	}
	return Descriptor{}, false
}

// Resolve returns the descriptor registered under name, falling back to the
// default one. ok is false only when neither exists.
func (r *Registry) Resolve(name string) (d Descriptor, ok bool) {
	if d, ok = r.Lookup(name); ok {
		return d, true
	}
	return r.Lookup(r.Default)
}

// Names returns the registered scene names in order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.List))
	for i, d := range r.List {
		out[i] = d.Name
	}
	return out
}

// Validate checks that the default scene exists and every descriptor has a
// factory.
func (r *Registry) Validate() error {
	if _, ok := r.Lookup(r.Default); !ok {
		return fmt.Errorf("canopy: registry default %q: %w", r.Default, ErrNoDefaultScene)
	}
	for _, d := range r.List {
		if d.New == nil {
			return fmt.Errorf("canopy: registry scene %q: %w", d.Name, ErrNoFactory)
		}
	}
	return nil
}
