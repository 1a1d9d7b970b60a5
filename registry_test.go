package canopy

import (
	"errors"
	"slices"
	"testing"
)

func TestRegistryResolve(t *testing.T) {
	build := func(*Context) (*Scene, error) { return nil, nil }
	reg := (&Registry{Default: "home"}).
		Add(Descriptor{ID: 0, Name: "home", New: build}).
		Add(Descriptor{ID: 1, Name: "gallery", New: build, Nav: SceneNav{Scale: 2}})

	tests := []struct {
		name string
		want string
		ok   bool
	}{
		{"gallery", "gallery", true},
		{"home", "home", true},
		{"missing", "home", true},
		{"", "home", true},
	}
	for _, tt := range tests {
		d, ok := reg.Resolve(tt.name)
		if ok != tt.ok || d.Name != tt.want {
			t.Errorf("Resolve(%q) = %q, %v; want %q, %v", tt.name, d.Name, ok, tt.want, tt.ok)
		}
	}

	if got := reg.Names(); !slices.Equal(got, []string{"home", "gallery"}) {
		t.Errorf("Names() = %v", got)
	}
	if d, _ := reg.Lookup("gallery"); d.scale() != 2 {
		t.Errorf("scale = %v, want 2", d.scale())
	}
	if d, _ := reg.Lookup("home"); d.scale() != 1 {
		t.Errorf("unset scale = %v, want 1", d.scale())
	}
}

func TestRegistryResolveWithoutDefault(t *testing.T) {
	reg := &Registry{Default: "nope"}
	if _, ok := reg.Resolve("x"); ok {
		t.Error("Resolve should fail without a default")
	}
}

func TestRegistryValidate(t *testing.T) {
	build := func(*Context) (*Scene, error) { return nil, nil }
	tests := []struct {
		name string
		reg  Registry
		want error
	}{
		{"ok", Registry{Default: "a", List: []Descriptor{{Name: "a", New: build}}}, nil},
		{"no default", Registry{Default: "b", List: []Descriptor{{Name: "a", New: build}}}, ErrNoDefaultScene},
		{"no factory", Registry{Default: "a", List: []Descriptor{{Name: "a", New: build}, {Name: "c"}}}, ErrNoFactory},
	}
	for _, tt := range tests {
		err := tt.reg.Validate()
		if tt.want == nil && err != nil || tt.want != nil && !errors.Is(err, tt.want) {
			t.Errorf("%s: err = %v, want %v", tt.name, err, tt.want)
		}
	}
}
