package canopy

import (
	"log/slog"
	"slices"
	"testing"
)

func TestArenaRename(t *testing.T) {
	tests := []struct {
		name string
		keys []string
		want []string
		warn int
	}{
		{"unique", []string{"a", "b"}, []string{"a", "b"}, 0},
		{"duplicate", []string{"a", "a"}, []string{"a", "a_1"}, 1},
		{"triple", []string{"a", "a", "a"}, []string{"a", "a_1", "a_2"}, 2},
		{"substring counts", []string{"box", "boxes", "box"}, []string{"box", "boxes", "box_2"}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &logRecorder{}
			a := newArena[int]()
			for i, k := range tt.keys {
				a.add(k, i, 1, "component", rec.logger())
			}
			if got := a.keys(); !slices.Equal(got, tt.want) {
				t.Errorf("keys = %v, want %v", got, tt.want)
			}
			if n := rec.count(slog.LevelWarn, "already exists"); n != tt.warn {
				t.Errorf("warnings = %d, want %d", n, tt.warn)
			}
		})
	}
}

func TestArenaRenameCollisionFlagged(t *testing.T) {
	rec := &logRecorder{}
	a := newArena[string]()
	a.add("a", "first", 1, "component", rec.logger())
	a.add("a_2", "explicit", 1, "component", rec.logger())
	got := a.add("a", "second", 1, "component", rec.logger())

	// "a" and "a_2" both contain "a", so the rename lands on a_2.
	if got != "a_2" {
		t.Fatalf("renamed = %q, want a_2", got)
	}
	if rec.count(slog.LevelWarn, "collides") != 1 {
		t.Error("collision should be flagged")
	}
	if v, _ := a.get("a_2"); v != "second" {
		t.Errorf("get(a_2) = %q, want the newer entry", v)
	}
	if got := a.values(); !slices.Equal(got, []string{"first", "explicit", "second"}) {
		t.Errorf("values = %v, both colliding entries should stay", got)
	}
}

func TestArenaGetAndValues(t *testing.T) {
	a := newArena[string]()
	a.add("x", "one", 1, "scene", discardLogger())
	a.add("y", "two", 2, "scene", discardLogger())

	if v, ok := a.get("y"); !ok || v != "two" {
		t.Errorf("get(y) = %q, %v", v, ok)
	}
	if _, ok := a.get("z"); ok {
		t.Error("get(z) should miss")
	}
	if got := a.values(); !slices.Equal(got, []string{"one", "two"}) {
		t.Errorf("values = %v", got)
	}
}
