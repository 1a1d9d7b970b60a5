package canopy

import (
	"errors"
	"log/slog"
	"slices"
	"strconv"
	"testing"
	"time"
)

func TestNewItemNilContext(t *testing.T) {
	it, err := NewItem(nil, "x")
	if it != nil {
		t.Error("item should be nil")
	}
	if !errors.Is(err, ErrNilContext) {
		t.Errorf("err = %v, want ErrNilContext", err)
	}
}

func TestNewItemDefaults(t *testing.T) {
	ctx, _ := newTestContext(t)
	ctx.Config.HoldDuration = 3 * time.Second
	it := mustItem(t, ctx, "crate")

	if it.Object == nil || it.Object.Mesh != nil {
		t.Error("Object should default to an empty group")
	}
	if it.HoldDuration != 3*time.Second {
		t.Errorf("HoldDuration = %v, want 3s", it.HoldDuration)
	}
	if it.Scene() != nil || it.Parent() != nil {
		t.Error("unloaded item should have no scene or parent")
	}
	if it.Context() != ctx {
		t.Error("Context() should return the construction context")
	}
	if got := it.String(); got != "crate#"+strconv.FormatUint(uint64(it.ID), 10) {
		t.Errorf("String() = %q", got)
	}
}

func TestItemOnRejectsUnknownEvents(t *testing.T) {
	rec := &logRecorder{}
	ctx, _ := newTestContext(t, WithLogger(rec.logger()))
	it := mustItem(t, ctx, "x")

	it.On("clik", func(...any) any { return nil })
	if it.Has("clik") {
		t.Error("unknown event should not be bound")
	}
	if n := rec.count(slog.LevelWarn, "unknown item event"); n != 1 {
		t.Errorf("warnings = %d, want 1", n)
	}

	it.On("click.menu mouseenter", func(...any) any { return nil })
	if !it.Has(EventClick) || !it.Has(EventMouseEnter) {
		t.Error("valid events should be bound")
	}
	it.Off(".menu")
	if it.Has(EventClick) {
		t.Error("namespaced binding should be removable by namespace")
	}
}

func TestItemTypedHelpers(t *testing.T) {
	ctx, _ := newTestContext(t)
	it := mustItem(t, ctx, "x")

	var held []bool
	var dts []float64
	var clicked PointerEvent
	it.OnHold(func(ok bool) { held = append(held, ok) }).
		OnUpdate(func(dt float64) { dts = append(dts, dt) }).
		OnClick(func(ev PointerEvent) { clicked = ev })

	it.Trigger(EventHold, true)
	it.Trigger(EventHold, false)
	it.Trigger(EventUpdate, 0.5)
	it.Trigger(EventClick, PointerEvent{X: 3, Y: 4})

	if !slices.Equal(held, []bool{true, false}) {
		t.Errorf("hold = %v", held)
	}
	if !slices.Equal(dts, []float64{0.5}) {
		t.Errorf("update = %v", dts)
	}
	if clicked.X != 3 || clicked.Y != 4 {
		t.Errorf("click = %+v", clicked)
	}
}

func TestItemDisabledInherited(t *testing.T) {
	ctx, _ := newTestContext(t)
	parent := mustItem(t, ctx, "parent")
	child := mustItem(t, ctx, "child")
	parent.DisabledEvents = []string{EventClick}
	child.IgnoredEvents = []string{EventHold}
	child.parent = parent

	if !child.disabled(EventClick) {
		t.Error("click disabled on parent should be disabled on child")
	}
	if child.disabled(EventHold) {
		t.Error("hold is not disabled")
	}
	if !child.ignores(EventHold) || parent.ignores(EventHold) {
		t.Error("ignored events apply to the item only")
	}
}

func TestItemComponentLookup(t *testing.T) {
	ctx, _ := newTestContext(t)
	it := mustItem(t, ctx, "x")
	a := mustItem(t, ctx, "a")
	b := mustItem(t, ctx, "b")
	it.AddComponent("k", a).AddComponent("k", b)

	if it.Component("k") != a {
		t.Error("Component should return the first match")
	}
	if it.Component("missing") != nil {
		t.Error("missing key should return nil")
	}
}

func TestItemBindRefusesSecondScene(t *testing.T) {
	ctx, _ := newTestContext(t)
	it := mustItem(t, ctx, "x")
	s1 := mustScene(t, ctx, "one")
	s2 := mustScene(t, ctx, "two")

	if !it.bind(s1, nil) {
		t.Fatal("first bind should succeed")
	}
	if !it.bind(s1, nil) {
		t.Error("rebinding to the same scene should succeed")
	}
	if it.bind(s2, nil) {
		t.Error("binding to another scene should be refused")
	}
	if it.Scene() != s1 {
		t.Error("scene should be unchanged")
	}
}

func TestItemDisposeOnce(t *testing.T) {
	ctx, _ := newTestContext(t)
	it := mustItem(t, ctx, "x")
	parent := NewGroup("root")
	parent.AddChild(it.Object)

	calls := 0
	it.OnDispose(func() { calls++ })
	it.dispose(nil)
	it.dispose(nil)

	if calls != 1 {
		t.Errorf("dispose hooks ran %d times, want 1", calls)
	}
	if !it.IsDisposed() {
		t.Error("IsDisposed should be true")
	}
	if it.Object.Parent != nil || parent.NumChildren() != 0 {
		t.Error("object should be detached")
	}
	if it.Has(EventDispose) {
		t.Error("listeners should be removed")
	}
}

func TestItemDebugFolder(t *testing.T) {
	ctx, _ := newTestContext(t)
	it := mustItem(t, ctx, "x")
	if it.DebugFolder() != nil {
		t.Error("no debug panel means no folder")
	}
	it.AddDebugObject()

	overlay := NewOverlay()
	ctx.Debug = overlay
	f := it.DebugFolder()
	if f == nil || f.Title() != "Item - x" {
		t.Fatalf("folder = %v", f)
	}
	if it.DebugFolder() != f {
		t.Error("folder should be created once")
	}
	it.AddDebugObject()

	it.dispose(nil)
	if len(overlay.Folders()) != 0 {
		t.Errorf("folders = %v, want none after dispose", overlay.Folders())
	}
}

func TestArgHelper(t *testing.T) {
	args := []any{1.5, "s"}
	if arg[float64](args, 0) != 1.5 {
		t.Error("float arg")
	}
	if arg[float64](args, 1) != 0 {
		t.Error("mismatched type should return zero")
	}
	if arg[string](args, 5) != "" {
		t.Error("missing arg should return zero")
	}
}
