package canopy

import (
	"testing"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
)

func TestTimelineThen(t *testing.T) {
	tl := &Timeline{}
	calls := 0
	tl.Then(func() { calls++ }).Then(nil)
	if calls != 0 || tl.Settled() {
		t.Fatal("continuations must wait for settle")
	}

	tl.settle()
	tl.settle()
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}

	tl.Then(func() { calls++ })
	if calls != 2 {
		t.Error("Then on a settled timeline should run immediately")
	}
}

func TestTransitionProgress(t *testing.T) {
	tr := NewTransition(time.Second)
	if tr.Active {
		t.Fatal("new transition should be idle")
	}
	tr.Update(0.5)
	if tr.Progress != 0 {
		t.Error("idle transition should not advance")
	}

	done := 0
	tl := tr.Start(nil).Then(func() { done++ })
	if !tr.Active || tr.Progress != 0 {
		t.Fatal("Start should activate and reset progress")
	}

	tr.Update(0.5)
	if tr.Progress <= 0 || tr.Progress >= 1 {
		t.Errorf("progress = %v, want in (0, 1)", tr.Progress)
	}
	if tl.Settled() {
		t.Fatal("settled early")
	}

	tr.Update(0.6)
	if tr.Active || tr.Progress != 1 {
		t.Errorf("after completion: active %v, progress %v", tr.Active, tr.Progress)
	}
	if done != 1 || !tl.Settled() {
		t.Errorf("done = %d, settled = %v", done, tl.Settled())
	}

	tr.Update(1)
	if done != 1 {
		t.Error("completion must run once")
	}
}

func TestTransitionRestartSettlesPrevious(t *testing.T) {
	tr := NewTransition(time.Second)
	first := 0
	tr.Start(nil).Then(func() { first++ })
	tr.Update(0.2)

	second := tr.Start(nil)
	if first != 1 {
		t.Errorf("previous timeline settled %d times, want 1", first)
	}
	if second.Settled() || tr.Progress != 0 {
		t.Error("new timeline should start fresh")
	}
}

func TestTransitionNilEaseDefaultsToLinear(t *testing.T) {
	tr := NewTransition(time.Second)
	tr.Ease = nil
	tr.Start(nil)
	tr.Update(0.25)
	if !approxEqual(tr.Progress, 0.25, 1e-6) {
		t.Errorf("progress = %v, want 0.25", tr.Progress)
	}
}

func TestTransitionRenderSkips(t *testing.T) {
	ctx, _ := newTestContext(t)
	current := ebiten.NewImage(4, 4)
	var pool renderTexturePool

	tr := NewTransition(time.Second)
	if err := tr.Render(current, &pool); err != nil {
		t.Errorf("idle render: %v", err)
	}

	next := mustScene(t, ctx, "next")
	tr.Start(next)
	if err := tr.Render(current, &pool); err != nil {
		t.Errorf("render without next target: %v", err)
	}
	if tr.Shader != nil {
		t.Error("shader should not compile while next has no target")
	}
}
