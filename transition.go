package canopy

import (
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// Timeline is the completion signal of a running transition. Continuations
// registered with Then run exactly once, when the timeline settles.
type Timeline struct {
	settled bool
	then    []func()
}

// Then registers fn. If the timeline already settled, fn runs immediately.
func (tl *Timeline) Then(fn func()) *Timeline {
	if fn == nil {
		return tl
	}
	if tl.settled {
		fn()
		return tl
	}
	tl.then = append(tl.then, fn)
	return tl
}

// Settled reports whether the timeline has finished.
func (tl *Timeline) Settled() bool {
	return tl.settled
}

func (tl *Timeline) settle() {
	if tl.settled {
		return
	}
	tl.settled = true
	fns := tl.then
	tl.then = nil
	for _, fn := range fns {
		fn()
	}
}

// Transition blends the next scene's render target into its owner's over
// Duration of wall-clock time.
type Transition struct {
	Active   bool
	Progress float64
	Duration time.Duration
	Ease     ease.TweenFunc
	Next     *Scene
	// Shader blends Images[0] (current) with Images[1] (next). Nil selects
	// the built-in wipe, compiled on first use.
	Shader *Shader

	tween    *gween.Tween
	timeline *Timeline
}

// NewTransition creates an idle transition.
func NewTransition(duration time.Duration) *Transition {
	return &Transition{Duration: duration, Ease: ease.InOutCubic}
}

// Start resets progress and begins animating toward next. A transition
// already running is settled first so its continuations are not lost.
func (t *Transition) Start(next *Scene) *Timeline {
	if t.timeline != nil {
		t.timeline.settle()
	}
	easeFn := t.Ease
	if easeFn == nil {
		easeFn = ease.Linear
	}
	t.Active = true
	t.Progress = 0
	t.Next = next
	t.tween = gween.New(0, 1, float32(t.Duration.Seconds()), easeFn)
	t.timeline = &Timeline{}
	return t.timeline
}

// Update advances the transition by dt seconds and settles its timeline on
// completion.
func (t *Transition) Update(dt float64) {
	if !t.Active || t.tween == nil {
		return
	}
	v, done := t.tween.Update(float32(dt))
	t.Progress = float64(v)
	if !done {
		return
	}
	t.Progress = 1
	t.Active = false
	t.tween = nil
	tl := t.timeline
	t.timeline = nil
	tl.settle()
}

// Resize forwards the target size to the shader.
func (t *Transition) Resize(width, height int) {
	if t.Shader != nil {
		t.Shader.Resize(width, height)
	}
}

// Render blends the next scene's target into current according to
// Progress. Skipped while idle or when the next scene has no target yet.
func (t *Transition) Render(current *ebiten.Image, pool *renderTexturePool) error {
	if !t.Active || t.Next == nil || current == nil {
		return nil
	}
	next := t.Next.Target()
	if next == nil {
		return nil
	}
	if t.Shader == nil {
		s, err := NewShader(TransitionSource)
		if err != nil {
			return err
		}
		t.Shader = s
	}

	b := current.Bounds()
	if nb := next.Bounds(); nb.Dx() != b.Dx() || nb.Dy() != b.Dy() {
		return nil
	}
	t.Shader.Resize(b.Dx(), b.Dy())
	t.Shader.Uniforms["Progress"] = float32(t.Progress)
	t.Shader.Images[1] = next
	t.Shader.applyInPlace(current, pool)
	t.Shader.Images[1] = nil
	return nil
}
