package canopy

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// holdSession is the single press-and-wait gesture a scene tracks.
// progress runs 0 to 1 while item is held, then back to 0 while
// recovering.
type holdSession struct {
	item       *Item
	tween      *gween.Tween
	recovering bool
	progress   float64
}

// startHold begins a session on it. Ignored while another session runs or
// progress has not fully recovered.
func (s *Scene) startHold(it *Item) {
	if s.hold.item != nil || s.hold.progress > 0 {
		return
	}
	s.hold = holdSession{
		item:  it,
		tween: gween.New(0, 1, float32(it.HoldDuration.Seconds()), ease.InOutQuad),
	}
}

// releaseHold ends a running session early: the item receives hold(false)
// and progress eases back to zero over Config.HoldRecovery.
func (s *Scene) releaseHold() {
	it := s.hold.item
	if it == nil {
		return
	}
	s.hold.item = nil
	s.hold.tween = nil
	it.Trigger(EventHold, false)

	if s.hold.progress <= 0 {
		s.setHoldProgress(0)
		return
	}
	s.hold.recovering = true
	s.hold.tween = gween.New(float32(s.hold.progress), 0,
		float32(s.ctx.Config.HoldRecovery.Seconds()), ease.InOutQuad)
}

// updateHold advances the session by dt seconds of wall time.
func (s *Scene) updateHold(dt float64) {
	if s.hold.tween == nil {
		return
	}
	v, done := s.hold.tween.Update(float32(dt))
	s.setHoldProgress(float64(v))
	if !done {
		return
	}

	it := s.hold.item
	recovering := s.hold.recovering
	s.hold = holdSession{}
	s.setHoldProgress(0)
	if it != nil && !recovering {
		it.Trigger(EventHold, true)
	}
}

func (s *Scene) setHoldProgress(p float64) {
	s.hold.progress = p
	if s.ctx.Sink != nil {
		s.ctx.Sink.SetProgress(p)
	}
}
