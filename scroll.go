package canopy

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"
)

// ScrollEvent is the payload of "scroll".
type ScrollEvent struct {
	Delta   float64
	Current float64
	Target  float64
}

// ScrollManager smooths wheel input into a clamped scroll value. Wheel
// deltas move Target; every Update eases Current toward it and emits
// "scroll" when Current changes.
type ScrollManager struct {
	Emitter

	// Min and Max clamp Target.
	Min, Max float64
	// Speed is the per-tick lerp factor for Current and Delta.
	Speed float64
	// Factor scales wheel deltas into Target units (percent).
	Factor float64
	// Decimal floors Current to 1/Decimal steps.
	Decimal float64

	Delta   float64
	Current float64
	Target  float64

	disabled bool
}

// wheelScale converts ebiten wheel ticks to browser-like pixel deltas.
const wheelScale = 100

// NewScrollManager creates a scroll manager tuned by cfg.
func NewScrollManager(cfg Config) *ScrollManager {
	return &ScrollManager{
		Min:     cfg.ScrollMin,
		Max:     cfg.ScrollMax,
		Speed:   cfg.ScrollSpeed,
		Factor:  cfg.ScrollFactor,
		Decimal: cfg.ScrollDecimal,
	}
}

// Disabled reports whether input and easing are suspended.
func (s *ScrollManager) Disabled() bool {
	return s.disabled
}

// SetDisabled suspends or resumes input and easing.
func (s *ScrollManager) SetDisabled(disabled bool) {
	s.disabled = disabled
}

// To sets Target to v, and Current too when instant. Always emits "scroll".
func (s *ScrollManager) To(v float64, instant bool) {
	s.Target = v
	if instant {
		s.Current = v
	}
	s.emit()
}

// Update reads the wheel and eases Current toward Target.
func (s *ScrollManager) Update() {
	if s.disabled {
		return
	}
	if _, dy := ebiten.Wheel(); dy != 0 {
		s.Scroll(-dy * wheelScale)
	}
	s.step()
}

// Scroll applies a raw wheel delta as if it came from the device. Larger
// magnitudes replace a decaying delta; smaller ones keep it.
func (s *ScrollManager) Scroll(delta float64) {
	if s.disabled {
		return
	}
	if math.Abs(delta) > math.Abs(s.Delta) {
		s.Delta = delta
	}
	s.Target += s.Delta * (s.Factor / 100)
	if s.Max > s.Min {
		s.Target = math.Max(s.Min, math.Min(s.Target, s.Max))
	}
	s.emit()
}

// step advances Current one tick.
func (s *ScrollManager) step() {
	prev := s.Current
	current := lerp(s.Current, s.Target, s.Speed)
	if s.Decimal > 0 {
		current = math.Floor(current*s.Decimal) / s.Decimal
	}
	s.Current = current

	if s.Delta != 0 {
		s.Delta = lerp(s.Delta, 0, s.Speed)
	}
	if s.Current != prev {
		s.emit()
	}
}

func (s *ScrollManager) emit() {
	s.Trigger("scroll", ScrollEvent{Delta: s.Delta, Current: s.Current, Target: s.Target})
}

func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}
