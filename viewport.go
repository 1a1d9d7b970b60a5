package canopy

import "math"

// Viewport tracks the drawable area. It emits "resize" with no arguments
// whenever SetSize changes a dimension.
type Viewport struct {
	Emitter

	// Width and Height are in device-independent pixels.
	Width, Height int
	// DPR is the device pixel ratio.
	DPR float64
}

// NewViewport creates a viewport. Non-positive dimensions are raised to 1.
func NewViewport(width, height int, dpr float64) *Viewport {
	v := &Viewport{}
	v.set(width, height, dpr)
	return v
}

// Aspect returns Width / Height.
func (v *Viewport) Aspect() float64 {
	return float64(v.Width) / float64(v.Height)
}

// PixelSize returns the render-target size: dimensions scaled by DPR,
// rounded up.
func (v *Viewport) PixelSize() (int, int) {
	return int(math.Ceil(float64(v.Width) * v.DPR)), int(math.Ceil(float64(v.Height) * v.DPR))
}

// SetSize updates the dimensions and emits "resize" when anything changed.
func (v *Viewport) SetSize(width, height int, dpr float64) {
	w, h, d := v.Width, v.Height, v.DPR
	v.set(width, height, dpr)
	if v.Width != w || v.Height != h || v.DPR != d {
		v.Trigger("resize")
	}
}

func (v *Viewport) set(width, height int, dpr float64) {
	v.Width = max(width, 1)
	v.Height = max(height, 1)
	if dpr <= 0 {
		dpr = 1
	}
	v.DPR = dpr
}
