package canopy

import "image/color"

// Color represents an RGBA color with components in [0, 1]. Not premultiplied.
// Premultiplication occurs when the color is handed to ebiten.
type Color struct {
	R, G, B, A float64
}

// ColorWhite is the default mesh tint.
var ColorWhite = Color{1, 1, 1, 1}

// toRGBA converts c to the premultiplied color.RGBA that image.Fill takes.
func (c Color) toRGBA() color.RGBA {
	a := clamp01(c.A)
	return color.RGBA{
		R: uint8(clamp01(c.R) * a * 255),
		G: uint8(clamp01(c.G) * a * 255),
		B: uint8(clamp01(c.B) * a * 255),
		A: uint8(a * 255),
	}
}

// vertexColor returns the premultiplied float components used by
// ebiten.Vertex.
func (c Color) vertexColor() (r, g, b, a float32) {
	a64 := clamp01(c.A)
	return float32(clamp01(c.R) * a64), float32(clamp01(c.G) * a64), float32(clamp01(c.B) * a64), float32(a64)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// PointerButton identifies a pointer button.
type PointerButton uint8

const (
	ButtonLeft   PointerButton = iota // primary (left) mouse button or touch
	ButtonRight                       // secondary (right) mouse button
	ButtonMiddle                      // middle mouse button
)
