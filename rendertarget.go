package canopy

import (
	"image"

	"github.com/hajimehoshi/ebiten/v2"
)

// --- Render texture pool ---

// renderTexturePool manages reusable offscreen ebiten.Images keyed by exact
// dimensions. Shaders sample source images pixel for pixel, so images are
// never rounded up. After warmup, Acquire/Release are zero-alloc.
type renderTexturePool struct {
	buckets map[uint64][]*ebiten.Image
}

// poolKey packs width and height into a single uint64.
func poolKey(w, h int) uint64 {
	return uint64(w)<<32 | uint64(h)
}

// Acquire returns a cleared offscreen image of exactly (w, h) pixels.
func (p *renderTexturePool) Acquire(w, h int) *ebiten.Image {
	w, h = max(w, 1), max(h, 1)
	key := poolKey(w, h)

	if p.buckets != nil {
		if stack := p.buckets[key]; len(stack) > 0 {
			img := stack[len(stack)-1]
			p.buckets[key] = stack[:len(stack)-1]
			img.Clear()
			return img
		}
	}

	return ebiten.NewImageWithOptions(
		image.Rect(0, 0, w, h),
		&ebiten.NewImageOptions{Unmanaged: true},
	)
}

// Release returns an image to the pool for reuse. The image is cleared on
// next Acquire, not here.
func (p *renderTexturePool) Release(img *ebiten.Image) {
	if img == nil {
		return
	}
	b := img.Bounds()
	key := poolKey(b.Dx(), b.Dy())

	if p.buckets == nil {
		p.buckets = make(map[uint64][]*ebiten.Image)
	}
	p.buckets[key] = append(p.buckets[key], img)
}

// Len returns the number of idle pooled images.
func (p *renderTexturePool) Len() int {
	n := 0
	for _, stack := range p.buckets {
		n += len(stack)
	}
	return n
}

// Dispose deallocates every pooled image.
func (p *renderTexturePool) Dispose() {
	for key, stack := range p.buckets {
		for _, img := range stack {
			img.Deallocate()
		}
		delete(p.buckets, key)
	}
}

// --- Scene render targets ---

// newRenderTarget allocates a scene's offscreen target for the viewport's
// pixel size.
func newRenderTarget(v *Viewport) *ebiten.Image {
	w, h := v.PixelSize()
	return ebiten.NewImage(w, h)
}
