package canopy

import "testing"

func TestPoolAcquireExactSize(t *testing.T) {
	var pool renderTexturePool
	img := pool.Acquire(100, 50)
	b := img.Bounds()
	if b.Dx() != 100 || b.Dy() != 50 {
		t.Errorf("size = %dx%d, want 100x50", b.Dx(), b.Dy())
	}

	pool.Release(img)
	if pool.Len() != 1 {
		t.Fatalf("Len = %d, want 1", pool.Len())
	}
	if again := pool.Acquire(100, 50); again != img {
		t.Error("same size should reuse the pooled image")
	}
	if pool.Len() != 0 {
		t.Error("acquired image should leave the pool")
	}

	other := pool.Acquire(0, -1)
	if b := other.Bounds(); b.Dx() != 1 || b.Dy() != 1 {
		t.Errorf("degenerate size = %dx%d, want 1x1", b.Dx(), b.Dy())
	}
	pool.Release(other)
	pool.Release(nil)
	pool.Dispose()
	if pool.Len() != 0 {
		t.Error("Dispose should empty the pool")
	}
}

func TestNewRenderTargetUsesPixelSize(t *testing.T) {
	img := newRenderTarget(NewViewport(10, 20, 2))
	if b := img.Bounds(); b.Dx() != 20 || b.Dy() != 40 {
		t.Errorf("target = %dx%d, want 20x40", b.Dx(), b.Dy())
	}
}

func TestShaderResizeUniform(t *testing.T) {
	s := WrapShader(nil)
	s.Resize(30, 40)
	res, ok := s.Uniforms["Resolution"].([]float32)
	if !ok || res[0] != 30 || res[1] != 40 {
		t.Errorf("Resolution = %v", s.Uniforms["Resolution"])
	}

	var pool renderTexturePool
	s.applyInPlace(newRenderTarget(NewViewport(4, 4, 1)), &pool)
	if pool.Len() != 0 {
		t.Error("a shader without a program should not touch the pool")
	}
}

func TestColorConversion(t *testing.T) {
	c := Color{R: 1, G: 0.5, B: 2, A: 0.5}
	rgba := c.toRGBA()
	if rgba.R != 127 || rgba.G != 63 || rgba.B != 127 || rgba.A != 127 {
		t.Errorf("toRGBA = %+v", rgba)
	}
	r, g, b, a := c.vertexColor()
	if r != 0.5 || g != 0.25 || b != 0.5 || a != 0.5 {
		t.Errorf("vertexColor = %v %v %v %v", r, g, b, a)
	}
}
