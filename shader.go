package canopy

import (
	"fmt"
	"image"

	"github.com/hajimehoshi/ebiten/v2"
)

// TransitionSource is the default transition shader: a soft diagonal wipe
// from the current scene (Images[0]) to the next one (Images[1]) driven by
// the Progress uniform.
var TransitionSource = []byte(`//kage:unit pixels

package main

var Progress float
var Resolution vec2

func Fragment(dstPos vec4, srcPos vec2, color vec4) vec4 {
	current := imageSrc0At(srcPos)
	next := imageSrc1At(srcPos)
	uv := srcPos / Resolution
	edge := (uv.x + (1.0 - uv.y)) * 0.5
	t := smoothstep(edge-0.1, edge+0.1, Progress*1.2-0.1)
	return mix(current, next, t)
}
`)

// CrossfadeSource blends Images[0] into Images[1] linearly with Progress.
var CrossfadeSource = []byte(`//kage:unit pixels

package main

var Progress float

func Fragment(dstPos vec4, srcPos vec2, color vec4) vec4 {
	return mix(imageSrc0At(srcPos), imageSrc1At(srcPos), Progress)
}
`)

// UnderlaySource draws the source (Images[0]) over Images[1]. Scenes use it
// with Inputs[1] set to a nested scene to show that scene behind their own
// geometry.
var UnderlaySource = []byte(`//kage:unit pixels

package main

func Fragment(dstPos vec4, srcPos vec2, color vec4) vec4 {
	front := imageSrc0At(srcPos)
	back := imageSrc1At(srcPos)
	return front + back*(1.0-front.a)
}
`)

// Shader wraps a Kage shader with its uniforms. Images[0] is filled with
// the source texture when applied; Images[1] and Images[2] are free for
// extra textures.
//
// Inputs[i], when set, supplies slot i from that scene's current render
// target each time the shader runs, so the binding survives resizes.
// Inputs take precedence over Images. A slot whose image does not match the
// source size is left empty.
type Shader struct {
	Shader   *ebiten.Shader
	Uniforms map[string]any
	Images   [3]*ebiten.Image
	Inputs   [3]*Scene

	shaderOp ebiten.DrawRectShaderOptions
}

// NewShader compiles src into a Shader.
func NewShader(src []byte) (*Shader, error) {
	s, err := ebiten.NewShader(src)
	if err != nil {
		return nil, fmt.Errorf("canopy: compile shader: %w", err)
	}
	return WrapShader(s), nil
}

// WrapShader wraps an already compiled shader.
func WrapShader(s *ebiten.Shader) *Shader {
	return &Shader{Shader: s, Uniforms: make(map[string]any)}
}

// Resize publishes the target size through the Resolution uniform.
func (s *Shader) Resize(width, height int) {
	s.Uniforms["Resolution"] = []float32{float32(width), float32(height)}
}

// Apply draws src through the shader into dst. src and any extra images
// must match src's size.
func (s *Shader) Apply(src, dst *ebiten.Image) {
	bounds := src.Bounds()
	s.shaderOp.Images[0] = src
	s.shaderOp.Images[1] = s.image(1, bounds)
	s.shaderOp.Images[2] = s.image(2, bounds)
	s.shaderOp.Uniforms = s.Uniforms
	dst.DrawRectShader(bounds.Dx(), bounds.Dy(), s.Shader, &s.shaderOp)
	s.shaderOp.Images = [4]*ebiten.Image{}
}

// image resolves slot i for a source of bounds b.
func (s *Shader) image(i int, b image.Rectangle) *ebiten.Image {
	img := s.Images[i]
	if in := s.Inputs[i]; in != nil {
		img = in.Target()
	}
	if img == nil || img.Bounds().Size() != b.Size() {
		return nil
	}
	return img
}

// applyInPlace runs the shader over target using a pooled scratch image,
// then copies the result back.
func (s *Shader) applyInPlace(target *ebiten.Image, pool *renderTexturePool) {
	if s == nil || s.Shader == nil || target == nil {
		return
	}
	b := target.Bounds()
	scratch := pool.Acquire(b.Dx(), b.Dy())
	s.Apply(target, scratch)
	copyImage(target, scratch)
	pool.Release(scratch)
}

// copyImage replaces dst's pixels with src's.
func copyImage(dst, src *ebiten.Image) {
	var op ebiten.DrawImageOptions
	op.Blend = ebiten.BlendCopy
	dst.DrawImage(src, &op)
}
