package canopy

import (
	"image"
	"image/color"
	"log/slog"
	"slices"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// maxBatchVertices keeps a batch addressable by uint16 indices.
const maxBatchVertices = 65535

// wireColor strokes triangle edges in wireframe mode.
var wireColor = color.RGBA{R: 0, G: 255, B: 128, A: 255}

// triangleCommand is one projected triangle emitted while walking a scene
// graph. depth is the mean NDC depth used to sort back to front.
type triangleCommand struct {
	verts [3]ebiten.Vertex
	depth float64
	image *ebiten.Image
	order int
}

// Renderer draws every scene in the manager's render list into its own
// target, then composites the active scene onto the screen.
type Renderer struct {
	// Composition, when set, samples the active scene's target into the
	// screen instead of a plain copy.
	Composition *Shader

	ctx     *Context
	log     *slog.Logger
	manager *Manager
	pool    renderTexturePool

	commands   []triangleCommand
	batchVerts []ebiten.Vertex
	batchInds  []uint16
	white      *ebiten.Image
	whiteSrc   *ebiten.Image
}

// NewRenderer creates a renderer over manager's render list.
func NewRenderer(ctx *Context, manager *Manager) *Renderer {
	return &Renderer{
		ctx:     ctx,
		log:     ctx.logger().With("component", "renderer"),
		manager: manager,
	}
}

// Draw renders one frame. Scenes draw in render-list order, so nested and
// incoming scenes fill their targets before anything samples them.
func (r *Renderer) Draw(screen *ebiten.Image) {
	if r.manager != nil {
		for _, s := range r.manager.RenderList() {
			r.drawScene(s)
		}
	}

	screen.Clear()
	if r.manager != nil {
		if active := r.manager.Active(); active != nil && active.Target() != nil {
			r.composite(screen, active.Target())
		}
	}
	if o, ok := r.ctx.Debug.(*Overlay); ok && o != nil {
		o.Draw(screen)
	}
}

// Resize forwards the new pixel size to the composition shader and drops
// pooled images of the old size.
func (r *Renderer) Resize() {
	r.pool.Dispose()
	if r.Composition != nil {
		r.Composition.Resize(r.ctx.Viewport.PixelSize())
	}
}

// Dispose releases pooled images.
func (r *Renderer) Dispose() {
	r.pool.Dispose()
	if r.whiteSrc != nil {
		r.whiteSrc.Deallocate()
		r.whiteSrc = nil
		r.white = nil
	}
}

// drawScene renders s into its target: clear, graph, post shader,
// transition blend.
func (r *Renderer) drawScene(s *Scene) {
	if s == nil || s.target == nil || s.Camera == nil || s.state == StateDisposed {
		return
	}
	s.Trigger(EventBeforeRender)

	s.target.Fill(r.ctx.Config.ClearColor.toRGBA())
	b := s.target.Bounds()
	r.collect(s.root, s.Camera.ViewProjection(), float64(b.Dx()), float64(b.Dy()))
	if s.Wireframe {
		r.submitWireframe(s.target)
	} else {
		r.submitTriangles(s.target)
	}

	if s.Shader != nil {
		s.Shader.applyInPlace(s.target, &r.pool)
	}
	if s.Transition != nil {
		if err := s.Transition.Render(s.target, &r.pool); err != nil {
			r.log.Warn("transition shader unavailable, blending disabled", "scene", s.Name, "err", err)
			s.Transition.Shader = WrapShader(nil)
		}
	}

	s.Trigger(EventAfterRender)
}

// composite copies target onto screen, through Composition when set.
func (r *Renderer) composite(screen, target *ebiten.Image) {
	if r.Composition != nil && r.Composition.Shader != nil {
		b := target.Bounds()
		r.Composition.Resize(b.Dx(), b.Dy())
		r.Composition.Apply(target, screen)
		return
	}
	var op ebiten.DrawImageOptions
	sb, tb := screen.Bounds(), target.Bounds()
	if tb.Dx() > 0 && tb.Dy() > 0 && (sb.Dx() != tb.Dx() || sb.Dy() != tb.Dy()) {
		op.GeoM.Scale(float64(sb.Dx())/float64(tb.Dx()), float64(sb.Dy())/float64(tb.Dy()))
		op.Filter = ebiten.FilterLinear
	}
	screen.DrawImage(target, &op)
}

// --- Command emission ---

// collect walks root and emits projected triangles sorted back to front.
// Triangles with a vertex behind the camera are dropped.
func (r *Renderer) collect(root *Object, viewProj mgl64.Mat4, w, h float64) {
	r.commands = r.commands[:0]
	r.walk(root, mgl64.Ident4(), viewProj, w, h)
	slices.SortStableFunc(r.commands, func(a, b triangleCommand) int {
		switch {
		case a.depth > b.depth:
			return -1
		case a.depth < b.depth:
			return 1
		}
		return a.order - b.order
	})
}

func (r *Renderer) walk(o *Object, parent, viewProj mgl64.Mat4, w, h float64) {
	if o == nil || !o.Visible {
		return
	}
	world := parent.Mul4(o.LocalMatrix())
	if m := o.Mesh; m != nil && len(m.Indices) >= 3 {
		r.emitMesh(m, viewProj.Mul4(world), w, h)
	}
	for _, c := range o.children {
		r.walk(c, world, viewProj, w, h)
	}
}

func (r *Renderer) emitMesh(m *Mesh, mvp mgl64.Mat4, w, h float64) {
	cr, cg, cb, ca := m.Color.vertexColor()
	var iw, ih float64
	if m.Image != nil {
		b := m.Image.Bounds()
		iw, ih = float64(b.Dx()), float64(b.Dy())
	}

	for t := 0; t+2 < len(m.Indices); t += 3 {
		cmd := triangleCommand{image: m.Image, order: len(r.commands)}
		ok := true
		for k := 0; k < 3; k++ {
			idx := int(m.Indices[t+k])
			if idx >= len(m.Vertices) {
				ok = false
				break
			}
			ndc, visible := projectPoint(mvp, m.Vertices[idx])
			if !visible {
				ok = false
				break
			}
			x, y := ndcToScreen(ndc, w, h)
			v := ebiten.Vertex{
				DstX: float32(x), DstY: float32(y),
				SrcX: 1.5, SrcY: 1.5,
				ColorR: cr, ColorG: cg, ColorB: cb, ColorA: ca,
			}
			if m.Image != nil && idx < len(m.UVs) {
				v.SrcX = float32(m.UVs[idx][0] * iw)
				v.SrcY = float32(m.UVs[idx][1] * ih)
			}
			cmd.verts[k] = v
			cmd.depth += ndc[2] / 3
		}
		if ok {
			r.commands = append(r.commands, cmd)
		}
	}
}

// --- Submission ---

// submitTriangles draws the sorted commands, batching consecutive
// triangles that share a source image.
func (r *Renderer) submitTriangles(target *ebiten.Image) {
	var src *ebiten.Image
	for i := range r.commands {
		cmd := &r.commands[i]
		img := cmd.image
		if img == nil {
			img = r.whitePixel()
		}
		if img != src || len(r.batchVerts)+3 > maxBatchVertices {
			r.flush(target, src)
			src = img
		}
		base := uint16(len(r.batchVerts))
		r.batchVerts = append(r.batchVerts, cmd.verts[:]...)
		r.batchInds = append(r.batchInds, base, base+1, base+2)
	}
	r.flush(target, src)
}

func (r *Renderer) flush(target, src *ebiten.Image) {
	if src == nil || len(r.batchInds) == 0 {
		r.batchVerts = r.batchVerts[:0]
		r.batchInds = r.batchInds[:0]
		return
	}
	var triOp ebiten.DrawTrianglesOptions
	target.DrawTriangles(r.batchVerts, r.batchInds, src, &triOp)
	r.batchVerts = r.batchVerts[:0]
	r.batchInds = r.batchInds[:0]
}

// submitWireframe strokes every triangle edge.
func (r *Renderer) submitWireframe(target *ebiten.Image) {
	for i := range r.commands {
		v := &r.commands[i].verts
		for k := 0; k < 3; k++ {
			a, b := v[k], v[(k+1)%3]
			vector.StrokeLine(target, a.DstX, a.DstY, b.DstX, b.DstY, 1, wireColor, true)
		}
	}
}

// whitePixel returns a solid white source for untextured triangles. The
// sampled pixel sits inside a 3x3 image so filtering never reads an edge.
func (r *Renderer) whitePixel() *ebiten.Image {
	if r.white == nil {
		r.whiteSrc = ebiten.NewImage(3, 3)
		r.whiteSrc.Fill(color.White)
		r.white = r.whiteSrc.SubImage(image.Rect(1, 1, 2, 2)).(*ebiten.Image)
	}
	return r.white
}
