package canopy

import (
	"fmt"
	"image/color"
	"slices"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// DebugPanel is an optional introspection surface. Scenes and items
// register folders of controls on it; everything works with it absent.
type DebugPanel interface {
	AddFolder(title string) DebugFolder
	Remove(folder DebugFolder)
}

// DebugFolder groups named controls.
type DebugFolder interface {
	Title() string
	// AddToggle binds a boolean. onChange runs after the value flips.
	AddToggle(label string, value *bool, onChange func(bool))
	// AddList offers a choice between options. onChange receives the newly
	// selected option.
	AddList(label string, options []string, selected string, onChange func(string))
	// Select moves the list labelled label to option without calling its
	// onChange. Unknown labels or options are ignored.
	Select(label, option string)
	// AddMonitor shows a read-only value refreshed every frame.
	AddMonitor(label string, value func() string)
}

// --- Overlay ---

type debugControlKind uint8

const (
	controlToggle debugControlKind = iota
	controlList
	controlMonitor
)

type debugControl struct {
	kind    debugControlKind
	label   string
	value   *bool
	toggle  func(bool)
	options []string
	index   int
	choose  func(string)
	monitor func() string
}

// overlayFolder is the DebugFolder of an Overlay.
type overlayFolder struct {
	title    string
	controls []*debugControl
}

func (f *overlayFolder) Title() string { return f.title }

func (f *overlayFolder) AddToggle(label string, value *bool, onChange func(bool)) {
	if value == nil {
		value = new(bool)
	}
	f.controls = append(f.controls, &debugControl{kind: controlToggle, label: label, value: value, toggle: onChange})
}

func (f *overlayFolder) AddList(label string, options []string, selected string, onChange func(string)) {
	idx := max(slices.Index(options, selected), 0)
	f.controls = append(f.controls, &debugControl{
		kind:    controlList,
		label:   label,
		options: slices.Clone(options),
		index:   idx,
		choose:  onChange,
	})
}

func (f *overlayFolder) Select(label, option string) {
	for _, c := range f.controls {
		if c.kind != controlList || c.label != label {
			continue
		}
		if i := slices.Index(c.options, option); i >= 0 {
			c.index = i
		}
	}
}

func (f *overlayFolder) AddMonitor(label string, value func() string) {
	f.controls = append(f.controls, &debugControl{kind: controlMonitor, label: label, monitor: value})
}

// Overlay is an on-screen DebugPanel drawn with ebitenutil. F1 shows or
// hides it, Tab / Shift+Tab move the cursor between controls and Enter or
// Space activates the selected one.
type Overlay struct {
	Visible bool

	folders []*overlayFolder
	cursor  int
	lines   []string
	bg      *ebiten.Image
}

// NewOverlay creates a visible, empty overlay.
func NewOverlay() *Overlay {
	return &Overlay{Visible: true}
}

// AddFolder appends a folder.
func (o *Overlay) AddFolder(title string) DebugFolder {
	f := &overlayFolder{title: title}
	o.folders = append(o.folders, f)
	return f
}

// Remove deletes folder. Unknown folders are ignored.
func (o *Overlay) Remove(folder DebugFolder) {
	f, ok := folder.(*overlayFolder)
	if !ok {
		return
	}
	if i := slices.Index(o.folders, f); i >= 0 {
		o.folders = slices.Delete(o.folders, i, i+1)
	}
	o.clampCursor()
}

// Folders returns the current folder titles in order.
func (o *Overlay) Folders() []string {
	titles := make([]string, len(o.folders))
	for i, f := range o.folders {
		titles[i] = f.title
	}
	return titles
}

// Update handles overlay key input. Call once per tick.
func (o *Overlay) Update() {
	if inpututil.IsKeyJustPressed(ebiten.KeyF1) {
		o.Visible = !o.Visible
	}
	if !o.Visible {
		return
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyTab) {
		if ebiten.IsKeyPressed(ebiten.KeyShift) {
			o.Move(-1)
		} else {
			o.Move(1)
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEnter) || inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		o.Activate()
	}
}

// Move shifts the cursor by delta interactive controls, wrapping around.
func (o *Overlay) Move(delta int) {
	n := len(o.interactive())
	if n == 0 {
		o.cursor = 0
		return
	}
	o.cursor = ((o.cursor+delta)%n + n) % n
}

// Activate flips the selected toggle or advances the selected list.
func (o *Overlay) Activate() {
	controls := o.interactive()
	if o.cursor >= len(controls) {
		return
	}
	c := controls[o.cursor]
	switch c.kind {
	case controlToggle:
		*c.value = !*c.value
		if c.toggle != nil {
			c.toggle(*c.value)
		}
	case controlList:
		if len(c.options) == 0 {
			return
		}
		c.index = (c.index + 1) % len(c.options)
		if c.choose != nil {
			c.choose(c.options[c.index])
		}
	}
}

// Draw renders the overlay in the top-left corner of screen.
func (o *Overlay) Draw(screen *ebiten.Image) {
	if !o.Visible || len(o.folders) == 0 {
		return
	}
	text := o.Text()
	h := (strings.Count(text, "\n")+1)*16 + 8
	if o.bg == nil || o.bg.Bounds().Dy() != h {
		if o.bg != nil {
			o.bg.Deallocate()
		}
		o.bg = ebiten.NewImage(320, h)
		o.bg.Fill(color.RGBA{0, 0, 0, 160})
	}
	screen.DrawImage(o.bg, nil)
	ebitenutil.DebugPrintAt(screen, text, 4, 4)
}

// Text returns the overlay contents as drawn.
func (o *Overlay) Text() string {
	o.lines = o.lines[:0]
	idx := 0
	for _, f := range o.folders {
		o.lines = append(o.lines, "# "+f.title)
		for _, c := range f.controls {
			marker := "  "
			if c.kind != controlMonitor {
				if idx == o.cursor {
					marker = "> "
				}
				idx++
			}
			o.lines = append(o.lines, marker+c.String())
		}
	}
	return strings.Join(o.lines, "\n")
}

func (c *debugControl) String() string {
	switch c.kind {
	case controlToggle:
		return fmt.Sprintf("%s: %t", c.label, *c.value)
	case controlList:
		if len(c.options) == 0 {
			return c.label + ": -"
		}
		return fmt.Sprintf("%s: %s", c.label, c.options[c.index])
	default:
		return fmt.Sprintf("%s: %s", c.label, c.monitor())
	}
}

func (o *Overlay) interactive() []*debugControl {
	var out []*debugControl
	for _, f := range o.folders {
		for _, c := range f.controls {
			if c.kind != controlMonitor {
				out = append(out, c)
			}
		}
	}
	return out
}

func (o *Overlay) clampCursor() {
	if n := len(o.interactive()); o.cursor >= n {
		o.cursor = max(n-1, 0)
	}
}
