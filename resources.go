package canopy

// Resources exposes loaded assets by logical name. Scenes and items read it
// only after the loader has broadcast "ready".
type Resources interface {
	Get(name string) (any, bool)
}

// Assets is an in-memory Resources. Loading happens elsewhere; callers Add
// what they loaded and call Ready once. Assets emits "ready" exactly once.
type Assets struct {
	Emitter

	items map[string]any
	ready bool
}

// NewAssets creates an empty asset table.
func NewAssets() *Assets {
	return &Assets{items: make(map[string]any)}
}

// Add stores an asset under name, replacing any previous value.
func (a *Assets) Add(name string, asset any) {
	a.items[name] = asset
}

// Get returns the asset stored under name.
func (a *Assets) Get(name string) (any, bool) {
	v, ok := a.items[name]
	return v, ok
}

// Len returns the number of stored assets.
func (a *Assets) Len() int {
	return len(a.items)
}

// IsReady reports whether Ready has been called.
func (a *Assets) IsReady() bool {
	return a.ready
}

// Ready marks loading as finished and emits "ready". Later calls are no-ops.
func (a *Assets) Ready() {
	if a.ready {
		return
	}
	a.ready = true
	a.Trigger("ready")
}

// OnReady runs fn once assets are ready, immediately if they already are.
func (a *Assets) OnReady(fn func()) {
	if a.ready {
		fn()
		return
	}
	a.On("ready", func(...any) any {
		fn()
		return nil
	})
}
