package canopy

// AudioParams configures one positional sound.
type AudioParams struct {
	// Source is the resource name of the audio asset.
	Source string
	Volume float64
	Loop   bool
	// RefDistance is the distance at which the volume starts falling off.
	RefDistance float64
}

// AudioSystem plays positional audio. It is optional: every call site
// checks for nil and skips audio entirely when absent.
type AudioSystem interface {
	// Attach starts sound name, emitted from target and heard by listener.
	Attach(name string, params AudioParams, listener, target *Object)
	// Detach stops and releases sound name.
	Detach(name string)
}
