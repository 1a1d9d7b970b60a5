package canopy

import "errors"

// Construction errors. They are returned synchronously from constructors and
// are fatal to that construction path; the frame loop never produces them.
// Constructors wrap them with a "canopy: <operation>:" prefix.
var (
	// ErrNilContext is returned when a component is built without a Context.
	ErrNilContext = errors.New("nil context")
	// ErrNoViewport is returned when a scene is built from a Context that has
	// no Viewport.
	ErrNoViewport = errors.New("context has no viewport")
	// ErrNoFactory is returned when a scene descriptor has no constructor.
	ErrNoFactory = errors.New("descriptor has no scene factory")
	// ErrNoDefaultScene is returned when a registry has no usable default.
	ErrNoDefaultScene = errors.New("registry has no default scene")
	// ErrNilScene is returned when a scene factory returns a nil scene.
	ErrNilScene = errors.New("factory returned a nil scene")
	// ErrIncompleteContext is returned when a hand-built Context lacks the
	// clock, pointer or scroll collaborators NewContext would supply.
	ErrIncompleteContext = errors.New("context is missing a clock, pointer or scroll manager")
)
