package canopy

// Navigation describes a scene switch for outside observers: which scene,
// the scroll scale it starts with and where its scroll starts.
type Navigation struct {
	Scene string
	Scale float64
	Start float64
}

// StateSink receives state that outside observers (UI overlays, analytics)
// watch. The runtime only writes to it and never reads it back.
type StateSink interface {
	SetScene(name string)
	SetProgress(progress float64)
	SetNavigation(nav Navigation)
}

// MemorySink records the latest values written to it.
type MemorySink struct {
	Scene      string
	Progress   float64
	Navigation Navigation

	// Writes counts calls per setter.
	Writes struct {
		Scene, Progress, Navigation int
	}
}

// SetScene records name.
func (m *MemorySink) SetScene(name string) {
	m.Scene = name
	m.Writes.Scene++
}

// SetProgress records progress.
func (m *MemorySink) SetProgress(progress float64) {
	m.Progress = progress
	m.Writes.Progress++
}

// SetNavigation records nav.
func (m *MemorySink) SetNavigation(nav Navigation) {
	m.Navigation = nav
	m.Writes.Navigation++
}

type nopSink struct{}

func (nopSink) SetScene(string)          {}
func (nopSink) SetProgress(float64)      {}
func (nopSink) SetNavigation(Navigation) {}
