package ecs

import (
	"github.com/phanxgames/canopy"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

// State is the latest runtime state written by canopy.
type State struct {
	Scene      string
	Progress   float64
	Navigation canopy.Navigation
}

// StateComponent holds the singleton State entity.
var StateComponent = donburi.NewComponentType[State]()

// Event types published on every write.
var (
	SceneChanged    = events.NewEventType[string]()
	ProgressChanged = events.NewEventType[float64]()
	Navigated       = events.NewEventType[canopy.Navigation]()
)

// DonburiSink is a canopy.StateSink backed by a Donburi world.
type DonburiSink struct {
	world  donburi.World
	entity donburi.Entity
}

var _ canopy.StateSink = (*DonburiSink)(nil)

// NewDonburiSink creates the State entity in world and returns a sink that
// writes to it.
func NewDonburiSink(world donburi.World) *DonburiSink {
	return &DonburiSink{world: world, entity: world.Create(StateComponent)}
}

// Entity returns the State entity.
func (s *DonburiSink) Entity() donburi.Entity { return s.entity }

// State returns a copy of the current state. It is zero once the entity has
// been removed from the world.
func (s *DonburiSink) State() State {
	if st := s.state(); st != nil {
		return *st
	}
	return State{}
}

func (s *DonburiSink) state() *State {
	if !s.world.Valid(s.entity) {
		return nil
	}
	return StateComponent.Get(s.world.Entry(s.entity))
}

// SetScene records name and publishes SceneChanged.
func (s *DonburiSink) SetScene(name string) {
	if st := s.state(); st != nil {
		st.Scene = name
	}
	SceneChanged.Publish(s.world, name)
}

// SetProgress records progress and publishes ProgressChanged.
func (s *DonburiSink) SetProgress(progress float64) {
	if st := s.state(); st != nil {
		st.Progress = progress
	}
	ProgressChanged.Publish(s.world, progress)
}

// SetNavigation records nav and publishes Navigated.
func (s *DonburiSink) SetNavigation(nav canopy.Navigation) {
	if st := s.state(); st != nil {
		st.Navigation = nav
	}
	Navigated.Publish(s.world, nav)
}
