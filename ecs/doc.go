// Package ecs mirrors canopy runtime state into a [Donburi] world.
//
// [NewDonburiSink] returns a [canopy.StateSink] that keeps a singleton
// [State] entity current and publishes one typed event per write. Systems
// either read [StateComponent] each frame or subscribe to [SceneChanged],
// [ProgressChanged] and [Navigated].
//
// Usage:
//
//	world := donburi.NewWorld()
//	sink := ecs.NewDonburiSink(world)
//	ctx := canopy.NewContext(cfg, canopy.WithSink(sink))
//
// Events are queued; call events.ProcessAllEvents(world) from your system
// loop to deliver them.
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
