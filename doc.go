// Package canopy is the runtime core of an interactive real-time 3D
// experience built on [Ebitengine].
//
// canopy manages a tree of scenes and items, drives their lifecycle through
// a namespaced event protocol, switches between scenes with shader
// transitions, and composites every scene's offscreen render target into the
// final framebuffer.
//
// # Quick start
//
// Build a [Context] once, register scenes, and hand the registry to an
// [Experience]:
//
//	cfg, err := canopy.LoadConfig("canopy.yaml")
//	if err != nil {
//		log.Fatal(err)
//	}
//	ctx := canopy.NewContext(cfg)
//
//	reg := &canopy.Registry{Default: "intro"}
//	reg.Add(canopy.Descriptor{ID: 0, Name: "intro", New: newIntro})
//
//	exp, err := canopy.NewExperience(ctx, reg)
//	if err != nil {
//		log.Fatal(err)
//	}
//	if err := canopy.Run(exp); err != nil {
//		log.Fatal(err)
//	}
//
// # Events
//
// [Emitter] is the event bus every runtime object embeds. Names may carry a
// namespace ("update.hud"); triggering a bare name reaches every namespace,
// and Off(".hud") removes a whole namespace at once:
//
//	item.On("click.menu", func(args ...any) any {
//		ev := args[0].(canopy.PointerEvent)
//		fmt.Println("clicked at", ev.X, ev.Y)
//		return nil
//	})
//
// Items accept a fixed set of events (load, ready, update, resize, scroll,
// click, mousedown, mouseup, mousemove, mouseenter, mouseleave, mousehover,
// hold, dispose). Typed helpers such as [Item.OnClick] and [Item.OnHold]
// wrap On with concrete argument types.
//
// # Scenes
//
// A [Scene] owns a camera, a render target and a tree of items, and may
// nest other scenes whose targets it samples. Its lifecycle is
// constructed → loading → ready → active → disposing → disposed, driven by
// the load, ready, disposestart and dispose events the [Manager] emits.
//
// On load a scene flattens its items breadth-first into a keyed table.
// Duplicate keys are renamed key_N with a warning rather than rejected.
//
// Pointer events are resolved by raycasting only against items that listen
// for the event. The innermost listening item whose object contains the
// nearest hit receives it. [Item.IgnoredEvents] hands an event to the
// nearest listening ancestor; [Item.DisabledEvents] suppresses it for the
// whole subtree.
//
// # Switching
//
// [Manager.Switch] loads the incoming scene, renders it before the outgoing
// one so its target can be sampled, and completes when the outgoing scene's
// [Transition] settles. Only one switch runs at a time; others are ignored
// until it completes.
//
// # Rendering
//
// [Renderer] walks the render list in order. Each scene clears its target,
// draws its graph through its camera, applies its optional post-process
// [Shader] and transition blend, and finally the active scene's target is
// copied to the screen.
//
// [Ebitengine]: https://ebitengine.org
package canopy
