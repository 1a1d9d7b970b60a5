package canopy

import "strings"

// Handler is an event callback. A non-nil return value becomes the result of
// Emitter.Trigger.
type Handler func(args ...any) any

// baseNamespace holds bindings registered without an explicit namespace.
const baseNamespace = "base"

type binding struct {
	name      string
	namespace string
	fn        Handler
}

// Emitter is a namespaced pub/sub primitive. Every scene, item and input
// manager embeds one and uses it as its only lifecycle dispatch mechanism.
//
// Event names may carry a namespace suffix ("update.hud"). Triggering the
// bare name reaches bindings in every namespace; removing a namespace only
// removes its own bindings. The zero value is ready to use. Not safe for
// concurrent use; canopy runs on a single logical thread.
type Emitter struct {
	bindings []binding
}

// eventName is a parsed "value.namespace" pair.
type eventName struct {
	value     string
	namespace string
}

// On registers fn under every name in names. Names are separated by spaces,
// commas or slashes. Registration order is preserved.
func (e *Emitter) On(names string, fn Handler) *Emitter {
	if fn == nil {
		return e
	}
	for _, n := range resolveNames(names) {
		if n.value == "" {
			continue
		}
		e.bindings = append(e.bindings, binding{
			name:      n.value,
			namespace: n.namespace,
			fn:        fn,
		})
	}
	return e
}

// Off removes bindings. "name" removes name in every namespace, "name.ns"
// removes it from ns only, and ".ns" removes the whole namespace.
func (e *Emitter) Off(names string) *Emitter {
	for _, n := range resolveNames(names) {
		switch {
		case n.value == "" && n.namespace != baseNamespace:
			e.removeWhere(func(b binding) bool { return b.namespace == n.namespace })
		case n.value == "":
		case n.namespace == baseNamespace:
			e.removeWhere(func(b binding) bool { return b.name == n.value })
		default:
			e.removeWhere(func(b binding) bool {
				return b.name == n.value && b.namespace == n.namespace
			})
		}
	}
	return e
}

// OffAll removes every binding.
func (e *Emitter) OffAll() {
	clear(e.bindings)
	e.bindings = e.bindings[:0]
}

// Trigger calls every callback bound to name, in registration order, with
// args. It returns the last non-nil callback result, or the emitter itself
// when no callback produced one. Unknown names are a silent no-op.
//
// Callbacks run over a snapshot, so they may call On and Off freely.
func (e *Emitter) Trigger(name string, args ...any) any {
	names := resolveNames(name)
	if len(names) == 0 || names[0].value == "" {
		return e
	}
	n := names[0]

	var fns []Handler
	for _, b := range e.bindings {
		if n.matches(b) {
			fns = append(fns, b.fn)
		}
	}

	var result any
	for _, fn := range fns {
		if r := fn(args...); r != nil {
			result = r
		}
	}
	if result == nil {
		return e
	}
	return result
}

// Count returns how many callbacks Trigger(name) would invoke.
func (e *Emitter) Count(name string) int {
	names := resolveNames(name)
	if len(names) == 0 || names[0].value == "" {
		return 0
	}
	count := 0
	for _, b := range e.bindings {
		if names[0].matches(b) {
			count++
		}
	}
	return count
}

// Has reports whether at least one callback is bound to name.
func (e *Emitter) Has(name string) bool {
	return e.Count(name) > 0
}

func (n eventName) matches(b binding) bool {
	if b.name != n.value {
		return false
	}
	return n.namespace == baseNamespace || b.namespace == n.namespace
}

// removeWhere drops matching bindings, keeping order, without leaving
// dangling callbacks in the backing array.
func (e *Emitter) removeWhere(match func(binding) bool) {
	kept := e.bindings[:0]
	for _, b := range e.bindings {
		if !match(b) {
			kept = append(kept, b)
		}
	}
	clear(e.bindings[len(kept):])
	e.bindings = kept
}

// resolveNames splits a name list and parses each entry. Characters outside
// letters, digits, '_', '-', '.' and the separators are dropped.
func resolveNames(names string) []eventName {
	sanitized := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9',
			r == '_', r == '-', r == '.':
			return r
		case r == ' ', r == ',', r == '/':
			return ' '
		default:
			return -1
		}
	}, names)

	fields := strings.Fields(sanitized)
	out := make([]eventName, 0, len(fields))
	for _, f := range fields {
		out = append(out, resolveName(f))
	}
	return out
}

func resolveName(name string) eventName {
	value, namespace, _ := strings.Cut(name, ".")
	if namespace == "" {
		namespace = baseNamespace
	}
	return eventName{value: value, namespace: namespace}
}
