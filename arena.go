package canopy

import (
	"fmt"
	"log/slog"
	"strings"
)

// arenaNode is one flattened entry.
type arenaNode[T any] struct {
	Key   string
	Value T
	Depth int
}

// arena is an ordered, keyed, flattened view of a tree. It is built fresh on
// every load and swapped in whole; it is never edited while in use.
type arena[T any] struct {
	nodes []arenaNode[T]
	index map[string]int
}

func newArena[T any]() *arena[T] {
	return &arena[T]{index: make(map[string]int)}
}

// add appends value under key. A key already present is renamed key_N,
// where N counts existing keys containing key, and a warning is logged.
//
// The renamed key is not checked against keys added later, and if key_N
// itself already exists the newer entry takes over the index slot. Both
// entries stay in the node list so lifecycle fan-out still reaches them.
func (a *arena[T]) add(key string, value T, depth int, kind string, log *slog.Logger) string {
	if _, exists := a.index[key]; exists {
		count := 0
		for _, n := range a.nodes {
			if strings.Contains(n.Key, key) {
				count++
			}
		}
		renamed := fmt.Sprintf("%s_%d", key, count)
		log.Warn(kind+" name already exists, renamed", "key", key, "renamed", renamed)
		if _, taken := a.index[renamed]; taken {
			log.Warn(kind+" renamed key collides with an existing key", "key", renamed)
		}
		key = renamed
	}
	a.index[key] = len(a.nodes)
	a.nodes = append(a.nodes, arenaNode[T]{Key: key, Value: value, Depth: depth})
	return key
}

// get returns the value indexed under key.
func (a *arena[T]) get(key string) (T, bool) {
	i, ok := a.index[key]
	if !ok {
		var zero T
		return zero, false
	}
	return a.nodes[i].Value, true
}

// keys returns every key in flattening order.
func (a *arena[T]) keys() []string {
	out := make([]string, len(a.nodes))
	for i, n := range a.nodes {
		out[i] = n.Key
	}
	return out
}

// values returns every value in flattening order.
func (a *arena[T]) values() []T {
	out := make([]T, len(a.nodes))
	for i, n := range a.nodes {
		out[i] = n.Value
	}
	return out
}

func (a *arena[T]) len() int {
	return len(a.nodes)
}
