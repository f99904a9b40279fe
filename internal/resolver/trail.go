package resolver

import (
	"github.com/lucasols/vindur-sub001/internal/ast"
	"github.com/lucasols/vindur-sub001/internal/diag"
)

// Trail is the set of declarations currently being resolved. It is threaded
// through every recursive resolution so that a value or style-extension cycle
// fails with the full chain instead of recursing forever.
type Trail struct {
	stack []string
	set   map[string]bool
}

// NewTrail returns an empty trail.
func NewTrail() *Trail {
	return &Trail{set: make(map[string]bool)}
}

// Key identifies a declaration on the trail.
func Key(path, name string) string {
	return path + "#" + name
}

// Enter pushes key. If key is already being resolved, it returns a
// CircularReference error whose cycle starts and ends with key.
func (t *Trail) Enter(key, file string, at ast.Node) error {
	if t.set[key] {
		start := 0
		for i, k := range t.stack {
			if k == key {
				start = i
				break
			}
		}
		chain := append(append([]string(nil), t.stack[start:]...), key)
		return diag.Cycle(file, at, chain)
	}
	t.set[key] = true
	t.stack = append(t.stack, key)
	return nil
}

// Leave pops key.
func (t *Trail) Leave(key string) {
	delete(t.set, key)
	if n := len(t.stack); n > 0 && t.stack[n-1] == key {
		t.stack = t.stack[:n-1]
	}
}

// Depth is the number of declarations currently being resolved.
func (t *Trail) Depth() int { return len(t.stack) }
