// Package validation defines the error and path types shared by every
// validation phase.
package validation

import (
	"fmt"
	"strings"
)

// PathElement is one step into a JSON value: a string key or an int index.
type PathElement = any

// Path locates a value inside the fixture, from the root down.
type Path []PathElement

// Append returns a new Path extended by elem. The receiver is never
// mutated, so sibling paths can branch from a shared prefix safely.
func (p Path) Append(elem PathElement) Path {
	out := make(Path, len(p)+1)
	copy(out, p)
	out[len(p)] = elem
	return out
}

// String renders the path with dots for keys and brackets for indices,
// e.g. "data.items[0].count".
func (p Path) String() string {
	var b strings.Builder
	for i, elem := range p {
		switch v := elem.(type) {
		case string:
			if i > 0 {
				b.WriteByte('.')
			}
			b.WriteString(v)
		case int:
			fmt.Fprintf(&b, "[%d]", v)
		default:
			fmt.Fprintf(&b, "%v", v)
		}
	}
	return b.String()
}

// Error is one located validation discrepancy. An empty Path points at the
// fixture root.
type Error struct {
	Message string `json:"message"`
	Path    Path   `json:"path,omitempty"`
}

func (e Error) Error() string {
	if len(e.Path) == 0 {
		return e.Message
	}
	return fmt.Sprintf("%s at %s", e.Message, e.Path)
}
