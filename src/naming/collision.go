package naming

import (
	"fmt"
	"strings"
)

// Resolver hands out pairwise-distinct names. The first claim of a name keeps
// it; the Nth repeat becomes "{stem}_{N:03d}.{ext}". Not safe for concurrent use.
type Resolver struct {
	counts map[string]int  // proposed name → claims so far
	taken  map[string]bool // names already handed out or reserved
}

// NewResolver returns a resolver that never hands out any of reserved.
func NewResolver(reserved ...string) *Resolver {
	r := &Resolver{
		counts: make(map[string]int),
		taken:  make(map[string]bool),
	}
	for _, name := range reserved {
		r.taken[name] = true
	}
	return r
}

// Resolve claims a distinct variant of name.
func (r *Resolver) Resolve(name string) string {

	n := r.counts[name]

	candidate := name
	if n > 0 {
		candidate = withOrdinal(name, n)
	}

	// A suffixed or reserved name may already be in use; keep counting.
	for r.taken[candidate] {
		n++
		candidate = withOrdinal(name, n)
	}

	r.counts[name] = n + 1
	r.taken[candidate] = true

	return candidate
}

// Resolve returns a copy of m whose names are pairwise distinct and distinct
// from reserved, processing entries in order.
func Resolve(m Mapping, reserved ...string) Mapping {

	r := NewResolver(reserved...)

	resolved := make(Mapping, len(m))
	for i, e := range m {
		resolved[i] = Entry{Source: e.Source, Name: r.Resolve(e.Name)}
	}

	return resolved
}

// withOrdinal splits at the last "." ("a.jpg" → "a_001.jpg", ".jpg" → "_001.jpg").
// A name without "." is all stem ("a" → "a_001").
func withOrdinal(name string, n int) string {

	i := strings.LastIndex(name, ".")
	if i < 0 {
		return fmt.Sprintf("%s_%03d", name, n)
	}

	return fmt.Sprintf("%s_%03d%s", name[:i], n, name[i:])
}
