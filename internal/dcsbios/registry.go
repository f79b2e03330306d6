package dcsbios

import (
	"fmt"
	"sort"
)

// Sink receives every complete write the parser reconstructs.
type Sink interface {
	HandleWrite(w Write)
}

// ChangeFunc is called with the selector name and its new value.
type ChangeFunc func(selector string, v Value)

type entry struct {
	selector string
	buf      Buffer
}

// Registry owns the buffers of one selector table and routes writes to the
// ones they overlap. Selectors are visited in name order so that change
// notifications for a single write are deterministic.
type Registry struct {
	entries  []entry
	onChange ChangeFunc
}

// NewRegistry builds one buffer per spec. onChange may be nil.
func NewRegistry(specs map[string]BufferSpec, onChange ChangeFunc) (*Registry, error) {
	names := make([]string, 0, len(specs))
	for name := range specs {
		names = append(names, name)
	}
	sort.Strings(names)
	r := &Registry{entries: make([]entry, 0, len(names)), onChange: onChange}
	for _, name := range names {
		buf, err := NewBuffer(specs[name])
		if err != nil {
			return nil, fmt.Errorf("selector %s: %w", name, err)
		}
		r.entries = append(r.entries, entry{selector: name, buf: buf})
	}
	return r, nil
}

// HandleWrite applies w to every overlapping buffer and reports changes.
func (r *Registry) HandleWrite(w Write) {
	for _, e := range r.entries {
		if !e.buf.Overlaps(w) {
			continue
		}
		v, changed := e.buf.Apply(w)
		if changed && r.onChange != nil {
			r.onChange(e.selector, v)
		}
	}
}

// Value returns the current decoded value of selector.
func (r *Registry) Value(selector string) (Value, bool) {
	for _, e := range r.entries {
		if e.selector == selector {
			return e.buf.Value(), true
		}
	}
	return Value{}, false
}

// Len returns the number of registered selectors.
func (r *Registry) Len() int { return len(r.entries) }
