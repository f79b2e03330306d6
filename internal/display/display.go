// Package display pushes rendered frames to an output device.
package display

import "example.com/dcspy/internal/render"

// Display receives every redrawn frame. Failures are reported to the caller
// and never stop the dispatch loop.
type Display interface {
	Update(img *render.Image) error
	IsConnected() bool
}

// Discard accepts and drops every frame.
type Discard struct{}

func (Discard) Update(*render.Image) error { return nil }
func (Discard) IsConnected() bool          { return true }
