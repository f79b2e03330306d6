package render

import (
	"errors"
	"fmt"

	"github.com/hashicorp/go-hclog"
	"tinygo.org/x/tinyfont"
	"tinygo.org/x/tinyfont/proggy"

	"example.com/dcspy/internal/aircraft"
	"example.com/dcspy/internal/lcd"
)

// ErrBadGeometry is returned for a display with no drawable area.
var ErrBadGeometry = errors.New("display has no drawable area")

// TextRenderer lays snapshot lines out top to bottom, one font line each.
type TextRenderer struct {
	Mono   tinyfont.Fonter
	Color  tinyfont.Fonter
	Logger hclog.Logger
}

// NewTextRenderer uses TomThumb on mono keyboards and Proggy on the G19.
func NewTextRenderer(logger hclog.Logger) *TextRenderer {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &TextRenderer{
		Mono:   &tinyfont.TomThumb,
		Color:  &proggy.TinySZ8pt7b,
		Logger: logger.Named("render"),
	}
}

func (r *TextRenderer) font(kind lcd.Kind) tinyfont.Fonter {
	if kind == lcd.Color {
		return r.Color
	}
	return r.Mono
}

// LineCapacity returns how many snapshot lines fit on info.
func (r *TextRenderer) LineCapacity(info lcd.Info) int {
	adv := int(r.font(info.Kind).GetYAdvance())
	if adv <= 0 {
		return 0
	}
	return info.Height / adv
}

// Render draws snap onto a fresh frame for info. Lines past the bottom of
// the display are dropped.
func (r *TextRenderer) Render(snap aircraft.Snapshot, info lcd.Info) (*Image, error) {
	if info.Width <= 0 || info.Height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrBadGeometry, info.Width, info.Height)
	}
	font := r.font(info.Kind)
	adv := int16(font.GetYAdvance())
	img := NewImage(info)
	lines := snap.Lines
	if capacity := r.LineCapacity(info); len(lines) > capacity {
		r.Logger.Trace("lines dropped", "aircraft", snap.Aircraft, "lines", len(lines), "capacity", capacity)
		lines = lines[:capacity]
	}
	for i, line := range lines {
		// WriteLine takes the baseline, so the first row starts one advance down.
		tinyfont.WriteLine(img, font, 0, adv*int16(i+1)-1, line, info.Foreground)
	}
	return img, nil
}
