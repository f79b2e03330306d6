// Package lcd describes the keyboard displays the cockpit state is drawn on.
package lcd

import (
	"fmt"
	"image/color"
	"strings"
)

// Kind is the pixel format of a keyboard display.
type Kind uint8

const (
	Mono Kind = iota + 1
	Color
)

func (k Kind) String() string {
	switch k {
	case Mono:
		return "mono"
	case Color:
		return "color"
	default:
		return "unknown"
	}
}

// Info is the geometry and palette of one display.
type Info struct {
	Kind       Kind
	Width      int
	Height     int
	Foreground color.RGBA
	Background color.RGBA
}

var (
	MonoInfo = Info{
		Kind:       Mono,
		Width:      160,
		Height:     43,
		Foreground: color.RGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF},
		Background: color.RGBA{A: 0xFF},
	}
	ColorInfo = Info{
		Kind:       Color,
		Width:      320,
		Height:     240,
		Foreground: color.RGBA{G: 0xFF, A: 0xFF},
		Background: color.RGBA{},
	}
)

// ForKeyboard maps a keyboard model name to its display.
func ForKeyboard(model string) (Info, error) {
	switch strings.ToUpper(strings.TrimSpace(model)) {
	case "G13", "G15V1", "G15V2", "G510":
		return MonoInfo, nil
	case "G19":
		return ColorInfo, nil
	default:
		return Info{}, fmt.Errorf("unsupported keyboard %q", model)
	}
}
