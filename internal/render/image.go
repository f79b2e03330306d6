// Package render draws aircraft snapshots into keyboard-sized bitmaps.
package render

import (
	"image"
	"image/color"

	"tinygo.org/x/drivers"

	"example.com/dcspy/internal/lcd"
)

var _ drivers.Displayer = (*Image)(nil)

// Image is one keyboard frame. Mono frames hold one byte per pixel (0 or
// 255); color frames hold RGBA quadruplets.
type Image struct {
	Kind   lcd.Kind
	Width  int
	Height int
	Pix    []byte
}

// NewImage returns a frame sized for info filled with its background.
func NewImage(info lcd.Info) *Image {
	img := &Image{Kind: info.Kind, Width: info.Width, Height: info.Height}
	img.Pix = make([]byte, info.Width*info.Height*img.bytesPerPixel())
	if info.Kind == lcd.Color {
		img.Fill(info.Background)
	}
	return img
}

func (m *Image) bytesPerPixel() int {
	if m.Kind == lcd.Color {
		return 4
	}
	return 1
}

// Size implements drivers.Displayer.
func (m *Image) Size() (x, y int16) {
	return int16(m.Width), int16(m.Height)
}

// SetPixel implements drivers.Displayer. Mono frames light any pixel whose
// color is opaque and not black.
func (m *Image) SetPixel(x, y int16, c color.RGBA) {
	ix, iy := int(x), int(y)
	if ix < 0 || ix >= m.Width || iy < 0 || iy >= m.Height {
		return
	}
	if m.Kind == lcd.Color {
		i := (iy*m.Width + ix) * 4
		m.Pix[i], m.Pix[i+1], m.Pix[i+2], m.Pix[i+3] = c.R, c.G, c.B, c.A
		return
	}
	var v byte
	if c.A != 0 && (c.R|c.G|c.B) != 0 {
		v = 0xff
	}
	m.Pix[iy*m.Width+ix] = v
}

// Display implements drivers.Displayer; frames are pushed by a display.Display.
func (m *Image) Display() error { return nil }

// Fill paints every pixel with c.
func (m *Image) Fill(c color.RGBA) {
	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			m.SetPixel(int16(x), int16(y), c)
		}
	}
}

// Lit reports whether the pixel at x, y differs from the zero value.
func (m *Image) Lit(x, y int) bool {
	if x < 0 || x >= m.Width || y < 0 || y >= m.Height {
		return false
	}
	bpp := m.bytesPerPixel()
	i := (y*m.Width + x) * bpp
	for _, b := range m.Pix[i : i+bpp] {
		if b != 0 {
			return true
		}
	}
	return false
}

// Std converts the frame to a standard library image for encoding.
func (m *Image) Std() image.Image {
	r := image.Rect(0, 0, m.Width, m.Height)
	if m.Kind == lcd.Color {
		return &image.RGBA{Pix: m.Pix, Stride: 4 * m.Width, Rect: r}
	}
	return &image.Gray{Pix: m.Pix, Stride: m.Width, Rect: r}
}
