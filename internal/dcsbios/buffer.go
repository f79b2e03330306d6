package dcsbios

import "fmt"

// Buffer decodes the bytes at a fixed address into a typed value.
// Apply returns the new value and true only when a write changed it.
type Buffer interface {
	Spec() BufferSpec
	Overlaps(w Write) bool
	Apply(w Write) (Value, bool)
	Value() Value
}

// NewBuffer builds the buffer variant described by spec.
func NewBuffer(spec BufferSpec) (Buffer, error) {
	switch spec.Kind {
	case KindText:
		if spec.MaxLength <= 0 {
			return nil, fmt.Errorf("text buffer at 0x%04X: max length %d", spec.Address, spec.MaxLength)
		}
		return newTextBuffer(spec), nil
	case KindInteger:
		if spec.Mask == 0 {
			return nil, fmt.Errorf("integer buffer at 0x%04X: empty mask", spec.Address)
		}
		return &IntegerBuffer{spec: spec}, nil
	default:
		return nil, fmt.Errorf("buffer at 0x%04X: unknown kind %d", spec.Address, spec.Kind)
	}
}

func overlaps(spec BufferSpec, w Write) bool {
	start, end := spec.span()
	return int(w.Address) < end && w.End() > start
}

// copyOverlap copies the part of w that falls inside window (which starts at
// base) and reports whether any byte landed.
func copyOverlap(window []byte, base int, w Write) bool {
	lo := int(w.Address)
	if lo < base {
		lo = base
	}
	hi := w.End()
	if hi > base+len(window) {
		hi = base + len(window)
	}
	if lo >= hi {
		return false
	}
	copy(window[lo-base:hi-base], w.Data[lo-int(w.Address):hi-int(w.Address)])
	return true
}

// TextBuffer reassembles a fixed-width string that may arrive piecewise.
type TextBuffer struct {
	spec   BufferSpec
	window []byte
	value  string
}

func newTextBuffer(spec BufferSpec) *TextBuffer {
	return &TextBuffer{spec: spec, window: make([]byte, spec.MaxLength)}
}

func (b *TextBuffer) Spec() BufferSpec      { return b.spec }
func (b *TextBuffer) Overlaps(w Write) bool { return overlaps(b.spec, w) }
func (b *TextBuffer) Value() Value          { return TextValue(b.value) }

func (b *TextBuffer) Apply(w Write) (Value, bool) {
	if !copyOverlap(b.window, int(b.spec.Address), w) {
		return b.Value(), false
	}
	text := decodeText(b.window)
	if text == b.value {
		return b.Value(), false
	}
	b.value = text
	return b.Value(), true
}

// decodeText maps every byte to the code point of the same number (Latin-1)
// and drops the trailing run of NUL and ASCII whitespace.
func decodeText(raw []byte) string {
	end := len(raw)
	for end > 0 && isFill(raw[end-1]) {
		end--
	}
	runes := make([]rune, end)
	for i, c := range raw[:end] {
		runes[i] = rune(c)
	}
	return string(runes)
}

func isFill(c byte) bool {
	switch c {
	case 0x00, ' ', '\t', '\n', '\v', '\f', '\r':
		return true
	}
	return false
}

// IntegerBuffer extracts a bit-field from a little-endian 16-bit cell.
type IntegerBuffer struct {
	spec  BufferSpec
	cell  [2]byte
	value int
}

func (b *IntegerBuffer) Spec() BufferSpec      { return b.spec }
func (b *IntegerBuffer) Overlaps(w Write) bool { return overlaps(b.spec, w) }
func (b *IntegerBuffer) Value() Value          { return IntValue(b.value) }

func (b *IntegerBuffer) Apply(w Write) (Value, bool) {
	if !copyOverlap(b.cell[:], int(b.spec.Address), w) {
		return b.Value(), false
	}
	cell := uint16(b.cell[0]) | uint16(b.cell[1])<<8
	v := int((cell & b.spec.Mask) >> b.spec.Shift)
	if b.spec.MaxValue > 0 && v > b.spec.MaxValue {
		v = b.spec.MaxValue
	}
	if v == b.value {
		return b.Value(), false
	}
	b.value = v
	return b.Value(), true
}
