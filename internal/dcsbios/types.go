package dcsbios

import "strconv"

// BufferKind selects how the bytes behind a selector are interpreted.
type BufferKind uint8

const (
	KindText BufferKind = iota + 1
	KindInteger
)

func (k BufferKind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindInteger:
		return "integer"
	default:
		return "unknown"
	}
}

// BufferSpec is the immutable descriptor of one selector's storage.
// Text buffers use MaxLength; integer buffers use Mask, Shift and the
// optional MaxValue (zero means unbounded by anything but the mask).
type BufferSpec struct {
	Kind      BufferKind
	Address   uint16
	MaxLength int
	Mask      uint16
	Shift     uint8
	MaxValue  int
}

// TextSpec describes a string of maxLength bytes starting at address.
func TextSpec(address uint16, maxLength int) BufferSpec {
	return BufferSpec{Kind: KindText, Address: address, MaxLength: maxLength}
}

// IntegerSpec describes the bit-field (cell & mask) >> shift of the 16-bit
// cell at address.
func IntegerSpec(address, mask uint16, shift uint8) BufferSpec {
	return BufferSpec{Kind: KindInteger, Address: address, Mask: mask, Shift: shift}
}

// WithMax returns a copy of s bounded to [0, max].
func (s BufferSpec) WithMax(max int) BufferSpec {
	s.MaxValue = max
	return s
}

// span returns the half-open byte range [start, end) the buffer occupies.
func (s BufferSpec) span() (int, int) {
	start := int(s.Address)
	switch s.Kind {
	case KindText:
		return start, start + s.MaxLength
	case KindInteger:
		return start, start + 2
	default:
		return start, start
	}
}

// Write is one reconstructed (address, bytes) event from the export stream.
type Write struct {
	Address uint16
	Data    []byte
}

// End returns the address one past the last written byte.
func (w Write) End() int {
	return int(w.Address) + len(w.Data)
}

// Value is the decoded content of a selector. Kind tells which field is set.
type Value struct {
	Kind BufferKind
	Text string
	Int  int
}

// TextValue wraps s as a text value.
func TextValue(s string) Value { return Value{Kind: KindText, Text: s} }

// IntValue wraps n as an integer value.
func IntValue(n int) Value { return Value{Kind: KindInteger, Int: n} }

// ZeroValue returns the empty value for kind k.
func ZeroValue(k BufferKind) Value { return Value{Kind: k} }

func (v Value) String() string {
	if v.Kind == KindInteger {
		return strconv.Itoa(v.Int)
	}
	return v.Text
}

// Equal reports whether v and o hold the same kind and content.
func (v Value) Equal(o Value) bool {
	return v.Kind == o.Kind && v.Text == o.Text && v.Int == o.Int
}
