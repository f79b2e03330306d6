package aircraft

import (
	"strings"

	"example.com/dcspy/internal/dcsbios"
	"example.com/dcspy/internal/lcd"
)

// BlackShark is the Ka-50 PVI-800 navigation panel and autopilot lamps.
type BlackShark struct {
	*table
}

func NewBlackShark(name string, opts Options) *BlackShark {
	specs := map[string]dcsbios.BufferSpec{
		"PVI_LINE1_APOSTROPHE1": dcsbios.TextSpec(0x1934, 1),
		"PVI_LINE1_APOSTROPHE2": dcsbios.TextSpec(0x1936, 1),
		"PVI_LINE1_POINT":       dcsbios.TextSpec(0x1930, 1),
		"PVI_LINE1_SIGN":        dcsbios.TextSpec(0x1920, 1),
		"PVI_LINE1_TEXT":        dcsbios.TextSpec(0x1924, 6),
		"PVI_LINE2_APOSTROPHE1": dcsbios.TextSpec(0x1938, 1),
		"PVI_LINE2_APOSTROPHE2": dcsbios.TextSpec(0x193a, 1),
		"PVI_LINE2_POINT":       dcsbios.TextSpec(0x1932, 1),
		"PVI_LINE2_SIGN":        dcsbios.TextSpec(0x1922, 1),
		"PVI_LINE2_TEXT":        dcsbios.TextSpec(0x192a, 6),
		"AP_ALT_HOLD_LED":       dcsbios.IntegerSpec(0x1936, 0x8000, 15),
		"AP_BANK_HOLD_LED":      dcsbios.IntegerSpec(0x1936, 0x0200, 9),
		"AP_FD_LED":             dcsbios.IntegerSpec(0x1938, 0x0200, 9),
		"AP_HDG_HOLD_LED":       dcsbios.IntegerSpec(0x1936, 0x0800, 11),
		"AP_PITCH_HOLD_LED":     dcsbios.IntegerSpec(0x1936, 0x2000, 13),
	}
	return &BlackShark{table: newTable(name, specs, nil, opts)}
}

var blackSharkButtons = map[Button]request{
	ButtonOne:   momentary("PVI_WAYPOINTS_BTN"),
	ButtonTwo:   momentary("PVI_FIXPOINTS_BTN"),
	ButtonThree: momentary("PVI_AIRFIELDS_BTN"),
	ButtonFour:  momentary("PVI_TARGETS_BTN"),
	ButtonLeft:  momentary("PVI_WAYPOINTS_BTN"),
	ButtonRight: momentary("PVI_FIXPOINTS_BTN"),
	ButtonDown:  momentary("PVI_AIRFIELDS_BTN"),
	ButtonUp:    momentary("PVI_TARGETS_BTN"),
}

func (k *BlackShark) ButtonRequest(b Button) string {
	return k.dispatch(b, blackSharkButtons)
}

// pviLine puts the apostrophes and the decimal point into a PVI line:
// "123456" becomes "123'45'6".
func (k *BlackShark) pviLine(n string) string {
	var body string
	if text := []rune(k.text("PVI_LINE" + n + "_TEXT")); len(text) > 0 {
		body = tail(text, 6, 3) + k.text("PVI_LINE"+n+"_APOSTROPHE1") +
			tail(text, 3, 1) + k.text("PVI_LINE"+n+"_APOSTROPHE2") +
			tail(text, 1, 0)
	}
	return k.text("PVI_LINE"+n+"_SIGN") + body + " " + k.text("PVI_LINE"+n+"_POINT")
}

// tail returns the runes from len-from up to len-to, clamped to the slice.
func tail(r []rune, from, to int) string {
	start, end := len(r)-from, len(r)-to
	if start < 0 {
		start = 0
	}
	if end < start {
		return ""
	}
	return string(r[start:end])
}

func (k *BlackShark) autopilot() string {
	channels := []struct {
		label    string
		selector string
	}{
		{"B", "AP_BANK_HOLD_LED"},
		{"P", "AP_PITCH_HOLD_LED"},
		{"F", "AP_FD_LED"},
		{"H", "AP_HDG_HOLD_LED"},
		{"A", "AP_ALT_HOLD_LED"},
	}
	var b strings.Builder
	b.WriteString("AP")
	for _, ch := range channels {
		if k.integer(ch.selector) != 0 {
			b.WriteString(" [" + ch.label + "]")
		} else {
			b.WriteString("  " + ch.label + " ")
		}
	}
	return b.String()
}

func (k *BlackShark) Snapshot(_ lcd.Info) Snapshot {
	return k.snapshot("", k.pviLine("1"), k.pviLine("2"), k.autopilot())
}
