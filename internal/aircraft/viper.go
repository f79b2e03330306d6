package aircraft

import (
	"fmt"
	"strings"

	"example.com/dcspy/internal/dcsbios"
	"example.com/dcspy/internal/lcd"
)

// Viper is the F-16C DED plus the IFF panel switches.
type Viper struct {
	*table
}

func NewViper(name string, opts Options) *Viper {
	specs := map[string]dcsbios.BufferSpec{
		"DED_LINE_1":      dcsbios.TextSpec(0x4504, 29),
		"DED_LINE_2":      dcsbios.TextSpec(0x4522, 29),
		"DED_LINE_3":      dcsbios.TextSpec(0x4540, 29),
		"DED_LINE_4":      dcsbios.TextSpec(0x455e, 29),
		"DED_LINE_5":      dcsbios.TextSpec(0x457c, 29),
		"IFF_MASTER_KNB":  dcsbios.IntegerSpec(0x4450, 0x000e, 1).WithMax(4),
		"IFF_ENABLE_SW":   dcsbios.IntegerSpec(0x4450, 0x0600, 9).WithMax(2),
		"IFF_M4_CODE_SW":  dcsbios.IntegerSpec(0x4450, 0x0030, 4).WithMax(2),
		"IFF_M4_REPLY_SW": dcsbios.IntegerSpec(0x4450, 0x00c0, 6).WithMax(2),
	}
	return &Viper{table: newTable(name, specs, viperTransform, opts)}
}

// DED control codes with no glyph on the keyboard display.
var dedStrip = strings.NewReplacer(
	"\u0082", "", // list, R
	"\x03", "",
	"@", "", // list, 6
	"\x02", "", // list, 7
	"\u0080", "", // 1, T-ILS
	"\x08", "", // 7, MARK
)

var dedGlyphs = strings.NewReplacer("o", "°", "a", "♦")

func viperTransform(selector string, v dcsbios.Value) dcsbios.Value {
	if !strings.HasPrefix(selector, "DED_LINE_") {
		return v
	}
	text := v.Text
	for {
		next := strings.ReplaceAll(dedStrip.Replace(text), "A\x10\x04", "")
		if next == text {
			break
		}
		text = next
	}
	v.Text = dedGlyphs.Replace(text)
	return v
}

var viperButtons = map[Button]request{
	ButtonOne:   cycled("IFF_MASTER_KNB"),
	ButtonTwo:   cycled("IFF_ENABLE_SW"),
	ButtonThree: cycled("IFF_M4_CODE_SW"),
	ButtonFour:  cycled("IFF_M4_REPLY_SW"),
	ButtonLeft:  cycled("IFF_MASTER_KNB"),
	ButtonRight: cycled("IFF_ENABLE_SW"),
	ButtonDown:  cycled("IFF_M4_CODE_SW"),
	ButtonUp:    cycled("IFF_M4_REPLY_SW"),
}

func (v *Viper) ButtonRequest(b Button) string {
	return v.dispatch(b, viperButtons)
}

func (v *Viper) Snapshot(_ lcd.Info) Snapshot {
	lines := make([]string, 0, 5)
	for i := 1; i <= 5; i++ {
		lines = append(lines, v.text(fmt.Sprintf("DED_LINE_%d", i)))
	}
	return v.snapshot("", lines...)
}
