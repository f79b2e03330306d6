package aircraft

import (
	"fmt"
	"strings"

	"example.com/dcspy/internal/dcsbios"
	"example.com/dcspy/internal/lcd"
)

// Hornet is the F/A-18C UFC and IFEI fuel readout.
type Hornet struct {
	*table
}

func NewHornet(name string, opts Options) *Hornet {
	specs := map[string]dcsbios.BufferSpec{
		"UFC_SCRATCHPAD_STRING_1_DISPLAY": dcsbios.TextSpec(0x744e, 2),
		"UFC_SCRATCHPAD_STRING_2_DISPLAY": dcsbios.TextSpec(0x7450, 2),
		"UFC_SCRATCHPAD_NUMBER_DISPLAY":   dcsbios.TextSpec(0x7446, 8),
		"UFC_OPTION_DISPLAY_1":            dcsbios.TextSpec(0x7432, 4),
		"UFC_OPTION_DISPLAY_2":            dcsbios.TextSpec(0x7436, 4),
		"UFC_OPTION_DISPLAY_3":            dcsbios.TextSpec(0x743a, 4),
		"UFC_OPTION_DISPLAY_4":            dcsbios.TextSpec(0x743e, 4),
		"UFC_OPTION_DISPLAY_5":            dcsbios.TextSpec(0x7442, 4),
		"UFC_COMM1_DISPLAY":               dcsbios.TextSpec(0x7424, 2),
		"UFC_COMM2_DISPLAY":               dcsbios.TextSpec(0x7426, 2),
		"UFC_OPTION_CUEING_1":             dcsbios.TextSpec(0x7428, 1),
		"UFC_OPTION_CUEING_2":             dcsbios.TextSpec(0x742a, 1),
		"UFC_OPTION_CUEING_3":             dcsbios.TextSpec(0x742c, 1),
		"UFC_OPTION_CUEING_4":             dcsbios.TextSpec(0x742e, 1),
		"UFC_OPTION_CUEING_5":             dcsbios.TextSpec(0x7430, 1),
		"IFEI_FUEL_DOWN":                  dcsbios.TextSpec(0x748a, 6),
		"IFEI_FUEL_UP":                    dcsbios.TextSpec(0x7490, 6),
	}
	return &Hornet{table: newTable(name, specs, hornetTransform, opts)}
}

var hornetDigits = strings.NewReplacer("`", "1", "~", "2")

// hornetTransform restores the channel digits the UFC encodes as glyphs.
func hornetTransform(selector string, v dcsbios.Value) dcsbios.Value {
	switch selector {
	case "UFC_SCRATCHPAD_STRING_1_DISPLAY", "UFC_SCRATCHPAD_STRING_2_DISPLAY",
		"UFC_COMM1_DISPLAY", "UFC_COMM2_DISPLAY":
		v.Text = hornetDigits.Replace(v.Text)
	}
	return v
}

var hornetButtons = map[Button]request{
	ButtonOne:    command("UFC_COMM1_CHANNEL_SELECT DEC\n"),
	ButtonTwo:    command("UFC_COMM1_CHANNEL_SELECT INC\n"),
	ButtonThree:  command("UFC_COMM2_CHANNEL_SELECT DEC\n"),
	ButtonFour:   command("UFC_COMM2_CHANNEL_SELECT INC\n"),
	ButtonLeft:   command("UFC_COMM1_CHANNEL_SELECT DEC\n"),
	ButtonRight:  command("UFC_COMM1_CHANNEL_SELECT INC\n"),
	ButtonDown:   command("UFC_COMM2_CHANNEL_SELECT DEC\n"),
	ButtonUp:     command("UFC_COMM2_CHANNEL_SELECT INC\n"),
	ButtonMenu:   momentary("IFEI_DWN_BTN"),
	ButtonCancel: momentary("IFEI_UP_BTN"),
}

func (h *Hornet) ButtonRequest(b Button) string {
	return h.dispatch(b, hornetButtons)
}

func (h *Hornet) Snapshot(info lcd.Info) Snapshot {
	lines := []string{
		h.text("UFC_SCRATCHPAD_STRING_1_DISPLAY") + h.text("UFC_SCRATCHPAD_STRING_2_DISPLAY") + h.text("UFC_SCRATCHPAD_NUMBER_DISPLAY"),
		fmt.Sprintf("[%2s] %6s [%2s]", h.text("UFC_COMM1_DISPLAY"), h.text("IFEI_FUEL_UP"), h.text("UFC_COMM2_DISPLAY")),
	}
	for i := 1; i <= 5; i++ {
		lines = append(lines, fmt.Sprintf("%d%s%s", i,
			h.text(fmt.Sprintf("UFC_OPTION_CUEING_%d", i)),
			h.text(fmt.Sprintf("UFC_OPTION_DISPLAY_%d", i))))
	}
	if info.Kind == lcd.Color {
		lines = append(lines, fmt.Sprintf("     %6s", h.text("IFEI_FUEL_DOWN")))
	}
	return h.snapshot("", lines...)
}
