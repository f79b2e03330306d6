package aircraft

import (
	"fmt"

	"example.com/dcspy/internal/dcsbios"
	"example.com/dcspy/internal/lcd"
)

// Harrier is the AV-8B UFC scratchpad, comm channels and option display unit.
type Harrier struct {
	*table
}

func NewHarrier(name string, opts Options) *Harrier {
	specs := map[string]dcsbios.BufferSpec{
		"UFC_SCRATCHPAD":    dcsbios.TextSpec(0x7984, 12),
		"UFC_COMM1_DISPLAY": dcsbios.TextSpec(0x7954, 2),
		"UFC_COMM2_DISPLAY": dcsbios.TextSpec(0x7956, 2),
	}
	for i := 0; i < 5; i++ {
		base := uint16(0x7966 + 6*i)
		specs[fmt.Sprintf("AV8BNA_ODU_%d_SELECT", i+1)] = dcsbios.TextSpec(base, 1)
		specs[fmt.Sprintf("AV8BNA_ODU_%d_Text", i+1)] = dcsbios.TextSpec(base+2, 4)
	}
	return &Harrier{table: newTable(name, specs, nil, opts)}
}

var harrierButtons = map[Button]request{
	ButtonOne:   command("UFC_COM1_SEL -3200\n"),
	ButtonTwo:   command("UFC_COM1_SEL 3200\n"),
	ButtonThree: command("UFC_COM2_SEL -3200\n"),
	ButtonFour:  command("UFC_COM2_SEL 3200\n"),
	ButtonLeft:  command("UFC_COM1_SEL -3200\n"),
	ButtonRight: command("UFC_COM1_SEL 3200\n"),
	ButtonDown:  command("UFC_COM2_SEL -3200\n"),
	ButtonUp:    command("UFC_COM2_SEL 3200\n"),
}

func (h *Harrier) ButtonRequest(b Button) string {
	return h.dispatch(b, harrierButtons)
}

func (h *Harrier) Snapshot(_ lcd.Info) Snapshot {
	lines := []string{
		h.text("UFC_SCRATCHPAD"),
		fmt.Sprintf("[%2s]       [%2s]", h.text("UFC_COMM1_DISPLAY"), h.text("UFC_COMM2_DISPLAY")),
	}
	for i := 1; i <= 5; i++ {
		lines = append(lines, fmt.Sprintf("%d%1s%s", i,
			h.text(fmt.Sprintf("AV8BNA_ODU_%d_SELECT", i)),
			h.text(fmt.Sprintf("AV8BNA_ODU_%d_Text", i))))
	}
	return h.snapshot("", lines...)
}
