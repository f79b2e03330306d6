package aircraft

import (
	"strconv"

	"example.com/dcspy/internal/dcsbios"
	"example.com/dcspy/internal/lcd"
)

// Warthog is the A-10C radio stack: VHF AM, VHF FM and UHF frequencies.
type Warthog struct {
	*table
}

func NewWarthog(name string, opts Options) *Warthog {
	specs := map[string]dcsbios.BufferSpec{
		"VHFAM_FREQ1":       dcsbios.TextSpec(0x1190, 2),
		"VHFAM_FREQ2":       dcsbios.IntegerSpec(0x118e, 0x00f0, 4),
		"VHFAM_FREQ3":       dcsbios.IntegerSpec(0x118e, 0x0f00, 8),
		"VHFAM_FREQ4":       dcsbios.TextSpec(0x1192, 2),
		"VHFFM_FREQ1":       dcsbios.TextSpec(0x119a, 2),
		"VHFFM_FREQ2":       dcsbios.IntegerSpec(0x119c, 0x000f, 0),
		"VHFFM_FREQ3":       dcsbios.IntegerSpec(0x119c, 0x00f0, 4),
		"VHFFM_FREQ4":       dcsbios.TextSpec(0x119e, 2),
		"UHF_100MHZ_SEL":    dcsbios.TextSpec(0x1178, 1),
		"UHF_10MHZ_SEL":     dcsbios.IntegerSpec(0x1170, 0x3c00, 10),
		"UHF_1MHZ_SEL":      dcsbios.IntegerSpec(0x1178, 0x0f00, 8),
		"UHF_POINT1MHZ_SEL": dcsbios.IntegerSpec(0x1178, 0xf000, 12),
		"UHF_POINT25_SEL":   dcsbios.TextSpec(0x117a, 2),
	}
	return &Warthog{table: newTable(name, specs, nil, opts)}
}

// The A-10C exposes no soft-key bindings.
func (w *Warthog) ButtonRequest(b Button) string {
	return w.dispatch(b, nil)
}

func (w *Warthog) frequency(radio string) string {
	return w.text(radio+"_FREQ1") + strconv.Itoa(w.integer(radio+"_FREQ2")) + "." +
		strconv.Itoa(w.integer(radio+"_FREQ3")) + w.text(radio+"_FREQ4")
}

func (w *Warthog) uhf() string {
	return w.text("UHF_100MHZ_SEL") + strconv.Itoa(w.integer("UHF_10MHZ_SEL")) +
		strconv.Itoa(w.integer("UHF_1MHZ_SEL")) + "." +
		strconv.Itoa(w.integer("UHF_POINT1MHZ_SEL")) + w.text("UHF_POINT25_SEL")
}

func (w *Warthog) Snapshot(_ lcd.Info) Snapshot {
	return w.snapshot("",
		"      *** RADIOS ***",
		"VHF AM: "+w.frequency("VHFAM")+" MHz",
		"VHF FM: "+w.frequency("VHFFM")+" MHz",
		"   UHF: "+w.uhf()+" MHz",
	)
}
