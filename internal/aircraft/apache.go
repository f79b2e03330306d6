package aircraft

import (
	"fmt"
	"regexp"
	"strings"

	"example.com/dcspy/internal/dcsbios"
	"example.com/dcspy/internal/lcd"
)

// EufdMode is the page the Apache EUFD mirror shows.
type EufdMode uint8

const (
	// ModeIDM shows radio frequencies (IDM page).
	ModeIDM EufdMode = iota + 1
	// ModeWCA shows the scrollable warning, caution and advisory list.
	ModeWCA
	// ModePRE shows the radio preset page.
	ModePRE
)

func (m EufdMode) String() string {
	switch m {
	case ModeIDM:
		return "IDM"
	case ModeWCA:
		return "WCA"
	case ModePRE:
		return "PRE"
	default:
		return "unknown"
	}
}

const wcaWindow = 5

// Apache mirrors the AH-64D pilot EUFD.
type Apache struct {
	*table
	mode        EufdMode
	warningLine int
}

func NewApache(name string, opts Options) *Apache {
	specs := map[string]dcsbios.BufferSpec{
		"PLT_EUFD_LINE1":  dcsbios.TextSpec(0x80c0, 56),
		"PLT_EUFD_LINE2":  dcsbios.TextSpec(0x80f8, 56),
		"PLT_EUFD_LINE3":  dcsbios.TextSpec(0x8130, 56),
		"PLT_EUFD_LINE4":  dcsbios.TextSpec(0x8168, 56),
		"PLT_EUFD_LINE5":  dcsbios.TextSpec(0x81a0, 56),
		"PLT_EUFD_LINE6":  dcsbios.TextSpec(0x81d8, 56),
		"PLT_EUFD_LINE7":  dcsbios.TextSpec(0x8210, 56),
		"PLT_EUFD_LINE8":  dcsbios.TextSpec(0x8248, 56),
		"PLT_EUFD_LINE9":  dcsbios.TextSpec(0x8280, 56),
		"PLT_EUFD_LINE10": dcsbios.TextSpec(0x82b8, 56),
		"PLT_EUFD_LINE11": dcsbios.TextSpec(0x82f0, 56),
		"PLT_EUFD_LINE12": dcsbios.TextSpec(0x8328, 56),
		"PLT_EUFD_LINE14": dcsbios.TextSpec(0x8398, 56),
	}
	return &Apache{
		table:       newTable(name, specs, apacheTransform, opts),
		mode:        ModeIDM,
		warningLine: 1,
	}
}

var (
	eufdSymbols = strings.NewReplacer("]", "♦", "[", "◊", "~", "■", ">", "▸", "<", "◂", "=", "∙")
	eufdArrow   = strings.NewReplacer("!", "→")
	presetTune  = regexp.MustCompile(`.*\|.*\|(PRESET TUNE)\s\w+`)
	idmLine     = regexp.MustCompile(`(.*\*)\s+(\d+)([\.\dULCA]+)[-\sA-Z]*(\d+)([\.\dULCA]+)[\s-]+`)
	wcaLine     = regexp.MustCompile(`(.*)\|(.*)\|(.*)`)
	preLeft     = regexp.MustCompile(`.*\|.*\|([→\s][A-Z\d/]*)\s*([\d\.]*)\s+`)
	preRight    = regexp.MustCompile(`\s*\|([→\s][A-Z\d/]*)\s*([\d\.]*)\s+`)
	preCommand  = regexp.MustCompile(`.*\|.*\|([→\s]CO CMD)\s*([\d\.]*)\s+`)
)

func apacheTransform(selector string, v dcsbios.Value) dcsbios.Value {
	switch selector {
	case "PLT_EUFD_LINE8", "PLT_EUFD_LINE9", "PLT_EUFD_LINE10", "PLT_EUFD_LINE11", "PLT_EUFD_LINE12":
		v.Text = eufdSymbols.Replace(v.Text)
	}
	if strings.HasPrefix(selector, "PLT_EUFD_LINE") {
		v.Text = eufdArrow.Replace(v.Text)
	}
	return v
}

// OnValueChanged switches between the IDM and preset pages whenever the
// first EUFD line changes, then stores the value.
func (a *Apache) OnValueChanged(selector string, v dcsbios.Value) {
	if selector == "PLT_EUFD_LINE1" {
		a.mode = ModeIDM
		if presetTune.MatchString(v.Text) {
			a.mode = ModePRE
		}
	}
	a.table.OnValueChanged(selector, v)
}

// Mode returns the current EUFD page.
func (a *Apache) Mode() EufdMode { return a.mode }

// WarningLine returns the 1-based index of the first warning shown on the
// WCA page.
func (a *Apache) WarningLine() int { return a.warningLine }

func (a *Apache) ButtonRequest(b Button) string {
	pageToggle := "PLT_EUFD_WCA 0\nPLT_EUFD_WCA 1\n"
	if a.mode == ModeIDM {
		pageToggle = "PLT_EUFD_IDM 0\nPLT_EUFD_IDM 1\n"
	}

	if b == ButtonFour || b == ButtonUp {
		if a.mode == ModeIDM {
			a.mode = ModeWCA
		} else {
			a.mode = ModeIDM
		}
	}
	if (b == ButtonOne || b == ButtonLeft) && a.mode == ModeWCA {
		a.warningLine++
		if a.warningLine > len(a.warnings()) {
			a.warningLine = 1
		}
	}

	return a.dispatch(b, map[Button]request{
		ButtonOne:   command(pageToggle),
		ButtonTwo:   command("PLT_EUFD_RTS 0\nPLT_EUFD_RTS 1\n"),
		ButtonThree: command("PLT_EUFD_PRESET 0\nPLT_EUFD_PRESET 1\n"),
		ButtonFour:  command("PLT_EUFD_ENT 0\nPLT_EUFD_ENT 1\n"),
		ButtonLeft:  command(pageToggle),
		ButtonRight: command("PLT_EUFD_RTS 0\nPLT_EUFD_RTS 1\n"),
		ButtonDown:  command("PLT_EUFD_PRESET 0\nPLT_EUFD_PRESET 1\n"),
		ButtonUp:    command("PLT_EUFD_ENT 0\nPLT_EUFD_ENT 1\n"),
	})
}

func (a *Apache) line(i int) string {
	return a.text(fmt.Sprintf("PLT_EUFD_LINE%d", i))
}

// warnings collects the non-empty entries of the three WCA columns in lines
// 1 to 7.
func (a *Apache) warnings() []string {
	var out []string
	for i := 1; i <= 7; i++ {
		m := wcaLine.FindStringSubmatch(a.line(i))
		if m == nil {
			continue
		}
		for _, w := range m[1:] {
			if w = strings.TrimSpace(w); w != "" {
				out = append(out, w)
			}
		}
	}
	return out
}

func (a *Apache) Snapshot(_ lcd.Info) Snapshot {
	var lines []string
	switch a.mode {
	case ModeWCA:
		lines = a.wcaLines()
	case ModePRE:
		lines = a.preLines()
	default:
		lines = a.idmLines()
	}
	return a.snapshot(a.mode.String(), lines...)
}

func (a *Apache) idmLines() []string {
	var lines []string
	for i := 8; i <= 12; i++ {
		m := idmLine.FindStringSubmatch(a.line(i))
		if m == nil {
			continue
		}
		spacer := strings.Repeat(" ", max(0, 6-len([]rune(m[3]))))
		lines = append(lines, fmt.Sprintf("%7s%4s%s%s%4s%s", m[1], m[2], m[3], spacer, m[4], m[5]))
	}
	return lines
}

func (a *Apache) wcaLines() []string {
	warnings := a.warnings()
	start := a.warningLine
	if start > len(warnings) {
		start = 1
	}
	var lines []string
	for i := start - 1; i < len(warnings) && i < start-1+wcaWindow; i++ {
		lines = append(lines, fmt.Sprintf("%2d %s", i+1, warnings[i]))
	}
	return lines
}

func (a *Apache) preLines() []string {
	column := func(i int) string {
		re := preRight
		switch {
		case i == 2:
			re = preCommand
		case i <= 5:
			re = preLeft
		}
		m := re.FindStringSubmatch(a.line(i))
		if m == nil {
			return ""
		}
		return fmt.Sprintf("%-9s%7s", m[1], m[2])
	}
	lines := make([]string, 0, 5)
	for j := 0; j < 5; j++ {
		lines = append(lines, fmt.Sprintf("%-16s %s", column(2+j), column(7+j)))
	}
	return lines
}
