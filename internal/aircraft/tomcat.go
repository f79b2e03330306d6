package aircraft

import (
	"example.com/dcspy/internal/dcsbios"
	"example.com/dcspy/internal/lcd"
)

// Tomcat is the F-14 RIO computer address panel keys.
type Tomcat struct {
	*table
}

func NewTomcat(name string, opts Options) *Tomcat {
	specs := map[string]dcsbios.BufferSpec{
		"RIO_CAP_CLEAR": dcsbios.IntegerSpec(0x12c4, 0x4000, 14),
		"RIO_CAP_SW":    dcsbios.IntegerSpec(0x12c4, 0x2000, 13),
		"RIO_CAP_NE":    dcsbios.IntegerSpec(0x12c4, 0x1000, 12),
		"RIO_CAP_ENTER": dcsbios.IntegerSpec(0x12c4, 0x8000, 15),
	}
	return &Tomcat{table: newTable(name, specs, nil, opts)}
}

var tomcatButtons = map[Button]request{
	ButtonOne:   momentary("RIO_CAP_CLEAR"),
	ButtonTwo:   momentary("RIO_CAP_SW"),
	ButtonThree: momentary("RIO_CAP_NE"),
	ButtonFour:  momentary("RIO_CAP_ENTER"),
	ButtonLeft:  momentary("RIO_CAP_CLEAR"),
	ButtonRight: momentary("RIO_CAP_SW"),
	ButtonDown:  momentary("RIO_CAP_NE"),
	ButtonUp:    momentary("RIO_CAP_ENTER"),
}

func (t *Tomcat) ButtonRequest(b Button) string {
	return t.dispatch(b, tomcatButtons)
}

func (t *Tomcat) Snapshot(_ lcd.Info) Snapshot {
	return t.snapshot("", "F-14B Tomcat")
}
