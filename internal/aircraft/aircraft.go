// Package aircraft holds the per-aircraft selector tables, value transforms,
// text layouts and button maps.
package aircraft

import (
	"fmt"
	"sort"
	"strings"

	"github.com/hashicorp/go-hclog"

	"example.com/dcspy/internal/dcsbios"
	"example.com/dcspy/internal/lcd"
)

// NoOp is the request sent for a button the aircraft does not map.
const NoOp = "\n"

// Button identifies a keyboard soft key. G13, G15 and G510 use 1-4, the G19
// uses 9-15.
type Button int

const (
	ButtonOne    Button = 1
	ButtonTwo    Button = 2
	ButtonThree  Button = 3
	ButtonFour   Button = 4
	ButtonLeft   Button = 9
	ButtonRight  Button = 10
	ButtonOK     Button = 11
	ButtonCancel Button = 12
	ButtonUp     Button = 13
	ButtonDown   Button = 14
	ButtonMenu   Button = 15
)

// Aircraft is the state of one loaded aircraft type.
type Aircraft interface {
	// Name is the aircraft name as exported by the simulator.
	Name() string
	// Specs returns the selector table the parser subscribes to.
	Specs() map[string]dcsbios.BufferSpec
	// OnValueChanged stores the transformed value and requests a redraw.
	OnValueChanged(selector string, v dcsbios.Value)
	// Value returns the stored value; unknown selectors yield empty text.
	Value(selector string) dcsbios.Value
	// ButtonRequest returns the outbound command for a pressed button.
	ButtonRequest(b Button) string
	// Snapshot returns the lines to draw on a display of the given kind.
	Snapshot(info lcd.Info) Snapshot
}

// Snapshot is what a renderer needs to draw one aircraft screen.
type Snapshot struct {
	Aircraft string
	Mode     string
	Lines    []string
}

// Options are shared by every aircraft constructor.
type Options struct {
	// Redraw is called after every accepted value change.
	Redraw func()
	Logger hclog.Logger
}

// Transform maps a decoded value to its display value. It must be pure and
// idempotent.
type Transform func(selector string, v dcsbios.Value) dcsbios.Value

func identity(_ string, v dcsbios.Value) dcsbios.Value { return v }

// request is one entry of a button map: a fixed command or the next position
// of a cycled selector.
type request struct {
	command string
	cycle   string
}

func command(s string) request { return request{command: s} }

// momentary models press and release of a push button.
func momentary(control string) request {
	return request{command: fmt.Sprintf("%s 1\n%s 0\n", control, control)}
}

func cycled(selector string) request { return request{cycle: selector} }

// table implements the selector bookkeeping every aircraft shares.
type table struct {
	name      string
	specs     map[string]dcsbios.BufferSpec
	values    map[string]dcsbios.Value
	cycles    map[string]*Cycle
	transform Transform
	redraw    func()
	logger    hclog.Logger
}

func newTable(name string, specs map[string]dcsbios.BufferSpec, transform Transform, opts Options) *table {
	logger := opts.Logger
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	if transform == nil {
		transform = identity
	}
	t := &table{
		name:      name,
		specs:     specs,
		values:    make(map[string]dcsbios.Value, len(specs)),
		cycles:    make(map[string]*Cycle),
		transform: transform,
		redraw:    opts.Redraw,
		logger:    logger.Named(name),
	}
	for sel, spec := range specs {
		t.values[sel] = dcsbios.ZeroValue(spec.Kind)
	}
	return t
}

func (t *table) Name() string { return t.name }

func (t *table) Specs() map[string]dcsbios.BufferSpec {
	out := make(map[string]dcsbios.BufferSpec, len(t.specs))
	for k, v := range t.specs {
		out[k] = v
	}
	return out
}

func (t *table) OnValueChanged(selector string, v dcsbios.Value) {
	if _, ok := t.specs[selector]; !ok {
		t.logger.Trace("value for unknown selector ignored", "selector", selector)
		return
	}
	shown := t.transform(selector, v)
	if shown.Text != v.Text {
		t.logger.Trace("value transformed", "selector", selector, "raw", v.Text)
	}
	t.values[selector] = shown
	t.logger.Debug("value changed", "selector", selector, "value", shown.String())
	if t.redraw != nil {
		t.redraw()
	}
}

func (t *table) Value(selector string) dcsbios.Value {
	if v, ok := t.values[selector]; ok {
		return v
	}
	return dcsbios.TextValue("")
}

func (t *table) text(selector string) string { return t.Value(selector).String() }

func (t *table) integer(selector string) int { return t.Value(selector).Int }

// nextCycle advances the cycle of selector, creating it from the current
// telemetry value on first use.
func (t *table) nextCycle(selector string) int {
	c, ok := t.cycles[selector]
	if !ok {
		c = NewCycle(t.integer(selector), t.specs[selector].MaxValue)
		t.cycles[selector] = c
		t.logger.Debug("cycle created", "selector", selector, "current", t.integer(selector), "max", t.specs[selector].MaxValue)
	}
	return c.Next()
}

func (t *table) dispatch(b Button, requests map[Button]request) string {
	r, ok := requests[b]
	if !ok {
		t.logger.Debug("button not mapped", "button", int(b))
		return NoOp
	}
	cmd := r.command
	if r.cycle != "" {
		cmd = fmt.Sprintf("%s %d\n", r.cycle, t.nextCycle(r.cycle))
	}
	t.logger.Debug("button request", "button", int(b), "request", strings.ReplaceAll(cmd, "\n", " "))
	return cmd
}

func (t *table) snapshot(mode string, lines ...string) Snapshot {
	return Snapshot{Aircraft: t.name, Mode: mode, Lines: lines}
}

// SelectorNames returns the selectors of a in sorted order.
func SelectorNames(a Aircraft) []string {
	specs := a.Specs()
	names := make([]string, 0, len(specs))
	for name := range specs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
