// Package dispatch drives the export stream through the parser into the
// loaded aircraft and turns key presses into outbound commands.
package dispatch

import (
	"errors"

	"github.com/hashicorp/go-hclog"

	"example.com/dcspy/internal/aircraft"
	"example.com/dcspy/internal/common"
	"example.com/dcspy/internal/dcsbios"
)

// AircraftNameSelector is the metadata string carrying the loaded airframe.
const AircraftNameSelector = "_ACFT_NAME"

var metadataSpecs = map[string]dcsbios.BufferSpec{
	AircraftNameSelector: dcsbios.TextSpec(0x0000, 24),
}

// ChangeHook observes every accepted value change after the aircraft's
// transform has been applied.
type ChangeHook func(aircraftName, selector string, v dcsbios.Value)

// SessionOptions configure a Session. Every field may be left zero.
type SessionOptions struct {
	Metrics  *common.Metrics
	Logger   hclog.Logger
	Redraw   func()
	OnChange ChangeHook
	// OnUnsupported is called once per unsupported aircraft name.
	OnUnsupported func(name string)
}

// Session owns the parser, the metadata buffers and the current aircraft.
// It is not safe for concurrent use.
type Session struct {
	parser      *dcsbios.Parser
	meta        *dcsbios.Registry
	current     aircraft.Aircraft
	pending     string
	swapped     bool
	unsupported string
	opts        SessionOptions
	logger      hclog.Logger
}

func NewSession(opts SessionOptions) *Session {
	if opts.Logger == nil {
		opts.Logger = hclog.NewNullLogger()
	}
	s := &Session{opts: opts, logger: opts.Logger.Named("session")}
	s.parser = dcsbios.NewParser(opts.Metrics, opts.Logger.Named("parser"))
	meta, err := dcsbios.NewRegistry(metadataSpecs, s.onMetadata)
	if err != nil {
		// metadataSpecs is fixed and valid.
		panic(err)
	}
	s.meta = meta
	s.parser.Attach(s.meta)
	s.parser.OnWriteBoundary(s.applyPending)
	return s
}

func (s *Session) onMetadata(selector string, v dcsbios.Value) {
	if selector != AircraftNameSelector || v.Text == "" {
		return
	}
	if s.current != nil && s.current.Name() == v.Text {
		s.pending = ""
		return
	}
	s.logger.Debug("aircraft change detected", "name", v.Text)
	s.pending = v.Text
}

// Feed parses one received chunk and reports whether the aircraft changed
// while doing so.
func (s *Session) Feed(chunk []byte) bool {
	s.swapped = false
	s.parser.Feed(chunk)
	return s.swapped
}

// applyPending runs between two writes. The parser holds no partial write
// there, so the new subscriptions take over from the next triplet on and
// the rest of the datagram reaches the new aircraft.
func (s *Session) applyPending() {
	if s.pending == "" {
		return
	}
	name := s.pending
	s.pending = ""
	s.swapped = true
	if err := s.load(name, s.parser.Replace); err != nil && !errors.Is(err, aircraft.ErrUnknownAircraft) {
		s.logger.Error("aircraft load failed", "name", name, "error", err)
	}
}

// Load replaces the current aircraft. The parser's subscriptions are
// swapped in one step and any partial frame is dropped, so no write is split
// between old and new buffers. For an unsupported name the current aircraft
// is unloaded.
func (s *Session) Load(name string) error {
	return s.load(name, s.parser.Attach)
}

func (s *Session) load(name string, attach func(...dcsbios.Sink)) error {
	a, err := aircraft.New(name, aircraft.Options{Redraw: s.opts.Redraw, Logger: s.opts.Logger})
	if err != nil {
		s.current = nil
		attach(s.meta)
		if errors.Is(err, aircraft.ErrUnknownAircraft) && s.unsupported != name {
			s.unsupported = name
			s.logger.Warn("aircraft not supported", "name", name)
			if s.opts.OnUnsupported != nil {
				s.opts.OnUnsupported(name)
			}
		}
		return err
	}
	reg, err := dcsbios.NewRegistry(a.Specs(), s.changeFunc(a))
	if err != nil {
		return err
	}
	attach(s.meta, reg)
	s.current = a
	s.unsupported = ""
	s.logger.Info("aircraft loaded", "name", a.Name(), "selectors", reg.Len())
	return nil
}

func (s *Session) changeFunc(a aircraft.Aircraft) dcsbios.ChangeFunc {
	return func(selector string, v dcsbios.Value) {
		a.OnValueChanged(selector, v)
		if s.opts.OnChange != nil {
			s.opts.OnChange(a.Name(), selector, a.Value(selector))
		}
	}
}

// Aircraft returns the loaded aircraft or nil.
func (s *Session) Aircraft() aircraft.Aircraft { return s.current }

// DetectedName returns the last aircraft name the simulator exported.
func (s *Session) DetectedName() string {
	v, _ := s.meta.Value(AircraftNameSelector)
	return v.Text
}

// Press returns the outbound command for b, or the no-op command when no
// aircraft is loaded.
func (s *Session) Press(b aircraft.Button) string {
	if s.current == nil {
		return aircraft.NoOp
	}
	return s.current.ButtonRequest(b)
}

// Reset drops any partial frame, as after a stop.
func (s *Session) Reset() { s.parser.Reset() }
