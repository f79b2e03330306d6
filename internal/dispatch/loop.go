package dispatch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"time"

	"github.com/hashicorp/go-hclog"

	"example.com/dcspy/internal/aircraft"
	"example.com/dcspy/internal/common"
	"example.com/dcspy/internal/display"
	"example.com/dcspy/internal/lcd"
	"example.com/dcspy/internal/render"
	"example.com/dcspy/internal/transport"
)

const (
	bannerWidth = 26
	banner      = "DCSpy mirrors DCS-BIOS cockpit exports on Logitech keyboards. " +
		"Thanks to everyone who reported bugs and tested new airframes. "
)

// Renderer turns an aircraft snapshot into a frame.
type Renderer interface {
	Render(snap aircraft.Snapshot, info lcd.Info) (*render.Image, error)
}

// Options configure a Loop.
type Options struct {
	LCD      lcd.Info
	Renderer Renderer
	Display  display.Display
	Sender   transport.Sender
	Keypad   Keypad
	Metrics  *common.Metrics
	Logger   hclog.Logger
	OnChange ChangeHook
	// Aircraft, when set, is loaded before the first datagram.
	Aircraft string
	Version  string
	// Now is the clock; tests replace it.
	Now func() time.Time
}

// Loop is the single-threaded receive and dispatch loop.
type Loop struct {
	source    transport.Source
	session   *Session
	opts      Options
	logger    hclog.Logger
	lastData  time.Time
	bannerPos int
}

func NewLoop(src transport.Source, opts Options) *Loop {
	if opts.Logger == nil {
		opts.Logger = hclog.NewNullLogger()
	}
	if opts.Renderer == nil {
		opts.Renderer = render.NewTextRenderer(opts.Logger)
	}
	if opts.Display == nil {
		opts.Display = display.Discard{}
	}
	if opts.LCD.Width == 0 {
		opts.LCD = lcd.MonoInfo
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	l := &Loop{source: src, opts: opts, logger: opts.Logger.Named("loop")}
	l.session = NewSession(SessionOptions{
		Metrics:       opts.Metrics,
		Logger:        opts.Logger,
		Redraw:        l.redraw,
		OnChange:      opts.OnChange,
		OnUnsupported: l.showUnsupported,
	})
	return l
}

// Session exposes the loop's session.
func (l *Loop) Session() *Session { return l.session }

// Run receives until ctx is cancelled or the source is exhausted. Receive
// timeouts only update the status view.
func (l *Loop) Run(ctx context.Context) error {
	l.opts.Metrics.Start()
	defer l.opts.Metrics.Stop()
	l.lastData = l.opts.Now()
	if l.opts.Aircraft != "" {
		if err := l.session.Load(l.opts.Aircraft); err != nil {
			l.logger.Warn("configured aircraft not loaded", "name", l.opts.Aircraft, "error", err)
		}
	}

	logged := false
	for {
		if ctx.Err() != nil {
			l.stop()
			return nil
		}
		var err error
		logged, err = l.step(ctx, logged)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			if ctx.Err() != nil {
				l.stop()
				return nil
			}
			return err
		}
	}
}

// step runs one iteration. logged tells whether the current outage has
// already been logged; the updated flag is returned.
func (l *Loop) step(ctx context.Context, logged bool) (bool, error) {
	data, err := l.source.Receive(ctx)
	switch {
	case err == nil:
		l.lastData = l.opts.Now()
		l.session.Feed(data)
		logged = false
	case errors.Is(err, io.EOF), errors.Is(err, net.ErrClosed),
		errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return logged, err
	default:
		if !logged {
			l.logger.Debug("no data from export stream", "error", err)
			logged = true
		}
		l.showDisconnected()
	}
	l.pollKeypad()
	return logged, nil
}

func (l *Loop) pollKeypad() {
	if l.opts.Keypad == nil {
		return
	}
	for _, b := range l.opts.Keypad.Poll() {
		cmd := l.session.Press(b)
		if cmd == aircraft.NoOp || l.opts.Sender == nil {
			continue
		}
		if err := l.opts.Sender.Send(cmd); err != nil {
			l.logger.Debug("command not sent", "error", err)
		}
	}
}

func (l *Loop) redraw() {
	a := l.session.Aircraft()
	if a == nil {
		return
	}
	l.show(a.Snapshot(l.opts.LCD))
}

func (l *Loop) show(snap aircraft.Snapshot) {
	img, err := l.opts.Renderer.Render(snap, l.opts.LCD)
	if err != nil {
		l.logger.Debug("render failed", "aircraft", snap.Aircraft, "error", err)
		return
	}
	if err := l.opts.Display.Update(img); err != nil {
		l.logger.Debug("display update failed", "error", err)
	}
}

func (l *Loop) status(lines ...string) {
	l.show(aircraft.Snapshot{Mode: "status", Lines: lines})
}

// DisconnectedLines returns the status view shown while no data arrives.
// Every call advances the banner by one column.
func (l *Loop) DisconnectedLines() []string {
	elapsed := l.opts.Now().Sub(l.lastData)
	if elapsed < 0 {
		elapsed = 0
	}
	secs := int(elapsed / time.Second)
	window := []rune(banner[l.bannerPos:] + banner[:l.bannerPos])[:bannerWidth]
	l.bannerPos = (l.bannerPos + 1) % len(banner)
	lcdState := "Logitech LCD OK"
	if !l.opts.Display.IsConnected() {
		lcdState = "Logitech LCD not found"
	}
	return []string{
		lcdState,
		fmt.Sprintf("No data from DCS:   %02d:%02d", (secs/60)%60, secs%60),
		string(window),
		l.opts.Version,
	}
}

func (l *Loop) showDisconnected() {
	l.status(l.DisconnectedLines()...)
}

func (l *Loop) showUnsupported(name string) {
	l.status("Aircraft not supported:", name)
}

func (l *Loop) stop() {
	l.session.Reset()
	l.status("DCSpy stopped", l.opts.Version)
	l.logger.Info("dispatch loop stopped")
}
