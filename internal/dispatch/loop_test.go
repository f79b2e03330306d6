package dispatch

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/hashicorp/go-hclog"

	"example.com/dcspy/internal/aircraft"
	"example.com/dcspy/internal/dcsbios"
	"example.com/dcspy/internal/lcd"
	"example.com/dcspy/internal/render"
	"example.com/dcspy/internal/transport"
)

type result struct {
	data []byte
	err  error
}

type scriptSource struct {
	script []result
}

func (s *scriptSource) Receive(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(s.script) == 0 {
		return nil, io.EOF
	}
	r := s.script[0]
	s.script = s.script[1:]
	return r.data, r.err
}

func (s *scriptSource) Close() error { return nil }

type fakeRenderer struct {
	snaps []aircraft.Snapshot
}

func (f *fakeRenderer) Render(snap aircraft.Snapshot, info lcd.Info) (*render.Image, error) {
	f.snaps = append(f.snaps, snap)
	return render.NewImage(info), nil
}

type fakeSender struct {
	sent []string
}

func (f *fakeSender) Send(cmd string) error {
	f.sent = append(f.sent, cmd)
	return nil
}

type scriptKeypad struct {
	polls [][]aircraft.Button
}

func (k *scriptKeypad) Poll() []aircraft.Button {
	if len(k.polls) == 0 {
		return nil
	}
	b := k.polls[0]
	k.polls = k.polls[1:]
	return b
}

var timeout = result{err: transport.ErrTimeout}

func fixedClock() func() time.Time {
	t0 := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	return func() time.Time { return t0 }
}

func TestLoopDisconnectedView(t *testing.T) {
	r := &fakeRenderer{}
	l := NewLoop(&scriptSource{script: []result{timeout, timeout}}, Options{
		Renderer: r,
		Version:  "v3.1.0",
		Now:      fixedClock(),
	})
	if err := l.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(r.snaps) != 2 {
		t.Fatalf("frames %d want 2", len(r.snaps))
	}
	first, second := r.snaps[0].Lines, r.snaps[1].Lines
	if len(first) != 4 || first[0] != "Logitech LCD OK" || first[1] != "No data from DCS:   00:00" || first[3] != "v3.1.0" {
		t.Fatalf("status lines %q", first)
	}
	if len([]rune(first[2])) != bannerWidth || first[2] != banner[:bannerWidth] {
		t.Fatalf("banner %q", first[2])
	}
	if second[2] != banner[1:bannerWidth+1] {
		t.Fatalf("banner did not rotate: %q", second[2])
	}
}

func TestLoopElapsedSinceLastData(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	r := &fakeRenderer{}
	l := NewLoop(&scriptSource{script: []result{timeout}}, Options{
		Renderer: r,
		Now: func() time.Time {
			now = now.Add(65 * time.Second)
			return now
		},
	})
	if err := l.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got := r.snaps[0].Lines[1]; got != "No data from DCS:   01:05" {
		t.Fatalf("elapsed line %q", got)
	}
}

func TestLoopLogsOutageOnce(t *testing.T) {
	var logs bytes.Buffer
	logger := hclog.New(&hclog.LoggerOptions{Name: "test", Level: hclog.Debug, Output: &logs})
	frame := dcsbios.EncodeFrame(dcsbios.Write{Address: 0x0000, Data: []byte("A-10C")})
	l := NewLoop(&scriptSource{script: []result{timeout, timeout, {data: frame}, timeout, timeout}}, Options{
		Renderer: &fakeRenderer{},
		Logger:   logger,
		Now:      fixedClock(),
	})
	if err := l.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if n := strings.Count(logs.String(), "no data from export stream"); n != 2 {
		t.Fatalf("outage logged %d times, want 2:\n%s", n, logs.String())
	}
}

func TestLoopSendsButtonCommands(t *testing.T) {
	r := &fakeRenderer{}
	sender := &fakeSender{}
	script := []result{
		{data: dcsbios.EncodeFrame(dcsbios.Write{Address: 0x0000, Data: []byte("F-16C_50")})},
		{data: dcsbios.EncodeFrame(dcsbios.Write{Address: 0x4450, Data: []byte{0x04, 0x00}})},
	}
	l := NewLoop(&scriptSource{script: script}, Options{
		LCD:      lcd.MonoInfo,
		Renderer: r,
		Sender:   sender,
		Keypad:   &scriptKeypad{polls: [][]aircraft.Button{nil, {aircraft.ButtonOne, aircraft.ButtonOK, aircraft.ButtonOne}}},
		Now:      fixedClock(),
	})
	if err := l.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	want := []string{"IFF_MASTER_KNB 3\n", "IFF_MASTER_KNB 4\n"}
	if len(sender.sent) != len(want) || sender.sent[0] != want[0] || sender.sent[1] != want[1] {
		t.Fatalf("sent %q want %q", sender.sent, want)
	}
	if len(r.snaps) != 1 || r.snaps[0].Aircraft != "F-16C_50" {
		t.Fatalf("redraws %+v", r.snaps)
	}
}

func TestLoopConfiguredAircraft(t *testing.T) {
	var changes []string
	l := NewLoop(&scriptSource{script: []result{
		{data: dcsbios.EncodeFrame(dcsbios.Write{Address: 0x12c4, Data: []byte{0x00, 0x80}})},
	}}, Options{
		Renderer: &fakeRenderer{},
		Aircraft: "F-14B",
		OnChange: func(a, sel string, v dcsbios.Value) { changes = append(changes, a+" "+sel+"="+v.String()) },
	})
	if err := l.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(changes) != 1 || changes[0] != "F-14B RIO_CAP_ENTER=1" {
		t.Fatalf("changes %q", changes)
	}
}

func TestLoopStopsOnCancel(t *testing.T) {
	r := &fakeRenderer{}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	l := NewLoop(&scriptSource{script: []result{timeout}}, Options{Renderer: r, Version: "v3.1.0"})
	if err := l.Run(ctx); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(r.snaps) != 1 || r.snaps[0].Lines[0] != "DCSpy stopped" {
		t.Fatalf("stop screen %+v", r.snaps)
	}
}

func TestLoopDetectsAircraftInsideChunk(t *testing.T) {
	name := make([]byte, 24)
	copy(name, "F-16C_50")
	capture := append(dcsbios.EncodeFrame(dcsbios.Write{Address: 0x0000, Data: name}),
		dcsbios.EncodeFrame(dcsbios.Write{Address: 0x4504, Data: []byte("UHF 242")})...)

	for _, chunk := range []int{1, 7, 33, transport.DefaultChunk} {
		var seen []string
		l := NewLoop(transport.NewFileSource(bytes.NewReader(capture), chunk), Options{
			Renderer: &fakeRenderer{},
			Now:      fixedClock(),
			OnChange: func(a, sel string, v dcsbios.Value) {
				seen = append(seen, a+" "+sel+"="+v.Text)
			},
		})
		if err := l.Run(context.Background()); err != nil {
			t.Fatalf("chunk %d: Run: %v", chunk, err)
		}
		if len(seen) != 1 || seen[0] != "F-16C_50 DED_LINE_1=UHF 242" {
			t.Fatalf("chunk %d: changes %v", chunk, seen)
		}
	}
}

func TestLineKeypadDropsWhenFull(t *testing.T) {
	input := strings.Repeat("1 ", keypadBuffer+10)
	k := NewLineKeypad(strings.NewReader(input), nil)
	select {
	case <-k.Done():
	case <-time.After(2 * time.Second):
		t.Fatalf("keypad reader did not finish with a full buffer")
	}
	if got := len(k.Poll()); got != keypadBuffer {
		t.Fatalf("presses %d, want %d", got, keypadBuffer)
	}
	if got := k.Poll(); len(got) != 0 {
		t.Fatalf("second poll %v", got)
	}
}

func TestLineKeypad(t *testing.T) {
	k := NewLineKeypad(strings.NewReader("1 2\nx 13\n"), nil)
	var got []aircraft.Button
	deadline := time.Now().Add(2 * time.Second)
	for len(got) < 3 && time.Now().Before(deadline) {
		got = append(got, k.Poll()...)
		time.Sleep(time.Millisecond)
	}
	if len(got) != 3 || got[0] != 1 || got[1] != 2 || got[2] != aircraft.ButtonUp {
		t.Fatalf("presses %v", got)
	}
}
