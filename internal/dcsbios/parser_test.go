package dcsbios

import (
	"bytes"
	"fmt"
	"math/rand"
	"testing"

	"example.com/dcspy/internal/common"
)

type recordingSink struct {
	writes []Write
}

func (r *recordingSink) HandleWrite(w Write) {
	r.writes = append(r.writes, w)
}

func sampleStream() []byte {
	var stream []byte
	stream = append(stream, EncodeFrame(
		Write{Address: 0x0000, Data: []byte("F-16C_50\x00\x00")},
		Write{Address: 0x4450, Data: []byte{0x0E, 0x06}},
	)...)
	stream = append(stream, EncodeFrame(
		Write{Address: 0x4504, Data: []byte("UHF  242.00  STPT a 1")},
	)...)
	stream = append(stream, EncodeFrame(
		Write{Address: 0x10, Data: []byte("OK")},
		Write{Address: 0xFFFE, Data: []byte{0x01, 0x00}},
	)...)
	return stream
}

func collect(chunks [][]byte) []Write {
	sink := &recordingSink{}
	p := NewParser(nil, nil)
	p.Attach(sink)
	for _, c := range chunks {
		p.Feed(c)
	}
	return sink.writes
}

func sameWrites(a, b []Write) error {
	if len(a) != len(b) {
		return fmt.Errorf("got %d writes, want %d", len(a), len(b))
	}
	for i := range a {
		if a[i].Address != b[i].Address || !bytes.Equal(a[i].Data, b[i].Data) {
			return fmt.Errorf("write %d = {0x%04X %q}, want {0x%04X %q}", i, a[i].Address, a[i].Data, b[i].Address, b[i].Data)
		}
	}
	return nil
}

func TestParserEmitsWrites(t *testing.T) {
	got := collect([][]byte{sampleStream()})
	want := []Write{
		{Address: 0x0000, Data: []byte("F-16C_50\x00\x00")},
		{Address: 0x4450, Data: []byte{0x0E, 0x06}},
		{Address: 0x4504, Data: []byte("UHF  242.00  STPT a 1")},
		{Address: 0x10, Data: []byte("OK")},
		{Address: 0xFFFE, Data: []byte{0x01, 0x00}},
	}
	if err := sameWrites(got, want); err != nil {
		t.Fatal(err)
	}
}

func TestParserChunkInvariance(t *testing.T) {
	stream := sampleStream()
	whole := collect([][]byte{stream})

	for size := 1; size <= len(stream); size++ {
		var chunks [][]byte
		for off := 0; off < len(stream); off += size {
			end := off + size
			if end > len(stream) {
				end = len(stream)
			}
			chunks = append(chunks, stream[off:end])
		}
		if err := sameWrites(collect(chunks), whole); err != nil {
			t.Fatalf("chunk size %d: %v", size, err)
		}
	}

	rng := rand.New(rand.NewSource(1))
	for round := 0; round < 200; round++ {
		var chunks [][]byte
		for off := 0; off < len(stream); {
			n := 1 + rng.Intn(9)
			if off+n > len(stream) {
				n = len(stream) - off
			}
			chunks = append(chunks, stream[off:off+n])
			off += n
		}
		if err := sameWrites(collect(chunks), whole); err != nil {
			t.Fatalf("random split %d: %v", round, err)
		}
	}
}

func TestParserResynchronizes(t *testing.T) {
	valid := EncodeFrame(Write{Address: 0x10, Data: []byte("OK")})
	prefixes := []struct {
		name   string
		prefix []byte
	}{
		{name: "noise", prefix: []byte{0x01, 0x02, 0x03, 0xAA}},
		{name: "lone sync byte", prefix: []byte{0x55}},
		{name: "three sync bytes", prefix: []byte{0x55, 0x55, 0x55}},
		{name: "sync bytes broken by noise", prefix: []byte{0x55, 0x55, 0x00, 0x55}},
		{name: "truncated header", prefix: []byte{0x55, 0x55, 0x55, 0x55, 0x10, 0x00}},
		{name: "truncated data", prefix: []byte{0x55, 0x55, 0x55, 0x55, 0x20, 0x00, 0x10, 0x00, 'x', 'y'}},
		{name: "oversized count", prefix: []byte{0x55, 0x55, 0x55, 0x55, 0x20, 0x00, 0xFF, 0xFF}},
	}
	for _, tc := range prefixes {
		t.Run(tc.name, func(t *testing.T) {
			stream := append(append([]byte(nil), tc.prefix...), valid...)
			matches := 0
			for _, w := range collect([][]byte{stream}) {
				if w.Address == 0x10 && string(w.Data) == "OK" {
					matches++
				}
			}
			if matches != 1 {
				t.Fatalf("valid write emitted %d times, want 1", matches)
			}
		})
	}
}

func TestParserCountsResyncs(t *testing.T) {
	m := common.NewMetrics()
	p := NewParser(m, nil)
	sink := &recordingSink{}
	p.Attach(sink)

	p.Feed([]byte{0x55, 0x55, 0x55, 0x55, 0x20, 0x00, 0x08, 0x00, 'a', 'b'})
	p.Feed(EncodeFrame(Write{Address: 0x10, Data: []byte("OK")}))

	s := m.Snapshot()
	if s.Resyncs != 1 {
		t.Fatalf("resyncs = %d, want 1", s.Resyncs)
	}
	if s.Frames != 2 {
		t.Fatalf("frames = %d, want 2", s.Frames)
	}
	if s.Writes != 1 || len(sink.writes) != 1 {
		t.Fatalf("writes = %d (sink %d), want 1", s.Writes, len(sink.writes))
	}
	if s.Datagrams != 2 {
		t.Fatalf("datagrams = %d, want 2", s.Datagrams)
	}
}

func TestParserAttachDiscardsPartialFrame(t *testing.T) {
	old := &recordingSink{}
	fresh := &recordingSink{}
	p := NewParser(nil, nil)
	p.Attach(old)

	frame := EncodeFrame(Write{Address: 0x10, Data: []byte("OK")})
	p.Feed(frame[:len(frame)-1])
	p.Attach(fresh)
	p.Feed(frame[len(frame)-1:])
	p.Feed(EncodeFrame(Write{Address: 0x10, Data: []byte("NO")}))

	if len(old.writes) != 0 {
		t.Fatalf("old sink received %d writes after detach", len(old.writes))
	}
	if err := sameWrites(fresh.writes, []Write{{Address: 0x10, Data: []byte("NO")}}); err != nil {
		t.Fatal(err)
	}
}

func TestParserReplaceAtWriteBoundary(t *testing.T) {
	old := &recordingSink{}
	fresh := &recordingSink{}
	p := NewParser(nil, nil)
	p.Attach(old)
	p.OnWriteBoundary(func() {
		if len(old.writes) == 1 && len(fresh.writes) == 0 {
			p.Replace(fresh)
		}
	})

	stream := EncodeFrame(
		Write{Address: 0x0000, Data: []byte("F-16C_50")},
		Write{Address: 0x10, Data: []byte("OK")},
	)
	stream = append(stream, EncodeFrame(Write{Address: 0x12, Data: []byte("GO")})...)
	p.Feed(stream)

	if err := sameWrites(old.writes, []Write{{Address: 0x0000, Data: []byte("F-16C_50")}}); err != nil {
		t.Fatalf("old sink: %v", err)
	}
	want := []Write{
		{Address: 0x10, Data: []byte("OK")},
		{Address: 0x12, Data: []byte("GO")},
	}
	if err := sameWrites(fresh.writes, want); err != nil {
		t.Fatalf("fresh sink: %v", err)
	}
}

func TestParserSyncRunInsideData(t *testing.T) {
	tests := []struct {
		name    string
		data    []byte
		want    []Write
		resyncs int64
	}{
		{
			name: "cell value 0x5555 survives",
			data: []byte{0x55, 0x55},
			want: []Write{
				{Address: 0x20, Data: []byte{0x55, 0x55}},
				{Address: 0x10, Data: []byte("OK")},
			},
		},
		{
			name: "three sync bytes survive",
			data: []byte{0x01, 0x55, 0x55, 0x55, 0x02},
			want: []Write{
				{Address: 0x20, Data: []byte{0x01, 0x55, 0x55, 0x55, 0x02}},
				{Address: 0x10, Data: []byte("OK")},
			},
		},
		{
			// Four sync bytes restart the frame, so the write is lost and
			// its tail is read as a bogus header until the next marker.
			name:    "four sync bytes cut the write",
			data:    []byte{0x01, 0x55, 0x55, 0x55, 0x55, 0x02, 0x03, 0x04},
			want:    []Write{{Address: 0x10, Data: []byte("OK")}},
			resyncs: 2,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			m := common.NewMetrics()
			p := NewParser(m, nil)
			sink := &recordingSink{}
			p.Attach(sink)
			p.Feed(EncodeFrame(Write{Address: 0x20, Data: tc.data}))
			p.Feed(EncodeFrame(Write{Address: 0x10, Data: []byte("OK")}))

			if err := sameWrites(sink.writes, tc.want); err != nil {
				t.Fatal(err)
			}
			if got := m.Snapshot().Resyncs; got != tc.resyncs {
				t.Fatalf("resyncs = %d, want %d", got, tc.resyncs)
			}
		})
	}
}

func TestParserZeroLengthWrite(t *testing.T) {
	stream := EncodeFrame(Write{Address: 0x30}, Write{Address: 0x10, Data: []byte("OK")})
	got := collect([][]byte{stream})
	if err := sameWrites(got, []Write{{Address: 0x10, Data: []byte("OK")}}); err != nil {
		t.Fatal(err)
	}
}

func TestRegistryEndToEnd(t *testing.T) {
	type change struct {
		selector string
		value    Value
	}
	var changes []change
	reg, err := NewRegistry(map[string]BufferSpec{
		"STATUS": TextSpec(0x10, 2),
		"OTHER":  TextSpec(0x40, 4),
	}, func(selector string, v Value) {
		changes = append(changes, change{selector: selector, value: v})
	})
	if err != nil {
		t.Fatalf("NewRegistry failed: %v", err)
	}
	p := NewParser(nil, nil)
	p.Attach(reg)
	p.Feed(EncodeFrame(Write{Address: 0x10, Data: []byte("OK")}))

	if len(changes) != 1 {
		t.Fatalf("got %d changes, want 1", len(changes))
	}
	if changes[0].selector != "STATUS" || changes[0].value.Text != "OK" {
		t.Fatalf("change = %+v, want STATUS=OK", changes[0])
	}
	if v, ok := reg.Value("STATUS"); !ok || v.Text != "OK" {
		t.Fatalf("Value(STATUS) = %+v, %v", v, ok)
	}
	if _, ok := reg.Value("MISSING"); ok {
		t.Fatalf("Value(MISSING) reported ok")
	}
}

func TestRegistrySharedCell(t *testing.T) {
	got := map[string]int{}
	reg, err := NewRegistry(map[string]BufferSpec{
		"IFF_MASTER_KNB": IntegerSpec(0x4450, 0x000E, 1).WithMax(4),
		"IFF_ENABLE_SW":  IntegerSpec(0x4450, 0x0600, 9).WithMax(2),
		"IFF_M4_CODE_SW": IntegerSpec(0x4450, 0x0030, 4).WithMax(2),
	}, func(selector string, v Value) {
		got[selector] = v.Int
	})
	if err != nil {
		t.Fatalf("NewRegistry failed: %v", err)
	}
	reg.HandleWrite(Write{Address: 0x4450, Data: []byte{0x06, 0x04}})
	want := map[string]int{"IFF_MASTER_KNB": 3, "IFF_ENABLE_SW": 2}
	if len(got) != len(want) {
		t.Fatalf("changes = %v, want %v", got, want)
	}
	for k, v := range want {
		if got[k] != v {
			t.Fatalf("%s = %d, want %d", k, got[k], v)
		}
	}
}
