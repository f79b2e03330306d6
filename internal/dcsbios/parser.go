package dcsbios

import (
	"github.com/hashicorp/go-hclog"

	"example.com/dcspy/internal/common"
)

const (
	syncByte    = 0x55
	syncLen     = 4
	triplet     = 4 // address(2) + count(2)
	maxDataSize = 0xFFFF
)

// SyncMarker is the byte sequence that opens every frame of the export stream.
var SyncMarker = []byte{syncByte, syncByte, syncByte, syncByte}

type parserState uint8

const (
	stateAwaitingSync parserState = iota
	stateAddressLow
	stateAddressHigh
	stateCountLow
	stateCountHigh
	stateData
)

func (s parserState) String() string {
	switch s {
	case stateAwaitingSync:
		return "awaiting-sync"
	case stateAddressLow:
		return "address-low"
	case stateAddressHigh:
		return "address-high"
	case stateCountLow:
		return "count-low"
	case stateCountHigh:
		return "count-high"
	case stateData:
		return "data"
	default:
		return "invalid"
	}
}

// Parser rebuilds (address, data) writes from the export stream one byte at a
// time. It never fails: bytes that do not fit the frame layout are dropped
// until the next sync marker. A write reaches the sinks only once all of its
// data bytes have arrived.
//
// The sync marker is matched on every byte, whatever the current state, so a
// marker in the middle of a truncated frame restarts parsing there.
// A parser is not safe for concurrent use.
type Parser struct {
	state     parserState
	syncCount int
	pending   int
	address   uint16
	count     uint16
	data      []byte
	sinks     []Sink
	boundary  func()
	metrics   *common.Metrics
	logger    hclog.Logger
}

// NewParser returns a parser waiting for the first sync marker. metrics and
// logger may be nil.
func NewParser(metrics *common.Metrics, logger hclog.Logger) *Parser {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Parser{metrics: metrics, logger: logger, data: make([]byte, 0, 64)}
}

// Attach replaces the whole sink set in one step and discards any partially
// received frame, so no write can be split between an old and a new set.
func (p *Parser) Attach(sinks ...Sink) {
	p.sinks = append([]Sink(nil), sinks...)
	p.Reset()
}

// Replace swaps the sink set without touching the parse position. It is
// meant for the write boundary hook, where no partial write exists.
func (p *Parser) Replace(sinks ...Sink) {
	p.sinks = append([]Sink(nil), sinks...)
}

// OnWriteBoundary registers fn to run after each write has reached every
// sink, while the parser waits for the next triplet or sync marker.
func (p *Parser) OnWriteBoundary(fn func()) {
	p.boundary = fn
}

// Reset drops partial frame state and waits for the next sync marker.
func (p *Parser) Reset() {
	p.state = stateAwaitingSync
	p.syncCount = 0
	p.pending = 0
	p.address = 0
	p.count = 0
	p.data = p.data[:0]
}

// Feed runs every byte of chunk through ProcessByte.
func (p *Parser) Feed(chunk []byte) {
	p.metrics.AddDatagram(len(chunk))
	for _, c := range chunk {
		p.ProcessByte(c)
	}
}

// ProcessByte advances the state machine by one byte.
func (p *Parser) ProcessByte(c byte) {
	if p.state != stateAwaitingSync {
		p.pending++
	}
	switch p.state {
	case stateAddressLow:
		p.address = uint16(c)
		p.state = stateAddressHigh
	case stateAddressHigh:
		p.address |= uint16(c) << 8
		p.state = stateCountLow
	case stateCountLow:
		p.count = uint16(c)
		p.state = stateCountHigh
	case stateCountHigh:
		p.count |= uint16(c) << 8
		p.data = p.data[:0]
		p.state = stateData
		if p.count == 0 {
			p.pending = 0
			p.state = stateAddressLow
		}
	case stateData:
		p.data = append(p.data, c)
		if len(p.data) == int(p.count) {
			p.emit()
			p.pending = 0
			p.state = stateAddressLow
		}
	}

	if c == syncByte {
		p.syncCount++
	} else {
		p.syncCount = 0
	}
	// A longer run of sync bytes still ends on its last byte: real addresses
	// are even, so 0x55 never starts a triplet.
	if p.syncCount >= syncLen {
		if p.syncCount == syncLen {
			if p.pending > syncLen {
				p.metrics.IncResync()
				p.logger.Trace("sync marker inside frame, partial write dropped",
					"state", p.state.String(), "address", p.address, "count", p.count, "received", len(p.data))
			}
			p.metrics.IncFrame()
		}
		p.pending = 0
		p.data = p.data[:0]
		p.state = stateAddressLow
	}
}

func (p *Parser) emit() {
	w := Write{Address: p.address, Data: append([]byte(nil), p.data...)}
	p.metrics.IncWrite()
	for _, s := range p.sinks {
		s.HandleWrite(w)
	}
	if p.boundary != nil {
		p.boundary()
	}
}

// EncodeFrame builds one frame: the sync marker followed by each write as an
// address/count/data triplet. Writes longer than 0xFFFF bytes are truncated.
func EncodeFrame(writes ...Write) []byte {
	size := syncLen
	for _, w := range writes {
		size += triplet + len(w.Data)
	}
	out := make([]byte, 0, size)
	out = append(out, SyncMarker...)
	for _, w := range writes {
		data := w.Data
		if len(data) > maxDataSize {
			data = data[:maxDataSize]
		}
		n := uint16(len(data))
		out = append(out, byte(w.Address), byte(w.Address>>8), byte(n), byte(n>>8))
		out = append(out, data...)
	}
	return out
}
