package dispatch

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/hashicorp/go-hclog"

	"example.com/dcspy/internal/aircraft"
)

// Keypad reports the buttons pressed since the previous poll. Poll must not
// block.
type Keypad interface {
	Poll() []aircraft.Button
}

// keypadBuffer is how many presses LineKeypad holds between polls.
const keypadBuffer = 64

// LineKeypad reads whitespace separated button numbers from a stream, one
// press per number. Presses arriving while the buffer is full are dropped.
type LineKeypad struct {
	presses chan aircraft.Button
	done    chan struct{}
}

// NewLineKeypad starts reading r in the background until it is exhausted.
func NewLineKeypad(r io.Reader, logger hclog.Logger) *LineKeypad {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	k := &LineKeypad{
		presses: make(chan aircraft.Button, keypadBuffer),
		done:    make(chan struct{}),
	}
	go func() {
		defer close(k.done)
		sc := bufio.NewScanner(r)
		for sc.Scan() {
			for _, field := range strings.Fields(sc.Text()) {
				n, err := strconv.Atoi(field)
				if err != nil {
					logger.Debug("keypad input ignored", "input", field)
					continue
				}
				select {
				case k.presses <- aircraft.Button(n):
				default:
					logger.Debug("keypad buffer full, press dropped", "button", n)
				}
			}
		}
		if err := sc.Err(); err != nil {
			logger.Debug("keypad input stopped", "error", err)
		}
	}()
	return k
}

// Done is closed once the input stream has been read to its end.
func (k *LineKeypad) Done() <-chan struct{} { return k.done }

func (k *LineKeypad) Poll() []aircraft.Button {
	var out []aircraft.Button
	for {
		select {
		case b := <-k.presses:
			out = append(out, b)
		default:
			return out
		}
	}
}
