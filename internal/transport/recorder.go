package transport

import (
	"context"
	"fmt"
	"io"
)

// Recorder tees every datagram its source yields into w. Raw
// concatenation is a valid capture because the parser does not depend on
// datagram boundaries.
type Recorder struct {
	Source
	w       io.Writer
	written int64
}

func NewRecorder(src Source, w io.Writer) *Recorder {
	return &Recorder{Source: src, w: w}
}

func (r *Recorder) Receive(ctx context.Context) ([]byte, error) {
	data, err := r.Source.Receive(ctx)
	if err != nil {
		return data, err
	}
	n, err := r.w.Write(data)
	r.written += int64(n)
	if err != nil {
		return data, fmt.Errorf("record: %w", err)
	}
	return data, nil
}

// Written returns the number of bytes recorded so far.
func (r *Recorder) Written() int64 { return r.written }
