package transport

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
)

// DefaultChunk is the replay chunk size, close to one export datagram.
const DefaultChunk = 2048

// FileSource replays a capture in fixed-size chunks and returns io.EOF at
// the end. It never times out.
type FileSource struct {
	r      io.Reader
	closer io.Closer
	buf    []byte
}

// NewFileSource replays r in chunks of chunk bytes.
func NewFileSource(r io.Reader, chunk int) *FileSource {
	if chunk <= 0 {
		chunk = DefaultChunk
	}
	fs := &FileSource{r: r, buf: make([]byte, chunk)}
	if c, ok := r.(io.Closer); ok {
		fs.closer = c
	}
	return fs
}

// OpenFileSource opens a capture file for replay.
func OpenFileSource(path string, chunk int) (*FileSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open capture: %w", err)
	}
	return NewFileSource(f, chunk), nil
}

func (f *FileSource) Receive(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	n, err := io.ReadFull(f.r, f.buf)
	if n > 0 {
		return f.buf[:n], nil
	}
	if errors.Is(err, io.ErrUnexpectedEOF) {
		err = io.EOF
	}
	return nil, err
}

func (f *FileSource) Close() error {
	if f.closer != nil {
		return f.closer.Close()
	}
	return nil
}
