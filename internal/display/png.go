package display

import (
	"errors"
	"fmt"
	"image/png"
	"os"
	"path/filepath"
	"sync"

	"github.com/hashicorp/go-hclog"

	"example.com/dcspy/internal/render"
)

// pngSlots is how many frames PNGDir keeps before overwriting the oldest.
const pngSlots = 10

// ErrNoDirectory is returned when PNGDir has nowhere to write.
var ErrNoDirectory = errors.New("png display directory not set")

// PNGDir writes every frame to <dir>/<name>_<n>.png, n rotating 0..9.
type PNGDir struct {
	Dir    string
	Name   string
	Logger hclog.Logger

	mu   sync.Mutex
	next int
}

// NewPNGDir creates dir if needed.
func NewPNGDir(dir, name string, logger hclog.Logger) (*PNGDir, error) {
	if dir == "" {
		return nil, ErrNoDirectory
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create png dir: %w", err)
	}
	if name == "" {
		name = "dcspy"
	}
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &PNGDir{Dir: dir, Name: name, Logger: logger.Named("display")}, nil
}

// IsConnected reports whether the directory is still present.
func (p *PNGDir) IsConnected() bool {
	info, err := os.Stat(p.Dir)
	return err == nil && info.IsDir()
}

// Update encodes img into the next slot.
func (p *PNGDir) Update(img *render.Image) error {
	if img == nil {
		return nil
	}
	p.mu.Lock()
	slot := p.next
	p.next = (p.next + 1) % pngSlots
	p.mu.Unlock()

	path := filepath.Join(p.Dir, fmt.Sprintf("%s_%d.png", p.Name, slot))
	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("create frame: %w", err)
	}
	if err := png.Encode(f, img.Std()); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("encode frame: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		return err
	}
	p.Logger.Trace("frame written", "path", path)
	return nil
}

// Last returns the path of the most recently written frame.
func (p *PNGDir) Last() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	slot := (p.next + pngSlots - 1) % pngSlots
	return filepath.Join(p.Dir, fmt.Sprintf("%s_%d.png", p.Name, slot))
}
