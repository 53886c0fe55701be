package video

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// ErrNoFrame is returned when a snapshot is requested before any frame
// has been decoded.
var ErrNoFrame = errors.New("video: no frame to save")

// Snapshotter writes captured frames into a directory.
type Snapshotter struct {
	dir string
}

// NewSnapshotter ensures dir exists and returns a snapshotter for it.
func NewSnapshotter(dir string) (*Snapshotter, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("video: snapshot dir %s: %w", dir, err)
	}
	return &Snapshotter{dir: dir}, nil
}

// Save writes one JPEG frame and returns its path. File names carry a
// random ID so rapid captures never collide.
func (s *Snapshotter) Save(frame []byte) (string, error) {
	if len(frame) == 0 {
		return "", ErrNoFrame
	}
	path := filepath.Join(s.dir, fmt.Sprintf("tello-%s.jpg", uuid.NewString()))
	if err := os.WriteFile(path, frame, 0o644); err != nil {
		return "", fmt.Errorf("video: write snapshot: %w", err)
	}
	return path, nil
}
