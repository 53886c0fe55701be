package video

import (
	"bytes"
	"sync"
	"time"

	"github.com/droneworks/tellopilot/internal/log"
)

// maxBuffer caps the rolling NAL buffer; if ffmpeg cannot find a frame in
// this much data the buffer is stale and restarts at the next keyframe.
const maxBuffer = 1 << 20

// Stream consumes raw H.264 fragments from the drone and keeps the latest
// decoded JPEG available for polling. One goroutine owns the buffer; the
// loop only ever calls Frame.
type Stream struct {
	dec *Decoder

	mu     sync.RWMutex
	latest []byte

	stop     chan struct{}
	stopOnce sync.Once
}

// NewStream starts consuming nals. decodeInterval bounds how often ffmpeg
// runs; 50ms gives a 20fps viewfinder.
func NewStream(nals <-chan []byte, decodeInterval time.Duration) *Stream {
	s := &Stream{
		dec:  NewDecoder(decodeInterval),
		stop: make(chan struct{}),
	}
	go s.pump(nals)
	return s
}

func (s *Stream) pump(nals <-chan []byte) {
	buf := make([]byte, 0, maxBuffer)
	for {
		select {
		case <-s.stop:
			return
		case nal, ok := <-nals:
			if !ok {
				return
			}
			buf = append(buf, nal...)
			if len(buf) > maxBuffer {
				log.Debug("video buffer stale, resetting", "bytes", len(buf))
				buf = buf[:0]
				continue
			}

			frame, err := s.dec.Decode(buf)
			if err != nil {
				log.Warn("frame decode failed", "err", err)
				continue
			}
			if frame == nil {
				continue
			}

			s.mu.Lock()
			fresh := !bytes.Equal(s.latest, frame)
			s.latest = frame
			s.mu.Unlock()
			if fresh {
				// A decoded frame consumed the buffered GOP.
				buf = buf[:0]
			}
		}
	}
}

// Frame returns the latest decoded JPEG, or nil before the first frame.
func (s *Stream) Frame() []byte {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.latest
}

// Close stops the pump goroutine.
func (s *Stream) Close() {
	s.stopOnce.Do(func() { close(s.stop) })
}
