// Package video turns the drone's raw H.264 feed into frames the flight
// loop can render, snapshot, and publish.
package video

import (
	"bytes"
	"fmt"
	"image/jpeg"
	"os/exec"
	"sync"
	"time"
)

// Decoder converts buffered H.264 NAL data to JPEG using a piped ffmpeg
// process. Decoding is rate limited; between decodes the last good frame
// is served, which is fine for a ~20fps viewfinder.
type Decoder struct {
	minInterval time.Duration

	mu         sync.Mutex
	lastDecode time.Time

	frameMu     sync.RWMutex
	latestFrame []byte
}

// NewDecoder creates a decoder that runs ffmpeg at most once per interval.
func NewDecoder(interval time.Duration) *Decoder {
	return &Decoder{
		minInterval: interval,
		lastDecode:  time.Now(),
	}
}

// Decode feeds H.264 data to ffmpeg and returns one JPEG frame. Short or
// undecodable input returns the previous frame (nil before the first
// keyframe arrives).
func (d *Decoder) Decode(h264 []byte) ([]byte, error) {
	if len(h264) < 100 {
		return d.LatestFrame(), nil
	}

	d.mu.Lock()
	if time.Since(d.lastDecode) < d.minInterval {
		d.mu.Unlock()
		return d.LatestFrame(), nil
	}
	d.lastDecode = time.Now()
	d.mu.Unlock()

	cmd := exec.Command("ffmpeg",
		"-f", "h264",
		"-i", "pipe:0",
		"-vframes", "1",
		"-f", "image2pipe",
		"-vcodec", "mjpeg",
		"-q:v", "3",
		"pipe:1",
	)

	var stdout bytes.Buffer
	cmd.Stdout = &stdout

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("video: stdin pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("video: start ffmpeg: %w", err)
	}

	go func() {
		stdin.Write(h264)
		stdin.Close()
	}()

	done := make(chan error, 1)
	go func() { done <- cmd.Wait() }()

	select {
	case err := <-done:
		if err != nil {
			// Not enough data for a whole frame yet; keep the last one.
			return d.LatestFrame(), nil
		}
	case <-time.After(100 * time.Millisecond):
		cmd.Process.Kill()
		return d.LatestFrame(), nil
	}

	frame := stdout.Bytes()
	if !plausibleJPEG(frame) {
		return d.LatestFrame(), nil
	}

	d.frameMu.Lock()
	d.latestFrame = frame
	d.frameMu.Unlock()
	return frame, nil
}

// LatestFrame returns a copy of the most recently decoded frame, or nil.
func (d *Decoder) LatestFrame() []byte {
	d.frameMu.RLock()
	defer d.frameMu.RUnlock()
	if d.latestFrame == nil {
		return nil
	}
	frame := make([]byte, len(d.latestFrame))
	copy(frame, d.latestFrame)
	return frame
}

// plausibleJPEG rejects output too small or broken to be a real frame.
func plausibleJPEG(data []byte) bool {
	if len(data) < 1000 {
		return false
	}
	cfg, err := jpeg.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return false
	}
	return cfg.Width >= 100 && cfg.Height >= 100
}
