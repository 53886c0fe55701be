package flight

import (
	"sync"

	"github.com/droneworks/tellopilot/pkg/control"
)

// Mock is an in-memory Drone for tests and -dry runs without hardware.
// It records every command in order.
type Mock struct {
	mu       sync.Mutex
	commands []string
	vectors  []control.Vector
	status   Status
	frames   chan []byte
}

// NewMock returns a mock drone reporting a healthy battery.
func NewMock() *Mock {
	return &Mock{
		status: Status{Battery: 87, OnGround: true},
		frames: make(chan []byte),
	}
}

func (m *Mock) record(cmd string) {
	m.mu.Lock()
	m.commands = append(m.commands, cmd)
	m.mu.Unlock()
}

func (m *Mock) TakeOff() {
	m.record("takeoff")
	m.mu.Lock()
	m.status.Flying = true
	m.status.OnGround = false
	m.mu.Unlock()
}

func (m *Mock) Land() {
	m.record("land")
	m.mu.Lock()
	m.status.Flying = false
	m.status.OnGround = true
	m.mu.Unlock()
}

func (m *Mock) Hover() { m.record("hover") }

func (m *Mock) SetVelocity(v control.Vector) {
	m.mu.Lock()
	m.commands = append(m.commands, "velocity")
	m.vectors = append(m.vectors, v)
	m.mu.Unlock()
}

func (m *Mock) Status() Status {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.status
}

// StartVideo returns a channel that never yields frames; the pipeline
// treats an idle feed as "no frame yet".
func (m *Mock) StartVideo() (<-chan []byte, error) {
	m.record("start-video")
	return m.frames, nil
}

func (m *Mock) Close() { m.record("close") }

// Commands returns the ordered command log.
func (m *Mock) Commands() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.commands))
	copy(out, m.commands)
	return out
}

// Vectors returns every velocity command received.
func (m *Mock) Vectors() []control.Vector {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]control.Vector, len(m.vectors))
	copy(out, m.vectors)
	return out
}
