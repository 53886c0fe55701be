// Package gamepad reads a HID game controller and keeps the latest stick
// and button state so the flight loop can poll it once per tick.
package gamepad

import (
	"fmt"
	"sync"

	"github.com/splace/joysticks"

	"github.com/droneworks/tellopilot/pkg/control"
)

// Layout names the hats and buttons used for flight control. Hat and
// button numbering starts at 1, following the HID driver.
type Layout struct {
	MoveHat  uint8 // left-right / forward-back
	LiftHat  uint8 // up-down / yaw
	Takeoff  uint8
	Land     uint8
	Snapshot uint8
}

// DefaultLayout matches a common twin-stick controller: right stick
// translates, left stick climbs and yaws.
func DefaultLayout() Layout {
	return Layout{MoveHat: 2, LiftHat: 1, Takeoff: 1, Land: 2, Snapshot: 3}
}

// Pad tracks one connected controller. Axis movements overwrite the held
// state; button presses latch until the next Buttons call so a short tap
// between polls is not lost.
type Pad struct {
	device *joysticks.HID

	mu      sync.Mutex
	axes    control.Axes
	pressed control.Buttons

	stop chan struct{}
}

// Connect opens the HID device at index and starts tracking its events.
// It fails when no suitable controller is attached; that error is fatal
// to the caller by design.
func Connect(index int, layout Layout) (*Pad, error) {
	device := joysticks.Connect(index)
	if device == nil {
		return nil, fmt.Errorf("gamepad: no HID device at index %d", index)
	}
	for _, hat := range []uint8{layout.MoveHat, layout.LiftHat} {
		if !device.HatExists(hat) {
			return nil, fmt.Errorf("gamepad: device has no hat %d", hat)
		}
	}
	for _, btn := range []uint8{layout.Takeoff, layout.Land, layout.Snapshot} {
		if !device.ButtonExists(btn) {
			return nil, fmt.Errorf("gamepad: device has no button %d", btn)
		}
	}

	p := &Pad{
		device: device,
		stop:   make(chan struct{}),
	}

	move := device.OnMove(layout.MoveHat)
	lift := device.OnMove(layout.LiftHat)
	takeoff := device.OnClose(layout.Takeoff)
	land := device.OnClose(layout.Land)
	snapshot := device.OnClose(layout.Snapshot)

	go device.ParcelOutEvents()
	go p.track(move, lift, takeoff, land, snapshot)

	return p, nil
}

func (p *Pad) track(move, lift, takeoff, land, snapshot chan joysticks.Event) {
	for {
		select {
		case <-p.stop:
			return
		case ev := <-move:
			if c, ok := ev.(joysticks.CoordsEvent); ok {
				p.setMove(float64(c.X), float64(c.Y))
			}
		case ev := <-lift:
			if c, ok := ev.(joysticks.CoordsEvent); ok {
				p.setLift(float64(c.X), float64(c.Y))
			}
		case <-takeoff:
			p.press(func(b *control.Buttons) { b.Takeoff = true })
		case <-land:
			p.press(func(b *control.Buttons) { b.Land = true })
		case <-snapshot:
			p.press(func(b *control.Buttons) { b.Snapshot = true })
		}
	}
}

func (p *Pad) setMove(x, y float64) {
	p.mu.Lock()
	p.axes.LeftRight = x
	p.axes.ForwardBack = y
	p.mu.Unlock()
}

func (p *Pad) setLift(x, y float64) {
	p.mu.Lock()
	p.axes.Yaw = x
	p.axes.UpDown = y
	p.mu.Unlock()
}

func (p *Pad) press(set func(*control.Buttons)) {
	p.mu.Lock()
	set(&p.pressed)
	p.mu.Unlock()
}

// Axes returns the most recent stick readings, each in [-1, 1].
func (p *Pad) Axes() control.Axes {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.axes
}

// Buttons returns the presses seen since the previous call and clears them.
func (p *Pad) Buttons() control.Buttons {
	p.mu.Lock()
	defer p.mu.Unlock()
	b := p.pressed
	p.pressed = control.Buttons{}
	return b
}

// Close stops event tracking. The underlying device file is released by
// the driver when the process exits.
func (p *Pad) Close() {
	close(p.stop)
}
