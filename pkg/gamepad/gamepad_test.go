package gamepad

import (
	"testing"

	"github.com/droneworks/tellopilot/pkg/control"
)

func newTestPad() *Pad {
	return &Pad{stop: make(chan struct{})}
}

func TestConnect_MissingDevice(t *testing.T) {
	// Index far beyond any attached controller: construction must fail
	// rather than return a half-working pad.
	if _, err := Connect(250, DefaultLayout()); err == nil {
		t.Fatal("Connect with missing device: expected error")
	}
}

func TestPad_AxesSnapshot(t *testing.T) {
	p := newTestPad()

	p.setMove(0.5, -1.0)
	p.setLift(1.0, 0.25)

	got := p.Axes()
	want := control.Axes{LeftRight: 0.5, ForwardBack: -1.0, UpDown: 0.25, Yaw: 1.0}
	if got != want {
		t.Errorf("Axes = %+v, want %+v", got, want)
	}

	// A later movement overwrites, not accumulates.
	p.setMove(0, 0)
	if got := p.Axes(); got.LeftRight != 0 || got.ForwardBack != 0 {
		t.Errorf("Axes after recenter = %+v, want zero move axes", got)
	}
}

func TestPad_ButtonsLatchUntilPolled(t *testing.T) {
	p := newTestPad()

	p.press(func(b *control.Buttons) { b.Takeoff = true })
	p.press(func(b *control.Buttons) { b.Snapshot = true })

	got := p.Buttons()
	if !got.Takeoff || !got.Snapshot || got.Land {
		t.Errorf("Buttons = %+v, want takeoff+snapshot", got)
	}

	// The poll clears the latch.
	if got := p.Buttons(); got != (control.Buttons{}) {
		t.Errorf("Buttons after poll = %+v, want empty", got)
	}
}

func TestDefaultLayout(t *testing.T) {
	l := DefaultLayout()
	if l.MoveHat == l.LiftHat {
		t.Error("move and lift hats must differ")
	}
	if l.Takeoff == l.Land || l.Land == l.Snapshot || l.Takeoff == l.Snapshot {
		t.Error("action buttons must be distinct")
	}
}
