// Package pilot runs the joystick flight loop: exactly one velocity
// command per tick, at most one button action per tick, one rendered
// frame per tick, and an unconditional landing on quit.
package pilot

import (
	"context"
	"errors"
	"time"

	"github.com/droneworks/tellopilot/internal/log"
	"github.com/droneworks/tellopilot/pkg/control"
	"github.com/droneworks/tellopilot/pkg/flight"
	"github.com/droneworks/tellopilot/pkg/video"
)

// Input supplies stick and button state once per tick.
type Input interface {
	Axes() control.Axes
	Buttons() control.Buttons
}

// FrameSource supplies the latest camera frame as JPEG bytes, nil when
// no frame has been decoded yet.
type FrameSource interface {
	Frame() []byte
}

// Display renders frames, pumps UI events and reports key presses.
type Display interface {
	Show(frame []byte) error
	Poll() int
	Close() error
}

// Recorder persists snapshot frames.
type Recorder interface {
	Save(frame []byte) (string, error)
}

// Options configures a Loop.
type Options struct {
	Drone    flight.Controller
	Input    Input
	Frames   FrameSource
	Display  Display
	Recorder Recorder
	Mapper   *control.Mapper
	Tick     time.Duration

	// OnFrame, when set, receives every rendered frame (dashboard feed).
	OnFrame func(frame []byte)
}

// Loop is the single-goroutine polling flight loop. It owns no state
// beyond its collaborators; every tick computes fresh commands.
type Loop struct {
	opts Options
}

// New validates the collaborators and returns a ready loop. A missing
// collaborator is a construction error: the loop must never start and
// then discover it cannot poll input.
func New(opts Options) (*Loop, error) {
	switch {
	case opts.Drone == nil:
		return nil, errors.New("pilot: drone is required")
	case opts.Input == nil:
		return nil, errors.New("pilot: input is required")
	case opts.Frames == nil:
		return nil, errors.New("pilot: frame source is required")
	case opts.Display == nil:
		return nil, errors.New("pilot: display is required")
	case opts.Recorder == nil:
		return nil, errors.New("pilot: recorder is required")
	case opts.Mapper == nil:
		return nil, errors.New("pilot: mapper is required")
	}
	if opts.Tick <= 0 {
		opts.Tick = 50 * time.Millisecond
	}
	return &Loop{opts: opts}, nil
}

// Run polls until ctx is cancelled or a quit key is pressed. On quit the
// drone is told to land exactly once, no further control commands are
// sent, and the display is released.
func (l *Loop) Run(ctx context.Context) error {
	ticker := time.NewTicker(l.opts.Tick)
	defer ticker.Stop()
	defer l.opts.Display.Close()

	log.Info("flight loop started", "tick", l.opts.Tick, "speed", l.opts.Mapper.Speed())

	for {
		select {
		case <-ctx.Done():
			l.land("shutdown")
			return nil
		case <-ticker.C:
		}

		l.step()

		if key := l.opts.Display.Poll(); key == video.KeyEsc || key == video.KeyQuit {
			l.land("quit key")
			return nil
		}
	}
}

// step executes one iteration: input, action, velocity, frame.
func (l *Loop) step() {
	vec := l.opts.Mapper.Vector(l.opts.Input.Axes())

	switch action := l.opts.Mapper.Action(l.opts.Input.Buttons()); action {
	case control.ActionTakeoff:
		log.Info("takeoff")
		l.opts.Drone.TakeOff()
	case control.ActionLand:
		log.Info("land")
		l.opts.Drone.Land()
	case control.ActionSnapshot:
		if path, err := l.opts.Recorder.Save(l.opts.Frames.Frame()); err != nil {
			log.Warn("snapshot failed", "err", err)
		} else {
			log.Info("snapshot saved", "path", path)
		}
	case control.ActionNone:
	}

	l.opts.Drone.SetVelocity(vec)

	frame := l.opts.Frames.Frame()
	if frame == nil {
		return
	}
	if err := l.opts.Display.Show(frame); err != nil {
		log.Warn("frame render failed", "err", err)
		return
	}
	if l.opts.OnFrame != nil {
		l.opts.OnFrame(frame)
	}
}

func (l *Loop) land(reason string) {
	log.Info("landing", "reason", reason)
	l.opts.Drone.Land()
}
