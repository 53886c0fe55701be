package control

import (
	"fmt"
	"math"
)

// Axes holds one set of raw stick readings, each in [-1, 1].
// ForwardBack and UpDown follow the HID convention where pushing the
// stick forward reads negative.
type Axes struct {
	LeftRight   float64
	ForwardBack float64
	UpDown      float64
	Yaw         float64
}

// Buttons holds the discrete flags sampled once per loop iteration.
type Buttons struct {
	Takeoff  bool
	Land     bool
	Snapshot bool
}

// Action is the single drone action dispatched for one iteration.
type Action int

const (
	ActionNone Action = iota
	ActionTakeoff
	ActionLand
	ActionSnapshot
)

func (a Action) String() string {
	switch a {
	case ActionTakeoff:
		return "takeoff"
	case ActionLand:
		return "land"
	case ActionSnapshot:
		return "snapshot"
	default:
		return "none"
	}
}

// Mapper converts raw axis and button readings into drone commands.
type Mapper struct {
	speed int
}

// NewMapper creates a mapper with the given speed cap in stick percent.
func NewMapper(speed int) (*Mapper, error) {
	if speed < 1 || speed > MaxSpeed {
		return nil, fmt.Errorf("control: speed %d out of range 1..%d", speed, MaxSpeed)
	}
	return &Mapper{speed: speed}, nil
}

// Speed returns the configured speed cap.
func (m *Mapper) Speed() int {
	return m.speed
}

// Vector scales the raw axes by the speed cap and rounds to whole stick
// percent. The forward and up channels are sign-inverted so that pushing
// the stick forward moves the drone forward. Components never exceed the
// speed cap.
func (m *Mapper) Vector(ax Axes) Vector {
	v := Vector{
		LeftRight:   scale(ax.LeftRight, m.speed),
		ForwardBack: scale(-ax.ForwardBack, m.speed),
		UpDown:      scale(-ax.UpDown, m.speed),
		Yaw:         scale(ax.Yaw, m.speed),
	}
	return v.Clamp(m.speed)
}

// Action picks at most one action per iteration, in fixed priority order:
// takeoff, then land, then snapshot. Lower-priority presses held at the
// same time are dropped, matching the original hand-controller behavior.
func (m *Mapper) Action(b Buttons) Action {
	switch {
	case b.Takeoff:
		return ActionTakeoff
	case b.Land:
		return ActionLand
	case b.Snapshot:
		return ActionSnapshot
	default:
		return ActionNone
	}
}

func scale(axis float64, speed int) int {
	return int(math.Round(axis * float64(speed)))
}
