// Package control maps raw gamepad readings onto bounded Tello stick
// commands. The mapper is pure: no device or network I/O lives here.
package control

// Stick percent limits. The Tello accepts velocity commands per axis as a
// percentage of full stick deflection.
const (
	DefaultSpeed = 50
	MaxSpeed     = 100
)

// Vector is one four-axis velocity command, in stick percent.
// Positive values mean right, forward, up and clockwise respectively.
type Vector struct {
	LeftRight   int
	ForwardBack int
	UpDown      int
	Yaw         int
}

// Clamp returns v with every component limited to [-limit, limit].
func (v Vector) Clamp(limit int) Vector {
	return Vector{
		LeftRight:   clampInt(v.LeftRight, limit),
		ForwardBack: clampInt(v.ForwardBack, limit),
		UpDown:      clampInt(v.UpDown, limit),
		Yaw:         clampInt(v.Yaw, limit),
	}
}

// IsZero reports whether all components are zero (hover).
func (v Vector) IsZero() bool {
	return v == Vector{}
}

func clampInt(v, limit int) int {
	if v < -limit {
		return -limit
	}
	if v > limit {
		return limit
	}
	return v
}
