// Package flight issues movement and state commands to the drone.
//
// Interfaces are segregated so consumers depend only on what they use:
// the flight loop needs Controller, the telemetry watcher needs Telemeter,
// and the video pipeline needs Streamer.
package flight

import "github.com/droneworks/tellopilot/pkg/control"

// Controller commands drone movement.
type Controller interface {
	TakeOff()
	Land()
	Hover()
	SetVelocity(v control.Vector)
}

// Telemeter reports the drone's current state.
type Telemeter interface {
	Status() Status
}

// Streamer provides the raw H.264 feed from the forward camera.
type Streamer interface {
	StartVideo() (<-chan []byte, error)
}

// Drone is the composite interface for a fully connected drone.
type Drone interface {
	Controller
	Telemeter
	Streamer
	Close()
}

// Ensure the Tello wrapper satisfies the composite interface.
var _ Drone = (*Tello)(nil)
var _ Drone = (*Mock)(nil)
