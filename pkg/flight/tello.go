package flight

import (
	"fmt"
	"time"

	"github.com/SMerrony/tello"

	"github.com/droneworks/tellopilot/pkg/control"
)

// stickScale converts stick percent to the SDK's int16 range, the same
// factor the SDK uses for its own macro commands (32767/100).
const stickScale = 327

// videoKeepAlivePeriod is how often the drone must be re-asked for video
// before it stops sending.
const videoKeepAlivePeriod = 500 * time.Millisecond

// Tello is the flight service for a real drone, wrapping the UDP protocol
// driver. All methods are safe for use from a single control goroutine.
type Tello struct {
	drone *tello.Tello

	videoStop chan struct{}
}

// Connect establishes the control link on the default Tello addresses.
func Connect() (*Tello, error) {
	t := &Tello{drone: new(tello.Tello)}
	if err := t.drone.ControlConnectDefault(); err != nil {
		return nil, fmt.Errorf("flight: connect: %w", err)
	}
	return t, nil
}

// ConnectTo establishes the control link to a drone at a specific address,
// for setups with several drones on one network.
func ConnectTo(addr string, dronePort, localPort int) (*Tello, error) {
	t := &Tello{drone: new(tello.Tello)}
	if err := t.drone.ControlConnect(addr, dronePort, localPort); err != nil {
		return nil, fmt.Errorf("flight: connect %s: %w", addr, err)
	}
	return t, nil
}

// TakeOff requests a normal takeoff.
func (t *Tello) TakeOff() { t.drone.TakeOff() }

// Land requests a normal landing.
func (t *Tello) Land() { t.drone.Land() }

// Hover zeroes the sticks, stopping all movement.
func (t *Tello) Hover() { t.drone.Hover() }

// SetVelocity dispatches one four-axis velocity command. Components are
// clamped to stick percent before scaling to the SDK stick range.
func (t *Tello) SetVelocity(v control.Vector) {
	v = v.Clamp(control.MaxSpeed)
	t.drone.UpdateSticks(tello.StickMessage{
		Rx: int16(v.LeftRight) * stickScale,
		Ry: int16(v.ForwardBack) * stickScale,
		Lx: int16(v.Yaw) * stickScale,
		Ly: int16(v.UpDown) * stickScale,
	})
}

// Status returns the latest telemetry known for the drone.
func (t *Tello) Status() Status {
	return statusFromSDK(t.drone.GetFlightData())
}

// StartVideo connects the video channel and keeps the H.264 stream alive.
// The returned channel yields raw NAL unit fragments.
func (t *Tello) StartVideo() (<-chan []byte, error) {
	frames, err := t.drone.VideoConnectDefault()
	if err != nil {
		return nil, fmt.Errorf("flight: video connect: %w", err)
	}
	t.drone.SetVideoNormal()
	t.drone.StartVideo()

	// The drone stops sending unless it is periodically re-asked.
	t.videoStop = make(chan struct{})
	go func() {
		ticker := time.NewTicker(videoKeepAlivePeriod)
		defer ticker.Stop()
		for {
			select {
			case <-t.videoStop:
				return
			case <-ticker.C:
				t.drone.StartVideo()
			}
		}
	}()

	return frames, nil
}

// Forward starts forward movement at pct percent of full speed. The macro
// movement calls below hold their stick setting until another command or
// Hover, which is what the scripted flight demos rely on.
func (t *Tello) Forward(pct int)   { t.drone.Forward(pct) }
func (t *Tello) Backward(pct int)  { t.drone.Backward(pct) }
func (t *Tello) Left(pct int)      { t.drone.Left(pct) }
func (t *Tello) Right(pct int)     { t.drone.Right(pct) }
func (t *Tello) Up(pct int)        { t.drone.Up(pct) }
func (t *Tello) Down(pct int)      { t.drone.Down(pct) }
func (t *Tello) TurnLeft(pct int)  { t.drone.TurnLeft(pct) }
func (t *Tello) TurnRight(pct int) { t.drone.TurnRight(pct) }

// Close stops the video keepalive and tears down both links.
func (t *Tello) Close() {
	if t.videoStop != nil {
		close(t.videoStop)
		t.drone.VideoDisconnect()
	}
	t.drone.ControlDisconnect()
}
