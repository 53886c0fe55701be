package flight

import (
	"time"

	"github.com/SMerrony/tello"
)

// Status is the subset of drone telemetry the rest of the program cares
// about, translated out of the SDK's raw flight data.
type Status struct {
	Battery      int     `json:"battery"`       // percent
	Height       float64 `json:"height"`        // metres
	Flying       bool    `json:"flying"`        // airborne
	OnGround     bool    `json:"on_ground"`
	WifiStrength int     `json:"wifi_strength"` // percent
	BatteryLow   bool    `json:"battery_low"`
}

// statusFromSDK translates the SDK flight data. Height arrives in
// decimetres from the drone.
func statusFromSDK(fd tello.FlightData) Status {
	return Status{
		Battery:      int(fd.BatteryPercentage),
		Height:       float64(fd.Height) / 10,
		Flying:       fd.Flying,
		OnGround:     fd.OnGround,
		WifiStrength: int(fd.WifiStrength),
		BatteryLow:   fd.BatteryLow || fd.BatteryCritical,
	}
}

// StreamStatus delivers translated telemetry on a channel, one Status per
// period, until the source closes.
func (t *Tello) StreamStatus(period time.Duration) (<-chan Status, error) {
	// The SDK takes the period in milliseconds.
	src, err := t.drone.StreamFlightData(false, period/time.Millisecond)
	if err != nil {
		return nil, err
	}
	out := make(chan Status, 1)
	go func() {
		defer close(out)
		for fd := range src {
			out <- statusFromSDK(fd)
		}
	}()
	return out, nil
}
