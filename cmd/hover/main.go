// Command hover runs a short scripted flight: takeoff, a slow box
// pattern, and landing. Useful as a first smoke test of the drone link
// before handing control to a gamepad.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/droneworks/tellopilot/internal/config"
	"github.com/droneworks/tellopilot/internal/log"
	"github.com/droneworks/tellopilot/pkg/flight"
)

// minBattery aborts the flight before takeoff on a weak battery.
const minBattery = 20

func main() {
	cfgPath := flag.String("config", "", "path to YAML config file")
	speed := flag.Int("speed", 25, "movement speed in stick percent")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Error("config", "err", err)
		os.Exit(1)
	}
	log.Init(cfg.LogLevel)

	if err := fly(cfg, *speed); err != nil {
		log.Error("flight aborted", "err", err)
		os.Exit(1)
	}
	log.Info("flight complete")
}

func fly(cfg config.Config, speed int) error {
	drone, err := flight.ConnectTo(cfg.Drone.Addr, cfg.Drone.Port, cfg.Drone.LocalPort)
	if err != nil {
		return err
	}
	defer drone.Close()

	// Give the first flight-data packets a moment to arrive.
	time.Sleep(2 * time.Second)
	st := drone.Status()
	log.Info("connected", "battery", st.Battery, "wifi", st.WifiStrength)
	if st.Battery > 0 && st.Battery < minBattery {
		return fmt.Errorf("battery %d%% below flight minimum %d%%", st.Battery, minBattery)
	}

	plan := []struct {
		name string
		move func()
		hold time.Duration
	}{
		{"takeoff", drone.TakeOff, 5 * time.Second},
		{"forward", func() { drone.Forward(speed) }, 2 * time.Second},
		{"right", func() { drone.Right(speed) }, 2 * time.Second},
		{"backward", func() { drone.Backward(speed) }, 2 * time.Second},
		{"left", func() { drone.Left(speed) }, 2 * time.Second},
		{"hover", drone.Hover, 2 * time.Second},
		{"land", drone.Land, 5 * time.Second},
	}

	for _, step := range plan {
		log.Info("step", "name", step.name, "height", drone.Status().Height)
		step.move()
		time.Sleep(step.hold)
	}
	return nil
}
