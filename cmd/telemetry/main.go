// Command telemetry watches the drone without flying it: battery, height
// and link quality printed once per second until interrupted.
package main

import (
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/droneworks/tellopilot/internal/config"
	"github.com/droneworks/tellopilot/internal/log"
	"github.com/droneworks/tellopilot/pkg/flight"
)

func main() {
	cfgPath := flag.String("config", "", "path to YAML config file")
	period := flag.Duration("period", time.Second, "update period")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Error("config", "err", err)
		os.Exit(1)
	}
	log.Init(cfg.LogLevel)

	drone, err := flight.ConnectTo(cfg.Drone.Addr, cfg.Drone.Port, cfg.Drone.LocalPort)
	if err != nil {
		log.Error("connect", "err", err)
		os.Exit(1)
	}
	defer drone.Close()

	updates, err := drone.StreamStatus(*period)
	if err != nil {
		log.Error("telemetry stream", "err", err)
		os.Exit(1)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	for {
		select {
		case <-sigChan:
			log.Info("stopping")
			return
		case st := <-updates:
			log.Info("telemetry",
				"battery", st.Battery,
				"height_m", st.Height,
				"flying", st.Flying,
				"wifi", st.WifiStrength,
				"battery_low", st.BatteryLow,
			)
		}
	}
}
