// Command pilot flies the Tello from a gamepad: sticks map to velocity,
// buttons to takeoff/land/snapshot, with the live camera feed in an
// OpenCV window. An optional web dashboard mirrors telemetry and video.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/droneworks/tellopilot/internal/config"
	"github.com/droneworks/tellopilot/internal/log"
	"github.com/droneworks/tellopilot/pkg/control"
	"github.com/droneworks/tellopilot/pkg/dashboard"
	"github.com/droneworks/tellopilot/pkg/flight"
	"github.com/droneworks/tellopilot/pkg/gamepad"
	"github.com/droneworks/tellopilot/pkg/pilot"
	"github.com/droneworks/tellopilot/pkg/video"
)

func main() {
	cfgPath := flag.String("config", "", "path to YAML config file")
	dry := flag.Bool("dry", false, "use a mock drone (no hardware)")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Error("config", "err", err)
		os.Exit(1)
	}
	log.Init(cfg.LogLevel)

	if err := run(cfg, *dry); err != nil {
		log.Error("pilot failed", "err", err)
		os.Exit(1)
	}
}

func run(cfg config.Config, dry bool) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		log.Info("signal received, landing")
		cancel()
	}()

	// A missing controller is fatal before anything touches the drone.
	pad, err := gamepad.Connect(cfg.Gamepad.Device, gamepad.Layout{
		MoveHat:  cfg.Gamepad.MoveHat,
		LiftHat:  cfg.Gamepad.LiftHat,
		Takeoff:  cfg.Gamepad.Takeoff,
		Land:     cfg.Gamepad.Land,
		Snapshot: cfg.Gamepad.Snapshot,
	})
	if err != nil {
		return err
	}
	defer pad.Close()
	log.Info("gamepad connected", "device", cfg.Gamepad.Device)

	var drone flight.Drone
	if dry {
		log.Info("dry run, using mock drone")
		drone = flight.NewMock()
	} else {
		tello, err := flight.ConnectTo(cfg.Drone.Addr, cfg.Drone.Port, cfg.Drone.LocalPort)
		if err != nil {
			return err
		}
		drone = tello
	}
	defer drone.Close()
	log.Info("drone connected", "battery", drone.Status().Battery)

	nals, err := drone.StartVideo()
	if err != nil {
		return err
	}
	stream := video.NewStream(nals, time.Duration(cfg.Video.DecodeMillis)*time.Millisecond)
	defer stream.Close()

	viewer := video.NewViewer("tellopilot", cfg.Video.ViewWidth, cfg.Video.ViewHeight)

	snaps, err := video.NewSnapshotter(cfg.Video.SnapshotDir)
	if err != nil {
		return err
	}

	mapper, err := control.NewMapper(cfg.Pilot.Speed)
	if err != nil {
		return err
	}

	opts := pilot.Options{
		Drone:    drone,
		Input:    pad,
		Frames:   stream,
		Display:  viewer,
		Recorder: snaps,
		Mapper:   mapper,
		Tick:     time.Duration(cfg.Pilot.TickMillis) * time.Millisecond,
	}

	if cfg.Dashboard.Enabled {
		srv := dashboard.New(cfg.Dashboard.Port, drone.Status)
		srv.StartAsync()
		defer srv.Shutdown()
		opts.OnFrame = srv.PushFrame

		go func() {
			ticker := time.NewTicker(time.Second)
			defer ticker.Stop()
			for {
				select {
				case <-ctx.Done():
					return
				case <-ticker.C:
					srv.PushStatus(drone.Status())
				}
			}
		}()
	}

	loop, err := pilot.New(opts)
	if err != nil {
		return err
	}
	return loop.Run(ctx)
}
