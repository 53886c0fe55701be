package dashboard

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"

	"github.com/droneworks/tellopilot/internal/log"
	"github.com/droneworks/tellopilot/pkg/flight"
)

// Server publishes flight telemetry and the camera feed to browsers.
// It never commands the drone; the dashboard is read-only by design.
type Server struct {
	app  *fiber.App
	port string

	status func() flight.Status

	telemetry *hub
	camera    *hub
}

// New builds the server. status is polled for the REST endpoint; pushed
// telemetry arrives via PushStatus.
func New(port string, status func() flight.Status) *Server {
	s := &Server{
		port:      port,
		status:    status,
		telemetry: newHub("telemetry"),
		camera:    newHub("camera"),
	}

	app := fiber.New(fiber.Config{
		AppName:               "tellopilot dashboard",
		DisableStartupMessage: true,
	})

	app.Get("/api/status", s.handleStatus)

	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws/telemetry", websocket.New(s.handleTelemetryWS))
	app.Get("/ws/camera", websocket.New(s.handleCameraWS))

	s.app = app
	return s
}

func (s *Server) handleStatus(c *fiber.Ctx) error {
	return c.JSON(s.status())
}

func (s *Server) handleTelemetryWS(conn *websocket.Conn) {
	newClient(s.telemetry, conn).serve()
}

func (s *Server) handleCameraWS(conn *websocket.Conn) {
	newClient(s.camera, conn).serve()
}

// Start serves until Shutdown. Blocks.
func (s *Server) Start() error {
	go s.telemetry.run()
	go s.camera.run()
	log.Info("dashboard listening", "addr", "http://localhost:"+s.port)
	return s.app.Listen(":" + s.port)
}

// StartAsync serves in the background.
func (s *Server) StartAsync() {
	go func() {
		if err := s.Start(); err != nil {
			log.Error("dashboard server stopped", "err", err)
		}
	}()
}

// PushStatus broadcasts one telemetry update to subscribers.
func (s *Server) PushStatus(st flight.Status) {
	s.telemetry.publishJSON(st)
}

// PushFrame broadcasts one JPEG frame to camera subscribers.
func (s *Server) PushFrame(frame []byte) {
	if s.camera.clientCount() == 0 {
		return
	}
	s.camera.publishBinary(frame)
}

// Shutdown stops the HTTP listener.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}
