package server

import (
	"context"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/ahameddd/food-review-app-real/internal/broadcast"
	"github.com/ahameddd/food-review-app-real/internal/config"
	"github.com/ahameddd/food-review-app-real/internal/domain"
)

type Server struct {
	echo       *echo.Echo
	config     *config.Config
	hub        *broadcast.Hub
	classifier domain.Classifier
	clock      clockwork.Clock
	startTime  time.Time
}

func NewServer(cfg *config.Config, hub *broadcast.Hub, classifier domain.Classifier, clock clockwork.Clock) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Middleware
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	srv := &Server{
		echo:       e,
		config:     cfg,
		hub:        hub,
		classifier: classifier,
		clock:      clock,
		startTime:  clock.Now(),
	}

	srv.registerRoutes()

	return srv
}

// Start binds and serves until Shutdown. A bind failure surfaces here and is
// fatal to the process.
func (s *Server) Start() error {
	return s.echo.Start(s.config.Address())
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}
