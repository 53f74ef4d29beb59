// Package web wires the HTTP surface of the application: middleware,
// handlers and the server lifecycle.
package web

import (
	"errors"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/InnovaGrants-Admin/InnovaGrants-Admin/internal/config"
	fiberlogger "github.com/InnovaGrants-Admin/InnovaGrants-Admin/internal/logger/adapter/fiber"
	"github.com/InnovaGrants-Admin/InnovaGrants-Admin/internal/verification"
	"github.com/InnovaGrants-Admin/InnovaGrants-Admin/internal/web/handler/admin/codes"
	adminuser "github.com/InnovaGrants-Admin/InnovaGrants-Admin/internal/web/handler/admin/user"
	"github.com/InnovaGrants-Admin/InnovaGrants-Admin/internal/web/handler/catalog"
	"github.com/InnovaGrants-Admin/InnovaGrants-Admin/internal/web/handler/convocatoria"
	"github.com/InnovaGrants-Admin/InnovaGrants-Admin/internal/web/handler/login"
	"github.com/InnovaGrants-Admin/InnovaGrants-Admin/internal/web/handler/logout"
	"github.com/InnovaGrants-Admin/InnovaGrants-Admin/internal/web/handler/project"
	"github.com/InnovaGrants-Admin/InnovaGrants-Admin/internal/web/handler/register"
	"github.com/InnovaGrants-Admin/InnovaGrants-Admin/internal/web/handler/report"
	"github.com/InnovaGrants-Admin/InnovaGrants-Admin/internal/web/handler/review"
	"github.com/InnovaGrants-Admin/InnovaGrants-Admin/internal/web/handler/settings"
	authmiddleware "github.com/InnovaGrants-Admin/InnovaGrants-Admin/internal/web/middleware/auth"
)

const healthzURI = "/healthz"

// Service represents the web service.
type Service struct {
	App   *fiber.App
	cfg   *config.Config
	alive atomic.Bool
	db    *gorm.DB
	codes *verification.Service
}

// Start starts the web service on the given address.
func (s *Service) Start(addr string) error {
	var doneFiber = make(chan bool)

	go func() {
		if err := s.App.Listen(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Msgf("fiber listen error: %v", err)
		}

		doneFiber <- true
	}()

	<-doneFiber // wait for fiber to stop

	return nil
}

// WaitShutdown blocks until an interrupt arrives, then shuts down the HTTP
// server gracefully.
func (s *Service) WaitShutdown() {
	irqSig := make(chan os.Signal, 1)
	signal.Notify(irqSig, syscall.SIGINT, syscall.SIGTERM)

	sig := <-irqSig
	log.Info().Msgf("shutdown request (signal: %v)", sig)

	// Graceful shutdown for reverse proxies: fail the liveness endpoint first
	// so the LB removes this instance from active targets.
	if s.cfg.Webserver.ShutDownTime > 0 {
		log.Info().Msgf(
			"graceful shutdown: returning 503 for %d seconds before stopping",
			s.cfg.Webserver.ShutDownTime,
		)

		s.alive.Store(false)
		time.Sleep(time.Duration(s.cfg.Webserver.ShutDownTime) * time.Second)
	}

	serverShutdown := make(chan struct{})

	go func() {
		log.Info().Msg("stopping http server ...")

		err := s.App.Shutdown()
		if err != nil {
			log.Error().Err(err).Msg("")
		}

		serverShutdown <- struct{}{}
	}()

	<-serverShutdown
	log.Info().Msg("http server was stopped")
}

// New creates a new web service with the given configuration.
func New(cfg *config.Config, db *gorm.DB, codeService *verification.Service) *Service {
	if cfg == nil {
		panic("config cannot be nil")
	}

	if db == nil {
		panic("db cannot be nil")
	}

	if codeService == nil {
		panic("code service cannot be nil")
	}

	// create fiber app
	app := fiber.New(
		fiber.Config{
			ReadBufferSize: 8192,
			AppName:        cfg.Title,
			CaseSensitive:  true,
			Prefork:        false,
			Immutable:      true,
		},
	)

	if !cfg.Webserver.DisableRecover {
		app.Use(recover.New())
	}

	// access logging
	app.Use(fiberlogger.New(fiberlogger.Config{
		Config:     cfg.Log,
		HealthzURI: healthzURI,
	}))

	// session auth middleware
	app.Use(authmiddleware.Middleware)

	service := &Service{
		cfg:   cfg,
		App:   app,
		db:    db,
		codes: codeService,
	}
	service.alive.Store(true)

	// liveness endpoint
	app.Get(healthzURI, func(c *fiber.Ctx) error {
		if !service.alive.Load() {
			return c.SendStatus(fiber.StatusServiceUnavailable)
		}

		return c.JSON(fiber.Map{"status": "ok"})
	})

	// prometheus metrics
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	// init handlers (they register their own routes with permission checks)
	initErr := func(name string, err error) {
		if err != nil {
			log.Fatal().Err(err).Msgf("failed to init %s handler", name)
		}
	}

	initErr("login", login.Handler.Init(app, cfg, db))
	logout.Handler.Init(app, cfg)
	initErr("register", register.Handler.Init(app, cfg, db, codeService))
	initErr("codes", codes.Handler.Init(app, cfg, db, codeService))
	initErr("user", adminuser.Handler.Init(app, cfg, db))
	initErr("catalog", catalog.Handler.Init(app, cfg, db))
	initErr("convocatoria", convocatoria.Handler.Init(app, cfg, db))
	initErr("project", project.Handler.Init(app, cfg, db))
	initErr("review", review.Handler.Init(app, cfg, db))
	initErr("report", report.Handler.Init(app, cfg, db))
	initErr("settings", settings.Handler.Init(app, cfg, db))

	// root is informational only
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"name": cfg.Title})
	})

	return service
}
