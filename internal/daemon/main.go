// Package daemon boots the application: database, sessions, background
// cleanup and the web service.
package daemon

import (
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	sqlitestorage "github.com/gofiber/storage/sqlite3/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/InnovaGrants-Admin/InnovaGrants-Admin/internal/config"
	"github.com/InnovaGrants-Admin/InnovaGrants-Admin/internal/db/dsn"
	"github.com/InnovaGrants-Admin/InnovaGrants-Admin/internal/db/models"
	"github.com/InnovaGrants-Admin/InnovaGrants-Admin/internal/verification"
	"github.com/InnovaGrants-Admin/InnovaGrants-Admin/internal/web"
	"github.com/InnovaGrants-Admin/InnovaGrants-Admin/internal/web/session"
)

// Daemon represents the main application daemon.
type Daemon struct {
	cfg         *config.Config
	webService  *web.Service
	codes       *verification.Service
	stopCleanup chan struct{}
}

// Start runs the background cleanup loop and the web service, then waits
// for a shutdown signal.
func (d *Daemon) Start() error {
	defaults := d.cfg.CodeDefaults()
	if defaults.AutoCleanup {
		go d.cleanupLoop(defaults.CleanupInterval)
	}

	addr := fmt.Sprintf(":%d", d.cfg.Webserver.Port)

	go func() {
		if err := d.webService.Start(addr); err != nil {
			log.Error().Err(err).Msg("web service stopped with error")
		}
	}()

	d.webService.WaitShutdown()
	close(d.stopCleanup)

	return nil
}

// cleanupLoop periodically sweeps stale verification codes.
func (d *Daemon) cleanupLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	log.Info().Dur("interval", interval).Msg("verification code auto cleanup enabled")

	for {
		select {
		case <-ticker.C:
			cleaned, err := d.codes.Cleanup()
			if err != nil {
				log.Error().Err(err).Msg("verification code cleanup failed")
				continue
			}

			if cleaned > 0 {
				log.Info().Int("cleaned", cleaned).Msg("verification code cleanup finished")
			}
		case <-d.stopCleanup:
			return
		}
	}
}

// New creates a new Daemon instance with the provided configuration.
func New(cfg *config.Config) *Daemon {
	if cfg == nil {
		log.Fatal().Msg("config is nil")
		return nil
	}

	db, err := gorm.Open(sqlite.Open(dsn.Create(cfg)), &gorm.Config{})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect database")
		return nil
	}

	if err = db.AutoMigrate(
		&models.User{},
		&models.Setting{},
		&models.VerificationCode{},
		&models.VerificationCodeLog{},
		&models.Center{},
		&models.Family{},
		&models.Cycle{},
		&models.Course{},
		&models.Specialty{},
		&models.Convocatoria{},
		&models.Project{},
		&models.Review{},
	); err != nil {
		log.Fatal().Err(err).Msg("failed to migrate database")
		return nil
	}

	seed(cfg, db)

	// Initialize fiber session store
	sessionStorage := sqlitestorage.New(sqlitestorage.Config{
		Database: cfg.DB.Path,
		Table:    "sessions",
	})

	session.Init(sessionStorage)

	codes := verification.NewService(db)

	return &Daemon{
		cfg:         cfg,
		webService:  web.New(cfg, db, codes),
		codes:       codes,
		stopCleanup: make(chan struct{}),
	}
}
