// Package settings implements the application settings API.
package settings

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	coreauth "github.com/InnovaGrants-Admin/InnovaGrants-Admin/internal/auth"
	"github.com/InnovaGrants-Admin/InnovaGrants-Admin/internal/config"
	settingctl "github.com/InnovaGrants-Admin/InnovaGrants-Admin/internal/db/controller/setting"
	"github.com/InnovaGrants-Admin/InnovaGrants-Admin/internal/web/handler"
	authmiddleware "github.com/InnovaGrants-Admin/InnovaGrants-Admin/internal/web/middleware/auth"
)

const (
	// Path is the base path of the settings API.
	Path = "/api/settings"
)

// Request is the body for setting upsert requests.
type Request struct {
	Value string `json:"value"`
}

// Service is the settings handler service.
type Service struct {
	handler.Service
	cfg *config.Config
	db  *gorm.DB
}

// Handler is the settings handler.
var Handler = Service{}

// Init initializes the settings handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB) error {
	if app == nil || cfg == nil || db == nil {
		return errors.New(handler.ErrNilACDFatalLogMsg)
	}

	s.cfg = cfg
	s.db = db

	// register routes
	app.Route(Path, func(router fiber.Router) {
		router.Get(handler.RouterRootPath,
			authmiddleware.RequirePermission(coreauth.ActionView, coreauth.ResourceSettings), s.List)
		router.Get("/:name",
			authmiddleware.RequirePermission(coreauth.ActionView, coreauth.ResourceSettings), s.Get)
		router.Put("/:name",
			authmiddleware.RequirePermission(coreauth.ActionEdit, coreauth.ResourceSettings), s.Set)
		router.Delete("/:name",
			authmiddleware.RequirePermission(coreauth.ActionDelete, coreauth.ResourceSettings), s.Delete)
	})

	return nil
}

// List returns all settings.
func (s *Service) List(c *fiber.Ctx) error {
	settings, err := settingctl.GetAll(s.db)
	if err != nil {
		log.Error().Err(err).Msg("failed to list settings")
		return handler.Fail(c, fiber.StatusInternalServerError, "internal server error")
	}

	return c.JSON(settings)
}

// Get returns one setting by name.
func (s *Service) Get(c *fiber.Ctx) error {
	setting, err := settingctl.Get(s.db, c.Params("name"))
	if err != nil {
		if errors.Is(err, settingctl.ErrSettingNotFound) {
			return handler.Fail(c, fiber.StatusNotFound, "setting not found")
		}

		log.Error().Err(err).Msg("failed to get setting")
		return handler.Fail(c, fiber.StatusInternalServerError, "internal server error")
	}

	return c.JSON(setting)
}

// Set creates or updates a setting.
func (s *Service) Set(c *fiber.Ctx) error {
	req := new(Request)
	if err := c.BodyParser(req); err != nil {
		return handler.Fail(c, fiber.StatusBadRequest, "invalid request body")
	}

	setting, err := settingctl.Set(s.db, c.Params("name"), []byte(req.Value))
	if err != nil {
		if errors.Is(err, settingctl.ErrSettingNameEmpty) {
			return handler.Fail(c, fiber.StatusBadRequest, err.Error())
		}

		log.Error().Err(err).Msg("failed to set setting")
		return handler.Fail(c, fiber.StatusInternalServerError, "internal server error")
	}

	return c.JSON(setting)
}

// Delete removes a setting.
func (s *Service) Delete(c *fiber.Ctx) error {
	if err := settingctl.Delete(s.db, c.Params("name")); err != nil {
		if errors.Is(err, settingctl.ErrSettingNotFound) {
			return handler.Fail(c, fiber.StatusNotFound, "setting not found")
		}

		log.Error().Err(err).Msg("failed to delete setting")
		return handler.Fail(c, fiber.StatusInternalServerError, "internal server error")
	}

	return c.JSON(fiber.Map{"status": "deleted"})
}
