// Package convocatoria implements the competition call API.
package convocatoria

import (
	"errors"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	coreauth "github.com/InnovaGrants-Admin/InnovaGrants-Admin/internal/auth"
	"github.com/InnovaGrants-Admin/InnovaGrants-Admin/internal/config"
	convctl "github.com/InnovaGrants-Admin/InnovaGrants-Admin/internal/db/controller/convocatoria"
	"github.com/InnovaGrants-Admin/InnovaGrants-Admin/internal/db/models"
	"github.com/InnovaGrants-Admin/InnovaGrants-Admin/internal/web/handler"
	authmiddleware "github.com/InnovaGrants-Admin/InnovaGrants-Admin/internal/web/middleware/auth"
)

const (
	// Path is the base path of the convocatoria API.
	Path = "/api/convocatorias"
)

// Request is the body for convocatoria create and update requests.
type Request struct {
	Name     string    `json:"name"`
	Year     int       `json:"year"`
	StartsAt time.Time `json:"starts_at"`
	EndsAt   time.Time `json:"ends_at"`
}

// Service is the convocatoria handler service.
type Service struct {
	handler.Service
	cfg *config.Config
	db  *gorm.DB
}

// Handler is the convocatoria handler.
var Handler = Service{}

// Init initializes the convocatoria handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB) error {
	if app == nil || cfg == nil || db == nil {
		return errors.New(handler.ErrNilACDFatalLogMsg)
	}

	s.cfg = cfg
	s.db = db

	// register routes
	app.Route(Path, func(router fiber.Router) {
		router.Get(handler.RouterRootPath,
			authmiddleware.RequirePermission(coreauth.ActionView, coreauth.ResourceConvocatorias), s.List)
		router.Post(handler.RouterRootPath,
			authmiddleware.RequirePermission(coreauth.ActionCreate, coreauth.ResourceConvocatorias), s.Create)
		router.Get("/:id",
			authmiddleware.RequirePermission(coreauth.ActionView, coreauth.ResourceConvocatorias), s.Get)
		router.Put("/:id",
			authmiddleware.RequirePermission(coreauth.ActionEdit, coreauth.ResourceConvocatorias), s.Update)
		router.Post("/:id/open",
			authmiddleware.RequirePermission(coreauth.ActionEdit, coreauth.ResourceConvocatorias), s.Open)
		router.Post("/:id/close",
			authmiddleware.RequirePermission(coreauth.ActionEdit, coreauth.ResourceConvocatorias), s.Close)
		router.Delete("/:id",
			authmiddleware.RequirePermission(coreauth.ActionDelete, coreauth.ResourceConvocatorias), s.Delete)
	})

	return nil
}

// List returns all convocatorias, or only the open ones with ?open=true.
func (s *Service) List(c *fiber.Ctx) error {
	var (
		calls []models.Convocatoria
		err   error
	)

	if c.QueryBool("open") {
		calls, err = convctl.GetOpen(s.db)
	} else {
		calls, err = convctl.GetAll(s.db)
	}

	if err != nil {
		log.Error().Err(err).Msg("failed to list convocatorias")
		return handler.Fail(c, fiber.StatusInternalServerError, "internal server error")
	}

	return c.JSON(calls)
}

// Get returns a single convocatoria by ID.
func (s *Service) Get(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return handler.Fail(c, fiber.StatusBadRequest, "invalid convocatoria id")
	}

	call, err := convctl.GetByID(s.db, id)
	if err != nil {
		if errors.Is(err, convctl.ErrConvocatoriaNotFound) {
			return handler.Fail(c, fiber.StatusNotFound, "convocatoria not found")
		}

		log.Error().Err(err).Msg("failed to get convocatoria")
		return handler.Fail(c, fiber.StatusInternalServerError, "internal server error")
	}

	return c.JSON(call)
}

// Create creates a new draft convocatoria.
func (s *Service) Create(c *fiber.Ctx) error {
	req := new(Request)
	if err := c.BodyParser(req); err != nil {
		return handler.Fail(c, fiber.StatusBadRequest, "invalid request body")
	}

	call, err := convctl.Create(s.db, req.Name, req.Year, req.StartsAt, req.EndsAt)
	if err != nil {
		if errors.Is(err, convctl.ErrNameEmpty) || errors.Is(err, convctl.ErrInvalidWindow) {
			return handler.Fail(c, fiber.StatusBadRequest, err.Error())
		}

		log.Error().Err(err).Msg("failed to create convocatoria")
		return handler.Fail(c, fiber.StatusInternalServerError, "internal server error")
	}

	return c.Status(fiber.StatusCreated).JSON(call)
}

// Update updates an existing convocatoria.
func (s *Service) Update(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return handler.Fail(c, fiber.StatusBadRequest, "invalid convocatoria id")
	}

	req := new(Request)
	if err := c.BodyParser(req); err != nil {
		return handler.Fail(c, fiber.StatusBadRequest, "invalid request body")
	}

	call, err := convctl.Update(s.db, &models.Convocatoria{
		ID:       id,
		Name:     req.Name,
		Year:     req.Year,
		StartsAt: req.StartsAt,
		EndsAt:   req.EndsAt,
	})
	if err != nil {
		switch {
		case errors.Is(err, convctl.ErrConvocatoriaNotFound):
			return handler.Fail(c, fiber.StatusNotFound, "convocatoria not found")
		case errors.Is(err, convctl.ErrNameEmpty), errors.Is(err, convctl.ErrInvalidWindow):
			return handler.Fail(c, fiber.StatusBadRequest, err.Error())
		}

		log.Error().Err(err).Msg("failed to update convocatoria")
		return handler.Fail(c, fiber.StatusInternalServerError, "internal server error")
	}

	return c.JSON(call)
}

// Open opens a draft convocatoria for submissions.
func (s *Service) Open(c *fiber.Ctx) error {
	return s.lifecycle(c, convctl.Open)
}

// Close closes an open convocatoria.
func (s *Service) Close(c *fiber.Ctx) error {
	return s.lifecycle(c, convctl.Close)
}

func (s *Service) lifecycle(c *fiber.Ctx, op func(*gorm.DB, uint) (*models.Convocatoria, error)) error {
	id, err := parseID(c)
	if err != nil {
		return handler.Fail(c, fiber.StatusBadRequest, "invalid convocatoria id")
	}

	call, err := op(s.db, id)
	if err != nil {
		switch {
		case errors.Is(err, convctl.ErrConvocatoriaNotFound):
			return handler.Fail(c, fiber.StatusNotFound, "convocatoria not found")
		case errors.Is(err, convctl.ErrInvalidTransition):
			return handler.Fail(c, fiber.StatusConflict, err.Error())
		}

		log.Error().Err(err).Msg("failed to change convocatoria status")
		return handler.Fail(c, fiber.StatusInternalServerError, "internal server error")
	}

	return c.JSON(call)
}

// Delete deletes a convocatoria.
func (s *Service) Delete(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return handler.Fail(c, fiber.StatusBadRequest, "invalid convocatoria id")
	}

	if err := convctl.Delete(s.db, id); err != nil {
		if errors.Is(err, convctl.ErrConvocatoriaNotFound) {
			return handler.Fail(c, fiber.StatusNotFound, "convocatoria not found")
		}

		log.Error().Err(err).Msg("failed to delete convocatoria")
		return handler.Fail(c, fiber.StatusInternalServerError, "internal server error")
	}

	return c.JSON(fiber.Map{"status": "deleted"})
}

func parseID(c *fiber.Ctx) (uint, error) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	return uint(id), err
}
