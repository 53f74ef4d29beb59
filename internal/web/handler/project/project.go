// Package project implements the innovation project API: drafting,
// submission and coordinator decisions.
package project

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	coreauth "github.com/InnovaGrants-Admin/InnovaGrants-Admin/internal/auth"
	"github.com/InnovaGrants-Admin/InnovaGrants-Admin/internal/config"
	projectctl "github.com/InnovaGrants-Admin/InnovaGrants-Admin/internal/db/controller/project"
	"github.com/InnovaGrants-Admin/InnovaGrants-Admin/internal/db/models"
	"github.com/InnovaGrants-Admin/InnovaGrants-Admin/internal/web/handler"
	authmiddleware "github.com/InnovaGrants-Admin/InnovaGrants-Admin/internal/web/middleware/auth"
)

const (
	// Path is the base path of the project API.
	Path = "/api/projects"
)

// Request is the body for project create and update requests.
type Request struct {
	Title          string `json:"title"`
	Summary        string `json:"summary"`
	ConvocatoriaID uint   `json:"convocatoria_id"`
	CenterID       uint   `json:"center_id"`
	CycleID        *uint  `json:"cycle_id"`
}

// Service is the project handler service.
type Service struct {
	handler.Service
	cfg *config.Config
	db  *gorm.DB
}

// Handler is the project handler.
var Handler = Service{}

// Init initializes the project handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB) error {
	if app == nil || cfg == nil || db == nil {
		return errors.New(handler.ErrNilACDFatalLogMsg)
	}

	s.cfg = cfg
	s.db = db

	// register routes
	app.Route(Path, func(router fiber.Router) {
		router.Get(handler.RouterRootPath,
			authmiddleware.RequirePermission(coreauth.ActionView, coreauth.ResourceProjects), s.List)
		router.Post(handler.RouterRootPath,
			authmiddleware.RequirePermission(coreauth.ActionCreate, coreauth.ResourceProjects), s.Create)
		router.Get("/:id",
			authmiddleware.RequirePermission(coreauth.ActionView, coreauth.ResourceProjects), s.Get)
		router.Put("/:id",
			authmiddleware.RequirePermission(coreauth.ActionEdit, coreauth.ResourceProjects), s.Update)
		router.Delete("/:id",
			authmiddleware.RequirePermission(coreauth.ActionDelete, coreauth.ResourceProjects), s.Delete)
		router.Post("/:id/submit",
			authmiddleware.RequirePermission(coreauth.ActionEdit, coreauth.ResourceProjects), s.Submit)
		router.Post("/:id/approve",
			authmiddleware.RequirePermission(coreauth.ActionApprove, coreauth.ResourceProjects), s.Approve)
		router.Post("/:id/reject",
			authmiddleware.RequirePermission(coreauth.ActionApprove, coreauth.ResourceProjects), s.Reject)
	})

	return nil
}

// List returns projects matching the query filters. Presenters only ever see
// their own projects.
func (s *Service) List(c *fiber.Ctx) error {
	sessData := authmiddleware.CurrentSession(c)

	filter := projectctl.Filter{
		ConvocatoriaID: uint(c.QueryInt("convocatoria_id")),
		CenterID:       uint(c.QueryInt("center_id")),
		Status:         models.ProjectStatus(c.Query("status")),
	}
	if sessData.Role() == coreauth.RolePresenter {
		filter.PresenterID = sessData.User.ID
	}

	projects, err := projectctl.List(s.db, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to list projects")
		return handler.Fail(c, fiber.StatusInternalServerError, "internal server error")
	}

	return c.JSON(projects)
}

// Get returns a single project by ID.
func (s *Service) Get(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return handler.Fail(c, fiber.StatusBadRequest, "invalid project id")
	}

	p, err := projectctl.GetByID(s.db, id)
	if err != nil {
		if errors.Is(err, projectctl.ErrProjectNotFound) {
			return handler.Fail(c, fiber.StatusNotFound, "project not found")
		}

		log.Error().Err(err).Msg("failed to get project")
		return handler.Fail(c, fiber.StatusInternalServerError, "internal server error")
	}

	sessData := authmiddleware.CurrentSession(c)
	if sessData.Role() == coreauth.RolePresenter && p.PresenterID != sessData.User.ID {
		return handler.Fail(c, fiber.StatusForbidden, "insufficient permissions")
	}

	return c.JSON(p)
}

// Create creates a new draft project owned by the calling presenter.
func (s *Service) Create(c *fiber.Ctx) error {
	req := new(Request)
	if err := c.BodyParser(req); err != nil {
		return handler.Fail(c, fiber.StatusBadRequest, "invalid request body")
	}

	sessData := authmiddleware.CurrentSession(c)

	p, err := projectctl.Create(s.db, &models.Project{
		Title:          req.Title,
		Summary:        req.Summary,
		ConvocatoriaID: req.ConvocatoriaID,
		CenterID:       req.CenterID,
		CycleID:        req.CycleID,
		PresenterID:    sessData.User.ID,
	})
	if err != nil {
		switch {
		case errors.Is(err, projectctl.ErrTitleEmpty):
			return handler.Fail(c, fiber.StatusBadRequest, err.Error())
		case errors.Is(err, projectctl.ErrConvocatoriaNotOpen):
			return handler.Fail(c, fiber.StatusConflict, err.Error())
		}

		log.Error().Err(err).Msg("failed to create project")
		return handler.Fail(c, fiber.StatusInternalServerError, "internal server error")
	}

	return c.Status(fiber.StatusCreated).JSON(p)
}

// Update updates a draft project.
func (s *Service) Update(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return handler.Fail(c, fiber.StatusBadRequest, "invalid project id")
	}

	req := new(Request)
	if err := c.BodyParser(req); err != nil {
		return handler.Fail(c, fiber.StatusBadRequest, "invalid request body")
	}

	sessData := authmiddleware.CurrentSession(c)

	p, err := projectctl.Update(s.db, &models.Project{
		ID:       id,
		Title:    req.Title,
		Summary:  req.Summary,
		CenterID: req.CenterID,
		CycleID:  req.CycleID,
	}, sessData.User.ID)
	if err != nil {
		return s.projectError(c, err, "failed to update project")
	}

	return c.JSON(p)
}

// Submit moves a draft project into review.
func (s *Service) Submit(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return handler.Fail(c, fiber.StatusBadRequest, "invalid project id")
	}

	sessData := authmiddleware.CurrentSession(c)

	p, err := projectctl.Submit(s.db, id, sessData.User.ID)
	if err != nil {
		return s.projectError(c, err, "failed to submit project")
	}

	return c.JSON(p)
}

// Approve approves a submitted project.
func (s *Service) Approve(c *fiber.Ctx) error {
	return s.decide(c, projectctl.Approve, "failed to approve project")
}

// Reject rejects a submitted project.
func (s *Service) Reject(c *fiber.Ctx) error {
	return s.decide(c, projectctl.Reject, "failed to reject project")
}

func (s *Service) decide(c *fiber.Ctx, op func(*gorm.DB, uint) (*models.Project, error), logMsg string) error {
	id, err := parseID(c)
	if err != nil {
		return handler.Fail(c, fiber.StatusBadRequest, "invalid project id")
	}

	p, err := op(s.db, id)
	if err != nil {
		return s.projectError(c, err, logMsg)
	}

	return c.JSON(p)
}

// Delete deletes a draft project owned by the calling presenter.
func (s *Service) Delete(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return handler.Fail(c, fiber.StatusBadRequest, "invalid project id")
	}

	sessData := authmiddleware.CurrentSession(c)

	if err := projectctl.Delete(s.db, id, sessData.User.ID); err != nil {
		return s.projectError(c, err, "failed to delete project")
	}

	return c.JSON(fiber.Map{"status": "deleted"})
}

func (s *Service) projectError(c *fiber.Ctx, err error, logMsg string) error {
	switch {
	case errors.Is(err, projectctl.ErrProjectNotFound):
		return handler.Fail(c, fiber.StatusNotFound, "project not found")
	case errors.Is(err, projectctl.ErrNotOwner):
		return handler.Fail(c, fiber.StatusForbidden, "insufficient permissions")
	case errors.Is(err, projectctl.ErrTitleEmpty):
		return handler.Fail(c, fiber.StatusBadRequest, err.Error())
	case errors.Is(err, projectctl.ErrInvalidTransition), errors.Is(err, projectctl.ErrConvocatoriaNotOpen):
		return handler.Fail(c, fiber.StatusConflict, err.Error())
	}

	log.Error().Err(err).Msg(logMsg)
	return handler.Fail(c, fiber.StatusInternalServerError, "internal server error")
}

func parseID(c *fiber.Ctx) (uint, error) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	return uint(id), err
}
