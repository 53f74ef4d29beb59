// Package review implements the peer review API.
package review

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	coreauth "github.com/InnovaGrants-Admin/InnovaGrants-Admin/internal/auth"
	"github.com/InnovaGrants-Admin/InnovaGrants-Admin/internal/config"
	reviewctl "github.com/InnovaGrants-Admin/InnovaGrants-Admin/internal/db/controller/review"
	"github.com/InnovaGrants-Admin/InnovaGrants-Admin/internal/web/handler"
	authmiddleware "github.com/InnovaGrants-Admin/InnovaGrants-Admin/internal/web/middleware/auth"
)

const (
	// Path is the base path of the review API.
	Path = "/api/reviews"
)

// Request is the body for review create and update requests.
type Request struct {
	ProjectID uint   `json:"project_id"`
	Score     int    `json:"score"`
	Comments  string `json:"comments"`
}

// Service is the review handler service.
type Service struct {
	handler.Service
	cfg *config.Config
	db  *gorm.DB
}

// Handler is the review handler.
var Handler = Service{}

// Init initializes the review handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB) error {
	if app == nil || cfg == nil || db == nil {
		return errors.New(handler.ErrNilACDFatalLogMsg)
	}

	s.cfg = cfg
	s.db = db

	// register routes
	app.Route(Path, func(router fiber.Router) {
		router.Get(handler.RouterRootPath,
			authmiddleware.RequirePermission(coreauth.ActionView, coreauth.ResourceReviews), s.List)
		router.Post(handler.RouterRootPath,
			authmiddleware.RequirePermission(coreauth.ActionCreate, coreauth.ResourceReviews), s.Create)
		router.Put("/:id",
			authmiddleware.RequirePermission(coreauth.ActionEdit, coreauth.ResourceReviews), s.Update)
	})

	return nil
}

// List returns reviews filtered by project or by the calling reviewer.
func (s *Service) List(c *fiber.Ctx) error {
	if projectID := c.QueryInt("project_id"); projectID > 0 {
		reviews, err := reviewctl.GetByProject(s.db, uint(projectID))
		if err != nil {
			log.Error().Err(err).Msg("failed to list reviews")
			return handler.Fail(c, fiber.StatusInternalServerError, "internal server error")
		}

		return c.JSON(reviews)
	}

	sessData := authmiddleware.CurrentSession(c)

	reviews, err := reviewctl.GetByReviewer(s.db, sessData.User.ID)
	if err != nil {
		log.Error().Err(err).Msg("failed to list reviews")
		return handler.Fail(c, fiber.StatusInternalServerError, "internal server error")
	}

	return c.JSON(reviews)
}

// Create records a new review by the calling reviewer.
func (s *Service) Create(c *fiber.Ctx) error {
	req := new(Request)
	if err := c.BodyParser(req); err != nil {
		return handler.Fail(c, fiber.StatusBadRequest, "invalid request body")
	}

	sessData := authmiddleware.CurrentSession(c)

	r, err := reviewctl.Create(s.db, req.ProjectID, sessData.User.ID, req.Score, req.Comments)
	if err != nil {
		switch {
		case errors.Is(err, reviewctl.ErrScoreOutOfRange):
			return handler.Fail(c, fiber.StatusBadRequest, err.Error())
		case errors.Is(err, reviewctl.ErrProjectNotReviewable):
			return handler.Fail(c, fiber.StatusConflict, err.Error())
		case errors.Is(err, reviewctl.ErrAlreadyReviewed):
			return handler.Fail(c, fiber.StatusConflict, err.Error())
		}

		log.Error().Err(err).Msg("failed to create review")
		return handler.Fail(c, fiber.StatusInternalServerError, "internal server error")
	}

	return c.Status(fiber.StatusCreated).JSON(r)
}

// Update edits a review written by the calling reviewer.
func (s *Service) Update(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return handler.Fail(c, fiber.StatusBadRequest, "invalid review id")
	}

	req := new(Request)
	if err := c.BodyParser(req); err != nil {
		return handler.Fail(c, fiber.StatusBadRequest, "invalid request body")
	}

	sessData := authmiddleware.CurrentSession(c)

	r, err := reviewctl.Update(s.db, uint(id), sessData.User.ID, req.Score, req.Comments)
	if err != nil {
		switch {
		case errors.Is(err, reviewctl.ErrReviewNotFound):
			return handler.Fail(c, fiber.StatusNotFound, "review not found")
		case errors.Is(err, reviewctl.ErrNotAuthor):
			return handler.Fail(c, fiber.StatusForbidden, "insufficient permissions")
		case errors.Is(err, reviewctl.ErrScoreOutOfRange):
			return handler.Fail(c, fiber.StatusBadRequest, err.Error())
		}

		log.Error().Err(err).Msg("failed to update review")
		return handler.Fail(c, fiber.StatusInternalServerError, "internal server error")
	}

	return c.JSON(r)
}
