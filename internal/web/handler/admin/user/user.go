// Package user implements the user administration API.
package user

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	coreauth "github.com/InnovaGrants-Admin/InnovaGrants-Admin/internal/auth"
	"github.com/InnovaGrants-Admin/InnovaGrants-Admin/internal/config"
	userctl "github.com/InnovaGrants-Admin/InnovaGrants-Admin/internal/db/controller/user"
	"github.com/InnovaGrants-Admin/InnovaGrants-Admin/internal/db/models"
	"github.com/InnovaGrants-Admin/InnovaGrants-Admin/internal/web/handler"
	authmiddleware "github.com/InnovaGrants-Admin/InnovaGrants-Admin/internal/web/middleware/auth"
)

const (
	// Path is the base path of the user administration API.
	Path = "/api/users"
)

// Request is the body for user create and update requests.
type Request struct {
	Active    bool          `json:"active"`
	Username  string        `json:"username"`
	Password  string        `json:"password"`
	Email     string        `json:"email"`
	FirstName string        `json:"first_name"`
	LastName  string        `json:"last_name"`
	Role      coreauth.Role `json:"role"`
	CenterID  *uint         `json:"center_id"`
}

// Service is the user administration handler service.
type Service struct {
	handler.Service
	cfg *config.Config
	db  *gorm.DB
}

// Handler is the user administration handler.
var Handler = Service{}

// Init initializes the user administration handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB) error {
	if app == nil || cfg == nil || db == nil {
		return errors.New(handler.ErrNilACDFatalLogMsg)
	}

	s.cfg = cfg
	s.db = db

	// register routes
	app.Route(Path, func(router fiber.Router) {
		router.Get(handler.RouterRootPath,
			authmiddleware.RequirePermission(coreauth.ActionView, coreauth.ResourceUsers), s.List)
		router.Post(handler.RouterRootPath,
			authmiddleware.RequirePermission(coreauth.ActionCreate, coreauth.ResourceUsers), s.Create)
		router.Get("/:id",
			authmiddleware.RequirePermission(coreauth.ActionView, coreauth.ResourceUsers), s.Get)
		router.Put("/:id",
			authmiddleware.RequirePermission(coreauth.ActionEdit, coreauth.ResourceUsers), s.Update)
		router.Delete("/:id",
			authmiddleware.RequirePermission(coreauth.ActionDelete, coreauth.ResourceUsers), s.Delete)
	})

	return nil
}

// List returns all users.
func (s *Service) List(c *fiber.Ctx) error {
	users, err := userctl.GetAll(s.db)
	if err != nil {
		log.Error().Err(err).Msg("failed to list users")
		return handler.Fail(c, fiber.StatusInternalServerError, "internal server error")
	}

	return c.JSON(users)
}

// Get returns a single user by ID.
func (s *Service) Get(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return handler.Fail(c, fiber.StatusBadRequest, "invalid user id")
	}

	u, err := userctl.GetByID(s.db, id)
	if err != nil {
		if errors.Is(err, userctl.ErrUserNotFound) {
			return handler.Fail(c, fiber.StatusNotFound, "user not found")
		}

		log.Error().Err(err).Msg("failed to get user")
		return handler.Fail(c, fiber.StatusInternalServerError, "internal server error")
	}

	return c.JSON(u)
}

// Create creates a new user.
func (s *Service) Create(c *fiber.Ctx) error {
	req := new(Request)
	if err := c.BodyParser(req); err != nil {
		return handler.Fail(c, fiber.StatusBadRequest, "invalid request body")
	}

	u := &models.User{
		Active:    req.Active,
		Username:  req.Username,
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Role:      req.Role,
		CenterID:  req.CenterID,
	}

	created, err := userctl.Create(s.db, u, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, userctl.ErrUsernameEmpty), errors.Is(err, userctl.ErrInvalidRole):
			return handler.Fail(c, fiber.StatusBadRequest, err.Error())
		case errors.Is(err, userctl.ErrUserAlreadyExists):
			return handler.Fail(c, fiber.StatusConflict, err.Error())
		}

		log.Error().Err(err).Msg("failed to create user")
		return handler.Fail(c, fiber.StatusInternalServerError, "internal server error")
	}

	return c.Status(fiber.StatusCreated).JSON(created)
}

// Update updates an existing user. A non-empty password is rehashed.
func (s *Service) Update(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return handler.Fail(c, fiber.StatusBadRequest, "invalid user id")
	}

	req := new(Request)
	if err := c.BodyParser(req); err != nil {
		return handler.Fail(c, fiber.StatusBadRequest, "invalid request body")
	}

	u := &models.User{
		ID:        id,
		Active:    req.Active,
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Role:      req.Role,
		CenterID:  req.CenterID,
	}

	updated, err := userctl.Update(s.db, u)
	if err != nil {
		switch {
		case errors.Is(err, userctl.ErrUserNotFound):
			return handler.Fail(c, fiber.StatusNotFound, "user not found")
		case errors.Is(err, userctl.ErrInvalidRole):
			return handler.Fail(c, fiber.StatusBadRequest, err.Error())
		}

		log.Error().Err(err).Msg("failed to update user")
		return handler.Fail(c, fiber.StatusInternalServerError, "internal server error")
	}

	if req.Password != "" {
		if err := userctl.UpdatePassword(s.db, id, req.Password); err != nil {
			log.Error().Err(err).Msg("failed to update password")
			return handler.Fail(c, fiber.StatusInternalServerError, "internal server error")
		}
	}

	return c.JSON(updated)
}

// Delete removes a user.
func (s *Service) Delete(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return handler.Fail(c, fiber.StatusBadRequest, "invalid user id")
	}

	if err := userctl.Delete(s.db, id); err != nil {
		if errors.Is(err, userctl.ErrUserNotFound) {
			return handler.Fail(c, fiber.StatusNotFound, "user not found")
		}

		log.Error().Err(err).Msg("failed to delete user")
		return handler.Fail(c, fiber.StatusInternalServerError, "internal server error")
	}

	return c.JSON(fiber.Map{"status": "deleted"})
}

func parseID(c *fiber.Ctx) (uint64, error) {
	return strconv.ParseUint(c.Params("id"), 10, 64)
}
