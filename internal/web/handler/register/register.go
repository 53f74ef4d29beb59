// Package register implements code-gated self registration. A prospective
// user presents a verification code; the role embedded in the code decides
// the role of the new account.
package register

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/InnovaGrants-Admin/InnovaGrants-Admin/internal/config"
	"github.com/InnovaGrants-Admin/InnovaGrants-Admin/internal/db/controller/setting"
	"github.com/InnovaGrants-Admin/InnovaGrants-Admin/internal/db/controller/user"
	"github.com/InnovaGrants-Admin/InnovaGrants-Admin/internal/db/models"
	"github.com/InnovaGrants-Admin/InnovaGrants-Admin/internal/verification"
	"github.com/InnovaGrants-Admin/InnovaGrants-Admin/internal/web/handler"
)

const (
	// Path is the path to the registration endpoint.
	Path = "/register"

	// codeRejectedMsg deliberately does not reveal why the code failed.
	codeRejectedMsg = "invalid or expired verification code"
)

// Request is the registration request body.
type Request struct {
	Username  string `json:"username" validate:"required,min=3,max=64"`
	Password  string `json:"password" validate:"required,min=8"`
	Email     string `json:"email" validate:"required,email"`
	FirstName string `json:"first_name" validate:"max=120"`
	LastName  string `json:"last_name" validate:"max=120"`
	Code      string `json:"code" validate:"required"`
}

// Service is the registration handler service.
type Service struct {
	handler.Service
	cfg      *config.Config
	db       *gorm.DB
	codes    *verification.Service
	validate *validator.Validate
}

// Handler is the registration handler.
var Handler = Service{}

// Init initializes the registration handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB, codes *verification.Service) error {
	if app == nil || cfg == nil || db == nil || codes == nil {
		return errors.New(handler.ErrNilACDFatalLogMsg)
	}

	s.cfg = cfg
	s.db = db
	s.codes = codes
	s.validate = validator.New()

	app.Post(Path, s.Post)

	return nil
}

// Post handles a registration request.
func (s *Service) Post(c *fiber.Ctx) error {
	req := new(Request)
	if err := c.BodyParser(req); err != nil {
		return handler.Fail(c, fiber.StatusBadRequest, "invalid request body")
	}

	if err := s.validate.Struct(req); err != nil {
		return handler.Fail(c, fiber.StatusBadRequest, err.Error())
	}

	open, err := setting.GetBool(s.db, setting.NameRegistrationOpen, true)
	if err != nil {
		log.Error().Err(err).Msg("failed to read registration setting")
		return handler.Fail(c, fiber.StatusInternalServerError, "internal server error")
	}
	if !open {
		return handler.Fail(c, fiber.StatusForbidden, "registration is closed")
	}

	// reject taken usernames before consuming the code
	if _, err := user.Get(s.db, req.Username); err == nil {
		return handler.Fail(c, fiber.StatusConflict, "username already taken")
	} else if !errors.Is(err, user.ErrUserNotFound) {
		log.Error().Err(err).Msg("failed to check username availability")
		return handler.Fail(c, fiber.StatusInternalServerError, "internal server error")
	}

	v, err := s.codes.Use(req.Code)
	if err != nil {
		log.Error().Err(err).Msg("failed to redeem verification code")
		return handler.Fail(c, fiber.StatusInternalServerError, "internal server error")
	}
	if !v.OK() {
		return handler.Fail(c, fiber.StatusUnprocessableEntity, codeRejectedMsg)
	}

	newUser := &models.User{
		Active:    true,
		Username:  req.Username,
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Role:      v.Code.Type,
	}

	created, err := user.Create(s.db, newUser, req.Password)
	if err != nil {
		log.Error().Err(err).Msg("failed to create user")
		return handler.Fail(c, fiber.StatusInternalServerError, "internal server error")
	}

	log.Info().
		Str("username", created.Username).
		Str("role", string(created.Role)).
		Msg("user registered via verification code")

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"username": created.Username,
		"role":     created.Role,
	})
}
