// Package login implements the credential login endpoint.
package login

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/InnovaGrants-Admin/InnovaGrants-Admin/internal/config"
	"github.com/InnovaGrants-Admin/InnovaGrants-Admin/internal/db/controller/user"
	"github.com/InnovaGrants-Admin/InnovaGrants-Admin/internal/web/handler"
	"github.com/InnovaGrants-Admin/InnovaGrants-Admin/internal/web/session"
)

const (
	// Path is the path to the login endpoint.
	Path = "/login"
)

// Request is the login request body.
type Request struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Service is the login handler service.
type Service struct {
	handler.Service
	cfg *config.Config
	db  *gorm.DB
}

// Handler is the login handler.
var Handler = Service{}

// Init initializes the login handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB) error {
	if app == nil || cfg == nil || db == nil {
		return errors.New(handler.ErrNilACDFatalLogMsg)
	}

	s.db = db
	s.cfg = cfg

	// register routes
	app.Post(Path, s.Post)

	return nil
}

// Post handles the login request.
func (s *Service) Post(c *fiber.Ctx) error {
	req := new(Request)
	if err := c.BodyParser(req); err != nil {
		return handler.Fail(c, fiber.StatusBadRequest, "invalid request body")
	}

	dbUser, err := user.Authenticate(s.db, req.Username, req.Password)
	if err != nil {
		// one message for every failure mode, no credential probing
		return handler.Fail(c, fiber.StatusUnauthorized, "invalid username or password")
	}

	sessionID, err := session.GenerateSessionID()
	if err != nil {
		log.Error().Err(err).Msg("failed to generate session ID")
		return handler.Fail(c, fiber.StatusInternalServerError, "internal server error")
	}

	userSession := &session.Data{
		User: *dbUser,
	}

	if err = userSession.Write(sessionID, s.cfg.Webserver.Session.ExpiryTime); err != nil {
		log.Error().Err(err).Msg("failed to write session")
		return handler.Fail(c, fiber.StatusInternalServerError, "internal server error")
	}

	// set login cookie
	cookieSettings := &fiber.Cookie{
		Name:     session.CookieName,
		Value:    sessionID,
		MaxAge:   int(s.cfg.Webserver.Session.ExpiryTime.Seconds()),
		Secure:   true,
		HTTPOnly: true,
		SameSite: "Lax", // TODO: make this configurable
	}

	if s.cfg.DevMode {
		cookieSettings.Secure = false
	}

	c.Cookie(cookieSettings)

	return c.JSON(fiber.Map{
		"username": dbUser.Username,
		"role":     dbUser.Role,
	})
}
