// Package codes implements the administration API for verification codes:
// generation, validation, revocation, cleanup and the audit trail.
package codes

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	coreauth "github.com/InnovaGrants-Admin/InnovaGrants-Admin/internal/auth"
	"github.com/InnovaGrants-Admin/InnovaGrants-Admin/internal/config"
	"github.com/InnovaGrants-Admin/InnovaGrants-Admin/internal/db/models"
	"github.com/InnovaGrants-Admin/InnovaGrants-Admin/internal/verification"
	"github.com/InnovaGrants-Admin/InnovaGrants-Admin/internal/web/handler"
	authmiddleware "github.com/InnovaGrants-Admin/InnovaGrants-Admin/internal/web/middleware/auth"
)

const (
	// Path is the base path of the verification code API.
	Path = "/api/verification-codes"
)

// GenerateRequest is the body of a code generation request. Zero values fall
// back to the configured defaults.
type GenerateRequest struct {
	Type            coreauth.Role `json:"type"`
	ExpirationHours int           `json:"expiration_hours"`
	MaxUses         int           `json:"max_uses"`
}

// ValidateRequest is the body of a validation request.
type ValidateRequest struct {
	Code string `json:"code"`
}

// RevokeRequest is the body of a revocation request.
type RevokeRequest struct {
	Reason models.CodeStatus `json:"reason"`
}

// Service is the verification code admin handler service.
type Service struct {
	handler.Service
	cfg   *config.Config
	db    *gorm.DB
	codes *verification.Service
}

// Handler is the verification code admin handler.
var Handler = Service{}

// Init initializes the verification code admin handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB, codes *verification.Service) error {
	if app == nil || cfg == nil || db == nil || codes == nil {
		return errors.New(handler.ErrNilACDFatalLogMsg)
	}

	s.cfg = cfg
	s.db = db
	s.codes = codes

	// register routes
	app.Route(Path, func(router fiber.Router) {
		router.Get(handler.RouterRootPath,
			authmiddleware.RequirePermission(coreauth.ActionView, coreauth.ResourceSystem), s.List)
		router.Post(handler.RouterRootPath,
			authmiddleware.RequirePermission(coreauth.ActionCreate, coreauth.ResourceSystem), s.Generate)
		router.Post("/validate",
			authmiddleware.RequirePermission(coreauth.ActionView, coreauth.ResourceSystem), s.Validate)
		router.Post("/cleanup",
			authmiddleware.RequirePermission(coreauth.ActionDelete, coreauth.ResourceSystem), s.Cleanup)
		router.Get("/logs",
			authmiddleware.RequirePermission(coreauth.ActionView, coreauth.ResourceSystem), s.Logs)
		router.Get("/:id/logs",
			authmiddleware.RequirePermission(coreauth.ActionView, coreauth.ResourceSystem), s.Logs)
		router.Post("/:id/revoke",
			authmiddleware.RequirePermission(coreauth.ActionEdit, coreauth.ResourceSystem), s.Revoke)
	})

	return nil
}

// Generate handles code generation.
func (s *Service) Generate(c *fiber.Ctx) error {
	req := new(GenerateRequest)
	if err := c.BodyParser(req); err != nil {
		return handler.Fail(c, fiber.StatusBadRequest, "invalid request body")
	}

	if !req.Type.Valid() {
		return handler.Fail(c, fiber.StatusBadRequest, "unknown role type")
	}

	defaults := s.cfg.CodeDefaults()
	if req.ExpirationHours <= 0 {
		req.ExpirationHours = defaults.DefaultExpirationHours
	}
	if req.MaxUses <= 0 {
		req.MaxUses = defaults.DefaultMaxUses
	}

	code, err := s.codes.Generate(req.Type, req.ExpirationHours, req.MaxUses)
	if err != nil {
		log.Error().Err(err).Msg("failed to generate verification code")
		return handler.Fail(c, fiber.StatusInternalServerError, "internal server error")
	}

	return c.Status(fiber.StatusCreated).JSON(code)
}

// Validate handles a read-only validation check.
func (s *Service) Validate(c *fiber.Ctx) error {
	req := new(ValidateRequest)
	if err := c.BodyParser(req); err != nil {
		return handler.Fail(c, fiber.StatusBadRequest, "invalid request body")
	}

	v, err := s.codes.Validate(req.Code)
	if err != nil {
		log.Error().Err(err).Msg("failed to validate verification code")
		return handler.Fail(c, fiber.StatusInternalServerError, "internal server error")
	}

	resp := fiber.Map{"outcome": v.Outcome}
	if v.OK() {
		resp["code"] = v.Code
	}

	return c.JSON(resp)
}

// Revoke handles administrative revocation of a code.
func (s *Service) Revoke(c *fiber.Ctx) error {
	req := new(RevokeRequest)
	if err := c.BodyParser(req); err != nil {
		return handler.Fail(c, fiber.StatusBadRequest, "invalid request body")
	}

	err := s.codes.Revoke(c.Params("id"), req.Reason)
	if err != nil {
		if errors.Is(err, verification.ErrInvalidRevokeReason) {
			return handler.Fail(c, fiber.StatusBadRequest, err.Error())
		}

		log.Error().Err(err).Msg("failed to revoke verification code")
		return handler.Fail(c, fiber.StatusInternalServerError, "internal server error")
	}

	return c.JSON(fiber.Map{"status": "revoked"})
}

// Cleanup sweeps stale codes on demand.
func (s *Service) Cleanup(c *fiber.Ctx) error {
	cleaned, err := s.codes.Cleanup()
	if err != nil {
		log.Error().Err(err).Msg("verification code cleanup failed")
		return handler.Fail(c, fiber.StatusInternalServerError, "internal server error")
	}

	return c.JSON(fiber.Map{"cleaned": cleaned})
}

// List returns codes matching the query filters.
func (s *Service) List(c *fiber.Ctx) error {
	filter := verification.Filter{
		Type:   coreauth.Role(c.Query("type")),
		Status: models.CodeStatus(c.Query("status")),
	}

	if from := c.Query("from"); from != "" {
		t, err := time.Parse(time.RFC3339, from)
		if err != nil {
			return handler.Fail(c, fiber.StatusBadRequest, "invalid from timestamp")
		}
		filter.From = &t
	}
	if to := c.Query("to"); to != "" {
		t, err := time.Parse(time.RFC3339, to)
		if err != nil {
			return handler.Fail(c, fiber.StatusBadRequest, "invalid to timestamp")
		}
		filter.To = &t
	}

	codes, err := s.codes.List(filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to list verification codes")
		return handler.Fail(c, fiber.StatusInternalServerError, "internal server error")
	}

	return c.JSON(codes)
}

// Logs returns the audit trail, optionally scoped to one code.
func (s *Service) Logs(c *fiber.Ctx) error {
	logs, err := s.codes.Logs(c.Params("id"))
	if err != nil {
		log.Error().Err(err).Msg("failed to read verification code logs")
		return handler.Fail(c, fiber.StatusInternalServerError, "internal server error")
	}

	return c.JSON(logs)
}
