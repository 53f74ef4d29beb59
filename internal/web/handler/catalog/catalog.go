// Package catalog implements the reference catalog API (centers, families,
// cycles, courses, specialties). Reads are open to any authenticated user;
// writes require settings permissions.
package catalog

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	coreauth "github.com/InnovaGrants-Admin/InnovaGrants-Admin/internal/auth"
	"github.com/InnovaGrants-Admin/InnovaGrants-Admin/internal/config"
	catalogctl "github.com/InnovaGrants-Admin/InnovaGrants-Admin/internal/db/controller/catalog"
	"github.com/InnovaGrants-Admin/InnovaGrants-Admin/internal/web/handler"
	authmiddleware "github.com/InnovaGrants-Admin/InnovaGrants-Admin/internal/web/middleware/auth"
)

const (
	// Path is the base path of the catalog API.
	Path = "/api/catalog"
)

// Request is the body for catalog create requests.
type Request struct {
	Code     string `json:"code"`
	Name     string `json:"name"`
	City     string `json:"city"`
	FamilyID uint   `json:"family_id"`
	CycleID  uint   `json:"cycle_id"`
}

// Service is the catalog handler service.
type Service struct {
	handler.Service
	cfg *config.Config
	db  *gorm.DB
}

// Handler is the catalog handler.
var Handler = Service{}

// Init initializes the catalog handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB) error {
	if app == nil || cfg == nil || db == nil {
		return errors.New(handler.ErrNilACDFatalLogMsg)
	}

	s.cfg = cfg
	s.db = db

	canEdit := authmiddleware.RequirePermission(coreauth.ActionEdit, coreauth.ResourceSettings)

	// register routes
	app.Route(Path, func(router fiber.Router) {
		router.Get("/centers", s.ListCenters)
		router.Post("/centers", canEdit, s.CreateCenter)
		router.Get("/families", s.ListFamilies)
		router.Post("/families", canEdit, s.CreateFamily)
		router.Get("/cycles", s.ListCycles)
		router.Post("/cycles", canEdit, s.CreateCycle)
		router.Get("/courses", s.ListCourses)
		router.Post("/courses", canEdit, s.CreateCourse)
		router.Get("/specialties", s.ListSpecialties)
		router.Post("/specialties", canEdit, s.CreateSpecialty)
	})

	return nil
}

// ListCenters returns all centers.
func (s *Service) ListCenters(c *fiber.Ctx) error {
	centers, err := catalogctl.GetCenters(s.db)
	return s.respondList(c, centers, err)
}

// CreateCenter creates a new center.
func (s *Service) CreateCenter(c *fiber.Ctx) error {
	req, err := parseRequest(c)
	if err != nil {
		return handler.Fail(c, fiber.StatusBadRequest, "invalid request body")
	}

	center, err := catalogctl.CreateCenter(s.db, req.Code, req.Name, req.City)
	return s.respondCreate(c, center, err)
}

// ListFamilies returns all professional families.
func (s *Service) ListFamilies(c *fiber.Ctx) error {
	families, err := catalogctl.GetFamilies(s.db)
	return s.respondList(c, families, err)
}

// CreateFamily creates a new professional family.
func (s *Service) CreateFamily(c *fiber.Ctx) error {
	req, err := parseRequest(c)
	if err != nil {
		return handler.Fail(c, fiber.StatusBadRequest, "invalid request body")
	}

	family, err := catalogctl.CreateFamily(s.db, req.Code, req.Name)
	return s.respondCreate(c, family, err)
}

// ListCycles returns cycles, optionally scoped to one family.
func (s *Service) ListCycles(c *fiber.Ctx) error {
	cycles, err := catalogctl.GetCycles(s.db, uint(c.QueryInt("family_id")))
	return s.respondList(c, cycles, err)
}

// CreateCycle creates a new cycle under a family.
func (s *Service) CreateCycle(c *fiber.Ctx) error {
	req, err := parseRequest(c)
	if err != nil {
		return handler.Fail(c, fiber.StatusBadRequest, "invalid request body")
	}

	cycle, err := catalogctl.CreateCycle(s.db, req.Code, req.Name, req.FamilyID)
	return s.respondCreate(c, cycle, err)
}

// ListCourses returns all courses.
func (s *Service) ListCourses(c *fiber.Ctx) error {
	courses, err := catalogctl.GetCourses(s.db)
	return s.respondList(c, courses, err)
}

// CreateCourse creates a new course under a cycle.
func (s *Service) CreateCourse(c *fiber.Ctx) error {
	req, err := parseRequest(c)
	if err != nil {
		return handler.Fail(c, fiber.StatusBadRequest, "invalid request body")
	}

	course, err := catalogctl.CreateCourse(s.db, req.Name, req.CycleID)
	return s.respondCreate(c, course, err)
}

// ListSpecialties returns all specialties.
func (s *Service) ListSpecialties(c *fiber.Ctx) error {
	specialties, err := catalogctl.GetSpecialties(s.db)
	return s.respondList(c, specialties, err)
}

// CreateSpecialty creates a new specialty.
func (s *Service) CreateSpecialty(c *fiber.Ctx) error {
	req, err := parseRequest(c)
	if err != nil {
		return handler.Fail(c, fiber.StatusBadRequest, "invalid request body")
	}

	specialty, err := catalogctl.CreateSpecialty(s.db, req.Code, req.Name)
	return s.respondCreate(c, specialty, err)
}

func (s *Service) respondList(c *fiber.Ctx, list any, err error) error {
	if err != nil {
		log.Error().Err(err).Msg("failed to list catalog entries")
		return handler.Fail(c, fiber.StatusInternalServerError, "internal server error")
	}

	return c.JSON(list)
}

func (s *Service) respondCreate(c *fiber.Ctx, entry any, err error) error {
	if err != nil {
		switch {
		case errors.Is(err, catalogctl.ErrNameEmpty), errors.Is(err, catalogctl.ErrCodeEmpty):
			return handler.Fail(c, fiber.StatusBadRequest, err.Error())
		case errors.Is(err, catalogctl.ErrNotFound):
			return handler.Fail(c, fiber.StatusNotFound, err.Error())
		}

		log.Error().Err(err).Msg("failed to create catalog entry")
		return handler.Fail(c, fiber.StatusInternalServerError, "internal server error")
	}

	return c.Status(fiber.StatusCreated).JSON(entry)
}

func parseRequest(c *fiber.Ctx) (*Request, error) {
	req := new(Request)
	if err := c.BodyParser(req); err != nil {
		return nil, err
	}

	return req, nil
}
