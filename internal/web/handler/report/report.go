// Package report implements aggregate reporting over convocatorias,
// projects and reviews.
package report

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	coreauth "github.com/InnovaGrants-Admin/InnovaGrants-Admin/internal/auth"
	"github.com/InnovaGrants-Admin/InnovaGrants-Admin/internal/config"
	"github.com/InnovaGrants-Admin/InnovaGrants-Admin/internal/db/models"
	"github.com/InnovaGrants-Admin/InnovaGrants-Admin/internal/web/handler"
	authmiddleware "github.com/InnovaGrants-Admin/InnovaGrants-Admin/internal/web/middleware/auth"
)

const (
	// Path is the base path of the reporting API.
	Path = "/api/reports"
)

// ProjectSummary aggregates project counts by status for one convocatoria.
type ProjectSummary struct {
	ConvocatoriaID   uint                           `json:"convocatoria_id"`
	ConvocatoriaName string                         `json:"convocatoria_name"`
	Year             int                            `json:"year"`
	Total            int64                          `json:"total"`
	ByStatus         map[models.ProjectStatus]int64 `json:"by_status"`
}

// ScoreRow is one project's review aggregate.
type ScoreRow struct {
	ProjectID    uint    `json:"project_id"`
	Title        string  `json:"title"`
	ReviewCount  int64   `json:"review_count"`
	AverageScore float64 `json:"average_score"`
}

// Service is the report handler service.
type Service struct {
	handler.Service
	cfg *config.Config
	db  *gorm.DB
}

// Handler is the report handler.
var Handler = Service{}

// Init initializes the report handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB) error {
	if app == nil || cfg == nil || db == nil {
		return errors.New(handler.ErrNilACDFatalLogMsg)
	}

	s.cfg = cfg
	s.db = db

	// register routes
	app.Route(Path, func(router fiber.Router) {
		router.Get("/projects",
			authmiddleware.RequirePermission(coreauth.ActionView, coreauth.ResourceReports), s.Projects)
		router.Get("/scores",
			authmiddleware.RequirePermission(coreauth.ActionView, coreauth.ResourceReports), s.Scores)
	})

	return nil
}

// Projects returns project counts by status, one summary per convocatoria.
func (s *Service) Projects(c *fiber.Ctx) error {
	var calls []models.Convocatoria
	if err := s.db.Order("year DESC, id DESC").Find(&calls).Error; err != nil {
		log.Error().Err(err).Msg("failed to build project report")
		return handler.Fail(c, fiber.StatusInternalServerError, "internal server error")
	}

	summaries := make([]ProjectSummary, 0, len(calls))
	for _, call := range calls {
		var rows []struct {
			Status models.ProjectStatus
			Count  int64
		}
		err := s.db.Model(&models.Project{}).
			Select("status, COUNT(*) AS count").
			Where("convocatoria_id = ?", call.ID).
			Group("status").
			Scan(&rows).Error
		if err != nil {
			log.Error().Err(err).Msg("failed to build project report")
			return handler.Fail(c, fiber.StatusInternalServerError, "internal server error")
		}

		summary := ProjectSummary{
			ConvocatoriaID:   call.ID,
			ConvocatoriaName: call.Name,
			Year:             call.Year,
			ByStatus:         make(map[models.ProjectStatus]int64),
		}
		for _, row := range rows {
			summary.ByStatus[row.Status] = row.Count
			summary.Total += row.Count
		}

		summaries = append(summaries, summary)
	}

	return c.JSON(summaries)
}

// Scores returns review aggregates per submitted project, best average first.
// An optional convocatoria_id query narrows the report to one call.
func (s *Service) Scores(c *fiber.Ctx) error {
	query := s.db.Model(&models.Project{}).
		Select("projects.id AS project_id, projects.title, COUNT(reviews.id) AS review_count, COALESCE(AVG(reviews.score), 0) AS average_score").
		Joins("LEFT JOIN reviews ON reviews.project_id = projects.id").
		Where("projects.status <> ?", models.ProjectStatusDraft).
		Group("projects.id, projects.title").
		Order("average_score DESC")

	if convocatoriaID := c.QueryInt("convocatoria_id"); convocatoriaID > 0 {
		query = query.Where("projects.convocatoria_id = ?", convocatoriaID)
	}

	var rows []ScoreRow
	if err := query.Scan(&rows).Error; err != nil {
		log.Error().Err(err).Msg("failed to build score report")
		return handler.Fail(c, fiber.StatusInternalServerError, "internal server error")
	}

	return c.JSON(rows)
}
