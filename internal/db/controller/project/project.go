// Package project provides CRUD and lifecycle operations for innovation
// projects. A project is created as a draft by its presenter, submitted while
// its convocatoria is open, and finally approved or rejected by a coordinator.
package project

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/InnovaGrants-Admin/InnovaGrants-Admin/internal/db/models"
)

var (
	// ErrProjectNotFound is returned when a project is not found.
	ErrProjectNotFound = errors.New("project not found")
	// ErrTitleEmpty is returned when attempting to create a project with an empty title.
	ErrTitleEmpty = errors.New("project title cannot be empty")
	// ErrConvocatoriaNotOpen is returned when submitting to a call that is not accepting projects.
	ErrConvocatoriaNotOpen = errors.New("convocatoria is not open for submissions")
	// ErrInvalidTransition is returned on a lifecycle change the state machine forbids.
	ErrInvalidTransition = errors.New("invalid project status transition")
	// ErrNotOwner is returned when a user operates on a project they do not own.
	ErrNotOwner = errors.New("project belongs to another presenter")
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
)

// Filter narrows List results. Zero fields are ignored.
type Filter struct {
	ConvocatoriaID uint
	CenterID       uint
	PresenterID    uint64
	Status         models.ProjectStatus
}

// GetByID retrieves a project by its ID.
func GetByID(db *gorm.DB, id uint) (*models.Project, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var p models.Project
	result := db.First(&p, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, result.Error
	}

	return &p, nil
}

// List retrieves projects matching the filter, newest first. All filter
// fields are combined conjunctively.
func List(db *gorm.DB, filter Filter) ([]models.Project, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	query := db.Order("created_at DESC")
	if filter.ConvocatoriaID != 0 {
		query = query.Where("convocatoria_id = ?", filter.ConvocatoriaID)
	}
	if filter.CenterID != 0 {
		query = query.Where("center_id = ?", filter.CenterID)
	}
	if filter.PresenterID != 0 {
		query = query.Where("presenter_id = ?", filter.PresenterID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	var projects []models.Project
	result := query.Find(&projects)
	if result.Error != nil {
		return nil, result.Error
	}

	return projects, nil
}

// Create creates a new draft project for a presenter.
func Create(db *gorm.DB, p *models.Project) (*models.Project, error) {
	if db == nil {
		return nil, ErrDBNil
	}
	if p == nil || p.Title == "" {
		return nil, ErrTitleEmpty
	}

	var call models.Convocatoria
	result := db.First(&call, p.ConvocatoriaID)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrConvocatoriaNotOpen
		}
		return nil, result.Error
	}
	if call.Status != models.ConvocatoriaStatusOpen {
		return nil, ErrConvocatoriaNotOpen
	}

	p.Status = models.ProjectStatusDraft
	p.SubmittedAt = nil

	result = db.Create(p)
	if result.Error != nil {
		return nil, result.Error
	}

	return p, nil
}

// Update saves changes to a draft project. Only the owning presenter may
// update it, and only while it is a draft.
func Update(db *gorm.DB, p *models.Project, presenterID uint64) (*models.Project, error) {
	if db == nil {
		return nil, ErrDBNil
	}
	if p == nil || p.ID == 0 {
		return nil, ErrProjectNotFound
	}
	if p.Title == "" {
		return nil, ErrTitleEmpty
	}

	existing, err := GetByID(db, p.ID)
	if err != nil {
		return nil, err
	}
	if existing.PresenterID != presenterID {
		return nil, ErrNotOwner
	}
	if existing.Status != models.ProjectStatusDraft {
		return nil, ErrInvalidTransition
	}

	existing.Title = p.Title
	existing.Summary = p.Summary
	existing.CenterID = p.CenterID
	existing.CycleID = p.CycleID

	result := db.Save(existing)
	if result.Error != nil {
		return nil, result.Error
	}

	return existing, nil
}

// Submit moves a draft project into the review phase. The convocatoria must
// still be open at submission time.
func Submit(db *gorm.DB, id uint, presenterID uint64) (*models.Project, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	p, err := GetByID(db, id)
	if err != nil {
		return nil, err
	}
	if p.PresenterID != presenterID {
		return nil, ErrNotOwner
	}
	if p.Status != models.ProjectStatusDraft {
		return nil, ErrInvalidTransition
	}

	var call models.Convocatoria
	if err := db.First(&call, p.ConvocatoriaID).Error; err != nil {
		return nil, err
	}
	if call.Status != models.ConvocatoriaStatusOpen {
		return nil, ErrConvocatoriaNotOpen
	}

	now := time.Now()
	p.Status = models.ProjectStatusSubmitted
	p.SubmittedAt = &now

	if err := db.Save(p).Error; err != nil {
		return nil, err
	}

	return p, nil
}

// Approve marks a submitted project as approved.
func Approve(db *gorm.DB, id uint) (*models.Project, error) {
	return decide(db, id, models.ProjectStatusApproved)
}

// Reject marks a submitted project as rejected.
func Reject(db *gorm.DB, id uint) (*models.Project, error) {
	return decide(db, id, models.ProjectStatusRejected)
}

func decide(db *gorm.DB, id uint, to models.ProjectStatus) (*models.Project, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	p, err := GetByID(db, id)
	if err != nil {
		return nil, err
	}
	if p.Status != models.ProjectStatusSubmitted {
		return nil, ErrInvalidTransition
	}

	p.Status = to
	if err := db.Save(p).Error; err != nil {
		return nil, err
	}

	return p, nil
}

// Delete deletes a draft project. Only the owning presenter may delete it.
func Delete(db *gorm.DB, id uint, presenterID uint64) error {
	if db == nil {
		return ErrDBNil
	}

	p, err := GetByID(db, id)
	if err != nil {
		return err
	}
	if p.PresenterID != presenterID {
		return ErrNotOwner
	}
	if p.Status != models.ProjectStatusDraft {
		return ErrInvalidTransition
	}

	return db.Delete(p).Error
}
