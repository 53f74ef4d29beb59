// Package convocatoria provides CRUD and lifecycle operations for
// competition calls.
package convocatoria

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/InnovaGrants-Admin/InnovaGrants-Admin/internal/db/models"
)

var (
	// ErrConvocatoriaNotFound is returned when a convocatoria is not found.
	ErrConvocatoriaNotFound = errors.New("convocatoria not found")
	// ErrNameEmpty is returned when attempting to create a convocatoria with an empty name.
	ErrNameEmpty = errors.New("convocatoria name cannot be empty")
	// ErrInvalidWindow is returned when the submission window ends before it starts.
	ErrInvalidWindow = errors.New("submission window ends before it starts")
	// ErrInvalidTransition is returned on a lifecycle change the state machine forbids.
	ErrInvalidTransition = errors.New("invalid convocatoria status transition")
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
)

// GetByID retrieves a convocatoria by its ID.
func GetByID(db *gorm.DB, id uint) (*models.Convocatoria, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var c models.Convocatoria
	result := db.First(&c, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrConvocatoriaNotFound
		}
		return nil, result.Error
	}

	return &c, nil
}

// GetAll retrieves all convocatorias, newest edition first.
func GetAll(db *gorm.DB) ([]models.Convocatoria, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var calls []models.Convocatoria
	result := db.Order("year DESC, id DESC").Find(&calls)
	if result.Error != nil {
		return nil, result.Error
	}

	return calls, nil
}

// GetOpen retrieves the convocatorias currently accepting submissions.
func GetOpen(db *gorm.DB) ([]models.Convocatoria, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var calls []models.Convocatoria
	result := db.Where("status = ?", models.ConvocatoriaStatusOpen).
		Order("year DESC").Find(&calls)
	if result.Error != nil {
		return nil, result.Error
	}

	return calls, nil
}

// Create creates a new convocatoria in draft state.
func Create(db *gorm.DB, name string, year int, startsAt, endsAt time.Time) (*models.Convocatoria, error) {
	if db == nil {
		return nil, ErrDBNil
	}
	if name == "" {
		return nil, ErrNameEmpty
	}
	if endsAt.Before(startsAt) {
		return nil, ErrInvalidWindow
	}

	c := &models.Convocatoria{
		Name:     name,
		Year:     year,
		Status:   models.ConvocatoriaStatusDraft,
		StartsAt: startsAt,
		EndsAt:   endsAt,
	}

	result := db.Create(c)
	if result.Error != nil {
		return nil, result.Error
	}

	return c, nil
}

// Update saves changes to a convocatoria's name, year and window.
func Update(db *gorm.DB, c *models.Convocatoria) (*models.Convocatoria, error) {
	if db == nil {
		return nil, ErrDBNil
	}
	if c == nil || c.ID == 0 {
		return nil, ErrConvocatoriaNotFound
	}
	if c.Name == "" {
		return nil, ErrNameEmpty
	}
	if c.EndsAt.Before(c.StartsAt) {
		return nil, ErrInvalidWindow
	}

	var existing models.Convocatoria
	result := db.First(&existing, c.ID)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrConvocatoriaNotFound
		}
		return nil, result.Error
	}

	existing.Name = c.Name
	existing.Year = c.Year
	existing.StartsAt = c.StartsAt
	existing.EndsAt = c.EndsAt

	result = db.Save(&existing)
	if result.Error != nil {
		return nil, result.Error
	}

	return &existing, nil
}

// Open moves a draft convocatoria into the open state.
func Open(db *gorm.DB, id uint) (*models.Convocatoria, error) {
	return setStatus(db, id, models.ConvocatoriaStatusDraft, models.ConvocatoriaStatusOpen)
}

// Close moves an open convocatoria into the closed state.
func Close(db *gorm.DB, id uint) (*models.Convocatoria, error) {
	return setStatus(db, id, models.ConvocatoriaStatusOpen, models.ConvocatoriaStatusClosed)
}

func setStatus(db *gorm.DB, id uint, from, to models.ConvocatoriaStatus) (*models.Convocatoria, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	c, err := GetByID(db, id)
	if err != nil {
		return nil, err
	}
	if c.Status != from {
		return nil, ErrInvalidTransition
	}

	c.Status = to
	if err := db.Save(c).Error; err != nil {
		return nil, err
	}

	return c, nil
}

// Delete deletes a convocatoria by ID. Projects submitted to it are removed
// by the cascade on the foreign key.
func Delete(db *gorm.DB, id uint) error {
	if db == nil {
		return ErrDBNil
	}

	result := db.Delete(&models.Convocatoria{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrConvocatoriaNotFound
	}

	return nil
}
