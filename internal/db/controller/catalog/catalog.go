// Package catalog provides CRUD operations for the reference catalogs:
// centers, professional families, cycles, courses and specialties.
package catalog

import (
	"errors"

	"gorm.io/gorm"

	"github.com/InnovaGrants-Admin/InnovaGrants-Admin/internal/db/models"
)

var (
	// ErrNotFound is returned when a catalog entry is not found.
	ErrNotFound = errors.New("catalog entry not found")
	// ErrNameEmpty is returned when a catalog entry has no name.
	ErrNameEmpty = errors.New("catalog entry name cannot be empty")
	// ErrCodeEmpty is returned when a catalog entry has no code.
	ErrCodeEmpty = errors.New("catalog entry code cannot be empty")
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
)

// GetCenters retrieves all centers ordered by name.
func GetCenters(db *gorm.DB) ([]models.Center, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var centers []models.Center
	if err := db.Order("name ASC").Find(&centers).Error; err != nil {
		return nil, err
	}

	return centers, nil
}

// CreateCenter creates a new center.
func CreateCenter(db *gorm.DB, code, name, city string) (*models.Center, error) {
	if db == nil {
		return nil, ErrDBNil
	}
	if code == "" {
		return nil, ErrCodeEmpty
	}
	if name == "" {
		return nil, ErrNameEmpty
	}

	center := &models.Center{Code: code, Name: name, City: city}
	if err := db.Create(center).Error; err != nil {
		return nil, err
	}

	return center, nil
}

// DeleteCenter deletes a center by ID.
func DeleteCenter(db *gorm.DB, id uint) error {
	return deleteByID(db, &models.Center{}, id)
}

// GetFamilies retrieves all professional families ordered by name.
func GetFamilies(db *gorm.DB) ([]models.Family, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var families []models.Family
	if err := db.Order("name ASC").Find(&families).Error; err != nil {
		return nil, err
	}

	return families, nil
}

// CreateFamily creates a new professional family.
func CreateFamily(db *gorm.DB, code, name string) (*models.Family, error) {
	if db == nil {
		return nil, ErrDBNil
	}
	if code == "" {
		return nil, ErrCodeEmpty
	}
	if name == "" {
		return nil, ErrNameEmpty
	}

	family := &models.Family{Code: code, Name: name}
	if err := db.Create(family).Error; err != nil {
		return nil, err
	}

	return family, nil
}

// DeleteFamily deletes a professional family by ID. Cycles belonging to it
// are removed by the cascade on the foreign key.
func DeleteFamily(db *gorm.DB, id uint) error {
	return deleteByID(db, &models.Family{}, id)
}

// GetCycles retrieves cycles, optionally filtered by family.
func GetCycles(db *gorm.DB, familyID uint) ([]models.Cycle, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	query := db.Order("name ASC")
	if familyID != 0 {
		query = query.Where("family_id = ?", familyID)
	}

	var cycles []models.Cycle
	if err := query.Find(&cycles).Error; err != nil {
		return nil, err
	}

	return cycles, nil
}

// CreateCycle creates a new cycle under a professional family.
func CreateCycle(db *gorm.DB, code, name string, familyID uint) (*models.Cycle, error) {
	if db == nil {
		return nil, ErrDBNil
	}
	if code == "" {
		return nil, ErrCodeEmpty
	}
	if name == "" {
		return nil, ErrNameEmpty
	}

	var family models.Family
	if err := db.First(&family, familyID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	cycle := &models.Cycle{Code: code, Name: name, FamilyID: familyID}
	if err := db.Create(cycle).Error; err != nil {
		return nil, err
	}

	return cycle, nil
}

// DeleteCycle deletes a cycle by ID.
func DeleteCycle(db *gorm.DB, id uint) error {
	return deleteByID(db, &models.Cycle{}, id)
}

// GetCourses retrieves all courses ordered by name.
func GetCourses(db *gorm.DB) ([]models.Course, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var courses []models.Course
	if err := db.Order("name ASC").Find(&courses).Error; err != nil {
		return nil, err
	}

	return courses, nil
}

// CreateCourse creates a new course under a cycle.
func CreateCourse(db *gorm.DB, name string, cycleID uint) (*models.Course, error) {
	if db == nil {
		return nil, ErrDBNil
	}
	if name == "" {
		return nil, ErrNameEmpty
	}

	course := &models.Course{Name: name, CycleID: cycleID}
	if err := db.Create(course).Error; err != nil {
		return nil, err
	}

	return course, nil
}

// DeleteCourse deletes a course by ID.
func DeleteCourse(db *gorm.DB, id uint) error {
	return deleteByID(db, &models.Course{}, id)
}

// GetSpecialties retrieves all specialties ordered by name.
func GetSpecialties(db *gorm.DB) ([]models.Specialty, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var specialties []models.Specialty
	if err := db.Order("name ASC").Find(&specialties).Error; err != nil {
		return nil, err
	}

	return specialties, nil
}

// CreateSpecialty creates a new specialty.
func CreateSpecialty(db *gorm.DB, code, name string) (*models.Specialty, error) {
	if db == nil {
		return nil, ErrDBNil
	}
	if code == "" {
		return nil, ErrCodeEmpty
	}
	if name == "" {
		return nil, ErrNameEmpty
	}

	specialty := &models.Specialty{Code: code, Name: name}
	if err := db.Create(specialty).Error; err != nil {
		return nil, err
	}

	return specialty, nil
}

// DeleteSpecialty deletes a specialty by ID.
func DeleteSpecialty(db *gorm.DB, id uint) error {
	return deleteByID(db, &models.Specialty{}, id)
}

func deleteByID(db *gorm.DB, model any, id uint) error {
	if db == nil {
		return ErrDBNil
	}

	result := db.Delete(model, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}
