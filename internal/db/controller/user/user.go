// Package user provides CRUD operations for managing user accounts.
package user

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/InnovaGrants-Admin/InnovaGrants-Admin/internal/auth"
	"github.com/InnovaGrants-Admin/InnovaGrants-Admin/internal/db/models"
)

const (
	usernameQueryPattern = "username = ?"
)

var (
	// ErrUserNotFound is returned when a user is not found.
	ErrUserNotFound = errors.New("user not found")
	// ErrUsernameEmpty is returned when attempting to create a user with an empty username.
	ErrUsernameEmpty = errors.New("username cannot be empty")
	// ErrUserAlreadyExists is returned when attempting to create a user that already exists.
	ErrUserAlreadyExists = errors.New("user already exists")
	// ErrInvalidRole is returned when a user is given a role outside the known set.
	ErrInvalidRole = errors.New("invalid role")
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
)

// Get retrieves a user by username.
func Get(db *gorm.DB, username string) (*models.User, error) {
	if db == nil {
		return nil, ErrDBNil
	}
	if username == "" {
		return nil, ErrUsernameEmpty
	}

	var user models.User
	result := db.Where(usernameQueryPattern, username).First(&user)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, result.Error
	}

	return &user, nil
}

// GetByID retrieves a user by its ID.
func GetByID(db *gorm.DB, id uint64) (*models.User, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var user models.User
	result := db.First(&user, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, result.Error
	}

	return &user, nil
}

// GetAll retrieves all users.
func GetAll(db *gorm.DB) ([]models.User, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var users []models.User
	result := db.Order("username ASC").Find(&users)
	if result.Error != nil {
		return nil, result.Error
	}

	return users, nil
}

// GetByRole retrieves all users holding the given role.
func GetByRole(db *gorm.DB, role auth.Role) ([]models.User, error) {
	if db == nil {
		return nil, ErrDBNil
	}
	if !role.Valid() {
		return nil, ErrInvalidRole
	}

	var users []models.User
	result := db.Where("role = ?", role).Order("username ASC").Find(&users)
	if result.Error != nil {
		return nil, result.Error
	}

	return users, nil
}

// Create creates a new user with a hashed password.
func Create(db *gorm.DB, user *models.User, password string) (*models.User, error) {
	if db == nil {
		return nil, ErrDBNil
	}
	if user == nil || strings.TrimSpace(user.Username) == "" {
		return nil, ErrUsernameEmpty
	}
	if !user.Role.Valid() {
		return nil, ErrInvalidRole
	}

	// Check if user already exists
	var existing models.User
	result := db.Where(usernameQueryPattern, user.Username).First(&existing)
	if result.Error == nil {
		return nil, ErrUserAlreadyExists
	}
	if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, result.Error
	}

	if err := user.HashPassword(password); err != nil {
		return nil, err
	}

	result = db.Create(user)
	if result.Error != nil {
		return nil, result.Error
	}

	return user, nil
}

// Update saves changes to an existing user. The password is left untouched.
func Update(db *gorm.DB, user *models.User) (*models.User, error) {
	if db == nil {
		return nil, ErrDBNil
	}
	if user == nil || user.ID == 0 {
		return nil, ErrUserNotFound
	}
	if !user.Role.Valid() {
		return nil, ErrInvalidRole
	}

	var existing models.User
	result := db.First(&existing, user.ID)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, result.Error
	}

	existing.Active = user.Active
	existing.Email = user.Email
	existing.FirstName = user.FirstName
	existing.LastName = user.LastName
	existing.Role = user.Role
	existing.CenterID = user.CenterID

	result = db.Save(&existing)
	if result.Error != nil {
		return nil, result.Error
	}

	return &existing, nil
}

// UpdatePassword rehashes and stores a user's password.
func UpdatePassword(db *gorm.DB, id uint64, password string) error {
	if db == nil {
		return ErrDBNil
	}

	var user models.User
	result := db.First(&user, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return result.Error
	}

	if err := user.HashPassword(password); err != nil {
		return err
	}

	return db.Save(&user).Error
}

// Delete soft-deletes a user by ID.
func Delete(db *gorm.DB, id uint64) error {
	if db == nil {
		return ErrDBNil
	}

	result := db.Delete(&models.User{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}

	return nil
}

// Authenticate verifies a username/password pair and returns the user on
// success. Inactive users never authenticate.
func Authenticate(db *gorm.DB, username, password string) (*models.User, error) {
	user, err := Get(db, username)
	if err != nil {
		return nil, err
	}
	if !user.Active {
		return nil, ErrUserNotFound
	}

	ok, err := user.VerifyPassword(password)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrUserNotFound
	}

	return user, nil
}
