package models

import (
	"time"

	"github.com/alexedwards/argon2id"
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/InnovaGrants-Admin/InnovaGrants-Admin/internal/auth"
)

// User represents a user account in the system.
// Accounts are created through verification-code based registration or by an
// administrator; the assigned role is immutable afterwards and drives all
// authorization decisions.
type User struct {
	// ID is the unique identifier for the user.
	ID uint64 `gorm:"primaryKey"`
	// Active indicates whether the user account is active and can log in.
	Active bool
	// Username is the unique username for login.
	Username string `gorm:"unique;size:100;not null"`
	// Email is the user's email address.
	Email string `gorm:"size:255;not null"`
	// Password is the Argon2id hashed password.
	Password string `gorm:"size:255"`
	// FirstName is the user's first or given name.
	FirstName string `gorm:"size:100"`
	// LastName is the user's last or family name.
	LastName string `gorm:"size:100"`
	// Role is the authorization level of this account (admin, coordinator,
	// presenter, reviewer, or guest). It is checked against the fixed
	// permission table in the auth package.
	Role auth.Role `gorm:"type:varchar(20);not null;default:'guest'"`
	// CenterID optionally links the user to the center they belong to.
	CenterID *uint `gorm:"column:center_id"`
	// Center is the associated center (loaded via foreign key).
	Center *Center `gorm:"foreignKey:CenterID"`
	// CreatedAt is the timestamp when the user was created (managed by GORM).
	CreatedAt time.Time
	// UpdatedAt is the timestamp when the user was last updated (managed by GORM).
	UpdatedAt time.Time
	// DeletedAt is the soft delete timestamp (zero if not deleted, managed by GORM).
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

// TableName specifies the database table name for the User model.
// This overrides GORM's default pluralized table naming.
func (User) TableName() string {
	return "users"
}

// HashPassword hashes a plaintext password using the Argon2id algorithm and
// stores the hash on the user. It uses the default Argon2id parameters.
func (u *User) HashPassword(password string) error {
	hashedPassword, err := argon2id.CreateHash(password, argon2id.DefaultParams)
	if err != nil {
		return errors.Wrap(err, "failed to hash password")
	}

	u.Password = hashedPassword

	return nil
}

// VerifyPassword verifies a plaintext password against the user's stored hashed password.
// It uses constant-time comparison to prevent timing attacks.
func (u *User) VerifyPassword(password string) (bool, error) {
	return argon2id.ComparePasswordAndHash(password, u.Password)
}
