package models

import (
	"time"

	"github.com/InnovaGrants-Admin/InnovaGrants-Admin/internal/auth"
)

// CodeStatus represents the lifecycle state of a verification code.
// Active codes may still be redeemed; used, expired, and revoked are
// terminal states with no further transitions.
type CodeStatus string

const (
	// CodeStatusActive indicates the code may still be validated and redeemed.
	CodeStatusActive CodeStatus = "active"
	// CodeStatusUsed indicates the code reached its use limit.
	CodeStatusUsed CodeStatus = "used"
	// CodeStatusExpired indicates the code passed its expiry instant.
	CodeStatusExpired CodeStatus = "expired"
	// CodeStatusRevoked indicates an administrator withdrew the code.
	CodeStatusRevoked CodeStatus = "revoked"
)

// Terminal reports whether s is one of the terminal lifecycle states.
func (s CodeStatus) Terminal() bool {
	switch s {
	case CodeStatusUsed, CodeStatusExpired, CodeStatusRevoked:
		return true
	case CodeStatusActive:
		return false
	}

	return false
}

// VerificationCode represents a single invitation/registration token.
// A successful redemption grants the bearer an account with the role stored
// in Type. Codes are never physically deleted; cleanup and revocation only
// mutate the status so the audit trail stays complete.
type VerificationCode struct {
	// ID is the opaque unique identifier, assigned at creation, immutable.
	ID string `gorm:"primaryKey;size:36"`
	// Code is the human-enterable token: 8 characters drawn from A-Z0-9,
	// generated from a cryptographically secure random source and stored
	// uppercase-normalized. The unique index makes the astronomically
	// unlikely token collision surface as a persistence error instead of a
	// silent duplicate.
	Code string `gorm:"uniqueIndex;size:8;not null"`
	// Type is the role that a successful redemption will grant.
	Type auth.Role `gorm:"type:varchar(20);not null"`
	// CreatedAt is the creation time of the code.
	CreatedAt time.Time
	// ExpiresAt is the deterministic future instant CreatedAt plus the
	// configured expiration hours.
	ExpiresAt time.Time
	// MaxUses bounds how many times the code may be redeemed.
	MaxUses int `gorm:"not null"`
	// CurrentUses counts completed redemptions; never exceeds MaxUses.
	CurrentUses int `gorm:"not null;default:0"`
	// Status is the lifecycle state of the code.
	Status CodeStatus `gorm:"type:varchar(10);not null;default:'active'"`
}

// TableName specifies the database table name for the VerificationCode model.
// This overrides GORM's default pluralized table naming.
func (VerificationCode) TableName() string {
	return "verification_codes"
}

// Expired reports whether the code is past its expiry instant at now.
func (c *VerificationCode) Expired(now time.Time) bool {
	return !now.Before(c.ExpiresAt)
}

// Exhausted reports whether the code reached its use limit.
func (c *VerificationCode) Exhausted() bool {
	return c.CurrentUses >= c.MaxUses
}
