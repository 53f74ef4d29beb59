package models

import "time"

// Setting represents a configuration setting stored in the database.
// The settings UI persists the verification-code defaults here.
type Setting struct {
	ID        uint64 `gorm:"primaryKey"`
	Name      string `gorm:"unique"`
	Value     []byte `gorm:"type:blob"`
	UpdatedAt time.Time
}
