// Package models contains database model definitions.
package models

import "time"

// Center represents an educational center participating in the competition.
type Center struct {
	ID        uint   `gorm:"primaryKey"`
	Code      string `gorm:"unique;size:20;not null"`
	Name      string `gorm:"size:255;not null"`
	City      string `gorm:"size:100"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName specifies the database table name for the Center model.
func (Center) TableName() string {
	return "centers"
}

// Family represents a professional family grouping training cycles.
type Family struct {
	ID        uint   `gorm:"primaryKey"`
	Code      string `gorm:"unique;size:20;not null"`
	Name      string `gorm:"size:255;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName specifies the database table name for the Family model.
func (Family) TableName() string {
	return "families"
}

// Cycle represents a training cycle within a professional family.
type Cycle struct {
	ID        uint   `gorm:"primaryKey"`
	Code      string `gorm:"unique;size:20;not null"`
	Name      string `gorm:"size:255;not null"`
	FamilyID  uint   `gorm:"not null"`
	Family    Family `gorm:"foreignKey:FamilyID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName specifies the database table name for the Cycle model.
func (Cycle) TableName() string {
	return "cycles"
}

// Course represents a school year of a training cycle (e.g. first, second).
type Course struct {
	ID        uint   `gorm:"primaryKey"`
	Name      string `gorm:"size:255;not null"`
	CycleID   uint   `gorm:"not null"`
	Cycle     Cycle  `gorm:"foreignKey:CycleID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName specifies the database table name for the Course model.
func (Course) TableName() string {
	return "courses"
}

// Specialty represents a teaching specialty used to match reviewers with projects.
type Specialty struct {
	ID        uint   `gorm:"primaryKey"`
	Code      string `gorm:"unique;size:20;not null"`
	Name      string `gorm:"size:255;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName specifies the database table name for the Specialty model.
func (Specialty) TableName() string {
	return "specialties"
}
