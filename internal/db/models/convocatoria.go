package models

import "time"

// ConvocatoriaStatus represents the lifecycle state of a competition call.
type ConvocatoriaStatus string

const (
	// ConvocatoriaStatusDraft indicates the call is being prepared and not yet visible.
	ConvocatoriaStatusDraft ConvocatoriaStatus = "draft"
	// ConvocatoriaStatusOpen indicates projects may be submitted.
	ConvocatoriaStatusOpen ConvocatoriaStatus = "open"
	// ConvocatoriaStatusClosed indicates the submission window ended.
	ConvocatoriaStatusClosed ConvocatoriaStatus = "closed"
)

// Convocatoria represents one edition of the grants/innovation-project
// competition. Projects are always submitted against a convocatoria.
type Convocatoria struct {
	// ID is the unique identifier for the convocatoria.
	ID uint `gorm:"primaryKey"`
	// Name is the display name of the call (e.g. "Innovation Grants 2026").
	Name string `gorm:"size:255;not null"`
	// Year is the edition year of the call.
	Year int `gorm:"not null"`
	// Status is the lifecycle state of the call.
	Status ConvocatoriaStatus `gorm:"type:varchar(10);not null;default:'draft'"`
	// StartsAt is when the submission window opens.
	StartsAt time.Time
	// EndsAt is when the submission window closes.
	EndsAt time.Time
	// CreatedAt is the timestamp when the call was created (managed by GORM).
	CreatedAt time.Time
	// UpdatedAt is the timestamp when the call was last updated (managed by GORM).
	UpdatedAt time.Time
}

// TableName specifies the database table name for the Convocatoria model.
// This overrides GORM's default pluralized table naming.
func (Convocatoria) TableName() string {
	return "convocatorias"
}
