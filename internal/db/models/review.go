package models

import "time"

// Review represents one peer review of a project.
// A reviewer writes at most one review per project; the composite unique
// index enforces that rule at the persistence layer.
type Review struct {
	// ID is the unique identifier for the review.
	ID uint `gorm:"primaryKey"`
	// ProjectID is the project being reviewed.
	ProjectID uint `gorm:"not null;uniqueIndex:idx_project_reviewer"`
	// Project is the associated project (loaded via foreign key).
	Project Project `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE"`
	// ReviewerID is the user writing the review.
	ReviewerID uint64 `gorm:"not null;uniqueIndex:idx_project_reviewer"`
	// Reviewer is the associated user (loaded via foreign key).
	Reviewer User `gorm:"foreignKey:ReviewerID"`
	// Score is the numeric assessment from 0 to 10.
	Score int `gorm:"not null"`
	// Comments carries the reviewer's free-text assessment.
	Comments string `gorm:"type:text"`
	// CreatedAt is the timestamp when the review was created (managed by GORM).
	CreatedAt time.Time
	// UpdatedAt is the timestamp when the review was last updated (managed by GORM).
	UpdatedAt time.Time
}

// TableName specifies the database table name for the Review model.
// This overrides GORM's default pluralized table naming.
func (Review) TableName() string {
	return "reviews"
}
