package models

import "time"

// ProjectStatus represents the evaluation state of a submitted project.
type ProjectStatus string

const (
	// ProjectStatusDraft indicates the project is still being edited by its presenter.
	ProjectStatusDraft ProjectStatus = "draft"
	// ProjectStatusSubmitted indicates the project entered the review phase.
	ProjectStatusSubmitted ProjectStatus = "submitted"
	// ProjectStatusApproved indicates a coordinator approved the project.
	ProjectStatusApproved ProjectStatus = "approved"
	// ProjectStatusRejected indicates a coordinator rejected the project.
	ProjectStatusRejected ProjectStatus = "rejected"
)

// Project represents an innovation project competing for a grant.
type Project struct {
	// ID is the unique identifier for the project.
	ID uint `gorm:"primaryKey"`
	// Title is the project title.
	Title string `gorm:"size:255;not null"`
	// Summary is a short abstract of the project.
	Summary string `gorm:"type:text"`
	// Status is the evaluation state of the project.
	Status ProjectStatus `gorm:"type:varchar(10);not null;default:'draft'"`
	// ConvocatoriaID is the call this project was submitted to.
	ConvocatoriaID uint `gorm:"not null;index"`
	// Convocatoria is the associated call (loaded via foreign key).
	Convocatoria Convocatoria `gorm:"foreignKey:ConvocatoriaID;constraint:OnDelete:CASCADE"`
	// CenterID is the center presenting the project.
	CenterID uint `gorm:"not null;index"`
	// Center is the associated center (loaded via foreign key).
	Center Center `gorm:"foreignKey:CenterID"`
	// CycleID optionally links the project to a training cycle.
	CycleID *uint
	// Cycle is the associated cycle (loaded via foreign key).
	Cycle *Cycle `gorm:"foreignKey:CycleID"`
	// PresenterID is the user who owns and submits the project.
	PresenterID uint64 `gorm:"not null;index"`
	// Presenter is the associated user (loaded via foreign key).
	Presenter User `gorm:"foreignKey:PresenterID"`
	// SubmittedAt is set when the project leaves draft state.
	SubmittedAt *time.Time
	// CreatedAt is the timestamp when the project was created (managed by GORM).
	CreatedAt time.Time
	// UpdatedAt is the timestamp when the project was last updated (managed by GORM).
	UpdatedAt time.Time
}

// TableName specifies the database table name for the Project model.
// This overrides GORM's default pluralized table naming.
func (Project) TableName() string {
	return "projects"
}
