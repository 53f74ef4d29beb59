// Package review provides operations for peer reviews of submitted projects.
package review

import (
	"errors"

	"gorm.io/gorm"

	"github.com/InnovaGrants-Admin/InnovaGrants-Admin/internal/db/models"
)

const (
	minScore = 0
	maxScore = 10
)

var (
	// ErrReviewNotFound is returned when a review is not found.
	ErrReviewNotFound = errors.New("review not found")
	// ErrProjectNotReviewable is returned when the project is not in the review phase.
	ErrProjectNotReviewable = errors.New("project is not open for review")
	// ErrAlreadyReviewed is returned when a reviewer already reviewed the project.
	ErrAlreadyReviewed = errors.New("reviewer already reviewed this project")
	// ErrScoreOutOfRange is returned when the score falls outside 0-10.
	ErrScoreOutOfRange = errors.New("score must be between 0 and 10")
	// ErrNotAuthor is returned when a user edits a review they did not write.
	ErrNotAuthor = errors.New("review belongs to another reviewer")
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
)

// GetByID retrieves a review by its ID.
func GetByID(db *gorm.DB, id uint) (*models.Review, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var r models.Review
	result := db.First(&r, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrReviewNotFound
		}
		return nil, result.Error
	}

	return &r, nil
}

// GetByProject retrieves all reviews written for a project.
func GetByProject(db *gorm.DB, projectID uint) ([]models.Review, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var reviews []models.Review
	result := db.Where("project_id = ?", projectID).Order("id ASC").Find(&reviews)
	if result.Error != nil {
		return nil, result.Error
	}

	return reviews, nil
}

// GetByReviewer retrieves all reviews written by a reviewer.
func GetByReviewer(db *gorm.DB, reviewerID uint64) ([]models.Review, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var reviews []models.Review
	result := db.Where("reviewer_id = ?", reviewerID).Order("id ASC").Find(&reviews)
	if result.Error != nil {
		return nil, result.Error
	}

	return reviews, nil
}

// Create records a new review. The project must be in the submitted state and
// each reviewer writes at most one review per project.
func Create(db *gorm.DB, projectID uint, reviewerID uint64, score int, comments string) (*models.Review, error) {
	if db == nil {
		return nil, ErrDBNil
	}
	if score < minScore || score > maxScore {
		return nil, ErrScoreOutOfRange
	}

	var project models.Project
	result := db.First(&project, projectID)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotReviewable
		}
		return nil, result.Error
	}
	if project.Status != models.ProjectStatusSubmitted {
		return nil, ErrProjectNotReviewable
	}

	var existing models.Review
	result = db.Where("project_id = ? AND reviewer_id = ?", projectID, reviewerID).First(&existing)
	if result.Error == nil {
		return nil, ErrAlreadyReviewed
	}
	if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, result.Error
	}

	review := &models.Review{
		ProjectID:  projectID,
		ReviewerID: reviewerID,
		Score:      score,
		Comments:   comments,
	}

	result = db.Create(review)
	if result.Error != nil {
		return nil, result.Error
	}

	return review, nil
}

// Update changes the score and comments of an existing review. Only its
// author may edit it.
func Update(db *gorm.DB, id uint, reviewerID uint64, score int, comments string) (*models.Review, error) {
	if db == nil {
		return nil, ErrDBNil
	}
	if score < minScore || score > maxScore {
		return nil, ErrScoreOutOfRange
	}

	review, err := GetByID(db, id)
	if err != nil {
		return nil, err
	}
	if review.ReviewerID != reviewerID {
		return nil, ErrNotAuthor
	}

	review.Score = score
	review.Comments = comments

	result := db.Save(review)
	if result.Error != nil {
		return nil, result.Error
	}

	return review, nil
}

// AverageScore computes the mean score of a project's reviews. The boolean
// is false when the project has no reviews yet.
func AverageScore(db *gorm.DB, projectID uint) (float64, bool, error) {
	if db == nil {
		return 0, false, ErrDBNil
	}

	var row struct {
		Avg   float64
		Count int64
	}
	err := db.Model(&models.Review{}).
		Select("COALESCE(AVG(score), 0) AS avg, COUNT(*) AS count").
		Where("project_id = ?", projectID).
		Scan(&row).Error
	if err != nil {
		return 0, false, err
	}
	if row.Count == 0 {
		return 0, false, nil
	}

	return row.Avg, true, nil
}
