package repositories

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/NhatQuang1501/hirise-backend-sub000/internal/models"
)

type MatchRepository interface {
	Upsert(result *models.MatchResult) error
	FindByPair(jobID, applicationID uuid.UUID) (*models.MatchResult, error)
	ListByJob(jobID uuid.UUID) ([]models.MatchResult, error)
}

type matchRepository struct {
	db *gorm.DB
}

func NewMatchRepository(db *gorm.DB) MatchRepository {
	return &matchRepository{db: db}
}

// Upsert implements MatchRepository. One row per (job, application) pair;
// recomputation replaces the prior result.
func (r *matchRepository) Upsert(result *models.MatchResult) error {
	if result.ID == uuid.Nil {
		result.ID = uuid.New()
	}
	result.UpdatedAt = time.Now()

	err := r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "job_id"}, {Name: "application_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"match_score", "component_scores", "explanation", "updated_at",
		}),
	}).Create(result).Error

	if err != nil {
		return fmt.Errorf("failed to upsert match result: %w", err)
	}

	return nil
}

// FindByPair implements MatchRepository.
func (r *matchRepository) FindByPair(jobID, applicationID uuid.UUID) (*models.MatchResult, error) {
	var result models.MatchResult
	err := r.db.
		Where("job_id = ? AND application_id = ?", jobID, applicationID).
		First(&result).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("match result not found: %w", err)
		}

		return nil, fmt.Errorf("failed to find match result: %w", err)
	}

	return &result, nil
}

// ListByJob implements MatchRepository. Results are ranked best first.
func (r *matchRepository) ListByJob(jobID uuid.UUID) ([]models.MatchResult, error) {
	var results []models.MatchResult
	err := r.db.
		Where("job_id = ?", jobID).
		Order("match_score DESC").
		Find(&results).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list match results: %w", err)
	}

	return results, nil
}
