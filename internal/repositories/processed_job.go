package repositories

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/NhatQuang1501/hirise-backend-sub000/internal/models"
)

type ProcessedJobRepository interface {
	Upsert(data *models.ProcessedJob) error
	FindByJobID(jobID uuid.UUID) (*models.ProcessedJob, error)
}

type processedJobRepository struct {
	db *gorm.DB
}

func NewProcessedJobRepository(db *gorm.DB) ProcessedJobRepository {
	return &processedJobRepository{db: db}
}

// Upsert implements ProcessedJobRepository. Reprocessing replaces the whole
// record keyed by job id, never merges.
func (r *processedJobRepository) Upsert(data *models.ProcessedJob) error {
	if data.ID == uuid.Nil {
		data.ID = uuid.New()
	}
	data.UpdatedAt = time.Now()

	err := r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "job_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"title", "description", "responsibilities", "basic_requirements",
			"preferred_skills", "skills", "requirement_years", "combined_text",
			"embedding_key", "updated_at",
		}),
	}).Create(data).Error

	if err != nil {
		return fmt.Errorf("failed to upsert processed job: %w", err)
	}

	return nil
}

// FindByJobID implements ProcessedJobRepository.
func (r *processedJobRepository) FindByJobID(jobID uuid.UUID) (*models.ProcessedJob, error) {
	var data models.ProcessedJob
	if err := r.db.Where("job_id = ?", jobID).First(&data).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("processed job not found: %w", err)
		}

		return nil, fmt.Errorf("failed to find processed job: %w", err)
	}

	return &data, nil
}
