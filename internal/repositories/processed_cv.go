package repositories

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/NhatQuang1501/hirise-backend-sub000/internal/models"
)

type ProcessedCVRepository interface {
	Upsert(data *models.ProcessedCV) error
	FindByApplicationID(applicationID uuid.UUID) (*models.ProcessedCV, error)
}

type processedCVRepository struct {
	db *gorm.DB
}

func NewProcessedCVRepository(db *gorm.DB) ProcessedCVRepository {
	return &processedCVRepository{db: db}
}

// Upsert implements ProcessedCVRepository. Keyed by application id;
// reprocessing is a wholesale replace.
func (r *processedCVRepository) Upsert(data *models.ProcessedCV) error {
	if data.ID == uuid.Nil {
		data.ID = uuid.New()
	}
	data.UpdatedAt = time.Now()

	err := r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "application_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"summary", "experience", "education", "skills", "projects",
			"certifications", "languages", "achievements", "extracted_skills",
			"experience_years", "full_text", "combined_text", "embedding_key",
			"updated_at",
		}),
	}).Create(data).Error

	if err != nil {
		return fmt.Errorf("failed to upsert processed cv: %w", err)
	}

	return nil
}

// FindByApplicationID implements ProcessedCVRepository.
func (r *processedCVRepository) FindByApplicationID(applicationID uuid.UUID) (*models.ProcessedCV, error) {
	var data models.ProcessedCV
	if err := r.db.Where("application_id = ?", applicationID).First(&data).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("processed cv not found: %w", err)
		}

		return nil, fmt.Errorf("failed to find processed cv: %w", err)
	}

	return &data, nil
}
