package models

import (
	"time"

	"github.com/google/uuid"
)

// ProcessedJob is the cleaned, skill-annotated derivation of a job posting.
// Exactly one row exists per job; reprocessing replaces it wholesale.
type ProcessedJob struct {
	ID                uuid.UUID  `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	JobID             uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex" json:"job_id"`
	Title             string     `gorm:"type:text" json:"title"`
	Description       string     `gorm:"type:text" json:"description"`
	Responsibilities  string     `gorm:"type:text" json:"responsibilities"`
	BasicRequirements string     `gorm:"type:text" json:"basic_requirements"`
	PreferredSkills   string     `gorm:"type:text" json:"preferred_skills"`
	Skills            StringList `gorm:"type:jsonb" json:"skills"`
	RequirementYears  YearsMap   `gorm:"type:jsonb" json:"requirement_years"`
	CombinedText      string     `gorm:"type:text" json:"combined_text"`
	EmbeddingKey      string     `gorm:"type:text" json:"embedding_key"`
	CreatedAt         time.Time  `gorm:"type:timestamp;default:now()" json:"created_at"`
	UpdatedAt         time.Time  `gorm:"type:timestamp;default:now()" json:"updated_at"`
}

func (ProcessedJob) TableName() string {
	return "processed_jobs"
}

// ProcessedCV is the segmented derivation of one application's résumé.
// Exactly one row exists per application; reprocessing replaces it wholesale.
type ProcessedCV struct {
	ID            uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	ApplicationID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"application_id"`

	Summary        string `gorm:"type:text" json:"summary"`
	Experience     string `gorm:"type:text" json:"experience"`
	Education      string `gorm:"type:text" json:"education"`
	Skills         string `gorm:"type:text" json:"skills"`
	Projects       string `gorm:"type:text" json:"projects"`
	Certifications string `gorm:"type:text" json:"certifications"`
	Languages      string `gorm:"type:text" json:"languages"`
	Achievements   string `gorm:"type:text" json:"achievements"`

	ExtractedSkills StringList `gorm:"type:jsonb" json:"extracted_skills"`
	ExperienceYears YearsMap   `gorm:"type:jsonb" json:"experience_years"`

	FullText     string    `gorm:"type:text" json:"full_text"`
	CombinedText string    `gorm:"type:text" json:"combined_text"`
	EmbeddingKey string    `gorm:"type:text" json:"embedding_key"`
	CreatedAt    time.Time `gorm:"type:timestamp;default:now()" json:"created_at"`
	UpdatedAt    time.Time `gorm:"type:timestamp;default:now()" json:"updated_at"`
}

func (ProcessedCV) TableName() string {
	return "processed_cvs"
}

// SectionText returns the cleaned content for a canonical section kind.
func (cv *ProcessedCV) SectionText(kind string) string {
	switch kind {
	case "summary":
		return cv.Summary
	case "experience":
		return cv.Experience
	case "education":
		return cv.Education
	case "skills":
		return cv.Skills
	case "projects":
		return cv.Projects
	case "certifications":
		return cv.Certifications
	case "languages":
		return cv.Languages
	case "achievements":
		return cv.Achievements
	}
	return ""
}
