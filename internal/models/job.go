package models

import (
	"time"

	"github.com/google/uuid"
)

// Job is a published job posting. Postings arrive with their fields already
// separated; no heading detection is needed on this side.
type Job struct {
	ID                uuid.UUID  `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	Title             string     `gorm:"type:text" json:"title"`
	Description       string     `gorm:"type:text" json:"description"`
	Responsibilities  string     `gorm:"type:text" json:"responsibilities"`
	BasicRequirements string     `gorm:"type:text" json:"basic_requirements"`
	PreferredSkills   string     `gorm:"type:text" json:"preferred_skills"`
	SkillTags         StringList `gorm:"type:jsonb" json:"skill_tags"`
	CreatedAt         time.Time  `gorm:"type:timestamp;default:now()" json:"created_at"`
	UpdatedAt         time.Time  `gorm:"type:timestamp;default:now()" json:"updated_at"`
}

func (Job) TableName() string {
	return "jobs"
}

// Application is one candidate's application to a job, carrying the
// uploaded CV file.
type Application struct {
	ID             uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	JobID          uuid.UUID `gorm:"type:uuid;not null;index" json:"job_id"`
	CVFileName     string    `gorm:"type:text" json:"cv_file_name"`
	CVOriginalName string    `gorm:"type:text" json:"cv_original_name"`
	CVFilePath     string    `gorm:"type:text" json:"cv_file_path"`
	CreatedAt      time.Time `gorm:"type:timestamp;default:now()" json:"created_at"`
	UpdatedAt      time.Time `gorm:"type:timestamp;default:now()" json:"updated_at"`

	// Relations
	Job Job `gorm:"foreignKey:JobID" json:"-"`
}

func (Application) TableName() string {
	return "applications"
}
