package models

import (
	"time"

	"github.com/google/uuid"
)

// MatchResult is the scored, explained outcome of comparing one processed
// job against one processed CV. Unique per (job, application) pair;
// recomputation replaces the prior row.
type MatchResult struct {
	ID            uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	JobID         uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_match_job_application" json:"job_id"`
	ApplicationID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_match_job_application" json:"application_id"`

	// Blended score in [0,1].
	MatchScore      float64     `gorm:"type:decimal(5,4)" json:"match_score"`
	ComponentScores ScoreMap    `gorm:"type:jsonb" json:"component_scores"`
	Explanation     Explanation `gorm:"type:jsonb" json:"explanation"`

	CreatedAt time.Time `gorm:"type:timestamp;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"type:timestamp;default:now()" json:"updated_at"`
}

func (MatchResult) TableName() string {
	return "match_results"
}

// MatchPercentage is the presentation-layer score in [0,100].
func (m *MatchResult) MatchPercentage() int {
	return int(m.MatchScore * 100)
}
