package models

type CreateJobRequest struct {
	Title             string   `json:"title"`
	Description       string   `json:"description"`
	Responsibilities  string   `json:"responsibilities"`
	BasicRequirements string   `json:"basic_requirements"`
	PreferredSkills   string   `json:"preferred_skills"`
	SkillTags         []string `json:"skill_tags"`
}

type JobResponse struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Status string `json:"status"`
}

type ApplyResponse struct {
	ApplicationID string `json:"application_id"`
	JobID         string `json:"job_id"`
	CVFileName    string `json:"cv_file_name"`
	Status        string `json:"status"`
}

type MatchResponse struct {
	JobID           string             `json:"job_id"`
	ApplicationID   string             `json:"application_id"`
	MatchScore      float64            `json:"match_score"`
	MatchPercentage int                `json:"match_percentage"`
	ComponentScores map[string]float64 `json:"component_scores"`
	Explanation     Explanation        `json:"explanation"`
}
