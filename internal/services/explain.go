package services

import (
	"fmt"
	"sort"
	"strings"

	"github.com/NhatQuang1501/hirise-backend-sub000/internal/models"
)

const (
	strengthThreshold = 0.60
	gapThreshold      = 0.30
	maxStatements     = 5
)

// Per-component phrasing. Indexed by component name; first form for
// strengths, second for gaps.
var componentPhrases = map[string][2]string{
	ComponentRequirementsSkills: {
		"listed skills line up well with the job requirements",
		"listed skills show little overlap with the job requirements",
	},
	ComponentRequirementsExperience: {
		"work history covers the job requirements",
		"work history does not address the job requirements",
	},
	ComponentSkillsSkills: {
		"skill set closely matches the skills the job asks for",
		"skill set diverges from the skills the job asks for",
	},
	ComponentResponsibilitiesExperience: {
		"past roles resemble the day-to-day responsibilities of this position",
		"past roles look unrelated to the day-to-day responsibilities of this position",
	},
	ComponentTitleSummary: {
		"profile summary fits the job title",
		"profile summary does not fit the job title",
	},
	ComponentPreferredSkills: {
		"several preferred skills are already covered",
		"few of the preferred skills are covered",
	},
	ComponentCombinedText: {
		"overall profile reads as a strong fit for the posting",
		"overall profile reads as a weak fit for the posting",
	},
	ComponentContextMatch: {
		"required experience levels and technologies check out",
		"required experience levels and technologies are largely unmet",
	},
	ComponentExactSkillsMatch: {
		"most required skills appear verbatim on the résumé",
		"most required skills are absent from the résumé",
	},
}

var studentMarkers = []string{
	"student",
	"undergraduate",
	"final year",
	"final-year",
	"fresh graduate",
	"recent graduate",
	"freshman",
	"intern",
}

// ExplanationGenerator turns component scores into a short human-readable
// rationale. Rule based and deterministic.
type ExplanationGenerator struct{}

func NewExplanationGenerator() *ExplanationGenerator {
	return &ExplanationGenerator{}
}

func (g *ExplanationGenerator) Generate(scores models.ScoreMap, final float64, job *models.ProcessedJob, cv *models.ProcessedCV) models.Explanation {
	entryLevel := isEntryLevelCandidate(cv)

	strengths := g.strengths(scores, job, cv)
	gaps := g.gaps(scores, final, job, cv, entryLevel)

	if len(strengths) > maxStatements {
		strengths = strengths[:maxStatements]
	}
	if len(gaps) > maxStatements {
		gaps = gaps[:maxStatements]
	}

	return models.Explanation{
		Summary:   g.summary(final, entryLevel),
		Strengths: strengths,
		Gaps:      gaps,
	}
}

func (g *ExplanationGenerator) summary(final float64, entryLevel bool) string {
	percent := int(final*100 + 0.5)
	switch {
	case final >= 0.75:
		return fmt.Sprintf("Strong match: the candidate covers %d%% of the job profile.", percent)
	case final >= 0.50:
		return fmt.Sprintf("Moderate match: the candidate covers %d%% of the job profile.", percent)
	case entryLevel:
		return fmt.Sprintf("Entry-level candidate covering %d%% of the job profile; weigh projects and coursework over work history.", percent)
	default:
		return fmt.Sprintf("Weak match: the candidate covers %d%% of the job profile.", percent)
	}
}

func (g *ExplanationGenerator) strengths(scores models.ScoreMap, job *models.ProcessedJob, cv *models.ProcessedCV) []string {
	var out []string

	for _, name := range componentOrder {
		score, ok := scores[name]
		if !ok || score < strengthThreshold {
			continue
		}
		out = append(out, "The candidate's "+componentPhrases[name][0]+".")
	}

	for _, tech := range sortedTechs(job.RequirementYears) {
		required := job.RequirementYears[tech]
		have, ok := cv.ExperienceYears[tech]
		if !ok || have < required {
			continue
		}
		out = append(out, fmt.Sprintf("%d years of %s meets the required %d.", have, tech, required))
	}

	return out
}

func (g *ExplanationGenerator) gaps(scores models.ScoreMap, final float64, job *models.ProcessedJob, cv *models.ProcessedCV, entryLevel bool) []string {
	var out []string

	for _, name := range componentOrder {
		score, ok := scores[name]
		if !ok || score >= gapThreshold {
			continue
		}
		if entryLevel && experienceComponent(name) {
			continue
		}
		out = append(out, "The candidate's "+componentPhrases[name][1]+".")
	}

	if !entryLevel {
		for _, tech := range sortedTechs(job.RequirementYears) {
			required := job.RequirementYears[tech]
			have, ok := cv.ExperienceYears[tech]
			switch {
			case !ok:
				out = append(out, fmt.Sprintf("No %s experience listed; the job asks for %d years.", tech, required))
			case have < required:
				out = append(out, fmt.Sprintf("Only %d years of %s against the required %d.", have, tech, required))
			}
		}
	}

	if hasStudentMarkers(cv) && strings.TrimSpace(cv.Projects) == "" && final < 0.50 {
		out = append(out, "No projects listed; project work is the main signal for entry-level candidates.")
	}

	return out
}

// isEntryLevelCandidate detects student profiles so missing work history
// is reported differently from a mid-career gap. A projects section is
// required; a student with neither experience nor projects keeps the
// regular experience gaps.
func isEntryLevelCandidate(cv *models.ProcessedCV) bool {
	if strings.TrimSpace(cv.Experience) != "" {
		return false
	}
	if strings.TrimSpace(cv.Projects) == "" {
		return false
	}
	return hasStudentMarkers(cv)
}

func hasStudentMarkers(cv *models.ProcessedCV) bool {
	profile := strings.ToLower(cv.Summary + " " + cv.Education)
	for _, marker := range studentMarkers {
		if strings.Contains(profile, marker) {
			return true
		}
	}
	return false
}

func experienceComponent(name string) bool {
	switch name {
	case ComponentRequirementsExperience, ComponentResponsibilitiesExperience, ComponentContextMatch:
		return true
	}
	return false
}

func sortedTechs(years models.YearsMap) []string {
	techs := make([]string, 0, len(years))
	for tech := range years {
		techs = append(techs, tech)
	}
	sort.Strings(techs)
	return techs
}
