package services

// Component score names.
const (
	ComponentRequirementsSkills         = "job_requirements_cv_skills"
	ComponentRequirementsExperience     = "job_requirements_cv_experience"
	ComponentSkillsSkills               = "job_skills_cv_skills"
	ComponentResponsibilitiesExperience = "job_responsibilities_cv_experience"
	ComponentTitleSummary               = "job_title_cv_summary"
	ComponentPreferredSkills            = "job_preferred_cv_skills"
	ComponentCombinedText               = "combined_text"
	ComponentContextMatch               = "context_match"
	ComponentExactSkillsMatch           = "exact_skills_match"
)

// ExactMatchShare is the fixed fraction of the final score contributed by
// the exact-skills component; the remaining share is split across the
// weighted semantic and context components.
const ExactMatchShare = 0.30

// adjustmentDelta is the fixed amount each dynamic shift moves between two
// components.
const adjustmentDelta = 0.05

// WeightTable maps component names to relative weights. Weights are
// renormalized over the components actually present before blending, so
// absolute magnitudes only matter relative to each other.
type WeightTable map[string]float64

func BaseWeightTable() WeightTable {
	return WeightTable{
		ComponentRequirementsSkills:         0.25,
		ComponentRequirementsExperience:     0.20,
		ComponentSkillsSkills:               0.15,
		ComponentResponsibilitiesExperience: 0.15,
		ComponentTitleSummary:               0.10,
		ComponentPreferredSkills:            0.10,
		ComponentCombinedText:               0.05,
		ComponentContextMatch:               0.15,
	}
}

// PairStats summarizes one (job, candidate) pair for dynamic weight
// adjustment.
type PairStats struct {
	RequirementsWords   int
	CandidateSkillCount int
	ExperienceWords     int
	HasRequirementYears bool
}

// WeightAdjustment shifts Delta weight from one component to another.
type WeightAdjustment struct {
	From  string
	To    string
	Delta float64
}

// AdjustmentsFor derives the dynamic weight shifts for a pair: whichever
// signal is richer for this pair gets more weight. Pure function of the
// summary statistics.
func AdjustmentsFor(stats PairStats) []WeightAdjustment {
	var adjustments []WeightAdjustment

	if stats.RequirementsWords > 100 {
		adjustments = append(adjustments, WeightAdjustment{
			From: ComponentCombinedText, To: ComponentRequirementsSkills, Delta: adjustmentDelta,
		})
	}
	if stats.CandidateSkillCount > 10 {
		adjustments = append(adjustments, WeightAdjustment{
			From: ComponentTitleSummary, To: ComponentSkillsSkills, Delta: adjustmentDelta,
		})
	}
	if stats.ExperienceWords > 200 {
		adjustments = append(adjustments, WeightAdjustment{
			From: ComponentPreferredSkills, To: ComponentResponsibilitiesExperience, Delta: adjustmentDelta,
		})
	}
	if stats.HasRequirementYears {
		adjustments = append(adjustments, WeightAdjustment{
			From: ComponentCombinedText, To: ComponentContextMatch, Delta: adjustmentDelta,
		})
	}

	return adjustments
}

// Apply returns a copy of the table with the adjustments applied. Weights
// never go below zero.
func (t WeightTable) Apply(adjustments []WeightAdjustment) WeightTable {
	adjusted := make(WeightTable, len(t))
	for name, weight := range t {
		adjusted[name] = weight
	}

	for _, adj := range adjustments {
		shift := adj.Delta
		if adjusted[adj.From] < shift {
			shift = adjusted[adj.From]
		}
		adjusted[adj.From] -= shift
		adjusted[adj.To] += shift
	}

	return adjusted
}

// Normalize returns weights over the present components summing to 1.
// Absent components are excluded rather than zero-filled, so sparse
// résumés are not penalized for missing sections.
func (t WeightTable) Normalize(present []string) map[string]float64 {
	total := 0.0
	for _, name := range present {
		total += t[name]
	}

	normalized := make(map[string]float64, len(present))
	if total == 0 {
		return normalized
	}
	for _, name := range present {
		normalized[name] = t[name] / total
	}
	return normalized
}
