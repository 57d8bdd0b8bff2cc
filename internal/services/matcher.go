package services

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/NhatQuang1501/hirise-backend-sub000/internal/models"
)

// componentOrder fixes the reporting order of component scores so results
// and explanations come out deterministic.
var componentOrder = []string{
	ComponentRequirementsSkills,
	ComponentRequirementsExperience,
	ComponentSkillsSkills,
	ComponentResponsibilitiesExperience,
	ComponentTitleSummary,
	ComponentPreferredSkills,
	ComponentCombinedText,
	ComponentContextMatch,
	ComponentExactSkillsMatch,
}

// MatchComputation carries every per-component score plus the blended
// final score for one (job, candidate) pair.
type MatchComputation struct {
	Scores     models.ScoreMap
	FinalScore float64
}

// MatchEngine scores a processed job against a processed résumé. Semantic
// components come from embedding cosine similarity, the exact component
// from verbatim skill overlap, and the context component from required
// years and skill presence. Components whose inputs are missing on either
// side are excluded from weighting rather than scored zero.
type MatchEngine struct {
	embedder Embedder
	vectors  VectorStore
	logger   *zap.Logger
}

func NewMatchEngine(embedder Embedder, vectors VectorStore, logger *zap.Logger) *MatchEngine {
	return &MatchEngine{
		embedder: embedder,
		vectors:  vectors,
		logger:   logger,
	}
}

type componentPair struct {
	name    string
	jobText string
	cvText  string
}

func (m *MatchEngine) Compute(ctx context.Context, job *models.ProcessedJob, cv *models.ProcessedCV) MatchComputation {
	log := m.logger.With(
		zap.String("job_id", job.JobID.String()),
		zap.String("application_id", cv.ApplicationID.String()),
		zap.String("stage", "matching"))

	scores := make(models.ScoreMap)

	cvSkillsText := strings.Join(baseSkills(cv.ExtractedSkills), ", ")
	cvExperience := experienceText(cv)

	pairs := []componentPair{
		{ComponentRequirementsSkills, job.BasicRequirements, cvSkillsText},
		{ComponentRequirementsExperience, job.BasicRequirements, cvExperience},
		{ComponentSkillsSkills, strings.Join(job.Skills, ", "), cvSkillsText},
		{ComponentResponsibilitiesExperience, job.Responsibilities, cvExperience},
		{ComponentTitleSummary, job.Title, cv.Summary},
		{ComponentPreferredSkills, job.PreferredSkills, cvSkillsText},
	}

	cvBundle := m.loadBundle(ctx, CVEmbeddingKey(cv.ApplicationID), log)
	jobBundle := m.loadBundle(ctx, JobEmbeddingKey(job.JobID), log)

	for _, pair := range pairs {
		if strings.TrimSpace(pair.jobText) == "" || strings.TrimSpace(pair.cvText) == "" {
			continue
		}
		score, err := m.textSimilarity(ctx, pair.jobText, pair.cvText)
		if err != nil {
			log.Warn("component skipped",
				zap.String("component", pair.name),
				zap.Error(err))
			continue
		}
		scores[pair.name] = score
	}

	if score, ok := m.combinedSimilarity(ctx, job, cv, jobBundle, cvBundle, log); ok {
		scores[ComponentCombinedText] = score
	}

	scores[ComponentContextMatch] = contextMatchScore(job, cv)
	scores[ComponentExactSkillsMatch] = exactSkillsMatch(job.Skills, cv.ExtractedSkills)

	final := m.blend(job, cv, scores, log)

	return MatchComputation{Scores: scores, FinalScore: final}
}

// blend combines the component scores. The exact-skills component keeps a
// fixed share; the rest of the weight is split across whichever semantic
// and context components are present, renormalized to sum to one.
func (m *MatchEngine) blend(job *models.ProcessedJob, cv *models.ProcessedCV, scores models.ScoreMap, log *zap.Logger) float64 {
	var present []string
	for _, name := range componentOrder {
		if name == ComponentExactSkillsMatch {
			continue
		}
		if _, ok := scores[name]; ok {
			present = append(present, name)
		}
	}

	if len(present) == 0 {
		log.Error("no components available for scoring")
		return 0
	}

	stats := PairStats{
		RequirementsWords:   len(strings.Fields(job.BasicRequirements)),
		CandidateSkillCount: len(cv.ExtractedSkills),
		ExperienceWords:     len(strings.Fields(cv.Experience)),
		HasRequirementYears: len(job.RequirementYears) > 0,
	}
	weights := BaseWeightTable().Apply(AdjustmentsFor(stats)).Normalize(present)

	weighted := 0.0
	for _, name := range present {
		weighted += weights[name] * scores[name]
	}

	final := ExactMatchShare*scores[ComponentExactSkillsMatch] + (1-ExactMatchShare)*weighted
	return clamp01(final)
}

func (m *MatchEngine) textSimilarity(ctx context.Context, a, b string) (float64, error) {
	if !m.embedder.Available() {
		return 0, ErrModelUnavailable
	}

	va, err := m.embedder.Embed(ctx, a)
	if err != nil {
		return 0, err
	}
	vb, err := m.embedder.Embed(ctx, b)
	if err != nil {
		return 0, err
	}

	return clamp01(CosineSimilarity(va, vb)), nil
}

// combinedSimilarity prefers the stored whole-document vectors and only
// re-embeds when one side has no persisted bundle.
func (m *MatchEngine) combinedSimilarity(ctx context.Context, job *models.ProcessedJob, cv *models.ProcessedCV, jobBundle, cvBundle *VectorBundle, log *zap.Logger) (float64, bool) {
	if strings.TrimSpace(job.CombinedText) == "" || strings.TrimSpace(cv.CombinedText) == "" {
		return 0, false
	}

	jobVec := bundleCombined(jobBundle)
	cvVec := bundleCombined(cvBundle)

	var err error
	if jobVec == nil {
		jobVec, err = m.embedText(ctx, job.CombinedText)
	}
	if err == nil && cvVec == nil {
		cvVec, err = m.embedText(ctx, cv.CombinedText)
	}
	if err != nil {
		log.Warn("component skipped",
			zap.String("component", ComponentCombinedText),
			zap.Error(err))
		return 0, false
	}

	return clamp01(CosineSimilarity(jobVec, cvVec)), true
}

func (m *MatchEngine) embedText(ctx context.Context, text string) ([]float32, error) {
	if !m.embedder.Available() {
		return nil, ErrModelUnavailable
	}
	return m.embedder.Embed(ctx, text)
}

func (m *MatchEngine) loadBundle(ctx context.Context, key string, log *zap.Logger) *VectorBundle {
	bundle, err := m.vectors.ReadBundle(ctx, key)
	if err != nil {
		log.Debug("no stored vectors",
			zap.String("entity_id", key),
			zap.Error(err))
		return nil
	}
	return bundle
}

func bundleCombined(bundle *VectorBundle) []float32 {
	if bundle == nil {
		return nil
	}
	return bundle.CombinedText
}

// exactSkillsMatch is the fraction of job skills listed verbatim on the
// résumé, case-insensitive. Zero when either side lists no skills.
func exactSkillsMatch(jobSkills []string, cvSkills []string) float64 {
	if len(jobSkills) == 0 || len(cvSkills) == 0 {
		return 0
	}

	cvSet := make(map[string]struct{}, len(cvSkills))
	for _, skill := range cvSkills {
		cvSet[strings.ToLower(BaseSkill(skill))] = struct{}{}
	}

	matched := 0
	for _, skill := range jobSkills {
		if _, ok := cvSet[strings.ToLower(skill)]; ok {
			matched++
		}
	}

	return float64(matched) / float64(len(jobSkills))
}

// contextMatchScore compares structured requirements against structured
// résumé facts. Experience-years checks weigh double relative to plain
// skill presence.
func contextMatchScore(job *models.ProcessedJob, cv *models.ProcessedCV) float64 {
	const (
		yearsWeight    = 2.0
		presenceWeight = 1.0
		yearsCap       = 1.5
	)

	cvSkillSet := make(map[string]struct{}, len(cv.ExtractedSkills))
	var cvBases []string
	for _, skill := range cv.ExtractedSkills {
		base := strings.ToLower(BaseSkill(skill))
		cvSkillSet[base] = struct{}{}
		cvBases = append(cvBases, base)
	}

	var score, weight float64

	for tech, required := range job.RequirementYears {
		if required <= 0 {
			continue
		}
		have := cv.ExperienceYears[strings.ToLower(tech)]
		ratio := float64(have) / float64(required)
		if ratio > yearsCap {
			ratio = yearsCap
		}
		score += yearsWeight * ratio
		weight += yearsWeight
	}

	for _, skill := range job.Skills {
		lowered := strings.ToLower(skill)
		presence := 0.0
		if _, ok := cvSkillSet[lowered]; ok {
			presence = 1.0
		} else {
			for _, base := range cvBases {
				if strings.Contains(base, lowered) || strings.Contains(lowered, base) {
					presence = 0.7
					break
				}
			}
		}
		score += presenceWeight * presence
		weight += presenceWeight
	}

	if weight == 0 {
		return 0
	}
	return clamp01(score / weight)
}

// experienceText concatenates the experience and projects sections when
// both are present, and falls back to projects alone for early-career
// candidates without a dedicated experience section.
func experienceText(cv *models.ProcessedCV) string {
	experience := strings.TrimSpace(cv.Experience)
	projects := strings.TrimSpace(cv.Projects)
	if experience == "" {
		return projects
	}
	if projects == "" {
		return experience
	}
	return experience + "\n" + projects
}

func baseSkills(annotated []string) []string {
	bases := make([]string, 0, len(annotated))
	for _, skill := range annotated {
		bases = append(bases, BaseSkill(skill))
	}
	return bases
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
