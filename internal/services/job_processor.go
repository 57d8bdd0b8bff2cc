package services

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/NhatQuang1501/hirise-backend-sub000/internal/models"
	"github.com/NhatQuang1501/hirise-backend-sub000/internal/repositories"
)

// JobEmbeddingKey is the artifact-store key for one job posting.
func JobEmbeddingKey(jobID uuid.UUID) string {
	return "job_" + jobID.String()
}

// JobProcessor derives a ProcessedJob from a posting. Jobs arrive with
// their fields already separated, so only cleaning, semantic-structure
// enhancement and skill extraction apply.
type JobProcessor interface {
	ProcessJob(ctx context.Context, jobID uuid.UUID) (*models.ProcessedJob, error)
}

type jobProcessor struct {
	jobRepo  repositories.JobRepository
	pjRepo   repositories.ProcessedJobRepository
	skills   *SkillExtractor
	embedder Embedder
	vectors  VectorStore
	logger   *zap.Logger
}

func NewJobProcessor(
	jobRepo repositories.JobRepository,
	pjRepo repositories.ProcessedJobRepository,
	skills *SkillExtractor,
	embedder Embedder,
	vectors VectorStore,
	logger *zap.Logger,
) JobProcessor {
	return &jobProcessor{
		jobRepo:  jobRepo,
		pjRepo:   pjRepo,
		skills:   skills,
		embedder: embedder,
		vectors:  vectors,
		logger:   logger,
	}
}

// ProcessJob implements JobProcessor. Regenerates the processed record
// wholesale whenever the source posting changes.
func (p *jobProcessor) ProcessJob(ctx context.Context, jobID uuid.UUID) (*models.ProcessedJob, error) {
	log := p.logger.With(
		zap.String("job_id", jobID.String()),
		zap.String("stage", "job_processing"))

	job, err := p.jobRepo.FindByID(jobID)
	if err != nil {
		log.Error("job not found", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrMissingPrerequisite, err)
	}

	record := p.buildRecord(job)

	if err := p.embedCombined(ctx, record); err != nil {
		log.Warn("job embedding skipped", zap.Error(err))
	}

	if err := p.pjRepo.Upsert(record); err != nil {
		log.Error("failed to store processed job", zap.Error(err))
		return nil, err
	}

	log.Info("job processed",
		zap.Int("skills", len(record.Skills)),
		zap.Int("requirement_years_entries", len(record.RequirementYears)))

	return record, nil
}

func (p *jobProcessor) buildRecord(job *models.Job) *models.ProcessedJob {
	record := &models.ProcessedJob{
		JobID:             job.ID,
		Title:             CleanText(job.Title),
		Description:       CleanText(job.Description),
		Responsibilities:  CleanText(job.Responsibilities),
		BasicRequirements: CleanText(job.BasicRequirements),
		PreferredSkills:   CleanText(job.PreferredSkills),
	}

	fullText := strings.Join([]string{
		record.Description, record.Responsibilities,
		record.BasicRequirements, record.PreferredSkills,
	}, " ")

	extraction := p.skills.Extract(fullText, job.SkillTags)

	// Supplied tags come first, then skills found only in the text.
	seen := make(map[string]struct{})
	var allSkills []string
	appendSkill := func(skill string) {
		key := strings.ToLower(strings.TrimSpace(BaseSkill(skill)))
		if key == "" {
			return
		}
		if _, ok := seen[key]; ok {
			return
		}
		seen[key] = struct{}{}
		allSkills = append(allSkills, key)
	}
	for _, tag := range job.SkillTags {
		appendSkill(tag)
	}
	for _, skill := range extraction.Skills {
		appendSkill(skill)
	}
	record.Skills = allSkills

	record.RequirementYears = p.skills.ExtractYears(
		record.BasicRequirements + " " + record.PreferredSkills)

	record.CombinedText = strings.TrimSpace(fmt.Sprintf(
		"Title: %s\nSkills: %s\nJob Description: %s\n%s\n%s\n%s",
		record.Title,
		strings.Join(allSkills, ", "),
		record.Description,
		enhanceSemanticStructure(record.Responsibilities, "Responsibilities"),
		enhanceSemanticStructure(record.BasicRequirements, "Requirements"),
		enhanceSemanticStructure(record.PreferredSkills, "Preferred Skills"),
	))

	return record
}

func (p *jobProcessor) embedCombined(ctx context.Context, record *models.ProcessedJob) error {
	if !p.embedder.Available() {
		return ErrModelUnavailable
	}

	vector, err := p.embedder.Embed(ctx, record.CombinedText)
	if err != nil {
		return err
	}

	key := JobEmbeddingKey(record.JobID)
	bundle := &VectorBundle{CombinedText: vector}
	if err := p.vectors.WriteBundle(ctx, key, bundle); err != nil {
		return err
	}

	record.EmbeddingKey = key
	return nil
}

var bulletPattern = regexp.MustCompile(`(?m)(?:^|\n)[ \t]*[•*-][ \t]+`)

// enhanceSemanticStructure prefixes field text with its section name and
// folds bullet lists into sentences, which reads better for a sentence
// encoder than raw fragments.
func enhanceSemanticStructure(text, sectionName string) string {
	if strings.TrimSpace(text) == "" {
		return ""
	}

	if bulletPattern.MatchString(text) {
		points := bulletPattern.Split(text, -1)
		var enhanced []string
		for _, point := range points {
			point = strings.TrimSpace(point)
			if point == "" {
				continue
			}
			enhanced = append(enhanced, sectionName+": "+point)
		}
		return strings.Join(enhanced, " ")
	}

	if !strings.HasPrefix(strings.ToLower(text), strings.ToLower(sectionName)) {
		return sectionName + ": " + text
	}
	return text
}
