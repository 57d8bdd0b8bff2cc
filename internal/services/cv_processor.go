package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/NhatQuang1501/hirise-backend-sub000/internal/models"
	"github.com/NhatQuang1501/hirise-backend-sub000/internal/repositories"
)

// CVEmbeddingKey is the artifact-store key for one application's résumé.
func CVEmbeddingKey(applicationID uuid.UUID) string {
	return "cv_" + applicationID.String()
}

// CVProcessor turns one application's résumé file into a ProcessedCV
// record plus its embedding bundle. Reprocessing is a wholesale replace.
type CVProcessor interface {
	ProcessApplication(ctx context.Context, applicationID uuid.UUID) (*models.ProcessedCV, error)
}

type cvProcessor struct {
	appRepo   repositories.ApplicationRepository
	cvRepo    repositories.ProcessedCVRepository
	extractor DocumentExtractor
	segmenter *SectionSegmenter
	skills    *SkillExtractor
	embedder  Embedder
	vectors   VectorStore
	logger    *zap.Logger
}

func NewCVProcessor(
	appRepo repositories.ApplicationRepository,
	cvRepo repositories.ProcessedCVRepository,
	extractor DocumentExtractor,
	segmenter *SectionSegmenter,
	skills *SkillExtractor,
	embedder Embedder,
	vectors VectorStore,
	logger *zap.Logger,
) CVProcessor {
	return &cvProcessor{
		appRepo:   appRepo,
		cvRepo:    cvRepo,
		extractor: extractor,
		segmenter: segmenter,
		skills:    skills,
		embedder:  embedder,
		vectors:   vectors,
		logger:    logger,
	}
}

// ProcessApplication implements CVProcessor. On any failure nothing
// partial is persisted: the previous record, if any, stays intact.
func (p *cvProcessor) ProcessApplication(ctx context.Context, applicationID uuid.UUID) (*models.ProcessedCV, error) {
	log := p.logger.With(
		zap.String("application_id", applicationID.String()),
		zap.String("stage", "cv_processing"))

	application, err := p.appRepo.FindByID(applicationID)
	if err != nil {
		log.Error("application not found", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrMissingPrerequisite, err)
	}

	rawText, err := p.extractor.ExtractText(application.CVFilePath)
	if err != nil {
		log.Error("cv extraction failed",
			zap.String("file", application.CVFileName), zap.Error(err))
		return nil, err
	}

	record := p.buildRecord(ctx, applicationID, rawText)

	if err := p.embedSections(ctx, record); err != nil {
		// Semantic scoring degrades; the record is still stored.
		log.Warn("cv embedding skipped", zap.Error(err))
	}

	if err := p.cvRepo.Upsert(record); err != nil {
		log.Error("failed to store processed cv", zap.Error(err))
		return nil, err
	}

	log.Info("cv processed",
		zap.Int("skills", len(record.ExtractedSkills)),
		zap.Int("experience_years_entries", len(record.ExperienceYears)))

	return record, nil
}

func (p *cvProcessor) buildRecord(ctx context.Context, applicationID uuid.UUID, rawText string) *models.ProcessedCV {
	normalized := NormalizeLines(rawText)
	sections := p.segmenter.Segment(ctx, normalized)

	cleaned := make(map[string]string, len(sections))
	for kind, content := range sections {
		cleaned[kind] = CleanText(content)
	}

	record := &models.ProcessedCV{
		ApplicationID:  applicationID,
		Summary:        cleaned[SectionSummary],
		Experience:     cleaned[SectionExperience],
		Education:      cleaned[SectionEducation],
		Skills:         cleaned[SectionSkills],
		Projects:       cleaned[SectionProjects],
		Certifications: cleaned[SectionCertifications],
		Languages:      cleaned[SectionLanguages],
		Achievements:   cleaned[SectionAchievements],
		FullText:       CleanText(normalized),
	}

	// Skills live mostly in the skills and experience sections; a résumé
	// without headings keeps everything under "unknown".
	skillSource := strings.TrimSpace(record.Skills + " " + record.Experience)
	if skillSource == "" {
		skillSource = cleaned[SectionUnknown]
	}

	extraction := p.skills.Extract(skillSource, nil)
	record.ExtractedSkills = AnnotateSkills(extraction)
	record.ExperienceYears = extraction.Years

	record.CombinedText = strings.TrimSpace(strings.Join([]string{
		record.Summary, record.Experience, record.Education, record.Skills,
	}, " "))

	return record
}

func (p *cvProcessor) embedSections(ctx context.Context, record *models.ProcessedCV) error {
	if !p.embedder.Available() {
		return ErrModelUnavailable
	}

	bundle := &VectorBundle{Sections: make(map[string][]float32)}

	var err error
	if bundle.FullText, err = p.embedder.Embed(ctx, record.FullText); err != nil {
		return err
	}
	if record.CombinedText != "" {
		if bundle.CombinedText, err = p.embedder.Embed(ctx, record.CombinedText); err != nil {
			return err
		}
	}

	for _, kind := range []string{
		SectionSummary, SectionExperience, SectionEducation, SectionSkills,
		SectionProjects, SectionCertifications, SectionLanguages,
		SectionAchievements,
	} {
		content := record.SectionText(kind)
		if content == "" {
			// Absent sections are absent keys, never zero vectors.
			continue
		}
		vector, err := p.embedder.Embed(ctx, content)
		if err != nil {
			return err
		}
		bundle.Sections[kind] = vector
	}

	key := CVEmbeddingKey(record.ApplicationID)
	if err := p.vectors.WriteBundle(ctx, key, bundle); err != nil {
		return err
	}

	record.EmbeddingKey = key
	return nil
}
