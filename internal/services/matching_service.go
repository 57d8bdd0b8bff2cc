package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/NhatQuang1501/hirise-backend-sub000/internal/models"
	"github.com/NhatQuang1501/hirise-backend-sub000/internal/repositories"
)

// MatchingService scores processed jobs against processed résumés and
// persists the results. Both sides must have been processed first.
type MatchingService interface {
	MatchJobApplication(ctx context.Context, jobID, applicationID uuid.UUID) (*models.MatchResult, error)
	MatchJobWithAllApplications(ctx context.Context, jobID uuid.UUID) ([]models.MatchResult, error)
}

type matchingService struct {
	pjRepo    repositories.ProcessedJobRepository
	pcvRepo   repositories.ProcessedCVRepository
	appRepo   repositories.ApplicationRepository
	matchRepo repositories.MatchRepository
	engine    *MatchEngine
	explainer *ExplanationGenerator
	logger    *zap.Logger
}

func NewMatchingService(
	pjRepo repositories.ProcessedJobRepository,
	pcvRepo repositories.ProcessedCVRepository,
	appRepo repositories.ApplicationRepository,
	matchRepo repositories.MatchRepository,
	engine *MatchEngine,
	explainer *ExplanationGenerator,
	logger *zap.Logger,
) MatchingService {
	return &matchingService{
		pjRepo:    pjRepo,
		pcvRepo:   pcvRepo,
		appRepo:   appRepo,
		matchRepo: matchRepo,
		engine:    engine,
		explainer: explainer,
		logger:    logger,
	}
}

func (s *matchingService) MatchJobApplication(ctx context.Context, jobID, applicationID uuid.UUID) (*models.MatchResult, error) {
	log := s.logger.With(
		zap.String("job_id", jobID.String()),
		zap.String("application_id", applicationID.String()),
		zap.String("stage", "matching"))

	job, err := s.pjRepo.FindByJobID(jobID)
	if err != nil {
		log.Warn("job not processed yet", zap.Error(err))
		return nil, fmt.Errorf("%w: job %s has no processed record", ErrMissingPrerequisite, jobID)
	}
	cv, err := s.pcvRepo.FindByApplicationID(applicationID)
	if err != nil {
		log.Warn("application not processed yet", zap.Error(err))
		return nil, fmt.Errorf("%w: application %s has no processed record", ErrMissingPrerequisite, applicationID)
	}

	computation := s.engine.Compute(ctx, job, cv)
	explanation := s.explainer.Generate(computation.Scores, computation.FinalScore, job, cv)

	result := &models.MatchResult{
		JobID:           jobID,
		ApplicationID:   applicationID,
		MatchScore:      computation.FinalScore,
		ComponentScores: computation.Scores,
		Explanation:     explanation,
	}

	if err := s.matchRepo.Upsert(result); err != nil {
		return nil, fmt.Errorf("failed to save match result: %w", err)
	}

	log.Info("match computed",
		zap.Float64("match_score", result.MatchScore),
		zap.Int("components", len(result.ComponentScores)))

	return result, nil
}

// MatchJobWithAllApplications scores every application of a job. Results
// come back ranked by score descending. Applications without a processed
// record are skipped with a warning rather than failing the batch.
func (s *matchingService) MatchJobWithAllApplications(ctx context.Context, jobID uuid.UUID) ([]models.MatchResult, error) {
	applications, err := s.appRepo.FindByJobID(jobID)
	if err != nil {
		return nil, fmt.Errorf("failed to list applications: %w", err)
	}

	for _, application := range applications {
		if _, err := s.MatchJobApplication(ctx, jobID, application.ID); err != nil {
			s.logger.Warn("skipping application",
				zap.String("job_id", jobID.String()),
				zap.String("application_id", application.ID.String()),
				zap.Error(err))
		}
	}

	return s.matchRepo.ListByJob(jobID)
}
