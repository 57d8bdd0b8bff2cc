package services

import (
	"context"
	"errors"
	"sort"
	"testing"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/NhatQuang1501/hirise-backend-sub000/internal/models"
)

type stubMatchRepo struct {
	results map[[2]uuid.UUID]*models.MatchResult
	upserts int
}

func newStubMatchRepo() *stubMatchRepo {
	return &stubMatchRepo{results: make(map[[2]uuid.UUID]*models.MatchResult)}
}

func (s *stubMatchRepo) Upsert(result *models.MatchResult) error {
	s.upserts++
	s.results[[2]uuid.UUID{result.JobID, result.ApplicationID}] = result
	return nil
}

func (s *stubMatchRepo) FindByPair(jobID, applicationID uuid.UUID) (*models.MatchResult, error) {
	result, ok := s.results[[2]uuid.UUID{jobID, applicationID}]
	if !ok {
		return nil, errors.New("record not found")
	}
	return result, nil
}

func (s *stubMatchRepo) ListByJob(jobID uuid.UUID) ([]models.MatchResult, error) {
	var out []models.MatchResult
	for key, result := range s.results {
		if key[0] == jobID {
			out = append(out, *result)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].MatchScore > out[j].MatchScore
	})
	return out, nil
}

type matchingFixture struct {
	service   MatchingService
	appRepo   *stubApplicationRepo
	pjRepo    *stubProcessedJobRepo
	pcvRepo   *stubProcessedCVRepo
	matchRepo *stubMatchRepo
}

func newMatchingFixture(embedder Embedder) *matchingFixture {
	appRepo := &stubApplicationRepo{applications: make(map[uuid.UUID]*models.Application)}
	pjRepo := &stubProcessedJobRepo{records: make(map[uuid.UUID]*models.ProcessedJob)}
	pcvRepo := &stubProcessedCVRepo{records: make(map[uuid.UUID]*models.ProcessedCV)}
	matchRepo := newStubMatchRepo()

	engine := NewMatchEngine(embedder, newStubVectorStore(), zap.NewNop())
	service := NewMatchingService(
		pjRepo, pcvRepo, appRepo, matchRepo, engine, NewExplanationGenerator(), zap.NewNop())

	return &matchingFixture{
		service:   service,
		appRepo:   appRepo,
		pjRepo:    pjRepo,
		pcvRepo:   pcvRepo,
		matchRepo: matchRepo,
	}
}

func TestMatchJobApplicationPersistsResult(t *testing.T) {
	f := newMatchingFixture(&wildcardEmbedder{available: false})

	jobID := uuid.New()
	applicationID := uuid.New()

	f.pjRepo.records[jobID] = &models.ProcessedJob{
		JobID:  jobID,
		Skills: models.StringList{"python", "go"},
	}
	f.pcvRepo.records[applicationID] = &models.ProcessedCV{
		ApplicationID:   applicationID,
		Experience:      "Backend work",
		ExtractedSkills: models.StringList{"python"},
	}

	result, err := f.service.MatchJobApplication(context.Background(), jobID, applicationID)
	if err != nil {
		t.Fatalf("MatchJobApplication: %v", err)
	}

	if result.MatchScore < 0 || result.MatchScore > 1 {
		t.Fatalf("match score out of range: %v", result.MatchScore)
	}
	if len(result.ComponentScores) == 0 {
		t.Fatalf("component scores missing")
	}
	if result.Explanation.Summary == "" {
		t.Fatalf("explanation missing")
	}
	if f.matchRepo.upserts != 1 {
		t.Fatalf("upserts = %d, want 1", f.matchRepo.upserts)
	}

	stored, err := f.matchRepo.FindByPair(jobID, applicationID)
	if err != nil || stored.MatchScore != result.MatchScore {
		t.Fatalf("stored result mismatch: %v %v", stored, err)
	}
}

func TestMatchJobApplicationRequiresProcessedJob(t *testing.T) {
	f := newMatchingFixture(&wildcardEmbedder{available: false})

	applicationID := uuid.New()
	f.pcvRepo.records[applicationID] = &models.ProcessedCV{ApplicationID: applicationID}

	_, err := f.service.MatchJobApplication(context.Background(), uuid.New(), applicationID)
	if !errors.Is(err, ErrMissingPrerequisite) {
		t.Fatalf("expected ErrMissingPrerequisite, got %v", err)
	}
	if f.matchRepo.upserts != 0 {
		t.Fatalf("nothing should be stored")
	}
}

func TestMatchJobApplicationRequiresProcessedCV(t *testing.T) {
	f := newMatchingFixture(&wildcardEmbedder{available: false})

	jobID := uuid.New()
	f.pjRepo.records[jobID] = &models.ProcessedJob{JobID: jobID}

	_, err := f.service.MatchJobApplication(context.Background(), jobID, uuid.New())
	if !errors.Is(err, ErrMissingPrerequisite) {
		t.Fatalf("expected ErrMissingPrerequisite, got %v", err)
	}
}

func TestMatchJobWithAllApplicationsRanksAndSkips(t *testing.T) {
	f := newMatchingFixture(&wildcardEmbedder{available: false})

	jobID := uuid.New()
	f.pjRepo.records[jobID] = &models.ProcessedJob{
		JobID:  jobID,
		Skills: models.StringList{"python", "go", "kafka"},
	}

	strong := uuid.New()
	weak := uuid.New()
	unprocessed := uuid.New()
	for _, id := range []uuid.UUID{strong, weak, unprocessed} {
		f.appRepo.applications[id] = &models.Application{ID: id, JobID: jobID}
	}

	f.pcvRepo.records[strong] = &models.ProcessedCV{
		ApplicationID:   strong,
		ExtractedSkills: models.StringList{"python", "go", "kafka"},
	}
	f.pcvRepo.records[weak] = &models.ProcessedCV{
		ApplicationID:   weak,
		ExtractedSkills: models.StringList{"python"},
	}

	results, err := f.service.MatchJobWithAllApplications(context.Background(), jobID)
	if err != nil {
		t.Fatalf("MatchJobWithAllApplications: %v", err)
	}

	// The unprocessed application is skipped, not fatal.
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].ApplicationID != strong {
		t.Fatalf("expected the stronger candidate first: %v", results)
	}
	if results[0].MatchScore <= results[1].MatchScore {
		t.Fatalf("ranking broken: %v >= %v expected", results[0].MatchScore, results[1].MatchScore)
	}
}
