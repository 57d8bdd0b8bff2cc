package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/NhatQuang1501/hirise-backend-sub000/internal/models"
)

type stubJobRepo struct {
	jobs map[uuid.UUID]*models.Job
}

func (s *stubJobRepo) Create(job *models.Job) error {
	s.jobs[job.ID] = job
	return nil
}

func (s *stubJobRepo) FindByID(id uuid.UUID) (*models.Job, error) {
	job, ok := s.jobs[id]
	if !ok {
		return nil, errors.New("record not found")
	}
	return job, nil
}

type stubProcessedJobRepo struct {
	records map[uuid.UUID]*models.ProcessedJob
	upserts int
}

func (s *stubProcessedJobRepo) Upsert(record *models.ProcessedJob) error {
	s.upserts++
	s.records[record.JobID] = record
	return nil
}

func (s *stubProcessedJobRepo) FindByJobID(jobID uuid.UUID) (*models.ProcessedJob, error) {
	record, ok := s.records[jobID]
	if !ok {
		return nil, errors.New("record not found")
	}
	return record, nil
}

func newJobProcessorFixture(embedder Embedder, store VectorStore) (JobProcessor, *stubJobRepo, *stubProcessedJobRepo) {
	jobRepo := &stubJobRepo{jobs: make(map[uuid.UUID]*models.Job)}
	pjRepo := &stubProcessedJobRepo{records: make(map[uuid.UUID]*models.ProcessedJob)}

	processor := NewJobProcessor(
		jobRepo, pjRepo, NewSkillExtractor(DefaultITSkills(), zap.NewNop()),
		embedder, store, zap.NewNop())

	return processor, jobRepo, pjRepo
}

func TestProcessJobBuildsRecord(t *testing.T) {
	store := newStubVectorStore()
	processor, jobRepo, pjRepo := newJobProcessorFixture(&wildcardEmbedder{available: true}, store)

	jobID := uuid.New()
	jobRepo.jobs[jobID] = &models.Job{
		ID:                jobID,
		Title:             "Senior Backend Engineer",
		Description:       "Build and run payment services.",
		Responsibilities:  "Design APIs.\nOperate Kubernetes workloads.",
		BasicRequirements: "3 years of experience with Go. Solid PostgreSQL knowledge.",
		PreferredSkills:   "Kafka and Terraform.",
		SkillTags:         models.StringList{"Go", "Kubernetes"},
	}

	record, err := processor.ProcessJob(context.Background(), jobID)
	if err != nil {
		t.Fatalf("ProcessJob: %v", err)
	}

	// Tags lead the skill list, lowercased.
	if len(record.Skills) < 2 || record.Skills[0] != "go" || record.Skills[1] != "kubernetes" {
		t.Fatalf("tags should lead the skill list: %v", record.Skills)
	}
	for _, want := range []string{"postgresql", "kafka", "terraform"} {
		if !containsSkill(record.Skills, want) {
			t.Fatalf("missing %q in %v", want, record.Skills)
		}
	}

	if record.RequirementYears["go"] != 3 {
		t.Fatalf("go requirement years = %d, want 3: %v", record.RequirementYears["go"], record.RequirementYears)
	}

	if !strings.HasPrefix(record.CombinedText, "Title: Senior Backend Engineer") {
		t.Fatalf("combined text = %q", record.CombinedText)
	}
	if !strings.Contains(record.CombinedText, "Requirements:") {
		t.Fatalf("combined text missing requirements prefix: %q", record.CombinedText)
	}

	if record.EmbeddingKey != JobEmbeddingKey(jobID) {
		t.Fatalf("embedding key = %q", record.EmbeddingKey)
	}
	if _, ok := store.bundles[record.EmbeddingKey]; !ok {
		t.Fatalf("no bundle stored for job")
	}
	if pjRepo.upserts != 1 {
		t.Fatalf("upserts = %d, want 1", pjRepo.upserts)
	}
}

func TestProcessJobUnknownJob(t *testing.T) {
	processor, _, _ := newJobProcessorFixture(&wildcardEmbedder{available: true}, newStubVectorStore())

	_, err := processor.ProcessJob(context.Background(), uuid.New())
	if !errors.Is(err, ErrMissingPrerequisite) {
		t.Fatalf("expected ErrMissingPrerequisite, got %v", err)
	}
}

func TestProcessJobWithoutEmbedderStillStores(t *testing.T) {
	processor, jobRepo, pjRepo := newJobProcessorFixture(&wildcardEmbedder{available: false}, newStubVectorStore())

	jobID := uuid.New()
	jobRepo.jobs[jobID] = &models.Job{
		ID:          jobID,
		Title:       "QA Engineer",
		Description: "Test things.",
	}

	record, err := processor.ProcessJob(context.Background(), jobID)
	if err != nil {
		t.Fatalf("ProcessJob: %v", err)
	}
	if record.EmbeddingKey != "" {
		t.Fatalf("embedding key should stay empty, got %q", record.EmbeddingKey)
	}
	if pjRepo.upserts != 1 {
		t.Fatalf("record should still be stored, upserts = %d", pjRepo.upserts)
	}
}

func TestEnhanceSemanticStructure(t *testing.T) {
	got := enhanceSemanticStructure("- Design APIs\n- Review code", "Responsibilities")
	if !strings.Contains(got, "Responsibilities: Design APIs") {
		t.Fatalf("bullet folding failed: %q", got)
	}
	if strings.Contains(got, "\n") {
		t.Fatalf("bullets should fold into one line: %q", got)
	}

	got = enhanceSemanticStructure("Own the release process.", "Responsibilities")
	if got != "Responsibilities: Own the release process." {
		t.Fatalf("plain text prefix failed: %q", got)
	}

	if enhanceSemanticStructure("  ", "Requirements") != "" {
		t.Fatalf("blank input should stay empty")
	}
}
