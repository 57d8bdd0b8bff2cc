package services

import (
	"context"
	"fmt"
	"math"
	"testing"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/NhatQuang1501/hirise-backend-sub000/internal/models"
)

// stubEmbedder serves canned vectors keyed by exact text.
type stubEmbedder struct {
	vectors   map[string][]float32
	available bool
}

func (s *stubEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	if v, ok := s.vectors[text]; ok {
		return v, nil
	}
	return nil, fmt.Errorf("no stub vector for %q", text)
}

func (s *stubEmbedder) Available() bool { return s.available }

type stubVectorStore struct {
	bundles map[string]*VectorBundle
}

func newStubVectorStore() *stubVectorStore {
	return &stubVectorStore{bundles: make(map[string]*VectorBundle)}
}

func (s *stubVectorStore) InitCollection() error { return nil }

func (s *stubVectorStore) WriteBundle(_ context.Context, key string, bundle *VectorBundle) error {
	s.bundles[key] = bundle
	return nil
}

func (s *stubVectorStore) ReadBundle(_ context.Context, key string) (*VectorBundle, error) {
	bundle, ok := s.bundles[key]
	if !ok {
		return nil, fmt.Errorf("%w: no vectors for %s", ErrMissingPrerequisite, key)
	}
	return bundle, nil
}

func (s *stubVectorStore) DeleteBundle(_ context.Context, key string) error {
	delete(s.bundles, key)
	return nil
}

func TestExperienceTextCombinesProjects(t *testing.T) {
	cv := &models.ProcessedCV{
		Experience: "Five years at Initech",
		Projects:   "Built a billing service",
	}
	if got := experienceText(cv); got != "Five years at Initech\nBuilt a billing service" {
		t.Fatalf("experienceText = %q", got)
	}

	cv = &models.ProcessedCV{Projects: "Built a billing service"}
	if got := experienceText(cv); got != "Built a billing service" {
		t.Fatalf("projects fallback = %q", got)
	}
}

func TestExactSkillsMatch(t *testing.T) {
	job := []string{"python", "go", "redis", "kafka"}
	cv := []string{"Python (6 years)", "go"}

	if got := exactSkillsMatch(job, cv); math.Abs(got-0.5) > 1e-9 {
		t.Fatalf("exactSkillsMatch = %v, want 0.5", got)
	}
}

func TestExactSkillsMatchEmptySides(t *testing.T) {
	if got := exactSkillsMatch(nil, []string{"python"}); got != 0 {
		t.Fatalf("no job skills should score 0, got %v", got)
	}
	if got := exactSkillsMatch([]string{"python"}, nil); got != 0 {
		t.Fatalf("no cv skills should score 0, got %v", got)
	}
}

func TestContextMatchScoreYearsAndPresence(t *testing.T) {
	job := &models.ProcessedJob{
		RequirementYears: models.YearsMap{"python": 4},
		Skills:           models.StringList{"python", "go"},
	}
	cv := &models.ProcessedCV{
		ExtractedSkills: models.StringList{"python (2 years)"},
		ExperienceYears: models.YearsMap{"python": 2},
	}

	// Years ratio 0.5 at weight 2, python present at weight 1, go absent
	// at weight 1: (1.0 + 1.0 + 0.0) / 4.
	if got := contextMatchScore(job, cv); math.Abs(got-0.5) > 1e-9 {
		t.Fatalf("contextMatchScore = %v, want 0.5", got)
	}
}

func TestContextMatchScoreCapsOverqualification(t *testing.T) {
	job := &models.ProcessedJob{
		RequirementYears: models.YearsMap{"python": 2},
	}
	cv := &models.ProcessedCV{
		ExperienceYears: models.YearsMap{"python": 20},
	}

	// Ratio capped at 1.5, then the final score clamps to 1.
	if got := contextMatchScore(job, cv); got != 1 {
		t.Fatalf("contextMatchScore = %v, want 1", got)
	}
}

func TestContextMatchScoreSubstringPresence(t *testing.T) {
	job := &models.ProcessedJob{
		Skills: models.StringList{"postgres"},
	}
	cv := &models.ProcessedCV{
		ExtractedSkills: models.StringList{"postgresql"},
	}

	if got := contextMatchScore(job, cv); math.Abs(got-0.7) > 1e-9 {
		t.Fatalf("contextMatchScore = %v, want 0.7", got)
	}
}

func TestContextMatchScoreNothingToCheck(t *testing.T) {
	if got := contextMatchScore(&models.ProcessedJob{}, &models.ProcessedCV{}); got != 0 {
		t.Fatalf("contextMatchScore = %v, want 0", got)
	}
}

func TestComputeBlendsExactShare(t *testing.T) {
	vec := []float32{1, 0}
	embedder := &stubEmbedder{
		available: true,
		vectors: map[string][]float32{
			"Backend Engineer":                  vec,
			"Seasoned backend engineer profile": vec,
		},
	}
	engine := NewMatchEngine(embedder, newStubVectorStore(), zap.NewNop())

	job := &models.ProcessedJob{
		JobID: uuid.New(),
		Title: "Backend Engineer",
	}
	cv := &models.ProcessedCV{
		ApplicationID: uuid.New(),
		Summary:       "Seasoned backend engineer profile",
	}

	got := engine.Compute(context.Background(), job, cv)

	// Present components: title/summary at weight 0.10, context at 0.15.
	// Title similarity 1, context 0, exact 0:
	// 0.3*0 + 0.7*(0.4*1 + 0.6*0) = 0.28.
	if math.Abs(got.FinalScore-0.28) > 1e-9 {
		t.Fatalf("FinalScore = %v, want 0.28", got.FinalScore)
	}
	if got.Scores[ComponentTitleSummary] != 1 {
		t.Fatalf("title/summary score = %v, want 1", got.Scores[ComponentTitleSummary])
	}
	if _, ok := got.Scores[ComponentRequirementsSkills]; ok {
		t.Fatalf("empty-input component should be absent: %v", got.Scores)
	}
}

func TestComputeWithUnavailableEmbedderStillScores(t *testing.T) {
	embedder := &stubEmbedder{available: false}
	engine := NewMatchEngine(embedder, newStubVectorStore(), zap.NewNop())

	job := &models.ProcessedJob{
		JobID:  uuid.New(),
		Title:  "Data Engineer",
		Skills: models.StringList{"python", "spark"},
	}
	cv := &models.ProcessedCV{
		ApplicationID:   uuid.New(),
		Summary:         "Data engineer",
		ExtractedSkills: models.StringList{"python"},
	}

	got := engine.Compute(context.Background(), job, cv)

	// All semantic components degrade away; context and exact survive.
	if _, ok := got.Scores[ComponentTitleSummary]; ok {
		t.Fatalf("semantic component should be skipped: %v", got.Scores)
	}
	if got.Scores[ComponentExactSkillsMatch] != 0.5 {
		t.Fatalf("exact score = %v, want 0.5", got.Scores[ComponentExactSkillsMatch])
	}
	if got.FinalScore <= 0 || got.FinalScore > 1 {
		t.Fatalf("FinalScore = %v, want in (0,1]", got.FinalScore)
	}
}

func TestComputeRanksCloserCandidateHigher(t *testing.T) {
	jobVec := []float32{1, 0}
	farVec := []float32{0, 1}

	embedder := &stubEmbedder{
		available: true,
		vectors: map[string][]float32{
			"Platform Engineer":               jobVec,
			"Go and Kubernetes platform":      jobVec,
			"go, kubernetes":                  jobVec,
			"Platform engineering background": jobVec,
			"Oil painting portfolio":          farVec,
			"painting":                        farVec,
		},
	}
	engine := NewMatchEngine(embedder, newStubVectorStore(), zap.NewNop())

	job := &models.ProcessedJob{
		JobID:             uuid.New(),
		Title:             "Platform Engineer",
		BasicRequirements: "Go and Kubernetes platform",
		Skills:            models.StringList{"go", "kubernetes"},
	}
	goodCV := &models.ProcessedCV{
		ApplicationID:   uuid.New(),
		Summary:         "Platform engineering background",
		ExtractedSkills: models.StringList{"go", "kubernetes"},
	}
	badCV := &models.ProcessedCV{
		ApplicationID:   uuid.New(),
		Summary:         "Oil painting portfolio",
		ExtractedSkills: models.StringList{"painting"},
	}

	goodScore := engine.Compute(context.Background(), job, goodCV).FinalScore
	badScore := engine.Compute(context.Background(), job, badCV).FinalScore

	if goodScore <= badScore {
		t.Fatalf("expected closer candidate to rank higher: good=%v bad=%v", goodScore, badScore)
	}
	if goodScore > 1 || badScore < 0 {
		t.Fatalf("scores out of range: good=%v bad=%v", goodScore, badScore)
	}
}

func TestComputeUsesStoredCombinedVectors(t *testing.T) {
	vec := []float32{1, 0}
	store := newStubVectorStore()

	job := &models.ProcessedJob{
		JobID:        uuid.New(),
		CombinedText: "job combined",
	}
	cv := &models.ProcessedCV{
		ApplicationID: uuid.New(),
		CombinedText:  "cv combined",
	}

	// Only the stores know these vectors; the embedder has none.
	store.bundles[JobEmbeddingKey(job.JobID)] = &VectorBundle{CombinedText: vec}
	store.bundles[CVEmbeddingKey(cv.ApplicationID)] = &VectorBundle{CombinedText: vec}

	engine := NewMatchEngine(&stubEmbedder{available: true}, store, zap.NewNop())
	got := engine.Compute(context.Background(), job, cv)

	if got.Scores[ComponentCombinedText] != 1 {
		t.Fatalf("combined score = %v, want 1 from stored vectors", got.Scores[ComponentCombinedText])
	}
}
