package main

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/NhatQuang1501/hirise-backend-sub000/internal/config"
	"github.com/NhatQuang1501/hirise-backend-sub000/internal/logger"
	"github.com/NhatQuang1501/hirise-backend-sub000/internal/models"
	"github.com/NhatQuang1501/hirise-backend-sub000/internal/repositories"
	"github.com/NhatQuang1501/hirise-backend-sub000/internal/services"
)

// Reprocesses every stored job and application from scratch and rescores
// all pairs. Run after changing the skill vocabulary or section synonyms.
func main() {
	cfg := config.Load()

	log, err := logger.New(false, true)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	db, err := config.InitDatabase(cfg)
	if err != nil {
		log.Fatal("failed to initialize database", zap.Error(err))
	}

	ctx := context.Background()

	embedder := services.NewGeminiEmbedder(ctx, cfg.Gemini.APIKey, cfg.Gemini.EmbedModel, log)

	vectorStore, err := services.NewQdrantVectorStore(
		cfg.Qdrant.URL,
		cfg.Qdrant.APIKey,
		cfg.Qdrant.Collection,
		cfg.Qdrant.VectorSize,
		log,
	)
	if err != nil {
		log.Fatal("failed to initialize vector store", zap.Error(err))
	}
	if err := vectorStore.InitCollection(); err != nil {
		log.Fatal("failed to initialize vector collection", zap.Error(err))
	}

	vocabulary, err := services.LoadSkillVocabulary(cfg.Matching.SkillVocabularyPath)
	if err != nil {
		log.Fatal("failed to load skill vocabulary", zap.Error(err))
	}

	jobRepo := repositories.NewJobRepository(db)
	appRepo := repositories.NewApplicationRepository(db)
	pjRepo := repositories.NewProcessedJobRepository(db)
	pcvRepo := repositories.NewProcessedCVRepository(db)
	matchRepo := repositories.NewMatchRepository(db)

	extractor := services.NewDocumentExtractor(log)
	segmenter := services.NewSectionSegmenter(
		services.DefaultSectionVocabulary(),
		services.NewEmbeddingSimilarity(embedder),
		cfg.Matching.HeadingSimilarity,
		log,
	)
	skillExtractor := services.NewSkillExtractor(vocabulary, log)

	cvProcessor := services.NewCVProcessor(
		appRepo, pcvRepo, extractor, segmenter, skillExtractor, embedder, vectorStore, log)
	jobProcessor := services.NewJobProcessor(
		jobRepo, pjRepo, skillExtractor, embedder, vectorStore, log)
	matchingService := services.NewMatchingService(
		pjRepo, pcvRepo, appRepo, matchRepo,
		services.NewMatchEngine(embedder, vectorStore, log),
		services.NewExplanationGenerator(), log)

	var jobs []models.Job
	if err := db.Find(&jobs).Error; err != nil {
		log.Fatal("failed to list jobs", zap.Error(err))
	}

	var applications []models.Application
	if err := db.Find(&applications).Error; err != nil {
		log.Fatal("failed to list applications", zap.Error(err))
	}

	log.Info("reprocessing",
		zap.Int("jobs", len(jobs)),
		zap.Int("applications", len(applications)))

	failed := 0

	for _, job := range jobs {
		if _, err := jobProcessor.ProcessJob(ctx, job.ID); err != nil {
			log.Error("job processing failed",
				zap.String("job_id", job.ID.String()),
				zap.Error(err))
			failed++
		}
	}

	for _, application := range applications {
		if _, err := cvProcessor.ProcessApplication(ctx, application.ID); err != nil {
			log.Error("application processing failed",
				zap.String("application_id", application.ID.String()),
				zap.Error(err))
			failed++
		}
	}

	for _, job := range jobs {
		if _, err := matchingService.MatchJobWithAllApplications(ctx, job.ID); err != nil {
			log.Error("matching failed",
				zap.String("job_id", job.ID.String()),
				zap.Error(err))
			failed++
		}
	}

	log.Info("reprocessing complete", zap.Int("failures", failed))
	if failed > 0 {
		os.Exit(1)
	}
}
