package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"

	"github.com/NhatQuang1501/hirise-backend-sub000/internal/config"
	"github.com/NhatQuang1501/hirise-backend-sub000/internal/handlers"
	"github.com/NhatQuang1501/hirise-backend-sub000/internal/logger"
	"github.com/NhatQuang1501/hirise-backend-sub000/internal/repositories"
	"github.com/NhatQuang1501/hirise-backend-sub000/internal/services"
)

func main() {
	cfg := config.Load()

	log, err := logger.New(cfg.Server.Env != "development", cfg.Server.Env == "development")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	db, err := config.InitDatabase(cfg)
	if err != nil {
		log.Fatal("failed to initialize database", zap.Error(err))
	}

	jobRepo := repositories.NewJobRepository(db)
	appRepo := repositories.NewApplicationRepository(db)
	pjRepo := repositories.NewProcessedJobRepository(db)
	pcvRepo := repositories.NewProcessedCVRepository(db)
	matchRepo := repositories.NewMatchRepository(db)

	storageService := services.NewStorageService(cfg.Storage.UploadPath)
	if err := storageService.EnsureUploadDir(); err != nil {
		log.Fatal("failed to create upload directory", zap.Error(err))
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

	engine := services.NewMatchEngine(embedder, vectorStore, log)
	matchingService := services.NewMatchingService(
		pjRepo, pcvRepo, appRepo, matchRepo, engine, services.NewExplanationGenerator(), log)

	worker := services.NewWorker(
		cvProcessor, jobProcessor, matchingService,
		cfg.Worker.Concurrency, cfg.Worker.QueueSize, log)
	worker.Start(ctx)

	jobHandler := handlers.NewJobHandler(jobRepo, worker)
	applicationHandler := handlers.NewApplicationHandler(
		appRepo, jobRepo, storageService, worker, cfg.Storage.MaxFileSize)
	matchHandler := handlers.NewMatchHandler(matchRepo, appRepo, worker)

	app := fiber.New(fiber.Config{
		AppName:      "HiRise Matching API",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		BodyLimit:    int(cfg.Storage.MaxFileSize),
		ErrorHandler: customErrorHandler,
	})

	app.Use(recover.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
		TimeFormat: "2006-01-02 15:04:05",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	api := app.Group("/api/v1")

	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now(),
		})
	})

	api.Post("/jobs", jobHandler.HandleCreate)
	api.Post("/jobs/:id/reprocess", jobHandler.HandleReprocess)
	api.Post("/jobs/:id/apply", applicationHandler.HandleApply)
	api.Post("/jobs/:id/match", matchHandler.HandleMatchAll)
	api.Post("/jobs/:id/match/:applicationId", matchHandler.HandleMatchApplication)
	api.Get("/jobs/:id/matches", matchHandler.HandleListMatches)
	api.Get("/jobs/:id/matches/:applicationId", matchHandler.HandleGetMatch)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		log.Info("shutting down server")
		worker.Stop()
		if err := app.Shutdown(); err != nil {
			log.Error("server forced to shutdown", zap.Error(err))
		}
	}()

	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Info("server starting", zap.String("addr", addr))

	if err := app.Listen(addr); err != nil {
		log.Fatal("failed to start server", zap.Error(err))
	}
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}

	return c.Status(code).JSON(fiber.Map{
		"error": err.Error(),
		"code":  code,
	})
}
