package handlers

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/NhatQuang1501/hirise-backend-sub000/internal/models"
	"github.com/NhatQuang1501/hirise-backend-sub000/internal/repositories"
	"github.com/NhatQuang1501/hirise-backend-sub000/internal/services"
)

type ApplicationHandler struct {
	appRepo        repositories.ApplicationRepository
	jobRepo        repositories.JobRepository
	storageService services.StorageService
	worker         services.Worker
	maxFileSize    int64
}

func NewApplicationHandler(
	appRepo repositories.ApplicationRepository,
	jobRepo repositories.JobRepository,
	storageService services.StorageService,
	worker services.Worker,
	maxFileSize int64,
) *ApplicationHandler {
	return &ApplicationHandler{
		appRepo:        appRepo,
		jobRepo:        jobRepo,
		storageService: storageService,
		worker:         worker,
		maxFileSize:    maxFileSize,
	}
}

// HandleApply accepts a CV upload for a job and queues résumé processing.
// Only PDF and DOCX files are accepted.
func (h *ApplicationHandler) HandleApply(c *fiber.Ctx) error {
	jobID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid job id",
		})
	}

	if _, err := h.jobRepo.FindByID(jobID); err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "job not found",
		})
	}

	cvFile, err := c.FormFile("cv")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "missing 'cv' file field",
		})
	}
	if cvFile.Size > h.maxFileSize {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": fmt.Sprintf("CV file too large. Max size: %d bytes", h.maxFileSize),
		})
	}

	filename, filePath, err := h.storageService.SaveFile(cvFile, "cv")
	if err != nil {
		if errors.Is(err, services.ErrUnsupportedFormat) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "unsupported file format, only PDF and DOCX are accepted",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to save CV file",
		})
	}

	application := models.Application{
		ID:             uuid.New(),
		JobID:          jobID,
		CVFileName:     filename,
		CVOriginalName: cvFile.Filename,
		CVFilePath:     filePath,
	}

	if err := h.appRepo.Create(&application); err != nil {
		// Cleanup uploaded file if database insert fails
		h.storageService.DeleteFile(filename)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to save application record",
		})
	}

	h.worker.Enqueue(services.Task{Kind: services.TaskProcessCV, ApplicationID: application.ID})

	return c.Status(fiber.StatusCreated).JSON(models.ApplyResponse{
		ApplicationID: application.ID.String(),
		JobID:         jobID.String(),
		CVFileName:    application.CVOriginalName,
		Status:        "processing",
	})
}
