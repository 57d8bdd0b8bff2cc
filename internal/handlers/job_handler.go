package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/NhatQuang1501/hirise-backend-sub000/internal/models"
	"github.com/NhatQuang1501/hirise-backend-sub000/internal/repositories"
	"github.com/NhatQuang1501/hirise-backend-sub000/internal/services"
)

type JobHandler struct {
	jobRepo repositories.JobRepository
	worker  services.Worker
}

func NewJobHandler(jobRepo repositories.JobRepository, worker services.Worker) *JobHandler {
	return &JobHandler{
		jobRepo: jobRepo,
		worker:  worker,
	}
}

// HandleCreate stores a job posting and queues its processing pipeline.
func (h *JobHandler) HandleCreate(c *fiber.Ctx) error {
	var req models.CreateJobRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}
	if req.Title == "" || req.Description == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "title and description are required",
		})
	}

	job := models.Job{
		ID:                uuid.New(),
		Title:             req.Title,
		Description:       req.Description,
		Responsibilities:  req.Responsibilities,
		BasicRequirements: req.BasicRequirements,
		PreferredSkills:   req.PreferredSkills,
		SkillTags:         req.SkillTags,
	}

	if err := h.jobRepo.Create(&job); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to save job",
		})
	}

	h.worker.Enqueue(services.Task{Kind: services.TaskProcessJob, JobID: job.ID})

	return c.Status(fiber.StatusCreated).JSON(models.JobResponse{
		ID:     job.ID.String(),
		Title:  job.Title,
		Status: "processing",
	})
}

// HandleReprocess re-runs the processing pipeline for an existing job.
func (h *JobHandler) HandleReprocess(c *fiber.Ctx) error {
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

	queued := h.worker.Enqueue(services.Task{Kind: services.TaskProcessJob, JobID: jobID})

	return c.JSON(fiber.Map{
		"job_id": jobID.String(),
		"queued": queued,
	})
}
