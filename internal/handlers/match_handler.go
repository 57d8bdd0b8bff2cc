package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/NhatQuang1501/hirise-backend-sub000/internal/models"
	"github.com/NhatQuang1501/hirise-backend-sub000/internal/repositories"
	"github.com/NhatQuang1501/hirise-backend-sub000/internal/services"
)

type MatchHandler struct {
	matchRepo repositories.MatchRepository
	appRepo   repositories.ApplicationRepository
	worker    services.Worker
}

func NewMatchHandler(
	matchRepo repositories.MatchRepository,
	appRepo repositories.ApplicationRepository,
	worker services.Worker,
) *MatchHandler {
	return &MatchHandler{
		matchRepo: matchRepo,
		appRepo:   appRepo,
		worker:    worker,
	}
}

// HandleMatchApplication queues scoring for one (job, application) pair.
func (h *MatchHandler) HandleMatchApplication(c *fiber.Ctx) error {
	jobID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid job id",
		})
	}
	applicationID, err := uuid.Parse(c.Params("applicationId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid application id",
		})
	}

	queued := h.worker.Enqueue(services.Task{
		Kind:          services.TaskMatch,
		JobID:         jobID,
		ApplicationID: applicationID,
	})

	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
		"job_id":         jobID.String(),
		"application_id": applicationID.String(),
		"queued":         queued,
	})
}

// HandleMatchAll queues scoring for every application of a job.
func (h *MatchHandler) HandleMatchAll(c *fiber.Ctx) error {
	jobID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid job id",
		})
	}

	applications, err := h.appRepo.FindByJobID(jobID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to list applications",
		})
	}

	queued := 0
	for _, application := range applications {
		if h.worker.Enqueue(services.Task{
			Kind:          services.TaskMatch,
			JobID:         jobID,
			ApplicationID: application.ID,
		}) {
			queued++
		}
	}

	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
		"job_id":       jobID.String(),
		"applications": len(applications),
		"queued":       queued,
	})
}

// HandleGetMatch returns the stored result for one pair.
func (h *MatchHandler) HandleGetMatch(c *fiber.Ctx) error {
	jobID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid job id",
		})
	}
	applicationID, err := uuid.Parse(c.Params("applicationId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid application id",
		})
	}

	result, err := h.matchRepo.FindByPair(jobID, applicationID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "match result not found",
		})
	}

	return c.JSON(toMatchResponse(result))
}

// HandleListMatches returns all stored results for a job, best first.
func (h *MatchHandler) HandleListMatches(c *fiber.Ctx) error {
	jobID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid job id",
		})
	}

	results, err := h.matchRepo.ListByJob(jobID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to list match results",
		})
	}

	responses := make([]models.MatchResponse, 0, len(results))
	for i := range results {
		responses = append(responses, toMatchResponse(&results[i]))
	}

	return c.JSON(fiber.Map{
		"job_id":  jobID.String(),
		"matches": responses,
	})
}

func toMatchResponse(result *models.MatchResult) models.MatchResponse {
	return models.MatchResponse{
		JobID:           result.JobID.String(),
		ApplicationID:   result.ApplicationID.String(),
		MatchScore:      result.MatchScore,
		MatchPercentage: result.MatchPercentage(),
		ComponentScores: result.ComponentScores,
		Explanation:     result.Explanation,
	}
}
