package handlers_fiber

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/niket-singh/Reviewers-Adzzat-sub000/internal/api"
	"github.com/niket-singh/Reviewers-Adzzat-sub000/internal/entities"
	"github.com/niket-singh/Reviewers-Adzzat-sub000/internal/mapper"
)

// CreateSubmission handles submission intake with auto assignment.
func (h *Handler) CreateSubmission(c *fiber.Ctx) error {
	actor, err := actorFromHeaders(c)
	if err != nil {
		return writeError(c, err)
	}

	var body api.CreateSubmissionRequest
	if err := c.BodyParser(&body); err != nil {
		return c.Status(http.StatusBadRequest).JSON(errorResponse(api.INVALIDARGUMENT, "invalid body"))
	}

	sub, err := h.uc.CreateSubmission(c.Context(), actor, entities.Submission{
		Kind:       entities.SubmissionKind(body.Kind),
		Category:   body.Category,
		Language:   body.Language,
		Difficulty: body.Difficulty,
		FileURL:    body.FileURL,
	})
	if err != nil {
		h.log.Errorw("failed to create submission", "error", err.Error())
		return writeError(c, err)
	}

	return c.Status(http.StatusCreated).JSON(struct {
		Submission api.Submission `json:"submission"`
		Deferred   bool           `json:"deferred"`
	}{Submission: mapper.ToAPISubmission(*sub), Deferred: sub.AssigneeID == nil})
}

// GetSubmission returns a submission with its feedback trail.
func (h *Handler) GetSubmission(c *fiber.Ctx) error {
	sub, feedback, err := h.uc.GetSubmission(c.Context(), c.Params("id"))
	if err != nil {
		h.log.Errorw("failed to get submission", "error", err.Error())
		return writeError(c, err)
	}

	return c.Status(http.StatusOK).JSON(struct {
		Submission api.Submission       `json:"submission"`
		Feedback   []api.FeedbackRecord `json:"feedback"`
	}{
		Submission: mapper.ToAPISubmission(*sub),
		Feedback:   mapper.ToAPIFeedbackList(feedback),
	})
}

// DeleteSubmission removes a submission when the actor and status permit.
func (h *Handler) DeleteSubmission(c *fiber.Ctx) error {
	actor, err := actorFromHeaders(c)
	if err != nil {
		return writeError(c, err)
	}

	if err := h.uc.DeleteSubmission(c.Context(), actor, c.Params("id")); err != nil {
		h.log.Errorw("failed to delete submission", "error", err.Error())
		return writeError(c, err)
	}

	return c.SendStatus(http.StatusNoContent)
}
