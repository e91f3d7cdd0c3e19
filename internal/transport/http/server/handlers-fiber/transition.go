package handlers_fiber

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/niket-singh/Reviewers-Adzzat-sub000/internal/api"
	"github.com/niket-singh/Reviewers-Adzzat-sub000/internal/mapper"
)

// ReviewerFeedback records reviewer feedback on a SIMPLE submission and
// either promotes it to ELIGIBLE or rejects it.
func (h *Handler) ReviewerFeedback(c *fiber.Ctx) error {
	actor, err := actorFromHeaders(c)
	if err != nil {
		return writeError(c, err)
	}

	var body api.ReviewerFeedbackRequest
	if err := c.BodyParser(&body); err != nil {
		return c.Status(http.StatusBadRequest).JSON(errorResponse(api.INVALIDARGUMENT, "invalid body"))
	}

	sub, err := h.uc.SubmitReviewerFeedback(c.Context(), actor, c.Params("id"), body.Feedback, body.Eligible)
	if err != nil {
		h.log.Errorw("failed to submit reviewer feedback", "error", err.Error())
		return writeError(c, err)
	}
	return submissionJSON(c, http.StatusOK, sub)
}

// Approve finishes a submission with the account it was posted in.
func (h *Handler) Approve(c *fiber.Ctx) error {
	actor, err := actorFromHeaders(c)
	if err != nil {
		return writeError(c, err)
	}

	var body api.ApproveRequest
	if err := c.BodyParser(&body); err != nil {
		return c.Status(http.StatusBadRequest).JSON(errorResponse(api.INVALIDARGUMENT, "invalid body"))
	}

	sub, err := h.uc.Approve(c.Context(), actor, c.Params("id"), body.AccountPostedIn)
	if err != nil {
		h.log.Errorw("failed to approve submission", "error", err.Error())
		return writeError(c, err)
	}
	return submissionJSON(c, http.StatusOK, sub)
}

// Reject finishes a submission with a rejection reason.
func (h *Handler) Reject(c *fiber.Ctx) error {
	actor, err := actorFromHeaders(c)
	if err != nil {
		return writeError(c, err)
	}

	var body api.RejectRequest
	if err := c.BodyParser(&body); err != nil {
		return c.Status(http.StatusBadRequest).JSON(errorResponse(api.INVALIDARGUMENT, "invalid body"))
	}

	sub, err := h.uc.Reject(c.Context(), actor, c.Params("id"), body.Reason)
	if err != nil {
		h.log.Errorw("failed to reject submission", "error", err.Error())
		return writeError(c, err)
	}
	return submissionJSON(c, http.StatusOK, sub)
}

// SubmitToPlatform records the platform posting made by the tester.
func (h *Handler) SubmitToPlatform(c *fiber.Ctx) error {
	actor, err := actorFromHeaders(c)
	if err != nil {
		return writeError(c, err)
	}

	var body api.SubmitToPlatformRequest
	if err := c.BodyParser(&body); err != nil {
		return c.Status(http.StatusBadRequest).JSON(errorResponse(api.INVALIDARGUMENT, "invalid body"))
	}

	sub, err := h.uc.MarkSubmittedToPlatform(c.Context(), actor, c.Params("id"), body.SubmittedAccount, body.TaskLink)
	if err != nil {
		h.log.Errorw("failed to mark submitted to platform", "error", err.Error())
		return writeError(c, err)
	}
	return submissionJSON(c, http.StatusOK, sub)
}

// EligibleForReview ends the testing phase and hands the submission to the
// reviewer pool. The assignee is cleared, so the response reports deferral.
func (h *Handler) EligibleForReview(c *fiber.Ctx) error {
	actor, err := actorFromHeaders(c)
	if err != nil {
		return writeError(c, err)
	}

	var body api.EligibleForReviewRequest
	if err := c.BodyParser(&body); err != nil {
		return c.Status(http.StatusBadRequest).JSON(errorResponse(api.INVALIDARGUMENT, "invalid body"))
	}

	sub, err := h.uc.MarkEligibleForManualReview(c.Context(), actor, c.Params("id"), body.TaskLink)
	if err != nil {
		h.log.Errorw("failed to mark eligible for manual review", "error", err.Error())
		return writeError(c, err)
	}

	return c.Status(http.StatusOK).JSON(struct {
		Submission api.Submission `json:"submission"`
		Deferred   bool           `json:"deferred"`
	}{Submission: mapper.ToAPISubmission(*sub), Deferred: sub.AssigneeID == nil})
}

// TesterFeedback sends the submission back to the contributor for rework.
func (h *Handler) TesterFeedback(c *fiber.Ctx) error {
	actor, err := actorFromHeaders(c)
	if err != nil {
		return writeError(c, err)
	}

	var body api.TesterFeedbackRequest
	if err := c.BodyParser(&body); err != nil {
		return c.Status(http.StatusBadRequest).JSON(errorResponse(api.INVALIDARGUMENT, "invalid body"))
	}

	sub, err := h.uc.SendTesterFeedback(c.Context(), actor, c.Params("id"), body.Feedback)
	if err != nil {
		h.log.Errorw("failed to send tester feedback", "error", err.Error())
		return writeError(c, err)
	}
	return submissionJSON(c, http.StatusOK, sub)
}

// Resubmit records updated files after rework.
func (h *Handler) Resubmit(c *fiber.Ctx) error {
	actor, err := actorFromHeaders(c)
	if err != nil {
		return writeError(c, err)
	}

	var body api.ResubmitRequest
	if err := c.BodyParser(&body); err != nil {
		return c.Status(http.StatusBadRequest).JSON(errorResponse(api.INVALIDARGUMENT, "invalid body"))
	}

	sub, err := h.uc.Resubmit(c.Context(), actor, c.Params("id"), body.FileURL)
	if err != nil {
		h.log.Errorw("failed to resubmit", "error", err.Error())
		return writeError(c, err)
	}
	return submissionJSON(c, http.StatusOK, sub)
}

// RequestChanges sends the submission back during manual review.
func (h *Handler) RequestChanges(c *fiber.Ctx) error {
	actor, err := actorFromHeaders(c)
	if err != nil {
		return writeError(c, err)
	}

	var body api.RequestChangesRequest
	if err := c.BodyParser(&body); err != nil {
		return c.Status(http.StatusBadRequest).JSON(errorResponse(api.INVALIDARGUMENT, "invalid body"))
	}

	sub, err := h.uc.RequestChanges(c.Context(), actor, c.Params("id"), body.Feedback)
	if err != nil {
		h.log.Errorw("failed to request changes", "error", err.Error())
		return writeError(c, err)
	}
	return submissionJSON(c, http.StatusOK, sub)
}

// ChangesDone signals the contributor finished the requested changes.
func (h *Handler) ChangesDone(c *fiber.Ctx) error {
	actor, err := actorFromHeaders(c)
	if err != nil {
		return writeError(c, err)
	}

	sub, err := h.uc.MarkChangesDone(c.Context(), actor, c.Params("id"))
	if err != nil {
		h.log.Errorw("failed to mark changes done", "error", err.Error())
		return writeError(c, err)
	}
	return submissionJSON(c, http.StatusOK, sub)
}

// FinalChecks moves the submission into the final verification stage.
func (h *Handler) FinalChecks(c *fiber.Ctx) error {
	actor, err := actorFromHeaders(c)
	if err != nil {
		return writeError(c, err)
	}

	sub, err := h.uc.AdvanceToFinalChecks(c.Context(), actor, c.Params("id"))
	if err != nil {
		h.log.Errorw("failed to advance to final checks", "error", err.Error())
		return writeError(c, err)
	}
	return submissionJSON(c, http.StatusOK, sub)
}
