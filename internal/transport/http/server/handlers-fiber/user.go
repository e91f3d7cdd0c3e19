package handlers_fiber

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/niket-singh/Reviewers-Adzzat-sub000/internal/api"
	"github.com/niket-singh/Reviewers-Adzzat-sub000/internal/entities"
	"github.com/niket-singh/Reviewers-Adzzat-sub000/internal/mapper"
)

// RegisterUser registers a contributor, tester or reviewer.
func (h *Handler) RegisterUser(c *fiber.Ctx) error {
	var body api.RegisterUserRequest
	if err := c.BodyParser(&body); err != nil {
		return c.Status(http.StatusBadRequest).JSON(errorResponse(api.INVALIDARGUMENT, "invalid body"))
	}

	usr, err := h.uc.RegisterUser(c.Context(), entities.User{
		ID:       body.UserID,
		Username: body.Username,
		Role:     entities.Role(body.Role),
	})
	if err != nil {
		h.log.Errorw("failed to register user", "error", err.Error())
		return writeError(c, err)
	}

	return c.Status(http.StatusCreated).JSON(struct {
		User api.User `json:"user"`
	}{User: mapper.ToAPIUser(*usr)})
}

// ApproveUser flips the approval flag; revocation releases open assignments.
func (h *Handler) ApproveUser(c *fiber.Ctx) error {
	actor, err := actorFromHeaders(c)
	if err != nil {
		return writeError(c, err)
	}

	var body api.SetApprovalRequest
	if err := c.BodyParser(&body); err != nil {
		return c.Status(http.StatusBadRequest).JSON(errorResponse(api.INVALIDARGUMENT, "invalid body"))
	}

	usr, released, err := h.uc.SetUserApproved(c.Context(), actor, body.UserID, body.IsApproved)
	if err != nil {
		h.log.Errorw("failed to set approval for user", "error", err.Error())
		return writeError(c, err)
	}

	return c.Status(http.StatusOK).JSON(struct {
		User     api.User `json:"user"`
		Released int      `json:"released"`
	}{User: mapper.ToAPIUser(*usr), Released: released})
}

// SetGreenLight toggles user availability.
func (h *Handler) SetGreenLight(c *fiber.Ctx) error {
	var body api.ToggleGreenLightRequest
	if err := c.BodyParser(&body); err != nil {
		return c.Status(http.StatusBadRequest).JSON(errorResponse(api.INVALIDARGUMENT, "invalid body"))
	}

	usr, err := h.uc.ToggleAvailability(c.Context(), body.UserID)
	if err != nil {
		h.log.Errorw("failed to toggle green light for user", "error", err.Error())
		return writeError(c, err)
	}

	return c.Status(http.StatusOK).JSON(struct {
		User api.User `json:"user"`
	}{User: mapper.ToAPIUser(*usr)})
}

// GetUserQueue returns the open submissions assigned to a user.
func (h *Handler) GetUserQueue(c *fiber.Ctx) error {
	userID := c.Params("id")

	subs, err := h.uc.GetQueue(c.Context(), userID)
	if err != nil {
		h.log.Errorw("failed to get user queue", "error", err.Error())
		return writeError(c, err)
	}

	resp := struct {
		UserID      string           `json:"user_id"`
		Submissions []api.Submission `json:"submissions"`
	}{
		UserID:      userID,
		Submissions: mapper.ToAPISubmissionList(subs),
	}

	return c.Status(http.StatusOK).JSON(resp)
}
