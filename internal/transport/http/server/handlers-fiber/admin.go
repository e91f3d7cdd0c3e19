package handlers_fiber

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/niket-singh/Reviewers-Adzzat-sub000/internal/api"
	"github.com/niket-singh/Reviewers-Adzzat-sub000/internal/mapper"
)

// ReassignPending walks the deferred queue and assigns what it can.
func (h *Handler) ReassignPending(c *fiber.Ctx) error {
	rep, err := h.uc.ReassignPending(c.Context())
	if err != nil {
		h.log.Errorw("failed to reassign pending submissions", "error", err.Error())
		return writeError(c, err)
	}

	return c.Status(http.StatusOK).JSON(mapper.ToAPIReassignReport(rep))
}

// ListDeferred returns unassigned non-terminal submissions, oldest first.
func (h *Handler) ListDeferred(c *fiber.Ctx) error {
	subs, err := h.uc.ListDeferred(c.Context())
	if err != nil {
		h.log.Errorw("failed to list deferred submissions", "error", err.Error())
		return writeError(c, err)
	}

	return c.Status(http.StatusOK).JSON(struct {
		Submissions []api.Submission `json:"submissions"`
	}{Submissions: mapper.ToAPISubmissionList(subs)})
}

// Workload returns per-user open assignment counts.
func (h *Handler) Workload(c *fiber.Ctx) error {
	stats, err := h.uc.WorkloadStats(c.Context())
	if err != nil {
		h.log.Errorw("failed to get workload stats", "error", err.Error())
		return writeError(c, err)
	}

	return c.Status(http.StatusOK).JSON(struct {
		Stats []api.WorkloadStat `json:"stats"`
	}{Stats: mapper.ToAPIWorkloadStats(stats)})
}
