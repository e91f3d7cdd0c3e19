// Package handlers_fiber wires HTTP delivery components.
package handlers_fiber

import (
	"github.com/gofiber/fiber/v2"
	"github.com/niket-singh/Reviewers-Adzzat-sub000/internal/usecase"
	"go.uber.org/zap"
)

// Handler exposes the workflow over HTTP using service layer interfaces.
type Handler struct {
	log *zap.SugaredLogger
	uc  usecase.InterfaceUsecase
}

// NewHandler constructs an HTTP server with service dependencies.
func NewHandler(log *zap.SugaredLogger, usecase usecase.InterfaceUsecase) *Handler {
	return &Handler{
		log: log,
		uc:  usecase,
	}
}

// Register mounts all routes on the fiber app.
func (h *Handler) Register(app *fiber.App) {
	app.Post("/users", h.RegisterUser)
	app.Post("/users/approve", h.ApproveUser)
	app.Post("/users/setGreenLight", h.SetGreenLight)
	app.Get("/users/:id/queue", h.GetUserQueue)

	app.Post("/submissions", h.CreateSubmission)
	app.Get("/submissions/:id", h.GetSubmission)
	app.Delete("/submissions/:id", h.DeleteSubmission)

	app.Post("/submissions/:id/feedback", h.ReviewerFeedback)
	app.Post("/submissions/:id/approve", h.Approve)
	app.Post("/submissions/:id/reject", h.Reject)
	app.Post("/submissions/:id/submitToPlatform", h.SubmitToPlatform)
	app.Post("/submissions/:id/eligibleForReview", h.EligibleForReview)
	app.Post("/submissions/:id/testerFeedback", h.TesterFeedback)
	app.Post("/submissions/:id/resubmit", h.Resubmit)
	app.Post("/submissions/:id/requestChanges", h.RequestChanges)
	app.Post("/submissions/:id/changesDone", h.ChangesDone)
	app.Post("/submissions/:id/finalChecks", h.FinalChecks)

	app.Post("/admin/reassignPending", h.ReassignPending)
	app.Get("/admin/deferred", h.ListDeferred)
	app.Get("/admin/workload", h.Workload)
}
