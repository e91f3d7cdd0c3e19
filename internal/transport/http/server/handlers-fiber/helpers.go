package handlers_fiber

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/niket-singh/Reviewers-Adzzat-sub000/internal/api"
	"github.com/niket-singh/Reviewers-Adzzat-sub000/internal/entities"
	"github.com/niket-singh/Reviewers-Adzzat-sub000/internal/mapper"
)

// Actor identity arrives on trusted headers set by the gateway.
const (
	headerActorID   = "X-Actor-Id"
	headerActorRole = "X-Actor-Role"
)

func actorFromHeaders(c *fiber.Ctx) (entities.Actor, error) {
	id := c.Get(headerActorID)
	role := c.Get(headerActorRole)
	if id == "" || role == "" {
		return entities.Actor{}, fmt.Errorf("%w: missing actor headers", entities.ErrUnauthorized)
	}
	return entities.Actor{ID: id, Role: entities.Role(role)}, nil
}

func writeError(c *fiber.Ctx, err error) error {
	status := http.StatusInternalServerError
	code := api.INVALIDARGUMENT
	msg := "internal error"

	switch {
	case errors.Is(err, entities.ErrInvalidArgument):
		status = http.StatusBadRequest
		code = api.INVALIDARGUMENT
		msg = err.Error()
	case errors.Is(err, entities.ErrValidation):
		status = http.StatusBadRequest
		code = api.VALIDATIONFAILED
		msg = err.Error()
	case errors.Is(err, entities.ErrUserNotFound), errors.Is(err, entities.ErrSubmissionNotFound):
		status = http.StatusNotFound
		code = api.NOTFOUND
		msg = "resource not found"
	case errors.Is(err, entities.ErrUserExists):
		status = http.StatusConflict
		code = api.USEREXISTS
		msg = "user_id already exists"
	case errors.Is(err, entities.ErrUnauthorized):
		status = http.StatusForbidden
		code = api.UNAUTHORIZED
		msg = err.Error()
	case errors.Is(err, entities.ErrDeleteForbidden):
		status = http.StatusForbidden
		code = api.DELETEFORBIDDEN
		msg = "submission cannot be deleted in its current status"
	case errors.Is(err, entities.ErrInvalidTransition):
		status = http.StatusConflict
		code = api.INVALIDTRANSITION
		msg = err.Error()
	case errors.Is(err, entities.ErrTerminal):
		status = http.StatusConflict
		code = api.TERMINAL
		msg = "submission is in a terminal status"
	case errors.Is(err, entities.ErrConcurrentModification):
		status = http.StatusConflict
		code = api.CONCURRENTMODIFICATION
		msg = "submission was modified concurrently, retry"
	default:
		msg = err.Error()
	}

	return c.Status(status).JSON(errorResponse(code, msg))
}

func errorResponse(code api.ErrorCode, msg string) api.ErrorResponse {
	return api.ErrorResponse{Error: api.ErrorBody{Code: code, Message: msg}}
}

func submissionJSON(c *fiber.Ctx, status int, sub *entities.Submission) error {
	return c.Status(status).JSON(struct {
		Submission api.Submission `json:"submission"`
	}{Submission: mapper.ToAPISubmission(*sub)})
}
