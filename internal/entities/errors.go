// Package entities contains core business entities and errors.
package entities

import "errors"

var (
	// ErrUserNotFound is returned when a user does not exist.
	ErrUserNotFound = errors.New("user not found")
	// ErrUserExists signals duplicate user id on registration.
	ErrUserExists = errors.New("user exists")
	// ErrInvalidArgument signals failed input validation.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrSubmissionNotFound signals missing submission.
	ErrSubmissionNotFound = errors.New("submission not found")
	// ErrInvalidTransition signals an action not permitted from the current status.
	ErrInvalidTransition = errors.New("invalid transition")
	// ErrUnauthorized signals a failed actor role or assignee guard.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrValidation signals a missing required field for a transition.
	ErrValidation = errors.New("validation failed")
	// ErrConcurrentModification signals a lost race on the same submission;
	// the caller should re-read current status and retry.
	ErrConcurrentModification = errors.New("concurrent modification")
	// ErrTerminal signals a mutation attempt on an APPROVED/REJECTED submission.
	ErrTerminal = errors.New("submission is terminal")
	// ErrDeleteForbidden signals a delete attempt outside permitted statuses.
	ErrDeleteForbidden = errors.New("delete not permitted in current status")
)
