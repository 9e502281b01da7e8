package errors

import "errors"

var (
	ErrTaskNotFound = errors.New("task not found")

	// The following preserve the upstream services' wording verbatim so
	// clients polling task state see the exact message the API reported.
	ErrMissingCredentials = errors.New("Missing API credentials for OpenAI or RunwayML")
	ErrPollTimeout        = errors.New("RunwayML video generation timed out after polling")
	ErrNoJobID            = errors.New("RunwayML API did not return a task ID")
	ErrNoOutputURL        = errors.New("RunwayML Succeeded but no video URL found")
)
