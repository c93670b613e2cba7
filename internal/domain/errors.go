package domain

import "errors"

var (
	// Client input errors (4xx, never retried).
	ErrMethodNotAllowed     = errors.New("method not allowed")
	ErrMissingUpload        = errors.New("missing PPO upload")
	ErrInvalidUpload        = errors.New("upload is not valid base64")
	ErrMissingPrecedentName = errors.New("precedent upload requires a file name")
	ErrInvalidRequestBody   = errors.New("request body is not valid JSON")
	ErrPayloadTooLarge      = errors.New("request body exceeds the size limit")
	ErrRecipientNotAllowed  = errors.New("report recipient domain is not allowed")

	// Recovered locally; never reach the HTTP layer.
	ErrReferenceNotFound = errors.New("reference document not found")
	ErrExtractionFailed  = errors.New("text extraction failed")

	ErrMissingCredential = errors.New("evaluator API credential is not configured")

	ErrUpstreamService = errors.New("evaluation service request failed")
	ErrUpstreamTimeout = errors.New("evaluation service timed out")
)
