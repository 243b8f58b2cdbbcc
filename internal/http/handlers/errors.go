// Package handlers defines HTTP-layer error codes used across all API endpoints.
//
// The codes supplement the human-readable "error" message of every error
// response (see ErrorResponse) with a stable, machine-readable taxonomy:
//
//   - Client input problems map to 400 with one of the *_url / *_json /
//     missing_field / invalid_type codes.
//   - Upstream resolution failures map to 500 with resolve_failed.
//   - Anything else maps to 500 with internal_error.
//
// Example response:
//
//	{
//	  "error": "could not extract shortcode from URL: https://example.com",
//	  "code": "invalid_url",
//	  "request_id": "e1b9be03-4999-4289-9f03-999b042d65d6"
//	}
package handlers

const (
	ErrCodeBadRequest       = "bad_request"
	ErrCodeNotFound         = "not_found"
	ErrCodeMethodNotAllowed = "method_not_allowed"
	ErrCodePayloadTooLarge  = "payload_too_large"
	ErrCodeInternal         = "internal_error"

	// Domain-specific:
	ErrCodeMissingURL    = "missing_url"
	ErrCodeInvalidURL    = "invalid_url"
	ErrCodeInvalidJSON   = "invalid_json"
	ErrCodeMissingField  = "missing_field"
	ErrCodeInvalidType   = "invalid_type"
	ErrCodeResolveFailed = "resolve_failed"
)
