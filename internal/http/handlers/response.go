// Package handlers provides HTTP handler implementations for the public API.
//
// This file defines the standard response utilities used across all endpoints:
// the error envelope, the fail() helper that logs server-side failures, and
// ok() for success bodies.
//
// Example error response:
//
//	HTTP/1.1 400 Bad Request
//	{
//	  "error": "Missing Instagram URL. Use ?url=instagram_url",
//	  "code": "missing_url",
//	  "request_id": "123e4567-e89b-12d3-a456-426614174000"
//	}
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-insta-resolver/internal/http/middleware"
)

// ErrorResponse is the standard error envelope returned by all endpoints.
type ErrorResponse struct {
	// Human-readable message (safe to show to users)
	Error string `json:"error" example:"could not extract shortcode from URL: https://example.com"`
	// Optional hint on how to fix the request
	Help string `json:"help,omitempty" example:"Make sure the request body contains valid JSON"`
	// Stable, machine-readable code (see errors.go constants)
	Code string `json:"code" example:"invalid_url"`
	// Correlates server logs and client errors
	RequestID string `json:"request_id,omitempty" example:"123e4567-e89b-12d3-a456-426614174000"`
}

// fail aborts the request with a structured error and logs server-side errors.
func fail(c *gin.Context, status int, code, msg string) {
	failHelp(c, status, code, msg, "")
}

// failHelp is fail with an additional hint for the caller.
func failHelp(c *gin.Context, status int, code, msg, help string) {
	resp := ErrorResponse{
		Error:     msg,
		Help:      help,
		Code:      code,
		RequestID: c.Writer.Header().Get("X-Request-ID"),
	}

	// Log 5xx (server-side) with request-scoped logger
	if status >= http.StatusInternalServerError {
		lg := middleware.LoggerFrom(c)
		lg.Error().
			Int("status", status).
			Str("code", code).
			Str("message", msg).
			Msg("api error")
	}

	c.AbortWithStatusJSON(status, resp)
}

// Fail is the exported variant of fail(), used by the router for 404/405.
func Fail(c *gin.Context, status int, code, msg string) { fail(c, status, code, msg) }

// ok writes a success JSON response.
func ok(c *gin.Context, status int, body any) {
	c.JSON(status, body)
}
