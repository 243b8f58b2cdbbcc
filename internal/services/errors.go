// Package services defines the use cases that turn Instagram URLs into
// direct video URLs. This file centralizes common service-level error values
// so that they can be consistently returned by service methods and checked
// by callers.
//
// Translation into user-facing messages or HTTP status codes is performed at
// the handler layer.
package services

import "errors"

var (
	// ErrMissingURL is returned when a single resolution is requested
	// without a URL.
	ErrMissingURL = errors.New("missing Instagram URL")

	// ErrInvalidItem marks a batch entry that is not a string.
	ErrInvalidItem = errors.New("url must be a string")

	// ErrItemPanic wraps a panic recovered while resolving one batch item.
	ErrItemPanic = errors.New("internal error while resolving url")
)
