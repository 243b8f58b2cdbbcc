// Package resolver turns an Instagram shortcode into a direct video URL.
//
// The VideoResolver contract is single-shortcode and context-aware; backends
// talk to the network and may be slow or fail. Every failure is reported as
// an *Error whose Kind classifies the cause while callers that only care
// about success or failure can treat it as a plain error.
//
// Backends:
//   - GraphQL: queries Instagram's public GraphQL endpoint directly.
//   - Cobalt:  delegates to a cobalt (https://github.com/imputnet/cobalt) instance.
//
// Timeouts live here, on the http.Client each backend owns. Callers do not
// impose their own.
package resolver

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/tbourn/go-insta-resolver/internal/config"
)

// VideoResolver resolves one shortcode to a direct video URL.
//
// Implementations must be safe for concurrent use and must honor ctx for
// cancellation.
type VideoResolver interface {
	Resolve(ctx context.Context, shortcode string) (string, error)
}

// Func adapts an ordinary function to VideoResolver. Tests use it to stand
// in for a network backend.
type Func func(ctx context.Context, shortcode string) (string, error)

// Resolve calls f(ctx, shortcode).
func (f Func) Resolve(ctx context.Context, shortcode string) (string, error) {
	return f(ctx, shortcode)
}

// Kind classifies resolver failures.
type Kind string

const (
	KindNotFound    Kind = "not_found"
	KindNotVideo    Kind = "not_video"
	KindPrivate     Kind = "private"
	KindRateLimited Kind = "rate_limited"
	KindUpstream    Kind = "upstream"
)

// Sentinels matched by errors.Is against an *Error of the same Kind.
var (
	ErrNotFound    = errors.New("post not found")
	ErrNotVideo    = errors.New("post is not a video")
	ErrPrivate     = errors.New("login required")
	ErrRateLimited = errors.New("rate limited by upstream")
	ErrUpstream    = errors.New("upstream failure")
)

var sentinelByKind = map[Kind]error{
	KindNotFound:    ErrNotFound,
	KindNotVideo:    ErrNotVideo,
	KindPrivate:     ErrPrivate,
	KindRateLimited: ErrRateLimited,
	KindUpstream:    ErrUpstream,
}

// Error is returned by every backend for every failure.
type Error struct {
	Kind      Kind
	Shortcode string
	Err       error // underlying cause, may be nil
}

func (e *Error) Error() string {
	var msg string
	switch e.Kind {
	case KindNotFound:
		msg = fmt.Sprintf("post %s not found", e.Shortcode)
	case KindNotVideo:
		msg = fmt.Sprintf("post %s is not a video", e.Shortcode)
	case KindPrivate:
		msg = fmt.Sprintf("post %s requires login", e.Shortcode)
	case KindRateLimited:
		msg = fmt.Sprintf("rate limited while resolving %s", e.Shortcode)
	default:
		msg = fmt.Sprintf("resolving %s failed", e.Shortcode)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is the sentinel for e.Kind.
func (e *Error) Is(target error) bool {
	s, ok := sentinelByKind[e.Kind]
	return ok && s == target
}

func newError(kind Kind, shortcode string, err error) *Error {
	return &Error{Kind: kind, Shortcode: shortcode, Err: err}
}

// KindOf returns the Kind of err, or "" when err is not an *Error.
func KindOf(err error) Kind {
	var re *Error
	if errors.As(err, &re) {
		return re.Kind
	}
	return ""
}

// New builds the backend selected by cfg.Backend, wrapped with tracing and
// metrics.
func New(cfg config.ResolverConfig) (VideoResolver, error) {
	client := &http.Client{Timeout: cfg.Timeout}

	switch cfg.Backend {
	case config.BackendGraphQL, "":
		return Instrument(NewGraphQL(client, GraphQLOptions{
			Endpoint:  cfg.GraphQLURL,
			QueryHash: cfg.QueryHash,
			SessionID: cfg.SessionID,
			UserAgent: cfg.UserAgent,
		}), config.BackendGraphQL), nil
	case config.BackendCobalt:
		return Instrument(NewCobalt(client, cfg.CobaltEndpoint, cfg.CobaltAPIKey), config.BackendCobalt), nil
	default:
		return nil, fmt.Errorf("unknown resolver backend %q", cfg.Backend)
	}
}
