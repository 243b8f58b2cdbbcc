// Video HTTP handlers.
//
// This file exposes the public endpoints:
//   - GET  /health            (liveness)
//   - GET  /get_video_url     (single URL, ?url=...)
//   - POST /batch_video_urls  (JSON {"urls": [...]})
//
// Handlers are transport-thin: they validate input, call VideoService, and
// translate results and typed errors into HTTP responses.
package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/tbourn/go-insta-resolver/internal/domain"
	"github.com/tbourn/go-insta-resolver/internal/http/middleware"
	"github.com/tbourn/go-insta-resolver/internal/resolver"
	"github.com/tbourn/go-insta-resolver/internal/services"
	"github.com/tbourn/go-insta-resolver/internal/shortcode"
)

// Client-facing messages.
const (
	msgMissingURL   = "Missing Instagram URL. Use ?url=instagram_url"
	msgMissingURLs  = "Missing 'urls' field in JSON body"
	msgURLsNotArray = "'urls' must be an array of Instagram URLs"
	msgJSONHelp     = "Make sure the request body contains valid JSON"
)

// VideoService is the use case consumed by the video handlers.
//
// Implementations must be safe for concurrent use and must honor the
// provided context for cancellation.
type VideoService interface {
	// Resolve turns one Instagram URL into a ResolutionResult.
	Resolve(ctx context.Context, rawURL string) (*domain.ResolutionResult, error)
	// ResolveBatch resolves every item, isolating per-item failures.
	ResolveBatch(ctx context.Context, items []services.BatchItem) domain.BatchResolutionResponse
}

// Handlers groups the HTTP endpoints of the service.
type Handlers struct {
	videoSvc VideoService
}

// New constructs and returns a Handlers instance bound to the given service.
func New(videoSvc VideoService) *Handlers {
	return &Handlers{videoSvc: videoSvc}
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status string `json:"status" example:"ok"`
}

// BatchRequest documents the body of POST /batch_video_urls. The handler
// decodes the body by hand so it can tell missing, mistyped and
// non-string entries apart.
type BatchRequest struct {
	URLs []string `json:"urls" example:"https://www.instagram.com/reel/C1a2B3/"`
}

// Health godoc
// @ID          health
// @Summary     Liveness check
// @Tags        Health
// @Produce     json
// @Success     200  {object}  handlers.HealthResponse
// @Router      /health [get]
func (h *Handlers) Health(c *gin.Context) {
	ok(c, http.StatusOK, HealthResponse{Status: "ok"})
}

// GetVideoURL godoc
// @ID          getVideoURL
// @Summary     Resolve one Instagram URL
// @Description Extracts the shortcode from a post, reel or tv URL and returns the direct video URL.
// @Tags        Videos
// @Produce     json
// @Param       url  query  string  true  "Instagram post/reel/tv URL"  example(https://www.instagram.com/reel/C1a2B3/)
// @Success     200  {object}  domain.ResolutionResult
// @Failure     400  {object}  handlers.ErrorResponse  "Missing or unextractable URL"
// @Failure     500  {object}  handlers.ErrorResponse  "Resolver failure"
// @Router      /get_video_url [get]
func (h *Handlers) GetVideoURL(c *gin.Context) {
	raw := c.Query("url")
	lg := middleware.LoggerFrom(c)
	if m := shortcode.Kind(raw); m != "" {
		lg.UpdateContext(func(zc zerolog.Context) zerolog.Context { return zc.Str("marker", m) })
	}

	res, err := h.videoSvc.Resolve(c.Request.Context(), raw)
	if err != nil {
		if k := resolver.KindOf(err); k != "" {
			lg.UpdateContext(func(zc zerolog.Context) zerolog.Context { return zc.Str("resolver_error_kind", string(k)) })
		}
		var re *resolver.Error
		switch {
		case errors.Is(err, services.ErrMissingURL):
			fail(c, http.StatusBadRequest, ErrCodeMissingURL, msgMissingURL)
		case errors.Is(err, shortcode.ErrNoShortcode):
			fail(c, http.StatusBadRequest, ErrCodeInvalidURL, err.Error())
		case errors.As(err, &re):
			fail(c, http.StatusInternalServerError, ErrCodeResolveFailed, err.Error())
		default:
			fail(c, http.StatusInternalServerError, ErrCodeInternal, "server error: "+err.Error())
		}
		return
	}
	ok(c, http.StatusOK, res)
}

// BatchVideoURLs godoc
// @ID          batchVideoURLs
// @Summary     Resolve many Instagram URLs
// @Description Resolves each URL independently. Per-URL failures are reported in "errors"
// @Description and never fail the request. The body is parsed as JSON regardless of Content-Type.
// @Tags        Videos
// @Accept      json
// @Produce     json
// @Param       body  body  handlers.BatchRequest  true  "URLs to resolve"
// @Success     200  {object}  domain.BatchResolutionResponse
// @Failure     400  {object}  handlers.ErrorResponse  "Invalid JSON, missing or mistyped urls"
// @Failure     413  {object}  handlers.ErrorResponse  "Body too large"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /batch_video_urls [post]
func (h *Handlers) BatchVideoURLs(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			fail(c, http.StatusRequestEntityTooLarge, ErrCodePayloadTooLarge, "request body too large")
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeInternal, "server error: "+err.Error())
		return
	}

	items, berr := decodeBatch(body)
	if berr != nil {
		failHelp(c, http.StatusBadRequest, berr.code, berr.msg, berr.help)
		return
	}

	out := h.videoSvc.ResolveBatch(c.Request.Context(), items)
	if !out.Valid() || out.Total != len(items) {
		fail(c, http.StatusInternalServerError, ErrCodeInternal,
			fmt.Sprintf("server error: batch result does not account for %d urls", len(items)))
		return
	}

	markers := make(map[string]int, 3)
	for _, it := range items {
		if m := shortcode.Kind(it.URL); m != "" {
			markers[m]++
		}
	}
	lg := middleware.LoggerFrom(c)
	lg.Debug().
		Int("total", out.Total).
		Int("success_count", out.SuccessCount).
		Int("error_count", out.ErrorCount).
		Interface("markers", markers).
		Msg("batch resolved")

	ok(c, http.StatusOK, out)
}

// batchInputError is a whole-request validation failure.
type batchInputError struct {
	code, msg, help string
}

// decodeBatch validates body in order: valid JSON, an object holding "urls",
// "urls" being an array. Array entries that are not strings become items
// carrying services.ErrInvalidItem.
func decodeBatch(body []byte) ([]services.BatchItem, *batchInputError) {
	var decoded any
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, &batchInputError{
			code: ErrCodeInvalidJSON,
			msg:  "Failed to parse JSON: " + err.Error(),
			help: msgJSONHelp,
		}
	}

	obj, isObj := decoded.(map[string]any)
	if !isObj || len(obj) == 0 {
		return nil, &batchInputError{code: ErrCodeMissingField, msg: msgMissingURLs}
	}
	if _, has := obj["urls"]; !has {
		return nil, &batchInputError{code: ErrCodeMissingField, msg: msgMissingURLs}
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return nil, &batchInputError{code: ErrCodeInvalidJSON, msg: "Failed to parse JSON: " + err.Error(), help: msgJSONHelp}
	}
	raw := bytes.TrimSpace(fields["urls"])
	if len(raw) == 0 || raw[0] != '[' {
		return nil, &batchInputError{code: ErrCodeInvalidType, msg: msgURLsNotArray}
	}
	var entries []json.RawMessage
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, &batchInputError{code: ErrCodeInvalidType, msg: msgURLsNotArray}
	}

	items := make([]services.BatchItem, len(entries))
	for i, e := range entries {
		e = bytes.TrimSpace(e)
		var s string
		if len(e) > 0 && e[0] == '"' && json.Unmarshal(e, &s) == nil {
			items[i] = services.BatchItem{URL: s}
			continue
		}
		items[i] = services.BatchItem{URL: string(e), Err: services.ErrInvalidItem}
	}
	return items, nil
}
