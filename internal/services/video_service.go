// Package services – VideoService
//
// This file implements VideoService, which extracts the shortcode from an
// Instagram URL and asks a resolver.VideoResolver for the direct video URL.
// Batches are resolved item by item: a failure in one item is recorded in the
// response and never affects the others.
package services

import (
	"context"
	"fmt"
	"runtime/debug"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/tbourn/go-insta-resolver/internal/domain"
	"github.com/tbourn/go-insta-resolver/internal/resolver"
	"github.com/tbourn/go-insta-resolver/internal/shortcode"
)

// BatchItem is one entry of a batch request. Err is set when the entry was
// already rejected while decoding (e.g. it was not a string); such items are
// reported as errors without calling the resolver.
type BatchItem struct {
	URL string
	Err error
}

// VideoService resolves Instagram URLs to direct video URLs.
type VideoService struct {
	// Resolver performs the upstream lookup per shortcode.
	Resolver resolver.VideoResolver
	// Concurrency bounds in-flight resolver calls within one batch.
	// Values below 1 mean sequential.
	Concurrency int
}

// NewVideoService returns a VideoService backed by r.
func NewVideoService(r resolver.VideoResolver, concurrency int) *VideoService {
	return &VideoService{Resolver: r, Concurrency: concurrency}
}

// Resolve extracts the shortcode from rawURL and resolves it.
//
// Errors:
//   - ErrMissingURL when rawURL is empty
//   - *shortcode.ExtractionError when rawURL has no shortcode
//   - *resolver.Error (or whatever the resolver returns) on upstream failure
func (s *VideoService) Resolve(ctx context.Context, rawURL string) (*domain.ResolutionResult, error) {
	if rawURL == "" {
		return nil, ErrMissingURL
	}
	return s.resolve(ctx, rawURL)
}

func (s *VideoService) resolve(ctx context.Context, rawURL string) (*domain.ResolutionResult, error) {
	code, err := shortcode.Extract(rawURL)
	if err != nil {
		return nil, err
	}
	videoURL, err := s.Resolver.Resolve(ctx, code)
	if err != nil {
		return nil, err
	}
	return &domain.ResolutionResult{
		InstagramURL: rawURL,
		Shortcode:    code,
		VideoURL:     videoURL,
	}, nil
}

// ResolveBatch resolves every item and returns the aggregated outcome.
//
// Results and Errors keep input order regardless of Concurrency. Duplicate
// URLs are resolved once per occurrence. Cancellation of ctx reaches
// in-flight resolver calls; items not yet started fail with the context
// error.
func (s *VideoService) ResolveBatch(ctx context.Context, items []BatchItem) domain.BatchResolutionResponse {
	type slot struct {
		res *domain.ResolutionResult
		err error
	}
	slots := make([]slot, len(items))

	// A plain Group: one failed item must not cancel its siblings.
	var g errgroup.Group
	g.SetLimit(s.limit())
	for i, it := range items {
		g.Go(func() error {
			res, err := s.resolveItem(ctx, it)
			slots[i] = slot{res: res, err: err}
			return nil
		})
	}
	_ = g.Wait()

	out := domain.NewBatchResolutionResponse(len(items))
	for i, sl := range slots {
		if sl.err != nil {
			out.Errors = append(out.Errors, domain.ResolutionError{
				InstagramURL: items[i].URL,
				Error:        sl.err.Error(),
			})
			continue
		}
		out.Results = append(out.Results, *sl.res)
	}
	out.Tally()
	return out
}

// resolveItem resolves one batch entry, converting a panic into an error so
// it stays confined to this item.
func (s *VideoService) resolveItem(ctx context.Context, it BatchItem) (res *domain.ResolutionResult, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			log.Error().
				Interface("panic", rec).
				Bytes("stack", debug.Stack()).
				Str("instagram_url", it.URL).
				Msg("panic while resolving batch item")
			res, err = nil, fmt.Errorf("%w: %v", ErrItemPanic, rec)
		}
	}()

	if it.Err != nil {
		return nil, it.Err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.resolve(ctx, it.URL)
}

func (s *VideoService) limit() int {
	if s.Concurrency < 1 {
		return 1
	}
	return s.Concurrency
}
