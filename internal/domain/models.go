// Package domain defines the request-scoped values produced when resolving
// Instagram URLs to direct video URLs. Nothing here is persisted; every value
// lives only as long as the HTTP request that creates it.
package domain

// ResolutionResult is the outcome of a successful resolution.
//
// Fields:
//   - InstagramURL: the URL exactly as supplied by the caller.
//   - Shortcode: the media shortcode extracted from InstagramURL.
//   - VideoURL: the direct, usually short-lived, CDN URL of the video.
type ResolutionResult struct {
	InstagramURL string `json:"instagram_url" example:"https://www.instagram.com/reel/C1a2B3/"`
	Shortcode    string `json:"shortcode"     example:"C1a2B3"`
	VideoURL     string `json:"video_url"     example:"https://scontent.cdninstagram.com/v/t50/abc.mp4"`
}

// ResolutionError records why a single URL could not be resolved.
type ResolutionError struct {
	InstagramURL string `json:"instagram_url" example:"https://example.com/not-instagram"`
	Error        string `json:"error"         example:"could not extract shortcode from URL: https://example.com/not-instagram"`
}

// BatchResolutionResponse aggregates per-item outcomes of a batch request.
//
// Every input URL appears in exactly one of Results or Errors, each list
// preserving input order, and Total = SuccessCount + ErrorCount.
type BatchResolutionResponse struct {
	Results      []ResolutionResult `json:"results"`
	Errors       []ResolutionError  `json:"errors"`
	Total        int                `json:"total"         example:"3"`
	SuccessCount int                `json:"success_count" example:"2"`
	ErrorCount   int                `json:"error_count"   example:"1"`
}

// NewBatchResolutionResponse returns an empty response sized for n inputs.
// Both lists are non-nil so they encode as [] rather than null.
func NewBatchResolutionResponse(n int) BatchResolutionResponse {
	if n < 0 {
		n = 0
	}
	return BatchResolutionResponse{
		Results: make([]ResolutionResult, 0, n),
		Errors:  make([]ResolutionError, 0, n),
	}
}

// Tally recomputes the counters from the current lists.
func (b *BatchResolutionResponse) Tally() {
	if b.Results == nil {
		b.Results = []ResolutionResult{}
	}
	if b.Errors == nil {
		b.Errors = []ResolutionError{}
	}
	b.SuccessCount = len(b.Results)
	b.ErrorCount = len(b.Errors)
	b.Total = b.SuccessCount + b.ErrorCount
}

// Valid reports whether the counters agree with the lists. The batch
// handler refuses to send a response that fails it.
func (b BatchResolutionResponse) Valid() bool {
	return b.SuccessCount == len(b.Results) &&
		b.ErrorCount == len(b.Errors) &&
		b.Total == b.SuccessCount+b.ErrorCount
}
