package services

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tbourn/go-insta-resolver/internal/domain"
	"github.com/tbourn/go-insta-resolver/internal/resolver"
	"github.com/tbourn/go-insta-resolver/internal/shortcode"
)

// ---------- test helpers ----------

// fakeResolver maps shortcodes to video URLs and records every call.
type fakeResolver struct {
	mu      sync.Mutex
	videos  map[string]string
	failFor map[string]error
	calls   []string
	delay   func(code string) time.Duration
	hook    func(code string)
}

func (f *fakeResolver) Resolve(ctx context.Context, code string) (string, error) {
	f.mu.Lock()
	f.calls = append(f.calls, code)
	f.mu.Unlock()

	if f.hook != nil {
		f.hook(code)
	}
	if f.delay != nil {
		select {
		case <-time.After(f.delay(code)):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	if err, ok := f.failFor[code]; ok {
		return "", err
	}
	if v, ok := f.videos[code]; ok {
		return v, nil
	}
	return "", &resolver.Error{Kind: resolver.KindNotFound, Shortcode: code}
}

func (f *fakeResolver) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func items(urls ...string) []BatchItem {
	out := make([]BatchItem, len(urls))
	for i, u := range urls {
		out[i] = BatchItem{URL: u}
	}
	return out
}

// ---------- Resolve() ----------

func TestVideoService_Resolve_Success(t *testing.T) {
	fr := &fakeResolver{videos: map[string]string{"ABC123": "https://video.example/x.mp4"}}
	s := NewVideoService(fr, 1)

	got, err := s.Resolve(context.Background(), "https://instagram.com/p/ABC123/")
	require.NoError(t, err)
	assert.Equal(t, &domain.ResolutionResult{
		InstagramURL: "https://instagram.com/p/ABC123/",
		Shortcode:    "ABC123",
		VideoURL:     "https://video.example/x.mp4",
	}, got)
	assert.Equal(t, []string{"ABC123"}, fr.calls)
}

func TestVideoService_Resolve_MissingURL(t *testing.T) {
	fr := &fakeResolver{}
	s := NewVideoService(fr, 1)

	_, err := s.Resolve(context.Background(), "")
	assert.ErrorIs(t, err, ErrMissingURL)
	assert.Zero(t, fr.callCount())
}

func TestVideoService_Resolve_ExtractionFailureSkipsResolver(t *testing.T) {
	fr := &fakeResolver{}
	s := NewVideoService(fr, 1)

	_, err := s.Resolve(context.Background(), "https://example.com/video")
	var ee *shortcode.ExtractionError
	require.ErrorAs(t, err, &ee)
	assert.Equal(t, "https://example.com/video", ee.URL)
	assert.Zero(t, fr.callCount())
}

func TestVideoService_Resolve_ResolverFailure(t *testing.T) {
	fr := &fakeResolver{failFor: map[string]error{
		"IMG": &resolver.Error{Kind: resolver.KindNotVideo, Shortcode: "IMG"},
	}}
	s := NewVideoService(fr, 1)

	_, err := s.Resolve(context.Background(), "https://instagram.com/p/IMG/")
	assert.ErrorIs(t, err, resolver.ErrNotVideo)
	assert.EqualError(t, err, "post IMG is not a video")
}

// ---------- ResolveBatch() ----------

func TestVideoService_ResolveBatch_MixedOutcomes(t *testing.T) {
	fr := &fakeResolver{videos: map[string]string{"A": "va", "C": "vc"}}
	s := NewVideoService(fr, 1)

	out := s.ResolveBatch(context.Background(), items(
		"https://instagram.com/p/A/",
		"https://example.com/nope",
		"https://instagram.com/reel/C/",
	))

	assert.True(t, out.Valid())
	assert.Equal(t, 3, out.Total)
	assert.Equal(t, 2, out.SuccessCount)
	assert.Equal(t, 1, out.ErrorCount)
	require.Len(t, out.Results, 2)
	assert.Equal(t, "A", out.Results[0].Shortcode)
	assert.Equal(t, "C", out.Results[1].Shortcode)
	require.Len(t, out.Errors, 1)
	assert.Equal(t, domain.ResolutionError{
		InstagramURL: "https://example.com/nope",
		Error:        "could not extract shortcode from URL: https://example.com/nope",
	}, out.Errors[0])
}

func TestVideoService_ResolveBatch_Empty(t *testing.T) {
	s := NewVideoService(&fakeResolver{}, 4)
	out := s.ResolveBatch(context.Background(), nil)
	assert.NotNil(t, out.Results)
	assert.NotNil(t, out.Errors)
	assert.Zero(t, out.Total)
	assert.True(t, out.Valid())
}

func TestVideoService_ResolveBatch_EmptyStringIsExtractionError(t *testing.T) {
	s := NewVideoService(&fakeResolver{}, 1)
	out := s.ResolveBatch(context.Background(), items(""))
	require.Len(t, out.Errors, 1)
	assert.Equal(t, "could not extract shortcode from URL: ", out.Errors[0].Error)
}

func TestVideoService_ResolveBatch_InvalidItemsSkipResolver(t *testing.T) {
	fr := &fakeResolver{videos: map[string]string{"A": "va"}}
	s := NewVideoService(fr, 1)

	out := s.ResolveBatch(context.Background(), []BatchItem{
		{URL: "42", Err: ErrInvalidItem},
		{URL: "https://instagram.com/p/A/"},
	})
	require.Len(t, out.Errors, 1)
	assert.Equal(t, domain.ResolutionError{InstagramURL: "42", Error: "url must be a string"}, out.Errors[0])
	require.Len(t, out.Results, 1)
	assert.Equal(t, 1, fr.callCount())
}

func TestVideoService_ResolveBatch_DuplicatesResolvedEachTime(t *testing.T) {
	fr := &fakeResolver{videos: map[string]string{"A": "va"}}
	s := NewVideoService(fr, 1)

	out := s.ResolveBatch(context.Background(), items(
		"https://instagram.com/p/A/",
		"https://instagram.com/p/A/",
		"https://instagram.com/p/A/",
	))
	assert.Equal(t, 3, out.SuccessCount)
	assert.Equal(t, 3, fr.callCount())
}

func TestVideoService_ResolveBatch_SequentialByDefault(t *testing.T) {
	var inflight, peak int32
	fr := &fakeResolver{
		videos: map[string]string{"A": "a", "B": "b", "C": "c"},
		hook: func(string) {
			n := atomic.AddInt32(&inflight, 1)
			for {
				p := atomic.LoadInt32(&peak)
				if n <= p || atomic.CompareAndSwapInt32(&peak, p, n) {
					break
				}
			}
			time.Sleep(5 * time.Millisecond)
			atomic.AddInt32(&inflight, -1)
		},
	}
	s := NewVideoService(fr, 0)

	out := s.ResolveBatch(context.Background(), items(
		"instagram.com/p/A", "instagram.com/p/B", "instagram.com/p/C",
	))
	assert.Equal(t, 3, out.SuccessCount)
	assert.Equal(t, int32(1), atomic.LoadInt32(&peak))
	assert.Equal(t, []string{"A", "B", "C"}, fr.calls)
}

func TestVideoService_ResolveBatch_ConcurrentPreservesOrder(t *testing.T) {
	// Later items finish first.
	delays := map[string]time.Duration{"A": 60 * time.Millisecond, "B": 30 * time.Millisecond, "C": 0, "D": 10 * time.Millisecond}
	fr := &fakeResolver{
		videos:  map[string]string{"A": "va", "C": "vc", "D": "vd"},
		failFor: map[string]error{"B": errors.New("upstream down")},
		delay:   func(code string) time.Duration { return delays[code] },
	}
	s := NewVideoService(fr, 4)

	in := items(
		"instagram.com/p/A", "instagram.com/p/B", "not-instagram",
		"instagram.com/p/C", "instagram.com/p/D",
	)
	concurrent := s.ResolveBatch(context.Background(), in)
	sequential := NewVideoService(fr, 1).ResolveBatch(context.Background(), in)

	assert.Equal(t, sequential, concurrent)

	codes := make([]string, 0, len(concurrent.Results))
	for _, r := range concurrent.Results {
		codes = append(codes, r.Shortcode)
	}
	assert.Equal(t, []string{"A", "C", "D"}, codes)
	require.Len(t, concurrent.Errors, 2)
	assert.Equal(t, "instagram.com/p/B", concurrent.Errors[0].InstagramURL)
	assert.Equal(t, "not-instagram", concurrent.Errors[1].InstagramURL)
}

func TestVideoService_ResolveBatch_PanicIsolatedToItem(t *testing.T) {
	fr := &fakeResolver{
		videos: map[string]string{"A": "va", "C": "vc"},
		hook: func(code string) {
			if code == "B" {
				panic("kaboom")
			}
		},
	}
	s := NewVideoService(fr, 2)

	out := s.ResolveBatch(context.Background(), items(
		"instagram.com/p/A", "instagram.com/p/B", "instagram.com/p/C",
	))
	assert.Equal(t, 2, out.SuccessCount)
	require.Len(t, out.Errors, 1)
	assert.Equal(t, "instagram.com/p/B", out.Errors[0].InstagramURL)
	assert.True(t, strings.Contains(out.Errors[0].Error, "kaboom"))
}

func TestVideoService_ResolveBatch_CancelledContext(t *testing.T) {
	fr := &fakeResolver{videos: map[string]string{"A": "va"}}
	s := NewVideoService(fr, 1)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	out := s.ResolveBatch(ctx, items("instagram.com/p/A", "instagram.com/p/A"))
	assert.Equal(t, 2, out.ErrorCount)
	assert.Equal(t, context.Canceled.Error(), out.Errors[0].Error)
	assert.Zero(t, fr.callCount())
}
