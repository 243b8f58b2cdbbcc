package resolver

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCobaltServer(t *testing.T, apiKey string, h http.HandlerFunc) *CobaltResolver {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewCobalt(srv.Client(), srv.URL+"/", apiKey)
}

func TestCobalt_Resolve_SendsExpectedRequest(t *testing.T) {
	c := newCobaltServer(t, "secret", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		assert.Equal(t, "Api-Key secret", r.Header.Get("Authorization"))

		var body cobaltRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "https://www.instagram.com/p/ABC123/", body.URL)

		_, _ = w.Write([]byte(`{"status":"redirect","url":"https://video.example/x.mp4"}`))
	})

	got, err := c.Resolve(context.Background(), "ABC123")
	require.NoError(t, err)
	assert.Equal(t, "https://video.example/x.mp4", got)
}

func TestCobalt_Resolve_NoAPIKeyOmitsAuthorization(t *testing.T) {
	c := newCobaltServer(t, "", func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"status":"tunnel","url":"https://cobalt.example/tunnel?id=1"}`))
	})

	got, err := c.Resolve(context.Background(), "X")
	require.NoError(t, err)
	assert.Equal(t, "https://cobalt.example/tunnel?id=1", got)
}

func TestCobalt_Resolve_Picker(t *testing.T) {
	c := newCobaltServer(t, "", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":"picker","picker":[{"type":"photo","url":"p1"},{"type":"video","url":"v1"},{"type":"video","url":"v2"}]}`))
	})
	got, err := c.Resolve(context.Background(), "X")
	require.NoError(t, err)
	assert.Equal(t, "v1", got)
}

func TestCobalt_Resolve_Classification(t *testing.T) {
	cases := []struct {
		name   string
		status int
		body   string
		want   Kind
	}{
		{"picker without video", 200, `{"status":"picker","picker":[{"type":"photo","url":"p1"}]}`, KindNotVideo},
		{"redirect without url", 200, `{"status":"redirect"}`, KindUpstream},
		{"local processing", 200, `{"status":"local-processing"}`, KindUpstream},
		{"error status in 200", 200, `{"status":"error","error":{"code":"error.api.content.post.private"}}`, KindPrivate},
		{"error unavailable", 400, `{"status":"error","error":{"code":"error.api.content.post.unavailable"}}`, KindNotFound},
		{"error age", 400, `{"status":"error","error":{"code":"error.api.content.post.age"}}`, KindPrivate},
		{"error empty", 400, `{"status":"error","error":{"code":"error.api.fetch.empty"}}`, KindNotVideo},
		{"error rate", 429, `{"status":"error","error":{"code":"error.api.rate_exceeded"}}`, KindRateLimited},
		{"error unknown", 400, `{"status":"error","error":{"code":"error.api.fetch.critical"}}`, KindUpstream},
		{"non json error", 502, `bad gateway`, KindUpstream},
		{"non json ok", 200, `ok`, KindUpstream},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := newCobaltServer(t, "", func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			})
			got, err := c.Resolve(context.Background(), "SC")
			require.Error(t, err)
			assert.Empty(t, got)
			assert.Equal(t, tc.want, KindOf(err))
		})
	}
}

func TestCobalt_ErrorCarriesCode(t *testing.T) {
	c := newCobaltServer(t, "", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"status":"error","error":{"code":"error.api.content.post.private"}}`))
	})
	_, err := c.Resolve(context.Background(), "SC")
	require.Error(t, err)
	assert.Equal(t, "post SC requires login: cobalt error: error.api.content.post.private", err.Error())
}

func TestKindFromCobaltCode(t *testing.T) {
	assert.Equal(t, KindRateLimited, kindFromCobaltCode("error.api.rate_exceeded"))
	assert.Equal(t, KindPrivate, kindFromCobaltCode("error.api.content.post.private"))
	assert.Equal(t, KindNotFound, kindFromCobaltCode("error.api.content.post.unavailable"))
	assert.Equal(t, KindNotVideo, kindFromCobaltCode("error.api.fetch.empty"))
	assert.Equal(t, KindUpstream, kindFromCobaltCode(""))
}

func TestPostURL_And_String(t *testing.T) {
	assert.Equal(t, "https://www.instagram.com/p/abc/", PostURL("abc"))
	assert.Equal(t, "cobalt at http://c", NewCobalt(nil, "http://c", "").String())
}
