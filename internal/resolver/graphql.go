package resolver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/tidwall/gjson"
)

var _ VideoResolver = (*GraphQLResolver)(nil)

// GraphQLOptions configures GraphQLResolver.
type GraphQLOptions struct {
	Endpoint  string // e.g. https://www.instagram.com/graphql/query/
	QueryHash string // persisted query returning data.shortcode_media
	SessionID string // optional sessionid cookie for posts behind the login wall
	UserAgent string
}

// GraphQLResolver looks posts up through Instagram's web GraphQL endpoint.
type GraphQLResolver struct {
	client *http.Client
	opts   GraphQLOptions
}

// NewGraphQL returns a GraphQLResolver using client for all requests.
func NewGraphQL(client *http.Client, opts GraphQLOptions) *GraphQLResolver {
	if client == nil {
		client = http.DefaultClient
	}
	return &GraphQLResolver{client: client, opts: opts}
}

func (g *GraphQLResolver) String() string {
	return fmt.Sprintf("instagram graphql at %s", g.opts.Endpoint)
}

// Resolve fetches data.shortcode_media for shortcode and returns its
// video_url.
func (g *GraphQLResolver) Resolve(ctx context.Context, shortcode string) (string, error) {
	req, err := g.newRequest(ctx, shortcode)
	if err != nil {
		return "", newError(KindUpstream, shortcode, err)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return "", newError(KindUpstream, shortcode, err)
	}
	defer resp.Body.Close()

	if isLoginWall(resp.Request.URL, req.URL.Host) {
		return "", newError(KindPrivate, shortcode, nil)
	}
	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return "", newError(KindRateLimited, shortcode, nil)
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return "", newError(KindPrivate, shortcode, nil)
	case resp.StatusCode == http.StatusNotFound:
		return "", newError(KindNotFound, shortcode, nil)
	case resp.StatusCode != http.StatusOK:
		return "", newError(KindUpstream, shortcode, fmt.Errorf("unexpected status %s", resp.Status))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return "", newError(KindUpstream, shortcode, fmt.Errorf("reading response body: %w", err))
	}
	return parseShortcodeMedia(shortcode, body)
}

func (g *GraphQLResolver) newRequest(ctx context.Context, shortcode string) (*http.Request, error) {
	u, err := url.Parse(g.opts.Endpoint)
	if err != nil {
		return nil, fmt.Errorf("parsing endpoint: %w", err)
	}
	vars, err := json.Marshal(map[string]string{"shortcode": shortcode})
	if err != nil {
		return nil, err
	}
	q := u.Query()
	q.Set("query_hash", g.opts.QueryHash)
	q.Set("variables", string(vars))
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if g.opts.UserAgent != "" {
		req.Header.Set("User-Agent", g.opts.UserAgent)
	}
	if g.opts.SessionID != "" {
		req.AddCookie(&http.Cookie{Name: "sessionid", Value: g.opts.SessionID})
	}
	return req, nil
}

// parseShortcodeMedia classifies a GraphQL reply body.
func parseShortcodeMedia(shortcode string, body []byte) (string, error) {
	if !gjson.ValidBytes(body) {
		return "", newError(KindUpstream, shortcode, errors.New("malformed response"))
	}
	doc := gjson.ParseBytes(body)

	if doc.Get("require_login").Bool() {
		return "", newError(KindPrivate, shortcode, nil)
	}
	if doc.Get("status").String() == "fail" {
		msg := doc.Get("message").String()
		if strings.Contains(strings.ToLower(msg), "wait") {
			return "", newError(KindRateLimited, shortcode, errors.New(msg))
		}
		return "", newError(KindUpstream, shortcode, errors.New(msg))
	}

	media := doc.Get("data.shortcode_media")
	if !media.Exists() || media.Type == gjson.Null {
		return "", newError(KindNotFound, shortcode, nil)
	}
	if !media.Get("is_video").Bool() && !strings.HasSuffix(media.Get("__typename").String(), "GraphVideo") {
		return "", newError(KindNotVideo, shortcode, nil)
	}
	videoURL := media.Get("video_url").String()
	if videoURL == "" {
		return "", newError(KindUpstream, shortcode, errors.New("video_url missing from response"))
	}
	return videoURL, nil
}
