package resolver

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/tidwall/match"
)

// maxResponseBytes caps how much of an upstream body is read.
const maxResponseBytes = 4 << 20

// loginWallPaths are the pages Instagram redirects anonymous or throttled
// clients to instead of serving media metadata. They are glob patterns
// matched against host+path.
var loginWallPaths = []string{
	"/accounts/login*",
	"/challenge*",
	"/privacy/checks*",
}

// instagramHost is always checked, in addition to the configured endpoint's
// host, since a proxy may hand the redirect through unchanged.
const instagramHost = "instagram.com"

// isLoginWall reports whether u points at one of the login walls, either on
// instagram.com or on endpointHost (the host of the configured endpoint).
func isLoginWall(u *url.URL, endpointHost string) bool {
	if u == nil {
		return false
	}
	s := normalizeHost(u.Host) + u.Path
	hosts := []string{instagramHost}
	if h := normalizeHost(endpointHost); h != "" && h != instagramHost {
		hosts = append(hosts, h)
	}
	for _, h := range hosts {
		for _, p := range loginWallPaths {
			if match.Match(s, h+p) {
				return true
			}
		}
	}
	return false
}

func normalizeHost(h string) string {
	return strings.TrimPrefix(strings.ToLower(h), "www.")
}

// jsonRequest sends body as JSON and decodes a 2xx reply into V or a non-2xx
// reply into E. headers are key/value pairs; pairs with an empty value are
// skipped. The returned response has its body already drained and closed.
func jsonRequest[V any, E error](ctx context.Context, client *http.Client, method, endpoint string, body any, headers ...string) (*http.Response, *V, error) {
	var reqBody io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return nil, nil, fmt.Errorf("marshaling request body: %w", err)
		}
		reqBody = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reqBody)
	if err != nil {
		return nil, nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		if headers[i+1] != "" {
			req.Header.Set(headers[i], headers[i+1])
		}
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("sending http request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return resp, nil, fmt.Errorf("reading response body: %s: %w", resp.Status, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var errorJSON E
		if err := json.Unmarshal(respBody, &errorJSON); err != nil {
			return resp, nil, fmt.Errorf("unexpected status %s", resp.Status)
		}
		return resp, nil, errorJSON
	}

	var value V
	if err := json.Unmarshal(respBody, &value); err != nil {
		return resp, nil, fmt.Errorf("parsing response: %s: %w", resp.Status, err)
	}
	return resp, &value, nil
}
