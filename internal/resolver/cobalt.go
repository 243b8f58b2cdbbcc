package resolver

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var _ VideoResolver = (*CobaltResolver)(nil)

// CobaltResolver delegates resolution to a cobalt API instance.
type CobaltResolver struct {
	client   *http.Client
	Endpoint string
	APIKey   string
}

// NewCobalt returns a CobaltResolver posting to endpoint.
func NewCobalt(client *http.Client, endpoint, apiKey string) *CobaltResolver {
	if client == nil {
		client = http.DefaultClient
	}
	return &CobaltResolver{client: client, Endpoint: endpoint, APIKey: apiKey}
}

func (c *CobaltResolver) String() string {
	return fmt.Sprintf("cobalt at %s", c.Endpoint)
}

type cobaltRequest struct {
	URL string `json:"url"`
}

type cobaltError struct {
	Status string `json:"status"`
	Err    struct {
		Code string `json:"code"`
	} `json:"error"`
}

func (ce cobaltError) Error() string {
	return "cobalt error: " + ce.Err.Code
}

type cobaltResponse struct {
	Status string         `json:"status"` // tunnel / redirect / picker / local-processing / error
	URL    string         `json:"url"`
	Picker []cobaltPicker `json:"picker"`
	Error  struct {
		Code string `json:"code"`
	} `json:"error"`
}

type cobaltPicker struct {
	Type string `json:"type"` // photo / video / gif
	URL  string `json:"url"`
}

// PostURL is the canonical Instagram URL for shortcode.
func PostURL(shortcode string) string {
	return "https://www.instagram.com/p/" + shortcode + "/"
}

// Resolve asks cobalt for the media behind shortcode's post URL.
func (c *CobaltResolver) Resolve(ctx context.Context, shortcode string) (string, error) {
	var headers []string
	if c.APIKey != "" {
		headers = []string{"Authorization", "Api-Key " + c.APIKey}
	}

	resp, value, err := jsonRequest[cobaltResponse, cobaltError](ctx, c.client, http.MethodPost, c.Endpoint, cobaltRequest{URL: PostURL(shortcode)}, headers...)
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusTooManyRequests {
			return "", newError(KindRateLimited, shortcode, err)
		}
		var ce cobaltError
		if errors.As(err, &ce) {
			return "", newError(kindFromCobaltCode(ce.Err.Code), shortcode, ce)
		}
		return "", newError(KindUpstream, shortcode, err)
	}

	switch value.Status {
	case "redirect", "tunnel":
		if value.URL == "" {
			return "", newError(KindUpstream, shortcode, errors.New("cobalt returned an empty url"))
		}
		return value.URL, nil
	case "picker":
		for _, p := range value.Picker {
			if p.Type == "video" && p.URL != "" {
				return p.URL, nil
			}
		}
		return "", newError(KindNotVideo, shortcode, nil)
	case "error":
		ce := cobaltError{Status: value.Status}
		ce.Err.Code = value.Error.Code
		return "", newError(kindFromCobaltCode(ce.Err.Code), shortcode, ce)
	default:
		return "", newError(KindUpstream, shortcode, fmt.Errorf("unexpected cobalt response type: %s", value.Status))
	}
}

// kindFromCobaltCode maps cobalt error codes such as
// "error.api.content.post.private" onto Kind.
func kindFromCobaltCode(code string) Kind {
	switch {
	case strings.Contains(code, "rate_exceeded"):
		return KindRateLimited
	case strings.Contains(code, "private"), strings.Contains(code, ".age"):
		return KindPrivate
	case strings.Contains(code, "unavailable"), strings.Contains(code, "not_found"):
		return KindNotFound
	case strings.Contains(code, "fetch.empty"):
		return KindNotVideo
	default:
		return KindUpstream
	}
}
