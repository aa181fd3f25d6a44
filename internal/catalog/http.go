package catalog

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/louisbranch/whoisit/internal/errors"
)

const defaultFetchTimeout = 15 * time.Second

// HTTPClient fetches catalog content from a static file host.
//
// Layout: <base>/manifest.json and <base>/<locale>/<slug>.json.
type HTTPClient struct {
	baseURL string
	client  *http.Client
}

// NewHTTPClient creates a catalog client for the given base URL.
// A nil client uses a default with a request timeout.
func NewHTTPClient(baseURL string, client *http.Client) (*HTTPClient, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, fmt.Errorf("catalog base url is required")
	}
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("parse catalog base url: %w", err)
	}
	if client == nil {
		client = &http.Client{Timeout: defaultFetchTimeout}
	}
	return &HTTPClient{baseURL: baseURL, client: client}, nil
}

// FetchManifest downloads and decodes the catalog manifest.
func (c *HTTPClient) FetchManifest(ctx context.Context) (Manifest, error) {
	endpoint := c.baseURL + "/manifest.json"
	payload, err := c.fetch(ctx, endpoint, errors.CodeManifestFetchFailed)
	if err != nil {
		return Manifest{}, err
	}
	return DecodeManifest(payload)
}

// FetchProfilesByCategory downloads and decodes one category data file.
func (c *HTTPClient) FetchProfilesByCategory(ctx context.Context, locale, slug string) (ProfilesData, error) {
	endpoint := fmt.Sprintf("%s/%s/%s.json", c.baseURL, url.PathEscape(locale), url.PathEscape(slug))
	payload, err := c.fetch(ctx, endpoint, errors.CodeProfilesFetchFailed)
	if err != nil {
		var e *errors.Error
		if stderrors.As(err, &e) && e.Metadata != nil {
			e.Metadata["Category"] = slug
		}
		return ProfilesData{}, err
	}
	return DecodeProfiles(payload, slug)
}

func (c *HTTPClient) fetch(ctx context.Context, endpoint string, code errors.Code) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, errors.Wrap(code, fmt.Sprintf("build request for %s", endpoint), err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, &errors.Error{
			Code:     code,
			Message:  fmt.Sprintf("fetch %s", endpoint),
			Metadata: map[string]string{"Endpoint": endpoint},
			Cause:    err,
		}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &errors.Error{
			Code:    code,
			Message: fmt.Sprintf("fetch %s: unexpected status %d", endpoint, resp.StatusCode),
			Metadata: map[string]string{
				"Endpoint": endpoint,
				"Status":   strconv.Itoa(resp.StatusCode),
			},
		}
	}

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &errors.Error{
			Code:     code,
			Message:  fmt.Sprintf("read %s", endpoint),
			Metadata: map[string]string{"Endpoint": endpoint},
			Cause:    err,
		}
	}
	return payload, nil
}
