// Package geoapi is the HTTP client for the public commune registry
// (geo.api.gouv.fr, INSEE commune list).
//
// The registry needs no authentication. Requests go through a token bucket
// limiter so the geocoder's per-postcode lookups stay within the fair-use
// quota; the bulk commune fetch is a single request.
package geoapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"
)

const communeFields = "nom,code,codesPostaux,centre,departement"

// Client is the shared HTTP client for registry endpoints.
type Client struct {
	httpClient *http.Client
	baseURL    string
	limiter    *rate.Limiter
	logger     *slog.Logger
}

// NewClient creates a registry client with rate limiting. A zero timeout
// leaves the request bound only by the caller's context.
func NewClient(baseURL string, timeout time.Duration, requestsPerMinute int, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	limit := rate.Inf
	if requestsPerMinute > 0 {
		limit = rate.Limit(float64(requestsPerMinute) / 60.0)
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
		limiter:    rate.NewLimiter(limit, 1),
		logger:     logger,
	}
}

// FetchCommunes retrieves the full national commune list with postcodes,
// centroids and department names.
func (c *Client) FetchCommunes(ctx context.Context) ([]Commune, error) {
	params := url.Values{}
	params.Set("fields", communeFields)
	params.Set("format", "json")
	params.Set("geometry", "centre")

	start := time.Now()
	var communes []Commune
	if err := c.get(ctx, "/communes", params, &communes); err != nil {
		return nil, err
	}
	c.logger.Info("Fetched communes from registry",
		"count", len(communes), "duration", time.Since(start).Round(time.Millisecond))
	return communes, nil
}

// CommunesByPostcode returns the communes served by one postal code.
func (c *Client) CommunesByPostcode(ctx context.Context, postcode string) ([]Commune, error) {
	params := url.Values{}
	params.Set("codePostal", postcode)
	params.Set("fields", communeFields)
	params.Set("format", "json")
	params.Set("geometry", "centre")

	var communes []Commune
	if err := c.get(ctx, "/communes", params, &communes); err != nil {
		return nil, err
	}
	return communes, nil
}

// get performs a rate-limited GET request and decodes the JSON body into out.
func (c *Client) get(ctx context.Context, path string, params url.Values, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}

	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	c.logger.Debug("Registry request", "path", path, "query", params.Encode())
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("http request %s: %w", path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("registry %s returned %d: %s", path, resp.StatusCode, truncate(body, 200))
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// truncate returns a truncated string representation for error messages.
func truncate(b []byte, maxLen int) string {
	if len(b) <= maxLen {
		return string(b)
	}
	return string(b[:maxLen]) + "..."
}
