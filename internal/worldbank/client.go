// Package worldbank implements the client for the statistical API: indicator
// catalog resolution, paged series retrieval and record flattening.
package worldbank

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"connstat/internal/logger"
)

// ErrUnexpectedStatusCode indicates an HTTP response with unexpected status.
var ErrUnexpectedStatusCode = errors.New("unexpected status code")

// Client queries the series API. All network failures degrade per the
// pipeline's partial-result policy instead of propagating.
type Client struct {
	httpClient        *http.Client
	baseURL           string
	fallbackIndicator string
	perPage           int
	log               *logger.Logger
}

// NewClient creates an API client.
func NewClient(baseURL, fallbackIndicator string, perPage int, timeout time.Duration, log *logger.Logger) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL:           strings.TrimRight(baseURL, "/"),
		fallbackIndicator: fallbackIndicator,
		perPage:           perPage,
		log:               log,
	}
}

// Indicator is one entry of the indicator catalog.
type Indicator struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// ResolveIndicator queries the indicator catalog for a series whose name
// mentions households with fixed-line or mobile access, and returns the first
// match. Catalog failures and empty matches fall back to the configured
// known indicator rather than returning an error.
func (c *Client) ResolveIndicator(ctx context.Context) string {
	url := fmt.Sprintf("%s/indicator?format=json&per_page=%d", c.baseURL, c.perPage)

	entries, err := c.fetchPage(ctx, url)
	if err != nil {
		c.log.Warn("indicator catalog request failed, using fallback",
			"fallback", c.fallbackIndicator, "error", err)

		return c.fallbackIndicator
	}

	for _, raw := range entries {
		var indicator Indicator
		if err := json.Unmarshal(raw, &indicator); err != nil {
			continue
		}

		name := strings.ToLower(indicator.Name)
		if strings.Contains(name, "household") &&
			(strings.Contains(name, "fixed") || strings.Contains(name, "mobile")) {
			c.log.Info("resolved indicator", "id", indicator.ID, "name", indicator.Name)

			return indicator.ID
		}
	}

	c.log.Warn("no indicator matched the catalog search, using fallback",
		"fallback", c.fallbackIndicator)

	return c.fallbackIndicator
}

// FetchSeries retrieves every page of the series for the given indicator and
// year range. Pagination stops on an empty payload or a page shorter than
// per_page. A request failure mid-pagination keeps whatever was accumulated;
// there is no retry. Records are returned raw so that a malformed one can be
// skipped individually during flattening.
func (c *Client) FetchSeries(ctx context.Context, indicatorID string, startYear, endYear int) []json.RawMessage {
	var all []json.RawMessage

	for page := 1; ; page++ {
		url := fmt.Sprintf("%s/countries/all/indicators/%s?format=json&date=%d:%d&per_page=%d&page=%d",
			c.baseURL, indicatorID, startYear, endYear, c.perPage, page)

		records, err := c.fetchPage(ctx, url)
		if err != nil {
			c.log.Warn("series request failed, keeping partial results",
				"page", page, "records", len(all), "error", err)

			break
		}

		if len(records) == 0 {
			c.log.Debug("no more data to fetch", "page", page)

			break
		}

		all = append(all, records...)
		c.log.Info("fetched page", "page", page, "records", len(records), "total", len(all))

		if len(records) < c.perPage {
			break
		}
	}

	return all
}

// fetchPage performs one GET and unpacks the two-element [metadata, records]
// response array. A missing or null records element yields an empty page.
func (c *Client) fetchPage(ctx context.Context, url string) ([]json.RawMessage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %d", ErrUnexpectedStatusCode, resp.StatusCode)
	}

	var envelope []json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	if len(envelope) < 2 {
		return nil, nil
	}

	var records []json.RawMessage
	if err := json.Unmarshal(envelope[1], &records); err != nil {
		return nil, fmt.Errorf("failed to decode records: %w", err)
	}

	return records, nil
}
