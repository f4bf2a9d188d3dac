// Package wellness talks to the remote fitness-metrics provider and supplies
// the offline fallback used when the provider is unreachable. The engine
// itself never fetches anything; this package feeds the callers that do.
package wellness

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/claude/ironquest/internal/models"
)

// Client fetches wellness, calendar, and activity data from the provider's
// REST API.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates a provider client for the given base URL.
func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

// FetchDaily retrieves the wellness reading for one day.
func (c *Client) FetchDaily(ctx context.Context, day time.Time) (*models.WellnessPayload, error) {
	params := url.Values{}
	params.Set("date", day.Format("2006-01-02"))

	var payload models.WellnessPayload
	if err := c.getJSON(ctx, "/v1/wellness/daily", params, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// FetchEvents retrieves calendar entries in a date range.
func (c *Client) FetchEvents(ctx context.Context, start, end time.Time) (*models.EventsPayload, error) {
	params := url.Values{}
	params.Set("start", start.Format("2006-01-02"))
	params.Set("end", end.Format("2006-01-02"))

	var payload models.EventsPayload
	if err := c.getJSON(ctx, "/v1/calendar/events", params, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// FetchActivity retrieves daily activity summaries in a date range.
func (c *Client) FetchActivity(ctx context.Context, start, end time.Time) (*models.ActivityPayload, error) {
	params := url.Values{}
	params.Set("start", start.Format("2006-01-02"))
	params.Set("end", end.Format("2006-01-02"))

	var payload models.ActivityPayload
	if err := c.getJSON(ctx, "/v1/activity/daily", params, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// getJSON performs an authenticated GET with up to 3 attempts and exponential
// backoff, decoding the body into out.
func (c *Client) getJSON(ctx context.Context, path string, params url.Values, out any) error {
	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	var lastErr error
	for attempt := range 3 {
		if attempt > 0 {
			select {
			case <-time.After(time.Duration(1<<uint(attempt-1)) * time.Second):
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
		if err != nil {
			return fmt.Errorf("creating request: %w", err)
		}
		req.Header.Set("Authorization", "Bearer "+c.apiKey)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = err
			continue
		}

		body, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()
		if readErr != nil {
			lastErr = readErr
			continue
		}

		if resp.StatusCode != http.StatusOK {
			lastErr = fmt.Errorf("%s returned %d: %s", path, resp.StatusCode, body)
			// Client errors won't improve on retry.
			if resp.StatusCode >= 400 && resp.StatusCode < 500 {
				return lastErr
			}
			continue
		}

		if err := json.Unmarshal(body, out); err != nil {
			return fmt.Errorf("decoding %s: %w", path, err)
		}
		return nil
	}

	return fmt.Errorf("after 3 attempts: %w", lastErr)
}
