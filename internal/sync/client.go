// Package sync pulls wellness, calendar, and activity data from the metrics
// provider and pushes it to the IronQuest server's ingest API. It keeps local
// SQLite state so re-runs skip days that already landed.
package sync

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/claude/ironquest/internal/models"
)

// Client sends payloads to the IronQuest server over HTTP.
type Client struct {
	serverURL  string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates a push client for the given server. apiKey is the ingest
// key (X-API-Key), not the provider credential.
func NewClient(serverURL, apiKey string) *Client {
	return &Client{
		serverURL: serverURL,
		apiKey:    apiKey,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

// SendWellness POSTs one daily wellness reading to the ingest endpoint.
func (c *Client) SendWellness(payload models.WellnessPayload) error {
	return c.postJSON("/api/v1/ingest/wellness", payload)
}

// SendEvents POSTs a batch of calendar events to the ingest endpoint.
func (c *Client) SendEvents(payload models.EventsPayload) error {
	return c.postJSON("/api/v1/ingest/events", payload)
}

// SendActivity POSTs a batch of daily activity summaries.
func (c *Client) SendActivity(payload models.ActivityPayload) error {
	return c.postJSON("/api/v1/ingest/activity", payload)
}

// postJSON sends v to the server with up to 3 attempts and exponential
// backoff.
func (c *Client) postJSON(path string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshaling payload: %w", err)
	}

	var lastErr error
	for attempt := range 3 {
		if attempt > 0 {
			time.Sleep(time.Duration(1<<uint(attempt-1)) * time.Second)
		}

		req, err := http.NewRequest(http.MethodPost, c.serverURL+path, bytes.NewReader(data))
		if err != nil {
			return fmt.Errorf("creating request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-API-Key", c.apiKey)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = err
			continue
		}

		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()

		if resp.StatusCode == http.StatusOK {
			return nil
		}
		lastErr = fmt.Errorf("%s failed (status %d): %s", path, resp.StatusCode, body)
		// Auth failures won't improve on retry.
		if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
			return lastErr
		}
	}

	return fmt.Errorf("after 3 attempts: %w", lastErr)
}
