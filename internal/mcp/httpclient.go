package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/claude/ironquest/internal/models"
)

// HTTPClient implements DataSource by calling the IronQuest REST API.
// Used for remote MCP mode where the binary runs locally (stdio) but
// data lives on the remote server (accessed over Tailscale).
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
}

// Compile-time check: HTTPClient satisfies DataSource.
var _ DataSource = (*HTTPClient)(nil)

// NewHTTPClient creates an HTTPClient targeting the given base URL.
func NewHTTPClient(baseURL string) *HTTPClient {
	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *HTTPClient) get(ctx context.Context, path string, params url.Values) ([]byte, error) {
	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("httpclient: create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("httpclient: %s: %w", path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("httpclient: read body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("httpclient: %s returned %d: %s", path, resp.StatusCode, body)
	}

	return body, nil
}

func timeParams(start, end time.Time) url.Values {
	v := url.Values{}
	v.Set("start", start.Format(time.RFC3339))
	v.Set("end", end.Format(time.RFC3339))
	return v
}

func (c *HTTPClient) LatestSnapshot(ctx context.Context, _ int) (*models.WellnessSnapshot, error) {
	body, err := c.get(ctx, "/api/v1/snapshots/latest", nil)
	if err != nil {
		return nil, err
	}

	var resp struct {
		Snapshot *models.WellnessSnapshot `json:"snapshot"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("httpclient: decode snapshot: %w", err)
	}
	return resp.Snapshot, nil
}

func (c *HTTPClient) QueryLog(ctx context.Context, start, end time.Time, _ int) ([]models.ExerciseLogEntry, error) {
	body, err := c.get(ctx, "/api/v1/log", timeParams(start, end))
	if err != nil {
		return nil, err
	}

	var entries []models.ExerciseLogEntry
	if err := json.Unmarshal(body, &entries); err != nil {
		return nil, fmt.Errorf("httpclient: decode log: %w", err)
	}
	return entries, nil
}

func (c *HTTPClient) QueryEvents(ctx context.Context, start, end time.Time, _ int) ([]models.TrainingEvent, error) {
	body, err := c.get(ctx, "/api/v1/events", timeParams(start, end))
	if err != nil {
		return nil, err
	}

	var events []models.TrainingEvent
	if err := json.Unmarshal(body, &events); err != nil {
		return nil, fmt.Errorf("httpclient: decode events: %w", err)
	}
	return events, nil
}

func (c *HTTPClient) CardioMinutesSince(ctx context.Context, _ int, since time.Time) (float64, error) {
	params := url.Values{}
	params.Set("since", since.Format(time.RFC3339))

	body, err := c.get(ctx, "/api/v1/activity/cardio", params)
	if err != nil {
		return 0, err
	}

	var resp struct {
		CardioMinutes float64 `json:"cardio_minutes"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return 0, fmt.Errorf("httpclient: decode cardio minutes: %w", err)
	}
	return resp.CardioMinutes, nil
}

func (c *HTTPClient) ListSkillNodes(ctx context.Context, _ int) ([]models.SkillNode, error) {
	body, err := c.get(ctx, "/api/v1/skills", nil)
	if err != nil {
		return nil, err
	}

	// The skills endpoint wraps nodes with their adjusted costs; the extra
	// fields are ignored here and recomputed locally.
	var resp struct {
		Skills []models.SkillNode `json:"skills"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("httpclient: decode skills: %w", err)
	}
	return resp.Skills, nil
}

func (c *HTTPClient) GetExerciseBest(ctx context.Context, _ int, exerciseID string) (float64, error) {
	params := url.Values{}
	params.Set("exercise_id", exerciseID)
	return c.getBest(ctx, params)
}

func (c *HTTPClient) GetSessionBest(ctx context.Context, _ int, exerciseID string, since time.Time) (float64, error) {
	params := url.Values{}
	params.Set("exercise_id", exerciseID)
	params.Set("since", since.Format(time.RFC3339))
	return c.getBest(ctx, params)
}

func (c *HTTPClient) getBest(ctx context.Context, params url.Values) (float64, error) {
	body, err := c.get(ctx, "/api/v1/log/best", params)
	if err != nil {
		return 0, err
	}

	var resp struct {
		Best float64 `json:"best"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return 0, fmt.Errorf("httpclient: decode best: %w", err)
	}
	return resp.Best, nil
}
