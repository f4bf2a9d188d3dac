package sync

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/claude/ironquest/internal/wellness"
)

// newMockProvider serves canned provider responses for every fetch the
// syncer makes.
func newMockProvider(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v1/wellness/daily":
			date := r.URL.Query().Get("date")
			w.Write([]byte(`{"taken_at":"` + date + `","sleep_score":80,"body_battery":70}`))
		case "/v1/calendar/events":
			w.Write([]byte(`{"events":[{"external_id":"e1","start_date":"2026-09-12","name":"Club 5k","category":"RACE"}]}`))
		case "/v1/activity/daily":
			w.Write([]byte(`{"days":[{"date":"2026-08-29","cardio_minutes":45,"training_load":80},{"date":"2026-08-30","cardio_minutes":30,"training_load":55}]}`))
		default:
			t.Errorf("unexpected provider path %s", r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}))
}

// TestSyncerRun verifies a full pull-push cycle: three wellness days, the
// event batch, and the activity batch all land with the ingest key set.
func TestSyncerRun(t *testing.T) {
	provider := newMockProvider(t)
	defer provider.Close()

	var wellnessPosts, eventPosts, activityPosts atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("X-API-Key"); got != "ingest-key" {
			t.Errorf("api key = %q, want ingest-key", got)
		}
		switch r.URL.Path {
		case "/api/v1/ingest/wellness":
			wellnessPosts.Add(1)
		case "/api/v1/ingest/events":
			eventPosts.Add(1)
		case "/api/v1/ingest/activity":
			activityPosts.Add(1)
		default:
			t.Errorf("unexpected server path %s", r.URL.Path)
		}
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	state, err := wellness.OpenStateDB(t.TempDir())
	if err != nil {
		t.Fatalf("opening state db: %v", err)
	}
	defer state.Close()

	s := New(
		wellness.NewClient(provider.URL, "provider-key"),
		NewClient(server.URL, "ingest-key"),
		state, 3, false, slog.Default(),
	)

	stats, err := s.Run(context.Background())
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if stats.DaysChecked != 3 || stats.DaysSynced != 3 {
		t.Errorf("days checked/synced = %d/%d, want 3/3", stats.DaysChecked, stats.DaysSynced)
	}
	if wellnessPosts.Load() != 3 {
		t.Errorf("wellness posts = %d, want 3", wellnessPosts.Load())
	}
	if stats.EventsSent != 1 || eventPosts.Load() != 1 {
		t.Errorf("events sent = %d (posts %d), want 1", stats.EventsSent, eventPosts.Load())
	}
	if stats.ActivityDaysSent != 2 || activityPosts.Load() != 1 {
		t.Errorf("activity days = %d (posts %d), want 2 days in 1 post", stats.ActivityDaysSent, activityPosts.Load())
	}

	// Second run: completed days are skipped, today is re-synced because its
	// reading keeps changing until midnight.
	stats, err = s.Run(context.Background())
	if err != nil {
		t.Fatalf("second run failed: %v", err)
	}
	if stats.DaysSkipped != 2 {
		t.Errorf("days skipped = %d, want 2", stats.DaysSkipped)
	}
	if stats.DaysSynced != 1 {
		t.Errorf("days synced = %d, want 1 (today only)", stats.DaysSynced)
	}
}

// TestSyncerDryRun verifies nothing is pushed or marked synced in dry-run
// mode.
func TestSyncerDryRun(t *testing.T) {
	provider := newMockProvider(t)
	defer provider.Close()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("dry run must not hit the server: %s", r.URL.Path)
	}))
	defer server.Close()

	state, err := wellness.OpenStateDB(t.TempDir())
	if err != nil {
		t.Fatalf("opening state db: %v", err)
	}
	defer state.Close()

	s := New(
		wellness.NewClient(provider.URL, "provider-key"),
		NewClient(server.URL, "ingest-key"),
		state, 2, true, slog.Default(),
	)

	stats, err := s.Run(context.Background())
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if stats.DaysSynced != 0 {
		t.Errorf("days synced = %d, want 0 in dry run", stats.DaysSynced)
	}
}
