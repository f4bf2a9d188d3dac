package wellness

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

// TestFetchDaily verifies the daily wellness fetch: authenticated request,
// date parameter, and payload decoding including date-only timestamps.
func TestFetchDaily(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer pk-123" {
			t.Errorf("auth header = %q, want bearer key", got)
		}
		if got := r.URL.Query().Get("date"); got != "2026-08-30" {
			t.Errorf("date param = %q, want 2026-08-30", got)
		}
		w.Write([]byte(`{"taken_at":"2026-08-30","sleep_score":72,"body_battery":61,"hrv_ms":48}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "pk-123")
	payload, err := c.FetchDaily(context.Background(), time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if payload.SleepScore == nil || *payload.SleepScore != 72 {
		t.Errorf("sleep score = %v, want 72", payload.SleepScore)
	}
	if payload.HRVMs == nil || *payload.HRVMs != 48 {
		t.Errorf("hrv = %v, want 48", payload.HRVMs)
	}

	snap := payload.Snapshot()
	if snap.TakenAt.Format("2006-01-02") != "2026-08-30" {
		t.Errorf("taken_at = %v, want 2026-08-30", snap.TakenAt)
	}
}

// TestFetchRetriesServerErrors verifies a 5xx response is retried and the
// fetch succeeds once the provider recovers.
func TestFetchRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte(`{"events":[{"external_id":"e1","start_date":"2026-09-05","name":"Fall 10k","category":"RACE"}]}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "pk-123")
	payload, err := c.FetchEvents(context.Background(), time.Now().AddDate(0, 0, -7), time.Now().AddDate(0, 0, 14))
	if err != nil {
		t.Fatalf("unexpected error after retry: %v", err)
	}
	if calls.Load() != 2 {
		t.Errorf("calls = %d, want 2 (one retry)", calls.Load())
	}
	if len(payload.Events) != 1 || payload.Events[0].Name != "Fall 10k" {
		t.Errorf("events = %+v, want one Fall 10k entry", payload.Events)
	}
}

// TestFetchGivesUpOnClientError verifies 4xx responses fail immediately:
// a bad credential won't improve with retries.
func TestFetchGivesUpOnClientError(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "bad-key")
	if _, err := c.FetchDaily(context.Background(), time.Now()); err == nil {
		t.Fatal("expected error for 401 response")
	}
	if calls.Load() != 1 {
		t.Errorf("calls = %d, want 1 (no retry on 4xx)", calls.Load())
	}
}
