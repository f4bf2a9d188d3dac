package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// ProviderTime handles the metrics provider's date formats: full RFC 3339
// timestamps for wellness readings and date-only strings for calendar events
// and daily activity summaries.
type ProviderTime struct {
	time.Time
}

const providerDateOnlyLayout = "2006-01-02"

func (t *ProviderTime) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	return t.Parse(s)
}

func (t ProviderTime) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.Format(time.RFC3339))
}

// Parse parses a provider time string, trying RFC 3339 first, then date-only.
func (t *ProviderTime) Parse(s string) error {
	parsed, err := time.Parse(time.RFC3339, s)
	if err == nil {
		t.Time = parsed
		return nil
	}
	parsed, err2 := time.Parse(providerDateOnlyLayout, s)
	if err2 == nil {
		t.Time = parsed
		return nil
	}
	return fmt.Errorf("cannot parse provider time %q: %w", s, err)
}

// WellnessPayload is the ingest body for a daily wellness reading.
type WellnessPayload struct {
	TakenAt     ProviderTime `json:"taken_at"`
	SleepScore  *float64     `json:"sleep_score,omitempty"`
	BodyBattery *float64     `json:"body_battery,omitempty"`
	HRVMs       *float64     `json:"hrv_ms,omitempty"`
	RestingHR   *float64     `json:"resting_hr,omitempty"`
	VO2Max      *float64     `json:"vo2max,omitempty"`
	CTL         *float64     `json:"ctl,omitempty"`
	ATL         *float64     `json:"atl,omitempty"`
	TSB         *float64     `json:"tsb,omitempty"`
}

// Snapshot converts the payload into the domain snapshot type.
func (p WellnessPayload) Snapshot() WellnessSnapshot {
	return WellnessSnapshot{
		TakenAt:     p.TakenAt.Time,
		SleepScore:  p.SleepScore,
		BodyBattery: p.BodyBattery,
		HRVMs:       p.HRVMs,
		RestingHR:   p.RestingHR,
		VO2Max:      p.VO2Max,
		CTL:         p.CTL,
		ATL:         p.ATL,
		TSB:         p.TSB,
	}
}

// EventPayload is one calendar entry in an events ingest body.
type EventPayload struct {
	ExternalID string       `json:"external_id"`
	StartDate  ProviderTime `json:"start_date"`
	Name       string       `json:"name"`
	Category   string       `json:"category"`
	Type       string       `json:"type,omitempty"`
}

// EventsPayload is the ingest body for a batch of calendar events.
type EventsPayload struct {
	Events []EventPayload `json:"events"`
}

// ActivityPayload is the ingest body for a batch of daily activity summaries.
type ActivityPayload struct {
	Days []ActivityDayPayload `json:"days"`
}

// ActivityDayPayload is one day's cardio volume from the provider.
type ActivityDayPayload struct {
	Date          ProviderTime `json:"date"`
	CardioMinutes float64      `json:"cardio_minutes"`
	TrainingLoad  float64      `json:"training_load"`
}
