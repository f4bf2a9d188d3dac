package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// TestHandlePlates verifies the plate-math endpoint rounds to the increment
// and decomposes the remainder into per-side plates.
func TestHandlePlates(t *testing.T) {
	s := &Server{}
	req := httptest.NewRequest(http.MethodGet, "/api/v1/plates?target=101", nil)
	rec := httptest.NewRecorder()

	s.handlePlates(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var resp struct {
		Rounded float64   `json:"rounded"`
		Plates  []float64 `json:"plates"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if resp.Rounded != 100 {
		t.Errorf("rounded = %v, want 100", resp.Rounded)
	}
	// (100 - 20) / 2 = 40 per side: 25 + 15.
	want := []float64{25, 15}
	if len(resp.Plates) != len(want) {
		t.Fatalf("plates = %v, want %v", resp.Plates, want)
	}
	for i := range want {
		if resp.Plates[i] != want[i] {
			t.Errorf("plates[%d] = %v, want %v", i, resp.Plates[i], want[i])
		}
	}
}

// TestHandlePlatesMissingTarget verifies a missing or non-positive target is
// rejected.
func TestHandlePlatesMissingTarget(t *testing.T) {
	s := &Server{}
	req := httptest.NewRequest(http.MethodGet, "/api/v1/plates", nil)
	rec := httptest.NewRecorder()

	s.handlePlates(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

// TestHandleClassifyPercentFallback verifies the history-free percent path:
// no database lookup, tier keyed only on the fraction of training max.
func TestHandleClassifyPercentFallback(t *testing.T) {
	s := &Server{}
	body := strings.NewReader(`{"weight_pct":0.9}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/classify", body)
	rec := httptest.NewRecorder()

	s.handleClassify(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var resp struct {
		Rarity string `json:"rarity"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if resp.Rarity != "rare" {
		t.Errorf("rarity = %q, want %q", resp.Rarity, "rare")
	}
}

// TestHandleRegulate verifies a percent-loaded session comes back capped with
// the fatigue markers applied.
func TestHandleRegulate(t *testing.T) {
	s := &Server{}
	body := strings.NewReader(`{
		"id": "tpl-1",
		"display_name": "Heavy Day",
		"blocks": [{
			"kind": "station",
			"name": "Main",
			"exercises": [{
				"exercise_id": "back_squat",
				"name": "Back Squat",
				"sets": [
					{"target_reps": 5, "weight_pct": 0.85},
					{"target_reps": 5, "weight_pct": 0.85},
					{"target_reps": 5, "weight_pct": 0.85},
					{"target_reps": 5, "weight_pct": 0.85}
				]
			}]
		}]
	}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/regulate", body)
	rec := httptest.NewRecorder()

	s.handleRegulate(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		DisplayName string `json:"display_name"`
		Blocks      []struct {
			Exercises []struct {
				Name string `json:"name"`
				Sets []struct {
					WeightPct float64 `json:"weight_pct"`
				} `json:"sets"`
			} `json:"exercises"`
		} `json:"blocks"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if !strings.HasSuffix(resp.DisplayName, " (volume capped)") {
		t.Errorf("display_name = %q, want volume-capped suffix", resp.DisplayName)
	}
	if !strings.HasPrefix(resp.Blocks[0].Exercises[0].Name, "Fatigued: ") {
		t.Errorf("exercise name = %q, want Fatigued prefix", resp.Blocks[0].Exercises[0].Name)
	}
	sets := resp.Blocks[0].Exercises[0].Sets
	if len(sets) != 3 {
		t.Errorf("sets = %d, want capped at 3", len(sets))
	}
	for i, set := range sets {
		if set.WeightPct > 0.6 {
			t.Errorf("set %d weight_pct = %v, want <= 0.6", i, set.WeightPct)
		}
	}
}

// TestHandleRegulateEmptySession verifies an empty template is a client
// error, not a server one.
func TestHandleRegulateEmptySession(t *testing.T) {
	s := &Server{}
	body := strings.NewReader(`{"id":"tpl-empty","display_name":"Empty","blocks":[]}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/regulate", body)
	rec := httptest.NewRecorder()

	s.handleRegulate(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}
