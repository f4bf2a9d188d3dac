package server

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/claude/ironquest/internal/engine"
	"github.com/claude/ironquest/internal/models"
	"github.com/claude/ironquest/internal/wellness"
	"github.com/go-chi/chi/v5"
)

// historyWindowDays bounds how much exercise-log history a recommendation
// cycle loads; the balance indices only look back two 14-day windows.
const historyWindowDays = 28

func (s *Server) handleWellnessIngest(w http.ResponseWriter, r *http.Request) {
	var payload models.WellnessPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}

	result, err := s.ingest.IngestWellness(r.Context(), &payload, defaultUserID)
	if err != nil {
		s.log.Error("wellness ingest error", "error", err)
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleEventsIngest(w http.ResponseWriter, r *http.Request) {
	var payload models.EventsPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}

	result, err := s.ingest.IngestEvents(r.Context(), &payload, defaultUserID)
	if err != nil {
		s.log.Error("events ingest error", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleActivityIngest(w http.ResponseWriter, r *http.Request) {
	var payload models.ActivityPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}

	result, err := s.ingest.IngestActivity(r.Context(), &payload, defaultUserID)
	if err != nil {
		s.log.Error("activity ingest error", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// cycleInput loads everything one engine evaluation needs: the freshest
// snapshot (or the simulated fallback), recent log history, the event
// horizon, and rolling cardio volume.
func (s *Server) cycleInput(ctx context.Context, now time.Time) (engine.OracleInput, bool, error) {
	stored, err := s.db.LatestSnapshot(ctx, defaultUserID)
	if err != nil {
		return engine.OracleInput{}, false, err
	}
	snapshot, simulated := wellness.SnapshotOrFallback(stored, now)
	if simulated {
		s.log.Warn("no recent wellness snapshot, using simulated fallback")
	}

	history, err := s.db.QueryLog(ctx, now.AddDate(0, 0, -historyWindowDays), now, defaultUserID)
	if err != nil {
		return engine.OracleInput{}, false, err
	}

	// Horizon: just-finished races up to 2 days back, upcoming up to 7 ahead.
	events, err := s.db.QueryEvents(ctx, now.AddDate(0, 0, -3), now.AddDate(0, 0, 8), defaultUserID)
	if err != nil {
		return engine.OracleInput{}, false, err
	}

	cardio, err := s.db.CardioMinutesSince(ctx, defaultUserID, now.AddDate(0, 0, -7))
	if err != nil {
		return engine.OracleInput{}, false, err
	}

	return engine.OracleInput{
		Now:                  now,
		Snapshot:             snapshot,
		History:              history,
		Events:               events,
		CardioMinutes7d:      cardio,
		StrengthSessionID:    strengthTemplateID,
		MaintenanceSessionID: maintenanceTemplateID,
	}, simulated, nil
}

func (s *Server) handleRecommendation(w http.ResponseWriter, r *http.Request) {
	in, simulated, err := s.cycleInput(r.Context(), time.Now())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"recommendation": engine.Recommend(in),
		"readiness":      engine.EvaluateReadiness(in.Snapshot),
		"balance": engine.ComputeTTB(engine.TTBInput{
			Now:             in.Now,
			Snapshot:        in.Snapshot,
			History:         in.History,
			CardioMinutes7d: in.CardioMinutes7d,
		}),
		"snapshot_simulated": simulated,
	})
}

func (s *Server) handleReadiness(w http.ResponseWriter, r *http.Request) {
	now := time.Now()
	stored, err := s.db.LatestSnapshot(r.Context(), defaultUserID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	snapshot, simulated := wellness.SnapshotOrFallback(stored, now)

	threshold := s.engine.FatigueThreshold
	if r.URL.Query().Get("tolerant") == "true" {
		threshold = s.engine.TolerantFatigueThreshold
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"readiness":               engine.EvaluateReadiness(snapshot),
		"pre_workout_compromised": engine.PreWorkoutCompromised(snapshot, threshold),
		"fatigue_threshold":       threshold,
		"snapshot_simulated":      simulated,
	})
}

func (s *Server) handleBalance(w http.ResponseWriter, r *http.Request) {
	in, simulated, err := s.cycleInput(r.Context(), time.Now())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"balance": engine.ComputeTTB(engine.TTBInput{
			Now:             in.Now,
			Snapshot:        in.Snapshot,
			History:         in.History,
			CardioMinutes7d: in.CardioMinutes7d,
		}),
		"snapshot_simulated": simulated,
	})
}

type classifyRequest struct {
	ExerciseID string   `json:"exercise_id"`
	Weight     float64  `json:"weight"`
	Reps       int      `json:"reps"`
	RPE        float64  `json:"rpe"`
	TargetRPE  float64  `json:"target_rpe"`
	WeightPct  *float64 `json:"weight_pct,omitempty"`
}

func (s *Server) handleClassify(w http.ResponseWriter, r *http.Request) {
	var req classifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}

	// Percent-only fallback: no absolute load to grade against history.
	if req.Weight <= 0 && req.WeightPct != nil {
		writeJSON(w, http.StatusOK, map[string]any{
			"rarity": engine.ClassifyByPercent(req.WeightPct),
		})
		return
	}

	result := engine.SetResult{
		Weight:    req.Weight,
		Reps:      req.Reps,
		RPE:       req.RPE,
		TargetRPE: req.TargetRPE,
	}

	if req.ExerciseID != "" {
		best, err := s.db.GetExerciseBest(r.Context(), defaultUserID, req.ExerciseID)
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
			return
		}
		result.GlobalBest = best

		sessionBest, err := s.db.GetSessionBest(r.Context(), defaultUserID, req.ExerciseID, startOfDay(time.Now()))
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
			return
		}
		result.SessionBest = sessionBest
	}

	rarity := engine.ClassifySet(result)
	writeJSON(w, http.StatusOK, map[string]any{
		"rarity":        rarity,
		"estimated_1rm": engine.Estimated1RM(req.Weight, req.Reps, req.RPE),
		"notable":       rarity == engine.RarityEpic || rarity == engine.RarityLegendary,
	})
}

func (s *Server) handlePlates(w http.ResponseWriter, r *http.Request) {
	target, err := strconv.ParseFloat(r.URL.Query().Get("target"), 64)
	if err != nil || target <= 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "target parameter required (positive kg)"})
		return
	}

	bar := engine.DefaultBarWeightKg
	if v := r.URL.Query().Get("bar"); v != "" {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil && parsed > 0 {
			bar = parsed
		}
	}

	increment := engine.DefaultIncrementKg
	if v := r.URL.Query().Get("increment"); v != "" {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil && parsed > 0 {
			increment = parsed
		}
	}

	singleSided := r.URL.Query().Get("single_sided") == "true"
	rounded := engine.RoundToIncrement(target, increment)

	writeJSON(w, http.StatusOK, map[string]any{
		"target":       target,
		"rounded":      rounded,
		"bar_weight":   bar,
		"single_sided": singleSided,
		"plates":       engine.DecomposePlates(rounded, bar, singleSided),
	})
}

func (s *Server) handleRegulate(w http.ResponseWriter, r *http.Request) {
	var tpl models.SessionTemplate
	if err := json.NewDecoder(r.Body).Decode(&tpl); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}

	regulated, err := engine.RegulateSession(tpl)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, regulated)
}

// adjustedSkill is a skill node with its readiness-adjusted cost.
type adjustedSkill struct {
	models.SkillNode
	FinalCost int     `json:"final_cost"`
	Modifier  float64 `json:"modifier"`
}

func (s *Server) handleListSkills(w http.ResponseWriter, r *http.Request) {
	now := time.Now()
	stored, err := s.db.LatestSnapshot(r.Context(), defaultUserID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	snapshot, _ := wellness.SnapshotOrFallback(stored, now)
	readiness := engine.EvaluateReadiness(snapshot)

	nodes, err := s.db.ListSkillNodes(r.Context(), defaultUserID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	out := make([]adjustedSkill, len(nodes))
	for i, n := range nodes {
		adj := engine.AdjustSkillCost(n, readiness.Score)
		out[i] = adjustedSkill{SkillNode: n, FinalCost: adj.FinalCost, Modifier: adj.Modifier}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"readiness_score": readiness.Score,
		"skills":          out,
	})
}

func (s *Server) handleGetSkill(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	node, err := s.db.GetSkillNode(r.Context(), defaultUserID, id)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if node == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "skill not found"})
		return
	}

	stored, err := s.db.LatestSnapshot(r.Context(), defaultUserID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	snapshot, _ := wellness.SnapshotOrFallback(stored, time.Now())
	adj := engine.AdjustSkillCost(*node, engine.EvaluateReadiness(snapshot).Score)

	writeJSON(w, http.StatusOK, adjustedSkill{SkillNode: *node, FinalCost: adj.FinalCost, Modifier: adj.Modifier})
}

type appendLogRequest struct {
	Date       models.ProviderTime `json:"date"`
	ExerciseID string              `json:"exercise_id"`
	Weight     float64             `json:"weight"`
	Reps       int                 `json:"reps"`
	RPE        float64             `json:"rpe"`
	TargetRPE  float64             `json:"target_rpe"`
}

func (s *Server) handleAppendLog(w http.ResponseWriter, r *http.Request) {
	var req appendLogRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	if req.ExerciseID == "" || req.Weight <= 0 || req.Reps <= 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "exercise_id, positive weight, and positive reps are required"})
		return
	}

	date := req.Date.Time
	if date.IsZero() {
		date = time.Now()
	}
	rpe := req.RPE
	if rpe == 0 {
		rpe = engine.RPEAtFailure
	}

	globalBest, err := s.db.GetExerciseBest(r.Context(), defaultUserID, req.ExerciseID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	sessionBest, err := s.db.GetSessionBest(r.Context(), defaultUserID, req.ExerciseID, startOfDay(date))
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	rarity := engine.ClassifySet(engine.SetResult{
		Weight:      req.Weight,
		Reps:        req.Reps,
		RPE:         rpe,
		TargetRPE:   req.TargetRPE,
		GlobalBest:  globalBest,
		SessionBest: sessionBest,
	})

	entry := models.ExerciseLogEntry{
		Date:         date,
		ExerciseID:   req.ExerciseID,
		Estimated1RM: engine.Estimated1RM(req.Weight, req.Reps, rpe),
		RPE:          rpe,
		Notable:      rarity == engine.RarityEpic || rarity == engine.RarityLegendary,
	}

	id, err := s.db.AppendLogEntry(r.Context(), defaultUserID, entry)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"id":            id,
		"estimated_1rm": entry.Estimated1RM,
		"rarity":        rarity,
		"notable":       entry.Notable,
	})
}

func (s *Server) handleQueryLog(w http.ResponseWriter, r *http.Request) {
	start, end, err := parseTimeRange(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	entries, err := s.db.QueryLog(r.Context(), start, end, defaultUserID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

func (s *Server) handleQueryEvents(w http.ResponseWriter, r *http.Request) {
	start, end, err := parseTimeRange(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	events, err := s.db.QueryEvents(r.Context(), start, end, defaultUserID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, events)
}

func (s *Server) handleLogBest(w http.ResponseWriter, r *http.Request) {
	exerciseID := r.URL.Query().Get("exercise_id")
	if exerciseID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "exercise_id parameter required"})
		return
	}

	var best float64
	var err error
	if sinceStr := r.URL.Query().Get("since"); sinceStr != "" {
		since, parseErr := time.Parse(time.RFC3339, sinceStr)
		if parseErr != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid since: " + parseErr.Error()})
			return
		}
		best, err = s.db.GetSessionBest(r.Context(), defaultUserID, exerciseID, since)
	} else {
		best, err = s.db.GetExerciseBest(r.Context(), defaultUserID, exerciseID)
	}
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"best": best})
}

func (s *Server) handleLatestSnapshot(w http.ResponseWriter, r *http.Request) {
	snapshot, err := s.db.LatestSnapshot(r.Context(), defaultUserID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"snapshot": snapshot})
}

func (s *Server) handleCardioMinutes(w http.ResponseWriter, r *http.Request) {
	since := time.Now().AddDate(0, 0, -7)
	if sinceStr := r.URL.Query().Get("since"); sinceStr != "" {
		parsed, err := time.Parse(time.RFC3339, sinceStr)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid since: " + err.Error()})
			return
		}
		since = parsed
	}

	minutes, err := s.db.CardioMinutesSince(r.Context(), defaultUserID, since)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"cardio_minutes": minutes})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func parseTimeRange(r *http.Request) (start, end time.Time, err error) {
	startStr := r.URL.Query().Get("start")
	endStr := r.URL.Query().Get("end")

	if startStr == "" {
		// Default: last 7 days
		end = time.Now()
		start = end.AddDate(0, 0, -7)
		return
	}

	start, err = time.Parse(time.RFC3339, startStr)
	if err != nil {
		start, err = time.Parse("2006-01-02", startStr)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
	}

	if endStr == "" {
		end = time.Now()
	} else {
		end, err = time.Parse(time.RFC3339, endStr)
		if err != nil {
			end, err = time.Parse("2006-01-02", endStr)
			if err != nil {
				return time.Time{}, time.Time{}, err
			}
			// End of day for date-only
			end = end.Add(24 * time.Hour)
		}
	}
	return
}
