package mcp

import (
	"context"
	"encoding/json"
	"time"

	"github.com/claude/ironquest/internal/engine"
	"github.com/claude/ironquest/internal/models"
	"github.com/claude/ironquest/internal/wellness"
	"github.com/mark3labs/mcp-go/mcp"
)

// historyWindowDays bounds how much log history an engine evaluation loads.
const historyWindowDays = 28

// Referenced progression template IDs, mirroring the REST layer.
const (
	strengthTemplateID    = "tpl-strength-a"
	maintenanceTemplateID = "tpl-maintenance-a"
)

// defaultTimeRange returns start/end defaulting to the last 7 days.
func defaultTimeRange(startStr, endStr string) (time.Time, time.Time, error) {
	var start, end time.Time
	var err error

	if endStr != "" {
		end, err = parseFlexTime(endStr)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
	} else {
		end = time.Now()
	}

	if startStr != "" {
		start, err = parseFlexTime(startStr)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
	} else {
		start = end.AddDate(0, 0, -7)
	}

	return start, end, nil
}

func parseFlexTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, s)
	if err == nil {
		return t, nil
	}
	t, err = time.Parse("2006-01-02", s)
	if err == nil {
		return t, nil
	}
	return time.Time{}, err
}

// --- Tool definitions ---

var toolGetRecommendation = mcp.NewTool("get_recommendation",
	mcp.WithDescription("Run the recommendation ladder for today. Returns the session recommendation (type, title, rationale, priority, session or template reference) plus readiness and training-balance context."),
)

var toolGetReadiness = mcp.NewTool("get_readiness",
	mcp.WithDescription("Evaluate current readiness from the latest wellness snapshot: composite 0-100 score, state (compromised/nominal/primed), rested flag, and the stricter pre-workout gate."),
	mcp.WithBoolean("tolerant", mcp.Description("Apply the reduced fatigue threshold (fatigue-tolerance upgrade active). Defaults to false.")),
)

var toolGetTrainingBalance = mcp.NewTool("get_training_balance",
	mcp.WithDescription("Compute the training-balance indices (strength, endurance, wellness, each 0-100) and name the weakest dimension."),
)

var toolClassifySet = mcp.NewTool("classify_set",
	mcp.WithDescription("Grade a completed set against PR history. Returns the rarity tier (common/rare/epic/legendary), the estimated 1RM, and whether the set counts as notable."),
	mcp.WithString("exercise_id", mcp.Required(), mcp.Description("Exercise identifier (e.g. back_squat)")),
	mcp.WithNumber("weight", mcp.Required(), mcp.Description("Weight lifted in kg")),
	mcp.WithNumber("reps", mcp.Required(), mcp.Description("Reps completed")),
	mcp.WithNumber("rpe", mcp.Description("Rating of perceived exertion 1-10. Defaults to 10 (no reps in reserve).")),
	mcp.WithNumber("target_rpe", mcp.Description("The programmed target RPE for the set")),
)

var toolPlateMath = mcp.NewTool("plate_math",
	mcp.WithDescription("Round a target weight to the loading increment and decompose it into per-side plates."),
	mcp.WithNumber("target", mcp.Required(), mcp.Description("Target weight in kg")),
	mcp.WithNumber("bar", mcp.Description("Bar weight in kg. Defaults to 20.")),
	mcp.WithNumber("increment", mcp.Description("Rounding increment in kg. Defaults to 2.5.")),
	mcp.WithBoolean("single_sided", mcp.Description("Decompose the full load instead of per side (dumbbell/machine). Defaults to false.")),
)

var toolRegulateSession = mcp.NewTool("regulate_session",
	mcp.WithDescription("Rewrite a session template for a compromised athlete: intensity capped at 60% of training max, PR attempts stripped, percent-loaded exercises truncated to three sets. The input template is not modified."),
	mcp.WithString("session", mcp.Required(), mcp.Description("The session template as JSON (id, display_name, blocks)")),
)

var toolGetSkillCosts = mcp.NewTool("get_skill_costs",
	mcp.WithDescription("List all skill nodes with their readiness-adjusted costs. Fresh athletes get discounts on strength/endurance nodes, fatigued ones pay a premium."),
)

var toolGetExerciseLog = mcp.NewTool("get_exercise_log",
	mcp.WithDescription("Query the append-only exercise log: date, exercise, estimated 1RM, RPE, and notable flag per entry, ordered by date ascending."),
	mcp.WithString("start", mcp.Description("Start date (ISO 8601 or YYYY-MM-DD). Defaults to 7 days ago.")),
	mcp.WithString("end", mcp.Description("End date (ISO 8601 or YYYY-MM-DD). Defaults to now.")),
)

var toolGetEvents = mcp.NewTool("get_events",
	mcp.WithDescription("Query calendar events plus the current event horizon: whether a race just finished, is imminent, or is in taper range."),
	mcp.WithString("start", mcp.Description("Start date. Defaults to 7 days ago.")),
	mcp.WithString("end", mcp.Description("End date. Defaults to 14 days ahead.")),
)

// --- Tool handlers ---

// cycleInput loads everything one engine evaluation needs, mirroring the REST
// layer's recommendation cycle.
func (h *handlers) cycleInput(ctx context.Context, now time.Time, uid int) (engine.OracleInput, bool, error) {
	stored, err := h.ds.LatestSnapshot(ctx, uid)
	if err != nil {
		return engine.OracleInput{}, false, err
	}
	snapshot, simulated := wellness.SnapshotOrFallback(stored, now)

	history, err := h.ds.QueryLog(ctx, now.AddDate(0, 0, -historyWindowDays), now, uid)
	if err != nil {
		return engine.OracleInput{}, false, err
	}

	events, err := h.ds.QueryEvents(ctx, now.AddDate(0, 0, -3), now.AddDate(0, 0, 8), uid)
	if err != nil {
		return engine.OracleInput{}, false, err
	}

	cardio, err := h.ds.CardioMinutesSince(ctx, uid, now.AddDate(0, 0, -7))
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

func (h *handlers) recommendationPayload(ctx context.Context, uid int) (map[string]any, error) {
	in, simulated, err := h.cycleInput(ctx, time.Now(), uid)
	if err != nil {
		return nil, err
	}

	return map[string]any{
		"recommendation": engine.Recommend(in),
		"readiness":      engine.EvaluateReadiness(in.Snapshot),
		"balance": engine.ComputeTTB(engine.TTBInput{
			Now:             in.Now,
			Snapshot:        in.Snapshot,
			History:         in.History,
			CardioMinutes7d: in.CardioMinutes7d,
		}),
		"snapshot_simulated": simulated,
	}, nil
}

func (h *handlers) getRecommendation(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	payload, err := h.recommendationPayload(ctx, UserIDFromContext(ctx))
	if err != nil {
		h.log.Error("mcp get_recommendation", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(payload)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getReadiness(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	uid := UserIDFromContext(ctx)

	stored, err := h.ds.LatestSnapshot(ctx, uid)
	if err != nil {
		h.log.Error("mcp get_readiness", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	snapshot, simulated := wellness.SnapshotOrFallback(stored, time.Now())

	threshold := engine.DefaultFatigueThreshold
	if req.GetBool("tolerant", false) {
		threshold = engine.TolerantFatigueThreshold
	}

	result, err := mcp.NewToolResultJSON(map[string]any{
		"readiness":               engine.EvaluateReadiness(snapshot),
		"pre_workout_compromised": engine.PreWorkoutCompromised(snapshot, threshold),
		"fatigue_threshold":       threshold,
		"snapshot_simulated":      simulated,
	})
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getTrainingBalance(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	in, simulated, err := h.cycleInput(ctx, time.Now(), UserIDFromContext(ctx))
	if err != nil {
		h.log.Error("mcp get_training_balance", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(map[string]any{
		"balance": engine.ComputeTTB(engine.TTBInput{
			Now:             in.Now,
			Snapshot:        in.Snapshot,
			History:         in.History,
			CardioMinutes7d: in.CardioMinutes7d,
		}),
		"snapshot_simulated": simulated,
	})
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) classifySet(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	exerciseID, err := req.RequireString("exercise_id")
	if err != nil {
		return mcp.NewToolResultError("exercise_id parameter is required"), nil
	}
	weight, err := req.RequireFloat("weight")
	if err != nil {
		return mcp.NewToolResultError("weight parameter is required"), nil
	}
	reps, err := req.RequireInt("reps")
	if err != nil {
		return mcp.NewToolResultError("reps parameter is required"), nil
	}

	rpe := req.GetFloat("rpe", engine.RPEAtFailure)
	targetRPE := req.GetFloat("target_rpe", 0)
	uid := UserIDFromContext(ctx)
	now := time.Now()

	globalBest, err := h.ds.GetExerciseBest(ctx, uid, exerciseID)
	if err != nil {
		h.log.Error("mcp classify_set", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	sessionBest, err := h.ds.GetSessionBest(ctx, uid, exerciseID, dayStart)
	if err != nil {
		h.log.Error("mcp classify_set", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	rarity := engine.ClassifySet(engine.SetResult{
		Weight:      weight,
		Reps:        reps,
		RPE:         rpe,
		TargetRPE:   targetRPE,
		GlobalBest:  globalBest,
		SessionBest: sessionBest,
	})

	result, err := mcp.NewToolResultJSON(map[string]any{
		"rarity":        rarity,
		"estimated_1rm": engine.Estimated1RM(weight, reps, rpe),
		"notable":       rarity == engine.RarityEpic || rarity == engine.RarityLegendary,
	})
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) plateMath(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	target, err := req.RequireFloat("target")
	if err != nil || target <= 0 {
		return mcp.NewToolResultError("target parameter is required (positive kg)"), nil
	}

	bar := req.GetFloat("bar", engine.DefaultBarWeightKg)
	increment := req.GetFloat("increment", engine.DefaultIncrementKg)
	singleSided := req.GetBool("single_sided", false)

	rounded := engine.RoundToIncrement(target, increment)
	result, err := mcp.NewToolResultJSON(map[string]any{
		"target":       target,
		"rounded":      rounded,
		"bar_weight":   bar,
		"single_sided": singleSided,
		"plates":       engine.DecomposePlates(rounded, bar, singleSided),
	})
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) regulateSession(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	raw, err := req.RequireString("session")
	if err != nil {
		return mcp.NewToolResultError("session parameter is required"), nil
	}

	var tpl models.SessionTemplate
	if err := json.Unmarshal([]byte(raw), &tpl); err != nil {
		return mcp.NewToolResultError("invalid session JSON: " + err.Error()), nil
	}

	regulated, err := engine.RegulateSession(tpl)
	if err != nil {
		return mcp.NewToolResultError("regulation failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(regulated)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) skillCostsPayload(ctx context.Context, uid int) (map[string]any, error) {
	stored, err := h.ds.LatestSnapshot(ctx, uid)
	if err != nil {
		return nil, err
	}
	snapshot, _ := wellness.SnapshotOrFallback(stored, time.Now())
	readiness := engine.EvaluateReadiness(snapshot)

	nodes, err := h.ds.ListSkillNodes(ctx, uid)
	if err != nil {
		return nil, err
	}

	type costed struct {
		ID        string  `json:"id"`
		Name      string  `json:"name"`
		Category  string  `json:"category"`
		BaseCost  int     `json:"base_cost"`
		FinalCost int     `json:"final_cost"`
		Modifier  float64 `json:"modifier"`
	}
	out := make([]costed, len(nodes))
	for i, n := range nodes {
		adj := engine.AdjustSkillCost(n, readiness.Score)
		out[i] = costed{
			ID:        n.ID,
			Name:      n.Name,
			Category:  string(n.Category),
			BaseCost:  n.BaseCost,
			FinalCost: adj.FinalCost,
			Modifier:  adj.Modifier,
		}
	}

	return map[string]any{
		"readiness_score": readiness.Score,
		"skills":          out,
	}, nil
}

func (h *handlers) getSkillCosts(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	payload, err := h.skillCostsPayload(ctx, UserIDFromContext(ctx))
	if err != nil {
		h.log.Error("mcp get_skill_costs", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(payload)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getExerciseLog(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	start, end, err := defaultTimeRange(req.GetString("start", ""), req.GetString("end", ""))
	if err != nil {
		return mcp.NewToolResultError("invalid date format: " + err.Error()), nil
	}

	entries, err := h.ds.QueryLog(ctx, start, end, UserIDFromContext(ctx))
	if err != nil {
		h.log.Error("mcp get_exercise_log", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(entries)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getEvents(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	now := time.Now()
	start, end, err := defaultTimeRange(req.GetString("start", ""), req.GetString("end", ""))
	if err != nil {
		return mcp.NewToolResultError("invalid date format: " + err.Error()), nil
	}
	if req.GetString("end", "") == "" {
		end = now.AddDate(0, 0, 14)
	}

	events, err := h.ds.QueryEvents(ctx, start, end, UserIDFromContext(ctx))
	if err != nil {
		h.log.Error("mcp get_events", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(map[string]any{
		"events":  events,
		"horizon": engine.ClassifyEvents(now, events),
	})
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

// --- Resource handlers ---

func (h *handlers) dailyRecommendation(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	payload, err := h.recommendationPayload(ctx, UserIDFromContext(ctx))
	if err != nil {
		return nil, err
	}
	return jsonResource(req.Params.URI, payload)
}

func (h *handlers) trainingBalance(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	in, _, err := h.cycleInput(ctx, time.Now(), UserIDFromContext(ctx))
	if err != nil {
		return nil, err
	}

	return jsonResource(req.Params.URI, engine.ComputeTTB(engine.TTBInput{
		Now:             in.Now,
		Snapshot:        in.Snapshot,
		History:         in.History,
		CardioMinutes7d: in.CardioMinutes7d,
	}))
}

func (h *handlers) skillCosts(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	payload, err := h.skillCostsPayload(ctx, UserIDFromContext(ctx))
	if err != nil {
		return nil, err
	}
	return jsonResource(req.Params.URI, payload)
}

func jsonResource(uri string, v any) ([]mcp.ResourceContents, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
