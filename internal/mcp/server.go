// Package mcp exposes the recommendation engine to model-context-protocol
// clients. Tools fetch data through a DataSource and run the pure engine on
// it, so an assistant gets the same answers the REST API serves.
package mcp

import (
	"context"
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

type contextKey int

const userIDKey contextKey = iota

// UserIDFromContext extracts the user ID injected by the transport layer.
func UserIDFromContext(ctx context.Context) int {
	if id, ok := ctx.Value(userIDKey).(int); ok {
		return id
	}
	return 1
}

// WithUserID returns a context with the given user ID.
func WithUserID(ctx context.Context, userID int) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// New creates an MCP server with all tools and resources registered.
func New(ds DataSource, version string, log *slog.Logger) *server.MCPServer {
	s := server.NewMCPServer("IronQuest", version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
		server.WithInstructions("IronQuest training engine. Query today's session recommendation, readiness, training balance, set classification, plate math, and skill costs. All data is scoped to the authenticated user."),
	)

	h := &handlers{ds: ds, log: log}

	// Tools
	s.AddTools(
		server.ServerTool{Tool: toolGetRecommendation, Handler: h.getRecommendation},
		server.ServerTool{Tool: toolGetReadiness, Handler: h.getReadiness},
		server.ServerTool{Tool: toolGetTrainingBalance, Handler: h.getTrainingBalance},
		server.ServerTool{Tool: toolClassifySet, Handler: h.classifySet},
		server.ServerTool{Tool: toolPlateMath, Handler: h.plateMath},
		server.ServerTool{Tool: toolRegulateSession, Handler: h.regulateSession},
		server.ServerTool{Tool: toolGetSkillCosts, Handler: h.getSkillCosts},
		server.ServerTool{Tool: toolGetExerciseLog, Handler: h.getExerciseLog},
		server.ServerTool{Tool: toolGetEvents, Handler: h.getEvents},
	)

	// Resources
	s.AddResources(
		server.ServerResource{Resource: resDailyRecommendation, Handler: h.dailyRecommendation},
		server.ServerResource{Resource: resTrainingBalance, Handler: h.trainingBalance},
		server.ServerResource{Resource: resSkillCosts, Handler: h.skillCosts},
	)

	return s
}

// handlers holds dependencies for MCP tool/resource handlers.
type handlers struct {
	ds  DataSource
	log *slog.Logger
}

// --- Resource definitions ---

var resDailyRecommendation = mcp.NewResource(
	"ironquest://daily_recommendation",
	"Daily Recommendation",
	mcp.WithResourceDescription("Today's session recommendation with readiness and training-balance context"),
	mcp.WithMIMEType("application/json"),
)

var resTrainingBalance = mcp.NewResource(
	"ironquest://training_balance",
	"Training Balance",
	mcp.WithResourceDescription("The strength/endurance/wellness balance indices and the weakest dimension"),
	mcp.WithMIMEType("application/json"),
)

var resSkillCosts = mcp.NewResource(
	"ironquest://skill_costs",
	"Skill Costs",
	mcp.WithResourceDescription("All skill nodes with readiness-adjusted costs"),
	mcp.WithMIMEType("application/json"),
)
