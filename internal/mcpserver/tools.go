// ABOUTME: MCP tool implementations over the synced health data store.
// ABOUTME: Every tool here is read-only: list activities, daily health rows, timeseries samples.
package mcpserver

import (
	"context"
	"fmt"

	"github.com/arborhealth/vitalsync/internal/metrics"
	"github.com/arborhealth/vitalsync/internal/models"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func (s *Server) registerTools() {
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "list_activities",
		Description: "List synced activities for a user within a date range",
	}, s.handleListActivities)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "get_daily_health",
		Description: "Get daily health summary rows (steps, HR, sleep, stress, ...) for a user within a date range",
	}, s.handleGetDailyHealth)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "get_timeseries",
		Description: "Get high-frequency timeseries samples (heart rate, stress, body battery, respiration) for a user within a millisecond timestamp range",
	}, s.handleGetTimeseries)
}

// Tool input types

type listActivitiesInput struct {
	UserID       int64  `json:"user_id" jsonschema:"description=Vendor account user id,required"`
	Start        string `json:"start" jsonschema:"description=Start date (YYYY-MM-DD),required"`
	End          string `json:"end" jsonschema:"description=End date (YYYY-MM-DD),required"`
	ActivityType string `json:"activity_type,omitempty" jsonschema:"description=Filter by activity type (e.g. running, cycling)"`
	Limit        int    `json:"limit,omitempty" jsonschema:"description=Max results (default 50)"`
}

type getDailyHealthInput struct {
	UserID int64  `json:"user_id" jsonschema:"description=Vendor account user id,required"`
	Start  string `json:"start" jsonschema:"description=Start date (YYYY-MM-DD),required"`
	End    string `json:"end" jsonschema:"description=End date (YYYY-MM-DD),required"`
}

type getTimeseriesInput struct {
	UserID  int64  `json:"user_id" jsonschema:"description=Vendor account user id,required"`
	Kind    string `json:"kind" jsonschema:"description=Metric kind with a timeseries (heart_rate, stress, body_battery, respiration),required"`
	StartMS int64  `json:"start_ms" jsonschema:"description=Start of the range in unix milliseconds,required"`
	EndMS   int64  `json:"end_ms" jsonschema:"description=End of the range in unix milliseconds,required"`
}

// Tool handlers

func (s *Server) handleListActivities(ctx context.Context, req *mcp.CallToolRequest, input listActivitiesInput) (*mcp.CallToolResult, any, error) {
	if input.Limit <= 0 {
		input.Limit = 50
	}

	var typeFilter *string
	if input.ActivityType != "" {
		typeFilter = &input.ActivityType
	}

	acts, err := s.store.GetActivities(input.UserID, input.Start, input.End, typeFilter)
	if err != nil {
		return nil, nil, fmt.Errorf("list activities: %w", err)
	}
	if len(acts) > input.Limit {
		acts = acts[:input.Limit]
	}
	if len(acts) == 0 {
		return nil, map[string]any{"message": "no activities found for that range"}, nil
	}
	return nil, acts, nil
}

func (s *Server) handleGetDailyHealth(ctx context.Context, req *mcp.CallToolRequest, input getDailyHealthInput) (*mcp.CallToolResult, any, error) {
	rows, err := s.store.GetHealthMetrics(input.UserID, input.Start, input.End)
	if err != nil {
		return nil, nil, fmt.Errorf("get daily health: %w", err)
	}
	if len(rows) == 0 {
		return nil, map[string]any{"message": "no daily health rows found for that range"}, nil
	}
	return nil, rows, nil
}

func (s *Server) handleGetTimeseries(ctx context.Context, req *mcp.CallToolRequest, input getTimeseriesInput) (*mcp.CallToolResult, any, error) {
	kind := models.MetricKind(input.Kind)
	if _, ok := metrics.Registry[kind]; !ok {
		return nil, nil, fmt.Errorf("unknown metric kind %q", input.Kind)
	}
	if !kind.HasTimeseries() {
		return nil, nil, fmt.Errorf("metric kind %q has no timeseries data", input.Kind)
	}

	points, err := s.store.GetTimeseries(input.UserID, kind, input.StartMS, input.EndMS)
	if err != nil {
		return nil, nil, fmt.Errorf("get timeseries: %w", err)
	}
	if len(points) == 0 {
		return nil, map[string]any{"message": "no timeseries points found for that range"}, nil
	}
	return nil, points, nil
}
