// ABOUTME: MCP resource implementations over the synced health data store.
// ABOUTME: Provides vitalsync://today and vitalsync://recent-activities resources.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func (s *Server) registerResources() {
	s.mcpServer.AddResource(&mcp.Resource{
		URI:         "vitalsync://today",
		Name:        "Today's Health Summary",
		Description: "Daily health row for the current date",
		MIMEType:    "application/json",
	}, s.handleTodayResource)

	s.mcpServer.AddResource(&mcp.Resource{
		URI:         "vitalsync://recent-activities",
		Name:        "Recent Activities",
		Description: "Last 10 days of synced activities",
		MIMEType:    "application/json",
	}, s.handleRecentActivitiesResource)
}

func (s *Server) handleTodayResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	today := time.Now().UTC().Format("2006-01-02")

	rows, err := s.store.GetHealthMetrics(s.userID, today, today)
	if err != nil {
		return nil, fmt.Errorf("get today's health metrics: %w", err)
	}

	var result any = map[string]any{"date": today, "message": "no health data synced yet for today"}
	if len(rows) > 0 {
		result = rows[0]
	}

	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal today resource: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      "vitalsync://today",
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

func (s *Server) handleRecentActivitiesResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	end := time.Now().UTC()
	start := end.AddDate(0, 0, -9)

	acts, err := s.store.GetActivities(s.userID, start.Format("2006-01-02"), end.Format("2006-01-02"), nil)
	if err != nil {
		return nil, fmt.Errorf("get recent activities: %w", err)
	}

	result := map[string]any{
		"start":      start.Format("2006-01-02"),
		"end":        end.Format("2006-01-02"),
		"activities": acts,
		"count":      len(acts),
	}

	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal recent activities resource: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      "vitalsync://recent-activities",
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}
