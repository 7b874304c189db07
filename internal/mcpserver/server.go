// ABOUTME: MCP server setup for the synced health data store.
// ABOUTME: Wraps MCP server with read-only storage access.
package mcpserver

import (
	"context"

	"github.com/arborhealth/vitalsync/internal/storage"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Server wraps the MCP server with read-only access to the Repository
// populated by the sync engine. It never writes: every tool and
// resource here is a query, so it is safe to run alongside (or well
// after) a sync without any write-conflict risk.
//
// Tools take user_id as an explicit input field, but resources have no
// input and so are scoped to the one userID the server was built for
// (one vendor account per running MCP server process).
type Server struct {
	mcpServer *mcp.Server
	store     storage.Repository
	userID    int64
}

// NewServer creates an MCP server exposing store's query surface as
// tools and resources, with resources scoped to userID.
func NewServer(store storage.Repository, userID int64) *Server {
	mcpServer := mcp.NewServer(
		&mcp.Implementation{
			Name:    "vitalsync",
			Version: "1.0.0",
		},
		nil,
	)

	s := &Server{
		mcpServer: mcpServer,
		store:     store,
		userID:    userID,
	}

	s.registerTools()
	s.registerResources()

	return s
}

// Serve runs the MCP server on stdio until ctx is canceled.
func (s *Server) Serve(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcp.StdioTransport{})
}
