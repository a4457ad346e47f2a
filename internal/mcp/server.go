// Package mcp exposes the Monte Carlo driver over the Model Context
// Protocol: a single run_market_simulation tool that decodes a run
// configuration, sanitizes it against the configured ceilings, executes the
// driver, and returns the aggregate plus risk/optimizer reports.
package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog/log"

	"marketsim/internal/config"
)

// Server wraps the go-sdk MCP server with the application config the tool
// handlers need for their sanitization ceilings.
type Server struct {
	cfg       *config.AppConfig
	mcpServer *mcp.Server
}

// NewServer constructs the MCP server and registers its tools.
func NewServer(cfg *config.AppConfig) *Server {
	impl := &mcp.Implementation{Name: "marketsim", Version: "0.1.0"}
	mcpServer := mcp.NewServer(impl, nil)

	s := &Server{cfg: cfg, mcpServer: mcpServer}

	mcp.AddTool(mcpServer, &mcp.Tool{
		Name:        "run_market_simulation",
		Description: "Run a Monte Carlo adversarial market simulation and return aggregated KPIs plus risk/optimizer reports.",
	}, s.runMarketSimulation)

	return s
}

// Start runs the server's stdio loop until the client disconnects.
func (s *Server) Start() error {
	log.Info().Msg("MCP server starting stdio loop")
	return s.mcpServer.Run(context.Background(), &mcp.StdioTransport{})
}
