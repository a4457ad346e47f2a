package commands

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"marketsim/internal/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the Model Context Protocol server over stdio",
	RunE: func(cmd *cobra.Command, args []string) error {
		log.Info().Msg("MCP server starting stdio loop")
		server := mcp.NewServer(cfg)
		return server.Start()
	},
}
