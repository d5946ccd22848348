package main

import (
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/aretw0/optionsbot/pkg/adapters/mcp"
)

func newMCPCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Run the Model Context Protocol (MCP) server",
		Long: `Starts optionsbot as an MCP Server so AI agents can compile, format and
simulate programs as tools.

Supported Transports:
- stdio (default): Uses Standard Input/Output. Ideal for local process integration.
- sse: Uses Server-Sent Events over HTTP. Ideal for remote agents or debuggers.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			transport, _ := cmd.Flags().GetString("transport")
			port, _ := cmd.Flags().GetInt("port")
			logger := loggerFrom(cmd)

			eng, cleanup, err := buildEngine(cmd, engineSetup{})
			if err != nil {
				return err
			}
			defer cleanup()

			srv := mcp.NewServer(eng, mcp.WithLogger(logger))

			switch transport {
			case "stdio":
				// Ensure logs don't corrupt JSON-RPC on Stdout
				log.SetOutput(cmd.ErrOrStderr())
				logger.Info("starting optionsbot MCP server (stdio)")
				return srv.ServeStdio()
			case "sse":
				logger.Info("starting optionsbot MCP server (SSE)", "port", port)
				if err := srv.ServeSSE(cmd.Context(), port); err != nil && !errors.Is(err, http.ErrServerClosed) {
					return err
				}
				logger.Info("MCP server stopped gracefully")
				return nil
			default:
				return fmt.Errorf("unknown transport: %s. Supported: stdio, sse", transport)
			}
		},
	}
	cmd.Flags().StringP("transport", "t", "stdio", "Transport (stdio, sse)")
	cmd.Flags().Int("port", 8081, "Port for the SSE transport")
	return cmd
}
