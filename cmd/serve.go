package cmd

import (
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	"github.com/dt-pm-tools/jira-mcp/internal/tools"
)

var (
	serveTransport string
	servePort      int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Starts the MCP server and registers the JIRA tools. The stdio transport
is for clients that spawn the server as a subprocess; sse serves HTTP
clients on --port.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := loadConfig(); err != nil {
			return err
		}

		srv := server.NewMCPServer(appConfig.Name, version,
			server.WithToolCapabilities(false),
			server.WithRecovery(),
		)
		tools.NewService(appConfig, logger).Register(srv)

		switch strings.ToLower(serveTransport) {
		case "stdio":
			logger.Info("serving on stdio", "config", appConfig.Path())
			return server.ServeStdio(srv)
		case "sse":
			addr := fmt.Sprintf(":%d", servePort)
			logger.Info("serving SSE", "addr", addr, "config", appConfig.Path())
			return server.NewSSEServer(srv).Start(addr)
		default:
			return fmt.Errorf("unknown transport %q (want stdio or sse)", serveTransport)
		}
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveTransport, "transport", "stdio", "transport type (stdio or sse)")
	serveCmd.Flags().IntVar(&servePort, "port", 3001, "port to listen on for SSE")
	rootCmd.AddCommand(serveCmd)
}
