package cmd

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/dt-pm-tools/jira-mcp/internal/config"
)

var (
	cfgFile   string
	appConfig config.ServerConfig
	logger    *log.Logger
	version   = "0.1.0"
)

var rootCmd = &cobra.Command{
	Use:     "jira-mcp",
	Short:   "MCP server exposing JIRA issue tools",
	Long:    `An MCP (Model Context Protocol) server that lets AI assistants create, update, and search JIRA issues. Markdown descriptions are converted to Atlassian Document Format on the way in.`,
	Version: version,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.config/jira-mcp/config.yaml)")
}

// loadConfig loads and validates configuration and sets up the logger.
// Commands that need JIRA access call this. The logger writes to stderr
// because stdout belongs to the stdio transport.
func loadConfig() error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w\nRun 'jira-mcp config' to set up credentials", err)
	}
	appConfig = cfg

	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("parsing log level: %w", err)
	}
	logger = log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Level:           level,
	})
	return nil
}
