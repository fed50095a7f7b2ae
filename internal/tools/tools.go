// Package tools implements the MCP tools exposed by the server: echo plus
// the JIRA issue tools. Handlers are thin wrappers over the implementation
// methods so the business logic stays callable and testable on its own.
package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/dt-pm-tools/jira-mcp/internal/adf"
	"github.com/dt-pm-tools/jira-mcp/internal/config"
	"github.com/dt-pm-tools/jira-mcp/internal/jira"
)

// Service holds everything the tool handlers need: the site configuration,
// a logger, and a shared markdown converter.
type Service struct {
	cfg       config.ServerConfig
	logger    *log.Logger
	converter *adf.Converter
}

// NewService builds a Service over the given configuration.
func NewService(cfg config.ServerConfig, logger *log.Logger) *Service {
	return &Service{
		cfg:       cfg,
		logger:    logger,
		converter: adf.New(adf.WithLogger(logger)),
	}
}

// Register adds every tool to the MCP server.
func (s *Service) Register(srv *server.MCPServer) {
	srv.AddTool(mcp.NewTool("echo",
		mcp.WithDescription("Echo back the input text with optional case transformation"),
		mcp.WithString("text", mcp.Required(), mcp.Description("Text to echo back")),
		mcp.WithString("transform", mcp.Description("Optional transformation: upper or lower")),
	), s.handleEcho)

	srv.AddTool(mcp.NewTool("create_jira_issue",
		mcp.WithDescription("Creates a new JIRA issue from Markdown description. "+
			"Code must be passed in fenced code blocks with a language tag."),
		mcp.WithString("project", mcp.Required(), mcp.Description("Project key, e.g. ENG")),
		mcp.WithString("summary", mcp.Required(), mcp.Description("Issue summary")),
		mcp.WithString("description", mcp.Required(), mcp.Description("Issue description in Markdown")),
		mcp.WithString("issue_type", mcp.Description("Issue type name (default Task)")),
		mcp.WithString("site_alias", mcp.Description("Which configured JIRA site to use")),
		mcp.WithString("assignee", mcp.Description("Assignee email address or account ID")),
		mcp.WithArray("labels", mcp.Description("Labels to set on the issue")),
		mcp.WithString("priority", mcp.Description("Priority name, e.g. High")),
		mcp.WithString("due_date", mcp.Description("Due date in YYYY-MM-DD format")),
		mcp.WithObject("additional_fields", mcp.Description("Extra JIRA fields passed through verbatim")),
	), s.handleCreateIssue)

	srv.AddTool(mcp.NewTool("update_jira_issue",
		mcp.WithDescription("Updates an existing JIRA issue. Only provided fields will be updated."),
		mcp.WithString("issue_key", mcp.Required(), mcp.Description("Key of the issue to update, e.g. ENG-42")),
		mcp.WithString("summary", mcp.Description("New summary")),
		mcp.WithString("description", mcp.Description("New description in Markdown")),
		mcp.WithString("issue_type", mcp.Description("New issue type name")),
		mcp.WithString("site_alias", mcp.Description("Which configured JIRA site to use")),
		mcp.WithString("assignee", mcp.Description("New assignee email address or account ID")),
		mcp.WithArray("labels", mcp.Description("Labels replacing the issue's current labels")),
		mcp.WithString("priority", mcp.Description("New priority name, e.g. High")),
		mcp.WithString("due_date", mcp.Description("New due date in YYYY-MM-DD format")),
		mcp.WithObject("additional_fields", mcp.Description("Extra JIRA fields passed through verbatim")),
	), s.handleUpdateIssue)

	srv.AddTool(mcp.NewTool("search_jira_issues",
		mcp.WithDescription("Search for Jira issues using JQL (Jira Query Language) syntax"),
		mcp.WithString("query", mcp.Required(), mcp.Description(`JQL query, e.g. "project = ENG AND status = 'In Progress'"`)),
		mcp.WithString("site_alias", mcp.Description("Which configured JIRA site to use")),
		mcp.WithNumber("max_results", mcp.Description("Result limit (default 50)")),
	), s.handleSearchIssues)
}

// callLogger returns a logger carrying a correlation id for one tool call.
func (s *Service) callLogger(tool string) *log.Logger {
	return s.logger.With("tool", tool, "call_id", uuid.NewString()[:8])
}

// clientFor resolves a site alias and builds a client for it.
func (s *Service) clientFor(alias string) (*jira.Client, error) {
	site, err := s.cfg.Site(alias)
	if err != nil {
		return nil, err
	}
	return jira.NewClient(site), nil
}

// Echo returns text with the optional transform applied.
func (s *Service) Echo(text, transform string) (string, error) {
	switch strings.ToLower(transform) {
	case "":
		return text, nil
	case "upper":
		return strings.ToUpper(text), nil
	case "lower":
		return strings.ToLower(text), nil
	default:
		return "", fmt.Errorf("unknown transform %q (want upper or lower)", transform)
	}
}

func (s *Service) handleEcho(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text, err := request.RequireString("text")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	out, err := s.Echo(text, request.GetString("transform", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(out), nil
}
