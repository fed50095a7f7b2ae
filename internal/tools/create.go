package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/spf13/cast"

	"github.com/dt-pm-tools/jira-mcp/internal/jira"
)

// CreateIssueRequest carries the arguments of the create_jira_issue tool.
type CreateIssueRequest struct {
	Project     string
	Summary     string
	Description string // markdown
	IssueType   string
	SiteAlias   string
	Assignee    string // email or account ID
	Labels      []string
	Priority    string
	DueDate     string
	Extra       map[string]any
}

// CreateIssue converts the markdown description to ADF, resolves the
// assignee, creates the issue and returns the user-facing confirmation.
func (s *Service) CreateIssue(ctx context.Context, req CreateIssueRequest) (string, error) {
	logger := s.callLogger("create_jira_issue")

	if req.IssueType == "" {
		req.IssueType = "Task"
	}

	client, err := s.clientFor(req.SiteAlias)
	if err != nil {
		return "", err
	}

	accountID, err := s.resolveAssignee(ctx, client, req.Assignee)
	if err != nil {
		return "", err
	}

	doc := s.converter.Convert(req.Description)
	logger.Debug("converted description", "blocks", len(doc.Content))

	created, err := client.CreateIssue(ctx, jira.CreateIssueInput{
		Project:     req.Project,
		Summary:     req.Summary,
		Description: doc,
		IssueType:   req.IssueType,
		AccountID:   accountID,
		Labels:      req.Labels,
		Priority:    req.Priority,
		DueDate:     req.DueDate,
		Extra:       req.Extra,
	})
	if err != nil {
		return "", err
	}

	url := client.BrowseURL(created.Key)
	logger.Info("created issue", "key", created.Key, "url", url)

	return fmt.Sprintf("Successfully created JIRA issue: %s (ID: %s). URL: %s", created.Key, created.ID, url), nil
}

// resolveAssignee turns an email address into an account ID; anything
// without an @ is taken to be an account ID already.
func (s *Service) resolveAssignee(ctx context.Context, client *jira.Client, assignee string) (string, error) {
	if assignee == "" {
		return "", nil
	}
	if !strings.Contains(assignee, "@") {
		return assignee, nil
	}
	id, err := client.FindAccountID(ctx, assignee)
	if err != nil {
		return "", fmt.Errorf("resolving assignee: %w", err)
	}
	return id, nil
}

func (s *Service) handleCreateIssue(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	project, err := request.RequireString("project")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	summary, err := request.RequireString("summary")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	description, err := request.RequireString("description")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	args := request.GetArguments()
	extra, _ := args["additional_fields"].(map[string]any)

	text, err := s.CreateIssue(ctx, CreateIssueRequest{
		Project:     project,
		Summary:     summary,
		Description: description,
		IssueType:   request.GetString("issue_type", ""),
		SiteAlias:   request.GetString("site_alias", ""),
		Assignee:    request.GetString("assignee", ""),
		Labels:      cast.ToStringSlice(args["labels"]),
		Priority:    request.GetString("priority", ""),
		DueDate:     request.GetString("due_date", ""),
		Extra:       extra,
	})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Error creating JIRA issue: %v", err)), nil
	}
	return mcp.NewToolResultText(text), nil
}
